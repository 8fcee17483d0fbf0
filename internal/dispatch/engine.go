// Package dispatch resolves an inbound share/notify request to the
// right collaboration client and invokes it. The engine holds no
// state; every request is a resolve-and-invoke pipeline with two
// guards in front.
package dispatch

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sightline/internal/metrics"
	"sightline/pkg/integrations"
	"sightline/pkg/providers"
	"sightline/pkg/tenants"
)

type Engine struct {
	store       integrations.Store
	reg         *providers.Registry
	defaultBase string
	log         *zap.SugaredLogger
}

func New(store integrations.Store, reg *providers.Registry, defaultBase string, log *zap.SugaredLogger) *Engine {
	return &Engine{store: store, reg: reg, defaultBase: defaultBase, log: log}
}

// Notify routes one share request. Unknown integration types and
// source kinds return (nil, nil), which the HTTP layer renders as
// {"data": null}; only resolution and vendor failures are errors.
func (e *Engine) Notify(ctx context.Context, tenant *tenants.Tenant, req integrations.ShareRequest) (any, error) {
	client, ok := e.reg.Collaborator(req.IntegrationType)
	if !ok {
		metrics.DispatchTotal.WithLabelValues(string(req.IntegrationType), req.SourceKind, "unmatched").Inc()
		return nil, nil
	}
	if req.SourceKind != integrations.SourceSessions && req.SourceKind != integrations.SourceErrors {
		metrics.DispatchTotal.WithLabelValues(string(req.IntegrationType), req.SourceKind, "unmatched").Inc()
		return nil, nil
	}

	wh, err := e.store.GetWebhook(ctx, tenant.ID, req.WebhookID)
	if err != nil {
		metrics.DispatchTotal.WithLabelValues(string(req.IntegrationType), req.SourceKind, "error").Inc()
		if integrations.IsNotFound(err) {
			return nil, integrations.NotFound(string(req.IntegrationType) + " integration")
		}
		return nil, err
	}
	if wh.Type != req.IntegrationType {
		metrics.DispatchTotal.WithLabelValues(string(req.IntegrationType), req.SourceKind, "error").Inc()
		return nil, integrations.NotFound(string(req.IntegrationType) + " integration")
	}

	msg := providers.ShareMessage{
		Endpoint:    wh.Endpoint,
		Comment:     req.Comment,
		Actor:       req.Actor,
		ProjectName: req.ProjectName,
	}
	base := strings.TrimRight(tenant.BasePublicURL, "/")
	if base == "" {
		base = strings.TrimRight(e.defaultBase, "/")
	}
	var out any
	switch req.SourceKind {
	case integrations.SourceSessions:
		msg.Title = "Open session"
		msg.Link = base + "/" + req.ProjectID + "/session/" + req.SourceID
		out, err = client.ShareSession(ctx, msg)
	case integrations.SourceErrors:
		msg.Title = "Open error"
		msg.Link = base + "/" + req.ProjectID + "/errors/" + req.SourceID
		out, err = client.ShareError(ctx, msg)
	}
	if err != nil {
		metrics.DispatchTotal.WithLabelValues(string(req.IntegrationType), req.SourceKind, "error").Inc()
		e.log.Warnw("share dispatch failed",
			"tenant", tenant.ID, "integration", req.IntegrationType,
			"source", req.SourceKind, "err", err)
		return nil, err
	}
	metrics.DispatchTotal.WithLabelValues(string(req.IntegrationType), req.SourceKind, "ok").Inc()
	return out, nil
}
