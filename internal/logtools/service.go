// Package logtools is the registry for project-scoped log and
// monitoring tool configs (Sentry, Datadog, Elasticsearch, ...). CRUD
// is uniform across vendors; a few vendors add a handshake or a
// pre-flight discovery call on top.
package logtools

import (
	"context"

	"go.uber.org/zap"

	"sightline/internal/validation"
	"sightline/pkg/integrations"
	"sightline/pkg/providers"
)

type Service struct {
	store integrations.Store
	reg   *providers.Registry
	cat   *integrations.Catalog
	val   *validation.Coordinator
	log   *zap.SugaredLogger
}

func New(store integrations.Store, reg *providers.Registry, cat *integrations.Catalog, val *validation.Coordinator, log *zap.SugaredLogger) *Service {
	return &Service{store: store, reg: reg, cat: cat, val: val, log: log}
}

func (s *Service) vendor(kind integrations.Kind) (integrations.VendorSpec, error) {
	spec, ok := s.cat.Vendor(kind)
	if !ok || spec.Category != integrations.CategoryLogTool {
		return integrations.VendorSpec{}, integrations.Invalid("unsupported log tool %q", kind)
	}
	return spec, nil
}

// ListAll returns the tenant's configs for one vendor across projects,
// one per project at most, secrets masked.
func (s *Service) ListAll(ctx context.Context, tenantID string, kind integrations.Kind) ([]*integrations.Config, error) {
	if _, err := s.vendor(kind); err != nil {
		return nil, err
	}
	all, err := s.store.ListConfigs(ctx, tenantID, kind)
	if err != nil {
		return nil, err
	}
	out := make([]*integrations.Config, 0, len(all))
	for _, c := range all {
		out = append(out, integrations.Obfuscated(s.cat, c))
	}
	return out, nil
}

// Get returns the zero-or-one config for a project, secrets masked.
func (s *Service) Get(ctx context.Context, tenantID, projectID string, kind integrations.Kind) (*integrations.Config, error) {
	if _, err := s.vendor(kind); err != nil {
		return nil, err
	}
	cfg, err := s.store.GetConfig(ctx, tenantID, projectID, kind)
	if err != nil {
		if integrations.IsNotFound(err) {
			return nil, integrations.NotFound(string(kind) + " integration")
		}
		return nil, err
	}
	return integrations.Obfuscated(s.cat, cfg), nil
}

// AddEdit upserts a project's config. Vendors flagged for validation
// (Elasticsearch) must pass a live handshake first; on failure nothing
// is persisted and the previous record, if any, stays in place.
func (s *Service) AddEdit(ctx context.Context, tenantID, projectID string, kind integrations.Kind, creds map[string]string) (*integrations.Config, error) {
	spec, err := s.vendor(kind)
	if err != nil {
		return nil, err
	}
	if spec.RequiresValidation {
		if err := s.Ping(ctx, kind, creds); err != nil {
			return nil, err
		}
	}
	stored, err := s.store.UpsertConfig(ctx, &integrations.Config{
		TenantID:    tenantID,
		ProjectID:   projectID,
		Category:    integrations.CategoryLogTool,
		Kind:        kind,
		Credentials: creds,
		Enabled:     true,
	})
	if err != nil {
		return nil, err
	}
	return integrations.Obfuscated(s.cat, stored), nil
}

// Delete removes a project's config. Missing records are a no-op
// success.
func (s *Service) Delete(ctx context.Context, tenantID, projectID string, kind integrations.Kind) error {
	if _, err := s.vendor(kind); err != nil {
		return err
	}
	return s.store.DeleteConfig(ctx, tenantID, projectID, kind)
}

// Ping runs a vendor connectivity test on raw credentials without
// touching stored state. Exposed standalone so a caller can test
// before committing.
func (s *Service) Ping(ctx context.Context, kind integrations.Kind, creds map[string]string) error {
	if _, err := s.vendor(kind); err != nil {
		return err
	}
	p, ok, err := s.reg.Pinger(kind, creds)
	if err != nil {
		return err
	}
	if !ok {
		return integrations.Invalid("%s does not support a connectivity test", kind)
	}
	return s.val.Run(ctx, string(kind), p.Ping)
}

// SentryEvent proxies one event payload through the project's stored
// Sentry config, so the caller gets the event without ever handling
// the token.
func (s *Service) SentryEvent(ctx context.Context, tenantID, projectID, eventID string) (any, error) {
	cfg, err := s.store.GetConfig(ctx, tenantID, projectID, integrations.KindSentry)
	if err != nil {
		if integrations.IsNotFound(err) {
			return nil, integrations.NotFound("sentry integration")
		}
		return nil, err
	}
	client, err := providers.NewSentryClient(cfg.Credentials)
	if err != nil {
		return nil, err
	}
	return s.val.Fetch(ctx, string(integrations.KindSentry), func(ctx context.Context) (any, error) {
		return client.Event(ctx, eventID)
	})
}

// Discover runs a vendor's pre-flight discovery (Cloudwatch log
// groups, Bugsnag projects) on transient credentials. No persisted
// config is required or consulted.
func (s *Service) Discover(ctx context.Context, kind integrations.Kind, creds map[string]string) (any, error) {
	if _, err := s.vendor(kind); err != nil {
		return nil, err
	}
	return s.val.Fetch(ctx, string(kind), func(ctx context.Context) (any, error) {
		return s.reg.Discover(ctx, kind, creds)
	})
}
