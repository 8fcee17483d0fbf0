// Package collab is the registry for tenant webhook endpoints: Slack
// and MS Teams incoming webhooks plus generic alert hooks. Endpoint
// URLs are re-validated against the vendor only when they change, so a
// transient vendor outage never bricks an already working hook.
package collab

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sightline/internal/validation"
	"sightline/pkg/integrations"
	"sightline/pkg/providers"
)

type Service struct {
	store integrations.Store
	reg   *providers.Registry
	val   *validation.Coordinator
	log   *zap.SugaredLogger
}

func New(store integrations.Store, reg *providers.Registry, val *validation.Coordinator, log *zap.SugaredLogger) *Service {
	return &Service{store: store, reg: reg, val: val, log: log}
}

// ListByType returns the tenant's endpoints of one webhook type.
func (s *Service) ListByType(ctx context.Context, tenantID string, typ integrations.WebhookType) ([]*integrations.WebhookEndpoint, error) {
	return s.store.ListWebhooks(ctx, tenantID, typ)
}

// Get returns one endpoint by id.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*integrations.WebhookEndpoint, error) {
	return s.store.GetWebhook(ctx, tenantID, id)
}

// UpsertGeneric stores a generic alert webhook. No vendor handshake;
// generic hooks have no test-message contract. A supplied id must
// name a record this tenant already owns.
func (s *Service) UpsertGeneric(ctx context.Context, tenantID string, wh *integrations.WebhookEndpoint) (*integrations.WebhookEndpoint, error) {
	if strings.TrimSpace(wh.Endpoint) == "" {
		return nil, integrations.Invalid("endpoint url is required")
	}
	wh.TenantID = tenantID
	if wh.ID != "" {
		if _, err := s.store.GetWebhook(ctx, tenantID, wh.ID); err != nil {
			return nil, err
		}
	}
	if wh.Type == "" {
		wh.Type = integrations.WebhookGeneric
	}
	return s.store.UpsertWebhook(ctx, wh)
}

// AddEdit stores a Slack or MS Teams endpoint. A new endpoint, or an
// edit that changes the URL, must pass exactly one test message before
// anything is persisted; an edit that keeps the URL persists the other
// fields with no vendor call at all. On a failed test the stored
// record is left exactly as it was.
func (s *Service) AddEdit(ctx context.Context, tenantID string, typ integrations.WebhookType, id, name, endpoint string) (*integrations.WebhookEndpoint, error) {
	client, ok := s.reg.Collaborator(typ)
	if !ok {
		return nil, integrations.Invalid("unsupported webhook type %q", typ)
	}
	if strings.TrimSpace(endpoint) == "" {
		return nil, integrations.Invalid("endpoint url is required")
	}

	wh := &integrations.WebhookEndpoint{
		ID:       id,
		TenantID: tenantID,
		Type:     typ,
		Name:     name,
		Endpoint: endpoint,
	}
	mustValidate := true
	if id != "" {
		existing, err := s.store.GetWebhook(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if existing.Type != typ {
			return nil, integrations.NotFound(string(typ) + " integration")
		}
		mustValidate = existing.Endpoint != endpoint
	}
	if mustValidate {
		err := s.val.Run(ctx, string(typ), func(ctx context.Context) error {
			return client.SendTestMessage(ctx, endpoint)
		})
		if err != nil {
			if integrations.IsValidation(err) {
				return nil, &integrations.ValidationError{
					Message: testFailureMessage(typ),
					Err:     err,
				}
			}
			return nil, err
		}
	}
	return s.store.UpsertWebhook(ctx, wh)
}

// Delete removes an endpoint. Missing ids are a no-op success.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.store.DeleteWebhook(ctx, tenantID, id)
}

func testFailureMessage(typ integrations.WebhookType) string {
	switch typ {
	case integrations.WebhookMSTeams:
		return "we couldn't send you a test message on your Microsoft Teams webhook, please make sure the url is valid"
	case integrations.WebhookSlack:
		return "we couldn't send you a test message on your Slack webhook, please make sure the url is valid"
	default:
		return "webhook validation failed"
	}
}
