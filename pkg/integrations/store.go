package integrations

import "context"

// Store is the keyed persistence layer for integration configs and
// webhook endpoints. Records are scoped by (tenant, project, kind) for
// configs and (tenant, id) for webhooks.
//
// Concurrency: registries perform read-then-write invariant checks on
// top of this interface without cross-request locking. Concurrent
// upserts for the same key are last-write-wins; a rare duplicate
// active-tool window is accepted and self-heals on the next
// delete/add cycle.
type Store interface {
	// GetConfig returns the single config for the key, or NotFoundError.
	GetConfig(ctx context.Context, tenantID, projectID string, kind Kind) (*Config, error)
	// ListConfigs returns all configs of one kind across the tenant's
	// projects (one per project at most, per the upsert key).
	ListConfigs(ctx context.Context, tenantID string, kind Kind) ([]*Config, error)
	// ListByCategory returns the tenant's configs for a category,
	// optionally narrowed to one project.
	ListByCategory(ctx context.Context, tenantID, projectID string, cat Category) ([]*Config, error)
	// UpsertConfig inserts or updates in place keyed on
	// (tenant, project, kind) and returns the stored record.
	UpsertConfig(ctx context.Context, cfg *Config) (*Config, error)
	// DeleteConfig removes the slot. Deleting a missing record is a
	// no-op success.
	DeleteConfig(ctx context.Context, tenantID, projectID string, kind Kind) error

	// GetWebhook returns one endpoint by id, or NotFoundError.
	GetWebhook(ctx context.Context, tenantID, id string) (*WebhookEndpoint, error)
	// ListWebhooks returns the tenant's endpoints, filtered by type
	// when typ is non-empty.
	ListWebhooks(ctx context.Context, tenantID string, typ WebhookType) ([]*WebhookEndpoint, error)
	// UpsertWebhook inserts a new endpoint (empty ID) or updates the
	// name and endpoint of a record the tenant already owns (non-empty
	// ID). An unknown or foreign id is NotFoundError; Type is fixed at
	// creation and never changed by an update.
	UpsertWebhook(ctx context.Context, wh *WebhookEndpoint) (*WebhookEndpoint, error)
	// DeleteWebhook removes the endpoint; idempotent like DeleteConfig.
	DeleteWebhook(ctx context.Context, tenantID, id string) error
}
