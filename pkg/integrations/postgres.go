package integrations

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	pool *pgxpool.Pool
	log  *zap.SugaredLogger
}

func NewPostgresStore(pool *pgxpool.Pool, log *zap.SugaredLogger) Store {
	return &pgStore{pool: pool, log: log}
}

// EnsureSchema creates the integration tables if they do not exist.
// Safe to call repeatedly (idempotent). The unique index on
// (tenant_id, project_id, kind) is what makes add-edit an upsert
// rather than a duplicate insert.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS integration_configs (
  id uuid PRIMARY KEY,
  tenant_id uuid NOT NULL,
  project_id text NOT NULL DEFAULT '',
  category text NOT NULL,
  kind text NOT NULL,
  credentials jsonb NOT NULL DEFAULT '{}'::jsonb,
  enabled boolean NOT NULL DEFAULT true,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW(),
  UNIQUE (tenant_id, project_id, kind)
);
CREATE INDEX IF NOT EXISTS integration_configs_tenant_category_idx
  ON integration_configs(tenant_id, category);
CREATE TABLE IF NOT EXISTS webhook_endpoints (
  id uuid PRIMARY KEY,
  tenant_id uuid NOT NULL,
  webhook_type text NOT NULL,
  name text NOT NULL DEFAULT '',
  endpoint text NOT NULL,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS webhook_endpoints_tenant_type_idx
  ON webhook_endpoints(tenant_id, webhook_type);
`)
	return err
}

const configCols = `id, tenant_id, project_id, category, kind, credentials, enabled, created_at, updated_at`

func (p *pgStore) GetConfig(ctx context.Context, tenantID, projectID string, kind Kind) (*Config, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+configCols+` FROM integration_configs
		WHERE tenant_id=$1 AND project_id=$2 AND kind=$3`, tenantID, projectID, kind)
	cfg, err := scanConfig(row)
	if err == pgx.ErrNoRows {
		return nil, NotFound(string(kind) + " integration")
	}
	return cfg, err
}

func (p *pgStore) ListConfigs(ctx context.Context, tenantID string, kind Kind) ([]*Config, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+configCols+` FROM integration_configs
		WHERE tenant_id=$1 AND kind=$2 ORDER BY project_id`, tenantID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConfigs(rows)
}

func (p *pgStore) ListByCategory(ctx context.Context, tenantID, projectID string, cat Category) ([]*Config, error) {
	q := `SELECT ` + configCols + ` FROM integration_configs
		WHERE tenant_id=$1 AND category=$2 ORDER BY project_id, kind`
	args := []any{tenantID, cat}
	if projectID != "" {
		q = `SELECT ` + configCols + ` FROM integration_configs
		WHERE tenant_id=$1 AND category=$2 AND project_id=$3 ORDER BY kind`
		args = append(args, projectID)
	}
	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConfigs(rows)
}

func (p *pgStore) UpsertConfig(ctx context.Context, cfg *Config) (*Config, error) {
	creds, err := json.Marshal(cfg.Credentials)
	if err != nil {
		return nil, err
	}
	row := p.pool.QueryRow(ctx, `
		INSERT INTO integration_configs (id, tenant_id, project_id, category, kind, credentials, enabled)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (tenant_id, project_id, kind) DO UPDATE SET
		  credentials=EXCLUDED.credentials,
		  enabled=EXCLUDED.enabled,
		  updated_at=NOW()
		RETURNING `+configCols,
		uuid.NewString(), cfg.TenantID, cfg.ProjectID, cfg.Category, cfg.Kind, creds, cfg.Enabled)
	return scanConfig(row)
}

func (p *pgStore) DeleteConfig(ctx context.Context, tenantID, projectID string, kind Kind) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM integration_configs
		WHERE tenant_id=$1 AND project_id=$2 AND kind=$3`, tenantID, projectID, kind)
	return err
}

const webhookCols = `id, tenant_id, webhook_type, name, endpoint, created_at, updated_at`

func (p *pgStore) GetWebhook(ctx context.Context, tenantID, id string) (*WebhookEndpoint, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+webhookCols+` FROM webhook_endpoints
		WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	wh, err := scanWebhook(row)
	if err == pgx.ErrNoRows {
		return nil, NotFound("webhook")
	}
	return wh, err
}

func (p *pgStore) ListWebhooks(ctx context.Context, tenantID string, typ WebhookType) ([]*WebhookEndpoint, error) {
	q := `SELECT ` + webhookCols + ` FROM webhook_endpoints WHERE tenant_id=$1 ORDER BY created_at`
	args := []any{tenantID}
	if typ != "" {
		q = `SELECT ` + webhookCols + ` FROM webhook_endpoints
			WHERE tenant_id=$1 AND webhook_type=$2 ORDER BY created_at`
		args = append(args, typ)
	}
	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*WebhookEndpoint
	for rows.Next() {
		wh, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wh)
	}
	return out, rows.Err()
}

func (p *pgStore) UpsertWebhook(ctx context.Context, wh *WebhookEndpoint) (*WebhookEndpoint, error) {
	if wh.ID == "" {
		row := p.pool.QueryRow(ctx, `
			INSERT INTO webhook_endpoints (id, tenant_id, webhook_type, name, endpoint)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING `+webhookCols,
			uuid.NewString(), wh.TenantID, wh.Type, wh.Name, wh.Endpoint)
		return scanWebhook(row)
	}
	// Updates are tenant-scoped: a foreign or unknown id matches no
	// row and surfaces as NotFound instead of touching another
	// tenant's endpoint.
	row := p.pool.QueryRow(ctx, `
		UPDATE webhook_endpoints SET name=$3, endpoint=$4, updated_at=NOW()
		WHERE tenant_id=$1 AND id=$2
		RETURNING `+webhookCols,
		wh.TenantID, wh.ID, wh.Name, wh.Endpoint)
	out, err := scanWebhook(row)
	if err == pgx.ErrNoRows {
		return nil, NotFound("webhook")
	}
	return out, err
}

func (p *pgStore) DeleteWebhook(ctx context.Context, tenantID, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM webhook_endpoints
		WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	return err
}

func scanConfig(row pgx.Row) (*Config, error) {
	var c Config
	var creds []byte
	if err := row.Scan(&c.ID, &c.TenantID, &c.ProjectID, &c.Category, &c.Kind, &creds, &c.Enabled, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if len(creds) > 0 {
		_ = json.Unmarshal(creds, &c.Credentials)
	}
	if c.Credentials == nil {
		c.Credentials = map[string]string{}
	}
	return &c, nil
}

func scanConfigs(rows pgx.Rows) ([]*Config, error) {
	var out []*Config
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanWebhook(row pgx.Row) (*WebhookEndpoint, error) {
	var wh WebhookEndpoint
	if err := row.Scan(&wh.ID, &wh.TenantID, &wh.Type, &wh.Name, &wh.Endpoint, &wh.CreatedAt, &wh.UpdatedAt); err != nil {
		return nil, err
	}
	return &wh, nil
}
