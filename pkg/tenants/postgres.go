// pkg/tenants/postgres.go
package tenants

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgProvider implements Provider backed by PostgreSQL.
type pgProvider struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresProvider constructs a PostgreSQL-backed tenant provider.
func NewPostgresProvider(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Provider {
	return &pgProvider{dbPool: dbPool, log: log}
}

// EnsureSchema creates the tenants table if it does not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tenants (
  id uuid PRIMARY KEY,
  slug text UNIQUE,
  host text UNIQUE,
  name text,
  base_public_url text,
  oauth_issuer text,
  jwks_url text,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
`)
	return err
}

// SeedFromEnv ingests initial tenant data (TENANT_SEED_JSON).
func SeedFromEnv(ctx context.Context, dbPool *pgxpool.Pool, jsonSeed string) error {
	if jsonSeed == "" {
		return nil
	}
	var entries []struct {
		ID, Slug, Host, Name, BasePublicURL, OAuthIssuer, JWKSURL string
	}
	if err := json.Unmarshal([]byte(jsonSeed), &entries); err != nil {
		return err
	}
	for _, e := range entries {
		_, _ = dbPool.Exec(ctx, `INSERT INTO tenants(id,slug,host,name,base_public_url,oauth_issuer,jwks_url)
		  VALUES ($1,$2,$3,$4,$5,$6,$7)
		  ON CONFLICT (id) DO UPDATE SET slug=EXCLUDED.slug,host=EXCLUDED.host,name=EXCLUDED.name,
		    base_public_url=EXCLUDED.base_public_url,oauth_issuer=EXCLUDED.oauth_issuer,jwks_url=EXCLUDED.jwks_url`,
			e.ID, e.Slug, e.Host, e.Name, e.BasePublicURL, e.OAuthIssuer, e.JWKSURL)
	}
	return nil
}

const tenantCols = `id,slug,host,COALESCE(name,''),COALESCE(base_public_url,''),COALESCE(oauth_issuer,''),COALESCE(jwks_url,'')`

// ResolveTenantByHost fetches a tenant using its host value.
func (p *pgProvider) ResolveTenantByHost(ctx context.Context, host string) (Tenant, error) {
	row := p.dbPool.QueryRow(ctx, `SELECT `+tenantCols+` FROM tenants WHERE host=$1`, host)
	var t Tenant
	if err := row.Scan(&t.ID, &t.Slug, &t.Host, &t.Name, &t.BasePublicURL, &t.OAuthIssuer, &t.JWKSURL); err != nil {
		return Tenant{}, errors.New("tenant not found")
	}
	return t, nil
}

// ResolveTenantByID fetches a tenant by its UUID.
func (p *pgProvider) ResolveTenantByID(ctx context.Context, id string) (Tenant, error) {
	row := p.dbPool.QueryRow(ctx, `SELECT `+tenantCols+` FROM tenants WHERE id=$1`, id)
	var t Tenant
	if err := row.Scan(&t.ID, &t.Slug, &t.Host, &t.Name, &t.BasePublicURL, &t.OAuthIssuer, &t.JWKSURL); err != nil {
		return Tenant{}, errors.New("tenant not found")
	}
	return t, nil
}
