package tenants

import (
	"context"
)

type Provider interface {
	// Resolve tenant from incoming host (or header).
	ResolveTenantByHost(ctx context.Context, host string) (Tenant, error)
	// Optional: resolve from slug/id
	ResolveTenantByID(ctx context.Context, id string) (Tenant, error)
}
