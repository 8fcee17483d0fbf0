// pkg/tenants/memory.go
package tenants

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"go.uber.org/zap"
)

type memProvider struct {
	log    *zap.SugaredLogger
	byHost map[string]Tenant
}

func NewMemoryProviderFromEnv(log *zap.SugaredLogger) Provider {
	p := &memProvider{log: log, byHost: map[string]Tenant{}}
	seed := os.Getenv("TENANT_SEED_JSON")
	if seed != "" {
		var entries []struct {
			ID, Slug, Host, Name, BasePublicURL, OAuthIssuer, JWKSURL string
		}
		_ = json.Unmarshal([]byte(seed), &entries)
		for _, e := range entries {
			p.byHost[e.Host] = Tenant{
				ID: e.ID, Slug: e.Slug, Host: e.Host, Name: e.Name,
				BasePublicURL: e.BasePublicURL,
				OAuthIssuer:   e.OAuthIssuer, JWKSURL: e.JWKSURL,
			}
		}
	} else {
		// sensible localhost defaults so a dev instance works out of the box
		dev := Tenant{
			ID: "00000000-0000-0000-0000-000000000001", Slug: "dev", Name: "Dev Tenant",
			BasePublicURL: os.Getenv("BASE_PUBLIC_URL"),
			OAuthIssuer:   os.Getenv("OIDC_ISSUER"), JWKSURL: os.Getenv("JWKS_URL"),
		}
		for _, h := range []string{
			"localhost", "localhost:8080", "127.0.0.1", "127.0.0.1:8080", "host.docker.internal:8080",
		} {
			dd := dev
			dd.Host = h
			p.byHost[h] = dd
		}
	}
	return p
}

func (m *memProvider) ResolveTenantByHost(ctx context.Context, host string) (Tenant, error) {
	if t, ok := m.byHost[host]; ok {
		return t, nil
	}
	return Tenant{}, errors.New("tenant not found")
}

func (m *memProvider) ResolveTenantByID(ctx context.Context, id string) (Tenant, error) {
	for _, t := range m.byHost {
		if t.ID == id {
			return t, nil
		}
	}
	return Tenant{}, errors.New("tenant not found")
}
