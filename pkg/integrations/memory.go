package integrations

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore is the in-memory Store used when no DATABASE_URL is set and
// by the test suites.
type memStore struct {
	mu       sync.RWMutex
	configs  map[string]*Config          // key tenant|project|kind
	webhooks map[string]*WebhookEndpoint // key tenant|id
}

func NewMemoryStore() Store {
	return &memStore{
		configs:  map[string]*Config{},
		webhooks: map[string]*WebhookEndpoint{},
	}
}

func cfgKey(tenantID, projectID string, kind Kind) string {
	return tenantID + "|" + projectID + "|" + string(kind)
}

func (m *memStore) GetConfig(ctx context.Context, tenantID, projectID string, kind Kind) (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.configs[cfgKey(tenantID, projectID, kind)]; ok {
		cp := cloneConfig(c)
		return cp, nil
	}
	return nil, NotFound(string(kind) + " integration")
}

func (m *memStore) ListConfigs(ctx context.Context, tenantID string, kind Kind) ([]*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Config
	for _, c := range m.configs {
		if c.TenantID == tenantID && c.Kind == kind {
			out = append(out, cloneConfig(c))
		}
	}
	sortConfigs(out)
	return out, nil
}

func (m *memStore) ListByCategory(ctx context.Context, tenantID, projectID string, cat Category) ([]*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Config
	for _, c := range m.configs {
		if c.TenantID != tenantID || c.Category != cat {
			continue
		}
		if projectID != "" && c.ProjectID != projectID {
			continue
		}
		out = append(out, cloneConfig(c))
	}
	sortConfigs(out)
	return out, nil
}

func (m *memStore) UpsertConfig(ctx context.Context, cfg *Config) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	key := cfgKey(cfg.TenantID, cfg.ProjectID, cfg.Kind)
	stored := cloneConfig(cfg)
	if prev, ok := m.configs[key]; ok {
		stored.ID = prev.ID
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.ID = uuid.NewString()
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.configs[key] = stored
	return cloneConfig(stored), nil
}

func (m *memStore) DeleteConfig(ctx context.Context, tenantID, projectID string, kind Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.configs, cfgKey(tenantID, projectID, kind))
	return nil
}

func (m *memStore) GetWebhook(ctx context.Context, tenantID, id string) (*WebhookEndpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if wh, ok := m.webhooks[tenantID+"|"+id]; ok {
		cp := *wh
		return &cp, nil
	}
	return nil, NotFound("webhook")
}

func (m *memStore) ListWebhooks(ctx context.Context, tenantID string, typ WebhookType) ([]*WebhookEndpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*WebhookEndpoint
	for _, wh := range m.webhooks {
		if wh.TenantID != tenantID {
			continue
		}
		if typ != "" && wh.Type != typ {
			continue
		}
		cp := *wh
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpsertWebhook(ctx context.Context, wh *WebhookEndpoint) (*WebhookEndpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if wh.ID != "" {
		prev, ok := m.webhooks[wh.TenantID+"|"+wh.ID]
		if !ok {
			return nil, NotFound("webhook")
		}
		stored := *prev
		stored.Name = wh.Name
		stored.Endpoint = wh.Endpoint
		stored.UpdatedAt = now
		m.webhooks[stored.TenantID+"|"+stored.ID] = &stored
		cp := stored
		return &cp, nil
	}
	stored := *wh
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.webhooks[stored.TenantID+"|"+stored.ID] = &stored
	cp := stored
	return &cp, nil
}

func (m *memStore) DeleteWebhook(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.webhooks, tenantID+"|"+id)
	return nil
}

func cloneConfig(c *Config) *Config {
	cp := *c
	cp.Credentials = make(map[string]string, len(c.Credentials))
	for k, v := range c.Credentials {
		cp.Credentials[k] = v
	}
	return &cp
}

func sortConfigs(cs []*Config) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].ProjectID != cs[j].ProjectID {
			return cs[i].ProjectID < cs[j].ProjectID
		}
		return cs[i].Kind < cs[j].Kind
	})
}
