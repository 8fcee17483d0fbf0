// Package issuetracking is the registry for tenant-scoped issue
// tracking tools (Jira, GitHub). A tenant has at most one enabled tool
// at a time; switching tools is an explicit delete-then-add sequence.
package issuetracking

import (
	"context"
	"net/url"
	"strings"

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

// ResolveActive returns the tenant's issue tracking config. With a
// kind it fetches exactly that kind; absence is a kind-specific
// NotFoundError. Without a kind it returns the single enabled config,
// or ErrNoActiveIntegration when no tool is selected at all.
//
// forDelete skips the client construction check so a tool with
// unusable stored credentials can still be resolved for removal.
func (s *Service) ResolveActive(ctx context.Context, tenantID string, kind integrations.Kind, forDelete bool) (*integrations.Config, error) {
	var cfg *integrations.Config
	if kind != "" {
		if cat, ok := s.cat.CategoryOf(kind); !ok || cat != integrations.CategoryIssueTracking {
			return nil, integrations.Invalid("unsupported issue tracking tool %q", kind)
		}
		c, err := s.store.GetConfig(ctx, tenantID, "", kind)
		if err != nil {
			if integrations.IsNotFound(err) {
				return nil, integrations.NotFound(string(kind) + " integration")
			}
			return nil, err
		}
		cfg = c
	} else {
		all, err := s.store.ListByCategory(ctx, tenantID, "", integrations.CategoryIssueTracking)
		if err != nil {
			return nil, err
		}
		for _, c := range all {
			if c.Enabled {
				cfg = c
				break
			}
		}
		if cfg == nil {
			return nil, integrations.ErrNoActiveIntegration
		}
	}
	if !forDelete {
		if _, err := s.reg.IssueTracker(cfg.Kind, cfg.Credentials); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// AddEdit upserts a tool config. Malformed input (Jira URL outside the
// vendor domain, missing fields) fails before any record is touched.
// When a different kind already holds the enabled slot, the new config
// is stored disabled; the caller switches tools by deleting the active
// one first.
func (s *Service) AddEdit(ctx context.Context, tenantID string, kind integrations.Kind, creds map[string]string) (*integrations.Config, error) {
	spec, ok := s.cat.Vendor(kind)
	if !ok || spec.Category != integrations.CategoryIssueTracking {
		return nil, integrations.Invalid("unsupported issue tracking tool %q", kind)
	}
	if spec.HostSuffix != "" {
		if err := checkHostSuffix(creds["url"], spec.HostSuffix); err != nil {
			return nil, err
		}
	}
	// Constructing the client verifies required credential fields.
	if _, err := s.reg.IssueTracker(kind, creds); err != nil {
		return nil, err
	}

	enabled := true
	all, err := s.store.ListByCategory(ctx, tenantID, "", integrations.CategoryIssueTracking)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.Enabled && c.Kind != kind {
			enabled = false
			break
		}
	}

	stored, err := s.store.UpsertConfig(ctx, &integrations.Config{
		TenantID:    tenantID,
		Category:    integrations.CategoryIssueTracking,
		Kind:        kind,
		Credentials: creds,
		Enabled:     enabled,
	})
	if err != nil {
		return nil, err
	}
	s.reg.Meta().Invalidate(ctx, metaKey(tenantID, kind, "projects"))
	return stored, nil
}

// Delete removes one tool's config. Missing records are a no-op
// success.
func (s *Service) Delete(ctx context.Context, tenantID string, kind integrations.Kind) error {
	if cat, ok := s.cat.CategoryOf(kind); !ok || cat != integrations.CategoryIssueTracking {
		return integrations.Invalid("unsupported issue tracking tool %q", kind)
	}
	if err := s.store.DeleteConfig(ctx, tenantID, "", kind); err != nil {
		return err
	}
	s.reg.Meta().Invalidate(ctx, metaKey(tenantID, kind, "projects"))
	return nil
}

// DeleteActive removes whichever tool currently holds the enabled
// slot. No active tool is reported as ErrNoActiveIntegration so the
// caller can prompt for a selection instead of claiming a miss.
func (s *Service) DeleteActive(ctx context.Context, tenantID string) error {
	cfg, err := s.ResolveActive(ctx, tenantID, "", true)
	if err != nil {
		return err
	}
	return s.Delete(ctx, tenantID, cfg.Kind)
}

// Obfuscated resolves like ResolveActive and masks secret fields.
func (s *Service) Obfuscated(ctx context.Context, tenantID string, kind integrations.Kind) (*integrations.Config, error) {
	cfg, err := s.ResolveActive(ctx, tenantID, kind, true)
	if err != nil {
		return nil, err
	}
	return integrations.Obfuscated(s.cat, cfg), nil
}

// RemoteProjects lists the projects/repositories of the active tool,
// served from the short-TTL cache when warm.
func (s *Service) RemoteProjects(ctx context.Context, tenantID string) (any, error) {
	cfg, err := s.ResolveActive(ctx, tenantID, "", false)
	if err != nil {
		return nil, err
	}
	key := metaKey(tenantID, cfg.Kind, "projects")
	if v, ok := s.reg.Meta().Get(ctx, key); ok {
		return v, nil
	}
	client, err := s.reg.IssueTracker(cfg.Kind, cfg.Credentials)
	if err != nil {
		return nil, err
	}
	out, err := s.val.Fetch(ctx, string(cfg.Kind), func(ctx context.Context) (any, error) {
		return client.Projects(ctx)
	})
	if err != nil {
		return nil, err
	}
	s.reg.Meta().Set(ctx, key, out)
	return out, nil
}

// ProjectMetadata fetches issue metadata (types, labels, assignees)
// for one remote project of the active tool.
func (s *Service) ProjectMetadata(ctx context.Context, tenantID, remoteProjectID string) (any, error) {
	cfg, err := s.ResolveActive(ctx, tenantID, "", false)
	if err != nil {
		return nil, err
	}
	key := metaKey(tenantID, cfg.Kind, "meta:"+remoteProjectID)
	if v, ok := s.reg.Meta().Get(ctx, key); ok {
		return v, nil
	}
	client, err := s.reg.IssueTracker(cfg.Kind, cfg.Credentials)
	if err != nil {
		return nil, err
	}
	out, err := s.val.Fetch(ctx, string(cfg.Kind), func(ctx context.Context) (any, error) {
		return client.ProjectMetadata(ctx, remoteProjectID)
	})
	if err != nil {
		return nil, err
	}
	s.reg.Meta().Set(ctx, key, out)
	return out, nil
}

func metaKey(tenantID string, kind integrations.Kind, suffix string) string {
	return tenantID + ":" + string(kind) + ":" + suffix
}

func checkHostSuffix(raw, suffix string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return integrations.Invalid("url must be a valid JIRA URL (example%s)", suffix)
	}
	host := u.Hostname()
	if !strings.HasSuffix(host, suffix) {
		return integrations.Invalid("url must be a valid JIRA URL (example%s)", suffix)
	}
	return nil
}
