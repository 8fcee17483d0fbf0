package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sightline/pkg/integrations"
	mw "sightline/pkg/middleware"
)

type integrationStatus struct {
	Name       string `json:"name"`
	Integrated bool   `json:"integrated"`
}

// getIntegrationsStatus summarizes, per vendor, whether the project
// (or tenant, for tenant-scoped vendors) has a config in place. Drives
// the integrations overview page.
func (a *App) getIntegrationsStatus(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	projectID := chi.URLParam(r, "projectId")
	ctx := r.Context()

	configured := map[integrations.Kind]bool{}
	logCfgs, err := a.store.ListByCategory(ctx, t.ID, projectID, integrations.CategoryLogTool)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	for _, c := range logCfgs {
		configured[c.Kind] = true
	}
	issueCfgs, err := a.store.ListByCategory(ctx, t.ID, "", integrations.CategoryIssueTracking)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	for _, c := range issueCfgs {
		configured[c.Kind] = true
	}
	hooks, err := a.store.ListWebhooks(ctx, t.ID, "")
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	for _, h := range hooks {
		switch h.Type {
		case integrations.WebhookSlack:
			configured[integrations.KindSlack] = true
		case integrations.WebhookMSTeams:
			configured[integrations.KindMSTeams] = true
		}
	}

	var out []integrationStatus
	for _, cat := range []integrations.Category{
		integrations.CategoryIssueTracking,
		integrations.CategoryLogTool,
		integrations.CategoryCollaboration,
	} {
		for _, kind := range a.cat.Kinds(cat) {
			out = append(out, integrationStatus{Name: string(kind), Integrated: configured[kind]})
		}
	}
	respondData(w, out)
}
