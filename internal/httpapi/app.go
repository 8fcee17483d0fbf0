// Package httpapi exposes the integration registry and dispatch engine
// over HTTP. Handlers are methods on the App container; responses use
// the {"data": ...} / {"errors": [...]} envelope.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sightline/internal/collab"
	"sightline/internal/dispatch"
	"sightline/internal/issuetracking"
	"sightline/internal/logtools"
	"sightline/pkg/config"
	"sightline/pkg/integrations"
	mw "sightline/pkg/middleware"
	"sightline/pkg/tenants"
)

// App is the integrations-service application container. Shared deps
// only; request-scoped state travels in context.
type App struct {
	log    *zap.SugaredLogger
	cfg    config.Config
	cat    *integrations.Catalog
	store  integrations.Store
	issues *issuetracking.Service
	logs   *logtools.Service
	hooks  *collab.Service
	engine *dispatch.Engine
}

func New(log *zap.SugaredLogger, cfg config.Config, cat *integrations.Catalog, store integrations.Store,
	issues *issuetracking.Service, logs *logtools.Service, hooks *collab.Service, engine *dispatch.Engine) *App {
	return &App{
		log:    log,
		cfg:    cfg,
		cat:    cat,
		store:  store,
		issues: issues,
		logs:   logs,
		hooks:  hooks,
		engine: engine,
	}
}

// Router builds the chi router with the full middleware chain.
func (a *App) Router(prov tenants.Provider) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.RequestID())
	r.Use(mw.Recover(a.log))
	r.Use(mw.Tracing(a.cfg))
	r.Use(mw.WithTenant(prov))
	r.Use(mw.JWTAuth(a.cfg))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/integrations", func(r chi.Router) {
		// Issue tracking, tenant scoped.
		r.Get("/issues", a.getActiveIssueTracker)
		r.Delete("/issues", a.deleteActiveIssueTracker)
		r.Get("/issues/list_projects", a.listRemoteProjects)
		r.Get("/issues/{integrationProjectId}", a.getRemoteProjectMetadata)
		for _, kind := range []integrations.Kind{integrations.KindJira, integrations.KindGithub} {
			kind := kind
			r.Get("/"+string(kind), a.getIssueTracker(kind))
			r.Post("/"+string(kind), a.addEditIssueTracker(kind))
			r.Delete("/"+string(kind), a.deleteIssueTracker(kind))
		}

		// Collaboration webhooks.
		r.Get("/slack/channels", a.listWebhooksByType(integrations.WebhookSlack))
		r.Get("/msteams/channels", a.listWebhooksByType(integrations.WebhookMSTeams))
		r.Post("/slack", a.addEditCollabWebhook(integrations.WebhookSlack))
		r.Post("/slack/{webhookId}", a.addEditCollabWebhook(integrations.WebhookSlack))
		r.Get("/slack/{webhookId}", a.getWebhook)
		r.Delete("/slack/{webhookId}", a.deleteWebhook)
		r.Post("/msteams", a.addEditCollabWebhook(integrations.WebhookMSTeams))
		r.Post("/msteams/{webhookId}", a.addEditCollabWebhook(integrations.WebhookMSTeams))
		r.Delete("/msteams/{webhookId}", a.deleteWebhook)

		// Log tools with vendor-specific preflight calls.
		r.Post("/elasticsearch/test", a.pingLogTool(integrations.KindElasticsearch))
		r.Post("/cloudwatch/list_groups", a.discoverLogTool(integrations.KindCloudwatch))
		r.Post("/bugsnag/list_projects", a.discoverLogTool(integrations.KindBugsnag))

		// Tenant-wide listing for any log vendor.
		r.Get("/{vendor}", a.listLogToolConfigs)
	})

	r.Route("/{projectId}", func(r chi.Router) {
		r.Get("/integrations", a.getIntegrationsStatus)
		r.Get("/integrations/sentry/events/{eventId}", a.getSentryEvent)
		r.Get("/integrations/{vendor}", a.getLogToolConfig)
		r.Post("/integrations/{vendor}", a.addEditLogToolConfig)
		r.Delete("/integrations/{vendor}", a.deleteLogToolConfig)
		r.Post("/integrations/{vendor}/notify/{webhookId}/{source}/{sourceId}", a.notify)
	})

	r.Get("/webhooks", a.listAllWebhooks)
	r.Put("/webhooks", a.upsertGenericWebhook)
	r.Delete("/webhooks/{webhookId}", a.deleteWebhook)

	return r
}
