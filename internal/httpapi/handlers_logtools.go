package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sightline/pkg/integrations"
	mw "sightline/pkg/middleware"
)

func (a *App) listLogToolConfigs(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	kind := integrations.Kind(chi.URLParam(r, "vendor"))
	out, err := a.logs.ListAll(r.Context(), t.ID, kind)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, out)
}

func (a *App) getLogToolConfig(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	kind := integrations.Kind(chi.URLParam(r, "vendor"))
	cfg, err := a.logs.Get(r.Context(), t.ID, chi.URLParam(r, "projectId"), kind)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, cfg)
}

func (a *App) addEditLogToolConfig(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	kind := integrations.Kind(chi.URLParam(r, "vendor"))
	creds, err := decodeCreds(r)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	cfg, err := a.logs.AddEdit(r.Context(), t.ID, chi.URLParam(r, "projectId"), kind, creds)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, cfg)
}

func (a *App) deleteLogToolConfig(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	kind := integrations.Kind(chi.URLParam(r, "vendor"))
	if err := a.logs.Delete(r.Context(), t.ID, chi.URLParam(r, "projectId"), kind); err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, map[string]string{"state": "deleted"})
}

// getSentryEvent proxies one Sentry event payload through the stored
// config; the token stays server side.
func (a *App) getSentryEvent(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	out, err := a.logs.SentryEvent(r.Context(), t.ID, chi.URLParam(r, "projectId"), chi.URLParam(r, "eventId"))
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, out)
}

// pingLogTool runs a connectivity test on credentials from the request
// body without persisting anything.
func (a *App) pingLogTool(kind integrations.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := decodeCreds(r)
		if err != nil {
			a.respondErr(w, r, err)
			return
		}
		if err := a.logs.Ping(r.Context(), kind, creds); err != nil {
			a.respondErr(w, r, err)
			return
		}
		respondData(w, map[string]string{"state": "ok"})
	}
}

// discoverLogTool lists remote resources (log groups, projects) from
// transient credentials before any config exists.
func (a *App) discoverLogTool(kind integrations.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := decodeCreds(r)
		if err != nil {
			a.respondErr(w, r, err)
			return
		}
		out, err := a.logs.Discover(r.Context(), kind, creds)
		if err != nil {
			a.respondErr(w, r, err)
			return
		}
		respondData(w, out)
	}
}
