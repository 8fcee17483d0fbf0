package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sightline/pkg/integrations"
	mw "sightline/pkg/middleware"
)

func (a *App) getActiveIssueTracker(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	cfg, err := a.issues.Obfuscated(r.Context(), t.ID, "")
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, cfg)
}

func (a *App) deleteActiveIssueTracker(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	if err := a.issues.DeleteActive(r.Context(), t.ID); err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, map[string]string{"state": "deleted"})
}

func (a *App) getIssueTracker(kind integrations.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := mw.TenantFrom(r.Context())
		cfg, err := a.issues.Obfuscated(r.Context(), t.ID, kind)
		if err != nil {
			a.respondErr(w, r, err)
			return
		}
		respondData(w, cfg)
	}
}

func (a *App) addEditIssueTracker(kind integrations.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := mw.TenantFrom(r.Context())
		creds, err := decodeCreds(r)
		if err != nil {
			a.respondErr(w, r, err)
			return
		}
		cfg, err := a.issues.AddEdit(r.Context(), t.ID, kind, creds)
		if err != nil {
			a.respondErr(w, r, err)
			return
		}
		respondData(w, integrations.Obfuscated(a.cat, cfg))
	}
}

func (a *App) deleteIssueTracker(kind integrations.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := mw.TenantFrom(r.Context())
		if err := a.issues.Delete(r.Context(), t.ID, kind); err != nil {
			a.respondErr(w, r, err)
			return
		}
		respondData(w, map[string]string{"state": "deleted"})
	}
}

func (a *App) listRemoteProjects(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	out, err := a.issues.RemoteProjects(r.Context(), t.ID)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, out)
}

func (a *App) getRemoteProjectMetadata(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	remoteID := chi.URLParam(r, "integrationProjectId")
	out, err := a.issues.ProjectMetadata(r.Context(), t.ID, remoteID)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, out)
}
