package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sightline/pkg/integrations"
	mw "sightline/pkg/middleware"
)

type webhookBody struct {
	WebhookID string `json:"webhookId"`
	Name      string `json:"name"`
	Endpoint  string `json:"endpoint"`
	Type      string `json:"type"`
}

func (a *App) listWebhooksByType(typ integrations.WebhookType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := mw.TenantFrom(r.Context())
		out, err := a.hooks.ListByType(r.Context(), t.ID, typ)
		if err != nil {
			a.respondErr(w, r, err)
			return
		}
		respondData(w, out)
	}
}

func (a *App) listAllWebhooks(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	out, err := a.hooks.ListByType(r.Context(), t.ID, "")
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, out)
}

func (a *App) getWebhook(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	out, err := a.hooks.Get(r.Context(), t.ID, chi.URLParam(r, "webhookId"))
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, out)
}

// addEditCollabWebhook serves both the create route and the
// id-suffixed edit route for Slack and MS Teams.
func (a *App) addEditCollabWebhook(typ integrations.WebhookType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := mw.TenantFrom(r.Context())
		var b webhookBody
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			a.respondErr(w, r, integrations.Invalid("invalid json body"))
			return
		}
		id := chi.URLParam(r, "webhookId")
		if id == "" {
			id = b.WebhookID
		}
		out, err := a.hooks.AddEdit(r.Context(), t.ID, typ, id, b.Name, b.Endpoint)
		if err != nil {
			a.respondErr(w, r, err)
			return
		}
		respondData(w, out)
	}
}

func (a *App) upsertGenericWebhook(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	var b webhookBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		a.respondErr(w, r, integrations.Invalid("invalid json body"))
		return
	}
	out, err := a.hooks.UpsertGeneric(r.Context(), t.ID, &integrations.WebhookEndpoint{
		ID:       b.WebhookID,
		Type:     integrations.WebhookType(b.Type),
		Name:     b.Name,
		Endpoint: b.Endpoint,
	})
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, out)
}

func (a *App) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())
	if err := a.hooks.Delete(r.Context(), t.ID, chi.URLParam(r, "webhookId")); err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, map[string]string{"state": "deleted"})
}
