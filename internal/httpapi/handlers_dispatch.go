package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sightline/pkg/integrations"
	mw "sightline/pkg/middleware"
)

type notifyBody struct {
	Comment string `json:"comment"`
}

// notify routes a share request to the configured collaboration
// vendor. Unknown integration/source combinations come back as
// {"data": null} rather than an error.
func (a *App) notify(w http.ResponseWriter, r *http.Request) {
	t := mw.TenantFrom(r.Context())

	var b notifyBody
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&b)
	}

	req := integrations.ShareRequest{
		IntegrationType: integrations.WebhookType(chi.URLParam(r, "vendor")),
		SourceKind:      chi.URLParam(r, "source"),
		SourceID:        chi.URLParam(r, "sourceId"),
		WebhookID:       chi.URLParam(r, "webhookId"),
		Comment:         b.Comment,
		Actor:           mw.Actor(r.Context()),
		ProjectID:       chi.URLParam(r, "projectId"),
		ProjectName:     t.Name,
	}
	out, err := a.engine.Notify(r.Context(), &t, req)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	respondData(w, out)
}
