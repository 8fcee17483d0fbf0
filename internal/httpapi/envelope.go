package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sightline/pkg/integrations"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, payload any) {
	writeJSON(w, map[string]any{"data": payload}, http.StatusOK)
}

func respondErrors(w http.ResponseWriter, status int, msgs ...string) {
	writeJSON(w, map[string]any{"errors": msgs}, status)
}

// respondErr maps domain errors onto the errors envelope. Domain
// outcomes (not found, no active tool, failed validation) are normal
// responses, not server faults; only unexpected errors become a 500.
func (a *App) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, integrations.ErrNoActiveIntegration),
		integrations.IsNotFound(err),
		integrations.IsValidation(err):
		writeJSON(w, map[string]any{"errors": []string{err.Error()}}, http.StatusOK)
	default:
		a.log.Errorw("request failed", "path", r.URL.Path, "err", err)
		writeJSON(w, map[string]any{"errors": []string{"internal error"}}, http.StatusInternalServerError)
	}
}

// decodeCreds reads a flat JSON object of credential fields. Scalar
// values are stringified so numeric ports and the like survive.
func decodeCreds(r *http.Request) (map[string]string, error) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, integrations.Invalid("invalid json body")
	}
	creds := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
			creds[k] = ""
		case string:
			creds[k] = t
		case float64:
			creds[k] = trimFloat(t)
		case bool:
			creds[k] = fmt.Sprintf("%t", t)
		default:
			b, _ := json.Marshal(t)
			creds[k] = string(b)
		}
	}
	return creds, nil
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
