package providers

import (
	"context"
	"net/http"

	"sightline/pkg/integrations"
)

const bugsnagAPI = "https://api.bugsnag.com"

// DiscoverBugsnagProjects lists the projects visible to an auth token
// that has not been persisted yet.
func DiscoverBugsnagProjects(ctx context.Context, spec integrations.VendorSpec, creds map[string]string) (any, error) {
	token := creds["authorization_token"]
	if token == "" {
		return nil, integrations.Invalid("bugsnag requires an authorization token")
	}
	h := http.Header{}
	h.Set("Authorization", "token "+token)
	h.Set("X-Version", "2")

	orgs, err := getJSON(ctx, bugsnagAPI+"/user/organizations", h)
	if err != nil {
		return nil, err
	}
	orgIDs, err := extract("[].id", orgs)
	if err != nil {
		return nil, err
	}
	ids, _ := orgIDs.([]any)
	var projects []any
	for _, id := range ids {
		orgID, _ := id.(string)
		if orgID == "" {
			continue
		}
		doc, err := getJSON(ctx, bugsnagAPI+"/organizations/"+orgID+"/projects?per_page=100", h)
		if err != nil {
			return nil, err
		}
		list, err := extract(spec.ListPath, doc)
		if err != nil {
			return nil, err
		}
		if l, ok := list.([]any); ok {
			projects = append(projects, l...)
		}
	}
	return projects, nil
}
