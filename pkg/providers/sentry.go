package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"sightline/pkg/integrations"
)

const sentryAPI = "https://sentry.io/api/0"

// SentryClient reads event payloads through the Sentry web API on
// behalf of the UI, which never sees the stored token.
type SentryClient struct {
	base   string
	org    string
	proj   string
	header http.Header
}

func NewSentryClient(creds map[string]string) (*SentryClient, error) {
	org := creds["organization_slug"]
	proj := creds["project_slug"]
	token := creds["token"]
	if org == "" || proj == "" || token == "" {
		return nil, integrations.Invalid("sentry requires organization_slug, project_slug and token")
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return &SentryClient{base: sentryAPI, org: org, proj: proj, header: h}, nil
}

// Event fetches one event's full payload.
func (c *SentryClient) Event(ctx context.Context, eventID string) (any, error) {
	return getJSON(ctx, fmt.Sprintf("%s/projects/%s/%s/events/%s/",
		c.base, url.PathEscape(c.org), url.PathEscape(c.proj), url.PathEscape(eventID)), c.header)
}
