package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"sightline/pkg/integrations"
)

// JiraClient talks to Jira Cloud's REST API with basic auth
// (email + API token).
type JiraClient struct {
	base     string
	listPath string
	header   http.Header
}

func NewJiraClient(spec integrations.VendorSpec, creds map[string]string) (*JiraClient, error) {
	raw := strings.TrimRight(creds["url"], "/")
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, integrations.Invalid("url must be a valid JIRA URL (example.atlassian.net)")
	}
	user := creds["username"]
	token := creds["token"]
	if user == "" || token == "" {
		return nil, integrations.Invalid("jira requires username and token")
	}
	h := http.Header{}
	h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(user+":"+token)))
	h.Set("Accept", "application/json")
	return &JiraClient{base: raw, listPath: spec.ListPath, header: h}, nil
}

func (c *JiraClient) Validate(ctx context.Context) error {
	_, err := getJSON(ctx, c.base+"/rest/api/2/myself", c.header)
	return err
}

func (c *JiraClient) Projects(ctx context.Context) (any, error) {
	doc, err := getJSON(ctx, c.base+"/rest/api/2/project", c.header)
	if err != nil {
		return nil, err
	}
	return extract(c.listPath, doc)
}

func (c *JiraClient) ProjectMetadata(ctx context.Context, remoteProjectID string) (any, error) {
	// createmeta carries issue types per project in one call.
	doc, err := getJSON(ctx, fmt.Sprintf(
		"%s/rest/api/2/issue/createmeta?projectIds=%s&expand=projects.issuetypes.fields",
		c.base, url.QueryEscape(remoteProjectID)), c.header)
	if err != nil {
		return nil, err
	}
	meta, err := extract("projects[0].{id: id, key: key, issueTypes: issuetypes[].{id: id, name: name}}", doc)
	if err != nil {
		return nil, err
	}
	users, err := getJSON(ctx, c.base+"/rest/api/2/users/search?maxResults=50", c.header)
	if err != nil {
		return meta, nil // metadata without assignees is still usable
	}
	assignees, _ := extract("[].{id: accountId, name: displayName}", users)
	if m, ok := meta.(map[string]any); ok {
		m["users"] = assignees
	}
	return meta, nil
}
