package providers

import (
	"context"
	"net/http"
	"strings"

	"sightline/pkg/integrations"
)

const githubAPI = "https://api.github.com"

// GithubClient uses a personal access token against the GitHub v3 API.
type GithubClient struct {
	listPath string
	header   http.Header
}

func NewGithubClient(spec integrations.VendorSpec, creds map[string]string) (*GithubClient, error) {
	token := creds["token"]
	if token == "" {
		return nil, integrations.Invalid("github requires a personal access token")
	}
	h := http.Header{}
	h.Set("Authorization", "token "+token)
	h.Set("Accept", "application/vnd.github+json")
	return &GithubClient{listPath: spec.ListPath, header: h}, nil
}

func (c *GithubClient) Validate(ctx context.Context) error {
	_, err := getJSON(ctx, githubAPI+"/user", c.header)
	return err
}

func (c *GithubClient) Projects(ctx context.Context) (any, error) {
	doc, err := getJSON(ctx, githubAPI+"/user/repos?per_page=100", c.header)
	if err != nil {
		return nil, err
	}
	return extract(c.listPath, doc)
}

func (c *GithubClient) ProjectMetadata(ctx context.Context, remoteProjectID string) (any, error) {
	// remoteProjectID is the full repo name (owner/repo).
	if !strings.Contains(remoteProjectID, "/") {
		return nil, integrations.Invalid("github project id must be owner/repo")
	}
	labels, err := getJSON(ctx, githubAPI+"/repos/"+remoteProjectID+"/labels?per_page=100", c.header)
	if err != nil {
		return nil, err
	}
	assignees, err := getJSON(ctx, githubAPI+"/repos/"+remoteProjectID+"/assignees?per_page=100", c.header)
	if err != nil {
		return nil, err
	}
	labelList, _ := extract("[].name", labels)
	userList, _ := extract("[].{id: id, name: login}", assignees)
	return map[string]any{
		"id":     remoteProjectID,
		"labels": labelList,
		"users":  userList,
	}, nil
}
