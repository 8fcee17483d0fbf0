package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sightline/pkg/integrations"
)

func testCatalog() *integrations.Catalog { return integrations.MustLoadCatalog() }

func TestRegistryWiresBuiltins(t *testing.T) {
	reg := NewRegistry(testCatalog(), nil, 0, zap.NewNop().Sugar())

	_, err := reg.IssueTracker(integrations.KindJira, map[string]string{
		"url": "https://a.atlassian.net", "username": "u", "token": "t",
	})
	require.NoError(t, err)

	_, err = reg.IssueTracker(integrations.Kind("gitlab"), nil)
	assert.True(t, integrations.IsValidation(err))

	_, ok, err := reg.Pinger(integrations.KindElasticsearch, map[string]string{"host": "es.local"})
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = reg.Pinger(integrations.KindSentry, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok = reg.Collaborator(integrations.WebhookSlack)
	assert.True(t, ok)
	_, ok = reg.Collaborator(integrations.WebhookGeneric)
	assert.False(t, ok)
}

func TestJiraClientProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/rest/api/2/project":
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": "1", "name": "Web", "key": "WEB", "self": "ignored"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	spec, _ := testCatalog().Vendor(integrations.KindJira)
	c, err := NewJiraClient(spec, map[string]string{"url": srv.URL, "username": "u", "token": "t"})
	require.NoError(t, err)

	out, err := c.Projects(context.Background())
	require.NoError(t, err)
	list, ok := out.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "WEB", first["key"])
	assert.NotContains(t, first, "self")
}

func TestJiraClientRequiresCreds(t *testing.T) {
	spec, _ := testCatalog().Vendor(integrations.KindJira)
	_, err := NewJiraClient(spec, map[string]string{"url": "https://a.atlassian.net"})
	assert.True(t, integrations.IsValidation(err))
	_, err = NewJiraClient(spec, map[string]string{"url": "not a url", "username": "u", "token": "t"})
	assert.True(t, integrations.IsValidation(err))
}

func TestGithubClientProjectIDShape(t *testing.T) {
	spec, _ := testCatalog().Vendor(integrations.KindGithub)
	c, err := NewGithubClient(spec, map[string]string{"token": "x"})
	require.NoError(t, err)
	_, err = c.ProjectMetadata(context.Background(), "norepo")
	assert.True(t, integrations.IsValidation(err))
}

func TestElasticsearchClientCreds(t *testing.T) {
	_, err := NewElasticsearchClient(map[string]string{})
	assert.True(t, integrations.IsValidation(err))
	_, err = NewElasticsearchClient(map[string]string{"host": "es.local", "port": "ninety"})
	assert.True(t, integrations.IsValidation(err))

	c, err := NewElasticsearchClient(map[string]string{"host": "es.local", "port": "9200"})
	require.NoError(t, err)
	assert.Equal(t, "https://es.local:9200", c.base)
}

func TestSentryClientRequiresCreds(t *testing.T) {
	_, err := NewSentryClient(map[string]string{"organization_slug": "acme"})
	assert.True(t, integrations.IsValidation(err))
}

func TestSentryClientEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/projects/acme/web/events/ev-1/", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"eventID": "ev-1", "title": "boom"})
	}))
	defer srv.Close()

	c, err := NewSentryClient(map[string]string{
		"organization_slug": "acme", "project_slug": "web", "token": "tok",
	})
	require.NoError(t, err)
	c.base = srv.URL

	out, err := c.Event(context.Background(), "ev-1")
	require.NoError(t, err)
	doc := out.(map[string]any)
	assert.Equal(t, "boom", doc["title"])
}

func TestPostWebhookStatusHandling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if r.URL.Path == "/bad" {
			http.Error(w, "no_service", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	out, err := postWebhook(context.Background(), srv.URL+"/good", map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, err = postWebhook(context.Background(), srv.URL+"/bad", map[string]any{"text": "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestExtract(t *testing.T) {
	doc := []any{map[string]any{"id": "1", "name": "a", "extra": true}}
	out, err := extract("[].{id: id, name: name}", doc)
	require.NoError(t, err)
	list := out.([]any)
	require.Len(t, list, 1)
	assert.NotContains(t, list[0].(map[string]any), "extra")

	same, err := extract("", doc)
	require.NoError(t, err)
	assert.Equal(t, doc, same)
}

func TestMetaCacheNilSafe(t *testing.T) {
	var c *MetaCache
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	c.Set(context.Background(), "k", "v")
	c.Invalidate(context.Background(), "k")

	c2 := NewMetaCache(nil, 0)
	_, ok = c2.Get(context.Background(), "k")
	assert.False(t, ok)
}
