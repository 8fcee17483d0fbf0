package integrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.UpsertConfig(ctx, &Config{
		TenantID: "t1", ProjectID: "p1", Category: CategoryLogTool, Kind: KindSentry,
		Credentials: map[string]string{"token": "a"}, Enabled: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := s.UpsertConfig(ctx, &Config{
		TenantID: "t1", ProjectID: "p1", Category: CategoryLogTool, Kind: KindSentry,
		Credentials: map[string]string{"token": "b"}, Enabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	all, err := s.ListConfigs(ctx, "t1", KindSentry)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Credentials["token"])
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.DeleteConfig(ctx, "t1", "p1", KindSentry))
	require.NoError(t, s.DeleteConfig(ctx, "t1", "p1", KindSentry))
	require.NoError(t, s.DeleteWebhook(ctx, "t1", "nope"))
}

func TestMemoryStoreScoping(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.UpsertConfig(ctx, &Config{TenantID: "t1", ProjectID: "p1", Category: CategoryLogTool, Kind: KindSentry})
	require.NoError(t, err)
	_, err = s.UpsertConfig(ctx, &Config{TenantID: "t2", ProjectID: "p1", Category: CategoryLogTool, Kind: KindSentry})
	require.NoError(t, err)

	_, err = s.GetConfig(ctx, "t3", "p1", KindSentry)
	assert.True(t, IsNotFound(err))

	all, err := s.ListConfigs(ctx, "t1", KindSentry)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "t1", all[0].TenantID)
}

func TestMemoryStoreWebhooks(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	wh, err := s.UpsertWebhook(ctx, &WebhookEndpoint{
		TenantID: "t1", Type: WebhookSlack, Name: "alerts", Endpoint: "https://hooks.slack.com/x",
	})
	require.NoError(t, err)
	require.NotEmpty(t, wh.ID)

	_, err = s.UpsertWebhook(ctx, &WebhookEndpoint{
		TenantID: "t1", Type: WebhookMSTeams, Name: "teams", Endpoint: "https://outlook.office.com/x",
	})
	require.NoError(t, err)

	slack, err := s.ListWebhooks(ctx, "t1", WebhookSlack)
	require.NoError(t, err)
	require.Len(t, slack, 1)
	assert.Equal(t, "alerts", slack[0].Name)

	all, err := s.ListWebhooks(ctx, "t1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := s.GetWebhook(ctx, "t1", wh.ID)
	require.NoError(t, err)
	assert.Equal(t, wh.Endpoint, got.Endpoint)

	_, err = s.GetWebhook(ctx, "t2", wh.ID)
	assert.True(t, IsNotFound(err))
}

func TestWebhookUpsertIsTenantScoped(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	victim, err := s.UpsertWebhook(ctx, &WebhookEndpoint{
		TenantID: "tenant-a", Type: WebhookSlack, Name: "ops", Endpoint: "https://hooks.slack.com/ops",
	})
	require.NoError(t, err)

	// another tenant reusing the id neither updates nor creates
	_, err = s.UpsertWebhook(ctx, &WebhookEndpoint{
		ID: victim.ID, TenantID: "tenant-b", Type: WebhookGeneric,
		Name: "stolen", Endpoint: "https://evil.example.com/capture",
	})
	assert.True(t, IsNotFound(err))

	kept, err := s.GetWebhook(ctx, "tenant-a", victim.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.com/ops", kept.Endpoint)

	foreign, err := s.ListWebhooks(ctx, "tenant-b", "")
	require.NoError(t, err)
	assert.Empty(t, foreign)

	// an unknown id for the owning tenant is NotFound too
	_, err = s.UpsertWebhook(ctx, &WebhookEndpoint{
		ID: "does-not-exist", TenantID: "tenant-a", Endpoint: "https://hooks.slack.com/x",
	})
	assert.True(t, IsNotFound(err))
}

func TestWebhookUpdateChangesOnlyNameAndEndpoint(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	wh, err := s.UpsertWebhook(ctx, &WebhookEndpoint{
		TenantID: "t1", Type: WebhookMSTeams, Name: "ops", Endpoint: "https://outlook.office.com/a",
	})
	require.NoError(t, err)

	updated, err := s.UpsertWebhook(ctx, &WebhookEndpoint{
		ID: wh.ID, TenantID: "t1", Type: WebhookGeneric,
		Name: "renamed", Endpoint: "https://outlook.office.com/b",
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "https://outlook.office.com/b", updated.Endpoint)
	assert.Equal(t, WebhookMSTeams, updated.Type)
	assert.Equal(t, wh.CreatedAt, updated.CreatedAt)
}
