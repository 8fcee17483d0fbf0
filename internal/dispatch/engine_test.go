package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sightline/pkg/integrations"
	"sightline/pkg/providers"
	"sightline/pkg/tenants"
)

type recordingCollab struct {
	sessions []providers.ShareMessage
	errors   []providers.ShareMessage
}

func (r *recordingCollab) SendTestMessage(ctx context.Context, endpoint string) error { return nil }

func (r *recordingCollab) ShareSession(ctx context.Context, msg providers.ShareMessage) (any, error) {
	r.sessions = append(r.sessions, msg)
	return map[string]any{"ok": true}, nil
}

func (r *recordingCollab) ShareError(ctx context.Context, msg providers.ShareMessage) (any, error) {
	r.errors = append(r.errors, msg)
	return map[string]any{"ok": true}, nil
}

func newEngine(t *testing.T) (*Engine, integrations.Store, *recordingCollab) {
	t.Helper()
	log := zap.NewNop().Sugar()
	cat := integrations.MustLoadCatalog()
	store := integrations.NewMemoryStore()
	reg := providers.NewRegistry(cat, nil, 0, log)
	rec := &recordingCollab{}
	reg.RegisterCollaborator(integrations.WebhookSlack, rec)
	reg.RegisterCollaborator(integrations.WebhookMSTeams, rec)
	return New(store, reg, "https://app.acme.com", log), store, rec
}

func testTenant() *tenants.Tenant {
	return &tenants.Tenant{ID: "t1", Name: "Acme", BasePublicURL: "https://acme.example.com/"}
}

func seedWebhook(t *testing.T, store integrations.Store, typ integrations.WebhookType) *integrations.WebhookEndpoint {
	t.Helper()
	wh, err := store.UpsertWebhook(context.Background(), &integrations.WebhookEndpoint{
		TenantID: "t1", Type: typ, Name: "hook", Endpoint: "https://hooks.example.com/x",
	})
	require.NoError(t, err)
	return wh
}

func TestNotifyShareSession(t *testing.T) {
	e, store, rec := newEngine(t)
	wh := seedWebhook(t, store, integrations.WebhookSlack)

	out, err := e.Notify(context.Background(), testTenant(), integrations.ShareRequest{
		IntegrationType: integrations.WebhookSlack,
		SourceKind:      integrations.SourceSessions,
		SourceID:        "sess-42",
		WebhookID:       wh.ID,
		Comment:         "look at this",
		Actor:           "dev@acme.com",
		ProjectID:       "p1",
		ProjectName:     "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, out)

	require.Len(t, rec.sessions, 1)
	msg := rec.sessions[0]
	assert.Equal(t, "https://hooks.example.com/x", msg.Endpoint)
	assert.Equal(t, "https://acme.example.com/p1/session/sess-42", msg.Link)
	assert.Equal(t, "look at this", msg.Comment)
	assert.Equal(t, "dev@acme.com", msg.Actor)
	assert.Empty(t, rec.errors)
}

func TestNotifyShareError(t *testing.T) {
	e, store, rec := newEngine(t)
	wh := seedWebhook(t, store, integrations.WebhookMSTeams)

	_, err := e.Notify(context.Background(), testTenant(), integrations.ShareRequest{
		IntegrationType: integrations.WebhookMSTeams,
		SourceKind:      integrations.SourceErrors,
		SourceID:        "err-7",
		WebhookID:       wh.ID,
		ProjectID:       "p1",
	})
	require.NoError(t, err)
	require.Len(t, rec.errors, 1)
	assert.Equal(t, "https://acme.example.com/p1/errors/err-7", rec.errors[0].Link)
	assert.Empty(t, rec.sessions)
}

func TestNotifyUnknownSourceIsSilentNull(t *testing.T) {
	e, store, rec := newEngine(t)
	wh := seedWebhook(t, store, integrations.WebhookSlack)

	out, err := e.Notify(context.Background(), testTenant(), integrations.ShareRequest{
		IntegrationType: integrations.WebhookSlack,
		SourceKind:      "unknown",
		WebhookID:       wh.ID,
	})
	assert.NoError(t, err)
	assert.Nil(t, out)
	assert.Empty(t, rec.sessions)
	assert.Empty(t, rec.errors)
}

func TestNotifyUnknownIntegrationIsSilentNull(t *testing.T) {
	e, _, rec := newEngine(t)
	out, err := e.Notify(context.Background(), testTenant(), integrations.ShareRequest{
		IntegrationType: integrations.WebhookType("pagerduty"),
		SourceKind:      integrations.SourceSessions,
	})
	assert.NoError(t, err)
	assert.Nil(t, out)
	assert.Empty(t, rec.sessions)
}

func TestNotifyMissingWebhook(t *testing.T) {
	e, _, _ := newEngine(t)
	_, err := e.Notify(context.Background(), testTenant(), integrations.ShareRequest{
		IntegrationType: integrations.WebhookSlack,
		SourceKind:      integrations.SourceSessions,
		WebhookID:       "nope",
	})
	require.Error(t, err)
	assert.True(t, integrations.IsNotFound(err))
}

func TestNotifyTypeMismatch(t *testing.T) {
	e, store, _ := newEngine(t)
	wh := seedWebhook(t, store, integrations.WebhookMSTeams)

	_, err := e.Notify(context.Background(), testTenant(), integrations.ShareRequest{
		IntegrationType: integrations.WebhookSlack,
		SourceKind:      integrations.SourceSessions,
		WebhookID:       wh.ID,
	})
	require.Error(t, err)
	assert.True(t, integrations.IsNotFound(err))
}

func TestNotifyFallsBackToDefaultBase(t *testing.T) {
	e, store, rec := newEngine(t)
	wh := seedWebhook(t, store, integrations.WebhookSlack)

	tenant := &tenants.Tenant{ID: "t1", Name: "Acme"}
	_, err := e.Notify(context.Background(), tenant, integrations.ShareRequest{
		IntegrationType: integrations.WebhookSlack,
		SourceKind:      integrations.SourceSessions,
		SourceID:        "s1",
		WebhookID:       wh.ID,
		ProjectID:       "p1",
	})
	require.NoError(t, err)
	require.Len(t, rec.sessions, 1)
	assert.Equal(t, "https://app.acme.com/p1/session/s1", rec.sessions[0].Link)
}
