package collab

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sightline/internal/validation"
	"sightline/pkg/integrations"
	"sightline/pkg/providers"
)

// fakeCollab counts test-message calls and fails on demand.
type fakeCollab struct {
	testCalls int
	fail      bool
}

func (f *fakeCollab) SendTestMessage(ctx context.Context, endpoint string) error {
	f.testCalls++
	if f.fail {
		return errors.New("vendor said no")
	}
	return nil
}

func (f *fakeCollab) ShareSession(ctx context.Context, msg providers.ShareMessage) (any, error) {
	return "session-shared", nil
}

func (f *fakeCollab) ShareError(ctx context.Context, msg providers.ShareMessage) (any, error) {
	return "error-shared", nil
}

func newService(t *testing.T) (*Service, integrations.Store, *fakeCollab) {
	t.Helper()
	log := zap.NewNop().Sugar()
	cat := integrations.MustLoadCatalog()
	store := integrations.NewMemoryStore()
	reg := providers.NewRegistry(cat, nil, 0, log)
	fake := &fakeCollab{}
	reg.RegisterCollaborator(integrations.WebhookMSTeams, fake)
	reg.RegisterCollaborator(integrations.WebhookSlack, fake)
	val := validation.New(0, log)
	return New(store, reg, val, log), store, fake
}

func TestAddValidatesOnce(t *testing.T) {
	s, _, fake := newService(t)
	ctx := context.Background()

	wh, err := s.AddEdit(ctx, "t1", integrations.WebhookMSTeams, "", "ops", "https://outlook.office.com/hook/x")
	require.NoError(t, err)
	assert.NotEmpty(t, wh.ID)
	assert.Equal(t, 1, fake.testCalls)
}

func TestEditUnchangedURLSkipsValidation(t *testing.T) {
	s, _, fake := newService(t)
	ctx := context.Background()

	wh, err := s.AddEdit(ctx, "t1", integrations.WebhookMSTeams, "", "ops", "https://outlook.office.com/hook/x")
	require.NoError(t, err)
	fake.testCalls = 0

	updated, err := s.AddEdit(ctx, "t1", integrations.WebhookMSTeams, wh.ID, "renamed", wh.Endpoint)
	require.NoError(t, err)
	assert.Equal(t, 0, fake.testCalls)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, wh.Endpoint, updated.Endpoint)
}

func TestEditChangedURLValidatesExactlyOnce(t *testing.T) {
	s, _, fake := newService(t)
	ctx := context.Background()

	wh, err := s.AddEdit(ctx, "t1", integrations.WebhookMSTeams, "", "ops", "https://outlook.office.com/hook/x")
	require.NoError(t, err)
	fake.testCalls = 0

	updated, err := s.AddEdit(ctx, "t1", integrations.WebhookMSTeams, wh.ID, "ops", "https://outlook.office.com/hook/y")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.testCalls)
	assert.Equal(t, "https://outlook.office.com/hook/y", updated.Endpoint)
}

func TestEditFailedValidationKeepsOldURL(t *testing.T) {
	s, store, fake := newService(t)
	ctx := context.Background()

	wh, err := s.AddEdit(ctx, "t1", integrations.WebhookMSTeams, "", "ops", "https://outlook.office.com/hook/x")
	require.NoError(t, err)

	fake.fail = true
	_, err = s.AddEdit(ctx, "t1", integrations.WebhookMSTeams, wh.ID, "ops", "https://outlook.office.com/hook/broken")
	require.Error(t, err)
	assert.True(t, integrations.IsValidation(err))
	assert.Contains(t, err.Error(), "Microsoft Teams")

	stored, err := store.GetWebhook(ctx, "t1", wh.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://outlook.office.com/hook/x", stored.Endpoint)
}

func TestAddFailedValidationPersistsNothing(t *testing.T) {
	s, store, fake := newService(t)
	ctx := context.Background()

	fake.fail = true
	_, err := s.AddEdit(ctx, "t1", integrations.WebhookSlack, "", "alerts", "https://hooks.slack.com/broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Slack")

	all, err := store.ListWebhooks(ctx, "t1", "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListByType(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	_, _ = s.AddEdit(ctx, "t1", integrations.WebhookSlack, "", "a", "https://hooks.slack.com/a")
	_, _ = s.AddEdit(ctx, "t1", integrations.WebhookMSTeams, "", "b", "https://outlook.office.com/b")

	slack, err := s.ListByType(ctx, "t1", integrations.WebhookSlack)
	require.NoError(t, err)
	require.Len(t, slack, 1)
	assert.Equal(t, "a", slack[0].Name)
}

func TestGenericWebhookSkipsVendorHandshake(t *testing.T) {
	s, _, fake := newService(t)
	ctx := context.Background()

	wh, err := s.UpsertGeneric(ctx, "t1", &integrations.WebhookEndpoint{
		Name: "pager", Endpoint: "https://alerts.acme.com/hook",
	})
	require.NoError(t, err)
	assert.Equal(t, integrations.WebhookGeneric, wh.Type)
	assert.Equal(t, 0, fake.testCalls)

	_, err = s.UpsertGeneric(ctx, "t1", &integrations.WebhookEndpoint{Name: "bad"})
	assert.True(t, integrations.IsValidation(err))
}

func TestGenericUpsertCannotTouchForeignWebhook(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()

	victim, err := s.AddEdit(ctx, "tenant-victim", integrations.WebhookSlack, "", "ops", "https://hooks.slack.com/ops")
	require.NoError(t, err)

	_, err = s.UpsertGeneric(ctx, "tenant-attacker", &integrations.WebhookEndpoint{
		ID: victim.ID, Name: "stolen", Endpoint: "https://evil.example.com/capture",
	})
	require.Error(t, err)
	assert.True(t, integrations.IsNotFound(err))

	kept, err := store.GetWebhook(ctx, "tenant-victim", victim.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.com/ops", kept.Endpoint)

	foreign, err := store.ListWebhooks(ctx, "tenant-attacker", "")
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

func TestGenericUpsertEditsOwnRecord(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	wh, err := s.UpsertGeneric(ctx, "t1", &integrations.WebhookEndpoint{
		Name: "pager", Endpoint: "https://alerts.acme.com/hook",
	})
	require.NoError(t, err)

	updated, err := s.UpsertGeneric(ctx, "t1", &integrations.WebhookEndpoint{
		ID: wh.ID, Name: "pager-2", Endpoint: "https://alerts.acme.com/hook2",
	})
	require.NoError(t, err)
	assert.Equal(t, wh.ID, updated.ID)
	assert.Equal(t, "pager-2", updated.Name)
	assert.Equal(t, "https://alerts.acme.com/hook2", updated.Endpoint)
	assert.Equal(t, integrations.WebhookGeneric, updated.Type)
}

func TestDeleteIdempotent(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, s.Delete(ctx, "t1", "missing"))
	require.NoError(t, s.Delete(ctx, "t1", "missing"))
}

func TestEditUnknownIDIsNotFound(t *testing.T) {
	s, _, _ := newService(t)
	_, err := s.AddEdit(context.Background(), "t1", integrations.WebhookMSTeams, "nope", "x", "https://outlook.office.com/y")
	assert.True(t, integrations.IsNotFound(err))
}
