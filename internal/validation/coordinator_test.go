package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sightline/pkg/integrations"
)

func testLog() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func TestRunSuccess(t *testing.T) {
	c := New(time.Second, testLog())
	err := c.Run(context.Background(), "sentry", func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestRunMapsTimeout(t *testing.T) {
	c := New(20*time.Millisecond, testLog())
	err := c.Run(context.Background(), "elasticsearch", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.Error(t, err)
	assert.True(t, integrations.IsValidation(err))
	assert.Contains(t, err.Error(), "did not respond")
}

func TestRunWrapsTransportFault(t *testing.T) {
	c := New(time.Second, testLog())
	boom := errors.New("connection refused")
	err := c.Run(context.Background(), "msteams", func(ctx context.Context) error { return boom })
	require.Error(t, err)
	assert.True(t, integrations.IsValidation(err))
	assert.NotContains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, boom)
}

func TestRunPassesValidationErrorThrough(t *testing.T) {
	c := New(time.Second, testLog())
	orig := integrations.Invalid("bad port")
	err := c.Run(context.Background(), "elasticsearch", func(ctx context.Context) error { return orig })
	require.Error(t, err)
	assert.Equal(t, "bad port", err.Error())
}

func TestFetchReturnsPayload(t *testing.T) {
	c := New(time.Second, testLog())
	out, err := c.Fetch(context.Background(), "cloudwatch", func(ctx context.Context) (any, error) {
		return []string{"group-a"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"group-a"}, out)

	out, err = c.Fetch(context.Background(), "cloudwatch", func(ctx context.Context) (any, error) {
		return nil, errors.New("down")
	})
	assert.Nil(t, out)
	assert.True(t, integrations.IsValidation(err))
}
