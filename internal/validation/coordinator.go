// Package validation bounds outbound vendor handshake calls with a
// timeout and maps every fault onto the domain's ValidationError, so
// registries and handlers never see raw transport errors.
package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sightline/internal/metrics"
	"sightline/pkg/integrations"
)

// Coordinator runs vendor validation calls under a shared deadline.
type Coordinator struct {
	timeout time.Duration
	log     *zap.SugaredLogger
}

func New(timeout time.Duration, log *zap.SugaredLogger) *Coordinator {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Coordinator{timeout: timeout, log: log}
}

// Run executes op under the coordinator deadline. A ValidationError
// from op passes through as-is; timeouts and transport faults are
// wrapped so the caller gets a user-facing message.
func (c *Coordinator) Run(ctx context.Context, vendor string, op func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := op(ctx)
	if err == nil {
		return nil
	}
	metrics.ValidationFailures.WithLabelValues(vendor).Inc()
	if integrations.IsValidation(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.log.Warnw("vendor validation timed out", "vendor", vendor, "timeout", c.timeout)
		return &integrations.ValidationError{
			Message: fmt.Sprintf("%s did not respond within %s", vendor, c.timeout),
			Err:     err,
		}
	}
	c.log.Warnw("vendor validation failed", "vendor", vendor, "err", err)
	return &integrations.ValidationError{
		Message: fmt.Sprintf("could not reach %s, please check your configuration", vendor),
		Err:     err,
	}
}

// Fetch is Run for calls that return a payload (project lists, log
// groups). Same deadline and error mapping.
func (c *Coordinator) Fetch(ctx context.Context, vendor string, op func(ctx context.Context) (any, error)) (any, error) {
	var out any
	err := c.Run(ctx, vendor, func(ctx context.Context) error {
		var opErr error
		out, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
