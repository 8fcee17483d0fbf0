package integrations

import (
	"errors"
	"fmt"
)

// ErrNoActiveIntegration is returned when a tenant has no enabled
// issue-tracking tool at all. It is deliberately distinct from a
// kind-specific NotFoundError so callers can message "select a tool"
// instead of "tool X not configured".
var ErrNoActiveIntegration = errors.New("no active issue tracking tool, please select one")

// NotFoundError reports a missing config or webhook.
type NotFoundError struct {
	What string // e.g. "jira integration", "MsTeams integration"
}

func (e *NotFoundError) Error() string { return e.What + " not found" }

// NotFound builds a NotFoundError for the given subject.
func NotFound(what string) *NotFoundError { return &NotFoundError{What: what} }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError covers malformed input and failed vendor handshakes.
// Transport faults (timeouts, unreachable hosts) are mapped into it by
// the validation coordinator, so callers never see raw net errors.
// A ValidationError always means nothing was persisted.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a plain ValidationError.
func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
