// Package integrations holds the per-tenant third-party integration
// registry: configuration records, the vendor catalog, credential
// obfuscation and the backing store.
package integrations

import "time"

// Category groups vendors that share a contract shape.
type Category string

const (
	CategoryIssueTracking Category = "issue_tracking"
	CategoryLogTool       Category = "log_tool"
	CategoryCollaboration Category = "collaboration"
)

// Kind is the vendor tag of an integration (jira, datadog, slack, ...).
type Kind string

const (
	KindJira   Kind = "jira"
	KindGithub Kind = "github"

	KindSentry        Kind = "sentry"
	KindDatadog       Kind = "datadog"
	KindStackdriver   Kind = "stackdriver"
	KindNewrelic      Kind = "newrelic"
	KindRollbar       Kind = "rollbar"
	KindBugsnag       Kind = "bugsnag"
	KindCloudwatch    Kind = "cloudwatch"
	KindElasticsearch Kind = "elasticsearch"
	KindSumologic     Kind = "sumologic"

	KindSlack   Kind = "slack"
	KindMSTeams Kind = "msteams"
)

// WebhookType tags a WebhookEndpoint. Generic alert webhooks share the
// table with the collaboration vendors.
type WebhookType string

const (
	WebhookSlack   WebhookType = "slack"
	WebhookMSTeams WebhookType = "msteams"
	WebhookGeneric WebhookType = "webhook"
)

// Config is one vendor configuration owned by a tenant. Issue-tracking
// configs are tenant-scoped (empty ProjectID); log-tool configs are
// project-scoped.
type Config struct {
	ID          string            `json:"id"`
	TenantID    string            `json:"tenant_id"`
	ProjectID   string            `json:"project_id,omitempty"`
	Category    Category          `json:"category"`
	Kind        Kind              `json:"kind"`
	Credentials map[string]string `json:"credentials"`
	Enabled     bool              `json:"enabled"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// WebhookEndpoint is a named outbound URL a tenant shares sessions or
// errors to (Slack / MS Teams incoming webhook, generic alert hook).
type WebhookEndpoint struct {
	ID        string      `json:"id"`
	TenantID  string      `json:"tenant_id"`
	Type      WebhookType `json:"type"`
	Name      string      `json:"name"`
	Endpoint  string      `json:"endpoint"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Share source kinds accepted by the dispatch engine.
const (
	SourceSessions = "sessions"
	SourceErrors   = "errors"
)

// ShareRequest is the ephemeral dispatch input; it is never persisted.
type ShareRequest struct {
	IntegrationType WebhookType
	SourceKind      string
	SourceID        string
	WebhookID       string
	Comment         string
	Actor           string
	ProjectID       string
	ProjectName     string
}
