package tenants

// Tenant represents a logical customer / account space. Every
// integration config and webhook endpoint is owned by exactly one
// tenant and never outlives it.
type Tenant struct {
	ID            string // uuid
	Slug          string // short name (acme)
	Host          string // primary host (app.acme.com)
	Name          string // display name used in share messages
	BasePublicURL string // base URL session/error share links point at
	OAuthIssuer   string
	JWKSURL       string
}
