// Package providers holds the vendor client implementations and the
// factory registry that maps a vendor kind to its client. Registries
// and the dispatch engine never branch on vendor names; they look the
// client up here.
package providers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sightline/pkg/integrations"
)

// IssueTracker is the capability set of an issue-tracking vendor
// (Jira, GitHub) instantiated with a tenant's stored credentials.
type IssueTracker interface {
	// Validate performs a cheap authenticated call to prove the
	// credentials are usable.
	Validate(ctx context.Context) error
	// Projects lists the remote projects/repositories issues can be
	// filed against.
	Projects(ctx context.Context) (any, error)
	// ProjectMetadata fetches per-project issue metadata (types,
	// labels, assignees) used to build the assignment form.
	ProjectMetadata(ctx context.Context, remoteProjectID string) (any, error)
}

// Pinger is a vendor connectivity test (Elasticsearch cluster health).
type Pinger interface {
	Ping(ctx context.Context) error
}

// ShareMessage is the rendered payload a collaboration vendor posts.
type ShareMessage struct {
	Endpoint    string
	Title       string
	Link        string
	Comment     string
	Actor       string
	ProjectName string
}

// Collaborator posts messages to an incoming-webhook vendor (Slack,
// MS Teams). Implementations are stateless; the endpoint travels with
// each call.
type Collaborator interface {
	SendTestMessage(ctx context.Context, endpoint string) error
	ShareSession(ctx context.Context, msg ShareMessage) (any, error)
	ShareError(ctx context.Context, msg ShareMessage) (any, error)
}

// Factory signatures. Issue trackers and pingers are built per request
// from stored credentials; discovery runs on raw transient credentials
// that were never persisted.
type (
	IssueFactory func(creds map[string]string) (IssueTracker, error)
	PingFactory  func(creds map[string]string) (Pinger, error)
	DiscoverFunc func(ctx context.Context, creds map[string]string) (any, error)
)

// Registry maps vendor kinds to client factories.
type Registry struct {
	log      *zap.SugaredLogger
	cat      *integrations.Catalog
	meta     *MetaCache
	issue    map[integrations.Kind]IssueFactory
	pinger   map[integrations.Kind]PingFactory
	discover map[integrations.Kind]DiscoverFunc
	collab   map[integrations.WebhookType]Collaborator
}

// NewRegistry wires every builtin vendor client. rdb may be nil (cache
// disabled).
func NewRegistry(cat *integrations.Catalog, rdb *redis.Client, cacheTTL time.Duration, log *zap.SugaredLogger) *Registry {
	r := &Registry{
		log:      log,
		cat:      cat,
		meta:     NewMetaCache(rdb, cacheTTL),
		issue:    map[integrations.Kind]IssueFactory{},
		pinger:   map[integrations.Kind]PingFactory{},
		discover: map[integrations.Kind]DiscoverFunc{},
		collab:   map[integrations.WebhookType]Collaborator{},
	}

	jiraSpec, _ := cat.Vendor(integrations.KindJira)
	r.RegisterIssueTracker(integrations.KindJira, func(creds map[string]string) (IssueTracker, error) {
		return NewJiraClient(jiraSpec, creds)
	})
	githubSpec, _ := cat.Vendor(integrations.KindGithub)
	r.RegisterIssueTracker(integrations.KindGithub, func(creds map[string]string) (IssueTracker, error) {
		return NewGithubClient(githubSpec, creds)
	})

	r.RegisterPinger(integrations.KindElasticsearch, func(creds map[string]string) (Pinger, error) {
		return NewElasticsearchClient(creds)
	})

	r.RegisterDiscoverer(integrations.KindCloudwatch, DiscoverCloudwatchLogGroups)
	bugsnagSpec, _ := cat.Vendor(integrations.KindBugsnag)
	r.RegisterDiscoverer(integrations.KindBugsnag, func(ctx context.Context, creds map[string]string) (any, error) {
		return DiscoverBugsnagProjects(ctx, bugsnagSpec, creds)
	})

	r.RegisterCollaborator(integrations.WebhookSlack, NewSlackClient())
	r.RegisterCollaborator(integrations.WebhookMSTeams, NewMSTeamsClient())
	return r
}

func (r *Registry) RegisterIssueTracker(kind integrations.Kind, f IssueFactory) { r.issue[kind] = f }
func (r *Registry) RegisterPinger(kind integrations.Kind, f PingFactory)       { r.pinger[kind] = f }
func (r *Registry) RegisterDiscoverer(kind integrations.Kind, f DiscoverFunc)  { r.discover[kind] = f }
func (r *Registry) RegisterCollaborator(t integrations.WebhookType, c Collaborator) {
	r.collab[t] = c
}

// IssueTracker instantiates the client for kind from stored creds.
func (r *Registry) IssueTracker(kind integrations.Kind, creds map[string]string) (IssueTracker, error) {
	f, ok := r.issue[kind]
	if !ok {
		return nil, integrations.Invalid("unsupported issue tracking tool %q", kind)
	}
	return f(creds)
}

// Pinger returns the connectivity tester for kind, or false when the
// vendor has none.
func (r *Registry) Pinger(kind integrations.Kind, creds map[string]string) (Pinger, bool, error) {
	f, ok := r.pinger[kind]
	if !ok {
		return nil, false, nil
	}
	p, err := f(creds)
	return p, true, err
}

// Discover runs the pre-flight discovery call for kind on raw,
// not-yet-persisted credentials.
func (r *Registry) Discover(ctx context.Context, kind integrations.Kind, creds map[string]string) (any, error) {
	f, ok := r.discover[kind]
	if !ok {
		return nil, integrations.Invalid("%s does not support discovery", kind)
	}
	return f(ctx, creds)
}

// Collaborator returns the webhook client for a collaboration type.
func (r *Registry) Collaborator(t integrations.WebhookType) (Collaborator, bool) {
	c, ok := r.collab[t]
	return c, ok
}

// Meta exposes the shared remote-metadata cache.
func (r *Registry) Meta() *MetaCache { return r.meta }
