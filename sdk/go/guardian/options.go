package guardian

import (
	"github.com/vipinkashyap/go-guardian/internal/config"
	"github.com/vipinkashyap/go-guardian/internal/observe"
	"github.com/vipinkashyap/go-guardian/internal/route"
)

// Option configures a Router at creation time.
type Option func(*routerConfig)

type routerConfig struct {
	nodes      []route.Node
	configPath string
	probes     config.Probes
	registry   *config.Registry
	observer   observe.Observer
	notFound   string
}

// WithRoutes sets the navigation tree directly.
func WithRoutes(nodes ...Node) Option {
	return func(c *routerConfig) { c.nodes = nodes }
}

// WithConfigFile loads the navigation tree from a YAML or JSONC route
// table. Requires WithProbes for any guards the table names.
func WithConfigFile(path string) Option {
	return func(c *routerConfig) { c.configPath = path }
}

// WithProbes supplies the named predicates route tables bind guards to.
func WithProbes(p Probes) Option {
	return func(c *routerConfig) { c.probes = p }
}

// WithRegistry replaces the guard registry used for route tables.
func WithRegistry(r *config.Registry) Option {
	return func(c *routerConfig) { c.registry = r }
}

// WithObserver injects a diagnostic observer for all evaluations this
// router performs.
func WithObserver(o Observer) Option {
	return func(c *routerConfig) { c.observer = o }
}

// WithNotFoundRedirect redirects attempts whose path matches no route.
// Without it, unmatched paths proceed: access control decides entry, not
// existence.
func WithNotFoundRedirect(path string) Option {
	return func(c *routerConfig) { c.notFound = path }
}
