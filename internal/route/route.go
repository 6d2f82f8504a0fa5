// Package route binds guards to a navigation tree. Shells propagate their
// guards and metadata into descendant protected routes when the tree is
// built; after that the tree is immutable and access changes flow only
// through the predicates guards read at check time.
package route

import (
	"context"

	"github.com/vipinkashyap/go-guardian/internal/chain"
	"github.com/vipinkashyap/go-guardian/internal/guard"
	"github.com/vipinkashyap/go-guardian/internal/model"
	"github.com/vipinkashyap/go-guardian/internal/resolve"
)

// Node is one entry in the navigation tree: a protected Route, a Plain
// route, a Discard route, or a Shell.
type Node interface {
	node()
}

// Decider is a node that can answer a navigation attempt.
type Decider interface {
	Node
	Decide(ctx context.Context, attempt model.Attempt) (model.Outcome, error)
}

// defaultResolver backs Decide when no resolver is injected. Stateless; it
// reads the process-wide observer slot at each emission.
var defaultResolver = resolve.New()

// Route is a protected route: its effective guard list and metadata are
// fixed when the tree is built, including anything inherited from enclosing
// shells.
type Route struct {
	path string

	guards []guard.Guard // effective: shell-inherited ++ own
	meta   model.Meta    // effective: shell meta merged underneath own

	ownGuards []guard.Guard // as declared, retained for re-propagation
	ownMeta   model.Meta

	legacy      chain.RedirectFunc
	loading     bool
	children    []Node
	ownChildren []Node
}

// RouteOption configures a protected route at construction time.
type RouteOption func(*Route)

// WithGuards sets the route's own declared guards.
func WithGuards(guards ...guard.Guard) RouteOption {
	return func(r *Route) { r.ownGuards = guards }
}

// WithMeta sets the route's own metadata.
func WithMeta(meta model.Meta) RouteOption {
	return func(r *Route) { r.ownMeta = meta }
}

// WithLegacyRedirect retains a pre-existing ad-hoc redirect function. It
// runs only after every guard has allowed.
func WithLegacyRedirect(fn chain.RedirectFunc) RouteOption {
	return func(r *Route) { r.legacy = fn }
}

// WithChildren nests child routes under this route.
func WithChildren(children ...Node) RouteOption {
	return func(r *Route) { r.children = children }
}

// WithLoadingFallback marks the route as having a loading renderer for
// in-flight async guard resolution. The engine only carries the marker.
func WithLoadingFallback() RouteOption {
	return func(r *Route) { r.loading = true }
}

// NewRoute creates a protected route.
func NewRoute(path string, opts ...RouteOption) *Route {
	r := &Route{path: path, meta: model.EmptyMeta, ownMeta: model.EmptyMeta}
	for _, o := range opts {
		o(r)
	}
	r.guards = r.ownGuards
	r.meta = r.ownMeta
	r.ownChildren = r.children
	return r
}

func (r *Route) node() {}

// Path returns the route's declared path segment.
func (r *Route) Path() string { return r.path }

// Guards returns the effective guard list.
func (r *Route) Guards() []guard.Guard { return r.guards }

// Meta returns the effective metadata.
func (r *Route) Meta() model.Meta { return r.meta }

// Children returns the route's (already propagated) children.
func (r *Route) Children() []Node { return r.children }

// HasLoadingFallback reports whether a loading renderer was declared.
func (r *Route) HasLoadingFallback() bool { return r.loading }

// Decide answers a navigation attempt using the default resolver.
func (r *Route) Decide(ctx context.Context, attempt model.Attempt) (model.Outcome, error) {
	return r.DecideWith(ctx, attempt, defaultResolver)
}

// DecideWith answers a navigation attempt with an injected resolver. A route
// with no guards and no legacy redirect is a true no-op: no resolver call,
// no events. Otherwise the resolver runs first and the legacy redirect is
// consulted only when every guard allowed.
func (r *Route) DecideWith(ctx context.Context, attempt model.Attempt, res *resolve.Resolver) (model.Outcome, error) {
	if len(r.guards) == 0 && r.legacy == nil {
		return model.Proceed(), nil
	}
	if len(r.guards) > 0 {
		outcome, err := res.Resolve(ctx, r.guards, attempt, r.meta)
		if err != nil {
			return model.Outcome{}, err
		}
		if !outcome.Allowed() {
			return outcome, nil
		}
	}
	if r.legacy != nil {
		if ctx.Err() != nil {
			return model.Proceed(), nil
		}
		return r.legacy(ctx, attempt)
	}
	return model.Proceed(), nil
}

// rebuild returns a copy of the route with inherited guards prepended and
// inherited metadata merged underneath its own. Inherited guards continue
// down through the route's own children.
func (r *Route) rebuild(inherited []guard.Guard, inheritedMeta model.Meta) *Route {
	guards := make([]guard.Guard, 0, len(inherited)+len(r.ownGuards))
	guards = append(guards, inherited...)
	guards = append(guards, r.ownGuards...)
	return &Route{
		path:        r.path,
		guards:      guards,
		meta:        inheritedMeta.Merge(r.ownMeta),
		ownGuards:   r.ownGuards,
		ownMeta:     r.ownMeta,
		legacy:      r.legacy,
		loading:     r.loading,
		children:    propagate(inherited, inheritedMeta, r.ownChildren),
		ownChildren: r.ownChildren,
	}
}

// Plain is an unguarded route. Nesting it inside a guarded shell is an
// explicit opt-out: it never receives inherited guards and deciding it emits
// nothing.
type Plain struct {
	path     string
	children []Node
}

// NewPlain creates an unguarded route.
func NewPlain(path string, children ...Node) *Plain {
	return &Plain{path: path, children: children}
}

func (p *Plain) node() {}

// Path returns the route's declared path segment.
func (p *Plain) Path() string { return p.path }

// Children returns the nested routes.
func (p *Plain) Children() []Node { return p.children }

// Decide always proceeds.
func (p *Plain) Decide(context.Context, model.Attempt) (model.Outcome, error) {
	return model.Proceed(), nil
}

// Discard is the mirror image of a protected route: it redirects away when
// its condition is true. Used for entry points, like a login page, that
// should be skipped once no longer relevant. No priority, no composition,
// no metadata.
type Discard struct {
	path       string
	when       guard.Predicate
	redirectTo string
}

// NewDiscard creates a discard route. Panics on a nil condition.
func NewDiscard(path string, when guard.Predicate, redirectTo string) *Discard {
	if when == nil {
		panic("route: NewDiscard requires a non-nil condition")
	}
	return &Discard{path: path, when: when, redirectTo: redirectTo}
}

func (d *Discard) node() {}

// Path returns the route's declared path segment.
func (d *Discard) Path() string { return d.path }

// Decide redirects to the fixed target when the condition holds, else
// proceeds untouched.
func (d *Discard) Decide(ctx context.Context, _ model.Attempt) (model.Outcome, error) {
	discard, err := d.when(ctx)
	if err != nil {
		return model.Outcome{}, err
	}
	if discard {
		return model.RedirectTo(d.redirectTo), nil
	}
	return model.Proceed(), nil
}
