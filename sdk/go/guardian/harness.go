package guardian

import (
	"context"

	"github.com/vipinkashyap/go-guardian/internal/guard"
	"github.com/vipinkashyap/go-guardian/internal/model"
	"github.com/vipinkashyap/go-guardian/internal/observe"
	"github.com/vipinkashyap/go-guardian/internal/resolve"
	"github.com/vipinkashyap/go-guardian/internal/route"
)

// Harness resolves a guard list or a route headlessly: a simulated path and
// metadata, no UI context. The With variants return derived harnesses, so a
// base harness can fan out into sequential test cases.
type Harness struct {
	guards   []guard.Guard
	decider  route.Decider
	path     string
	query    map[string]string
	meta     model.Meta
	observer observe.Observer
}

// NewHarness creates a harness over an ordered guard list, simulating the
// root path with empty metadata.
func NewHarness(guards ...Guard) *Harness {
	return &Harness{guards: guards, path: "/", meta: model.EmptyMeta}
}

// NewRouteHarness creates a harness over a single decidable node.
func NewRouteHarness(d Decider) *Harness {
	return &Harness{decider: d, path: "/", meta: model.EmptyMeta}
}

// WithPath returns a derived harness targeting path.
func (h *Harness) WithPath(path string) *Harness {
	derived := *h
	derived.path = path
	return &derived
}

// WithQuery returns a derived harness with one more query parameter.
func (h *Harness) WithQuery(key, value string) *Harness {
	derived := *h
	derived.query = make(map[string]string, len(h.query)+1)
	for k, v := range h.query {
		derived.query[k] = v
	}
	derived.query[key] = value
	return &derived
}

// WithMeta returns a derived harness with the given simulated metadata.
func (h *Harness) WithMeta(meta Meta) *Harness {
	derived := *h
	derived.meta = meta
	return &derived
}

// WithObserver returns a derived harness emitting events to o. Events flow
// for guard-list harnesses and protected-route harnesses; Plain and Discard
// nodes decide without the resolver and emit nothing, so a harness over one
// of those has no events to deliver.
func (h *Harness) WithObserver(o Observer) *Harness {
	derived := *h
	derived.observer = o
	return &derived
}

// Resolve produces the outcome for the simulated attempt.
func (h *Harness) Resolve(ctx context.Context) (Outcome, error) {
	attempt := model.Attempt{Path: h.path, Query: h.query}
	var opts []resolve.Option
	if h.observer != nil {
		opts = append(opts, resolve.WithObserver(h.observer))
	}
	if h.decider != nil {
		if r, ok := h.decider.(*route.Route); ok && h.observer != nil {
			return r.DecideWith(ctx, attempt, resolve.New(opts...))
		}
		return h.decider.Decide(ctx, attempt)
	}
	return resolve.New(opts...).Resolve(ctx, h.guards, attempt, h.meta)
}
