package guardian

import (
	"context"
	"fmt"
	"sync"

	"github.com/vipinkashyap/go-guardian/internal/config"
	"github.com/vipinkashyap/go-guardian/internal/model"
	"github.com/vipinkashyap/go-guardian/internal/refresh"
	"github.com/vipinkashyap/go-guardian/internal/resolve"
	"github.com/vipinkashyap/go-guardian/internal/route"
)

// Router answers navigation attempts against an immutable guarded route
// tree. The tree is fixed at construction; changing access state is done
// by flipping the data behind the predicates, not by re-declaring routes.
type Router struct {
	nodes    []route.Node
	resolver *resolve.Resolver
	notFound string

	mu      sync.Mutex
	current model.Attempt
	visited bool
}

// NewRouter builds a router from options. Exactly one of WithRoutes and
// WithConfigFile must provide the tree.
func NewRouter(opts ...Option) (*Router, error) {
	var cfg routerConfig
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.nodes != nil && cfg.configPath != "" {
		return nil, fmt.Errorf("guardian: WithRoutes and WithConfigFile are mutually exclusive")
	}
	nodes := cfg.nodes
	if cfg.configPath != "" {
		loaded, err := config.Load(cfg.configPath, cfg.probes, cfg.registry)
		if err != nil {
			return nil, err
		}
		nodes = loaded
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("guardian: router needs at least one route")
	}

	var resolverOpts []resolve.Option
	if cfg.observer != nil {
		resolverOpts = append(resolverOpts, resolve.WithObserver(cfg.observer))
	}
	return &Router{
		nodes:    nodes,
		resolver: resolve.New(resolverOpts...),
		notFound: cfg.notFound,
	}, nil
}

// Navigate decides the attempt to path with the given query parameters and
// records it as the current location for Refresh.
func (r *Router) Navigate(ctx context.Context, path string, query map[string]string) (Outcome, error) {
	attempt := model.Attempt{Path: path, Query: query}
	outcome, err := r.decide(ctx, attempt)
	if err != nil {
		return Outcome{}, err
	}
	r.mu.Lock()
	r.current = attempt
	r.visited = true
	r.mu.Unlock()
	return outcome, nil
}

// Refresh re-decides the current location, for use when an external change
// signal fires. ok is false when nothing has been navigated yet.
func (r *Router) Refresh(ctx context.Context) (outcome Outcome, ok bool, err error) {
	r.mu.Lock()
	attempt, visited := r.current, r.visited
	r.mu.Unlock()
	if !visited {
		return Outcome{}, false, nil
	}
	outcome, err = r.decide(ctx, attempt)
	if err != nil {
		return Outcome{}, true, err
	}
	return outcome, true, nil
}

func (r *Router) decide(ctx context.Context, attempt model.Attempt) (Outcome, error) {
	matched, found := route.Match(r.nodes, attempt.Path)
	if !found {
		if r.notFound != "" {
			return model.RedirectTo(r.notFound), nil
		}
		return model.Proceed(), nil
	}
	attempt.Params = matched.Params

	if protected, isRoute := matched.Node.(*route.Route); isRoute {
		return protected.DecideWith(ctx, attempt, r.resolver)
	}
	return matched.Node.Decide(ctx, attempt)
}

// BindRefresh creates an aggregator that re-decides the current location on
// every merged change signal. Each re-decision is handed to onOutcome;
// signals before any navigation, and re-decisions that error, are dropped.
// The caller owns the aggregator and attaches sources to it.
func (r *Router) BindRefresh(onOutcome func(Outcome)) *refresh.Aggregator {
	return refresh.New(func() {
		outcome, ok, err := r.Refresh(context.Background())
		if err != nil || !ok {
			return
		}
		if onOutcome != nil {
			onOutcome(outcome)
		}
	})
}

// NavigateFunc performs an actual navigation once guards have allowed it.
type NavigateFunc func(ctx context.Context, path string) error

// Wrap returns a NavigateFunc that decides access before calling fn. A
// redirect outcome returns a *DeniedError without calling fn.
func (r *Router) Wrap(fn NavigateFunc) NavigateFunc {
	return func(ctx context.Context, path string) error {
		outcome, err := r.Navigate(ctx, path, nil)
		if err != nil {
			return err
		}
		if target, redirected := outcome.Redirect(); redirected {
			return &DeniedError{Path: path, RedirectTo: target}
		}
		return fn(ctx, path)
	}
}
