// Package resolve implements the guard evaluation engine: an ordered guard
// list reduced to a single navigation decision.
package resolve

import (
	"context"
	"time"

	"github.com/vipinkashyap/go-guardian/internal/guard"
	"github.com/vipinkashyap/go-guardian/internal/model"
	"github.com/vipinkashyap/go-guardian/internal/observe"
)

// Resolver evaluates guards in ascending priority order, one at a time,
// stopping at the first denial.
//
// Evaluation order (must not be changed):
//  1. Stable sort of a defensive copy by priority; ties keep input order
//  2. Context liveness check before each guard; stale attempts abort to a
//     neutral proceed
//  3. First redirect stops evaluation; later guards never run
type Resolver struct {
	observer observe.Observer
}

// Option configures a Resolver at creation time.
type Option func(*Resolver)

// WithObserver injects a diagnostic observer. Without it the resolver falls
// back to the process-wide slot, which defaults to dropping events.
func WithObserver(o observe.Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// sink returns the observer to emit to, or nil when events should drop.
// The global slot is read once per call site.
func (r *Resolver) sink() observe.Observer {
	if r.observer != nil {
		return r.observer
	}
	return observe.Global()
}

// Resolve evaluates guards against the attempt and effective metadata.
// An empty list allows immediately. A guard error propagates unmodified;
// no completed event is emitted for the failed evaluation and no guard is
// retried.
func (r *Resolver) Resolve(ctx context.Context, guards []guard.Guard, attempt model.Attempt, meta model.Meta) (model.Outcome, error) {
	sorted := guard.SortByPriority(guards)
	started := time.Now()

	if sink := r.sink(); sink != nil {
		names := make([]string, len(sorted))
		for i, g := range sorted {
			names[i] = g.Name()
		}
		sink.OnEvaluationStarted(observe.EvaluationStarted{
			Path:       attempt.Path,
			Total:      len(sorted),
			GuardNames: names,
			At:         started,
		})
	}

	evaluated := 0
	outcome := model.Proceed()

	for _, g := range sorted {
		if ctx.Err() != nil {
			// The navigation was superseded or torn down while a guard was
			// suspended. Acting on a stale attempt is worse than doing
			// nothing: abort to a neutral proceed.
			break
		}

		checkStarted := time.Now()
		checked, err := g.Check(ctx, attempt, meta)
		if err != nil {
			return model.Outcome{}, err
		}
		evaluated++

		if sink := r.sink(); sink != nil {
			sink.OnGuardChecked(observe.GuardChecked{
				Path:      attempt.Path,
				GuardName: g.Name(),
				Outcome:   checked,
				Elapsed:   time.Since(checkStarted),
			})
		}

		if !checked.Allowed() {
			outcome = checked
			break
		}
	}

	if sink := r.sink(); sink != nil {
		sink.OnEvaluationCompleted(observe.EvaluationCompleted{
			Path:      attempt.Path,
			Outcome:   outcome,
			Elapsed:   time.Since(started),
			Evaluated: evaluated,
		})
	}

	return outcome, nil
}
