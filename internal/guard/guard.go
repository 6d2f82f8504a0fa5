// Package guard implements prioritized access predicates for navigation
// targets and their boolean composition. Guards are immutable after
// construction; anything dynamic is read through injected predicate closures
// at check time.
package guard

import (
	"context"
	"sort"

	"github.com/vipinkashyap/go-guardian/internal/model"
)

// Guard is a single named, prioritized access check. Lower priority runs
// earlier. Check returns the navigation outcome for an attempt; a predicate
// error propagates unmodified to the caller.
type Guard interface {
	Name() string
	Priority() int
	Check(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error)
}

// CheckFunc is the plain construction mode: a check that needs no
// per-evaluation navigation state.
type CheckFunc func(ctx context.Context) (model.Outcome, error)

// AttemptCheckFunc is the attempt-aware construction mode: a check that
// reads the navigation attempt and effective route metadata.
type AttemptCheckFunc func(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error)

// Predicate is a boolean access condition, synchronous or suspending on ctx.
type Predicate func(ctx context.Context) (bool, error)

type funcGuard struct {
	name     string
	priority int
	check    AttemptCheckFunc
}

// New builds a guard from a plain check function.
// Panics on a nil check: misconfiguration is rejected at construction time.
func New(name string, priority int, check CheckFunc) Guard {
	if check == nil {
		panic("guard: New requires a non-nil check")
	}
	return &funcGuard{
		name:     name,
		priority: priority,
		check: func(ctx context.Context, _ model.Attempt, _ model.Meta) (model.Outcome, error) {
			return check(ctx)
		},
	}
}

// NewWithAttempt builds a guard from an attempt-aware check function.
// Evaluation semantics are identical to New; the two modes are
// interchangeable inside combinators.
func NewWithAttempt(name string, priority int, check AttemptCheckFunc) Guard {
	if check == nil {
		panic("guard: NewWithAttempt requires a non-nil check")
	}
	return &funcGuard{name: name, priority: priority, check: check}
}

func (g *funcGuard) Name() string     { return g.name }
func (g *funcGuard) Priority() int    { return g.priority }
func (g *funcGuard) Check(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error) {
	return g.check(ctx, attempt, meta)
}

// SortByPriority returns a defensive copy of guards stably sorted by
// ascending priority. Equal priorities keep their input order; the input
// slice is never reordered.
func SortByPriority(guards []Guard) []Guard {
	sorted := make([]Guard, len(guards))
	copy(sorted, guards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return sorted
}
