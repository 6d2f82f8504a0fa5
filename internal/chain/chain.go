// Package chain composes new guard-based access checks with pre-existing
// ad-hoc redirect functions, so brownfield code can adopt guards without a
// rewrite. Steps short-circuit: once any step redirects, nothing after it
// runs.
package chain

import (
	"context"

	"github.com/vipinkashyap/go-guardian/internal/guard"
	"github.com/vipinkashyap/go-guardian/internal/model"
)

// RedirectFunc is a legacy ad-hoc redirect check: proceed or redirect, with
// no priority and no metadata.
type RedirectFunc func(ctx context.Context, attempt model.Attempt) (model.Outcome, error)

// DecisionFunc is the composed decision produced by a Chain strategy.
type DecisionFunc func(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error)

type step func(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error)

// Chain accumulates an optional legacy redirect function and an ordered list
// of steps, then composes them under one of three precedence strategies.
type Chain struct {
	legacy RedirectFunc
	steps  []step
}

// New creates an empty chain.
func New() *Chain {
	return &Chain{}
}

// FromLegacy creates a chain seeded with an existing redirect function.
func FromLegacy(fn RedirectFunc) *Chain {
	return &Chain{legacy: fn}
}

// FromGuards creates a chain seeded with guard steps in the given order.
func FromGuards(guards ...guard.Guard) *Chain {
	c := &Chain{}
	for _, g := range guards {
		c.Then(g)
	}
	return c
}

// Then appends a guard check as the next step.
func (c *Chain) Then(g guard.Guard) *Chain {
	if g == nil {
		panic("chain: Then requires a non-nil guard")
	}
	c.steps = append(c.steps, g.Check)
	return c
}

// ThenRaw appends a raw redirect function as the next step.
func (c *Chain) ThenRaw(fn RedirectFunc) *Chain {
	if fn == nil {
		panic("chain: ThenRaw requires a non-nil function")
	}
	c.steps = append(c.steps, func(ctx context.Context, attempt model.Attempt, _ model.Meta) (model.Outcome, error) {
		return fn(ctx, attempt)
	})
	return c
}

// ExistingWins composes with legacy precedence: the legacy function runs
// first and its redirect returns immediately without evaluating any step;
// otherwise steps run in order and the first redirect wins.
func (c *Chain) ExistingWins() DecisionFunc {
	legacy := c.legacy
	steps := c.snapshot()
	return func(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error) {
		if legacy != nil {
			if ctx.Err() != nil {
				return model.Proceed(), nil
			}
			outcome, err := legacy(ctx, attempt)
			if err != nil {
				return model.Outcome{}, err
			}
			if !outcome.Allowed() {
				return outcome, nil
			}
		}
		return runSteps(ctx, steps, attempt, meta)
	}
}

// GuardsWin composes with step precedence: steps run first and the first
// redirect wins; only when every step allows does the legacy function run,
// and its result, redirect or proceed, is returned.
func (c *Chain) GuardsWin() DecisionFunc {
	legacy := c.legacy
	steps := c.snapshot()
	return func(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error) {
		outcome, err := runSteps(ctx, steps, attempt, meta)
		if err != nil {
			return model.Outcome{}, err
		}
		if !outcome.Allowed() {
			return outcome, nil
		}
		if legacy != nil {
			if ctx.Err() != nil {
				return model.Proceed(), nil
			}
			return legacy(ctx, attempt)
		}
		return model.Proceed(), nil
	}
}

// Build composes the general ordered mode: with a legacy function and zero
// steps the legacy function is called directly; otherwise steps run in order
// first and, when all pass, the legacy function (if present) decides.
func (c *Chain) Build() DecisionFunc {
	legacy := c.legacy
	steps := c.snapshot()
	if legacy != nil && len(steps) == 0 {
		return func(ctx context.Context, attempt model.Attempt, _ model.Meta) (model.Outcome, error) {
			if ctx.Err() != nil {
				return model.Proceed(), nil
			}
			return legacy(ctx, attempt)
		}
	}
	return func(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error) {
		outcome, err := runSteps(ctx, steps, attempt, meta)
		if err != nil {
			return model.Outcome{}, err
		}
		if !outcome.Allowed() {
			return outcome, nil
		}
		if legacy != nil {
			if ctx.Err() != nil {
				return model.Proceed(), nil
			}
			return legacy(ctx, attempt)
		}
		return model.Proceed(), nil
	}
}

// snapshot freezes the step list so later Then calls do not alter an
// already-built decision function.
func (c *Chain) snapshot() []step {
	steps := make([]step, len(c.steps))
	copy(steps, c.steps)
	return steps
}

func runSteps(ctx context.Context, steps []step, attempt model.Attempt, meta model.Meta) (model.Outcome, error) {
	for _, s := range steps {
		if ctx.Err() != nil {
			// Stale attempt: stop composing redirects for a navigation
			// nobody is waiting on.
			return model.Proceed(), nil
		}
		outcome, err := s(ctx, attempt, meta)
		if err != nil {
			return model.Outcome{}, err
		}
		if !outcome.Allowed() {
			return outcome, nil
		}
	}
	return model.Proceed(), nil
}
