package guard

import (
	"context"
	"fmt"

	"github.com/vipinkashyap/go-guardian/internal/model"
)

// NotRedirectToKey is the metadata key that overrides where Not sends a
// denied navigation.
const NotRedirectToKey = "notRedirectTo"

// DefaultNotRedirect is where Not redirects when the metadata has no
// override.
const DefaultNotRedirect = "/"

// Combinators compose guards into boolean trees that are themselves guards.
// Composition is purely structural: children are never mutated, evaluation
// is depth-first, left-to-right, with short-circuiting.

type andGuard struct {
	left, right Guard
}

// And returns a guard that allows only when both children allow.
// The left child's denial wins and the right child is never evaluated.
// Priority is the minimum of the children's priorities.
// Panics on nil children.
func And(left, right Guard) Guard {
	if left == nil || right == nil {
		panic("guard: And requires non-nil children")
	}
	return &andGuard{left: left, right: right}
}

func (g *andGuard) Name() string {
	return fmt.Sprintf("and(%s,%s)", g.left.Name(), g.right.Name())
}

func (g *andGuard) Priority() int {
	return minPriority(g.left, g.right)
}

func (g *andGuard) Check(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error) {
	outcome, err := g.left.Check(ctx, attempt, meta)
	if err != nil {
		return model.Outcome{}, err
	}
	if !outcome.Allowed() {
		return outcome, nil
	}
	return g.right.Check(ctx, attempt, meta)
}

type orGuard struct {
	left, right Guard
}

// Or returns a guard that allows when either child allows. An allowing left
// child short-circuits the right. When both deny, the LEFT child's redirect
// target is returned; the right child's target is discarded.
// Priority is the minimum of the children's priorities.
// Panics on nil children.
func Or(left, right Guard) Guard {
	if left == nil || right == nil {
		panic("guard: Or requires non-nil children")
	}
	return &orGuard{left: left, right: right}
}

func (g *orGuard) Name() string {
	return fmt.Sprintf("or(%s,%s)", g.left.Name(), g.right.Name())
}

func (g *orGuard) Priority() int {
	return minPriority(g.left, g.right)
}

func (g *orGuard) Check(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error) {
	leftOutcome, err := g.left.Check(ctx, attempt, meta)
	if err != nil {
		return model.Outcome{}, err
	}
	if leftOutcome.Allowed() {
		return leftOutcome, nil
	}
	rightOutcome, err := g.right.Check(ctx, attempt, meta)
	if err != nil {
		return model.Outcome{}, err
	}
	if rightOutcome.Allowed() {
		return rightOutcome, nil
	}
	// Double denial preserves the first guard's redirect target.
	return leftOutcome, nil
}

type notGuard struct {
	inner Guard
}

// Not returns a guard that inverts its child: a denying child allows, an
// allowing child denies. The denial redirects to the metadata value under
// NotRedirectToKey, else DefaultNotRedirect. Priority follows the child.
// Panics on a nil child.
func Not(inner Guard) Guard {
	if inner == nil {
		panic("guard: Not requires a non-nil child")
	}
	return &notGuard{inner: inner}
}

func (g *notGuard) Name() string {
	return fmt.Sprintf("not(%s)", g.inner.Name())
}

func (g *notGuard) Priority() int {
	return g.inner.Priority()
}

func (g *notGuard) Check(ctx context.Context, attempt model.Attempt, meta model.Meta) (model.Outcome, error) {
	outcome, err := g.inner.Check(ctx, attempt, meta)
	if err != nil {
		return model.Outcome{}, err
	}
	if !outcome.Allowed() {
		return model.Proceed(), nil
	}
	target := DefaultNotRedirect
	if override, ok := meta.String(NotRedirectToKey); ok {
		target = override
	}
	return model.RedirectTo(target), nil
}

func minPriority(left, right Guard) int {
	if left.Priority() < right.Priority() {
		return left.Priority()
	}
	return right.Priority()
}
