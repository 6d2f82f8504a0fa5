package guard

import (
	"context"
	"testing"

	"github.com/vipinkashyap/go-guardian/internal/model"
)

// countingGuard returns a guard with a fixed outcome and a call counter.
func countingGuard(name string, priority int, outcome model.Outcome, calls *int) Guard {
	return New(name, priority, func(context.Context) (model.Outcome, error) {
		*calls++
		return outcome, nil
	})
}

func allow(name string, priority int, calls *int) Guard {
	return countingGuard(name, priority, model.Proceed(), calls)
}

func deny(name string, priority int, target string, calls *int) Guard {
	return countingGuard(name, priority, model.RedirectTo(target), calls)
}

func check(t *testing.T, g Guard) model.Outcome {
	t.Helper()
	outcome, err := g.Check(context.Background(), model.NewAttempt("/x"), model.EmptyMeta)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	return outcome
}

func TestAndTruthTable(t *testing.T) {
	var n int
	if out := check(t, And(allow("l", 0, &n), allow("r", 0, &n))); !out.Allowed() {
		t.Errorf("AND(allow,allow) = %s", out)
	}
	if out := check(t, And(deny("l", 0, "/x", &n), allow("r", 0, &n))); out.Allowed() {
		t.Error("AND(deny,allow) should deny")
	} else if target, _ := out.Redirect(); target != "/x" {
		t.Errorf("AND should surface left denial, got %q", target)
	}
	if out := check(t, And(allow("l", 0, &n), deny("r", 0, "/y", &n))); out.Allowed() {
		t.Error("AND(allow,deny) should deny")
	} else if target, _ := out.Redirect(); target != "/y" {
		t.Errorf("AND should surface right denial, got %q", target)
	}
}

func TestAndShortCircuit(t *testing.T) {
	var leftCalls, rightCalls int
	g := And(deny("l", 0, "/x", &leftCalls), allow("r", 0, &rightCalls))
	check(t, g)
	if leftCalls != 1 {
		t.Errorf("left evaluated %d times", leftCalls)
	}
	if rightCalls != 0 {
		t.Errorf("right guard of AND must not run when left denies, ran %d times", rightCalls)
	}
}

func TestOrShortCircuit(t *testing.T) {
	var leftCalls, rightCalls int
	g := Or(allow("l", 0, &leftCalls), deny("r", 0, "/y", &rightCalls))
	if out := check(t, g); !out.Allowed() {
		t.Errorf("OR(allow,*) = %s", out)
	}
	if rightCalls != 0 {
		t.Errorf("right guard of OR must not run when left allows, ran %d times", rightCalls)
	}
}

func TestOrDoubleDenialPreservesLeftTarget(t *testing.T) {
	var n int
	g := Or(deny("l", 0, "/first", &n), deny("r", 0, "/second", &n))
	out := check(t, g)
	target, redirected := out.Redirect()
	if !redirected || target != "/first" {
		t.Errorf("OR double denial must keep the left target, got %q", target)
	}
}

func TestOrRightAllowWins(t *testing.T) {
	var n int
	g := Or(deny("l", 0, "/first", &n), allow("r", 0, &n))
	if out := check(t, g); !out.Allowed() {
		t.Errorf("OR(deny,allow) = %s", out)
	}
}

func TestNotInverts(t *testing.T) {
	var n int
	if out := check(t, Not(deny("g", 0, "/x", &n))); !out.Allowed() {
		t.Errorf("NOT(deny) = %s", out)
	}
	out := check(t, Not(allow("g", 0, &n)))
	target, redirected := out.Redirect()
	if !redirected || target != DefaultNotRedirect {
		t.Errorf("NOT(allow) should redirect to default, got %q", target)
	}
}

func TestNotRedirectFromMeta(t *testing.T) {
	var n int
	g := Not(allow("g", 0, &n))
	meta := model.NewMeta(map[string]any{NotRedirectToKey: "/elsewhere"})
	out, err := g.Check(context.Background(), model.NewAttempt("/x"), meta)
	if err != nil {
		t.Fatal(err)
	}
	if target, _ := out.Redirect(); target != "/elsewhere" {
		t.Errorf("got %q", target)
	}
}

func TestCombinatorPriorities(t *testing.T) {
	var n int
	l := allow("l", -5, &n)
	r := allow("r", 10, &n)
	if p := And(l, r).Priority(); p != -5 {
		t.Errorf("AND priority = %d, want min = -5", p)
	}
	if p := Or(r, l).Priority(); p != -5 {
		t.Errorf("OR priority = %d, want min = -5", p)
	}
	if p := Not(r).Priority(); p != 10 {
		t.Errorf("NOT priority = %d, want child's 10", p)
	}
}

func TestCombinatorNilChildrenPanic(t *testing.T) {
	var n int
	g := allow("g", 0, &n)
	for name, build := range map[string]func(){
		"and": func() { And(g, nil) },
		"or":  func() { Or(nil, g) },
		"not": func() { Not(nil) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s with nil child should panic at construction", name)
				}
			}()
			build()
		}()
	}
}

func TestCombinatorErrorPropagates(t *testing.T) {
	boom := New("boom", 0, func(context.Context) (model.Outcome, error) {
		return model.Outcome{}, context.DeadlineExceeded
	})
	var n int
	_, err := And(boom, allow("r", 0, &n)).Check(context.Background(), model.NewAttempt("/x"), model.EmptyMeta)
	if err == nil {
		t.Fatal("expected the predicate error to propagate")
	}
	if n != 0 {
		t.Error("right guard ran after left errored")
	}
}
