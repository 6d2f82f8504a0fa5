package guardian

import (
	"context"
	"strings"
	"testing"
)

func TestHarnessResolvesGuardList(t *testing.T) {
	authenticated := false
	base := NewHarness(Auth(func(context.Context) (bool, error) {
		return authenticated, nil
	}, WithPreserveDeepLink()))

	out, err := base.WithPath("/reports").Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if target, _ := out.Redirect(); target != "/login?continue=%2Freports" {
		t.Errorf("got %s", out)
	}

	authenticated = true
	out, err = base.WithPath("/reports").Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !out.Allowed() {
		t.Errorf("got %s", out)
	}
}

func TestHarnessQueryFeedsDeepLink(t *testing.T) {
	h := NewHarness(Auth(func(context.Context) (bool, error) {
		return false, nil
	}, WithPreserveDeepLink())).
		WithPath("/reports").
		WithQuery("tab", "billing")

	out, err := h.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	target, _ := out.Redirect()
	if !strings.Contains(target, "continue=%2Freports%3Ftab%3Dbilling") {
		t.Errorf("got %q", target)
	}
}

func TestHarnessMetaOptsIntoRoleCheck(t *testing.T) {
	roleCalls := 0
	h := NewHarness(Role(func(_ context.Context, roles []string) (bool, error) {
		roleCalls++
		return len(roles) == 1 && roles[0] == "admin", nil
	}))

	// Without roles metadata the check never runs.
	out, err := h.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !out.Allowed() || roleCalls != 0 {
		t.Fatalf("got %s after %d calls", out, roleCalls)
	}

	out, err = h.WithMeta(NewMeta(map[string]any{"roles": []string{"admin"}})).Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !out.Allowed() || roleCalls != 1 {
		t.Fatalf("got %s after %d calls", out, roleCalls)
	}
}

func TestHarnessDerivationLeavesBaseUntouched(t *testing.T) {
	deny := NewGuardWithAttempt("path-echo", 0, func(_ context.Context, attempt Attempt, _ Meta) (Outcome, error) {
		return RedirectTo("/denied" + attempt.Path), nil
	})
	base := NewHarness(deny)
	derived := base.WithPath("/a").WithQuery("q", "1")

	out, _ := derived.Resolve(context.Background())
	if target, _ := out.Redirect(); target != "/denied/a" {
		t.Errorf("derived: got %s", out)
	}
	out, _ = base.Resolve(context.Background())
	if target, _ := out.Redirect(); target != "/denied/" {
		t.Errorf("base must still simulate the root path, got %s", out)
	}
}

func TestPlainHarnessEmitsNothing(t *testing.T) {
	var events int
	h := NewRouteHarness(NewPlain("/about")).
		WithPath("/about").
		WithObserver(ObserverFuncs{
			Started:   func(EvaluationStarted) { events++ },
			Checked:   func(GuardChecked) { events++ },
			Completed: func(EvaluationCompleted) { events++ },
		})

	out, err := h.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !out.Allowed() {
		t.Errorf("got %s", out)
	}
	if events != 0 {
		t.Errorf("plain routes decide without the resolver, got %d events", events)
	}
}

func TestRouteHarnessEmitsToObserver(t *testing.T) {
	node := NewRoute("/dashboard", WithGuards(
		Auth(func(context.Context) (bool, error) { return false, nil }),
	))

	var started, checked, completed int
	h := NewRouteHarness(node).
		WithPath("/dashboard").
		WithObserver(ObserverFuncs{
			Started:   func(EvaluationStarted) { started++ },
			Checked:   func(GuardChecked) { checked++ },
			Completed: func(EvaluationCompleted) { completed++ },
		})

	out, err := h.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if target, _ := out.Redirect(); target != "/login" {
		t.Errorf("got %s", out)
	}
	if started != 1 || checked != 1 || completed != 1 {
		t.Errorf("events: started=%d checked=%d completed=%d", started, checked, completed)
	}
}
