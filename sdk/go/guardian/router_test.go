package guardian

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func authState(authenticated *bool) Predicate {
	return func(context.Context) (bool, error) { return *authenticated, nil }
}

func dashboardTree(authenticated *bool) []Node {
	return []Node{
		NewDiscard("/login", func(ctx context.Context) (bool, error) {
			return *authenticated, nil
		}, "/dashboard"),
		NewShell(
			WithShellGuards(Auth(authState(authenticated), WithPreserveDeepLink())),
			WithShellChildren(
				NewRoute("/dashboard",
					WithChildren(NewRoute("settings")),
				),
			),
		),
	}
}

func TestRouterDeepLinkRedirect(t *testing.T) {
	authenticated := false
	router, err := NewRouter(WithRoutes(dashboardTree(&authenticated)...))
	if err != nil {
		t.Fatal(err)
	}

	out, err := router.Navigate(context.Background(), "/dashboard/settings", nil)
	if err != nil {
		t.Fatal(err)
	}
	target, redirected := out.Redirect()
	if !redirected {
		t.Fatal("unauthenticated navigation must redirect")
	}
	if !strings.HasPrefix(target, "/login?") || !strings.Contains(target, "continue=%2Fdashboard%2Fsettings") {
		t.Errorf("got %q", target)
	}

	// Flipping the predicate's data is all it takes to open the route.
	authenticated = true
	out, err = router.Navigate(context.Background(), "/dashboard/settings", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Allowed() {
		t.Errorf("got %s", out)
	}
}

func TestRouterRefresh(t *testing.T) {
	authenticated := true
	router, err := NewRouter(WithRoutes(dashboardTree(&authenticated)...))
	if err != nil {
		t.Fatal(err)
	}

	// Nothing navigated yet.
	if _, ok, _ := router.Refresh(context.Background()); ok {
		t.Fatal("refresh before any navigation must report ok=false")
	}

	if _, err := router.Navigate(context.Background(), "/dashboard", nil); err != nil {
		t.Fatal(err)
	}

	// Session expires; the standing location is re-decided.
	authenticated = false
	out, ok, err := router.Refresh(context.Background())
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if target, _ := out.Redirect(); !strings.HasPrefix(target, "/login") {
		t.Errorf("got %s", out)
	}
}

func TestRouterWrap(t *testing.T) {
	authenticated := false
	router, err := NewRouter(WithRoutes(dashboardTree(&authenticated)...))
	if err != nil {
		t.Fatal(err)
	}

	var rendered []string
	navigate := router.Wrap(func(_ context.Context, path string) error {
		rendered = append(rendered, path)
		return nil
	})

	err = navigate(context.Background(), "/dashboard")
	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("want *DeniedError, got %v", err)
	}
	if denied.Path != "/dashboard" || !strings.HasPrefix(denied.RedirectTo, "/login") {
		t.Errorf("got %+v", denied)
	}
	if len(rendered) != 0 {
		t.Fatalf("denied navigation must not render, got %v", rendered)
	}

	authenticated = true
	if err := navigate(context.Background(), "/dashboard"); err != nil {
		t.Fatal(err)
	}
	if len(rendered) != 1 || rendered[0] != "/dashboard" {
		t.Errorf("got %v", rendered)
	}
}

func TestRouterDiscardRoute(t *testing.T) {
	authenticated := true
	router, err := NewRouter(WithRoutes(dashboardTree(&authenticated)...))
	if err != nil {
		t.Fatal(err)
	}
	out, err := router.Navigate(context.Background(), "/login", nil)
	if err != nil {
		t.Fatal(err)
	}
	if target, _ := out.Redirect(); target != "/dashboard" {
		t.Errorf("got %s", out)
	}
}

func TestRouterNotFound(t *testing.T) {
	router, err := NewRouter(
		WithRoutes(NewPlain("/home")),
		WithNotFoundRedirect("/404"),
	)
	if err != nil {
		t.Fatal(err)
	}
	out, err := router.Navigate(context.Background(), "/nowhere", nil)
	if err != nil {
		t.Fatal(err)
	}
	if target, _ := out.Redirect(); target != "/404" {
		t.Errorf("got %s", out)
	}

	// Without the option unmatched paths proceed.
	router, err = NewRouter(WithRoutes(NewPlain("/home")))
	if err != nil {
		t.Fatal(err)
	}
	out, err = router.Navigate(context.Background(), "/nowhere", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Allowed() {
		t.Errorf("got %s", out)
	}
}

func TestRouterPathParams(t *testing.T) {
	owner := NewGuardWithAttempt("owner", 0, func(_ context.Context, attempt Attempt, _ Meta) (Outcome, error) {
		if attempt.Param("id") == "7" {
			return Proceed(), nil
		}
		return RedirectTo("/mine"), nil
	})
	router, err := NewRouter(WithRoutes(
		NewRoute("/orders/:id", WithGuards(owner)),
	))
	if err != nil {
		t.Fatal(err)
	}

	out, err := router.Navigate(context.Background(), "/orders/7", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Allowed() {
		t.Errorf("got %s", out)
	}
	out, err = router.Navigate(context.Background(), "/orders/9", nil)
	if err != nil {
		t.Fatal(err)
	}
	if target, _ := out.Redirect(); target != "/mine" {
		t.Errorf("got %s", out)
	}
}

func TestRouterFromConfigFile(t *testing.T) {
	table := `
routes:
  - path: /about
    kind: plain
  - path: /admin
    guards:
      - name: auth
`
	path := filepath.Join(t.TempDir(), "routes.yaml")
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}

	router, err := NewRouter(
		WithConfigFile(path),
		WithProbes(Probes{
			Authenticated: func(context.Context) (bool, error) { return false, nil },
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	out, err := router.Navigate(context.Background(), "/admin", nil)
	if err != nil {
		t.Fatal(err)
	}
	if target, _ := out.Redirect(); target != "/login" {
		t.Errorf("got %s", out)
	}
	if out, _ := router.Navigate(context.Background(), "/about", nil); !out.Allowed() {
		t.Errorf("got %s", out)
	}
}

func TestRouterBindRefresh(t *testing.T) {
	authenticated := true
	router, err := NewRouter(WithRoutes(dashboardTree(&authenticated)...))
	if err != nil {
		t.Fatal(err)
	}

	var outcomes []Outcome
	agg := router.BindRefresh(func(out Outcome) { outcomes = append(outcomes, out) })
	defer agg.Close()
	session := NewSignal()
	agg.AttachNotifier(session)

	// Signals before any navigation are dropped.
	session.Notify()
	if len(outcomes) != 0 {
		t.Fatalf("got %v before any navigation", outcomes)
	}

	if _, err := router.Navigate(context.Background(), "/dashboard", nil); err != nil {
		t.Fatal(err)
	}
	authenticated = false
	session.Notify()

	if len(outcomes) != 1 {
		t.Fatalf("want one re-decision, got %d", len(outcomes))
	}
	if target, _ := outcomes[0].Redirect(); !strings.HasPrefix(target, "/login") {
		t.Errorf("got %s", outcomes[0])
	}
}

func TestNewRouterRejectsBadConfigurations(t *testing.T) {
	if _, err := NewRouter(); err == nil {
		t.Error("a router without routes must not build")
	}
	if _, err := NewRouter(WithRoutes(NewPlain("/")), WithConfigFile("x.yaml")); err == nil {
		t.Error("WithRoutes and WithConfigFile together must not build")
	}
}
