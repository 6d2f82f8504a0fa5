// Package guardian provides declarative access control for client-side
// routing. Prioritized guards and their boolean composition decide, per
// navigation attempt, whether a route may be entered or where navigation is
// redirected; shells propagate guards through nested route trees, and a
// brownfield chain lets guard logic coexist with pre-existing ad-hoc
// redirect functions.
//
// Usage:
//
//	r, err := guardian.NewRouter(
//	    guardian.WithRoutes(
//	        guardian.NewShell(
//	            guardian.WithShellGuards(guardian.Auth(session.Authenticated, guardian.WithPreserveDeepLink())),
//	            guardian.WithShellChildren(
//	                guardian.NewRoute("/dashboard",
//	                    guardian.WithMeta(guardian.NewMeta(map[string]any{"roles": []string{"admin"}})),
//	                    guardian.WithGuards(guardian.Role(session.HasAnyRole)),
//	                ),
//	            ),
//	        ),
//	        guardian.NewDiscard("/login", session.Authenticated, "/dashboard"),
//	    ),
//	)
//	outcome, err := r.Navigate(ctx, "/dashboard", nil)
//
// The package re-exports the engine's vocabulary so embedding applications
// need only this one import.
package guardian
