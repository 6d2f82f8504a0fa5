package guard

import (
	"context"
	"net/url"
	"strings"

	"github.com/vipinkashyap/go-guardian/internal/model"
)

// Default priorities for the built-in guards. Lower runs earlier, so
// maintenance pre-empts auth, which pre-empts role and onboarding checks.
const (
	PriorityMaintenance = -10
	PriorityAuth        = 10
	PriorityRole        = 20
	PriorityOnboarding  = 30
)

// Default redirect targets for the built-in guards.
const (
	DefaultMaintenanceRedirect = "/maintenance"
	DefaultAuthRedirect        = "/login"
	DefaultRoleRedirect        = "/unauthorized"
	DefaultOnboardingRedirect  = "/onboarding"
)

// RolesKey is the metadata key listing the roles required to enter a route.
// Role-gating is opt-in per route via this key, not a property of the guard.
const RolesKey = "roles"

// DefaultContinueParam is the query parameter Auth uses to carry the
// original attempted location on its redirect target.
const DefaultContinueParam = "continue"

// Option configures a built-in guard at construction time.
type Option func(*builtinConfig)

type builtinConfig struct {
	priority         *int
	redirectTo       string
	preserveDeepLink bool
	continueParam    string
}

// WithPriority overrides the guard's default priority.
func WithPriority(priority int) Option {
	return func(c *builtinConfig) { c.priority = &priority }
}

// WithRedirect overrides the guard's default redirect target.
func WithRedirect(path string) Option {
	return func(c *builtinConfig) { c.redirectTo = path }
}

// WithPreserveDeepLink makes Auth append the original attempted location as
// a query parameter on its redirect target, so the caller can return the
// user to their destination after authenticating.
func WithPreserveDeepLink() Option {
	return func(c *builtinConfig) { c.preserveDeepLink = true }
}

// WithContinueParam overrides the query parameter name used by
// WithPreserveDeepLink.
func WithContinueParam(name string) Option {
	return func(c *builtinConfig) { c.continueParam = name }
}

func applyOptions(defaultPriority int, defaultRedirect string, opts []Option) builtinConfig {
	cfg := builtinConfig{
		redirectTo:    defaultRedirect,
		continueParam: DefaultContinueParam,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.priority == nil {
		p := defaultPriority
		cfg.priority = &p
	}
	return cfg
}

// Maintenance denies every navigation while the underMaintenance predicate
// answers true, redirecting to /maintenance. Its default priority runs it
// before all other built-ins.
func Maintenance(underMaintenance Predicate, opts ...Option) Guard {
	if underMaintenance == nil {
		panic("guard: Maintenance requires a non-nil predicate")
	}
	cfg := applyOptions(PriorityMaintenance, DefaultMaintenanceRedirect, opts)
	return New("maintenance", *cfg.priority, func(ctx context.Context) (model.Outcome, error) {
		down, err := underMaintenance(ctx)
		if err != nil {
			return model.Outcome{}, err
		}
		if down {
			return model.RedirectTo(cfg.redirectTo), nil
		}
		return model.Proceed(), nil
	})
}

// Auth denies when the authenticated predicate answers false, redirecting to
// /login. With WithPreserveDeepLink the original attempted location rides
// along as a query parameter, but only when it differs from the redirect
// target and is not the root.
func Auth(authenticated Predicate, opts ...Option) Guard {
	if authenticated == nil {
		panic("guard: Auth requires a non-nil predicate")
	}
	cfg := applyOptions(PriorityAuth, DefaultAuthRedirect, opts)
	return NewWithAttempt("auth", *cfg.priority, func(ctx context.Context, attempt model.Attempt, _ model.Meta) (model.Outcome, error) {
		ok, err := authenticated(ctx)
		if err != nil {
			return model.Outcome{}, err
		}
		if ok {
			return model.Proceed(), nil
		}
		target := cfg.redirectTo
		if cfg.preserveDeepLink {
			location := attempt.Location()
			if location != target && attempt.Path != "/" {
				sep := "?"
				if strings.Contains(target, "?") {
					sep = "&"
				}
				target = target + sep + cfg.continueParam + "=" + url.QueryEscape(location)
			}
		}
		return model.RedirectTo(target), nil
	})
}

// RolePredicate answers whether the current user holds any of the given
// roles.
type RolePredicate func(ctx context.Context, roles []string) (bool, error)

// Role denies when the route's metadata lists required roles under RolesKey
// and the hasAnyRole predicate answers false for them, redirecting to
// /unauthorized. Absent or empty roles metadata allows unconditionally
// without consulting the predicate.
func Role(hasAnyRole RolePredicate, opts ...Option) Guard {
	if hasAnyRole == nil {
		panic("guard: Role requires a non-nil predicate")
	}
	cfg := applyOptions(PriorityRole, DefaultRoleRedirect, opts)
	return NewWithAttempt("role", *cfg.priority, func(ctx context.Context, _ model.Attempt, meta model.Meta) (model.Outcome, error) {
		roles, ok := meta.Strings(RolesKey)
		if !ok || len(roles) == 0 {
			return model.Proceed(), nil
		}
		has, err := hasAnyRole(ctx, roles)
		if err != nil {
			return model.Outcome{}, err
		}
		if has {
			return model.Proceed(), nil
		}
		return model.RedirectTo(cfg.redirectTo), nil
	})
}

// Onboarding denies when the onboarded predicate answers false, redirecting
// to /onboarding.
func Onboarding(onboarded Predicate, opts ...Option) Guard {
	if onboarded == nil {
		panic("guard: Onboarding requires a non-nil predicate")
	}
	cfg := applyOptions(PriorityOnboarding, DefaultOnboardingRedirect, opts)
	return New("onboarding", *cfg.priority, func(ctx context.Context) (model.Outcome, error) {
		done, err := onboarded(ctx)
		if err != nil {
			return model.Outcome{}, err
		}
		if done {
			return model.Proceed(), nil
		}
		return model.RedirectTo(cfg.redirectTo), nil
	})
}
