package config

import (
	"context"
	"fmt"

	"github.com/vipinkashyap/go-guardian/internal/guard"
	"github.com/vipinkashyap/go-guardian/internal/model"
)

// Builder constructs a guard from its spec and the probe set.
type Builder func(spec GuardSpec, probes Probes) (guard.Guard, error)

// Registry maps guard names in route tables to builders. The built-in
// guards are registered by default; applications register their own with
// Register.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry creates a registry with the built-in guards registered.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	r.Register("maintenance", buildMaintenance)
	r.Register("auth", buildAuth)
	r.Register("role", buildRole)
	r.Register("onboarding", buildOnboarding)
	r.Register("custom", buildCustom)
	return r
}

// Register adds or replaces a builder under name.
func (r *Registry) Register(name string, b Builder) {
	r.builders[name] = b
}

// build constructs one guard, resolving combinator specs recursively.
func (r *Registry) build(spec GuardSpec, probes Probes) (guard.Guard, error) {
	declared := 0
	if spec.Name != "" {
		declared++
	}
	if len(spec.All) > 0 {
		declared++
	}
	if len(spec.Any) > 0 {
		declared++
	}
	if spec.Not != nil {
		declared++
	}
	if declared != 1 {
		return nil, fmt.Errorf("config: guard spec needs exactly one of name, all, any, not")
	}

	switch {
	case len(spec.All) > 0:
		return r.buildFold(spec.All, probes, guard.And)
	case len(spec.Any) > 0:
		return r.buildFold(spec.Any, probes, guard.Or)
	case spec.Not != nil:
		inner, err := r.build(*spec.Not, probes)
		if err != nil {
			return nil, err
		}
		return guard.Not(inner), nil
	}

	builder, ok := r.builders[spec.Name]
	if !ok {
		return nil, fmt.Errorf("config: unknown guard %q", spec.Name)
	}
	return builder(spec, probes)
}

// buildFold left-folds child specs under a binary combinator. Two or more
// children required; pairing is left-associative, preserving the left
// preference of Or on double denial.
func (r *Registry) buildFold(specs []GuardSpec, probes Probes, combine func(l, rr guard.Guard) guard.Guard) (guard.Guard, error) {
	if len(specs) < 2 {
		return nil, fmt.Errorf("config: combinator needs at least two children, got %d", len(specs))
	}
	acc, err := r.build(specs[0], probes)
	if err != nil {
		return nil, err
	}
	for _, s := range specs[1:] {
		next, err := r.build(s, probes)
		if err != nil {
			return nil, err
		}
		acc = combine(acc, next)
	}
	return acc, nil
}

func (r *Registry) buildAll(specs []GuardSpec, probes Probes) ([]guard.Guard, error) {
	guards := make([]guard.Guard, 0, len(specs))
	for _, s := range specs {
		g, err := r.build(s, probes)
		if err != nil {
			return nil, err
		}
		guards = append(guards, g)
	}
	return guards, nil
}

// sharedOptions maps the spec's common fields to guard options.
func sharedOptions(spec GuardSpec) []guard.Option {
	var opts []guard.Option
	if spec.Priority != nil {
		opts = append(opts, guard.WithPriority(*spec.Priority))
	}
	if spec.RedirectTo != "" {
		opts = append(opts, guard.WithRedirect(spec.RedirectTo))
	}
	if spec.PreserveDeepLink {
		opts = append(opts, guard.WithPreserveDeepLink())
	}
	if spec.ContinueParam != "" {
		opts = append(opts, guard.WithContinueParam(spec.ContinueParam))
	}
	return opts
}

func buildMaintenance(spec GuardSpec, probes Probes) (guard.Guard, error) {
	if probes.Maintenance == nil {
		return nil, fmt.Errorf("config: maintenance guard needs a maintenance probe")
	}
	return guard.Maintenance(probes.Maintenance, sharedOptions(spec)...), nil
}

func buildAuth(spec GuardSpec, probes Probes) (guard.Guard, error) {
	if probes.Authenticated == nil {
		return nil, fmt.Errorf("config: auth guard needs an authenticated probe")
	}
	return guard.Auth(probes.Authenticated, sharedOptions(spec)...), nil
}

func buildRole(spec GuardSpec, probes Probes) (guard.Guard, error) {
	if probes.HasAnyRole == nil {
		return nil, fmt.Errorf("config: role guard needs a hasAnyRole probe")
	}
	return guard.Role(probes.HasAnyRole, sharedOptions(spec)...), nil
}

func buildOnboarding(spec GuardSpec, probes Probes) (guard.Guard, error) {
	if probes.Onboarded == nil {
		return nil, fmt.Errorf("config: onboarding guard needs an onboarded probe")
	}
	return guard.Onboarding(probes.Onboarded, sharedOptions(spec)...), nil
}

// buildCustom builds a guard over a named custom probe: deny with
// redirect_to when the probe answers false.
func buildCustom(spec GuardSpec, probes Probes) (guard.Guard, error) {
	if spec.Predicate == "" {
		return nil, fmt.Errorf("config: custom guard needs a predicate name")
	}
	if spec.RedirectTo == "" {
		return nil, fmt.Errorf("config: custom guard %q needs redirect_to", spec.Predicate)
	}
	pred, err := probes.custom(spec.Predicate)
	if err != nil {
		return nil, err
	}
	priority := 0
	if spec.Priority != nil {
		priority = *spec.Priority
	}
	name := "custom:" + spec.Predicate
	redirectTo := spec.RedirectTo
	return guard.New(name, priority, func(ctx context.Context) (model.Outcome, error) {
		ok, err := pred(ctx)
		if err != nil {
			return model.Outcome{}, err
		}
		if ok {
			return model.Proceed(), nil
		}
		return model.RedirectTo(redirectTo), nil
	}), nil
}
