package config

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vipinkashyap/go-guardian/internal/guard"
)

// Validate parses a route table and builds its tree against stub probes, so
// misconfiguration (unknown kinds, unknown guard names, malformed
// combinators) surfaces without the embedding application's predicates.
func Validate(data []byte, registry *Registry) error {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("config: parse route table: %w", err)
	}
	if len(file.Routes) == 0 {
		return fmt.Errorf("config: route table declares no routes")
	}

	custom := make(map[string]guard.Predicate)
	for _, name := range collectPredicateNames(file.Routes) {
		custom[name] = stubPredicate
	}
	stubs := Probes{
		Authenticated: stubPredicate,
		Onboarded:     stubPredicate,
		Maintenance:   stubPredicate,
		HasAnyRole:    func(context.Context, []string) (bool, error) { return true, nil },
		Custom:        custom,
	}
	if registry == nil {
		registry = NewRegistry()
	}
	_, err := buildNodes(file.Routes, stubs, registry)
	return err
}

func stubPredicate(context.Context) (bool, error) { return true, nil }

// collectPredicateNames walks the spec tree for every custom predicate a
// route table references.
func collectPredicateNames(specs []RouteSpec) []string {
	var names []string
	var walkGuards func(gs []GuardSpec)
	walkGuards = func(gs []GuardSpec) {
		for _, g := range gs {
			if g.Predicate != "" {
				names = append(names, g.Predicate)
			}
			walkGuards(g.All)
			walkGuards(g.Any)
			if g.Not != nil {
				walkGuards([]GuardSpec{*g.Not})
			}
		}
	}
	var walkRoutes func(rs []RouteSpec)
	walkRoutes = func(rs []RouteSpec) {
		for _, r := range rs {
			if r.DiscardWhen != "" {
				names = append(names, r.DiscardWhen)
			}
			walkGuards(r.Guards)
			walkRoutes(r.Children)
		}
	}
	walkRoutes(specs)
	return names
}
