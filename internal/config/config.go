// Package config loads declarative route tables from YAML or JSONC files
// and builds the navigation tree against a set of named predicates supplied
// by the embedding application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/vipinkashyap/go-guardian/internal/guard"
	"github.com/vipinkashyap/go-guardian/internal/model"
	"github.com/vipinkashyap/go-guardian/internal/route"
)

// Probes are the externally supplied boolean predicates guards read at
// check time. Custom holds additional predicates addressable by name from
// config files.
type Probes struct {
	Authenticated guard.Predicate
	Onboarded     guard.Predicate
	Maintenance   guard.Predicate
	HasAnyRole    guard.RolePredicate
	Custom        map[string]guard.Predicate
}

// custom returns the named custom predicate, fail-closed on absence.
func (p Probes) custom(name string) (guard.Predicate, error) {
	pred, ok := p.Custom[name]
	if !ok {
		return nil, fmt.Errorf("config: unknown predicate %q", name)
	}
	return pred, nil
}

// GuardSpec declares one guard in a route table: a named builder with its
// arguments, or a combinator over child specs. Exactly one of Name, All,
// Any, Not must be set.
type GuardSpec struct {
	Name             string `yaml:"name,omitempty"`
	Priority         *int   `yaml:"priority,omitempty"`
	RedirectTo       string `yaml:"redirect_to,omitempty"`
	PreserveDeepLink bool   `yaml:"preserve_deep_link,omitempty"`
	ContinueParam    string `yaml:"continue_param,omitempty"`
	Predicate        string `yaml:"predicate,omitempty"` // custom guards: probe name

	All []GuardSpec `yaml:"all,omitempty"`
	Any []GuardSpec `yaml:"any,omitempty"`
	Not *GuardSpec  `yaml:"not,omitempty"`
}

// RouteSpec declares one node of the navigation tree.
type RouteSpec struct {
	Path        string         `yaml:"path,omitempty"`
	Kind        string         `yaml:"kind,omitempty"` // route (default) | plain | discard | shell
	Guards      []GuardSpec    `yaml:"guards,omitempty"`
	Meta        map[string]any `yaml:"meta,omitempty"`
	DiscardWhen string         `yaml:"discard_when,omitempty"`
	RedirectTo  string         `yaml:"redirect_to,omitempty"`
	Loading     bool           `yaml:"loading,omitempty"`
	Children    []RouteSpec    `yaml:"children,omitempty"`
}

// File is the top-level route-table document.
type File struct {
	Routes []RouteSpec `yaml:"routes"`
}

// Load reads a route table from path and builds the navigation tree.
// .json and .jsonc files are translated to plain JSON first; YAML handles
// both since YAML is a JSON superset. Unknown guard names, missing probes,
// and malformed specs fail the load, never a silent allow.
func Load(path string, probes Probes, registry *Registry) ([]route.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read route table: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	return Parse(data, probes, registry)
}

// Parse builds the navigation tree from raw YAML (or JSON) bytes.
func Parse(data []byte, probes Probes, registry *Registry) ([]route.Node, error) {
	if registry == nil {
		registry = NewRegistry()
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse route table: %w", err)
	}
	if len(file.Routes) == 0 {
		return nil, fmt.Errorf("config: route table declares no routes")
	}
	return buildNodes(file.Routes, probes, registry)
}

func buildNodes(specs []RouteSpec, probes Probes, registry *Registry) ([]route.Node, error) {
	nodes := make([]route.Node, 0, len(specs))
	for i := range specs {
		node, err := buildNode(&specs[i], probes, registry)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func buildNode(spec *RouteSpec, probes Probes, registry *Registry) (route.Node, error) {
	switch spec.Kind {
	case "", "route":
		return buildRoute(spec, probes, registry)
	case "plain":
		if len(spec.Guards) > 0 {
			return nil, fmt.Errorf("config: plain route %q must not declare guards", spec.Path)
		}
		children, err := buildNodes(spec.Children, probes, registry)
		if err != nil {
			return nil, err
		}
		return route.NewPlain(spec.Path, children...), nil
	case "discard":
		if spec.DiscardWhen == "" || spec.RedirectTo == "" {
			return nil, fmt.Errorf("config: discard route %q needs discard_when and redirect_to", spec.Path)
		}
		when, err := probes.custom(spec.DiscardWhen)
		if err != nil {
			return nil, err
		}
		return route.NewDiscard(spec.Path, when, spec.RedirectTo), nil
	case "shell":
		if spec.Path != "" {
			return nil, fmt.Errorf("config: shells are pathless, got %q", spec.Path)
		}
		guards, err := registry.buildAll(spec.Guards, probes)
		if err != nil {
			return nil, err
		}
		children, err := buildNodes(spec.Children, probes, registry)
		if err != nil {
			return nil, err
		}
		return route.NewShell(
			route.WithShellGuards(guards...),
			route.WithShellMeta(model.NewMeta(spec.Meta)),
			route.WithShellChildren(children...),
		), nil
	default:
		return nil, fmt.Errorf("config: unknown route kind %q", spec.Kind)
	}
}

func buildRoute(spec *RouteSpec, probes Probes, registry *Registry) (route.Node, error) {
	guards, err := registry.buildAll(spec.Guards, probes)
	if err != nil {
		return nil, err
	}
	children, err := buildNodes(spec.Children, probes, registry)
	if err != nil {
		return nil, err
	}
	opts := []route.RouteOption{
		route.WithGuards(guards...),
		route.WithMeta(model.NewMeta(spec.Meta)),
		route.WithChildren(children...),
	}
	if spec.Loading {
		opts = append(opts, route.WithLoadingFallback())
	}
	return route.NewRoute(spec.Path, opts...), nil
}
