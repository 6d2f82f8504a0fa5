package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vipinkashyap/go-guardian/internal/config"
	"github.com/vipinkashyap/go-guardian/internal/guard"
	"github.com/vipinkashyap/go-guardian/internal/model"
	"github.com/vipinkashyap/go-guardian/internal/observe"
	"github.com/vipinkashyap/go-guardian/internal/resolve"
	"github.com/vipinkashyap/go-guardian/internal/route"
)

type probeFlags struct {
	configPath    string
	authenticated bool
	onboarded     bool
	maintenance   bool
	roles         []string
	custom        []string // name=true / name=false
	trace         bool
}

func (f *probeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "routes.yaml", "route-table file (YAML or JSONC)")
	cmd.Flags().BoolVar(&f.authenticated, "authenticated", false, "simulate an authenticated session")
	cmd.Flags().BoolVar(&f.onboarded, "onboarded", true, "simulate a completed onboarding")
	cmd.Flags().BoolVar(&f.maintenance, "maintenance", false, "simulate maintenance mode")
	cmd.Flags().StringSliceVar(&f.roles, "roles", nil, "roles held by the simulated user")
	cmd.Flags().StringSliceVar(&f.custom, "probe", nil, "custom probe answers, name=true|false")
	cmd.Flags().BoolVar(&f.trace, "trace", false, "print the evaluation event trail")
}

func (f *probeFlags) probes() (config.Probes, error) {
	custom := make(map[string]guard.Predicate, len(f.custom))
	for _, kv := range f.custom {
		name, raw, found := strings.Cut(kv, "=")
		if !found {
			return config.Probes{}, fmt.Errorf("--probe wants name=true|false, got %q", kv)
		}
		answer, err := strconv.ParseBool(raw)
		if err != nil {
			return config.Probes{}, fmt.Errorf("--probe %s: %w", name, err)
		}
		custom[name] = fixedProbe(answer)
	}
	held := f.roles
	return config.Probes{
		Authenticated: fixedProbe(f.authenticated),
		Onboarded:     fixedProbe(f.onboarded),
		Maintenance:   fixedProbe(f.maintenance),
		HasAnyRole: func(_ context.Context, required []string) (bool, error) {
			for _, want := range required {
				for _, have := range held {
					if want == have {
						return true, nil
					}
				}
			}
			return false, nil
		},
		Custom: custom,
	}, nil
}

func fixedProbe(answer bool) guard.Predicate {
	return func(context.Context) (bool, error) { return answer, nil }
}

// traceObserver prints the event trail to stderr.
func traceObserver() observe.Observer {
	return observe.Funcs{
		Started: func(e observe.EvaluationStarted) {
			fmt.Fprintf(os.Stderr, "eval %s: %d guard(s) %v\n", e.Path, e.Total, e.GuardNames)
		},
		Checked: func(e observe.GuardChecked) {
			fmt.Fprintf(os.Stderr, "  %-24s %s (%s)\n", e.GuardName, e.Outcome, e.Elapsed)
		},
		Completed: func(e observe.EvaluationCompleted) {
			fmt.Fprintf(os.Stderr, "done %s: %s, %d evaluated in %s\n",
				e.Path, e.Outcome, e.Evaluated, e.Elapsed)
		},
	}
}

func checkPath(flags *probeFlags, path string) error {
	probes, err := flags.probes()
	if err != nil {
		return err
	}
	nodes, err := config.Load(flags.configPath, probes, nil)
	if err != nil {
		return err
	}

	var resolverOpts []resolve.Option
	if flags.trace {
		resolverOpts = append(resolverOpts, resolve.WithObserver(traceObserver()))
	}
	resolver := resolve.New(resolverOpts...)

	matched, found := route.Match(nodes, path)
	if !found {
		fmt.Printf("%s: no route\n", path)
		return nil
	}

	attempt := model.Attempt{Path: path, Params: matched.Params}
	var outcome model.Outcome
	if protected, isRoute := matched.Node.(*route.Route); isRoute {
		outcome, err = protected.DecideWith(context.Background(), attempt, resolver)
	} else {
		outcome, err = matched.Node.Decide(context.Background(), attempt)
	}
	if err != nil {
		return err
	}

	if target, redirected := outcome.Redirect(); redirected {
		fmt.Printf("%s: redirect -> %s\n", path, target)
	} else {
		fmt.Printf("%s: proceed\n", path)
	}
	return nil
}

func init() {
	flags := &probeFlags{}
	cmd := &cobra.Command{
		Use:   "check <path>",
		Short: "Decide whether a path may be entered",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return checkPath(flags, args[0])
		},
	}
	flags.register(cmd)
	rootCmd.AddCommand(cmd)
}
