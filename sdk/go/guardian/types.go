package guardian

import (
	"fmt"

	"github.com/vipinkashyap/go-guardian/internal/chain"
	"github.com/vipinkashyap/go-guardian/internal/config"
	"github.com/vipinkashyap/go-guardian/internal/guard"
	"github.com/vipinkashyap/go-guardian/internal/model"
	"github.com/vipinkashyap/go-guardian/internal/observe"
	"github.com/vipinkashyap/go-guardian/internal/refresh"
	"github.com/vipinkashyap/go-guardian/internal/route"
)

// Core vocabulary, aliased from the engine packages so callers need only
// this import.
type (
	Guard   = guard.Guard
	Outcome = model.Outcome
	Meta    = model.Meta
	Attempt = model.Attempt

	Predicate     = guard.Predicate
	RolePredicate = guard.RolePredicate
	GuardOption   = guard.Option

	Node     = route.Node
	Decider  = route.Decider
	Route    = route.Route
	Shell    = route.Shell
	Plain    = route.Plain
	Discard  = route.Discard
	RouteOpt = route.RouteOption
	ShellOpt = route.ShellOption

	Chain        = chain.Chain
	RedirectFunc = chain.RedirectFunc
	DecisionFunc = chain.DecisionFunc

	Observer            = observe.Observer
	EvaluationStarted   = observe.EvaluationStarted
	GuardChecked        = observe.GuardChecked
	EvaluationCompleted = observe.EvaluationCompleted
	ObserverFuncs       = observe.Funcs

	Aggregator = refresh.Aggregator
	Notifier   = refresh.Notifier
	Signal     = refresh.Signal
	FileSource = refresh.FileSource

	Probes = config.Probes
)

// Outcome constructors.
var (
	Proceed    = model.Proceed
	RedirectTo = model.RedirectTo
)

// Metadata.
var (
	NewMeta   = model.NewMeta
	EmptyMeta = model.EmptyMeta
)

// Guard construction and boolean algebra.
var (
	NewGuard            = guard.New
	NewGuardWithAttempt = guard.NewWithAttempt
	And                 = guard.And
	Or                  = guard.Or
	Not                 = guard.Not
)

// Built-in guards and their options.
var (
	Maintenance = guard.Maintenance
	Auth        = guard.Auth
	Role        = guard.Role
	Onboarding  = guard.Onboarding

	WithPriority         = guard.WithPriority
	WithRedirect         = guard.WithRedirect
	WithPreserveDeepLink = guard.WithPreserveDeepLink
	WithContinueParam    = guard.WithContinueParam
)

// Route tree construction.
var (
	NewRoute            = route.NewRoute
	NewPlain            = route.NewPlain
	NewDiscard          = route.NewDiscard
	NewShell            = route.NewShell
	WithGuards          = route.WithGuards
	WithMeta            = route.WithMeta
	WithLegacyRedirect  = route.WithLegacyRedirect
	WithChildren        = route.WithChildren
	WithLoadingFallback = route.WithLoadingFallback
	WithShellGuards     = route.WithShellGuards
	WithShellMeta       = route.WithShellMeta
	WithShellChildren   = route.WithShellChildren
)

// Brownfield chaining.
var (
	NewChain        = chain.New
	ChainFromLegacy = chain.FromLegacy
	ChainFromGuards = chain.FromGuards
)

// Observability.
var (
	SetGlobalObserver = observe.SetGlobal
	GlobalObserver    = observe.Global
	OpenDecisionLog   = observe.OpenLogSink
)

// Refresh aggregation.
var (
	NewAggregator = refresh.New
	NewSignal     = refresh.NewSignal
	NewFileSource = refresh.NewFileSource
)

// DeniedError is returned by Wrap when guards redirect a navigation instead
// of letting it proceed.
type DeniedError struct {
	Path       string
	RedirectTo string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("guardian denied %s: redirect to %s", e.Path, e.RedirectTo)
}
