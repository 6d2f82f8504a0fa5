// Package observe carries diagnostic lifecycle events out of the guard
// evaluation engine. Observers are for logging and tracing only; they never
// influence the navigation decision.
package observe

import (
	"time"

	"go.uber.org/atomic"

	"github.com/vipinkashyap/go-guardian/internal/model"
)

// EvaluationStarted is emitted once per resolution, before any guard runs.
type EvaluationStarted struct {
	Path       string
	Total      int
	GuardNames []string
	At         time.Time
}

// GuardChecked is emitted after each individual guard check completes.
// Short-circuiting means fewer GuardChecked events than Total.
type GuardChecked struct {
	Path      string
	GuardName string
	Outcome   model.Outcome
	Elapsed   time.Duration
}

// EvaluationCompleted is emitted once per resolution with the final outcome.
// Evaluated counts the guards actually checked, which may be less than the
// announced total.
type EvaluationCompleted struct {
	Path      string
	Outcome   model.Outcome
	Elapsed   time.Duration
	Evaluated int
}

// Observer receives evaluation lifecycle events.
type Observer interface {
	OnEvaluationStarted(EvaluationStarted)
	OnGuardChecked(GuardChecked)
	OnEvaluationCompleted(EvaluationCompleted)
}

// Nop is an Observer that drops every event.
type Nop struct{}

func (Nop) OnEvaluationStarted(EvaluationStarted)     {}
func (Nop) OnGuardChecked(GuardChecked)               {}
func (Nop) OnEvaluationCompleted(EvaluationCompleted) {}

// Funcs adapts plain functions to the Observer interface. Nil fields drop
// their event kind.
type Funcs struct {
	Started   func(EvaluationStarted)
	Checked   func(GuardChecked)
	Completed func(EvaluationCompleted)
}

func (f Funcs) OnEvaluationStarted(e EvaluationStarted) {
	if f.Started != nil {
		f.Started(e)
	}
}

func (f Funcs) OnGuardChecked(e GuardChecked) {
	if f.Checked != nil {
		f.Checked(e)
	}
}

func (f Funcs) OnEvaluationCompleted(e EvaluationCompleted) {
	if f.Completed != nil {
		f.Completed(e)
	}
}

// global is the process-wide observer slot. It may be swapped at any time;
// emitters read it with a single atomic load.
var global = atomic.NewPointer[Observer](nil)

// SetGlobal installs o as the process-wide observer. Passing nil unsets it.
func SetGlobal(o Observer) {
	if o == nil {
		global.Store(nil)
		return
	}
	global.Store(&o)
}

// Global returns the process-wide observer, or nil when unset. Callers must
// treat nil as "drop events".
func Global() Observer {
	p := global.Load()
	if p == nil {
		return nil
	}
	return *p
}
