// Package runner drives a vm.Machine: it invokes single steps in a loop,
// imposes a step budget so non-halting programs terminate, and reports why
// the run stopped. The machine itself has no loop, timeout, or cancellation;
// all of that lives here, outside the core contract.
package runner

import (
	"github.com/tliron/commonlog"

	"github.com/chazu/stackvm/vm"
)

var log = commonlog.GetLogger("stackvm.runner")

// ---------------------------------------------------------------------------
// Outcomes
// ---------------------------------------------------------------------------

// Outcome describes why a run stopped.
type Outcome int

const (
	// OutcomeHalted means the program executed HALT.
	OutcomeHalted Outcome = iota

	// OutcomeTrapped means a step returned a fault trap.
	OutcomeTrapped

	// OutcomeBudgetExhausted means the step budget ran out before the
	// program halted or trapped.
	OutcomeBudgetExhausted
)

// String returns the outcome's identifier name.
func (o Outcome) String() string {
	switch o {
	case OutcomeHalted:
		return "halted"
	case OutcomeTrapped:
		return "trapped"
	case OutcomeBudgetExhausted:
		return "budget exhausted"
	}
	return "unknown"
}

// Result describes a finished run.
type Result struct {
	Outcome Outcome
	Trap    vm.Trap // the fault when Outcome is OutcomeTrapped, NoTrap otherwise
	Steps   uint64  // instructions executed, including the faulting one
}

// ---------------------------------------------------------------------------
// Observers
// ---------------------------------------------------------------------------

// Step describes one executed instruction, as seen by observers.
type Step struct {
	N       uint64         // 0-based step number
	IP      vm.Word        // instruction pointer before the step
	Inst    vm.Instruction // fetched instruction; zero value when Fetched is false
	Fetched bool           // false when IP was outside the program
	Trap    vm.Trap        // trap returned by the step
	Size    int            // stack size after the step
}

// Observer is notified after every executed step, including the faulting
// one. Observers must not mutate the machine.
type Observer interface {
	Observe(Step)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Step)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Step) { f(s) }

// ---------------------------------------------------------------------------
// Runner
// ---------------------------------------------------------------------------

// Runner repeatedly executes machine steps until the machine halts, a step
// traps, or the budget is exhausted.
type Runner struct {
	Machine   *vm.Machine
	Budget    uint64 // maximum steps; 0 means unlimited
	Observers []Observer
}

// New returns a Runner for m with the given step budget.
func New(m *vm.Machine, budget uint64) *Runner {
	return &Runner{Machine: m, Budget: budget}
}

// Observe registers an observer for subsequent runs.
func (r *Runner) Observe(o Observer) {
	r.Observers = append(r.Observers, o)
}

// Run drives the machine to a terminal condition and returns the result.
// A trap is terminal: the runner never re-executes after a fault, and it
// never calls Execute on a halted machine.
func (r *Runner) Run() Result {
	var steps uint64
	for !r.Machine.Halted() {
		if r.Budget != 0 && steps >= r.Budget {
			log.Infof("step budget %d exhausted", r.Budget)
			return Result{Outcome: OutcomeBudgetExhausted, Trap: vm.NoTrap, Steps: steps}
		}

		ip := r.Machine.IP()
		inst, fetched := r.Machine.At(int(ip))
		trap := r.Machine.Execute()
		steps++

		r.notify(Step{
			N:       steps - 1,
			IP:      ip,
			Inst:    inst,
			Fetched: fetched,
			Trap:    trap,
			Size:    r.Machine.Size(),
		})

		if trap != vm.NoTrap {
			log.Errorf("%s at ip=%d after %d steps", trap, ip, steps)
			return Result{Outcome: OutcomeTrapped, Trap: trap, Steps: steps}
		}
	}
	log.Infof("halted after %d steps", steps)
	return Result{Outcome: OutcomeHalted, Trap: vm.NoTrap, Steps: steps}
}

func (r *Runner) notify(s Step) {
	for _, o := range r.Observers {
		o.Observe(s)
	}
}
