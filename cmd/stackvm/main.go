// stackvm CLI - runs a built-in bytecode program on the virtual machine
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/tliron/commonlog"

	"github.com/chazu/stackvm/manifest"
	"github.com/chazu/stackvm/runner"
	"github.com/chazu/stackvm/trace"
	"github.com/chazu/stackvm/vm"

	_ "github.com/tliron/commonlog/simple"
)

// programs holds the built-in demo programs. There is no assembler or text
// format; programs are assembled here as Go literals.
var programs = map[string][]vm.Instruction{
	// Fibonacci doubling: grows the stack with the Fibonacci sequence
	// forever. Never halts; relies on the step budget.
	"fib": {
		vm.Push(0),
		vm.Push(1),
		vm.Dup(1),
		vm.Dup(1),
		vm.Plus(),
		vm.Jump(2),
	},

	// Counts 5 down to 0, then halts with 0 on the stack.
	"countdown": {
		vm.Push(5),
		vm.Push(-1),
		vm.Plus(),
		vm.Dup(0),
		vm.JumpIfNonzero(1),
		vm.Halt(),
	},

	// Divides 5 by 0: traps with DIVISION_BY_ZERO on the third step.
	"divzero": {
		vm.Push(0),
		vm.Push(5),
		vm.Div(),
		vm.Halt(),
	},

	// Takes the equal branch of JMP_EQ, skipping the first HALT.
	"equal": {
		vm.Push(3),
		vm.Push(3),
		vm.JumpIfEqual(4),
		vm.Halt(),
		vm.Push(42),
		vm.Halt(),
	},

	// Halts immediately.
	"halt": {
		vm.Halt(),
	},
}

func main() {
	configDir := flag.String("c", ".", "Directory containing stackvm.toml")
	program := flag.String("p", "", "Built-in program to run")
	steps := flag.Uint64("n", 0, "Step budget (0 = unlimited)")
	dump := flag.Bool("dump", false, "Dump the stack after the run")
	dumpEach := flag.Bool("dump-each", false, "Dump the stack after every step")
	tracePath := flag.String("trace", "", "Record steps to this SQLite trace database")
	runID := flag.String("run", "", "Run identifier for the trace (default: program name + timestamp)")
	validate := flag.Bool("validate", false, "Statically validate the program before running")
	disasm := flag.Bool("disasm", false, "Print the program disassembly and exit")
	list := flag.Bool("list", false, "List built-in programs and exit")
	verbosity := flag.Int("v", 0, "Log verbosity")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stackvm [options]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a built-in bytecode program until it halts, traps, or the step budget runs out.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stackvm                          # Run the default program from stackvm.toml\n")
		fmt.Fprintf(os.Stderr, "  stackvm -p fib -n 30 -dump       # 30 steps of Fibonacci, dump the stack\n")
		fmt.Fprintf(os.Stderr, "  stackvm -p divzero -trace tr.db  # Record every step to tr.db\n")
		fmt.Fprintf(os.Stderr, "  stackvm -p countdown -disasm     # Show the countdown program\n")
	}
	flag.Parse()

	cfg := loadConfig(*configDir)

	// Explicitly set flags override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			cfg.Run.Program = *program
		case "n":
			cfg.Run.Steps = *steps
		case "dump":
			cfg.Run.Dump = *dump
		case "trace":
			cfg.Trace.Path = *tracePath
		case "v":
			cfg.Log.Verbosity = *verbosity
		}
	})

	commonlog.Configure(cfg.Log.Verbosity, nil)

	if *list {
		names := make([]string, 0, len(programs))
		for name := range programs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	insts, ok := programs[cfg.Run.Program]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown program %q (try -list)\n", cfg.Run.Program)
		os.Exit(1)
	}

	if *disasm {
		fmt.Print(vm.Disassemble(insts))
		return
	}

	if *validate {
		if err := vm.Validate(insts); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed:\n%v\n", err)
			os.Exit(1)
		}
	}

	machine := vm.New()
	machine.Load(insts)

	r := runner.New(machine, cfg.Run.Steps)

	if *dumpEach {
		r.Observe(runner.ObserverFunc(func(runner.Step) {
			machine.Dump(os.Stdout)
		}))
	}

	var store *trace.Store
	if cfg.Trace.Path != "" {
		id := *runID
		if id == "" {
			id = fmt.Sprintf("%s-%d", cfg.Run.Program, time.Now().Unix())
		}
		var err error
		store, err = trace.Open(cfg.Trace.Path, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening trace store: %v\n", err)
			os.Exit(1)
		}
		r.Observe(store)
	}

	result := r.Run()

	switch result.Outcome {
	case runner.OutcomeTrapped:
		fmt.Println(result.Trap.Message())
	case runner.OutcomeBudgetExhausted:
		fmt.Printf("Step budget exhausted after %d steps\n", result.Steps)
	case runner.OutcomeHalted:
		fmt.Printf("Halted after %d steps\n", result.Steps)
	}

	if cfg.Run.Dump && !*dumpEach {
		machine.Dump(os.Stdout)
	}

	if store != nil {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing trace store: %v\n", err)
			os.Exit(1)
		}
	}

	if result.Outcome == runner.OutcomeTrapped {
		os.Exit(1)
	}
}

// loadConfig reads stackvm.toml from dir, falling back to defaults when the
// file does not exist.
func loadConfig(dir string) *manifest.Manifest {
	cfg, err := manifest.Load(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return manifest.Default()
		}
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", manifest.FileName, err)
		os.Exit(1)
	}
	return cfg
}
