package trace

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/chazu/stackvm/runner"
	"github.com/chazu/stackvm/vm"
)

func openTestStore(t *testing.T, run string) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trace.db"), run)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.db.Close() })
	return s
}

func TestStoreRecordsRun(t *testing.T) {
	s := openTestStore(t, "divzero-1")

	m := vm.New()
	m.Load([]vm.Instruction{vm.Push(0), vm.Push(5), vm.Div(), vm.Halt()})

	r := runner.New(m, 100)
	r.Observe(s)
	result := r.Run()

	if result.Outcome != runner.OutcomeTrapped {
		t.Fatalf("Outcome = %s, want %s", result.Outcome, runner.OutcomeTrapped)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err = %v", err)
	}

	recs, err := s.Steps("divzero-1")
	if err != nil {
		t.Fatalf("Steps: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("recorded %d steps, want 3", len(recs))
	}

	for i, rec := range recs {
		if rec.Step != uint64(i) {
			t.Errorf("record %d: Step = %d", i, rec.Step)
		}
		if rec.Run != "divzero-1" {
			t.Errorf("record %d: Run = %q", i, rec.Run)
		}
	}

	first := recs[0]
	if first.Opcode != "PUSH" || first.IP != 0 || first.Trap != "NO_TRAP" || first.Size != 1 {
		t.Errorf("first record = %+v, want PUSH at ip 0", first)
	}

	last := recs[2]
	if last.Opcode != "DIV" || last.Trap != "DIVISION_BY_ZERO" || last.Size != 0 {
		t.Errorf("last record = %+v, want faulting DIV", last)
	}
}

func TestStoreUnknownRun(t *testing.T) {
	s := openTestStore(t, "some-run")

	if _, err := s.Steps("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Steps = %v, want %v", err, ErrRunNotFound)
	}
}

func TestStoreRecordsFailedFetch(t *testing.T) {
	s := openTestStore(t, "wild-jump")

	m := vm.New()
	m.Load([]vm.Instruction{vm.Jump(9)})

	r := runner.New(m, 100)
	r.Observe(s)
	r.Run()

	recs, err := s.Steps("wild-jump")
	if err != nil {
		t.Fatalf("Steps: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("recorded %d steps, want 2", len(recs))
	}

	last := recs[1]
	if last.Opcode != "" {
		t.Errorf("Opcode = %q for failed fetch, want empty", last.Opcode)
	}
	if last.Trap != "ILLEGAL_ACCESS" || last.IP != 9 {
		t.Errorf("last record = %+v, want ILLEGAL_ACCESS at ip 9", last)
	}
}
