package vm

import "fmt"

// ---------------------------------------------------------------------------
// Trap: fault/success signals
// ---------------------------------------------------------------------------

// Trap is the result of executing a single instruction. It is the machine's
// only error-reporting channel: exactly one Trap is produced per Execute
// call, and any value other than NoTrap is terminal for the run by
// convention. Traps carry no payload.
type Trap int

const (
	// NoTrap means the instruction completed; the driver should continue.
	NoTrap Trap = iota

	// TrapStackOverflow means a push was attempted on a full stack.
	TrapStackOverflow

	// TrapStackUnderflow means a pop was attempted on an empty stack, or an
	// instruction needed more operands than were present.
	TrapStackUnderflow

	// TrapDivisionByZero means DIV saw a zero divisor. Both operands have
	// already been consumed when this trap is reported.
	TrapDivisionByZero

	// TrapIllegalAccess means the instruction pointer left the program, a
	// DUP depth exceeded the live stack, or an ill-formed opcode was fetched.
	TrapIllegalAccess
)

// String returns the trap's identifier name.
func (t Trap) String() string {
	switch t {
	case NoTrap:
		return "NO_TRAP"
	case TrapStackOverflow:
		return "STACK_OVERFLOW"
	case TrapStackUnderflow:
		return "STACK_UNDERFLOW"
	case TrapDivisionByZero:
		return "DIVISION_BY_ZERO"
	case TrapIllegalAccess:
		return "ILLEGAL_ACCESS"
	}
	return fmt.Sprintf("TRAP(%d)", int(t))
}

// Message returns the human-readable message a driver prints for the trap.
func (t Trap) Message() string {
	switch t {
	case NoTrap:
		return "ok"
	case TrapStackOverflow:
		return "Stack overflow"
	case TrapStackUnderflow:
		return "Stack underflow"
	case TrapDivisionByZero:
		return "Division by zero"
	case TrapIllegalAccess:
		return "Illegal access"
	}
	return t.String()
}
