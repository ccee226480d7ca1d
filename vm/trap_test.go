package vm

import "testing"

func TestTrapString(t *testing.T) {
	tests := []struct {
		trap Trap
		want string
	}{
		{NoTrap, "NO_TRAP"},
		{TrapStackOverflow, "STACK_OVERFLOW"},
		{TrapStackUnderflow, "STACK_UNDERFLOW"},
		{TrapDivisionByZero, "DIVISION_BY_ZERO"},
		{TrapIllegalAccess, "ILLEGAL_ACCESS"},
		{Trap(42), "TRAP(42)"},
	}

	for _, tt := range tests {
		if got := tt.trap.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTrapMessage(t *testing.T) {
	tests := []struct {
		trap Trap
		want string
	}{
		{NoTrap, "ok"},
		{TrapStackOverflow, "Stack overflow"},
		{TrapStackUnderflow, "Stack underflow"},
		{TrapDivisionByZero, "Division by zero"},
		{TrapIllegalAccess, "Illegal access"},
	}

	for _, tt := range tests {
		if got := tt.trap.Message(); got != tt.want {
			t.Errorf("Message() = %q, want %q", got, tt.want)
		}
	}
}
