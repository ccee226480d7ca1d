package vm

import (
	"testing"
)

// ---------------------------------------------------------------------------
// Opcode metadata tests
// ---------------------------------------------------------------------------

func TestOpcodeInfo(t *testing.T) {
	tests := []struct {
		op          Opcode
		name        string
		usesOperand bool
	}{
		{OpPush, "PUSH", true},
		{OpPop, "POP", false},
		{OpDup, "DUP", true},
		{OpPlus, "PLUS", false},
		{OpMinus, "MINUS", false},
		{OpMult, "MULT", false},
		{OpDiv, "DIV", false},
		{OpJump, "JMP", true},
		{OpJumpIfNonzero, "JMP_IF", true},
		{OpJumpIfEqual, "JMP_EQ", true},
		{OpHalt, "HALT", false},
	}

	for _, tt := range tests {
		info := tt.op.Info()
		if info.Name != tt.name {
			t.Errorf("%s: Name = %q, want %q", tt.op, info.Name, tt.name)
		}
		if info.UsesOperand != tt.usesOperand {
			t.Errorf("%s: UsesOperand = %v, want %v", tt.op, info.UsesOperand, tt.usesOperand)
		}
		if !tt.op.Known() {
			t.Errorf("%s: Known() = false", tt.op)
		}
	}
}

func TestOpcodeUnknown(t *testing.T) {
	op := Opcode(0xFF)
	if op.Known() {
		t.Error("Known() = true for 0xFF")
	}
	if got := op.String(); got != "UNKNOWN(0xFF)" {
		t.Errorf("String() = %q, want %q", got, "UNKNOWN(0xFF)")
	}
}

// ---------------------------------------------------------------------------
// Instruction rendering tests
// ---------------------------------------------------------------------------

func TestInstructionString(t *testing.T) {
	tests := []struct {
		inst Instruction
		want string
	}{
		{Push(5), "PUSH 5"},
		{Push(-1), "PUSH -1"},
		{Pop(), "POP"},
		{Dup(1), "DUP 1"},
		{Plus(), "PLUS"},
		{Jump(2), "JMP 2"},
		{JumpIfNonzero(0), "JMP_IF 0"},
		{JumpIfEqual(4), "JMP_EQ 4"},
		{Halt(), "HALT"},
	}

	for _, tt := range tests {
		if got := tt.inst.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDisassemble(t *testing.T) {
	program := []Instruction{
		Push(0),
		Push(1),
		Dup(1),
		Dup(1),
		Plus(),
		Jump(2),
	}

	want := "0000 PUSH 0\n" +
		"0001 PUSH 1\n" +
		"0002 DUP 1\n" +
		"0003 DUP 1\n" +
		"0004 PLUS\n" +
		"0005 JMP 2\n"

	if got := Disassemble(program); got != want {
		t.Errorf("Disassemble =\n%s\nwant:\n%s", got, want)
	}
}
