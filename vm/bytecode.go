package vm

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode identifies a single instruction kind.
type Opcode byte

// Stack Operations
const (
	OpPush Opcode = 0x00 // push operand onto the stack
	OpPop  Opcode = 0x01 // discard top of stack
	OpDup  Opcode = 0x02 // push a copy of the element operand slots below the top
)

// Arithmetic
const (
	OpPlus  Opcode = 0x10 // pop a, pop b, push a+b
	OpMinus Opcode = 0x11 // pop a, pop b, push a-b
	OpMult  Opcode = 0x12 // pop a, pop b, push a*b
	OpDiv   Opcode = 0x13 // pop a, pop b, push a/b (truncating)
)

// Control Flow
const (
	OpJump          Opcode = 0x20 // ip := operand
	OpJumpIfNonzero Opcode = 0x21 // pop condition; ip := operand if nonzero
	OpJumpIfEqual   Opcode = 0x22 // compare top two, jump if equal, then pop one
	OpHalt          Opcode = 0x30 // stop the machine
)

// ---------------------------------------------------------------------------
// Opcode metadata
// ---------------------------------------------------------------------------

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name        string // human-readable name
	UsesOperand bool   // whether the instruction's operand is meaningful
	StackEffect int    // net effect on stack size (JMP_EQ always pops one)
}

// opcodeTable maps opcodes to their metadata.
var opcodeTable = map[Opcode]OpcodeInfo{
	OpPush: {"PUSH", true, 1},
	OpPop:  {"POP", false, -1},
	OpDup:  {"DUP", true, 1},

	OpPlus:  {"PLUS", false, -1},
	OpMinus: {"MINUS", false, -1},
	OpMult:  {"MULT", false, -1},
	OpDiv:   {"DIV", false, -1},

	OpJump:          {"JMP", true, 0},
	OpJumpIfNonzero: {"JMP_IF", true, -1},
	OpJumpIfEqual:   {"JMP_EQ", true, -1},
	OpHalt:          {"HALT", false, 0},
}

// Info returns the metadata for an opcode. Unknown opcodes report a
// placeholder name and no operand.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// Known reports whether the opcode is part of the instruction set.
func (op Opcode) Known() bool {
	_, ok := opcodeTable[op]
	return ok
}

// String returns the opcode's mnemonic.
func (op Opcode) String() string {
	return op.Info().Name
}

// ---------------------------------------------------------------------------
// Instructions
// ---------------------------------------------------------------------------

// Instruction is the unit of program storage: an opcode tagged with one
// operand word. The operand's meaning is opcode-dependent (push value, dup
// depth, jump target) and is ignored by opcodes that take none. Instructions
// are immutable once placed in a program.
type Instruction struct {
	Op      Opcode
	Operand Word
}

// String renders the instruction as "MNEMONIC" or "MNEMONIC operand".
func (i Instruction) String() string {
	info := i.Op.Info()
	if info.UsesOperand {
		return fmt.Sprintf("%s %d", info.Name, i.Operand)
	}
	return info.Name
}

// Convenience constructors for building programs as Go literals. There is no
// assembler or text format; callers assemble programs from these directly.

// Push pushes the literal v.
func Push(v Word) Instruction { return Instruction{Op: OpPush, Operand: v} }

// Pop discards the top of stack.
func Pop() Instruction { return Instruction{Op: OpPop} }

// Dup pushes a copy of the element n slots below the top (0 = top).
func Dup(n Word) Instruction { return Instruction{Op: OpDup, Operand: n} }

// Plus pops two words and pushes their sum.
func Plus() Instruction { return Instruction{Op: OpPlus} }

// Minus pops two words and pushes top minus second-from-top.
func Minus() Instruction { return Instruction{Op: OpMinus} }

// Mult pops two words and pushes their product.
func Mult() Instruction { return Instruction{Op: OpMult} }

// Div pops two words and pushes top divided by second-from-top.
func Div() Instruction { return Instruction{Op: OpDiv} }

// Jump sets the instruction pointer to the absolute index target.
func Jump(target Word) Instruction { return Instruction{Op: OpJump, Operand: target} }

// JumpIfNonzero pops a condition and jumps to target when it is nonzero.
func JumpIfNonzero(target Word) Instruction {
	return Instruction{Op: OpJumpIfNonzero, Operand: target}
}

// JumpIfEqual jumps to target when the top two elements are equal, then pops
// exactly one element regardless of the branch taken.
func JumpIfEqual(target Word) Instruction {
	return Instruction{Op: OpJumpIfEqual, Operand: target}
}

// Halt stops the machine.
func Halt() Instruction { return Instruction{Op: OpHalt} }

// ---------------------------------------------------------------------------
// Disassembly
// ---------------------------------------------------------------------------

// Disassemble renders a program as one instruction per line, prefixed with
// the instruction index.
func Disassemble(program []Instruction) string {
	var b strings.Builder
	for i, inst := range program {
		fmt.Fprintf(&b, "%04d %s\n", i, inst)
	}
	return b.String()
}
