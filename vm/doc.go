// Package vm implements a minimal stack-based bytecode virtual machine.
//
// This package contains:
//   - Word, the single 32-bit signed value type
//   - Opcode and Instruction definitions with disassembly helpers
//   - Trap, the closed fault/success enumeration
//   - Machine, the fixed-capacity operand stack plus single-step interpreter
//   - An optional static program validation pass
package vm
