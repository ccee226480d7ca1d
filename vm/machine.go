package vm

import (
	"fmt"
	"io"
)

// StackCapacity is the fixed number of operand stack slots. The stack never
// grows; pushing past this boundary traps with STACK_OVERFLOW.
const StackCapacity = 1024

// ---------------------------------------------------------------------------
// Machine
// ---------------------------------------------------------------------------

// Machine is a single-threaded bytecode interpreter: a fixed-capacity
// operand stack, a linear program, an instruction pointer, and a halted
// flag. All state is exclusively owned by one Machine instance; Execute
// performs exactly one instruction per call and returns a Trap.
//
// Slots beyond size hold stale data and are never read through normal stack
// operations; size is the sole arbiter of which slots are live.
type Machine struct {
	data    [StackCapacity]Word
	size    int
	program []Instruction
	ip      Word
	halted  bool
}

// New returns a Machine with an empty stack and no program loaded.
func New() *Machine {
	return &Machine{}
}

// Load attaches a program. The program is not validated: out-of-range jump
// targets and ill-formed opcodes surface as ILLEGAL_ACCESS at runtime, not
// at load time. See Validate for the optional static pass.
func (m *Machine) Load(program []Instruction) {
	m.program = program
}

// IP returns the index of the next instruction to fetch.
func (m *Machine) IP() Word { return m.ip }

// Size returns the number of live stack slots.
func (m *Machine) Size() int { return m.size }

// Halted reports whether the machine has executed HALT.
func (m *Machine) Halted() bool { return m.halted }

// ProgramLen returns the number of loaded instructions.
func (m *Machine) ProgramLen() int { return len(m.program) }

// At returns the instruction at index i, or false if i is outside the
// program.
func (m *Machine) At(i int) (Instruction, bool) {
	if i < 0 || i >= len(m.program) {
		return Instruction{}, false
	}
	return m.program[i], true
}

// ---------------------------------------------------------------------------
// Stack primitives
// ---------------------------------------------------------------------------

// Push appends w to the operand stack. It returns STACK_OVERFLOW and leaves
// the machine untouched when the stack is full.
func (m *Machine) Push(w Word) Trap {
	if m.size == StackCapacity {
		return TrapStackOverflow
	}
	m.data[m.size] = w
	m.size++
	return NoTrap
}

// Pop removes and returns the top of the stack. It returns STACK_UNDERFLOW
// and leaves the machine untouched when the stack is empty. The vacated slot
// is not cleared; it is invisible beyond size.
func (m *Machine) Pop() (Word, Trap) {
	if m.size == 0 {
		return 0, TrapStackUnderflow
	}
	m.size--
	return m.data[m.size], NoTrap
}

// ---------------------------------------------------------------------------
// Single-step execution
// ---------------------------------------------------------------------------

// Execute fetches and interprets exactly one instruction, returning NoTrap
// on success or the fault that stopped it. The instruction pointer advances
// by one unless the instruction set it explicitly (jumps) or left it alone
// (HALT, fetch failure).
//
// Calling Execute on a halted machine is a no-op returning NoTrap; the
// reference driver never does so.
//
// Jump targets are not bounds-checked at jump time: an out-of-range target
// surfaces as ILLEGAL_ACCESS on the next fetch. Programs rely on jumping to
// ProgramLen() as an implicit halt, so this lazy policy must be preserved.
func (m *Machine) Execute() Trap {
	if m.halted {
		return NoTrap
	}
	if m.ip < 0 || int(m.ip) >= len(m.program) {
		return TrapIllegalAccess
	}
	inst := m.program[m.ip]

	switch inst.Op {
	case OpPush:
		m.ip++
		return m.Push(inst.Operand)

	case OpPop:
		m.ip++
		_, trap := m.Pop()
		return trap

	case OpDup:
		m.ip++
		n := inst.Operand
		if n < 0 || int(n) >= m.size {
			return TrapIllegalAccess
		}
		return m.Push(m.data[m.size-1-int(n)])

	case OpPlus, OpMinus, OpMult, OpDiv:
		// Both operands are popped before any arithmetic check, so a zero
		// divisor still consumes its operands.
		m.ip++
		a, trap := m.Pop()
		if trap != NoTrap {
			return trap
		}
		b, trap := m.Pop()
		if trap != NoTrap {
			return trap
		}
		var result Word
		switch inst.Op {
		case OpPlus:
			result = a + b
		case OpMinus:
			result = a - b
		case OpMult:
			result = a * b
		case OpDiv:
			if b == 0 {
				return TrapDivisionByZero
			}
			result = a / b
		}
		return m.Push(result)

	case OpJump:
		m.ip = inst.Operand
		return NoTrap

	case OpJumpIfNonzero:
		condition, trap := m.Pop()
		if trap != NoTrap {
			return trap
		}
		if condition != 0 {
			m.ip = inst.Operand
		} else {
			m.ip++
		}
		return NoTrap

	case OpJumpIfEqual:
		if m.size < 2 {
			return TrapStackUnderflow
		}
		a := m.data[m.size-1]
		b := m.data[m.size-2]
		if a == b {
			m.ip = inst.Operand
		} else {
			m.ip++
		}
		m.Pop()
		return NoTrap

	case OpHalt:
		m.halted = true
		return NoTrap
	}

	// Ill-formed opcode: detected at fetch, same as any other out-of-range
	// access.
	return TrapIllegalAccess
}

// ---------------------------------------------------------------------------
// Introspection
// ---------------------------------------------------------------------------

// Dump writes the live stack contents to w, one "index: value" line per
// slot from bottom to top. Presentation only; not part of the execution
// contract.
func (m *Machine) Dump(w io.Writer) {
	fmt.Fprintln(w, "Stack dump")
	if m.size == 0 {
		fmt.Fprintln(w, "Empty")
	} else {
		for i := 0; i < m.size; i++ {
			fmt.Fprintf(w, "%d: %d\n", i, m.data[i])
		}
	}
	fmt.Fprintln(w)
}
