package vm

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Static program validation (optional pass)
// ---------------------------------------------------------------------------

// ValidationError reports one problem found by Validate, positioned at the
// offending instruction.
type ValidationError struct {
	Index int
	Inst  Instruction
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %s", e.Index, e.Inst, e.Msg)
}

// Validate statically checks a program for faults that would otherwise
// surface as runtime traps: unknown opcodes, negative DUP depths, and jump
// targets outside [0, len(program)]. A target equal to len(program) is
// accepted: jumping there is the documented implicit-halt pattern and traps
// only if actually reached.
//
// Validate is strictly additive. Load never calls it, and a program that
// fails validation still executes with the usual lazy runtime detection.
func Validate(program []Instruction) error {
	var errs []error
	for i, inst := range program {
		switch inst.Op {
		case OpJump, OpJumpIfNonzero, OpJumpIfEqual:
			target := int(inst.Operand)
			if target < 0 || target > len(program) {
				errs = append(errs, &ValidationError{
					Index: i,
					Inst:  inst,
					Msg:   fmt.Sprintf("jump target %d outside program of length %d", target, len(program)),
				})
			}
		case OpDup:
			if inst.Operand < 0 {
				errs = append(errs, &ValidationError{
					Index: i,
					Inst:  inst,
					Msg:   fmt.Sprintf("negative dup depth %d", inst.Operand),
				})
			}
		case OpPush, OpPop, OpPlus, OpMinus, OpMult, OpDiv, OpHalt:
			// No statically checkable operand.
		default:
			errs = append(errs, &ValidationError{
				Index: i,
				Inst:  inst,
				Msg:   "unknown opcode",
			})
		}
	}
	return errors.Join(errs...)
}
