package vm

// Word is the machine's single scalar value type: a signed 32-bit integer.
// It is used uniformly for stack slots, instruction operands, and the
// instruction pointer, and is always copied by value.
type Word int32
