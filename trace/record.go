// Package trace records executed machine steps for offline diagnostics.
// Each step becomes a CBOR-encoded record persisted to a SQLite store; the
// Store implements runner.Observer so it can be attached directly to a run.
//
// Traces describe what a run did, one step at a time. They are not a
// program serialization format: the program itself is never persisted.
package trace

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// StepRecord is the persisted form of one executed step.
type StepRecord struct {
	Run     string `cbor:"run"`              // run identifier
	Step    uint64 `cbor:"step"`             // 0-based step number within the run
	IP      int32  `cbor:"ip"`               // instruction pointer before the step
	Opcode  string `cbor:"op,omitempty"`     // mnemonic; empty when the fetch failed
	Operand int32  `cbor:"operand"`          // operand of the fetched instruction
	Trap    string `cbor:"trap"`             // trap name returned by the step
	Size    int    `cbor:"size"`             // stack size after the step
}

// MarshalStepRecord serializes a StepRecord to CBOR bytes.
func MarshalStepRecord(r *StepRecord) ([]byte, error) {
	return cborEncMode.Marshal(r)
}

// UnmarshalStepRecord deserializes a StepRecord from CBOR bytes.
func UnmarshalStepRecord(data []byte) (*StepRecord, error) {
	var r StepRecord
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("trace: unmarshal step record: %w", err)
	}
	return &r, nil
}
