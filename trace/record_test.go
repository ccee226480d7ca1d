package trace

import (
	"bytes"
	"testing"
)

func TestStepRecordRoundTrip(t *testing.T) {
	rec := &StepRecord{
		Run:     "test-run",
		Step:    3,
		IP:      2,
		Opcode:  "DIV",
		Operand: 0,
		Trap:    "DIVISION_BY_ZERO",
		Size:    0,
	}

	data, err := MarshalStepRecord(rec)
	if err != nil {
		t.Fatalf("MarshalStepRecord: %v", err)
	}

	got, err := UnmarshalStepRecord(data)
	if err != nil {
		t.Fatalf("UnmarshalStepRecord: %v", err)
	}
	if *got != *rec {
		t.Errorf("round trip = %+v, want %+v", got, rec)
	}

	// Canonical mode: encoding the same record twice is byte-identical.
	again, err := MarshalStepRecord(rec)
	if err != nil {
		t.Fatalf("MarshalStepRecord: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("canonical encoding is not deterministic")
	}
}
