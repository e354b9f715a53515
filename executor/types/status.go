package types

import "fmt"

// Status describes the outcome class an interpreter reports for a single execution. The
// executor treats the set as opaque beyond success/non-success classification; the
// individual non-success values only feed human-readable reporting.
type Status byte

const (
	// StatusFailed indicates the execution failed for a reason the interpreter did not
	// classify further. It is deliberately the zero value so an unset status never reads
	// as success.
	StatusFailed Status = iota

	// StatusSuccess indicates the execution completed without reverting.
	StatusSuccess

	// StatusReverted indicates the execution explicitly reverted, possibly with return
	// data encoding a revert reason.
	StatusReverted

	// StatusOutOfGas indicates the execution exhausted its gas allowance.
	StatusOutOfGas

	// StatusInvalidOpcode indicates the execution encountered an invalid instruction.
	StatusInvalidOpcode
)

// IsSuccess returns whether the status belongs to the success set.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// String returns a human-readable description of the status.
func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusSuccess:
		return "success"
	case StatusReverted:
		return "reverted"
	case StatusOutOfGas:
		return "out of gas"
	case StatusInvalidOpcode:
		return "invalid opcode"
	default:
		return fmt.Sprintf("unknown status (%d)", byte(s))
	}
}
