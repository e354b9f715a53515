package executor

import (
	"fmt"

	"github.com/crytic/evmexec/executor/types"
	coreTypes "github.com/ethereum/go-ethereum/core/types"
)

// ExecutionError indicates the interpreter reported a non-success status for a call. It
// is a normal, recoverable outcome carrying everything the caller needs to report the
// failure: the status, a best-effort decoded revert reason, gas consumed, the logs
// emitted up to the failure point, and (for speculative calls only) the state changeset.
type ExecutionError struct {
	// Status describes the non-success outcome class of the call.
	Status types.Status

	// Reason holds the decoded revert reason, or the status description if no reason
	// could be decoded.
	Reason string

	// GasUsed describes the amount of gas the call consumed before failing.
	GasUsed uint64

	// Logs holds the events emitted up to the failure point.
	Logs []*coreTypes.Log

	// StateChanges describes the state the call touched. It is nil for committing calls.
	StateChanges types.StateChangeset
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution reverted: %s (gas: %d)", e.Reason, e.GasUsed)
}

// EncodingError indicates argument encoding or return data decoding failed against the
// supplied signature/ABI. Calls failing this way never reach the interpreter.
type EncodingError struct {
	err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("abi encoding error: %v", e.err)
}

func (e *EncodingError) Unwrap() error {
	return e.err
}
