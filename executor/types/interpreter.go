package types

import (
	"github.com/ethereum/go-ethereum/common"
	coreTypes "github.com/ethereum/go-ethereum/core/types"
)

// StateReader is the read-only capability an interpreter receives over the executor's
// state store. It deliberately exposes no mutators: an interpreter reports the state it
// would change through ExecutionResult.StateChanges, and only the executor decides
// whether that diff is committed. This is what guarantees a speculative call can never
// mutate canonical state, even under a programming mistake in the interpreter.
type StateReader interface {
	// Account returns the current state of the given address. Implementations fall back
	// to their backing provider on a local miss and must return an empty account (not an
	// error) for addresses that simply do not exist.
	Account(addr common.Address) (*Account, error)

	// StorageAt returns the value of the given storage slot of the given address.
	StorageAt(addr common.Address, slot common.Hash) (common.Hash, error)
}

// ExecutionResult describes the outcome of a single interpreter invocation. The logs and
// state changeset are produced fresh per call and handed over wholesale; the interpreter
// must not retain references to them after Run returns.
type ExecutionResult struct {
	// Status describes the outcome class of the execution.
	Status Status

	// Output holds the raw return data of the call: ABI-encoded return values on
	// success, or revert data on failure.
	Output []byte

	// ContractAddress holds the address of the newly created contract for creation
	// messages. It is nil for regular calls and for creations that did not complete.
	ContractAddress *common.Address

	// GasUsed describes the amount of gas the execution consumed.
	GasUsed uint64

	// Logs holds the events emitted during execution, in emission order.
	Logs []*coreTypes.Log

	// StateChanges describes the accounts the execution touched, as a diff. The
	// interpreter never applies this itself; committing it is the executor's decision.
	StateChanges StateChangeset
}

// Interpreter defines the interface for the virtual machine that executes call messages
// against account state. Implementations are expected to be lightweight dispatch objects:
// the executor constructs no long-lived VM binding and instead invokes Run with a fresh
// environment clone and state handle on every call.
type Interpreter interface {
	// Run executes the message in the provided environment against the provided state
	// view and returns the outcome. An error return indicates an infrastructure failure
	// (not a reverting execution, which is reported via ExecutionResult.Status).
	Run(env *Env, msg *CallMessage, state StateReader) (*ExecutionResult, error)
}
