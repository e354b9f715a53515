package types

import (
	coreTypes "github.com/ethereum/go-ethereum/core/types"
)

// RawCallResult describes the outcome of a raw (undecoded) call performed by an Executor.
type RawCallResult struct {
	// Status describes the outcome class of the call.
	Status Status

	// Output holds the raw return data of the call.
	Output []byte

	// GasUsed describes the amount of gas the call consumed.
	GasUsed uint64

	// Logs holds the events emitted during the call, in emission order.
	Logs []*coreTypes.Log

	// StateChanges describes the state the call touched. It is only present if the
	// changed state was not committed to the store (i.e. for Call/CallRaw, not
	// CallCommitting/CallRawCommitting); committed calls leave it nil since the caller
	// can simply re-read the store.
	StateChanges StateChangeset
}

// CallResult describes the outcome of a call whose return data was decoded against the
// function signature it was issued with.
type CallResult struct {
	// Status describes the outcome class of the call.
	Status Status

	// Decoded holds the return values decoded from the call output, in declaration
	// order.
	Decoded []any

	// GasUsed describes the amount of gas the call consumed.
	GasUsed uint64

	// Logs holds the events emitted during the call, in emission order.
	Logs []*coreTypes.Log

	// StateChanges describes the state the call touched. See
	// RawCallResult.StateChanges for presence rules.
	StateChanges StateChangeset
}
