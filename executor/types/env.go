package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Env is the immutable chain/block context template an Executor reuses for every call.
// The executor clones it per invocation and pairs the clone with a CallMessage, so no
// call can observe another call's environment mutations.
type Env struct {
	// ChainID identifies the chain the interpreter should execute against.
	ChainID *big.Int

	// BlockNumber describes the number of the block calls execute in.
	BlockNumber *big.Int

	// Time describes the timestamp of the block calls execute in.
	Time uint64

	// Coinbase describes the address receiving block rewards/fees.
	Coinbase common.Address

	// GasLimit describes the maximum amount of gas a single call may consume.
	GasLimit uint64

	// BaseFee describes the block base fee. A zero base fee keeps test fixtures
	// unmetered by fee accounting.
	BaseFee *big.Int

	// Difficulty describes the block difficulty, retained for pre-merge interpreter
	// implementations.
	Difficulty *big.Int
}

// DefaultEnv returns an Env suitable for test execution: a dedicated test chain ID, a
// high gas limit, and a zero base fee.
func DefaultEnv() *Env {
	return &Env{
		ChainID:     big.NewInt(1337),
		BlockNumber: big.NewInt(1),
		Time:        1,
		Coinbase:    common.Address{},
		GasLimit:    0x7fffffffffffffff,
		BaseFee:     big.NewInt(0),
		Difficulty:  big.NewInt(0),
	}
}

// Copy returns a deep copy of the Env.
func (e *Env) Copy() *Env {
	cloned := &Env{
		Time:     e.Time,
		Coinbase: e.Coinbase,
		GasLimit: e.GasLimit,
	}
	if e.ChainID != nil {
		cloned.ChainID = new(big.Int).Set(e.ChainID)
	}
	if e.BlockNumber != nil {
		cloned.BlockNumber = new(big.Int).Set(e.BlockNumber)
	}
	if e.BaseFee != nil {
		cloned.BaseFee = new(big.Int).Set(e.BaseFee)
	}
	if e.Difficulty != nil {
		cloned.Difficulty = new(big.Int).Set(e.Difficulty)
	}
	return cloned
}
