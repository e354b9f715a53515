package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

/*
StateBackend defines an interface for fetching fallback account state from a different
source such as a remote RPC server or K/V store. A LayeredDB consults its backend only on
a local miss; implementations are expected to be safe for use by multiple stores at once
so independent executors can share one backend (and its caches).
*/
type StateBackend interface {
	// GetStateObject returns the balance, nonce and code of the given address. Addresses
	// unknown to the backing source must yield zero values, not an error.
	GetStateObject(common.Address) (*uint256.Int, uint64, []byte, error)

	// GetStorageAt returns the data stored at the given slot of the given address.
	// Unwritten slots must yield the zero hash, not an error.
	GetStorageAt(common.Address, common.Hash) (common.Hash, error)
}
