package cache

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ErrCacheMiss is returned by cache reads when the requested entry is not present.
var ErrCacheMiss = errors.New("cache miss")

// StateObject gives us a way to store remote account data without the overhead of a full
// account representation; storage slots are cached separately per slot.
type StateObject struct {
	Balance *uint256.Int
	Nonce   uint64
	Code    []byte
}

// StateCache defines a cache for remote account state, used to avoid repeated expensive
// backend lookups. Implementations must be safe for concurrent use.
type StateCache interface {
	GetStateObject(addr common.Address) (*StateObject, error)
	WriteStateObject(addr common.Address, data StateObject) error

	GetSlotData(addr common.Address, slot common.Hash) (common.Hash, error)
	WriteSlotData(addr common.Address, slot common.Hash, data common.Hash) error
}
