package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var _ StateBackend = (*EmptyBackend)(nil)

// EmptyBackend is a StateBackend holding no state at all. It backs stores whose entire
// content is inserted explicitly, such as the ephemeral single-account store used for
// post-call success evaluation.
type EmptyBackend struct{}

func (d EmptyBackend) GetStorageAt(address common.Address, slot common.Hash) (common.Hash, error) {
	return common.Hash{}, nil
}

func (d EmptyBackend) GetStateObject(address common.Address) (*uint256.Int, uint64, []byte, error) {
	return uint256.NewInt(0), 0, nil, nil
}
