package state

import (
	"testing"

	"github.com/crytic/evmexec/executor/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBackend is a StateBackend test double recording how often it is consulted.
type countingBackend struct {
	accounts map[common.Address]*types.Account
	storage  map[common.Address]map[common.Hash]common.Hash

	stateObjectQueries int
	storageQueries     int
}

func newCountingBackend() *countingBackend {
	return &countingBackend{
		accounts: make(map[common.Address]*types.Account),
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
	}
}

func (b *countingBackend) GetStateObject(addr common.Address) (*uint256.Int, uint64, []byte, error) {
	b.stateObjectQueries++
	if account, ok := b.accounts[addr]; ok {
		return account.Balance, account.Nonce, account.Code, nil
	}
	return uint256.NewInt(0), 0, nil, nil
}

func (b *countingBackend) GetStorageAt(addr common.Address, slot common.Hash) (common.Hash, error) {
	b.storageQueries++
	if slots, ok := b.storage[addr]; ok {
		return slots[slot], nil
	}
	return common.Hash{}, nil
}

// TestBackendReadsAreMemoized verifies the backend is consulted at most once per account
// and once per storage slot.
func TestBackendReadsAreMemoized(t *testing.T) {
	addr := common.HexToAddress("0x1234")
	slot := common.HexToHash("0x01")
	backend := newCountingBackend()
	backend.accounts[addr] = &types.Account{Balance: uint256.NewInt(500), Nonce: 2}
	backend.storage[addr] = map[common.Hash]common.Hash{slot: common.HexToHash("0xbb")}
	db := NewLayeredDB(backend)

	for i := 0; i < 3; i++ {
		account, err := db.Account(addr)
		require.NoError(t, err)
		assert.EqualValues(t, uint256.NewInt(500), account.Balance)

		value, err := db.StorageAt(addr, slot)
		require.NoError(t, err)
		assert.EqualValues(t, common.HexToHash("0xbb"), value)
	}

	assert.EqualValues(t, 1, backend.stateObjectQueries)
	assert.EqualValues(t, 1, backend.storageQueries)
}

// TestInsertShadowsBackend verifies an overlay entry permanently shadows the backend for
// its address, including for storage slots the overlay does not hold.
func TestInsertShadowsBackend(t *testing.T) {
	addr := common.HexToAddress("0x1234")
	backend := newCountingBackend()
	backend.accounts[addr] = &types.Account{Balance: uint256.NewInt(500)}
	backend.storage[addr] = map[common.Hash]common.Hash{common.HexToHash("0x01"): common.HexToHash("0xbb")}
	db := NewLayeredDB(backend)

	local := types.NewAccount()
	local.Balance = uint256.NewInt(9)
	db.Insert(addr, local)

	account, err := db.Account(addr)
	require.NoError(t, err)
	assert.EqualValues(t, uint256.NewInt(9), account.Balance)

	// A slot absent from the overlay reads as zero rather than falling back to the
	// backend.
	value, err := db.StorageAt(addr, common.HexToHash("0x01"))
	require.NoError(t, err)
	assert.EqualValues(t, common.Hash{}, value)

	assert.EqualValues(t, 0, backend.stateObjectQueries)
	assert.EqualValues(t, 0, backend.storageQueries)
}

// TestAccountReturnsCopy verifies mutations of a returned account never reach the store.
func TestAccountReturnsCopy(t *testing.T) {
	addr := common.HexToAddress("0x1234")
	db := NewLayeredDB(EmptyBackend{})
	original := types.NewAccount()
	original.Balance = uint256.NewInt(100)
	db.Insert(addr, original)

	leaked, err := db.Account(addr)
	require.NoError(t, err)
	leaked.Balance.SetUint64(0)
	leaked.Storage[common.HexToHash("0x01")] = common.HexToHash("0xff")

	account, err := db.Account(addr)
	require.NoError(t, err)
	assert.EqualValues(t, uint256.NewInt(100), account.Balance)
	assert.Empty(t, account.Storage)
}

// TestApplyMergesStorage verifies applying a changeset overwrites balance/nonce/code but
// merges touched slots over the existing storage.
func TestApplyMergesStorage(t *testing.T) {
	addr := common.HexToAddress("0x1234")
	slotA := common.HexToHash("0x0a")
	slotB := common.HexToHash("0x0b")
	db := NewLayeredDB(EmptyBackend{})

	existing := types.NewAccount()
	existing.Balance = uint256.NewInt(10)
	existing.Storage[slotA] = common.HexToHash("0x01")
	db.Insert(addr, existing)

	db.Apply(types.StateChangeset{
		addr: {
			Balance: uint256.NewInt(20),
			Nonce:   5,
			Code:    []byte{0xfe},
			Storage: map[common.Hash]common.Hash{slotB: common.HexToHash("0x02")},
		},
	})

	account, err := db.Account(addr)
	require.NoError(t, err)
	assert.EqualValues(t, uint256.NewInt(20), account.Balance)
	assert.EqualValues(t, 5, account.Nonce)
	assert.EqualValues(t, []byte{0xfe}, account.Code)

	// The untouched slot survives the merge.
	valueA, err := db.StorageAt(addr, slotA)
	require.NoError(t, err)
	assert.EqualValues(t, common.HexToHash("0x01"), valueA)
	valueB, err := db.StorageAt(addr, slotB)
	require.NoError(t, err)
	assert.EqualValues(t, common.HexToHash("0x02"), valueB)
}

// TestApplySeedsFromBackendView verifies an applied changeset for a backend-sourced
// address seeds the overlay from the current view first, so pre-existing state survives.
func TestApplySeedsFromBackendView(t *testing.T) {
	addr := common.HexToAddress("0x1234")
	backend := newCountingBackend()
	backend.accounts[addr] = &types.Account{Balance: uint256.NewInt(500), Nonce: 2, Code: []byte{0x01}}
	db := NewLayeredDB(backend)

	// Only the nonce changes; balance and code carry nil/absent markers.
	db.Apply(types.StateChangeset{addr: {Nonce: 3}})

	account, err := db.Account(addr)
	require.NoError(t, err)
	assert.EqualValues(t, uint256.NewInt(500), account.Balance)
	assert.EqualValues(t, 3, account.Nonce)
	assert.EqualValues(t, []byte{0x01}, account.Code)

	// The address is now local; the backend is never consulted for it again.
	queries := backend.stateObjectQueries
	_, err = db.Account(addr)
	require.NoError(t, err)
	assert.EqualValues(t, queries, backend.stateObjectQueries)
}

// TestReaderIsolation verifies the read-only view reflects the store but exposes no path
// back to its mutators.
func TestReaderIsolation(t *testing.T) {
	addr := common.HexToAddress("0x1234")
	db := NewLayeredDB(EmptyBackend{})
	account := types.NewAccount()
	account.Balance = uint256.NewInt(7)
	db.Insert(addr, account)

	reader := db.Reader()
	got, err := reader.Account(addr)
	require.NoError(t, err)
	assert.EqualValues(t, uint256.NewInt(7), got.Balance)

	// The capability is a value wrapper, not the store itself.
	_, ok := reader.(*LayeredDB)
	assert.False(t, ok)
}
