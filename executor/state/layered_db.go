package state

import (
	"github.com/crytic/evmexec/executor/types"
	"github.com/ethereum/go-ethereum/common"
)

var _ types.StateReader = (*LayeredDB)(nil)

// LayeredDB is a two-tier account store: a local overlay of account states layered over a
// StateBackend that is queried only on miss. Once an address lands in the overlay
// (explicitly via Insert, or implicitly when a committing call's changeset is applied),
// every read of that address is satisfied from the overlay and the backend is never
// consulted for it again. Backend responses are memoized in a separate read-through layer
// so the backend is consulted at most once per account and once per slot.
//
// A LayeredDB is not synchronized; it is owned by a single executor, matching the
// single-threaded execution model. Backends may be shared between stores.
type LayeredDB struct {
	// backend is the fallback source of truth consulted on local misses.
	backend StateBackend

	// overlay holds locally written account states. Entries here permanently shadow the
	// backend for their address.
	overlay map[common.Address]*types.Account

	// fetched memoizes account state served by the backend, keeping reads idempotent
	// without treating backend data as local writes.
	fetched map[common.Address]*types.Account
}

// NewLayeredDB creates an empty LayeredDB over the provided backend.
func NewLayeredDB(backend StateBackend) *LayeredDB {
	return &LayeredDB{
		backend: backend,
		overlay: make(map[common.Address]*types.Account),
		fetched: make(map[common.Address]*types.Account),
	}
}

// Account returns the current state of the given address. The returned account is a copy;
// mutating it does not affect the store. Use Insert to write a modified account back.
func (db *LayeredDB) Account(addr common.Address) (*types.Account, error) {
	account, _, err := db.entry(addr)
	if err != nil {
		return nil, err
	}
	return account.Copy(), nil
}

// StorageAt returns the value of the given storage slot of the given address. For overlay
// accounts the overlay storage is authoritative; for backend-sourced accounts, slots are
// fetched lazily and memoized.
func (db *LayeredDB) StorageAt(addr common.Address, slot common.Hash) (common.Hash, error) {
	account, local, err := db.entry(addr)
	if err != nil {
		return common.Hash{}, err
	}
	if value, ok := account.Storage[slot]; ok {
		return value, nil
	}
	if local {
		// Overlay accounts shadow the backend entirely; an absent slot is zero.
		return common.Hash{}, nil
	}
	value, err := db.backend.GetStorageAt(addr, slot)
	if err != nil {
		return common.Hash{}, err
	}
	account.Storage[slot] = value
	return value, nil
}

// Insert writes the provided account state into the overlay, permanently shadowing the
// backend for that address. The account is copied on the way in.
func (db *LayeredDB) Insert(addr common.Address, account *types.Account) {
	cloned := account.Copy()
	if cloned.Storage == nil {
		cloned.Storage = make(map[common.Hash]common.Hash)
	}
	db.overlay[addr] = cloned
}

// Apply merges every entry of the provided changeset into the overlay. For each touched
// address the changeset's balance/nonce/code overwrite the prior view, while its storage
// entries (the touched slots only) are merged over the existing storage so untouched
// slots survive. Addresses not yet in the overlay are seeded from the current view first,
// preserving read-your-writes for subsequent reads.
func (db *LayeredDB) Apply(changes types.StateChangeset) {
	for _, addr := range changes.Addresses() {
		diff := changes[addr]
		base, ok := db.overlay[addr]
		if !ok {
			current, err := db.Account(addr)
			if err != nil {
				current = types.NewAccount()
			}
			base = current
		}
		if diff.Balance != nil {
			base.Balance = diff.Balance.Clone()
		}
		base.Nonce = diff.Nonce
		if diff.Code != nil {
			base.Code = append([]byte(nil), diff.Code...)
		}
		for slot, value := range diff.Storage {
			base.Storage[slot] = value
		}
		db.overlay[addr] = base
	}
}

// Reader returns a read-only capability over the store, suitable for handing to an
// interpreter for a speculative call. The returned handle exposes no mutators and cannot
// be converted back into the store.
func (db *LayeredDB) Reader() types.StateReader {
	return readOnlyView{db: db}
}

// entry resolves the internal account entry for an address, reporting whether it came
// from the overlay. Misses are satisfied from the backend and memoized.
func (db *LayeredDB) entry(addr common.Address) (*types.Account, bool, error) {
	if account, ok := db.overlay[addr]; ok {
		return account, true, nil
	}
	if account, ok := db.fetched[addr]; ok {
		return account, false, nil
	}
	balance, nonce, code, err := db.backend.GetStateObject(addr)
	if err != nil {
		return nil, false, err
	}
	account := types.NewAccount()
	if balance != nil {
		account.Balance = balance.Clone()
	}
	account.Nonce = nonce
	if len(code) > 0 {
		account.Code = append([]byte(nil), code...)
	}
	db.fetched[addr] = account
	return account, false, nil
}

// readOnlyView exposes a LayeredDB through the StateReader capability only.
type readOnlyView struct {
	db *LayeredDB
}

func (r readOnlyView) Account(addr common.Address) (*types.Account, error) {
	return r.db.Account(addr)
}

func (r readOnlyView) StorageAt(addr common.Address, slot common.Hash) (common.Hash, error) {
	return r.db.StorageAt(addr, slot)
}
