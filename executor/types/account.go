package types

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"golang.org/x/exp/maps"
)

// Account represents the canonical state of a single address: its balance, nonce, deployed
// code, and any storage slots known for it. The zero-valued account (zero balance/nonce, no
// code, no storage) describes an address that does not exist.
type Account struct {
	// Balance describes the amount of network currency held by the account.
	Balance *uint256.Int

	// Nonce describes the number of transactions sent from this account (or, for contract
	// accounts, the number of contracts it created).
	Nonce uint64

	// Code describes the runtime bytecode deployed at the account address, if any.
	Code []byte

	// Storage maps storage slot keys to their values. For accounts materialized from a
	// changeset, this holds only the slots the execution touched.
	Storage map[common.Hash]common.Hash
}

// NewAccount creates an empty Account with an initialized storage mapping.
func NewAccount() *Account {
	return &Account{
		Balance: uint256.NewInt(0),
		Storage: make(map[common.Hash]common.Hash),
	}
}

// Copy returns a deep copy of the Account, so mutations of the copy never alias the original.
func (a *Account) Copy() *Account {
	cloned := &Account{
		Balance: uint256.NewInt(0),
		Nonce:   a.Nonce,
		Storage: make(map[common.Hash]common.Hash, len(a.Storage)),
	}
	if a.Balance != nil {
		cloned.Balance = new(uint256.Int).Set(a.Balance)
	}
	if a.Code != nil {
		cloned.Code = bytes.Clone(a.Code)
	}
	for slot, value := range a.Storage {
		cloned.Storage[slot] = value
	}
	return cloned
}

// StateChangeset describes the accounts touched by a single execution, keyed by address.
// It is semantically a diff against the state the execution ran over, not a full snapshot:
// each entry carries the post-execution balance/nonce/code of a touched address and only
// the storage slots the execution wrote.
type StateChangeset map[common.Address]*Account

// Addresses returns the touched addresses in a deterministic (byte-wise ascending) order.
func (c StateChangeset) Addresses() []common.Address {
	addresses := maps.Keys(c)
	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i][:], addresses[j][:]) < 0
	})
	return addresses
}

// Copy returns a deep copy of the changeset.
func (c StateChangeset) Copy() StateChangeset {
	cloned := make(StateChangeset, len(c))
	for addr, account := range c {
		cloned[addr] = account.Copy()
	}
	return cloned
}
