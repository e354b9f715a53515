package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAccountCopyDoesNotAlias verifies mutating a copy leaves the original untouched.
func TestAccountCopyDoesNotAlias(t *testing.T) {
	account := NewAccount()
	account.Balance = uint256.NewInt(100)
	account.Code = []byte{0x01, 0x02}
	account.Storage[common.HexToHash("0x01")] = common.HexToHash("0xaa")

	cloned := account.Copy()
	cloned.Balance.SetUint64(0)
	cloned.Code[0] = 0xff
	cloned.Storage[common.HexToHash("0x01")] = common.HexToHash("0xbb")

	assert.EqualValues(t, uint256.NewInt(100), account.Balance)
	assert.EqualValues(t, []byte{0x01, 0x02}, account.Code)
	assert.EqualValues(t, common.HexToHash("0xaa"), account.Storage[common.HexToHash("0x01")])
}

// TestChangesetAddressesDeterministic verifies touched addresses come back byte-wise
// ascending regardless of insertion order.
func TestChangesetAddressesDeterministic(t *testing.T) {
	changes := StateChangeset{
		common.HexToAddress("0x03"): NewAccount(),
		common.HexToAddress("0x01"): NewAccount(),
		common.HexToAddress("0x02"): NewAccount(),
	}
	expected := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
		common.HexToAddress("0x03"),
	}
	for i := 0; i < 5; i++ {
		assert.EqualValues(t, expected, changes.Addresses())
	}
}

// TestExtractContractMetadata verifies trailing CBOR metadata is located and its source
// hash exposed.
func TestExtractContractMetadata(t *testing.T) {
	sourceHash := make([]byte, 34)
	for i := range sourceHash {
		sourceHash[i] = byte(i)
	}

	// map(2) { "ipfs": bytes(34), "solc": bytes(3) }
	metadata := []byte{0xa2, 0x64, 'i', 'p', 'f', 's', 0x58, 0x22}
	metadata = append(metadata, sourceHash...)
	metadata = append(metadata, 0x64, 's', 'o', 'l', 'c', 0x43, 0x00, 0x08, 0x12)

	bytecode := append([]byte{0x60, 0x80, 0x60, 0x40, 0x52}, metadata...)
	extracted := ExtractContractMetadata(bytecode)
	require.NotNil(t, extracted)
	assert.EqualValues(t, sourceHash, extracted.Hash())

	// Bytecode without a metadata suffix yields nothing.
	assert.Nil(t, ExtractContractMetadata([]byte{0x60, 0x80, 0x60, 0x40}))
	assert.Nil(t, ExtractContractMetadata(nil))
}
