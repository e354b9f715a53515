package executor

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseSignature verifies human-readable signatures resolve to methods whose
// selectors match the canonical keccak derivation.
func TestParseSignature(t *testing.T) {
	tests := []struct {
		signature string
		canonical string
		inputs    int
		outputs   int
	}{
		{"setUp()", "setUp()", 0, 0},
		{"failed()(bool)", "failed()", 0, 1},
		{"transfer(address,uint256)", "transfer(address,uint256)", 2, 0},
		{"get(uint256)(bytes32,bool)", "get(uint256)", 1, 2},
		{" spaced(uint8 , uint8 ) ", "spaced(uint8,uint8)", 2, 0},
	}
	for _, tc := range tests {
		t.Run(tc.signature, func(t *testing.T) {
			method, err := ParseSignature(tc.signature)
			require.NoError(t, err)
			assert.EqualValues(t, crypto.Keccak256([]byte(tc.canonical))[:4], method.ID)
			assert.Len(t, method.Inputs, tc.inputs)
			assert.Len(t, method.Outputs, tc.outputs)
		})
	}
}

// TestParseSignatureInvalid verifies malformed or unsupported signatures are rejected.
func TestParseSignatureInvalid(t *testing.T) {
	invalid := []string{
		"",
		"noParens",
		"()",
		"open(",
		"trailing()junk",
		"tuple((uint256,bool))",
		"badType(uint257)",
	}
	for _, signature := range invalid {
		t.Run(signature, func(t *testing.T) {
			_, err := ParseSignature(signature)
			assert.Error(t, err)
		})
	}
}

// TestEncodeCallData verifies call data is the 4-byte selector followed by the packed
// arguments.
func TestEncodeCallData(t *testing.T) {
	method, err := ParseSignature("transfer(address,uint256)")
	require.NoError(t, err)

	recipient := common.HexToAddress("0xabcd")
	calldata, err := encodeCallData(method, []any{recipient, big.NewInt(100)})
	require.NoError(t, err)
	require.Len(t, calldata, 4+64)
	assert.EqualValues(t, method.ID, calldata[:4])

	// Argument count mismatches fail rather than producing truncated call data.
	_, err = encodeCallData(method, []any{recipient})
	assert.Error(t, err)
}

// TestDecodeRevertReason exercises the supported revert encodings.
func TestDecodeRevertReason(t *testing.T) {
	t.Run("error string", func(t *testing.T) {
		reason, err := decodeRevertReason(encodeRevertReason(t, "nope"), nil)
		require.NoError(t, err)
		assert.EqualValues(t, "nope", reason)
	})

	t.Run("panic code", func(t *testing.T) {
		data := append([]byte{0x4e, 0x48, 0x7b, 0x71}, make([]byte, 32)...)
		data[35] = 0x11 // arithmetic overflow
		reason, err := decodeRevertReason(data, nil)
		require.NoError(t, err)
		assert.EqualValues(t, "panic: 0x11", reason)
	})

	t.Run("custom error", func(t *testing.T) {
		uintType, err := abi.NewType("uint256", "", nil)
		require.NoError(t, err)
		customError := abi.NewError("Unauthorized", abi.Arguments{{Name: "caller", Type: uintType}})
		contractABI := &abi.ABI{Errors: map[string]abi.Error{"Unauthorized": customError}}

		data := append([]byte(nil), customError.ID.Bytes()[:4]...)
		word := make([]byte, 32)
		word[31] = 3
		data = append(data, word...)

		reason, err := decodeRevertReason(data, contractABI)
		require.NoError(t, err)
		assert.Contains(t, reason, "Unauthorized")
		assert.Contains(t, reason, "3")
	})

	t.Run("no data", func(t *testing.T) {
		_, err := decodeRevertReason(nil, nil)
		assert.Error(t, err)
	})

	t.Run("unknown selector", func(t *testing.T) {
		_, err := decodeRevertReason([]byte{0xde, 0xad, 0xbe, 0xef}, nil)
		assert.Error(t, err)
	})
}
