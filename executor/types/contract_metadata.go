package types

import (
	"bytes"

	"github.com/fxamacker/cbor"
)

// ContractMetadata is the CBOR-encoded structure the Solidity compiler appends to
// contract bytecode (unless explicitly directed not to), carrying source hashes and
// compiler information.
// Reference: https://docs.soliditylang.org/en/latest/metadata.html
type ContractMetadata map[string]any

// metadataHashPrefixes defines the byte patterns which introduce CBOR-encoded contract
// metadata at the end of bytecode.
var metadataHashPrefixes = [][]byte{
	{0xa1, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a1 65 "bzzr0" 0x58 0x20 (solc <= 0.5.8)
	{0xa2, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a2 65 "bzzr0" 0x58 0x20 (solc >= 0.5.9)
	{0xa2, 0x65, 98, 122, 122, 114, 49, 0x58, 0x20},  // a2 65 "bzzr1" 0x58 0x20 (solc >= 0.5.11)
	{0xa2, 0x64, 0x69, 0x70, 0x66, 0x73, 0x58, 0x22}, // a2 64 "ipfs" 0x58 0x22 (solc >= 0.6.0)
}

// metadataHashKeys defines the metadata keys which carry bytecode source hashes.
var metadataHashKeys = [...]string{
	"bzzr0",
	"bzzr1",
	"ipfs",
}

// ExtractContractMetadata searches the provided bytecode for trailing CBOR-encoded
// contract metadata and decodes it. Returns nil if no metadata could be located.
func ExtractContractMetadata(bytecode []byte) *ContractMetadata {
	for _, prefix := range metadataHashPrefixes {
		offset := bytes.LastIndex(bytecode, prefix)
		if offset == -1 {
			continue
		}
		var metadata ContractMetadata
		if err := cbor.Unmarshal(bytecode[offset:], &metadata); err != nil {
			continue
		}
		return &metadata
	}
	return nil
}

// Hash returns the source hash embedded in the metadata, or nil if none is present.
func (m ContractMetadata) Hash() []byte {
	for _, key := range metadataHashKeys {
		if hash, ok := m[key]; ok {
			if hashBytes, ok := hash.([]byte); ok {
				return hashBytes
			}
		}
	}
	return nil
}
