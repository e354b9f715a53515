package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// DeployedContract records a contract deployment performed through an Executor, so
// callers can map addresses back to the bytecode (and compiler metadata) that produced
// them.
type DeployedContract struct {
	// Address describes the address the contract was deployed to.
	Address common.Address

	// InitBytecode describes the init bytecode the deployment was issued with.
	InitBytecode []byte

	// Metadata describes the contract metadata extracted from the init bytecode, if the
	// compiler embedded any.
	Metadata *ContractMetadata
}
