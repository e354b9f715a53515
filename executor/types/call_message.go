package types

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// CallMessage represents a single message for the interpreter to apply against account
// state. It is constructed fresh per invocation by the executor from its environment
// template; it is never reused across calls.
type CallMessage struct {
	// From represents the sender of the message.
	From common.Address

	// To represents the receiving address for the message. A nil receiver indicates a
	// contract creation, with Data holding the init bytecode.
	To *common.Address

	// Value represents the amount of network currency to transfer to the receiver.
	Value *uint256.Int

	// Data represents the input provided to the receiver. For contract calls this holds
	// ABI-encoded calldata; for creations it holds the init bytecode.
	Data []byte
}

// NewCallMessage creates a CallMessage targeting the provided contract address.
func NewCallMessage(from common.Address, to common.Address, data []byte, value *uint256.Int) *CallMessage {
	if value == nil {
		value = uint256.NewInt(0)
	}
	return &CallMessage{
		From:  from,
		To:    &to,
		Value: new(uint256.Int).Set(value),
		Data:  bytes.Clone(data),
	}
}

// NewCreateMessage creates a contract-creation CallMessage carrying the provided init
// bytecode.
func NewCreateMessage(from common.Address, initBytecode []byte, value *uint256.Int) *CallMessage {
	if value == nil {
		value = uint256.NewInt(0)
	}
	return &CallMessage{
		From:  from,
		Value: new(uint256.Int).Set(value),
		Data:  bytes.Clone(initBytecode),
	}
}

// IsCreate returns whether this message describes a contract creation.
func (m *CallMessage) IsCreate() bool {
	return m.To == nil
}
