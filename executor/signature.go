package executor

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// panicSelector is the 4-byte selector of Panic(uint256), the compiler-inserted assert
// failure error.
var panicSelector = []byte{0x4e, 0x48, 0x7b, 0x71}

// ParseSignature resolves a human-readable function signature such as "setUp()" or
// "failed()(bool)" into an abi.Method whose ID provides the 4-byte call data selector.
// The optional second parenthesized group declares the return types.
func ParseSignature(signature string) (abi.Method, error) {
	signature = strings.TrimSpace(signature)
	open := strings.Index(signature, "(")
	if open <= 0 {
		return abi.Method{}, errors.Errorf("invalid function signature: %q", signature)
	}
	name := signature[:open]

	inputsRaw, rest, err := takeParenGroup(signature[open:])
	if err != nil {
		return abi.Method{}, errors.WithMessagef(err, "invalid function signature: %q", signature)
	}
	outputsRaw := ""
	if rest = strings.TrimSpace(rest); rest != "" {
		outputsRaw, rest, err = takeParenGroup(rest)
		if err != nil || strings.TrimSpace(rest) != "" {
			return abi.Method{}, errors.Errorf("invalid function signature: %q", signature)
		}
	}

	inputs, err := parseTypeList(inputsRaw)
	if err != nil {
		return abi.Method{}, err
	}
	outputs, err := parseTypeList(outputsRaw)
	if err != nil {
		return abi.Method{}, err
	}

	return abi.NewMethod(name, name, abi.Function, "nonpayable", false, false, inputs, outputs), nil
}

// takeParenGroup consumes one balanced parenthesized group from the front of s,
// returning its inner content and the remainder of the string.
func takeParenGroup(s string) (string, string, error) {
	if len(s) == 0 || s[0] != '(' {
		return "", "", errors.New("expected '('")
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], nil
			}
		}
	}
	return "", "", errors.New("unbalanced parentheses")
}

// parseTypeList turns a comma-separated list of elementary/array types into
// abi.Arguments. Tuple types are not supported in signature strings; calls needing them
// should encode their own call data and use the raw call entry points.
func parseTypeList(list string) (abi.Arguments, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return abi.Arguments{}, nil
	}
	var arguments abi.Arguments
	for i, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" || strings.Contains(token, "(") {
			return nil, errors.Errorf("unsupported type in signature: %q", token)
		}
		argType, err := abi.NewType(token, "", nil)
		if err != nil {
			return nil, errors.WithMessagef(err, "unsupported type in signature: %q", token)
		}
		arguments = append(arguments, abi.Argument{
			Name: fmt.Sprintf("arg%d", i),
			Type: argType,
		})
	}
	return arguments, nil
}

// encodeCallData packs the provided arguments against the method and prepends the
// method's selector, yielding complete call data.
func encodeCallData(method abi.Method, args []any) ([]byte, error) {
	packed, err := method.Inputs.Pack(args...)
	if err != nil {
		return nil, err
	}
	return append(bytes.Clone(method.ID), packed...), nil
}

// decodeRevertReason attempts to turn raw revert data into a human-readable reason.
// It understands the standard Error(string) and Panic(uint256) encodings, plus any
// custom errors declared in the optionally provided contract ABI. An error return means
// no reason could be decoded; callers fall back to the raw status description.
func decodeRevertReason(output []byte, contractABI *abi.ABI) (string, error) {
	if len(output) < 4 {
		return "", errors.New("no revert data")
	}

	// Error(string)
	if reason, err := abi.UnpackRevert(output); err == nil {
		return reason, nil
	}

	// Panic(uint256)
	if bytes.Equal(output[:4], panicSelector) && len(output) >= 36 {
		code := new(big.Int).SetBytes(output[4:36])
		return fmt.Sprintf("panic: 0x%02x", code), nil
	}

	// Custom errors declared by the target contract's ABI, if one was supplied.
	if contractABI != nil {
		for _, customError := range contractABI.Errors {
			if !bytes.Equal(customError.ID.Bytes()[:4], output[:4]) {
				continue
			}
			values, err := customError.Inputs.Unpack(output[4:])
			if err != nil {
				continue
			}
			return fmt.Sprintf("%s%v", customError.Name, values), nil
		}
	}

	return "", errors.New("could not decode revert reason")
}
