// Package executor implements the call protocol around an external EVM-style
// interpreter: contract calls, deployments and test-assertion evaluation against a
// layered state store, with precise control over whether resulting state mutations are
// committed or discarded.
package executor

import (
	"github.com/crytic/evmexec/executor/state"
	"github.com/crytic/evmexec/executor/types"
	"github.com/crytic/evmexec/logging"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	coreTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// setupSignature is the conventional fixture-initialization entry point invoked by Setup.
const setupSignature = "setUp()"

// failedProbeSignature is the conventional sticky-failure probe consulted by IsSuccess.
// Test contracts following the DSTest convention record assertion failures in a flag
// this function reports, separately from revert status.
const failedProbeSignature = "failed()(bool)"

// Executor drives an Interpreter to perform contract calls and deployments against a
// layered state store. Committing entry points merge the interpreter's state diff into
// the store; speculative entry points return the diff to the caller and leave the store
// untouched. The interpreter itself only ever receives a read-only state handle, so the
// distinction is enforced by the handle type rather than by convention.
//
// No interpreter binding is retained between calls: each call hands a fresh environment
// clone and state handle to Interpreter.Run. Interpreters are documented to be
// lightweight dispatch objects, so this costs little and avoids stale-binding bugs a
// long-lived VM handle would risk.
//
// An Executor is single-threaded; independent Executor instances may coexist freely as
// each owns its own store overlay.
type Executor struct {
	// db is the layered state store owned by this executor for its lifetime.
	db *state.LayeredDB

	// env is the immutable environment template cloned for every call.
	env *types.Env

	// interp executes call messages. It is shared between executors (including the
	// ephemeral one built by IsSuccess) and must be stateless across calls.
	interp types.Interpreter

	// deployments records every successful deployment performed through this executor.
	deployments map[common.Address]*types.DeployedContract

	// logger describes the Executor's log object that can be used to log messages.
	logger *logging.Logger
}

// NewExecutor creates an Executor over the provided store and interpreter. A nil env
// yields types.DefaultEnv().
func NewExecutor(db *state.LayeredDB, env *types.Env, interp types.Interpreter) *Executor {
	if env == nil {
		env = types.DefaultEnv()
	}
	return &Executor{
		db:          db,
		env:         env.Copy(),
		interp:      interp,
		deployments: make(map[common.Address]*types.DeployedContract),
		logger:      logging.GlobalLogger.NewSubLogger("module", "executor"),
	}
}

// State exposes the executor's layered state store, e.g. for re-reading accounts after a
// committing call.
func (e *Executor) State() *state.LayeredDB {
	return e.db
}

// Env returns a copy of the executor's environment template.
func (e *Executor) Env() *types.Env {
	return e.env.Copy()
}

// Deployments returns the deployments performed through this executor, keyed by address.
func (e *Executor) Deployments() map[common.Address]*types.DeployedContract {
	return e.deployments
}

// SetBalance overwrites the balance of the given address in the store. This is a direct
// state edit used for test fixture setup; no interpreter invocation or gas accounting is
// involved.
func (e *Executor) SetBalance(addr common.Address, amount *uint256.Int) error {
	account, err := e.db.Account(addr)
	if err != nil {
		return err
	}
	account.Balance = new(uint256.Int).Set(amount)
	e.db.Insert(addr, account)
	return nil
}

// Setup invokes the conventional setUp() function on the given address as a committing
// call from the zero address with zero value, returning the resulting status and logs.
// A revert surfaces as an *ExecutionError.
func (e *Executor) Setup(addr common.Address) (types.Status, []*coreTypes.Log, error) {
	result, err := e.CallCommitting(common.Address{}, addr, setupSignature, nil, uint256.NewInt(0), nil)
	if err != nil {
		var execErr *ExecutionError
		if errors.As(err, &execErr) {
			return execErr.Status, execErr.Logs, err
		}
		return types.StatusFailed, nil, err
	}
	return result.Status, result.Logs, nil
}

// CallCommitting performs a call to an account on the current state, encoding args
// against the provided human-readable signature and decoding the result on success. The
// state after the call is persisted in the store; the result's StateChanges is therefore
// always nil. On a non-success status a best-effort revert reason is decoded (optionally
// against contractABI) and returned as an *ExecutionError.
func (e *Executor) CallCommitting(from common.Address, to common.Address, signature string, args []any, value *uint256.Int, contractABI *abi.ABI) (*types.CallResult, error) {
	method, calldata, err := e.encode(signature, args)
	if err != nil {
		return nil, err
	}
	raw, err := e.CallRawCommitting(from, to, calldata, value)
	if err != nil {
		return nil, err
	}
	return e.finishCall(method, raw, contractABI)
}

// CallRawCommitting performs a raw call to an account on the current state. The
// interpreter's state diff is committed into the store before returning, so the result's
// StateChanges is always nil: callers observing effects simply re-read the store.
func (e *Executor) CallRawCommitting(from common.Address, to common.Address, calldata []byte, value *uint256.Int) (*types.RawCallResult, error) {
	result, err := e.run(types.NewCallMessage(from, to, calldata, value))
	if err != nil {
		return nil, err
	}
	e.db.Apply(result.StateChanges)
	return &types.RawCallResult{
		Status:  result.Status,
		Output:  result.Output,
		GasUsed: result.GasUsed,
		Logs:    result.Logs,
	}, nil
}

// Call performs a call to an account on the current state without persisting any state
// change: the interpreter's diff is returned in the result's StateChanges instead,
// giving the caller visibility into what the call would have changed. Encoding and
// decoding behave as in CallCommitting.
func (e *Executor) Call(from common.Address, to common.Address, signature string, args []any, value *uint256.Int, contractABI *abi.ABI) (*types.CallResult, error) {
	method, calldata, err := e.encode(signature, args)
	if err != nil {
		return nil, err
	}
	raw, err := e.CallRaw(from, to, calldata, value)
	if err != nil {
		return nil, err
	}
	return e.finishCall(method, raw, contractABI)
}

// CallRaw performs a raw call to an account on the current state without persisting any
// state change. The store is handed to the interpreter through its read-only capability,
// so it is provably untouched regardless of call outcome.
func (e *Executor) CallRaw(from common.Address, to common.Address, calldata []byte, value *uint256.Int) (*types.RawCallResult, error) {
	result, err := e.run(types.NewCallMessage(from, to, calldata, value))
	if err != nil {
		return nil, err
	}
	return &types.RawCallResult{
		Status:       result.Status,
		Output:       result.Output,
		GasUsed:      result.GasUsed,
		Logs:         result.Logs,
		StateChanges: result.StateChanges,
	}, nil
}

// Deploy runs a contract-creation transaction and commits the new state to the store,
// returning the created address, status, gas used and logs. A creation which yields no
// address is an unrecoverable infrastructure failure, never a normal test outcome: all
// subsequent calls depend on a valid address.
func (e *Executor) Deploy(from common.Address, initBytecode []byte, value *uint256.Int) (common.Address, types.Status, uint64, []*coreTypes.Log, error) {
	result, err := e.run(types.NewCreateMessage(from, initBytecode, value))
	if err != nil {
		return common.Address{}, types.StatusFailed, 0, nil, err
	}
	e.db.Apply(result.StateChanges)

	if result.ContractAddress == nil {
		return common.Address{}, result.Status, result.GasUsed, result.Logs, errors.New("deployment failed")
	}
	addr := *result.ContractAddress
	e.deployments[addr] = &types.DeployedContract{
		Address:      addr,
		InitBytecode: append([]byte(nil), initBytecode...),
		Metadata:     types.ExtractContractMetadata(initBytecode),
	}
	e.logger.Debug("deployed contract", logging.StructuredLogInfo{"address": addr.Hex(), "gasUsed": result.GasUsed})
	return addr, result.Status, result.GasUsed, result.Logs, nil
}

// IsSuccess evaluates whether a just-completed call to a test contract is a passing
// outcome. A call passes iff its success matches the test's stated expectation of
// failure: shouldFail XOR success.
//
// When the status indicates success, the sticky failed() probe is additionally
// consulted: a minimal store holding only the target account (seeded from the canonical
// store's current view, with the call's changeset applied on top) reconstructs the
// post-call state, and a speculative probe call against it can override success to
// false. The probe is deliberately skipped for reverted calls: a revert is already a
// failure, and rechecking the flag cannot change that verdict.
func (e *Executor) IsSuccess(addr common.Address, status types.Status, changes types.StateChangeset, shouldFail bool) bool {
	success := status.IsSuccess()

	if success {
		// Reconstruct the post-call state of the single account under test.
		db := state.NewLayeredDB(state.EmptyBackend{})
		if current, err := e.db.Account(addr); err == nil {
			db.Insert(addr, current)
		}
		db.Apply(changes)

		probe := NewExecutor(db, e.env, e.interp)
		result, err := probe.Call(common.Address{}, addr, failedProbeSignature, nil, uint256.NewInt(0), nil)
		if err == nil && len(result.Decoded) == 1 {
			if failed, ok := result.Decoded[0].(bool); ok {
				success = !failed
			}
		}
	}

	return shouldFail != success
}

// encode resolves a signature and packs call data for it, classifying failures as
// encoding errors.
func (e *Executor) encode(signature string, args []any) (abi.Method, []byte, error) {
	method, err := ParseSignature(signature)
	if err != nil {
		return abi.Method{}, nil, &EncodingError{err: err}
	}
	calldata, err := encodeCallData(method, args)
	if err != nil {
		return abi.Method{}, nil, &EncodingError{err: err}
	}
	return method, calldata, nil
}

// finishCall turns a raw call result into a typed one: on success the output is decoded
// against the method's return types; otherwise a best-effort revert reason is decoded
// and the call surfaces as an *ExecutionError carrying the raw result's changeset (nil
// for committing calls).
func (e *Executor) finishCall(method abi.Method, raw *types.RawCallResult, contractABI *abi.ABI) (*types.CallResult, error) {
	if raw.Status.IsSuccess() {
		decoded, err := method.Outputs.Unpack(raw.Output)
		if err != nil {
			return nil, &EncodingError{err: err}
		}
		return &types.CallResult{
			Status:       raw.Status,
			Decoded:      decoded,
			GasUsed:      raw.GasUsed,
			Logs:         raw.Logs,
			StateChanges: raw.StateChanges,
		}, nil
	}

	reason, err := decodeRevertReason(raw.Output, contractABI)
	if err != nil {
		reason = raw.Status.String()
	}
	return nil, &ExecutionError{
		Status:       raw.Status,
		Reason:       reason,
		GasUsed:      raw.GasUsed,
		Logs:         raw.Logs,
		StateChanges: raw.StateChanges,
	}
}

// run executes one message through the interpreter against a fresh environment clone
// and the store's read-only handle. Committing is the caller's responsibility.
func (e *Executor) run(msg *types.CallMessage) (*types.ExecutionResult, error) {
	callID := uuid.New()
	result, err := e.interp.Run(e.env.Copy(), msg, e.db.Reader())
	if err != nil {
		return nil, errors.WithMessage(err, "interpreter failure")
	}
	if result == nil {
		return nil, errors.New("interpreter returned no result")
	}
	e.logger.Debug("executed call", logging.StructuredLogInfo{
		"callID":  callID.String(),
		"status":  result.Status.String(),
		"gasUsed": result.GasUsed,
		"create":  msg.IsCreate(),
	})
	return result, nil
}
