package config

import (
	"encoding/json"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/crytic/evmexec/executor/types"
)

// ProjectConfig describes the configuration for an execution project, loaded from and
// saved to a JSON file.
type ProjectConfig struct {
	// Executor describes the configuration used to construct executors.
	Executor ExecutorConfig `json:"executor"`

	// Logging describes the configuration used for logging to file and console.
	Logging LoggingConfig `json:"logging"`
}

// ExecutorConfig describes the configuration options used to construct an
// executor.Executor and its environment template.
type ExecutorConfig struct {
	// ChainID describes the chain ID calls execute against.
	ChainID int64 `json:"chainID"`

	// BlockNumber describes the block number calls execute in.
	BlockNumber uint64 `json:"blockNumber"`

	// BlockGasLimit describes the maximum amount of gas a single call may consume.
	// Transactions which push past this limit fail rather than being split.
	BlockGasLimit uint64 `json:"blockGasLimit"`

	// RPC describes the remote state backend configuration. If RPC.Enabled is false,
	// executors run over an empty backend and all state must be set up explicitly.
	RPC RPCConfig `json:"rpc"`
}

// RPCConfig describes the configuration options for a remote RPC state backend.
type RPCConfig struct {
	// Enabled describes whether a remote RPC backend should be used as the fallback
	// state source.
	Enabled bool `json:"enabled"`

	// URL describes the RPC endpoint to query state from.
	URL string `json:"url"`

	// Height describes the block height to lock state queries to.
	Height uint64 `json:"height"`

	// PoolSize describes the number of RPC clients to pool requests over.
	PoolSize uint `json:"poolSize"`

	// CacheDirectory describes the directory under which RPC responses are persisted.
	// If empty, responses are cached in memory only.
	CacheDirectory string `json:"cacheDirectory"`
}

// LoggingConfig describes the configuration options for logging.
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.)
	// will be emitted or discarded.
	Level zerolog.Level `json:"level"`

	// ConsoleEnabled describes whether logs should additionally be printed to console
	// in an unstructured format.
	ConsoleEnabled bool `json:"consoleEnabled"`
}

// Env constructs the environment template described by the executor configuration.
func (c *ExecutorConfig) Env() *types.Env {
	env := types.DefaultEnv()
	env.ChainID = big.NewInt(c.ChainID)
	env.BlockNumber = new(big.Int).SetUint64(c.BlockNumber)
	env.GasLimit = c.BlockGasLimit
	return env
}

// ReadProjectConfigFromFile reads a ProjectConfig from the provided JSON file path and
// validates it.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "could not read project configuration")
	}

	projectConfig := DefaultProjectConfig()
	if err = json.Unmarshal(b, projectConfig); err != nil {
		return nil, errors.WithMessage(err, "could not parse project configuration")
	}

	if err = projectConfig.Validate(); err != nil {
		return nil, err
	}
	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to the provided file path in its JSON
// representation.
func (p *ProjectConfig) WriteToFile(path string) error {
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, b, 0644); err != nil {
		return errors.WithMessage(err, "could not write project configuration")
	}
	return nil
}

// Validate checks the semantic validity of the configuration, returning an error
// describing the first violation found.
func (p *ProjectConfig) Validate() error {
	if p.Executor.BlockGasLimit == 0 {
		return errors.New("project configuration must specify a non-zero block gas limit")
	}
	if p.Executor.RPC.Enabled {
		if p.Executor.RPC.URL == "" {
			return errors.New("project configuration must specify an RPC url when the RPC backend is enabled")
		}
		if p.Executor.RPC.PoolSize == 0 {
			return errors.New("project configuration must specify a non-zero RPC pool size")
		}
	}
	return nil
}
