package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProjectConfigRoundTrip verifies a configuration written to disk reads back
// identically.
func TestProjectConfigRoundTrip(t *testing.T) {
	projectConfig := DefaultProjectConfig()
	projectConfig.Executor.ChainID = 7777
	projectConfig.Executor.RPC.Enabled = true
	projectConfig.Executor.RPC.URL = "http://localhost:8545"
	projectConfig.Executor.RPC.Height = 123456

	path := filepath.Join(t.TempDir(), "evmexec.json")
	require.NoError(t, projectConfig.WriteToFile(path))

	read, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.EqualValues(t, projectConfig, read)
}

// TestProjectConfigValidation verifies semantic violations are rejected on read.
func TestProjectConfigValidation(t *testing.T) {
	projectConfig := DefaultProjectConfig()
	projectConfig.Executor.BlockGasLimit = 0
	assert.Error(t, projectConfig.Validate())

	projectConfig = DefaultProjectConfig()
	projectConfig.Executor.RPC.Enabled = true
	projectConfig.Executor.RPC.URL = ""
	assert.Error(t, projectConfig.Validate())

	projectConfig = DefaultProjectConfig()
	projectConfig.Executor.RPC.Enabled = true
	projectConfig.Executor.RPC.URL = "http://localhost:8545"
	projectConfig.Executor.RPC.PoolSize = 0
	assert.Error(t, projectConfig.Validate())
}

// TestExecutorConfigEnv verifies the environment template reflects the configured chain
// parameters.
func TestExecutorConfigEnv(t *testing.T) {
	executorConfig := DefaultProjectConfig().Executor
	executorConfig.ChainID = 42
	executorConfig.BlockNumber = 100
	executorConfig.BlockGasLimit = 30_000_000

	env := executorConfig.Env()
	assert.EqualValues(t, 42, env.ChainID.Int64())
	assert.EqualValues(t, 100, env.BlockNumber.Uint64())
	assert.EqualValues(t, 30_000_000, env.GasLimit)
}
