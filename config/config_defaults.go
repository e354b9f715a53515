package config

import (
	"github.com/rs/zerolog"
)

// DefaultProjectConfig obtains a default configuration for an execution project: a local
// test chain ID, a high block gas limit so fixtures run unmetered, and the RPC backend
// disabled.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Executor: ExecutorConfig{
			ChainID:       1337,
			BlockNumber:   1,
			BlockGasLimit: 0x7fffffffffffffff,
			RPC: RPCConfig{
				Enabled:        false,
				URL:            "",
				Height:         0,
				PoolSize:       4,
				CacheDirectory: "",
			},
		},
		Logging: LoggingConfig{
			Level:          zerolog.InfoLevel,
			ConsoleEnabled: true,
		},
	}
}
