package cmd

import (
	"fmt"

	"github.com/crytic/evmexec/config"
	"github.com/spf13/cobra"
)

// addStateFlags adds the various flags for the state command
func addStateFlags() {
	defaultConfig := config.DefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	stateCmd.Flags().SortFlags = false

	// Config file
	stateCmd.Flags().String("config", "", "path to config file")

	// RPC backend
	stateCmd.Flags().String("rpc-url", "",
		"RPC endpoint to query state from (enables the RPC backend)")
	stateCmd.Flags().Uint64("rpc-height", 0,
		"block height to lock state queries to")
	stateCmd.Flags().Uint("rpc-pool-size", 0,
		fmt.Sprintf("number of RPC clients to pool requests over (unless a config file is provided, default is %d)", defaultConfig.Executor.RPC.PoolSize))
	stateCmd.Flags().String("cache-dir", "",
		"directory path under which RPC responses are persisted")
}

// updateProjectConfigWithStateFlags merges the state command's flag values into the
// project configuration. Flags the user did not set leave the configuration untouched.
func updateProjectConfigWithStateFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error
	if cmd.Flags().Changed("rpc-url") {
		if projectConfig.Executor.RPC.URL, err = cmd.Flags().GetString("rpc-url"); err != nil {
			return err
		}
		projectConfig.Executor.RPC.Enabled = true
	}
	if cmd.Flags().Changed("rpc-height") {
		if projectConfig.Executor.RPC.Height, err = cmd.Flags().GetUint64("rpc-height"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("rpc-pool-size") {
		if projectConfig.Executor.RPC.PoolSize, err = cmd.Flags().GetUint("rpc-pool-size"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("cache-dir") {
		if projectConfig.Executor.RPC.CacheDirectory, err = cmd.Flags().GetString("cache-dir"); err != nil {
			return err
		}
	}
	return nil
}
