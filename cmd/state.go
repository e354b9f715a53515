package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/crytic/evmexec/cmd/exitcodes"
	"github.com/crytic/evmexec/config"
	"github.com/crytic/evmexec/executor/state"
	"github.com/crytic/evmexec/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"
)

// stateCmd represents the command which inspects remote account state through a layered
// store, the way an executor would observe it.
var stateCmd = &cobra.Command{
	Use:   "state [addresses]",
	Short: "Inspect account state through the layered store",
	Long: "state reads one or more accounts through a layered state store backed by a " +
		"remote RPC endpoint, printing each account as observed by an executor",
	Args:          cobra.MinimumNArgs(1),
	RunE:          cmdRunState,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add all the flags allowed for the state command
	addStateFlags()

	rootCmd.AddCommand(stateCmd)
}

// cmdRunState executes the state CLI command.
func cmdRunState(cmd *cobra.Command, args []string) error {
	// Load the project configuration, if a file was given; otherwise use defaults.
	var projectConfig *config.ProjectConfig
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if configPath != "" {
		projectConfig, err = config.ReadProjectConfigFromFile(configPath)
		if err != nil {
			return err
		}
	} else {
		projectConfig = config.DefaultProjectConfig()
	}

	// Apply flag overrides on top of the loaded configuration.
	if err = updateProjectConfigWithStateFlags(cmd, projectConfig); err != nil {
		return err
	}
	if !projectConfig.Executor.RPC.Enabled {
		return errors.New("state inspection requires an RPC backend (set --rpc-url or enable rpc in the project configuration)")
	}

	// Configure our logger per the project configuration.
	logging.GlobalLogger.SetLevel(projectConfig.Logging.Level)
	if projectConfig.Logging.ConsoleEnabled {
		logging.GlobalLogger.EnableConsoleLogging()
	}

	backend, err := newStateBackend(cmd.Context(), &projectConfig.Executor.RPC)
	if err != nil {
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeExecutorError)
	}
	db := state.NewLayeredDB(backend)

	// Read and print each requested account.
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "\t")
	for _, arg := range args {
		if !common.IsHexAddress(arg) {
			return errors.Errorf("invalid address: %q", arg)
		}
		addr := common.HexToAddress(arg)
		account, err := db.Account(addr)
		if err != nil {
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeExecutorError)
		}
		err = encoder.Encode(struct {
			Address common.Address `json:"address"`
			Balance string         `json:"balance"`
			Nonce   uint64         `json:"nonce"`
			Code    hexutil.Bytes  `json:"code"`
		}{
			Address: addr,
			Balance: account.Balance.Dec(),
			Nonce:   account.Nonce,
			Code:    account.Code,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// newStateBackend constructs the remote state backend described by the RPC
// configuration.
func newStateBackend(ctx context.Context, rpcConfig *config.RPCConfig) (state.StateBackend, error) {
	workingDir := rpcConfig.CacheDirectory
	if workingDir == "" {
		workingDir, _ = os.Getwd()
	}
	backend, err := state.NewRPCBackend(ctx, rpcConfig.URL, rpcConfig.Height, rpcConfig.PoolSize, workingDir)
	if err != nil {
		return nil, errors.WithMessage(err, fmt.Sprintf("could not connect to RPC endpoint %s", rpcConfig.URL))
	}
	return backend, nil
}
