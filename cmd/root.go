package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evmexec",
	Short: "A dual-mode call executor for EVM-style interpreters",
	Long: "evmexec drives contract calls, deployments and test-assertion evaluation " +
		"against a layered state store, controlling whether state mutations are " +
		"committed or discarded",
}

// Execute runs the root CLI command, which contains all underlying command logic and
// will handle parsing/invocation.
func Execute() error {
	return rootCmd.Execute()
}
