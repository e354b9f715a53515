package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crytic/evmexec/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DefaultProjectConfigFilename describes the default config filename written by init.
const DefaultProjectConfigFilename = "evmexec.json"

// initCmd represents the command provider for init
var initCmd = &cobra.Command{
	Use:               "init",
	Short:             "Initializes a project configuration",
	Long:              `Initializes a project configuration`,
	ValidArgsFunction: cmdValidInitArgs,
	RunE:              cmdRunInit,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Output path for the config file
	initCmd.Flags().String("out", "", "output path for the new project configuration file")

	rootCmd.AddCommand(initCmd)
}

// cmdValidInitArgs will return which flags are valid for dynamic completion for the
// init command: any flag not yet used on the current command line.
func cmdValidInitArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			// Include the "--" prefix to indicate that it is a flag and not a
			// positional argument.
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdRunInit executes the init CLI command, writing a default project configuration to
// disk.
func cmdRunInit(cmd *cobra.Command, args []string) error {
	// Determine our output path: the flag value, or the default filename in the current
	// working directory.
	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if outputPath == "" {
		workingDir, err := os.Getwd()
		if err != nil {
			return err
		}
		outputPath = filepath.Join(workingDir, DefaultProjectConfigFilename)
	}

	// Refuse to overwrite an existing configuration.
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("project configuration already exists: %s", outputPath)
	}

	projectConfig := config.DefaultProjectConfig()
	if err = projectConfig.WriteToFile(outputPath); err != nil {
		return err
	}

	fmt.Printf("Project configuration successfully written to %s\n", outputPath)
	return nil
}
