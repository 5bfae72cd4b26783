package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thomd/sfcc-cli-tools/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	assumeYes  bool
)

var rootCmd = &cobra.Command{
	Use:   "sfcc",
	Short: "Commerce sandbox management and storefront deployment CLI",
	Long: `sfcc manages ephemeral commerce sandboxes grouped into realms and
deploys the reference storefront with its demo data into a selected sandbox.

The deployment pipeline clones the storefront sources, builds the front-end
assets, packages and uploads a code version, imports the demo data and
triggers a search reindex. All external tool output goes to a per-run log
file; failures abort the run and print the log location.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
