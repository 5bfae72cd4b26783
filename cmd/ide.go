package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomd/sfcc-cli-tools/internal/config"
	"github.com/thomd/sfcc-cli-tools/internal/credentials"
	"github.com/thomd/sfcc-cli-tools/internal/errors"
	"github.com/thomd/sfcc-cli-tools/internal/pipeline"
)

var ideCmd = &cobra.Command{
	Use:   "ide <directory>",
	Short: "Set up a local storefront workspace for development",
	Long: `Clones the reference storefront sources into the given directory so the
code deployed by "sfcc deploy" can be inspected and modified locally.`,
	Args: cobra.ExactArgs(1),
	RunE: runIDE,
}

func init() {
	rootCmd.AddCommand(ideCmd)
}

func runIDE(cmd *cobra.Command, args []string) error {
	dest := args[0]

	src, err := credSource()
	if err != nil {
		return err
	}
	token, err := credentials.Resolve(src, credentials.KeyRepoToken)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(toolPaths.ConfigDir)
	if err != nil {
		return err
	}

	if fileSys.Exists(dest) {
		return errors.ConfigError(fmt.Sprintf("directory %s already exists", dest), nil)
	}

	runLog, err := pipeline.NewRunLog(toolPaths.LogsDir, "ide")
	if err != nil {
		return err
	}
	defer runLog.Close()

	fetcher := pipeline.NewGitFetcher(executor, fileSys, runLog, token, toolPaths.WorkDir)

	logInfo("Cloning %s into %s...", cfg.Storefront.URL, dest)
	if err := fetcher.FetchInto(context.Background(), cfg.Storefront.URL, dest); err != nil {
		return err
	}

	logSuccess("Workspace ready at %s", dest)
	logInfo("Next: cd %s && npm install", dest)
	return nil
}
