package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomd/sfcc-cli-tools/internal/config"
	"github.com/thomd/sfcc-cli-tools/internal/doctor"
	"github.com/thomd/sfcc-cli-tools/internal/errors"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the local environment can run a deployment",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	src, err := credSource()
	if err != nil {
		return err
	}
	cctx, err := config.LoadContext(toolPaths.ConfigDir)
	if err != nil {
		return err
	}

	report := doctor.Check(context.Background(), executor, fileSys, toolPaths, src, cctx.Realm)

	for _, c := range report.Checks {
		if c.OK {
			logSuccess("%s", c.Name)
		} else {
			logError("%s: %s", c.Name, c.Note)
		}
	}

	if report.Summary() != doctor.StatusReady {
		return errors.ConfigError("environment is not ready for deployment", nil)
	}
	fmt.Println()
	logSuccess("Ready to deploy")
	return nil
}
