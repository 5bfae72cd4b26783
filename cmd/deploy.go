package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomd/sfcc-cli-tools/internal/audit"
	"github.com/thomd/sfcc-cli-tools/internal/client"
	"github.com/thomd/sfcc-cli-tools/internal/config"
	"github.com/thomd/sfcc-cli-tools/internal/errors"
	"github.com/thomd/sfcc-cli-tools/internal/logging"
	"github.com/thomd/sfcc-cli-tools/internal/pipeline"
	"github.com/thomd/sfcc-cli-tools/internal/realm"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the reference storefront and demo data to the active sandbox",
	Long: `Runs the full deployment pipeline against the active sandbox:

  fetch code -> build assets -> package -> upload -> activate
  fetch data -> package data -> upload -> import -> reindex

The pipeline is fail-fast: any stage failure aborts the run and prints the
location of the run log for diagnosis. Nothing is rolled back.`,
	RunE: runDeploy,
}

var createDeployCmd = &cobra.Command{
	Use:   "create-deploy",
	Short: "Create a sandbox and deploy the storefront into it",
	RunE:  runCreateDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(createDeployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	src, err := credSource()
	if err != nil {
		return err
	}
	r, cctx, err := activeRealm(src)
	if err != nil {
		return err
	}
	if cctx.Sandbox == "" {
		return errors.MissingSelection("sandbox")
	}
	g, err := resolveGlobals(src, true)
	if err != nil {
		return err
	}

	if err := confirmOrAbort(fmt.Sprintf("Deploy storefront and demo data to %s?", cctx.Sandbox)); err != nil {
		return err
	}

	return deployTo(context.Background(), r, g, cctx.Sandbox)
}

func runCreateDeploy(cmd *cobra.Command, args []string) error {
	src, err := credSource()
	if err != nil {
		return err
	}
	r, _, err := activeRealm(src)
	if err != nil {
		return err
	}
	g, err := resolveGlobals(src, true)
	if err != nil {
		return err
	}

	if err := confirmOrAbort(fmt.Sprintf("Create a sandbox in realm %s and deploy the storefront?", r.Name)); err != nil {
		return err
	}

	ctx := context.Background()
	c := newClient()
	if err := authenticate(ctx, c, r, g); err != nil {
		return err
	}

	alias, err := createSandbox(ctx, c, r)
	if err != nil {
		return err
	}
	logSuccess("Sandbox %s created", alias)

	return deployTo(ctx, r, g, alias)
}

// deployTo wires the pipeline and runs it against one sandbox.
func deployTo(ctx context.Context, r *realm.Realm, g *globalCreds, alias string) error {
	cfg, err := config.LoadConfig(toolPaths.ConfigDir)
	if err != nil {
		return err
	}

	runLog, err := pipeline.NewRunLog(toolPaths.LogsDir, alias)
	if err != nil {
		return err
	}
	defer runLog.Close()

	fetcher := pipeline.NewGitFetcher(executor, fileSys, runLog, g.RepoToken, toolPaths.WorkDir)
	builder, err := pipeline.NewNPMBuilder(executor, fileSys, runLog, cfg)
	if err != nil {
		return err
	}
	packager := pipeline.NewZipPackager(executor, fileSys, runLog)

	orch := pipeline.NewOrchestrator(newClient(), fetcher, builder, packager, cfg, runLog)

	logInfo("Deploying to %s (realm %s)...", alias, r.Name)
	logging.Debug("pipeline starting", "alias", alias, "log", runLog.Path())

	auditLog := audit.NewLogger(toolPaths.ConfigDir)

	run, err := orch.Deploy(ctx, pipeline.Options{
		Realm:       r,
		Alias:       alias,
		APIUser:     g.APIUser,
		APIPassword: g.APIPassword,
	})
	if err != nil {
		_ = auditLog.Log(audit.Event{
			Type:    audit.EventError,
			Sandbox: alias,
			Realm:   r.Name,
			RunLog:  run.LogPath,
			Details: err.Error(),
		})
		failedIn := string(run.FailedStage)
		if failedIn == "" {
			failedIn = "authentication"
		}
		logError("Deployment failed in %s: %v", failedIn, err)
		logError("Full output: %s", run.LogPath)
		return err
	}

	_ = auditLog.Log(audit.Event{
		Type:    audit.EventDeploy,
		Sandbox: alias,
		Realm:   r.Name,
		RunLog:  run.LogPath,
	})

	logSuccess("Deployed %s to %s", pipeline.DeployableUnit, alias)
	if summary := run.Summary(); summary != "" {
		fmt.Print(summary)
	}
	fmt.Printf("  Log: %s\n", run.LogPath)

	printStorefrontURL(ctx, alias)
	return nil
}

// printStorefrontURL shows where the deployed storefront is reachable.
// Best-effort only; the deployment already succeeded.
func printStorefrontURL(ctx context.Context, alias string) {
	var c client.Client = newClient()
	details, err := c.GetSandbox(ctx, alias)
	if err != nil || details.ManagementURL == "" {
		return
	}
	fmt.Printf("  Storefront: %s\n", details.ManagementURL)
}
