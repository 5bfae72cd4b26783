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
	"github.com/thomd/sfcc-cli-tools/internal/realm"
	"github.com/thomd/sfcc-cli-tools/internal/tui"
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Inspect, select and create sandboxes",
}

var sandboxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sandboxes visible in the active realm",
	RunE:  runSandboxList,
}

var sandboxSetCmd = &cobra.Command{
	Use:   "set <alias|index>",
	Short: "Select the active sandbox",
	Long: `Selects the active sandbox. A numeric index is resolved against the
active realm: "sfcc sandbox set 3" in a realm with id zzzz selects zzzz-003.`,
	Args: cobra.ExactArgs(1),
	RunE: runSandboxSet,
}

var sandboxPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactive sandbox picker",
	RunE:  runSandboxPick,
}

var sandboxCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new sandbox in the active realm",
	RunE:  runSandboxCreate,
}

var sandboxHistoryCmd = &cobra.Command{
	Use:   "history [alias]",
	Short: "Show recorded lifecycle events for a sandbox",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSandboxHistory,
}

func init() {
	sandboxCmd.AddCommand(sandboxListCmd)
	sandboxCmd.AddCommand(sandboxSetCmd)
	sandboxCmd.AddCommand(sandboxPickCmd)
	sandboxCmd.AddCommand(sandboxCreateCmd)
	sandboxCmd.AddCommand(sandboxHistoryCmd)
	rootCmd.AddCommand(sandboxCmd)
}

func runSandboxList(cmd *cobra.Command, args []string) error {
	src, err := credSource()
	if err != nil {
		return err
	}
	r, cctx, err := activeRealm(src)
	if err != nil {
		return err
	}
	g, err := resolveGlobals(src, false)
	if err != nil {
		return err
	}

	ctx := context.Background()
	c := newClient()
	if err := authenticate(ctx, c, r, g); err != nil {
		return err
	}

	sandboxes, err := c.ListSandboxes(ctx)
	if err != nil {
		return err
	}

	fmt.Print(tui.ListSandboxes(sandboxes, cctx.Sandbox))
	return nil
}

func runSandboxSet(cmd *cobra.Command, args []string) error {
	src, err := credSource()
	if err != nil {
		return err
	}
	r, _, err := activeRealm(src)
	if err != nil {
		return err
	}

	alias := realm.SandboxAlias(r.ID, args[0])
	if err := selectSandbox(alias, r.Name); err != nil {
		return err
	}

	logging.Debug("sandbox selected", "alias", alias)
	logSuccess("Active sandbox is now %s", alias)
	return nil
}

// selectSandbox persists the selection and records it in the audit log.
func selectSandbox(alias, realmName string) error {
	if err := config.SetSandbox(toolPaths.ConfigDir, alias); err != nil {
		return err
	}
	auditLog := audit.NewLogger(toolPaths.ConfigDir)
	_ = auditLog.Log(audit.Event{Type: audit.EventSelect, Sandbox: alias, Realm: realmName})
	return nil
}

func runSandboxHistory(cmd *cobra.Command, args []string) error {
	alias := ""
	if len(args) == 1 {
		alias = args[0]
	} else {
		cctx, err := config.LoadContext(toolPaths.ConfigDir)
		if err != nil {
			return err
		}
		alias = cctx.Sandbox
	}
	if alias == "" {
		return errors.MissingSelection("sandbox")
	}

	events, err := audit.NewLogger(toolPaths.ConfigDir).Events(alias)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		logInfo("No recorded events for %s", alias)
		return nil
	}

	for _, e := range events {
		line := fmt.Sprintf("%s  %-8s %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Sandbox)
		if e.Details != "" {
			line += "  " + e.Details
		}
		fmt.Println(line)
	}
	return nil
}

func runSandboxPick(cmd *cobra.Command, args []string) error {
	src, err := credSource()
	if err != nil {
		return err
	}
	r, cctx, err := activeRealm(src)
	if err != nil {
		return err
	}
	g, err := resolveGlobals(src, false)
	if err != nil {
		return err
	}

	ctx := context.Background()
	c := newClient()
	if err := authenticate(ctx, c, r, g); err != nil {
		return err
	}

	sandboxes, err := c.ListSandboxes(ctx)
	if err != nil {
		return err
	}
	if len(sandboxes) == 0 {
		logInfo("No sandboxes found. Create one with: sfcc sandbox create")
		return nil
	}

	result, err := tui.RunPicker(sandboxes, cctx.Sandbox)
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}

	if result.Action == tui.ActionSelect && result.Sandbox != nil {
		alias := result.Sandbox.Alias()
		if err := selectSandbox(alias, r.Name); err != nil {
			return err
		}
		logSuccess("Active sandbox is now %s", alias)
	}
	return nil
}

func runSandboxCreate(cmd *cobra.Command, args []string) error {
	src, err := credSource()
	if err != nil {
		return err
	}
	r, _, err := activeRealm(src)
	if err != nil {
		return err
	}
	g, err := resolveGlobals(src, false)
	if err != nil {
		return err
	}

	if err := confirmOrAbort(fmt.Sprintf("Create a new sandbox in realm %s?", r.Name)); err != nil {
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

	// Best-effort informational output; creation already succeeded.
	if details, err := c.GetSandbox(ctx, alias); err == nil && details.ManagementURL != "" {
		fmt.Printf("  Management URL: %s\n", details.ManagementURL)
	} else if err != nil {
		logWarning("Could not read management URL: %v", err)
	}

	return nil
}

// createSandbox provisions a sandbox and makes it the active selection.
func createSandbox(ctx context.Context, c client.Client, r *realm.Realm) (string, error) {
	logInfo("Creating sandbox in realm %s...", r.Name)

	alias, err := c.CreateSandbox(ctx, r.ID)
	if err != nil {
		return "", err
	}

	if err := config.SetSandbox(toolPaths.ConfigDir, alias); err != nil {
		return "", err
	}

	auditLog := audit.NewLogger(toolPaths.ConfigDir)
	_ = auditLog.Log(audit.Event{Type: audit.EventCreate, Sandbox: alias, Realm: r.Name})

	return alias, nil
}
