package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomd/sfcc-cli-tools/internal/config"
	"github.com/thomd/sfcc-cli-tools/internal/credentials"
	"github.com/thomd/sfcc-cli-tools/internal/logging"
	"github.com/thomd/sfcc-cli-tools/internal/realm"
)

var realmCmd = &cobra.Command{
	Use:   "realm",
	Short: "Inspect and select realms",
}

var realmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List realms found in the credential source",
	RunE:  runRealmList,
}

var realmSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Select the active realm",
	Args:  cobra.ExactArgs(1),
	RunE:  runRealmSet,
}

func init() {
	realmCmd.AddCommand(realmListCmd)
	realmCmd.AddCommand(realmSetCmd)
	rootCmd.AddCommand(realmCmd)
}

func runRealmList(cmd *cobra.Command, args []string) error {
	src, err := credSource()
	if err != nil {
		return err
	}
	cctx, err := config.LoadContext(toolPaths.ConfigDir)
	if err != nil {
		return err
	}

	realms := credentials.ListRealms(src, cctx.Realm)
	if len(realms) == 0 {
		logInfo("No realms found in the credential source")
		return nil
	}

	for _, r := range realms {
		marker := " "
		if r.Active {
			marker = "*"
		}
		note := ""
		if !r.Complete {
			note = " (incomplete credentials)"
		}
		fmt.Printf("%s %s%s\n", marker, r.Name, note)
	}
	return nil
}

func runRealmSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	src, err := credSource()
	if err != nil {
		return err
	}

	// A realm is only usable when all three remote-facing credentials
	// resolve; fail before persisting an unusable selection.
	if _, err := realm.Resolve(src, name); err != nil {
		return err
	}

	if err := config.SetRealm(toolPaths.ConfigDir, name); err != nil {
		return err
	}

	logging.Debug("realm selected", "name", name)
	logSuccess("Active realm is now %s", name)
	return nil
}
