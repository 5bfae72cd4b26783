package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thomd/sfcc-cli-tools/internal/client"
	"github.com/thomd/sfcc-cli-tools/internal/config"
	"github.com/thomd/sfcc-cli-tools/internal/credentials"
	"github.com/thomd/sfcc-cli-tools/internal/errors"
	"github.com/thomd/sfcc-cli-tools/internal/realm"
	"github.com/thomd/sfcc-cli-tools/internal/system"
)

// Injection points for tests. Commands never construct their collaborators
// inline so the whole surface runs against mocks.
var (
	toolPaths = config.DefaultPaths()

	executor system.CommandExecutor = system.DefaultExecutor()
	fileSys  system.FileSystem      = system.DefaultFS()

	newClient = func() client.Client {
		suffix := ""
		if cfg, err := config.LoadConfig(toolPaths.ConfigDir); err == nil {
			suffix = cfg.InstanceSuffix
		}
		return client.NewCLIClient(executor, suffix)
	}

	// confirm asks the operator a yes/no question. Replaced in tests.
	confirm = func(prompt string) bool {
		fmt.Printf("%s [y/N]: ", prompt)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		line = strings.ToLower(strings.TrimSpace(line))
		return line == "y" || line == "yes"
	}
)

// confirmOrAbort enforces the confirm-then-act rule for mutating commands.
func confirmOrAbort(prompt string) error {
	if assumeYes {
		return nil
	}
	if !confirm(prompt) {
		return errors.Aborted()
	}
	return nil
}

// credSource opens the credential source: the optional credentials file in
// the config dir merged over the process environment.
func credSource() (credentials.Source, error) {
	return credentials.NewEnvSource(filepath.Join(toolPaths.ConfigDir, "credentials"))
}

// activeRealm loads the persisted context and resolves its realm from the
// credential source. Both failures are pre-flight: nothing remote has
// happened yet.
func activeRealm(src credentials.Source) (*realm.Realm, *config.Context, error) {
	cctx, err := config.LoadContext(toolPaths.ConfigDir)
	if err != nil {
		return nil, nil, errors.ConfigError("failed to load context", err)
	}

	r, err := realm.Resolve(src, cctx.Realm)
	if err != nil {
		return nil, nil, err
	}
	return r, cctx, nil
}

// globalCreds resolves the operator credentials needed for authentication.
type globalCreds struct {
	APIUser     string
	APIPassword string
	RepoToken   string
}

func resolveGlobals(src credentials.Source, needRepoToken bool) (*globalCreds, error) {
	user, err := credentials.Resolve(src, credentials.KeyAPIUser)
	if err != nil {
		return nil, err
	}
	pass, err := credentials.Resolve(src, credentials.KeyAPIPassword)
	if err != nil {
		return nil, err
	}

	g := &globalCreds{APIUser: user, APIPassword: pass}
	if needRepoToken {
		token, err := credentials.Resolve(src, credentials.KeyRepoToken)
		if err != nil {
			return nil, err
		}
		g.RepoToken = token
	}
	return g, nil
}

// authenticate establishes a session for a group of remote operations.
func authenticate(ctx context.Context, c client.Client, r *realm.Realm, g *globalCreds) error {
	return c.Authenticate(ctx, r.ClientID, r.ClientSecret, g.APIUser, g.APIPassword)
}
