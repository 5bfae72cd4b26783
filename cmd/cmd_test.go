package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thomd/sfcc-cli-tools/internal/client"
	"github.com/thomd/sfcc-cli-tools/internal/config"
	"github.com/thomd/sfcc-cli-tools/internal/errors"
	"github.com/thomd/sfcc-cli-tools/internal/system"
)

// testEnv holds test environment state
type testEnv struct {
	tmpDir string
	paths  *config.Paths
	client *client.MockClient
	exec   *system.MockExecutor
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir := t.TempDir()

	env := &testEnv{
		tmpDir: tmpDir,
		paths: &config.Paths{
			ConfigDir: filepath.Join(tmpDir, "config"),
			LogsDir:   filepath.Join(tmpDir, "logs"),
			WorkDir:   filepath.Join(tmpDir, "work"),
		},
		client: client.NewMockClient(),
		exec:   system.NewMockExecutor(),
	}

	for _, dir := range []string{env.paths.ConfigDir, env.paths.LogsDir, env.paths.WorkDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	env.writeCredentials(t, map[string]string{
		"SFCC_REALM_ARVATO_ID":            "zzzz",
		"SFCC_REALM_ARVATO_CLIENT_ID":     "client-id",
		"SFCC_REALM_ARVATO_CLIENT_SECRET": "client-secret",
		"SFCC_API_USER":                   "admin@example.com",
		"SFCC_API_PASSWORD":               "hunter2",
		"SFCC_REPO_TOKEN":                 "ghp_testtoken",
	})

	origPaths := toolPaths
	origNewClient := newClient
	origConfirm := confirm
	origExecutor := executor

	toolPaths = env.paths
	executor = env.exec
	newClient = func() client.Client { return env.client }
	confirm = func(prompt string) bool { return true }

	t.Cleanup(func() {
		toolPaths = origPaths
		newClient = origNewClient
		confirm = origConfirm
		executor = origExecutor
	})

	return env
}

func (e *testEnv) writeCredentials(t *testing.T, vars map[string]string) {
	t.Helper()

	var b strings.Builder
	for k, v := range vars {
		b.WriteString(k + "=" + v + "\n")
	}
	path := filepath.Join(e.paths.ConfigDir, "credentials")
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		t.Fatalf("Failed to write credentials: %v", err)
	}
}

func (e *testEnv) loadContext(t *testing.T) *config.Context {
	t.Helper()

	cctx, err := config.LoadContext(e.paths.ConfigDir)
	if err != nil {
		t.Fatalf("Failed to load context: %v", err)
	}
	return cctx
}

func executeCommand(args ...string) (string, string, error) {
	// Reset flag values before each test
	verbose = false
	jsonOutput = false
	assumeYes = false

	cmd := rootCmd
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	// Reset args for next test
	cmd.SetArgs(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)

	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	if !strings.Contains(stdout, "sfcc") {
		t.Error("Help output should contain 'sfcc'")
	}

	for _, sub := range []string{"realm", "sandbox", "deploy", "ide"} {
		if !strings.Contains(stdout, sub) {
			t.Errorf("Help output should mention %q", sub)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("Help failed: %v", err)
	}

	for _, flag := range []string{"--verbose", "--json", "--yes"} {
		if !strings.Contains(stdout, flag) {
			t.Errorf("Should have %s flag", flag)
		}
	}
}

func TestRealmSet_PersistsSelection(t *testing.T) {
	env := setupTestEnv(t)
	env.writeCredentials(t, map[string]string{
		"SFCC_REALM_ARVATO_ID":             "zzzz",
		"SFCC_REALM_ARVATO_CLIENT_ID":      "cid",
		"SFCC_REALM_ARVATO_CLIENT_SECRET":  "sec",
		"SFCC_REALM_BERTELS_ID":            "abcd",
		"SFCC_REALM_BERTELS_CLIENT_ID":     "cid2",
		"SFCC_REALM_BERTELS_CLIENT_SECRET": "sec2",
	})

	_, _, err := executeCommand("realm", "set", "bertels")
	if err != nil {
		t.Fatalf("realm set failed: %v", err)
	}

	cctx := env.loadContext(t)
	if cctx.Realm != "bertels" {
		t.Errorf("Realm = %q, want bertels", cctx.Realm)
	}
}

func TestRealmSet_IncompleteCredentialsFails(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := executeCommand("realm", "set", "nosuch")
	if err == nil {
		t.Fatal("realm set should fail for a realm without credentials")
	}
	if got := errors.GetExitCode(err); got != errors.ExitGeneralError {
		t.Errorf("Exit code = %d, want %d", got, errors.ExitGeneralError)
	}

	// The unusable selection must not be persisted.
	cctx := env.loadContext(t)
	if cctx.Realm == "nosuch" {
		t.Error("Failed realm selection was persisted")
	}
}

func TestSandboxSet_NumericIndex(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := executeCommand("sandbox", "set", "3")
	if err != nil {
		t.Fatalf("sandbox set failed: %v", err)
	}

	cctx := env.loadContext(t)
	if cctx.Sandbox != "zzzz-003" {
		t.Errorf("Sandbox = %q, want zzzz-003", cctx.Sandbox)
	}
}

func TestSandboxSet_ExplicitAlias(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := executeCommand("sandbox", "set", "zzzz-042")
	if err != nil {
		t.Fatalf("sandbox set failed: %v", err)
	}

	if cctx := env.loadContext(t); cctx.Sandbox != "zzzz-042" {
		t.Errorf("Sandbox = %q, want zzzz-042", cctx.Sandbox)
	}
}

func TestSandboxCreate_CreatesAndSelects(t *testing.T) {
	env := setupTestEnv(t)
	env.client.CreatedAlias = "zzzz-007"

	_, _, err := executeCommand("sandbox", "create", "--yes")
	if err != nil {
		t.Fatalf("sandbox create failed: %v", err)
	}

	calls := env.client.CallsFor("CreateSandbox")
	if len(calls) != 1 {
		t.Fatalf("CreateSandbox calls = %d, want 1", len(calls))
	}
	if calls[0].Args[0] != "zzzz" {
		t.Errorf("CreateSandbox realm id = %q, want zzzz", calls[0].Args[0])
	}

	if cctx := env.loadContext(t); cctx.Sandbox != "zzzz-007" {
		t.Errorf("Sandbox = %q, want zzzz-007", cctx.Sandbox)
	}
}

func TestSandboxCreate_DeclinedConfirmation(t *testing.T) {
	env := setupTestEnv(t)
	confirm = func(prompt string) bool { return false }

	_, _, err := executeCommand("sandbox", "create")
	if err == nil {
		t.Fatal("Declined confirmation should abort")
	}
	if got := errors.GetExitCode(err); got != errors.ExitGeneralError {
		t.Errorf("Exit code = %d, want %d", got, errors.ExitGeneralError)
	}

	if len(env.client.CallLog) != 0 {
		t.Errorf("No remote calls expected after decline, got %v", env.client.CallLog)
	}
}

func TestDeploy_NoActiveSandbox(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := executeCommand("deploy", "--yes")
	if err == nil {
		t.Fatal("deploy without an active sandbox should fail")
	}
	if !strings.Contains(err.Error(), "no active sandbox") {
		t.Errorf("Error = %q, want a missing sandbox selection error", err)
	}

	// Pre-flight failure: nothing remote, nothing cloned.
	if len(env.client.CallLog) != 0 {
		t.Errorf("No remote calls expected, got %v", env.client.CallLog)
	}
	if len(env.exec.Commands) != 0 {
		t.Errorf("No commands expected, got %v", env.exec.CommandLines())
	}
}

func TestDeploy_MissingRepoTokenFails(t *testing.T) {
	env := setupTestEnv(t)
	env.writeCredentials(t, map[string]string{
		"SFCC_REALM_ARVATO_ID":            "zzzz",
		"SFCC_REALM_ARVATO_CLIENT_ID":     "cid",
		"SFCC_REALM_ARVATO_CLIENT_SECRET": "sec",
		"SFCC_API_USER":                   "admin@example.com",
		"SFCC_API_PASSWORD":               "hunter2",
	})
	if err := config.SetSandbox(env.paths.ConfigDir, "zzzz-001"); err != nil {
		t.Fatal(err)
	}

	_, _, err := executeCommand("deploy", "--yes")
	if err == nil {
		t.Fatal("deploy without a repo token should fail")
	}
	if !strings.Contains(err.Error(), "SFCC_REPO_TOKEN") {
		t.Errorf("Error = %q, want missing SFCC_REPO_TOKEN", err)
	}

	if len(env.client.CallLog) != 0 {
		t.Errorf("No remote calls expected, got %v", env.client.CallLog)
	}
}

func TestDeploy_DeclinedConfirmation(t *testing.T) {
	env := setupTestEnv(t)
	if err := config.SetSandbox(env.paths.ConfigDir, "zzzz-001"); err != nil {
		t.Fatal(err)
	}
	confirm = func(prompt string) bool { return false }

	_, _, err := executeCommand("deploy")
	if err == nil {
		t.Fatal("Declined confirmation should abort")
	}
	if got := errors.GetExitCode(err); got != errors.ExitGeneralError {
		t.Errorf("Exit code = %d, want %d", got, errors.ExitGeneralError)
	}

	if len(env.client.CallLog) != 0 {
		t.Errorf("No remote calls expected after decline, got %v", env.client.CallLog)
	}
	if len(env.exec.Commands) != 0 {
		t.Errorf("No commands expected after decline, got %v", env.exec.CommandLines())
	}
}

func TestRealmList_RunsWithoutError(t *testing.T) {
	setupTestEnv(t)

	if _, _, err := executeCommand("realm", "list"); err != nil {
		t.Fatalf("realm list failed: %v", err)
	}
}

func TestSandboxList_AuthenticatesFirst(t *testing.T) {
	env := setupTestEnv(t)
	env.client.Sandboxes = []client.Sandbox{
		{Realm: "zzzz", Instance: "001", State: "started"},
	}

	_, _, err := executeCommand("sandbox", "list")
	if err != nil {
		t.Fatalf("sandbox list failed: %v", err)
	}

	if len(env.client.CallsFor("Authenticate")) != 1 {
		t.Error("sandbox list should authenticate before listing")
	}
	if len(env.client.CallsFor("ListSandboxes")) != 1 {
		t.Error("sandbox list should call ListSandboxes once")
	}
}

func TestIDE_ExistingDirectoryFails(t *testing.T) {
	env := setupTestEnv(t)
	dest := filepath.Join(env.tmpDir, "workspace")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatal(err)
	}

	_, _, err := executeCommand("ide", dest)
	if err == nil {
		t.Fatal("ide into an existing directory should fail")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Error = %q, want already-exists", err)
	}
}

func TestIDE_ClonesStorefront(t *testing.T) {
	env := setupTestEnv(t)
	dest := filepath.Join(env.tmpDir, "workspace")

	_, _, err := executeCommand("ide", dest)
	if err != nil {
		t.Fatalf("ide failed: %v", err)
	}

	if len(env.exec.Commands) != 1 {
		t.Fatalf("Commands = %d, want 1 clone", len(env.exec.Commands))
	}
	line := env.exec.CommandLines()[0]
	if !strings.Contains(line, "git clone") || !strings.Contains(line, dest) {
		t.Errorf("Expected a git clone into %s, got %q", dest, line)
	}
}
