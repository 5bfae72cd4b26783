package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomd/sfcc-cli-tools/internal/errors"
	"github.com/thomd/sfcc-cli-tools/internal/logging"
	"github.com/thomd/sfcc-cli-tools/internal/system"
)

// DefaultInstanceSuffix is the domain suffix for on-demand sandbox hosts.
const DefaultInstanceSuffix = "sandbox.us01.dx.commercecloud.salesforce.com"

// CLIClient implements Client by driving the sfcc-ci command line tool
// through a CommandExecutor.
type CLIClient struct {
	exec           system.CommandExecutor
	instanceSuffix string
}

// NewCLIClient returns a CLIClient using the given executor. An empty
// instanceSuffix falls back to DefaultInstanceSuffix.
func NewCLIClient(exec system.CommandExecutor, instanceSuffix string) *CLIClient {
	if instanceSuffix == "" {
		instanceSuffix = DefaultInstanceSuffix
	}
	return &CLIClient{exec: exec, instanceSuffix: instanceSuffix}
}

// instanceHost maps a sandbox alias to its externally reachable hostname.
func (c *CLIClient) instanceHost(alias string) string {
	return alias + "." + c.instanceSuffix
}

func (c *CLIClient) run(ctx context.Context, op string, args ...string) ([]byte, error) {
	logging.Debug("sfcc-ci", "op", op, "args", strings.Join(args, " "))
	out, err := c.exec.Execute(ctx, "", "sfcc-ci", args...)
	if err != nil {
		return out, errors.RemoteOperationError(op, fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err))
	}
	return out, nil
}

func (c *CLIClient) Authenticate(ctx context.Context, clientID, clientSecret, user, password string) error {
	out, err := c.exec.Execute(ctx, "", "sfcc-ci", "client:auth", clientID, clientSecret, user, password)
	if err != nil {
		return errors.AuthError(fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err))
	}
	return nil
}

func (c *CLIClient) ListSandboxes(ctx context.Context) ([]Sandbox, error) {
	out, err := c.run(ctx, "sandbox:list", "sandbox:list", "--json")
	if err != nil {
		return nil, err
	}

	var sandboxes []Sandbox
	if err := json.Unmarshal(out, &sandboxes); err != nil {
		return nil, errors.RemoteOperationError("sandbox:list", fmt.Errorf("unexpected output: %w", err))
	}
	return sandboxes, nil
}

func (c *CLIClient) CreateSandbox(ctx context.Context, realmID string) (string, error) {
	out, err := c.run(ctx, "sandbox:create", "sandbox:create", "--realm", realmID, "--sync", "--json")
	if err != nil {
		return "", err
	}

	var created Sandbox
	if err := json.Unmarshal(out, &created); err != nil {
		return "", errors.RemoteOperationError("sandbox:create", fmt.Errorf("unexpected output: %w", err))
	}
	if created.Realm == "" || created.Instance == "" {
		return "", errors.RemoteOperationError("sandbox:create", fmt.Errorf("response missing realm or instance"))
	}
	return created.Alias(), nil
}

func (c *CLIClient) GetSandbox(ctx context.Context, alias string) (*SandboxDetails, error) {
	out, err := c.run(ctx, "sandbox:get", "sandbox:get", "--sandbox", alias, "--json")
	if err != nil {
		return nil, err
	}

	var details SandboxDetails
	if err := json.Unmarshal(out, &details); err != nil {
		return nil, errors.RemoteOperationError("sandbox:get", fmt.Errorf("unexpected output: %w", err))
	}
	if details.ManagementURL == "" {
		details.ManagementURL = "https://" + c.instanceHost(alias) + "/on/demandware.store/Sites-Site"
	}
	return &details, nil
}

func (c *CLIClient) DeployCode(ctx context.Context, archive, alias string) error {
	out, err := c.exec.Execute(ctx, "", "sfcc-ci", "code:deploy", archive, "--instance", c.instanceHost(alias))
	if err != nil {
		return errors.DeployError(alias, fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err))
	}
	return nil
}

func (c *CLIClient) ListCodeVersions(ctx context.Context, alias string) ([]CodeVersion, error) {
	out, err := c.run(ctx, "code:list", "code:list", "--instance", c.instanceHost(alias), "--json")
	if err != nil {
		return nil, err
	}

	var versions []CodeVersion
	if err := json.Unmarshal(out, &versions); err != nil {
		return nil, errors.RemoteOperationError("code:list", fmt.Errorf("unexpected output: %w", err))
	}
	return versions, nil
}

func (c *CLIClient) ActivateCode(ctx context.Context, versionID, alias string) error {
	_, err := c.run(ctx, "code:activate", "code:activate", versionID, "--instance", c.instanceHost(alias))
	return err
}

func (c *CLIClient) UploadData(ctx context.Context, archive, alias string) error {
	_, err := c.run(ctx, "instance:upload", "instance:upload", archive, "--instance", c.instanceHost(alias))
	return err
}

func (c *CLIClient) ImportData(ctx context.Context, archive, alias string) error {
	_, err := c.run(ctx, "instance:import", "instance:import", archive, "--instance", c.instanceHost(alias), "--sync")
	return err
}

func (c *CLIClient) RunJob(ctx context.Context, jobName, alias string) error {
	_, err := c.run(ctx, "job:run", "job:run", jobName, "--instance", c.instanceHost(alias), "--sync")
	return err
}
