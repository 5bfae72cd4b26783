// Package client abstracts the remote sandbox-management API.
//
// The production implementation shells out to the sfcc-ci tool; the pipeline
// and the commands only depend on the Client interface so tests can run
// against a mock without network access.
package client

import "context"

// Sandbox is one entry of the remote sandbox list.
type Sandbox struct {
	Realm     string `json:"realm"`
	Instance  string `json:"instance"`
	CreatedBy string `json:"createdBy"`
	State     string `json:"state,omitempty"`
}

// Alias returns the realm-scoped alias for the sandbox.
func (s Sandbox) Alias() string {
	return s.Realm + "-" + s.Instance
}

// CodeVersion is one code version on a sandbox.
type CodeVersion struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

// SandboxDetails holds read-only information about one sandbox.
type SandboxDetails struct {
	ManagementURL string `json:"managementUrl"`
}

// Client is the remote sandbox-management API.
//
// ImportData and RunJob block until the remote side reports completion.
type Client interface {
	// Authenticate establishes a session using realm client credentials
	// and the global operator credentials.
	Authenticate(ctx context.Context, clientID, clientSecret, user, password string) error

	// ListSandboxes returns all sandboxes visible to the session.
	ListSandboxes(ctx context.Context) ([]Sandbox, error)

	// CreateSandbox provisions a new sandbox in the realm and returns its alias.
	CreateSandbox(ctx context.Context, realmID string) (string, error)

	// GetSandbox returns details for one sandbox.
	GetSandbox(ctx context.Context, alias string) (*SandboxDetails, error)

	// DeployCode uploads a code archive to the sandbox.
	DeployCode(ctx context.Context, archive, alias string) error

	// ListCodeVersions returns the code versions present on the sandbox.
	ListCodeVersions(ctx context.Context, alias string) ([]CodeVersion, error)

	// ActivateCode activates the given code version on the sandbox.
	ActivateCode(ctx context.Context, versionID, alias string) error

	// UploadData uploads a site-import archive to the sandbox.
	UploadData(ctx context.Context, archive, alias string) error

	// ImportData runs a site import of a previously uploaded archive and
	// waits for it to finish.
	ImportData(ctx context.Context, archive, alias string) error

	// RunJob triggers a named job on the sandbox and waits for it to finish.
	RunJob(ctx context.Context, jobName, alias string) error
}
