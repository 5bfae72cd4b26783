package client

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of Client for testing
type MockClient struct {
	mu sync.RWMutex

	// Sandboxes is returned by ListSandboxes
	Sandboxes []Sandbox

	// CreatedAlias is returned by CreateSandbox
	CreatedAlias string

	// Details is returned by GetSandbox
	Details *SandboxDetails

	// CodeVersions is returned by ListCodeVersions
	CodeVersions []CodeVersion

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// CallLog records all method calls for verification
	CallLog []MockCall
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []string
}

// NewMockClient creates a new mock client
func NewMockClient() *MockClient {
	return &MockClient{
		Errors:  make(map[string]error),
		CallLog: make([]MockCall, 0),
	}
}

func (m *MockClient) record(method string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
	return m.Errors[method]
}

// SetError sets an error to be returned for a specific operation
func (m *MockClient) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[method] = err
}

// CallsFor returns all recorded calls for a method
func (m *MockClient) CallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, c := range m.CallLog {
		if c.Method == method {
			calls = append(calls, c)
		}
	}
	return calls
}

func (m *MockClient) Authenticate(ctx context.Context, clientID, clientSecret, user, password string) error {
	return m.record("Authenticate", clientID, user)
}

func (m *MockClient) ListSandboxes(ctx context.Context) ([]Sandbox, error) {
	if err := m.record("ListSandboxes"); err != nil {
		return nil, err
	}
	return m.Sandboxes, nil
}

func (m *MockClient) CreateSandbox(ctx context.Context, realmID string) (string, error) {
	if err := m.record("CreateSandbox", realmID); err != nil {
		return "", err
	}
	return m.CreatedAlias, nil
}

func (m *MockClient) GetSandbox(ctx context.Context, alias string) (*SandboxDetails, error) {
	if err := m.record("GetSandbox", alias); err != nil {
		return nil, err
	}
	if m.Details == nil {
		return &SandboxDetails{}, nil
	}
	return m.Details, nil
}

func (m *MockClient) DeployCode(ctx context.Context, archive, alias string) error {
	return m.record("DeployCode", archive, alias)
}

func (m *MockClient) ListCodeVersions(ctx context.Context, alias string) ([]CodeVersion, error) {
	if err := m.record("ListCodeVersions", alias); err != nil {
		return nil, err
	}
	return m.CodeVersions, nil
}

func (m *MockClient) ActivateCode(ctx context.Context, versionID, alias string) error {
	return m.record("ActivateCode", versionID, alias)
}

func (m *MockClient) UploadData(ctx context.Context, archive, alias string) error {
	return m.record("UploadData", archive, alias)
}

func (m *MockClient) ImportData(ctx context.Context, archive, alias string) error {
	return m.record("ImportData", archive, alias)
}

func (m *MockClient) RunJob(ctx context.Context, jobName, alias string) error {
	return m.record("RunJob", jobName, alias)
}
