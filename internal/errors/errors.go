// Package errors defines the typed errors and exit codes used across sfcc.
//
// Every failure in the deployment pipeline is fatal to the current run.
// Errors carry an exit code so main can translate them into a process exit
// without inspecting error text.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for sfcc
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitAuthError    = 2
	ExitFetchError   = 3
	ExitBuildError   = 4
	ExitPackageError = 5
	ExitDeployError  = 6
	ExitRemoteError  = 7
)

// SfccError is the base error type for sfcc
type SfccError struct {
	Code    int
	Message string
	Cause   error
}

func (e *SfccError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SfccError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *SfccError) ExitCode() int {
	return e.Code
}

// New creates a new SfccError
func New(code int, message string) *SfccError {
	return &SfccError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an SfccError
func Wrap(code int, message string, cause error) *SfccError {
	return &SfccError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// MissingCredential returns a pre-flight error for an unset credential key.
// Partial credential sets are never acceptable, so callers must abort before
// any remote call is attempted.
func MissingCredential(key string) *SfccError {
	return New(ExitGeneralError, fmt.Sprintf("missing credential: %s", key))
}

// MissingSelection returns a pre-flight error when no active realm or sandbox
// is selected but the operation requires one.
func MissingSelection(what string) *SfccError {
	return New(ExitGeneralError, fmt.Sprintf("no active %s selected", what))
}

// AuthError returns an error for rejected remote authentication
func AuthError(cause error) *SfccError {
	return Wrap(ExitAuthError, "authentication failed", cause)
}

// FetchError returns an error for a failed source clone
func FetchError(repo string, cause error) *SfccError {
	return Wrap(ExitFetchError, fmt.Sprintf("fetching %s failed", repo), cause)
}

// BuildError returns an error for a build step that exited non-zero
func BuildError(step string, cause error) *SfccError {
	return Wrap(ExitBuildError, fmt.Sprintf("build step %s failed", step), cause)
}

// PackageError returns an error for a missing or broken build artifact
func PackageError(message string, cause error) *SfccError {
	return Wrap(ExitPackageError, message, cause)
}

// DeployError returns an error for a rejected code deployment
func DeployError(alias string, cause error) *SfccError {
	return Wrap(ExitDeployError, fmt.Sprintf("deploying to %s failed", alias), cause)
}

// RemoteOperationError returns an error for any other rejected remote call
func RemoteOperationError(op string, cause error) *SfccError {
	return Wrap(ExitRemoteError, fmt.Sprintf("remote %s failed", op), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *SfccError {
	return Wrap(ExitGeneralError, message, cause)
}

// Aborted returns an error for a declined confirmation
func Aborted() *SfccError {
	return New(ExitGeneralError, "aborted")
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var sfccErr *SfccError
	if errors.As(err, &sfccErr) {
		return sfccErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
