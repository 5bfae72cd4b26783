// Package logging provides logging utilities for sfcc.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("resolving realm", "name", name)
//	logging.Warn("sandbox alias may belong to another realm", "alias", alias)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Deploying to %s...", alias)
//	logging.UserSuccess("Sandbox %s created", alias)
//	logging.UserWarning("Could not read management URL: %v", err)
//	logging.UserError("Deployment failed, see %s", logPath)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// External tool output (git, npm, sfcc-ci) never goes to the terminal; the
// pipeline appends it to a per-run log file instead.
package logging
