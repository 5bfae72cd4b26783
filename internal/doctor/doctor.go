// Package doctor verifies that the local environment can run a deployment.
//
// A deployment shells out to several external tools and needs a complete
// credential set. Checking all of that up front turns a mid-pipeline failure
// into a readable preflight report.
package doctor

import (
	"context"
	"fmt"

	"github.com/thomd/sfcc-cli-tools/internal/config"
	"github.com/thomd/sfcc-cli-tools/internal/credentials"
	"github.com/thomd/sfcc-cli-tools/internal/realm"
	"github.com/thomd/sfcc-cli-tools/internal/system"
)

// Status summarizes a full check run.
type Status string

const (
	StatusReady    Status = "ready"
	StatusNotReady Status = "not-ready"
)

// RequiredTools are the external commands the deployment pipeline invokes.
var RequiredTools = []string{"git", "node", "npm", "zip", "sfcc-ci"}

// CheckResult holds the outcome of one named check.
type CheckResult struct {
	Name string
	OK   bool
	Note string
}

// Report is the full preflight report.
type Report struct {
	Checks []CheckResult
}

// Summary returns StatusReady only when every check passed.
func (r *Report) Summary() Status {
	for _, c := range r.Checks {
		if !c.OK {
			return StatusNotReady
		}
	}
	return StatusReady
}

// CheckTool verifies that an external command is installed and runnable.
func CheckTool(ctx context.Context, exec system.CommandExecutor, name string) CheckResult {
	if _, err := exec.Execute(ctx, "", name, "--version"); err != nil {
		return CheckResult{Name: name, OK: false, Note: fmt.Sprintf("not found: %v", err)}
	}
	return CheckResult{Name: name, OK: true}
}

// CheckDirs verifies that the tool's state directories exist or can be created.
func CheckDirs(fs system.FileSystem, paths *config.Paths) CheckResult {
	for _, dir := range []string{paths.ConfigDir, paths.LogsDir, paths.WorkDir} {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return CheckResult{Name: "state directories", OK: false, Note: err.Error()}
		}
	}
	return CheckResult{Name: "state directories", OK: true}
}

// CheckCredentials verifies that the active realm and the global operator
// credentials resolve completely.
func CheckCredentials(src credentials.Source, activeRealm string) CheckResult {
	name := "credentials"

	if _, err := realm.Resolve(src, activeRealm); err != nil {
		return CheckResult{Name: name, OK: false, Note: err.Error()}
	}
	for _, key := range []string{credentials.KeyAPIUser, credentials.KeyAPIPassword, credentials.KeyRepoToken} {
		if _, err := credentials.Resolve(src, key); err != nil {
			return CheckResult{Name: name, OK: false, Note: err.Error()}
		}
	}
	return CheckResult{Name: name, OK: true}
}

// Check runs the full preflight: tools, directories, credentials.
func Check(ctx context.Context, exec system.CommandExecutor, fs system.FileSystem, paths *config.Paths, src credentials.Source, activeRealm string) *Report {
	report := &Report{}
	for _, tool := range RequiredTools {
		report.Checks = append(report.Checks, CheckTool(ctx, exec, tool))
	}
	report.Checks = append(report.Checks, CheckDirs(fs, paths))
	report.Checks = append(report.Checks, CheckCredentials(src, activeRealm))
	return report
}
