package pipeline

import (
	"fmt"
	"os"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// RunLog is the append-only log file for one deployment run. All external
// tool output (git, npm, zip, sfcc-ci) goes here instead of the terminal, so
// operator-facing output stays terse and the full transcript survives a
// failed run for post-mortem inspection.
type RunLog struct {
	path string
	f    *os.File
}

// NewRunLog creates the log file for a run against the given sandbox alias.
func NewRunLog(logsDir, alias string) (*RunLog, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.log", alias, time.Now().Format("20060102-150405"))
	path, err := securejoin.SecureJoin(logsDir, name)
	if err != nil {
		return nil, fmt.Errorf("invalid sandbox alias %q: %w", alias, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	return &RunLog{path: path, f: f}, nil
}

// Path returns the on-disk location of the log file.
func (l *RunLog) Path() string {
	return l.path
}

// Section writes a stage header so the transcript is navigable.
func (l *RunLog) Section(name string) {
	fmt.Fprintf(l.f, "\n===== %s (%s) =====\n", name, time.Now().Format(time.RFC3339))
}

// Write appends raw tool output to the log.
func (l *RunLog) Write(p []byte) (int, error) {
	return l.f.Write(p)
}

// Close flushes and closes the log file. The file itself is kept on disk.
func (l *RunLog) Close() error {
	return l.f.Close()
}
