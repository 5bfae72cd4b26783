package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// State identifies where a deployment run currently is. Every non-terminal
// state can transition to StateFailed; there are no retries.
type State string

const (
	StateIdle           State = "Idle"
	StateFetchingCode   State = "FetchingCode"
	StateBuildingCode   State = "BuildingCode"
	StatePackagingCode  State = "PackagingCode"
	StateUploadingCode  State = "UploadingCode"
	StateActivatingCode State = "ActivatingCode"
	StateFetchingData   State = "FetchingData"
	StateBuildingData   State = "BuildingData"
	StateImportingData  State = "ImportingData"
	StateReindexing     State = "Reindexing"
	StateDone           State = "Done"
	StateFailed         State = "Failed"
)

// Stage records the timing of one pipeline step.
type Stage struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Elapsed returns the wall-clock duration of the stage.
func (s Stage) Elapsed() time.Duration {
	return s.End.Sub(s.Start)
}

// formatElapsed renders a duration as MM:SS, or "" for sub-second stages so
// the summary only lists steps worth looking at.
func formatElapsed(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	if secs == 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Run is the ephemeral record of one orchestration execution. Only the log
// file referenced by LogPath survives the process.
type Run struct {
	State   State
	Stages  []Stage
	LogPath string
	Err     error

	// FailedStage names the stage that aborted the run. Empty on success
	// and on authentication failures, which happen between stages.
	FailedStage State
}

// Summary renders the per-stage timing report shown after a completed run.
// Stages that finished in under a second are omitted.
func (r *Run) Summary() string {
	var b strings.Builder
	for _, s := range r.Stages {
		if elapsed := formatElapsed(s.Elapsed()); elapsed != "" {
			fmt.Fprintf(&b, "  %-16s %s\n", s.Name, elapsed)
		}
	}
	return b.String()
}
