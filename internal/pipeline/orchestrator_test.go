package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/thomd/sfcc-cli-tools/internal/client"
	"github.com/thomd/sfcc-cli-tools/internal/config"
	"github.com/thomd/sfcc-cli-tools/internal/errors"
	"github.com/thomd/sfcc-cli-tools/internal/realm"
)

// fakeFetcher returns canned checkout directories per repo URL.
type fakeFetcher struct {
	dirs  map[string]string
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, repoURL string) (string, error) {
	f.calls = append(f.calls, repoURL)
	if f.err != nil {
		return "", f.err
	}
	return f.dirs[repoURL], nil
}

// fakeBuilder records build calls and can fail either phase.
type fakeBuilder struct {
	codeErr   error
	dataErr   error
	archive   string
	codeCalls []string
	dataCalls []string
}

func (b *fakeBuilder) BuildCode(ctx context.Context, dir string) error {
	b.codeCalls = append(b.codeCalls, dir)
	return b.codeErr
}

func (b *fakeBuilder) BuildData(ctx context.Context, dir string) (string, error) {
	b.dataCalls = append(b.dataCalls, dir)
	if b.dataErr != nil {
		return "", b.dataErr
	}
	return b.archive, nil
}

// fakePackager records packaging calls.
type fakePackager struct {
	archive string
	err     error
	calls   []string
}

func (p *fakePackager) PackageCode(ctx context.Context, dir string) (string, error) {
	p.calls = append(p.calls, dir)
	if p.err != nil {
		return "", p.err
	}
	return p.archive, nil
}

type testHarness struct {
	orch     *Orchestrator
	client   *client.MockClient
	fetcher  *fakeFetcher
	builder  *fakeBuilder
	packager *fakePackager
	opts     Options
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	cfg := config.DefaultConfig()
	log, err := NewRunLog(t.TempDir(), "zzzz-003")
	if err != nil {
		t.Fatalf("NewRunLog() error = %v", err)
	}
	t.Cleanup(func() { log.Close() })

	mc := client.NewMockClient()
	mc.CodeVersions = []client.CodeVersion{{ID: "old", Active: true}}

	fetcher := &fakeFetcher{dirs: map[string]string{
		cfg.Storefront.URL: "/work/code",
		cfg.DemoData.URL:   "/work/data",
	}}
	builder := &fakeBuilder{archive: "/work/data/demo-data.zip"}
	packager := &fakePackager{archive: "/work/code/version1.zip"}

	orch := NewOrchestrator(mc, fetcher, builder, packager, cfg, log)

	// Deterministic clock: every stage takes 45 seconds.
	now := time.Unix(1700000000, 0)
	orch.now = func() time.Time {
		now = now.Add(45 * time.Second)
		return now
	}

	return &testHarness{
		orch:     orch,
		client:   mc,
		fetcher:  fetcher,
		builder:  builder,
		packager: packager,
		opts: Options{
			Realm:       &realm.Realm{Name: "arvato", ID: "zzzz", ClientID: "cid", ClientSecret: "sec"},
			Alias:       "zzzz-003",
			APIUser:     "admin",
			APIPassword: "pass",
		},
	}
}

func TestDeploy_HappyPath(t *testing.T) {
	h := newHarness(t)

	run, err := h.orch.Deploy(context.Background(), h.opts)
	if err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}
	if run.State != StateDone {
		t.Errorf("State = %s, want Done", run.State)
	}

	wantStages := []string{
		"FetchingCode", "BuildingCode", "PackagingCode", "UploadingCode",
		"ActivatingCode", "FetchingData", "BuildingData", "ImportingData", "Reindexing",
	}
	if len(run.Stages) != len(wantStages) {
		t.Fatalf("got %d stages, want %d: %+v", len(run.Stages), len(wantStages), run.Stages)
	}
	for i, want := range wantStages {
		if run.Stages[i].Name != want {
			t.Errorf("stage[%d] = %s, want %s", i, run.Stages[i].Name, want)
		}
	}

	// Code must deploy before data import begins
	if len(h.client.CallsFor("DeployCode")) != 1 {
		t.Error("expected exactly one DeployCode call")
	}
	if len(h.client.CallsFor("ImportData")) != 1 {
		t.Error("expected exactly one ImportData call")
	}
	if got := h.client.CallsFor("RunJob"); len(got) != 1 || got[0].Args[0] != ReindexJob {
		t.Errorf("RunJob calls = %v, want one Reindex", got)
	}
}

func TestDeploy_AuthenticatesBeforeEachPhase(t *testing.T) {
	h := newHarness(t)

	if _, err := h.orch.Deploy(context.Background(), h.opts); err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}

	if got := len(h.client.CallsFor("Authenticate")); got != 2 {
		t.Errorf("Authenticate calls = %d, want 2 (code phase and data phase)", got)
	}
}

func TestDeploy_AuthFailureAbortsBeforeFetch(t *testing.T) {
	h := newHarness(t)
	h.client.SetError("Authenticate", errors.AuthError(fmt.Errorf("401")))

	run, err := h.orch.Deploy(context.Background(), h.opts)
	if err == nil {
		t.Fatal("Deploy() should fail")
	}
	if run.State != StateFailed {
		t.Errorf("State = %s, want Failed", run.State)
	}
	if len(h.fetcher.calls) != 0 {
		t.Errorf("no clone should run after auth failure, got %v", h.fetcher.calls)
	}
}

func TestDeploy_BuildFailureSkipsLaterStages(t *testing.T) {
	h := newHarness(t)
	h.builder.codeErr = errors.BuildError("npm run compile:js", fmt.Errorf("exit 1"))

	run, err := h.orch.Deploy(context.Background(), h.opts)
	if err == nil {
		t.Fatal("Deploy() should fail")
	}
	if run.State != StateFailed {
		t.Errorf("State = %s, want Failed", run.State)
	}
	if errors.GetExitCode(err) != errors.ExitBuildError {
		t.Errorf("exit code = %d, want BuildError", errors.GetExitCode(err))
	}

	if len(h.packager.calls) != 0 {
		t.Error("packager must not run after a build failure")
	}
	if len(h.client.CallsFor("DeployCode")) != 0 {
		t.Error("no code must be deployed after a build failure")
	}
	if len(h.client.CallsFor("ImportData")) != 0 {
		t.Error("no data must be imported after a build failure")
	}
	if run.LogPath == "" {
		t.Error("failed run must surface the log path")
	}
	if _, statErr := os.Stat(run.LogPath); statErr != nil {
		t.Errorf("log file must survive the failed run: %v", statErr)
	}
}

func TestDeploy_FailedStageIsRecorded(t *testing.T) {
	h := newHarness(t)
	h.builder.codeErr = errors.BuildError("npm run compile:js", fmt.Errorf("exit 1"))

	run, err := h.orch.Deploy(context.Background(), h.opts)
	if err == nil {
		t.Fatal("Deploy() should fail")
	}

	// State absorbs into Failed; FailedStage keeps the stage that broke.
	if run.State != StateFailed {
		t.Errorf("State = %s, want Failed", run.State)
	}
	if run.FailedStage != StateBuildingCode {
		t.Errorf("FailedStage = %s, want BuildingCode", run.FailedStage)
	}
}

func TestDeploy_AuthFailureLeavesFailedStageEmpty(t *testing.T) {
	h := newHarness(t)
	h.client.SetError("Authenticate", errors.AuthError(fmt.Errorf("401")))

	run, err := h.orch.Deploy(context.Background(), h.opts)
	if err == nil {
		t.Fatal("Deploy() should fail")
	}
	if run.FailedStage != "" {
		t.Errorf("FailedStage = %s, want empty for a pre-stage auth failure", run.FailedStage)
	}
}

func TestDeploy_ActivationSkippedWhenAlreadyActive(t *testing.T) {
	h := newHarness(t)
	h.client.CodeVersions = []client.CodeVersion{{ID: DeployableUnit, Active: true}}

	if _, err := h.orch.Deploy(context.Background(), h.opts); err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}

	if got := len(h.client.CallsFor("ActivateCode")); got != 0 {
		t.Errorf("ActivateCode calls = %d, want 0 for an already-active version", got)
	}
}

func TestDeploy_ActivatesInactiveVersion(t *testing.T) {
	h := newHarness(t)
	h.client.CodeVersions = []client.CodeVersion{
		{ID: "old", Active: true},
		{ID: DeployableUnit, Active: false},
	}

	if _, err := h.orch.Deploy(context.Background(), h.opts); err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}

	calls := h.client.CallsFor("ActivateCode")
	if len(calls) != 1 {
		t.Fatalf("ActivateCode calls = %d, want exactly 1", len(calls))
	}
	if calls[0].Args[0] != DeployableUnit {
		t.Errorf("activated %q, want %q", calls[0].Args[0], DeployableUnit)
	}
}

func TestDeploy_UploadPrecedesImport(t *testing.T) {
	h := newHarness(t)

	if _, err := h.orch.Deploy(context.Background(), h.opts); err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}

	uploadSeen := false
	for _, c := range h.client.CallLog {
		switch c.Method {
		case "UploadData":
			uploadSeen = true
		case "ImportData":
			if !uploadSeen {
				t.Error("ImportData before UploadData")
			}
		}
	}
}

func TestDeploy_RemoteImportFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	h.client.SetError("ImportData", errors.RemoteOperationError("instance:import", fmt.Errorf("exit 1")))

	run, err := h.orch.Deploy(context.Background(), h.opts)
	if err == nil {
		t.Fatal("Deploy() should fail")
	}
	if run.State != StateFailed {
		t.Errorf("State = %s, want Failed", run.State)
	}
	if len(h.client.CallsFor("RunJob")) != 0 {
		t.Error("reindex must not run after a failed import")
	}
}

func TestRun_Summary(t *testing.T) {
	h := newHarness(t)

	run, err := h.orch.Deploy(context.Background(), h.opts)
	if err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}

	summary := run.Summary()
	if !strings.Contains(summary, "FetchingCode") {
		t.Errorf("summary missing stage name:\n%s", summary)
	}
	if !strings.Contains(summary, "00:45") {
		t.Errorf("summary missing MM:SS timing:\n%s", summary)
	}
}
