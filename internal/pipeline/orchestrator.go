package pipeline

import (
	"context"
	"time"

	"github.com/thomd/sfcc-cli-tools/internal/client"
	"github.com/thomd/sfcc-cli-tools/internal/config"
	"github.com/thomd/sfcc-cli-tools/internal/logging"
	"github.com/thomd/sfcc-cli-tools/internal/realm"
)

// ReindexJob is the background job triggered after a data import.
const ReindexJob = "Reindex"

// Options describes one deployment: the target sandbox and the credentials
// needed to authenticate against its realm.
type Options struct {
	Realm       *realm.Realm
	Alias       string
	APIUser     string
	APIPassword string
}

// Orchestrator sequences the deployment pipeline against one sandbox.
//
// The pipeline is strictly sequential and fail-fast: any stage failure
// aborts the run, leaving the log file for diagnosis. Nothing is rolled
// back; partially created remote state is the operator's to inspect.
type Orchestrator struct {
	Client   client.Client
	Fetcher  Fetcher
	Builder  Builder
	Packager Packager
	Config   *config.Config
	Log      *RunLog

	// now is swapped out in tests for deterministic stage timing.
	now func() time.Time
}

// NewOrchestrator wires an Orchestrator from its collaborators.
func NewOrchestrator(c client.Client, f Fetcher, b Builder, p Packager, cfg *config.Config, log *RunLog) *Orchestrator {
	return &Orchestrator{
		Client:   c,
		Fetcher:  f,
		Builder:  b,
		Packager: p,
		Config:   cfg,
		Log:      log,
		now:      time.Now,
	}
}

// stage runs one pipeline step, recording its state transition and timing.
func (o *Orchestrator) stage(run *Run, state State, fn func() error) error {
	run.State = state
	o.Log.Section(string(state))

	s := Stage{Name: string(state), Start: o.now()}
	err := fn()
	s.End = o.now()
	run.Stages = append(run.Stages, s)

	if err != nil {
		run.State = StateFailed
		run.FailedStage = state
		run.Err = err
	}
	return err
}

// authenticate establishes a fresh session. It runs before the code phase
// and again before the data phase: builds can outlive the remote session,
// and re-authenticating up front beats detecting expiry mid-phase.
func (o *Orchestrator) authenticate(ctx context.Context, opts Options) error {
	logging.Debug("authenticating", "realm", opts.Realm.Name)
	return o.Client.Authenticate(ctx, opts.Realm.ClientID, opts.Realm.ClientSecret, opts.APIUser, opts.APIPassword)
}

// Deploy runs the full pipeline: build and activate the storefront code,
// then import the demo data and reindex. The returned Run always carries
// the stages executed so far and the log path, also on failure.
func (o *Orchestrator) Deploy(ctx context.Context, opts Options) (*Run, error) {
	run := &Run{State: StateIdle, LogPath: o.Log.Path()}

	if err := o.authenticate(ctx, opts); err != nil {
		run.State = StateFailed
		run.Err = err
		return run, err
	}

	// Code phase
	var codeDir, codeArchive string
	if err := o.stage(run, StateFetchingCode, func() error {
		dir, err := o.Fetcher.Fetch(ctx, o.Config.Storefront.URL)
		codeDir = dir
		return err
	}); err != nil {
		return run, err
	}

	if err := o.stage(run, StateBuildingCode, func() error {
		return o.Builder.BuildCode(ctx, codeDir)
	}); err != nil {
		return run, err
	}

	if err := o.stage(run, StatePackagingCode, func() error {
		archive, err := o.Packager.PackageCode(ctx, codeDir)
		codeArchive = archive
		return err
	}); err != nil {
		return run, err
	}

	if err := o.stage(run, StateUploadingCode, func() error {
		return o.Client.DeployCode(ctx, codeArchive, opts.Alias)
	}); err != nil {
		return run, err
	}

	if err := o.stage(run, StateActivatingCode, func() error {
		return o.activateIfNeeded(ctx, opts.Alias)
	}); err != nil {
		return run, err
	}

	// Data phase; sessions are short-lived relative to the build above.
	if err := o.authenticate(ctx, opts); err != nil {
		run.State = StateFailed
		run.Err = err
		return run, err
	}

	var dataDir, dataArchive string
	if err := o.stage(run, StateFetchingData, func() error {
		dir, err := o.Fetcher.Fetch(ctx, o.Config.DemoData.URL)
		dataDir = dir
		return err
	}); err != nil {
		return run, err
	}

	if err := o.stage(run, StateBuildingData, func() error {
		archive, err := o.Builder.BuildData(ctx, dataDir)
		dataArchive = archive
		return err
	}); err != nil {
		return run, err
	}

	if err := o.stage(run, StateImportingData, func() error {
		if err := o.Client.UploadData(ctx, dataArchive, opts.Alias); err != nil {
			return err
		}
		return o.Client.ImportData(ctx, dataArchive, opts.Alias)
	}); err != nil {
		return run, err
	}

	if err := o.stage(run, StateReindexing, func() error {
		return o.Client.RunJob(ctx, ReindexJob, opts.Alias)
	}); err != nil {
		return run, err
	}

	run.State = StateDone
	return run, nil
}

// activateIfNeeded lists code versions and activates the deployable unit
// only when it is not already active. Redundant activation calls are a
// needless remote mutation.
func (o *Orchestrator) activateIfNeeded(ctx context.Context, alias string) error {
	versions, err := o.Client.ListCodeVersions(ctx, alias)
	if err != nil {
		return err
	}

	for _, v := range versions {
		if v.ID == DeployableUnit && v.Active {
			logging.Debug("code version already active", "version", DeployableUnit)
			return nil
		}
	}
	return o.Client.ActivateCode(ctx, DeployableUnit, alias)
}
