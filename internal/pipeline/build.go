package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/thomd/sfcc-cli-tools/internal/config"
	"github.com/thomd/sfcc-cli-tools/internal/errors"
	"github.com/thomd/sfcc-cli-tools/internal/logging"
	"github.com/thomd/sfcc-cli-tools/internal/system"
)

// DataArchive is the file name the demo-data packaging script produces.
const DataArchive = "demo-data.zip"

// Default build commands. The storefront needs its dependencies installed
// and three independent asset compilations in a fixed order; the demo data
// repository packages itself with a single script.
var (
	defaultCodeSteps = []string{
		"npm install",
		"npm run compile:js",
		"npm run compile:scss",
		"npm run compile:fonts",
	}
	defaultDataSteps = []string{
		"npm install",
		"npm run zipData",
	}
)

// Builder runs build steps against a fetched source tree.
type Builder interface {
	// BuildCode compiles the storefront assets in dir.
	BuildCode(ctx context.Context, dir string) error

	// BuildData packages the demo data in dir and returns the archive path.
	BuildData(ctx context.Context, dir string) (string, error)
}

// NPMBuilder runs the configured build commands through the executor,
// appending each step's combined output to the run log.
type NPMBuilder struct {
	exec      system.CommandExecutor
	fs        system.FileSystem
	log       io.Writer
	codeSteps [][]string
	dataSteps [][]string
}

// NewNPMBuilder returns an NPMBuilder. Build commands can be overridden per
// repository in the tool config; override strings are shell-quoted.
func NewNPMBuilder(exec system.CommandExecutor, fs system.FileSystem, log io.Writer, cfg *config.Config) (*NPMBuilder, error) {
	codeSteps, err := parseSteps(cfg.Storefront.BuildSteps, defaultCodeSteps)
	if err != nil {
		return nil, errors.ConfigError("invalid storefront build_steps", err)
	}
	dataSteps, err := parseSteps(cfg.DemoData.BuildSteps, defaultDataSteps)
	if err != nil {
		return nil, errors.ConfigError("invalid demo_data build_steps", err)
	}

	return &NPMBuilder{
		exec:      exec,
		fs:        fs,
		log:       log,
		codeSteps: codeSteps,
		dataSteps: dataSteps,
	}, nil
}

func parseSteps(overrides, defaults []string) ([][]string, error) {
	steps := defaults
	if len(overrides) > 0 {
		steps = overrides
	}

	parsed := make([][]string, 0, len(steps))
	for _, step := range steps {
		words, err := shellquote.Split(step)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q: %w", step, err)
		}
		if len(words) == 0 {
			continue
		}
		parsed = append(parsed, words)
	}
	return parsed, nil
}

// runSteps executes the steps in order, aborting on the first non-zero exit.
func (b *NPMBuilder) runSteps(ctx context.Context, dir string, steps [][]string) error {
	for _, step := range steps {
		logging.Debug("build step", "dir", dir, "cmd", shellquote.Join(step...))
		fmt.Fprintf(b.log, "$ %s\n", shellquote.Join(step...))

		out, err := b.exec.Execute(ctx, dir, step[0], step[1:]...)
		b.log.Write(out)
		if err != nil {
			return errors.BuildError(shellquote.Join(step...), err)
		}
	}
	return nil
}

func (b *NPMBuilder) BuildCode(ctx context.Context, dir string) error {
	return b.runSteps(ctx, dir, b.codeSteps)
}

func (b *NPMBuilder) BuildData(ctx context.Context, dir string) (string, error) {
	if err := b.runSteps(ctx, dir, b.dataSteps); err != nil {
		return "", err
	}

	archive := filepath.Join(dir, DataArchive)
	if !b.fs.Exists(archive) {
		return "", errors.PackageError(fmt.Sprintf("demo-data archive %s not produced by packaging script", DataArchive), nil)
	}
	return archive, nil
}
