package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/thomd/sfcc-cli-tools/internal/errors"
	"github.com/thomd/sfcc-cli-tools/internal/logging"
	"github.com/thomd/sfcc-cli-tools/internal/system"
)

const (
	// DeployableUnit is the code version name the remote side expects.
	DeployableUnit = "version1"

	// cartridgeDir is the build output directory inside the storefront tree.
	cartridgeDir = "cartridges"
)

// Packager turns build output into the archive the sandbox client deploys.
type Packager interface {
	// PackageCode repackages the build output under dir and returns the
	// archive path.
	PackageCode(ctx context.Context, dir string) (string, error)
}

// ZipPackager renames the cartridge output to the deployable unit name and
// compresses it with the zip tool.
type ZipPackager struct {
	exec system.CommandExecutor
	fs   system.FileSystem
	log  io.Writer
}

// NewZipPackager returns a ZipPackager writing tool output to log.
func NewZipPackager(exec system.CommandExecutor, fs system.FileSystem, log io.Writer) *ZipPackager {
	return &ZipPackager{exec: exec, fs: fs, log: log}
}

func (p *ZipPackager) PackageCode(ctx context.Context, dir string) (string, error) {
	src := filepath.Join(dir, cartridgeDir)
	if !p.fs.IsDir(src) {
		// A missing cartridge directory means a build step broke its
		// contract, not that packaging itself failed.
		return "", errors.PackageError(fmt.Sprintf("build output %s missing in %s", cartridgeDir, dir), nil)
	}

	unit := filepath.Join(dir, DeployableUnit)
	if err := p.fs.Rename(src, unit); err != nil {
		return "", errors.PackageError("failed to rename build output", err)
	}

	archive := filepath.Join(dir, DeployableUnit+".zip")
	logging.Debug("packaging code", "unit", unit, "archive", archive)
	fmt.Fprintf(p.log, "$ zip -r %s.zip %s\n", DeployableUnit, DeployableUnit)

	out, err := p.exec.Execute(ctx, dir, "zip", "-r", DeployableUnit+".zip", DeployableUnit)
	p.log.Write(out)
	if err != nil {
		return "", errors.PackageError("failed to compress deployable unit", err)
	}
	return archive, nil
}
