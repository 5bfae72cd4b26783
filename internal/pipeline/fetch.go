package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/thomd/sfcc-cli-tools/internal/errors"
	"github.com/thomd/sfcc-cli-tools/internal/logging"
	"github.com/thomd/sfcc-cli-tools/internal/system"
)

// Fetcher clones a versioned source tree into a fresh working directory.
type Fetcher interface {
	// Fetch clones repoURL and returns the checkout directory.
	Fetch(ctx context.Context, repoURL string) (string, error)
}

// GitFetcher fetches sources with git, embedding the repository token as a
// bearer credential in the clone URL. Clone progress goes to the run log,
// never the terminal.
type GitFetcher struct {
	exec    system.CommandExecutor
	fs      system.FileSystem
	log     io.Writer
	token   string
	workDir string
}

// NewGitFetcher returns a GitFetcher writing tool output to log. workDir is
// the parent for per-clone temporary directories.
func NewGitFetcher(exec system.CommandExecutor, fs system.FileSystem, log io.Writer, token, workDir string) *GitFetcher {
	return &GitFetcher{exec: exec, fs: fs, log: log, token: token, workDir: workDir}
}

func (f *GitFetcher) Fetch(ctx context.Context, repoURL string) (string, error) {
	dest, err := f.fs.MkdirTemp(f.workDir, "sfcc-src-")
	if err != nil {
		return "", errors.FetchError(repoURL, err)
	}
	if err := f.FetchInto(ctx, repoURL, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// FetchInto clones repoURL into an explicit destination directory.
func (f *GitFetcher) FetchInto(ctx context.Context, repoURL, dest string) error {
	cloneURL, err := injectToken(repoURL, f.token)
	if err != nil {
		return errors.FetchError(repoURL, err)
	}

	logging.Debug("cloning source", "repo", repoURL, "dest", dest)
	fmt.Fprintf(f.log, "$ git clone --depth 1 %s %s\n", repoURL, dest)

	out, err := f.exec.Execute(ctx, "", "git", "clone", "--depth", "1", cloneURL, dest)
	f.log.Write(redactToken(out, f.token))
	if err != nil {
		return errors.FetchError(repoURL, err)
	}
	return nil
}

// redactToken masks the embedded credential in tool output. git echoes the
// full clone URL in its error messages on a failed clone.
func redactToken(out []byte, token string) []byte {
	if token == "" {
		return out
	}
	return bytes.ReplaceAll(out, []byte(token), []byte("***"))
}

// injectToken embeds a bearer token into an https clone URL. The tokenized
// URL is only ever handed to git; logged output has the token redacted.
func injectToken(repoURL, token string) (string, error) {
	if token == "" {
		return repoURL, nil
	}
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("invalid repository URL: %w", err)
	}
	u.User = url.User(token)
	return u.String(), nil
}
