package gitver

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

var (
	ErrGitCommand = errors.New("git command failed")
)

// Runner executes the git binary to inspect remote repositories. It needs no
// working directory: every query names the remote explicitly.
type Runner struct{}

// NewRunner creates a new Runner
func NewRunner() *Runner {
	return &Runner{}
}

// runCommand executes a git command and returns stdout, stderr, and any error
func (r *Runner) runCommand(ctx context.Context, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, "git", args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		// Wrap the error with stderr for context
		if stderr != "" {
			err = errors.Join(ErrGitCommand, errors.New(strings.TrimSpace(stderr)))
		} else {
			err = errors.Join(ErrGitCommand, err)
		}
	}

	return stdout, stderr, err
}

// LsRemoteTags returns the raw tag listing of a remote repository, one
// "<sha>\t<ref>" line per entry, peeled refs included.
func (r *Runner) LsRemoteTags(ctx context.Context, repoURL string) ([]string, error) {
	stdout, _, err := r.runCommand(ctx, "ls-remote", "--tags", repoURL)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Ensure Runner implements TagLister interface
var _ TagLister = (*Runner)(nil)
