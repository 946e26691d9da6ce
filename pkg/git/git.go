// Package git shells out to the git binary for clone and remote setup.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/cli/safeexec"
	"github.com/google/shlex"
)

// runGit is a variable so tests can record invocations without a git binary.
var runGit = func(ctx context.Context, args ...string) error {
	gitBin, err := safeexec.LookPath("git")
	if err != nil {
		return fmt.Errorf("git executable not found: %w", err)
	}

	cmd := exec.CommandContext(ctx, gitBin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return nil
}

// Clone clones cloneURL into dir. extraOpts is split shell-style and
// spliced into the invocation before the URL, so something like
// "--depth 1 --quiet" works as it would on the command line.
func Clone(ctx context.Context, cloneURL, dir, extraOpts string) error {
	args := []string{"clone"}
	if extraOpts != "" {
		opts, err := shlex.Split(extraOpts)
		if err != nil {
			return fmt.Errorf("invalid clone options %q: %w", extraOpts, err)
		}
		args = append(args, opts...)
	}
	args = append(args, cloneURL, dir)
	return runGit(ctx, args...)
}

// AddRemote registers a remote in the repository at dir and fetches it.
func AddRemote(ctx context.Context, dir, name, url string) error {
	return runGit(ctx, "-C", dir, "remote", "add", "-f", name, url)
}

// RemoveRemote deletes a remote from the repository at dir.
func RemoveRemote(ctx context.Context, dir, name string) error {
	return runGit(ctx, "-C", dir, "remote", "rm", name)
}
