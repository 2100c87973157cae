//go:generate mockgen -destination=./mocks/shell.go -package=mocks . Runner

// Package shell runs external commands for the installer. Commands
// inherit the installer's stdio and block until they finish; exit
// status is mapped onto the shared error taxonomy.
package shell

import (
	"context"
	"os"
	"os/exec"

	"github.com/glorpus-work/ali/pkg/errors"
)

// Runner spawns a command and waits for it.
type Runner interface {
	Exec(ctx context.Context, name string, args ...string) error
}

// ExecRunner is the os/exec backed Runner used outside tests.
type ExecRunner struct{}

// New returns the default Runner.
func New() Runner {
	return ExecRunner{}
}

// Exec spawns name with args, wiring the process to the installer's
// stdio, and waits for it to finish.
func (ExecRunner) Exec(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(errors.ErrCmdFailed, "command %s failed to spawn: %v", name, err)
	}

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return errors.Wrapf(errors.ErrCmdFailed,
				"command %s exited with bad status %d", name, exitErr.ExitCode())
		}

		return errors.Wrapf(errors.ErrCmdFailed, "command %s failed to run: %v", name, err)
	}

	return nil
}
