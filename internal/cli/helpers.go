package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/shlex"

	"github.com/glorpus-work/ali/internal/logger"
	"github.com/glorpus-work/ali/pkg/errors"
	"github.com/glorpus-work/ali/pkg/hooks"
	"github.com/glorpus-work/ali/pkg/manifest"
	"github.com/glorpus-work/ali/pkg/shell"
)

// These variables will be set by the main package
var (
	Verbose *bool
	NoColor *bool
)

// DefaultMountpoint is where manifest-driven phases expect the target
// system to be mounted.
const DefaultMountpoint = "/mnt"

func loadManifest(path, mountpoint string) (*manifest.Manifest, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}

	if err := m.CheckVersion(Version); err != nil {
		return nil, err
	}

	if err := m.Validate(mountpoint); err != nil {
		return nil, err
	}

	return m, nil
}

// runLines executes one manifest phase in declaration order. Hook
// lines go through the hook pipeline; anything else runs as a shell
// command, wrapped in arch-chroot for the chroot phase.
func runLines(ctx context.Context, r shell.Runner, lines []string, caller hooks.Caller, mountpoint string) error {
	for _, line := range lines {
		if hooks.IsHook(line) {
			action, err := hooks.ApplyHook(line, caller, mountpoint)
			if err != nil {
				return err
			}
			printAction(action)

			continue
		}

		if err := runShellLine(ctx, r, line, caller, mountpoint); err != nil {
			return err
		}
	}

	return nil
}

func runShellLine(ctx context.Context, r shell.Runner, line string, caller hooks.Caller, mountpoint string) error {
	parts, err := shlex.Split(line)
	if err != nil {
		return errors.BadManifest("bad command %q: %v", line, err)
	}
	if len(parts) == 0 {
		return errors.BadManifest("empty command")
	}

	logger.Debugf("running command %q", line)

	if caller == hooks.CallerManifestChroot {
		args := append([]string{mountpoint}, parts...)
		return r.Exec(ctx, "arch-chroot", args...)
	}

	return r.Exec(ctx, parts[0], parts[1:]...)
}

func printAction(action *hooks.ActionHook) {
	record, err := json.Marshal(action)
	if err != nil {
		logger.Errorf("marshal action record: %v", err)
		return
	}

	fmt.Println(string(record))
}
