package cli

import (
	"github.com/spf13/cobra"

	"github.com/glorpus-work/ali/internal/logger"
	"github.com/glorpus-work/ali/pkg/disks"
	"github.com/glorpus-work/ali/pkg/hooks"
	"github.com/glorpus-work/ali/pkg/shell"
)

// NewApplyCmd creates the apply command.
func NewApplyCmd() *cobra.Command {
	var (
		mountpoint string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "apply MANIFEST",
		Short: "Apply an installation manifest",
		Long: `Apply an installation manifest: partition the declared disks,
then run the chroot and postinstall command lists in order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], mountpoint, dryRun)
		},
	}

	cmd.Flags().StringVar(&mountpoint, "mountpoint", DefaultMountpoint, "Where the target system is mounted")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the manifest and print actions without executing")

	return cmd
}

func runApply(cmd *cobra.Command, path, mountpoint string, dryRun bool) error {
	m, err := loadManifest(path, mountpoint)
	if err != nil {
		return err
	}

	if err := disks.PreFlight(m.Disks); err != nil {
		return err
	}

	if dryRun {
		logger.Infof("manifest %s is valid, nothing applied", path)
		return nil
	}

	ctx := cmd.Context()
	runner := shell.New()

	if err := disks.Apply(ctx, runner, m.Disks); err != nil {
		return err
	}

	if err := runLines(ctx, runner, m.Chroot, hooks.CallerManifestChroot, mountpoint); err != nil {
		return err
	}

	if err := runLines(ctx, runner, m.PostInstall, hooks.CallerManifestPostInstall, mountpoint); err != nil {
		return err
	}

	logger.Infof("applied manifest %s", path)

	return nil
}
