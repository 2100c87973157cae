package cli

import (
	"github.com/spf13/cobra"

	"github.com/glorpus-work/ali/internal/logger"
	"github.com/glorpus-work/ali/pkg/disks"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	var mountpoint string

	cmd := &cobra.Command{
		Use:   "validate MANIFEST",
		Short: "Validate an installation manifest",
		Long: `Validate an installation manifest without executing anything:
parse every hook line, check the invocation context each would run in,
and verify the declared disks exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], mountpoint)
		},
	}

	cmd.Flags().StringVar(&mountpoint, "mountpoint", DefaultMountpoint, "Where the target system is mounted")

	return cmd
}

func runValidate(path, mountpoint string) error {
	m, err := loadManifest(path, mountpoint)
	if err != nil {
		return err
	}

	if err := disks.PreFlight(m.Disks); err != nil {
		return err
	}

	logger.Infof("manifest %s is valid", path)

	return nil
}
