package cli

import (
	"github.com/spf13/cobra"

	"github.com/glorpus-work/ali/pkg/hooks"
)

// NewHooksCmd creates the hooks command.
func NewHooksCmd() *cobra.Command {
	var mountpoint string

	cmd := &cobra.Command{
		Use:   "hooks CMD...",
		Short: "Run hook commands interactively",
		Long: `Run one or more hook commands outside a manifest, e.g.:

  ali hooks '@uncomment PubkeyAuthentication /etc/ssh/sshd_config' --mountpoint /mnt
  ali hooks '@mkinitcpio-print boot_hook=lvm'

Each command prints its audit record as JSON when it succeeds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runHooks(args, mountpoint)
		},
	}

	cmd.Flags().StringVar(&mountpoint, "mountpoint", "/", "Where the target system is mounted")

	return cmd
}

func runHooks(cmds []string, mountpoint string) error {
	for _, cmd := range cmds {
		action, err := hooks.ApplyHook(cmd, hooks.CallerCli, mountpoint)
		if err != nil {
			return err
		}

		printAction(action)
	}

	return nil
}
