// Package disks prepares the block devices named in a manifest. It is
// a thin sequential wrapper around sgdisk: the only check of its own
// is that every named device actually exists before any partitioning
// starts.
package disks

import (
	"context"
	"fmt"

	"github.com/glorpus-work/ali/pkg/errors"
	"github.com/glorpus-work/ali/pkg/fsutil"
	"github.com/glorpus-work/ali/pkg/manifest"
	"github.com/glorpus-work/ali/pkg/shell"
)

// PreFlight verifies that every disk device in the manifest exists.
func PreFlight(disks []manifest.Disk) error {
	for _, d := range disks {
		if !fsutil.FileExists(d.Device) {
			return errors.Wrapf(errors.ErrNoSuchDevice, "%s", d.Device)
		}
	}

	return nil
}

// Apply partitions every disk in declaration order: wipe the existing
// table, then create one partition per entry. Each step shells out to
// sgdisk and blocks until it finishes.
func Apply(ctx context.Context, r shell.Runner, disks []manifest.Disk) error {
	if err := PreFlight(disks); err != nil {
		return err
	}

	for _, d := range disks {
		if err := applyDisk(ctx, r, d); err != nil {
			return err
		}
	}

	return nil
}

func applyDisk(ctx context.Context, r shell.Runner, d manifest.Disk) error {
	if err := r.Exec(ctx, "sgdisk", "--zap-all", d.Device); err != nil {
		return errors.Wrapf(err, "wipe partition table on %s", d.Device)
	}

	for n, p := range d.Partitions {
		args := createPartitionArgs(n+1, p)
		args = append(args, d.Device)

		if err := r.Exec(ctx, "sgdisk", args...); err != nil {
			return errors.Wrapf(err, "create partition %d on %s", n+1, d.Device)
		}
	}

	return nil
}

// createPartitionArgs builds the sgdisk arguments for the n-th
// partition. Size is relative to the previous partition's end; an
// empty size takes the rest of the disk.
func createPartitionArgs(n int, p manifest.Partition) []string {
	size := ""
	if p.Size != "" {
		size = "+" + p.Size
	}

	args := []string{fmt.Sprintf("--new=%d:0:%s", n, size)}
	if p.Type != "" {
		args = append(args, fmt.Sprintf("--typecode=%d:%s", n, p.Type))
	}
	if p.Label != "" {
		args = append(args, fmt.Sprintf("--change-name=%d:%s", n, p.Label))
	}

	return args
}
