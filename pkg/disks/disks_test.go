package disks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/ali/pkg/errors"
	"github.com/glorpus-work/ali/pkg/manifest"
	mockshell "github.com/glorpus-work/ali/pkg/shell/mocks"
)

// fakeDevice creates a regular file standing in for a block device.
func fakeDevice(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sda")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	return path
}

func TestPreFlight(t *testing.T) {
	device := fakeDevice(t)

	assert.NoError(t, PreFlight([]manifest.Disk{{Device: device, Table: "gpt"}}))

	err := PreFlight([]manifest.Disk{
		{Device: device, Table: "gpt"},
		{Device: "/dev/does-not-exist", Table: "gpt"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoSuchDevice)
}

func TestApply_PartitionSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := fakeDevice(t)

	disks := []manifest.Disk{{
		Device: device,
		Table:  "gpt",
		Partitions: []manifest.Partition{
			{Label: "boot", Size: "512M", Type: "ef00"},
			{Label: "root"},
		},
	}}

	runner := mockshell.NewMockRunner(ctrl)
	gomock.InOrder(
		runner.EXPECT().Exec(gomock.Any(), "sgdisk", "--zap-all", device),
		runner.EXPECT().Exec(gomock.Any(), "sgdisk",
			"--new=1:0:+512M", "--typecode=1:ef00", "--change-name=1:boot", device),
		runner.EXPECT().Exec(gomock.Any(), "sgdisk",
			"--new=2:0:", "--change-name=2:root", device),
	)

	assert.NoError(t, Apply(context.Background(), runner, disks))
}

func TestApply_MissingDeviceRunsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mockshell.NewMockRunner(ctrl)

	err := Apply(context.Background(), runner, []manifest.Disk{{Device: "/dev/nope", Table: "gpt"}})
	assert.ErrorIs(t, err, errors.ErrNoSuchDevice)
}

func TestApply_StopsOnFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := fakeDevice(t)

	runner := mockshell.NewMockRunner(ctrl)
	runner.EXPECT().
		Exec(gomock.Any(), "sgdisk", "--zap-all", device).
		Return(errors.ErrCmdFailed)

	err := Apply(context.Background(), runner, []manifest.Disk{{
		Device:     device,
		Table:      "gpt",
		Partitions: []manifest.Partition{{Label: "root"}},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCmdFailed)
}
