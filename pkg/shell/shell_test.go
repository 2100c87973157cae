package shell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/ali/pkg/errors"
)

func TestExecRunner(t *testing.T) {
	ctx := context.Background()
	r := New()

	assert.NoError(t, r.Exec(ctx, "true"))
	assert.NoError(t, r.Exec(ctx, "ls", "-a", "-l"))
}

func TestExecRunner_BadStatus(t *testing.T) {
	err := New().Exec(context.Background(), "false")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCmdFailed)
	assert.Contains(t, err.Error(), "exited with bad status")
}

func TestExecRunner_SpawnFailure(t *testing.T) {
	err := New().Exec(context.Background(), "/no/such/binary")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCmdFailed)
	assert.Contains(t, err.Error(), "failed to spawn")
}
