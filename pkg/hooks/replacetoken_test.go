package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/ali/pkg/errors"
)

func TestReplaceTokenTryParse(t *testing.T) {
	tests := []struct {
		name    string
		cmd     string
		token   string
		value   string
		tmpl    string
		output  string
		wantErr bool
	}{
		{
			name:   "in-place replacement",
			cmd:    `@replace-token PORT 2222 /etc/ssh/sshd_config`,
			token:  "PORT",
			value:  "2222",
			tmpl:   "/etc/ssh/sshd_config",
			output: "/etc/ssh/sshd_config",
		},
		{
			name:   "template to separate output",
			cmd:    `@replace-token "ssh port" 2222 /templates/sshd_config /etc/ssh/sshd_config`,
			token:  "ssh port",
			value:  "2222",
			tmpl:   "/templates/sshd_config",
			output: "/etc/ssh/sshd_config",
		},
		{
			name:    "too few arguments",
			cmd:     "@replace-token PORT 2222",
			wantErr: true,
		},
		{
			name:    "too many arguments",
			cmd:     "@replace-token PORT 2222 a b c",
			wantErr: true,
		},
		{
			name:    "empty token",
			cmd:     `@replace-token "" 2222 /etc/ssh/sshd_config`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newReplaceToken(KeyReplaceToken)
			err := h.TryParse(tt.cmd)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrBadHookCmd)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.token, h.token)
			assert.Equal(t, tt.value, h.value)
			assert.Equal(t, tt.tmpl, h.template)
			assert.Equal(t, tt.output, h.output)
		})
	}
}

func TestReplaceTokenRun_InPlace(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "sshd_config")
	require.NoError(t, os.WriteFile(target, []byte("Port {{ PORT }}\nPort {{ PORT }}"), 0o644))

	action, err := ApplyHook("@replace-token PORT 2222 /sshd_config", CallerCli, root)
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "Port 2222\nPort 2222", string(got))

	assert.Equal(t, TypeReplaceToken, action.Type)
	assert.JSONEq(t,
		`{"token":"PORT","value":"2222","template":"/sshd_config","output":"/sshd_config"}`,
		action.Action)
}

func TestReplaceTokenRun_SeparateOutput(t *testing.T) {
	root := t.TempDir()
	tmpl := filepath.Join(root, "motd.tmpl")
	require.NoError(t, os.WriteFile(tmpl, []byte("Welcome to {{ HOSTNAME }}"), 0o644))

	_, err := ApplyHook("@replace-token HOSTNAME box /motd.tmpl /motd", CallerCli, root)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(root, "motd"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome to box", string(got))

	// Template untouched.
	orig, err := os.ReadFile(tmpl)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to {{ HOSTNAME }}", string(orig))
}

func TestReplaceTokenRun_MissingToken(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f"), []byte("no tokens here"), 0o644))

	_, err := ApplyHook("@replace-token PORT 2222 /f", CallerCli, root)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrHook)
	assert.Contains(t, err.Error(), `no such token "{{ PORT }}"`)
}
