package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunner(t *testing.T) {
	got := NewRunner()
	require.NotNil(t, got)
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name       string
		command    string
		args       []string
		wantStdout string
		wantErr    bool
	}{
		{
			name:       "runs command and trims output",
			command:    "echo",
			args:       []string{"hello"},
			wantStdout: "hello",
		},
		{
			name:    "fails for missing command",
			command: "definitely-not-a-command-on-path",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			stdout, _, err := r.Run(context.Background(), tt.command, tt.args...)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStdout, stdout)
		})
	}
}

func TestRunner_RunInDir(t *testing.T) {
	dir := t.TempDir()

	r := NewRunner()
	stdout, _, err := r.Run(context.Background(), "pwd")
	require.NoError(t, err)

	stdoutInDir, _, err := r.RunInDir(context.Background(), dir, "pwd")
	require.NoError(t, err)
	assert.NotEqual(t, stdout, stdoutInDir)
}

func TestRunner_LookPath(t *testing.T) {
	r := NewRunner()

	assert.True(t, r.LookPath("echo"))
	assert.False(t, r.LookPath("definitely-not-a-command-on-path"))
}
