package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "agent-guard", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	commandNames := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		commandNames = append(commandNames, c.Name())
	}
	assert.ElementsMatch(t, []string{"pre-tool-use", "post-tool-use"}, commandNames)
}

func TestNewPreToolUseCmd(t *testing.T) {
	cmd := newPreToolUseCmd()

	assert.Equal(t, "pre-tool-use", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	err := cmd.Args(cmd, []string{})
	assert.NoError(t, err)

	err = cmd.Args(cmd, []string{"extra"})
	assert.Error(t, err)
}

// writeTestConfig writes a config pointing all file output into dir.
func writeTestConfig(t *testing.T, dir string, checkers ...string) string {
	t.Helper()

	var sb strings.Builder
	fmt.Fprintf(&sb, "audit_log: %s\n", filepath.Join(dir, "audit.log"))
	sb.WriteString("pre_checkers:\n")
	for _, name := range checkers {
		fmt.Fprintf(&sb, "  - %s\n", name)
	}
	sb.WriteString("post_checkers: []\n")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}

func TestPreToolUseCmd_Execute(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		checkers []string
	}{
		{
			name:     "allows a harmless command",
			input:    `{"tool_name": "Bash", "tool_input": {"command": "ls"}}`,
			checkers: []string{"dangerous-command", "no-verify"},
		},
		{
			name:     "invalid JSON fails open",
			input:    `{invalid json}`,
			checkers: []string{"dangerous-command"},
		},
		{
			name:     "missing tool_name fails open",
			input:    `{"tool_input": {"command": "ls"}}`,
			checkers: []string{"dangerous-command"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cmd := newPreToolUseCmd()
			require.NoError(t, cmd.Flags().Set("config", writeTestConfig(t, dir, tt.checkers...)))

			out := new(bytes.Buffer)
			errOut := new(bytes.Buffer)
			cmd.SetOut(out)
			cmd.SetErr(errOut)
			cmd.SetIn(strings.NewReader(tt.input))

			err := cmd.Execute()

			require.NoError(t, err, "the guard must never fail the runtime")
			assert.Empty(t, out.String())
		})
	}
}

func TestPreToolUseCmd_EmitsRewrite(t *testing.T) {
	dir := t.TempDir()
	cmd := newPreToolUseCmd()
	require.NoError(t, cmd.Flags().Set("config", writeTestConfig(t, dir, "search-year")))

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(`{"tool_name": "WebSearch", "tool_input": {"query": "SvelteKit routing docs"}}`))

	err := cmd.Execute()
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, `"hookEventName":"PreToolUse"`)
	assert.Contains(t, output, "SvelteKit routing docs "+strconv.Itoa(time.Now().Year()))
}

func TestPostToolUseCmd_Execute(t *testing.T) {
	dir := t.TempDir()
	cmd := newPostToolUseCmd()
	require.NoError(t, cmd.Flags().Set("config", writeTestConfig(t, dir)))

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(`{"tool_name": "Write", "tool_input": {"file_path": "/tmp/data.csv"}, "tool_response": {"success": true}}`))

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Empty(t, out.String(), "no rewrite output in the after phase")
}
