package checkers

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michael-freling/agent-guard/internal/guard"
)

// buildEvent constructs an invocation event from tool name and input fields.
func buildEvent(t *testing.T, toolName string, input map[string]interface{}, phase guard.Phase) *guard.InvocationEvent {
	t.Helper()

	payload := map[string]interface{}{
		"tool_name":  toolName,
		"tool_input": input,
	}
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	event, err := guard.ParseEvent(strings.NewReader(string(encoded)), phase)
	require.NoError(t, err)
	return event
}

// buildAfterEvent constructs an after-phase event including a tool response.
func buildAfterEvent(t *testing.T, toolName string, input, response map[string]interface{}) *guard.InvocationEvent {
	t.Helper()

	payload := map[string]interface{}{
		"tool_name":     toolName,
		"tool_input":    input,
		"tool_response": response,
	}
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	event, err := guard.ParseEvent(strings.NewReader(string(encoded)), guard.PhaseAfter)
	require.NoError(t, err)
	return event
}

func TestNewSecretsChecker(t *testing.T) {
	checker := NewSecretsChecker()
	assert.Equal(t, "secrets", checker.Name())
	assert.NotEmpty(t, checker.Description())
	assert.ElementsMatch(t, []string{"Write", "Edit", "MultiEdit"}, checker.Tools())
}

func TestSecretsChecker_Evaluate(t *testing.T) {
	tests := []struct {
		name        string
		input       map[string]interface{}
		wantVerdict guard.Verdict
		wantMessage string
	}{
		{
			name: "blocks hardcoded password",
			input: map[string]interface{}{
				"file_path": "/app/config.py",
				"content":   "password = 'hunter2'",
			},
			wantVerdict: guard.VerdictBlock,
			wantMessage: "Possible hardcoded password — use environment variables",
		},
		{
			name: "blocks Stripe live key",
			input: map[string]interface{}{
				"file_path": "/app/payment.ts",
				"content":   `const key = "sk_live_abcDEF123456";`,
			},
			wantVerdict: guard.VerdictBlock,
			wantMessage: "Stripe live key detected — use environment variables",
		},
		{
			name: "blocks service role key in new_string",
			input: map[string]interface{}{
				"path":       "/app/db.ts",
				"new_string": `SUPABASE_SERVICE_ROLE_KEY = "abc123def"`,
			},
			wantVerdict: guard.VerdictBlock,
			wantMessage: "Service role key hardcoded — use environment variables",
		},
		{
			name: "allows clean content",
			input: map[string]interface{}{
				"file_path": "/app/main.go",
				"content":   `password := os.Getenv("DB_PASSWORD")`,
			},
			wantVerdict: guard.VerdictAllow,
		},
		{
			name: "allows secrets in env example file",
			input: map[string]interface{}{
				"file_path": "/app/.env.example",
				"content":   "password = 'replace-me-please'",
			},
			wantVerdict: guard.VerdictAllow,
		},
		{
			name: "allows short password",
			input: map[string]interface{}{
				"file_path": "/app/test.py",
				"content":   "password = 'x'",
			},
			wantVerdict: guard.VerdictAllow,
		},
		{
			name:        "allows missing content",
			input:       map[string]interface{}{"file_path": "/app/main.go"},
			wantVerdict: guard.VerdictAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewSecretsChecker()
			event := buildEvent(t, "Write", tt.input, guard.PhaseBefore)

			got, err := checker.Evaluate(context.Background(), event)
			require.NoError(t, err)

			assert.Equal(t, tt.wantVerdict, got.Verdict)
			if tt.wantVerdict != guard.VerdictAllow {
				assert.Equal(t, "secrets", got.CheckerName)
				assert.Equal(t, tt.wantMessage, got.Message)
			}
		})
	}
}
