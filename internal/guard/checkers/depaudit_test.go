package checkers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/michael-freling/agent-guard/internal/command"
	"github.com/michael-freling/agent-guard/internal/guard"
)

func TestNewDepAuditChecker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checker := NewDepAuditChecker(command.NewMockRunner(ctrl))
	assert.Equal(t, "dependency-audit", checker.Name())
	assert.ElementsMatch(t, []string{"Write", "Edit", "MultiEdit"}, checker.Tools())
}

func TestDepAuditChecker_Evaluate(t *testing.T) {
	tests := []struct {
		name        string
		filePath    string
		setupMock   func(*command.MockRunner)
		wantVerdict guard.Verdict
		wantContain string
	}{
		{
			name:     "clean audit for package.json",
			filePath: "/repo/package.json",
			setupMock: func(m *command.MockRunner) {
				m.EXPECT().LookPath("pnpm").Return(true)
				m.EXPECT().
					RunInDir(gomock.Any(), "/repo", "pnpm", "audit").
					Return("No known vulnerabilities found", "", nil)
			},
			wantVerdict: guard.VerdictAllow,
		},
		{
			name:     "audit findings warn for requirements.txt",
			filePath: "/repo/requirements.txt",
			setupMock: func(m *command.MockRunner) {
				m.EXPECT().LookPath("safety").Return(true)
				m.EXPECT().
					RunInDir(gomock.Any(), "/repo", "safety", "check", "-r", "/repo/requirements.txt").
					Return("2 vulnerabilities found", "", fmt.Errorf("exit status 1"))
			},
			wantVerdict: guard.VerdictWarn,
			wantContain: "2 vulnerabilities found",
		},
		{
			name:     "auditor not installed",
			filePath: "/repo/Cargo.toml",
			setupMock: func(m *command.MockRunner) {
				m.EXPECT().LookPath("cargo").Return(false)
			},
			wantVerdict: guard.VerdictAllow,
		},
		{
			name:        "non-manifest file is ignored",
			filePath:    "/repo/main.go",
			setupMock:   func(m *command.MockRunner) {},
			wantVerdict: guard.VerdictAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRunner := command.NewMockRunner(ctrl)
			tt.setupMock(mockRunner)

			checker := NewDepAuditChecker(mockRunner)
			event := buildAfterEvent(t, "Write",
				map[string]interface{}{"file_path": tt.filePath},
				map[string]interface{}{"success": true},
			)

			got, err := checker.Evaluate(context.Background(), event)
			require.NoError(t, err)

			assert.Equal(t, tt.wantVerdict, got.Verdict)
			if tt.wantContain != "" {
				assert.Contains(t, got.Message, tt.wantContain)
			}
		})
	}
}

func TestDepAuditChecker_SkipsFailedWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checker := NewDepAuditChecker(command.NewMockRunner(ctrl))
	event := buildAfterEvent(t, "Write",
		map[string]interface{}{"file_path": "/repo/package.json"},
		map[string]interface{}{"success": false},
	)

	got, err := checker.Evaluate(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, guard.VerdictAllow, got.Verdict)
}
