package checkers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michael-freling/agent-guard/internal/guard"
)

func TestNewRoutesChecker(t *testing.T) {
	checker := NewRoutesChecker()
	assert.Equal(t, "route-conventions", checker.Name())
	assert.ElementsMatch(t, []string{"Write", "Edit", "MultiEdit"}, checker.Tools())
}

func TestRoutesChecker_Evaluate(t *testing.T) {
	tests := []struct {
		name        string
		filePath    string
		content     string
		wantVerdict guard.Verdict
		wantContain string
	}{
		{
			name:        "blocks page file without plus prefix",
			filePath:    "apps/web/src/routes/about/page.svelte",
			wantVerdict: guard.VerdictBlock,
			wantContain: "Missing + prefix",
		},
		{
			name:        "blocks pre-1.0 layout naming",
			filePath:    "apps/web/src/routes/__layout.svelte",
			wantVerdict: guard.VerdictBlock,
			wantContain: "pre-1.0 SvelteKit syntax",
		},
		{
			name:        "blocks index.svelte page",
			filePath:    "apps/web/src/routes/blog/index.svelte",
			wantVerdict: guard.VerdictBlock,
			wantContain: "index.svelte",
		},
		{
			name:        "blocks pluralized page typo",
			filePath:    "apps/web/src/routes/settings/+pages.svelte",
			wantVerdict: guard.VerdictBlock,
			wantContain: "+pages.svelte should be +page.svelte",
		},
		{
			name:        "warns on js server load file",
			filePath:    "apps/web/src/routes/blog/+page.server.js",
			wantVerdict: guard.VerdictWarn,
			wantContain: ".js",
		},
		{
			name:        "warns on page component under api routes",
			filePath:    "apps/web/src/routes/api/health/+page.svelte",
			wantVerdict: guard.VerdictWarn,
			wantContain: "api/",
		},
		{
			name:        "blocks mismatched route parameter brackets",
			filePath:    "apps/web/src/routes/blog/[slug/+page.svelte",
			wantVerdict: guard.VerdictBlock,
			wantContain: "mismatched brackets",
		},
		{
			name:        "blocks spaces in route parameter",
			filePath:    "apps/web/src/routes/blog/[ slug ]/+page.svelte",
			wantVerdict: guard.VerdictBlock,
			wantContain: "spaces",
		},
		{
			name:        "blocks load function in page component",
			filePath:    "apps/web/src/routes/dashboard/+page.svelte",
			content:     "export const load = async () => ({});",
			wantVerdict: guard.VerdictBlock,
			wantContain: "load function in +page.svelte",
		},
		{
			name:        "blocks actions outside server module",
			filePath:    "apps/web/src/routes/contact/+page.ts",
			content:     "export const actions = { default: async () => {} };",
			wantVerdict: guard.VerdictBlock,
			wantContain: "+page.server.ts",
		},
		{
			name:        "blocks private env import in page component",
			filePath:    "apps/web/src/routes/admin/+page.svelte",
			content:     `import { API_SECRET } from '$env/static/private';`,
			wantVerdict: guard.VerdictBlock,
			wantContain: "Private env import",
		},
		{
			name:        "warns on unrecognized plus file",
			filePath:    "apps/web/src/routes/admin/+widget.svelte",
			wantVerdict: guard.VerdictWarn,
			wantContain: "Unrecognized route file",
		},
		{
			name:        "allows valid page component",
			filePath:    "apps/web/src/routes/blog/[slug]/+page.svelte",
			content:     "<script>let data = $props();</script>",
			wantVerdict: guard.VerdictAllow,
		},
		{
			name:        "allows rest parameter route",
			filePath:    "apps/web/src/routes/docs/[...path]/+page.server.ts",
			content:     "export const load = async () => ({});",
			wantVerdict: guard.VerdictAllow,
		},
		{
			name:        "allows optional parameter route",
			filePath:    "apps/web/src/routes/[[lang]]/+layout.svelte",
			wantVerdict: guard.VerdictAllow,
		},
		{
			name:        "ignores files outside routes directory",
			filePath:    "apps/web/src/lib/components/page.svelte",
			wantVerdict: guard.VerdictAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewRoutesChecker()
			event := buildEvent(t, "Write", map[string]interface{}{
				"file_path": tt.filePath,
				"content":   tt.content,
			}, guard.PhaseBefore)

			got, err := checker.Evaluate(context.Background(), event)
			require.NoError(t, err)

			assert.Equal(t, tt.wantVerdict, got.Verdict)
			if tt.wantVerdict != guard.VerdictAllow {
				assert.Equal(t, "route-conventions", got.CheckerName)
				assert.Contains(t, got.Message, tt.wantContain)
			}
		})
	}
}
