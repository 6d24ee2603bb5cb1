package checkers

import (
	"context"
	"strings"

	"github.com/michael-freling/agent-guard/internal/guard"
)

// secretPatterns lists credential shapes that must never land in a file.
// Evaluated top to bottom; the first match decides.
var secretPatterns = guard.PatternList{
	guard.NewPattern(`sk_live_[a-zA-Z0-9]+`, guard.VerdictBlock,
		"Stripe live key detected — use environment variables"),
	guard.NewPattern(`sk-[a-zA-Z0-9]{48}`, guard.VerdictBlock,
		"OpenAI key detected — use environment variables"),
	guard.NewPattern(`(?i)service_role_key\s*=\s*['"][^'"]+['"]`, guard.VerdictBlock,
		"Service role key hardcoded — use environment variables"),
	guard.NewPattern(`eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`, guard.VerdictBlock,
		"JWT token detected — use environment variables"),
	guard.NewPattern(`password\s*=\s*['"][^'"]{6,}['"]`, guard.VerdictBlock,
		"Possible hardcoded password — use environment variables"),
}

// ignoredSecretFiles are paths where credential-shaped strings are expected,
// such as documented placeholders.
var ignoredSecretFiles = []string{".env.example", ".env.template", "README.md"}

// secretsChecker blocks file writes that contain hardcoded credentials.
type secretsChecker struct{}

// NewSecretsChecker creates a checker that blocks hardcoded secrets in
// file-write content.
func NewSecretsChecker() guard.Checker {
	return &secretsChecker{}
}

func (c *secretsChecker) Name() string {
	return "secrets"
}

func (c *secretsChecker) Description() string {
	return "Blocks file writes containing hardcoded credentials"
}

func (c *secretsChecker) Tools() []string {
	return []string{"Write", "Edit", "MultiEdit"}
}

func (c *secretsChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	filePath := event.FirstStringArg("file_path", "path")
	content := event.FirstStringArg("content", "new_string")
	if content == "" {
		return guard.NewAllowResult(), nil
	}

	for _, ignored := range ignoredSecretFiles {
		if strings.Contains(filePath, ignored) {
			return guard.NewAllowResult(), nil
		}
	}

	if pattern, ok := secretPatterns.Match(content); ok {
		return guard.NewBlockResult(c.Name(), pattern.Message), nil
	}

	return guard.NewAllowResult(), nil
}
