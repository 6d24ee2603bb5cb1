package checkers

import (
	"context"

	"github.com/michael-freling/agent-guard/internal/guard"
)

// modernToolPatterns suggests faster replacements for classic search tools.
// These are advisory only; the command is never altered.
var modernToolPatterns = guard.PatternList{
	guard.NewPattern(`(?:^|[;&|]\s*)grep\b.*\s-r\b`, guard.VerdictWarn,
		"grep -r is slow on large trees; consider rg (ripgrep) for faster recursive search"),
	guard.NewPattern(`(?:^|[;&|]\s*)grep\s+-rn?\b`, guard.VerdictWarn,
		"grep -r is slow on large trees; consider rg (ripgrep) for faster recursive search"),
	guard.NewPattern(`(?:^|[;&|]\s*)find\s+\S+\s+-name\b`, guard.VerdictWarn,
		"find -name scans everything; consider fd for faster file lookup"),
}

// modernToolsChecker suggests faster alternatives for common search commands.
type modernToolsChecker struct{}

// NewModernToolsChecker creates a checker that warns when a shell command
// uses grep or find where rg or fd would be faster.
func NewModernToolsChecker() guard.Checker {
	return &modernToolsChecker{}
}

func (c *modernToolsChecker) Name() string {
	return "modern-tools"
}

func (c *modernToolsChecker) Description() string {
	return "Suggests rg and fd over grep -r and find for faster searches"
}

func (c *modernToolsChecker) Tools() []string {
	return []string{"Bash"}
}

func (c *modernToolsChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	command, ok := event.GetStringArg("command")
	if !ok || command == "" {
		return guard.NewAllowResult(), nil
	}

	if pattern, ok := modernToolPatterns.Match(command); ok {
		return guard.NewWarnResult(c.Name(), pattern.Message), nil
	}

	return guard.NewAllowResult(), nil
}
