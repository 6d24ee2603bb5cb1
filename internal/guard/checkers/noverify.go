package checkers

import (
	"context"

	"github.com/michael-freling/agent-guard/internal/guard"
)

// noVerifyChecker blocks Bash commands containing the --no-verify flag.
type noVerifyChecker struct{}

// NewNoVerifyChecker creates a checker that blocks commands with --no-verify.
func NewNoVerifyChecker() guard.Checker {
	return &noVerifyChecker{}
}

func (c *noVerifyChecker) Name() string {
	return "no-verify"
}

func (c *noVerifyChecker) Description() string {
	return "Blocks Bash commands containing the --no-verify flag"
}

func (c *noVerifyChecker) Tools() []string {
	return []string{"Bash"}
}

func (c *noVerifyChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	command, ok := event.GetStringArg("command")
	if !ok {
		return guard.NewAllowResult(), nil
	}

	if containsNoVerifyFlag(command) {
		return guard.NewBlockResult(
			c.Name(),
			"Command contains --no-verify flag which bypasses git hooks",
		), nil
	}

	return guard.NewAllowResult(), nil
}

// containsNoVerifyFlag checks if a command contains the --no-verify flag.
// It performs basic parsing to avoid false positives in string literals.
func containsNoVerifyFlag(command string) bool {
	for _, token := range commandTokens(command) {
		if token == "--no-verify" {
			return true
		}
	}
	return false
}
