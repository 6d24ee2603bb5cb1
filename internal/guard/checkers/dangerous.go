package checkers

import (
	"context"

	"github.com/michael-freling/agent-guard/internal/guard"
)

// dangerousPatterns lists destructive shell commands that are never
// acceptable from an agent. Evaluated top to bottom.
var dangerousPatterns = guard.PatternList{
	guard.NewPattern(`(?i)rm\s+-rf\s+/(?:\s|$)`, guard.VerdictBlock, "Dangerous: rm -rf on root"),
	guard.NewPattern(`(?i)rm\s+-rf\s+~`, guard.VerdictBlock, "Dangerous: rm -rf on home directory"),
	guard.NewPattern(`(?i)sudo\s+rm`, guard.VerdictBlock, "Dangerous: sudo rm"),
	guard.NewPattern(`(?i)sudo\s+chmod`, guard.VerdictBlock, "Dangerous: sudo chmod"),
	guard.NewPattern(`(?i)chmod\s+777`, guard.VerdictBlock, "Dangerous: chmod 777 is insecure"),
	guard.NewPattern(`(?i)>\s*/dev/sd[a-z]`, guard.VerdictBlock, "Dangerous: writing to disk device"),
	guard.NewPattern(`(?i)curl\s+[^|]*\|\s*(ba)?sh`, guard.VerdictBlock, "Dangerous: piping curl to shell"),
	guard.NewPattern(`(?i)wget\s+[^|]*\|\s*(ba)?sh`, guard.VerdictBlock, "Dangerous: piping wget to shell"),
	guard.NewPattern(`(?i)DROP\s+TABLE`, guard.VerdictBlock, "Dangerous: SQL DROP TABLE"),
	guard.NewPattern(`(?i)DROP\s+DATABASE`, guard.VerdictBlock, "Dangerous: SQL DROP DATABASE"),
	guard.NewPattern(`(?i)TRUNCATE\s+TABLE`, guard.VerdictBlock, "Dangerous: TRUNCATE TABLE"),
	guard.NewPattern(`(?i)DELETE\s+FROM\s+\S+\s*(;|$)`, guard.VerdictBlock, "Dangerous: DELETE without WHERE clause"),
	guard.NewPattern(`>\s*/dev/null\s*2>&1\s*&`, guard.VerdictBlock, "Dangerous: silent background process"),
	guard.NewPattern(`:\(\)\s*\{\s*:\|:&\s*\}`, guard.VerdictBlock, "Dangerous: fork bomb"),
	guard.NewPattern(`(?i)mkfs\.`, guard.VerdictBlock, "Dangerous: filesystem formatting"),
	guard.NewPattern(`(?i)\bdd\s+if=`, guard.VerdictBlock, "Dangerous: dd can destroy data"),
	guard.NewPattern(`(?i)>\s*/etc/`, guard.VerdictBlock, "Dangerous: overwriting system config"),
	guard.NewPattern(`(?i)--no-preserve-root`, guard.VerdictBlock, "Dangerous: bypassing root protection"),
}

// dangerousCommandChecker blocks destructive shell commands.
type dangerousCommandChecker struct{}

// NewDangerousCommandChecker creates a checker that blocks destructive
// shell commands before they execute.
func NewDangerousCommandChecker() guard.Checker {
	return &dangerousCommandChecker{}
}

func (c *dangerousCommandChecker) Name() string {
	return "dangerous-command"
}

func (c *dangerousCommandChecker) Description() string {
	return "Blocks destructive shell commands such as rm -rf / and curl piped to shell"
}

func (c *dangerousCommandChecker) Tools() []string {
	return []string{"Bash"}
}

func (c *dangerousCommandChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	command, ok := event.GetStringArg("command")
	if !ok || command == "" {
		return guard.NewAllowResult(), nil
	}

	if pattern, ok := dangerousPatterns.Match(command); ok {
		return guard.NewBlockResult(c.Name(), pattern.Message), nil
	}

	return guard.NewAllowResult(), nil
}
