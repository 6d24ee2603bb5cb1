package guard

import "context"

// Checker represents an independent rule that inspects one invocation event.
//
// Checkers must not mutate the event and must not depend on another checker's
// result; the pipeline may run them in any order or concurrently. Read-only
// access to the local filesystem and environment is allowed.
type Checker interface {
	// Name returns the unique identifier for this checker.
	Name() string

	// Description returns a human-readable description of what this checker does.
	Description() string

	// Tools returns the tool names this checker inspects.
	// A nil or empty slice means the checker applies to every tool.
	Tools() []string

	// Evaluate inspects the event and returns a verdict.
	// Implementations must respect ctx and return promptly on cancellation.
	Evaluate(ctx context.Context, event *InvocationEvent) (*CheckResult, error)
}

// appliesTo reports whether a checker inspects the given tool.
func appliesTo(checker Checker, toolName string) bool {
	tools := checker.Tools()
	if len(tools) == 0 {
		return true
	}
	for _, tool := range tools {
		if tool == toolName {
			return true
		}
	}
	return false
}
