package guard

// CheckResult represents the result of evaluating a single checker.
type CheckResult struct {
	// Verdict indicates whether the tool usage should be allowed,
	// allowed with a notice, or blocked.
	Verdict Verdict

	// Message provides additional context about the decision.
	// Required for any verdict other than allow.
	Message string

	// CheckerName identifies which checker produced this result.
	CheckerName string

	// Rewrite optionally replaces part of the tool input fields.
	// Only honored during the before phase.
	Rewrite map[string]interface{}
}

// NewAllowResult creates a result that allows the tool usage.
func NewAllowResult() *CheckResult {
	return &CheckResult{
		Verdict: VerdictAllow,
	}
}

// NewWarnResult creates a result that allows the tool usage with a notice.
func NewWarnResult(checkerName, message string) *CheckResult {
	return &CheckResult{
		Verdict:     VerdictWarn,
		Message:     message,
		CheckerName: checkerName,
	}
}

// NewBlockResult creates a result that blocks the tool usage.
func NewBlockResult(checkerName, message string) *CheckResult {
	return &CheckResult{
		Verdict:     VerdictBlock,
		Message:     message,
		CheckerName: checkerName,
	}
}

// NewRewriteResult creates an allow result that proposes replacement
// values for the given tool input fields.
func NewRewriteResult(checkerName string, rewrite map[string]interface{}) *CheckResult {
	return &CheckResult{
		Verdict:     VerdictAllow,
		CheckerName: checkerName,
		Rewrite:     rewrite,
	}
}
