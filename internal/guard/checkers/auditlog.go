package checkers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/michael-freling/agent-guard/internal/guard"
)

// auditLogChecker appends one line per invocation to an operator-readable
// log file. It is a fire-and-forget side effect: a failed write downgrades
// to warn and never blocks the tool call.
type auditLogChecker struct {
	path  string
	clock Clock
}

// NewAuditLogChecker creates a checker that records every invocation to the
// given append-only log file.
func NewAuditLogChecker(path string) guard.Checker {
	return NewAuditLogCheckerWithClock(path, time.Now)
}

// NewAuditLogCheckerWithClock creates the checker with a custom clock for testing.
func NewAuditLogCheckerWithClock(path string, clock Clock) guard.Checker {
	return &auditLogChecker{
		path:  path,
		clock: clock,
	}
}

func (c *auditLogChecker) Name() string {
	return "audit-log"
}

func (c *auditLogChecker) Description() string {
	return "Appends every tool invocation to the operator audit log"
}

// Tools returns nil: every invocation is audited.
func (c *auditLogChecker) Tools() []string {
	return nil
}

func (c *auditLogChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	line := c.formatLine(event)

	if err := c.append(line); err != nil {
		return guard.NewWarnResult(c.Name(), fmt.Sprintf("audit log write failed: %v", err)), nil
	}

	return guard.NewAllowResult(), nil
}

// formatLine builds a single audit line with the most useful field per tool.
func (c *auditLogChecker) formatLine(event *guard.InvocationEvent) string {
	var details []string

	if filePath := event.FirstStringArg("file_path", "path"); filePath != "" {
		details = append(details, "file="+shortenPath(filePath))
	}
	if command := event.FirstStringArg("command"); command != "" {
		details = append(details, "cmd="+truncate(strings.ReplaceAll(command, "\n", " "), 80))
	}
	if pattern := event.FirstStringArg("pattern"); pattern != "" {
		details = append(details, "pattern="+truncate(pattern, 40))
	}
	if url := event.FirstStringArg("url"); url != "" {
		details = append(details, "url="+truncate(url, 60))
	}

	detail := "no details"
	if len(details) > 0 {
		detail = strings.Join(details, " | ")
	}

	return fmt.Sprintf("[%s] %s %s(%s): %s\n",
		c.clock().Format("2006-01-02 15:04:05"),
		uuid.NewString(),
		event.ToolName,
		event.Phase,
		detail,
	)
}

// append writes the line under an advisory file lock in a single write call,
// so concurrent invocations never interleave partial lines.
func (c *auditLogChecker) append(line string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	lock := flock.New(c.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire log lock: %w", err)
	}
	defer lock.Unlock()

	file, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("failed to write log line: %w", err)
	}

	return nil
}

// shortenPath trims long paths down to their last two elements.
func shortenPath(path string) string {
	if len(path) <= 50 {
		return path
	}
	return ".../" + filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path))
}

// truncate cuts a string to at most n characters, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
