package checkers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/michael-freling/agent-guard/internal/command"
	"github.com/michael-freling/agent-guard/internal/guard"
)

// auditTool describes the vulnerability auditor for one dependency manifest.
type auditTool struct {
	name string
	args []string
	// appendPath marks auditors that take the manifest path as an argument.
	appendPath bool
}

// auditTools maps dependency manifest file names to their auditor.
var auditTools = map[string]auditTool{
	"package.json":     {name: "pnpm", args: []string{"pnpm", "audit"}},
	"pnpm-lock.yaml":   {name: "pnpm", args: []string{"pnpm", "audit"}},
	"requirements.txt": {name: "safety", args: []string{"safety", "check", "-r"}, appendPath: true},
	"Cargo.toml":       {name: "cargo", args: []string{"cargo", "audit"}},
	"Gemfile":          {name: "bundle", args: []string{"bundle", "audit", "check", "--update"}},
}

// depAuditChecker runs a vulnerability audit after a dependency manifest is
// modified. Findings surface as warnings; the edit itself already happened.
type depAuditChecker struct {
	runner command.Runner
}

// NewDepAuditChecker creates a checker that audits dependency manifests
// after they change.
func NewDepAuditChecker(runner command.Runner) guard.Checker {
	return &depAuditChecker{
		runner: runner,
	}
}

func (c *depAuditChecker) Name() string {
	return "dependency-audit"
}

func (c *depAuditChecker) Description() string {
	return "Runs a vulnerability audit when a dependency manifest changes"
}

func (c *depAuditChecker) Tools() []string {
	return []string{"Write", "Edit", "MultiEdit"}
}

func (c *depAuditChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	if event.Phase != guard.PhaseAfter || !event.ResponseSuccess() {
		return guard.NewAllowResult(), nil
	}

	filePath := event.FirstStringArg("file_path", "path")
	if filePath == "" {
		return guard.NewAllowResult(), nil
	}

	tool, ok := auditTools[filepath.Base(filePath)]
	if !ok {
		return guard.NewAllowResult(), nil
	}

	if !c.runner.LookPath(tool.args[0]) {
		return guard.NewAllowResult(), nil
	}

	args := append([]string{}, tool.args[1:]...)
	if tool.appendPath {
		args = append(args, filePath)
	}

	stdout, stderr, err := c.runner.RunInDir(ctx, filepath.Dir(filePath), tool.args[0], args...)
	if err != nil {
		summary := stdout
		if summary == "" {
			summary = stderr
		}
		return guard.NewWarnResult(c.Name(),
			fmt.Sprintf("%s audit found issues for %s: %s", tool.name, filepath.Base(filePath), truncate(summary, 200))), nil
	}

	return guard.NewAllowResult(), nil
}
