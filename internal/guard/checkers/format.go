package checkers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/michael-freling/agent-guard/internal/command"
	"github.com/michael-freling/agent-guard/internal/guard"
)

// formatter describes how to invoke one external code formatter.
type formatter struct {
	name string
	// args is the command line; the file path is appended.
	args []string
	// lookup is the executable probed for availability.
	lookup string
}

// formatters maps file extensions to the formatter that handles them.
var formatters = map[string]formatter{
	".js":     {name: "Prettier", args: []string{"npx", "prettier", "--write"}, lookup: "npx"},
	".jsx":    {name: "Prettier", args: []string{"npx", "prettier", "--write"}, lookup: "npx"},
	".ts":     {name: "Prettier", args: []string{"npx", "prettier", "--write"}, lookup: "npx"},
	".tsx":    {name: "Prettier", args: []string{"npx", "prettier", "--write"}, lookup: "npx"},
	".json":   {name: "Prettier", args: []string{"npx", "prettier", "--write"}, lookup: "npx"},
	".css":    {name: "Prettier", args: []string{"npx", "prettier", "--write"}, lookup: "npx"},
	".md":     {name: "Prettier", args: []string{"npx", "prettier", "--write"}, lookup: "npx"},
	".yaml":   {name: "Prettier", args: []string{"npx", "prettier", "--write"}, lookup: "npx"},
	".yml":    {name: "Prettier", args: []string{"npx", "prettier", "--write"}, lookup: "npx"},
	".svelte": {name: "Prettier", args: []string{"npx", "prettier", "--write", "--plugin", "prettier-plugin-svelte"}, lookup: "npx"},
	".py":     {name: "Black", args: []string{"black", "--quiet"}, lookup: "black"},
	".go":     {name: "gofmt", args: []string{"gofmt", "-w"}, lookup: "gofmt"},
	".rs":     {name: "rustfmt", args: []string{"rustfmt"}, lookup: "rustfmt"},
}

// skipFormatPaths are path fragments that must never be formatted, such as
// vendored code and build output.
var skipFormatPaths = []string{
	"node_modules",
	".svelte-kit",
	"build",
	"dist",
	"vendor",
	"__pycache__",
	".git",
	"pnpm-lock.yaml",
	"package-lock.json",
	"yarn.lock",
}

// autoFormatChecker runs the matching formatter after a successful file write.
// It only ever warns: formatting is best effort and must not stop anything.
type autoFormatChecker struct {
	runner command.Runner
}

// NewAutoFormatChecker creates a checker that formats files after edits
// using the formatter mapped to the file extension.
func NewAutoFormatChecker(runner command.Runner) guard.Checker {
	return &autoFormatChecker{
		runner: runner,
	}
}

func (c *autoFormatChecker) Name() string {
	return "auto-format"
}

func (c *autoFormatChecker) Description() string {
	return "Formats edited files with the formatter for their file type"
}

func (c *autoFormatChecker) Tools() []string {
	return []string{"Write", "Edit", "MultiEdit"}
}

func (c *autoFormatChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	if event.Phase != guard.PhaseAfter || !event.ResponseSuccess() {
		return guard.NewAllowResult(), nil
	}

	filePath := event.FirstStringArg("file_path", "path")
	if filePath == "" || shouldSkipPath(filePath) {
		return guard.NewAllowResult(), nil
	}

	f, ok := formatters[strings.ToLower(filepath.Ext(filePath))]
	if !ok {
		return guard.NewAllowResult(), nil
	}

	if !c.runner.LookPath(f.lookup) {
		return guard.NewAllowResult(), nil
	}

	args := append(append([]string{}, f.args[1:]...), filePath)
	_, stderr, err := c.runner.RunInDir(ctx, filepath.Dir(filePath), f.args[0], args...)
	if err != nil {
		return guard.NewWarnResult(c.Name(),
			fmt.Sprintf("%s failed for %s: %v (stderr: %s)", f.name, filepath.Base(filePath), err, truncate(stderr, 100))), nil
	}

	return guard.NewAllowResult(), nil
}

// shouldSkipPath reports whether the file lives in a path that must not be
// formatted.
func shouldSkipPath(filePath string) bool {
	for _, pattern := range skipFormatPaths {
		if strings.Contains(filePath, pattern) {
			return true
		}
	}
	return false
}
