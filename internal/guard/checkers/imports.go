package checkers

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/michael-freling/agent-guard/internal/guard"
)

// importPatterns enforces import-path conventions for JS/TS codebases.
// Cross-package relative imports break when packages move and defeat the
// workspace alias setup, so they block; style issues only warn.
var importPatterns = guard.PatternList{
	guard.NewPattern(`from\s+['"]\.\./\.\./\.\./packages/`, guard.VerdictBlock,
		"Cross-package relative import detected. Use workspace package imports instead."),
	guard.NewPattern(`from\s+['"]\.\./\.\./\.\./apps/`, guard.VerdictBlock,
		"Cross-app relative import detected. Use package imports instead."),
	guard.NewPattern(`from\s+['"]\.+/node_modules/`, guard.VerdictBlock,
		"Relative import from node_modules. Import packages directly by name."),
	guard.NewPattern(`from\s+['"]src/lib/`, guard.VerdictBlock,
		"Absolute path from src/. Use the $lib alias instead."),
	guard.NewPattern(`from\s+['"]/src/`, guard.VerdictBlock,
		"Absolute path starting with /src/. Use $lib or relative imports."),
	guard.NewPattern(`from\s+['"]\.\./\.\./\.\./lib/`, guard.VerdictWarn,
		"Deep relative import to lib/. Consider using the $lib alias."),
	guard.NewPattern(`import\s+\*\s+as\s+\w+\s+from`, guard.VerdictWarn,
		"Wildcard import may prevent tree-shaking. Prefer named imports."),
	guard.NewPattern(`from\s+['"]\$app/stores['"]`, guard.VerdictWarn,
		"$app/stores is deprecated in Svelte 5. Use $app/state instead."),
}

// importExtensions are the file types worth validating.
var importExtensions = map[string]bool{
	".ts":     true,
	".tsx":    true,
	".js":     true,
	".jsx":    true,
	".svelte": true,
}

// importsChecker validates import-path conventions in edited files.
type importsChecker struct{}

// NewImportsChecker creates a checker that validates import paths in
// JS/TS/Svelte file writes.
func NewImportsChecker() guard.Checker {
	return &importsChecker{}
}

func (c *importsChecker) Name() string {
	return "import-conventions"
}

func (c *importsChecker) Description() string {
	return "Enforces import path conventions in JS/TS/Svelte files"
}

func (c *importsChecker) Tools() []string {
	return []string{"Write", "Edit", "MultiEdit"}
}

func (c *importsChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	filePath := event.FirstStringArg("file_path", "path")
	content := event.FirstStringArg("content", "new_string")
	if filePath == "" || content == "" {
		return guard.NewAllowResult(), nil
	}

	if !importExtensions[strings.ToLower(filepath.Ext(filePath))] {
		return guard.NewAllowResult(), nil
	}

	pattern, ok := importPatterns.Match(content)
	if !ok {
		return guard.NewAllowResult(), nil
	}

	message := pattern.Message + " (" + filepath.Base(filePath) + ")"
	if pattern.Verdict == guard.VerdictBlock {
		return guard.NewBlockResult(c.Name(), message), nil
	}
	return guard.NewWarnResult(c.Name(), message), nil
}
