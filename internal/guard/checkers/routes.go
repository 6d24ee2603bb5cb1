package checkers

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/michael-freling/agent-guard/internal/guard"
)

// routePathPatterns catches misnamed SvelteKit route files. Files missing
// the + prefix or using pre-1.0 naming silently fall out of the router,
// so those block; style issues warn.
var routePathPatterns = guard.PatternList{
	guard.NewPattern(`/routes/.*/page\.svelte$`, guard.VerdictBlock,
		"Missing + prefix. Route pages must be named +page.svelte."),
	guard.NewPattern(`/routes/.*/layout\.svelte$`, guard.VerdictBlock,
		"Missing + prefix. Layouts must be named +layout.svelte."),
	guard.NewPattern(`/routes/.*/server\.ts$`, guard.VerdictBlock,
		"Missing + prefix. Endpoints must be named +server.ts."),
	guard.NewPattern(`/routes/.*/error\.svelte$`, guard.VerdictBlock,
		"Missing + prefix. Error pages must be named +error.svelte."),
	guard.NewPattern(`/routes/.*__layout\.svelte$`, guard.VerdictBlock,
		"__layout.svelte is pre-1.0 SvelteKit syntax. Use +layout.svelte."),
	guard.NewPattern(`/routes/.*__error\.svelte$`, guard.VerdictBlock,
		"__error.svelte is pre-1.0 SvelteKit syntax. Use +error.svelte."),
	guard.NewPattern(`/routes/.*/index\.svelte$`, guard.VerdictBlock,
		"index.svelte is pre-1.0 SvelteKit syntax. Use +page.svelte."),
	guard.NewPattern(`/routes/.*\+pages\.svelte$`, guard.VerdictBlock,
		"Typo: +pages.svelte should be +page.svelte."),
	guard.NewPattern(`/routes/.*\+layouts\.svelte$`, guard.VerdictBlock,
		"Typo: +layouts.svelte should be +layout.svelte."),
	guard.NewPattern(`/routes/.*\+page\.server\.js$`, guard.VerdictWarn,
		"Server load file uses .js. Consider .ts for type safety."),
	guard.NewPattern(`/routes/api/.*\+page\.svelte$`, guard.VerdictWarn,
		"+page.svelte under api/. API routes typically use +server.ts only."),
}

// routeContentRule flags content that belongs in a different route file,
// keyed on the file the content is being written to.
type routeContentRule struct {
	file    *regexp.Regexp
	content *regexp.Regexp
	verdict guard.Verdict
	message string
}

var routeContentRules = []routeContentRule{
	{
		file:    regexp.MustCompile(`\+page\.svelte$`),
		content: regexp.MustCompile(`export\s+const\s+load\s*=`),
		verdict: guard.VerdictBlock,
		message: "load function in +page.svelte. Move it to +page.ts or +page.server.ts.",
	},
	{
		file:    regexp.MustCompile(`\+page\.svelte$`),
		content: regexp.MustCompile(`export\s+const\s+actions\s*=`),
		verdict: guard.VerdictBlock,
		message: "Form actions in +page.svelte. Move them to +page.server.ts.",
	},
	{
		file:    regexp.MustCompile(`\+page\.ts$`),
		content: regexp.MustCompile(`export\s+const\s+actions\s*=`),
		verdict: guard.VerdictBlock,
		message: "Form actions in +page.ts. Actions must live in +page.server.ts.",
	},
	{
		file:    regexp.MustCompile(`\+page\.svelte$`),
		content: regexp.MustCompile(`import\s+.*\s+from\s+['"]\$env/static/private['"]`),
		verdict: guard.VerdictBlock,
		message: "Private env import in +page.svelte. Server secrets belong in +page.server.ts.",
	},
}

// validRouteFiles are the file names SvelteKit's router recognizes.
var validRouteFiles = map[string]bool{
	"+page.svelte":      true,
	"+page.ts":          true,
	"+page.server.ts":   true,
	"+layout.svelte":    true,
	"+layout.ts":        true,
	"+layout.server.ts": true,
	"+error.svelte":     true,
	"+server.ts":        true,
	"+server.js":        true,
}

var routeParamPattern = regexp.MustCompile(`^(\[{1,2}\.{0,3}\w+\]{1,2}|\(\w+\)|[\w\-.]+)$`)

const routesDir = "src/routes/"

// routesChecker validates SvelteKit routing conventions on file writes.
type routesChecker struct{}

// NewRoutesChecker creates a checker that enforces SvelteKit route file
// naming and content placement conventions.
func NewRoutesChecker() guard.Checker {
	return &routesChecker{}
}

func (c *routesChecker) Name() string {
	return "route-conventions"
}

func (c *routesChecker) Description() string {
	return "Enforces SvelteKit route file naming and content conventions"
}

func (c *routesChecker) Tools() []string {
	return []string{"Write", "Edit", "MultiEdit"}
}

func (c *routesChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	filePath := event.FirstStringArg("file_path", "path")
	if filePath == "" || !strings.Contains(filePath, routesDir) {
		return guard.NewAllowResult(), nil
	}

	if pattern, ok := routePathPatterns.Match(filePath); ok {
		message := pattern.Message + " (" + filePath + ")"
		if pattern.Verdict == guard.VerdictBlock {
			return guard.NewBlockResult(c.Name(), message), nil
		}
		return guard.NewWarnResult(c.Name(), message), nil
	}

	if message, ok := c.malformedParam(filePath); ok {
		return guard.NewBlockResult(c.Name(), message), nil
	}

	content := event.FirstStringArg("content", "new_string")
	for _, rule := range routeContentRules {
		if rule.file.MatchString(filePath) && rule.content.MatchString(content) {
			if rule.verdict == guard.VerdictBlock {
				return guard.NewBlockResult(c.Name(), rule.message), nil
			}
			return guard.NewWarnResult(c.Name(), rule.message), nil
		}
	}

	name := filepath.Base(filePath)
	if strings.HasPrefix(name, "+") && !validRouteFiles[name] {
		return guard.NewWarnResult(c.Name(),
			fmt.Sprintf("Unrecognized route file %s. SvelteKit only picks up +page, +layout, +error and +server files.", name)), nil
	}

	return guard.NewAllowResult(), nil
}

// malformedParam checks route parameter directories like [slug],
// [[optional]] and [...rest] for mismatched brackets or spaces.
func (c *routesChecker) malformedParam(filePath string) (string, bool) {
	rel := filePath[strings.Index(filePath, routesDir)+len(routesDir):]
	for _, part := range strings.Split(filepath.Dir(rel), "/") {
		if !strings.ContainsAny(part, "[]") {
			continue
		}
		if routeParamPattern.MatchString(part) {
			continue
		}
		if strings.Count(part, "[") != strings.Count(part, "]") {
			return fmt.Sprintf("Malformed route parameter %q: mismatched brackets.", part), true
		}
		if strings.Contains(part, " ") {
			return fmt.Sprintf("Malformed route parameter %q: spaces are not allowed.", part), true
		}
	}
	return "", false
}
