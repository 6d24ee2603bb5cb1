package checkers

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/michael-freling/agent-guard/internal/guard"
)

// Clock provides the current time (allows mocking in tests)
type Clock func() time.Time

// temporalKeywords indicate the query already carries temporal context.
var temporalKeywords = []string{
	"latest", "recent", "current", "new", "now", "today",
	"yesterday", "this week", "this month", "this year",
	"updated", "newest", "modern",
}

// techKeywords mark queries that benefit from a year qualifier.
var techKeywords = []string{
	"documentation", "docs", "api", "tutorial", "guide",
	"best practices", "how to", "example", "setup",
	"install", "configuration", "release", "version",
	"framework", "library", "package", "npm", "pip",
	"routing",
}

var yearPattern = regexp.MustCompile(`\b20[2-3]\d\b`)

// searchYearChecker appends the current year to technical web-search
// queries that lack temporal context, to bias results toward fresh pages.
// This is the one intentionally time-dependent checker; the time dependence
// is confined to the proposed rewrite.
type searchYearChecker struct {
	clock Clock
}

// NewSearchYearChecker creates a checker that enriches WebSearch queries
// with the current year.
func NewSearchYearChecker() guard.Checker {
	return NewSearchYearCheckerWithClock(time.Now)
}

// NewSearchYearCheckerWithClock creates the checker with a custom clock for testing.
func NewSearchYearCheckerWithClock(clock Clock) guard.Checker {
	return &searchYearChecker{
		clock: clock,
	}
}

func (c *searchYearChecker) Name() string {
	return "search-year"
}

func (c *searchYearChecker) Description() string {
	return "Appends the current year to technical WebSearch queries lacking temporal context"
}

func (c *searchYearChecker) Tools() []string {
	return []string{"WebSearch"}
}

func (c *searchYearChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	query, ok := event.GetStringArg("query")
	if !ok || query == "" {
		return guard.NewAllowResult(), nil
	}

	if hasYear(query) || hasTemporalContext(query) || !isTechQuery(query) {
		return guard.NewAllowResult(), nil
	}

	year := strconv.Itoa(c.clock().Year())
	return guard.NewRewriteResult(c.Name(), map[string]interface{}{
		"query": query + " " + year,
	}), nil
}

// hasYear checks if the query already contains a year (2020-2039).
func hasYear(query string) bool {
	return yearPattern.MatchString(query)
}

// hasTemporalContext checks for words indicating the query is already
// time-scoped.
func hasTemporalContext(query string) bool {
	lower := strings.ToLower(query)
	for _, keyword := range temporalKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// isTechQuery checks if the query is likely tech-related and would benefit
// from a year qualifier.
func isTechQuery(query string) bool {
	lower := strings.ToLower(query)
	for _, keyword := range techKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
