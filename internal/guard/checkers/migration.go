package checkers

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/michael-freling/agent-guard/internal/guard"
)

// migrationSQLPatterns flags destructive or risky SQL in migration files.
// Operations that irreversibly delete data block; operations that may lose
// data depending on the table contents only warn.
var migrationSQLPatterns = guard.PatternList{
	guard.NewPattern(`(?i)\bDROP\s+TABLE\b`, guard.VerdictBlock,
		"DROP TABLE in migration will delete all data in the table."),
	guard.NewPattern(`(?i)\bDROP\s+SCHEMA\b`, guard.VerdictBlock,
		"DROP SCHEMA in migration will delete the entire schema."),
	guard.NewPattern(`(?i)\bTRUNCATE\b`, guard.VerdictBlock,
		"TRUNCATE in migration will delete all rows."),
	guard.NewPattern(`(?i)\bDELETE\s+FROM\s+\w+\s*;`, guard.VerdictBlock,
		"DELETE without WHERE in migration will delete all rows."),
	guard.NewPattern(`(?i)\bDROP\s+COLUMN\b`, guard.VerdictWarn,
		"DROP COLUMN in migration loses the column's data."),
	guard.NewPattern(`(?i)\bALTER\s+COLUMN\s+\w+\s+SET\s+DATA\s+TYPE\b`, guard.VerdictWarn,
		"Column type change may cause data loss or conversion errors."),
	guard.NewPattern(`(?i)\bALTER\s+TABLE\s+\w+\s+ALTER\s+COLUMN\s+\w+\s+TYPE\b`, guard.VerdictWarn,
		"Column type change may cause data loss."),
	guard.NewPattern(`(?i)\bDROP\s+TYPE\b`, guard.VerdictWarn,
		"DROP TYPE in migration. Ensure no columns still use this type."),
	guard.NewPattern(`(?i)\bDROP\s+CONSTRAINT\b`, guard.VerdictWarn,
		"DROP CONSTRAINT in migration may affect data integrity."),
	guard.NewPattern(`(?i)\bSET\s+NOT\s+NULL\b`, guard.VerdictWarn,
		"SET NOT NULL fails if existing rows contain nulls. Backfill or add a default first."),
}

// migrationSchemaPatterns flags Drizzle schema edits that generate
// destructive migrations.
var migrationSchemaPatterns = guard.PatternList{
	guard.NewPattern(`\.dropTable\s*\(`, guard.VerdictBlock,
		"dropTable() in schema generates a DROP TABLE migration."),
	guard.NewPattern(`\.dropColumn\s*\(`, guard.VerdictWarn,
		"dropColumn() in schema generates a DROP COLUMN migration."),
	guard.NewPattern(`\.alterColumn\s*\([^)]*\)\.setDataType\s*\(`, guard.VerdictWarn,
		"setDataType() in schema may cause data loss."),
}

var migrationNamePattern = regexp.MustCompile(`^\d{4}_`)

var (
	migrationDirs = []string{"migrations/"}
	schemaDirs    = []string{"schema/"}
)

// migrationChecker guards SQL migration and Drizzle schema file writes
// against destructive schema changes.
type migrationChecker struct{}

// NewMigrationChecker creates a checker that blocks destructive operations
// in migration and schema files.
func NewMigrationChecker() guard.Checker {
	return &migrationChecker{}
}

func (c *migrationChecker) Name() string {
	return "migration-guard"
}

func (c *migrationChecker) Description() string {
	return "Guards SQL migrations and Drizzle schemas against destructive changes"
}

func (c *migrationChecker) Tools() []string {
	return []string{"Write", "Edit", "MultiEdit"}
}

func (c *migrationChecker) Evaluate(ctx context.Context, event *guard.InvocationEvent) (*guard.CheckResult, error) {
	filePath := event.FirstStringArg("file_path", "path")
	content := event.FirstStringArg("content", "new_string")
	if filePath == "" || content == "" {
		return guard.NewAllowResult(), nil
	}

	switch {
	case isMigrationFile(filePath):
		if pattern, ok := migrationSQLPatterns.Match(content); ok {
			return c.result(pattern, filePath), nil
		}
		if !migrationNamePattern.MatchString(filepath.Base(filePath)) {
			return guard.NewWarnResult(c.Name(),
				"Migration file name should follow NNNN_name.sql ("+filepath.Base(filePath)+")"), nil
		}
	case isSchemaFile(filePath):
		if pattern, ok := migrationSchemaPatterns.Match(content); ok {
			return c.result(pattern, filePath), nil
		}
	}
	return guard.NewAllowResult(), nil
}

func (c *migrationChecker) result(pattern guard.Pattern, filePath string) *guard.CheckResult {
	message := pattern.Message + " (" + filepath.Base(filePath) + ")"
	if pattern.Verdict == guard.VerdictBlock {
		return guard.NewBlockResult(c.Name(), message)
	}
	return guard.NewWarnResult(c.Name(), message)
}

func isMigrationFile(filePath string) bool {
	if filepath.Ext(filePath) != ".sql" {
		return false
	}
	return containsAnyDir(filePath, migrationDirs)
}

func isSchemaFile(filePath string) bool {
	if filepath.Ext(filePath) != ".ts" || strings.HasSuffix(filePath, "index.ts") {
		return false
	}
	return containsAnyDir(filePath, schemaDirs)
}

func containsAnyDir(filePath string, dirs []string) bool {
	for _, dir := range dirs {
		if strings.Contains(filePath, dir) {
			return true
		}
	}
	return false
}
