package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/michael-freling/agent-guard/internal/command"
	"github.com/michael-freling/agent-guard/internal/guard"
	"github.com/michael-freling/agent-guard/internal/guard/checkers"
	"github.com/michael-freling/agent-guard/internal/guard/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agent-guard",
		Short: "Guard pipeline for agent tool invocations",
		Long:  `A CLI tool invoked by an AI coding-agent runtime before and after tool calls. It evaluates a pipeline of independent checkers against one invocation event read from stdin and answers with an exit code: 0 allow, 1 warn, 2 block.`,
	}

	rootCmd.AddCommand(newPreToolUseCmd())
	rootCmd.AddCommand(newPostToolUseCmd())

	return rootCmd
}

func newPreToolUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pre-tool-use",
		Short: "Evaluate checkers before tool execution",
		Long:  `Reads a proposed tool invocation from stdin as JSON and evaluates the before-phase checkers. Exit code 0 allows, 1 warns, 2 blocks. An accepted input rewrite is emitted to stdout.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, guard.PhaseBefore)
		},
	}
	cmd.Flags().String("config", defaultConfigPath(), "path to the pipeline configuration file")
	return cmd
}

func newPostToolUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post-tool-use",
		Short: "Evaluate checkers after tool execution",
		Long:  `Reads a completed tool invocation from stdin as JSON and evaluates the after-phase checkers. After-phase checkers can warn but never block.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, guard.PhaseAfter)
		},
	}
	cmd.Flags().String("config", defaultConfigPath(), "path to the pipeline configuration file")
	return cmd
}

// runHook evaluates one invocation event against the configured pipeline
// and maps the decision to the process exit code.
//
// The guard fails open everywhere: a malformed event, an unreadable config,
// or a broken logger must never stop legitimate work.
func runHook(cmd *cobra.Command, phase guard.Phase) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.Default()
	}

	event, err := guard.ParseEvent(cmd.InOrStdin(), phase)
	if err != nil {
		return nil
	}

	logger := newLogger(cfg)
	defer func() {
		_ = logger.Sync()
	}()

	pipeline := guard.NewPipeline(logger, time.Duration(cfg.Timeout), buildCheckers(cfg, phase)...)
	decision := pipeline.Evaluate(cmd.Context(), event)

	for _, message := range decision.Messages {
		fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", message.Checker, message.Text)
	}

	if phase == guard.PhaseBefore && decision.Rewritten {
		emitRewrite(cmd, decision.EffectiveInput)
	}

	switch decision.Verdict {
	case guard.VerdictBlock:
		os.Exit(2)
	case guard.VerdictWarn:
		os.Exit(1)
	}

	return nil
}

// buildCheckers maps configured checker names to constructed checkers,
// preserving the configured order. Unknown names are skipped.
func buildCheckers(cfg *config.Config, phase guard.Phase) []guard.Checker {
	runner := command.NewRunner()

	constructors := map[string]func() guard.Checker{
		"audit-log":          func() guard.Checker { return checkers.NewAuditLogChecker(cfg.AuditLog) },
		"dangerous-command":  checkers.NewDangerousCommandChecker,
		"no-verify":          checkers.NewNoVerifyChecker,
		"secrets":            checkers.NewSecretsChecker,
		"import-conventions": checkers.NewImportsChecker,
		"migration-guard":    checkers.NewMigrationChecker,
		"route-conventions":  checkers.NewRoutesChecker,
		"modern-tools":       checkers.NewModernToolsChecker,
		"search-year":        checkers.NewSearchYearChecker,
		"auto-format":        func() guard.Checker { return checkers.NewAutoFormatChecker(runner) },
		"dependency-audit":   func() guard.Checker { return checkers.NewDepAuditChecker(runner) },
	}

	names := cfg.PreCheckers
	if phase == guard.PhaseAfter {
		names = cfg.PostCheckers
	}

	built := make([]guard.Checker, 0, len(names))
	for _, name := range names {
		if constructor, ok := constructors[name]; ok {
			built = append(built, constructor())
		}
	}
	return built
}

// rewriteOutput is the wire format the runtime expects for a modified
// tool input. Absence of this output means the input is used unchanged.
type rewriteOutput struct {
	HookSpecificOutput struct {
		HookEventName     string                 `json:"hookEventName"`
		ModifiedToolInput map[string]interface{} `json:"modifiedToolInput"`
	} `json:"hookSpecificOutput"`
}

// emitRewrite writes the accepted rewrite to stdout for the runtime.
func emitRewrite(cmd *cobra.Command, effectiveInput map[string]interface{}) {
	var output rewriteOutput
	output.HookSpecificOutput.HookEventName = "PreToolUse"
	output.HookSpecificOutput.ModifiedToolInput = effectiveInput

	encoded, err := json.Marshal(output)
	if err != nil {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
}

// newLogger opens a diagnostic file logger next to the audit log.
// Any failure falls back to a no-op logger.
func newLogger(cfg *config.Config) *zap.Logger {
	logDir := filepath.Dir(cfg.AuditLog)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return zap.NewNop()
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{filepath.Join(logDir, "guard.log")}
	zapCfg.ErrorOutputPaths = []string{filepath.Join(logDir, "guard.log")}

	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// defaultConfigPath returns the conventional config location.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".agent-guard", "config.yaml")
}
