// Package guard implements the tool-invocation guard pipeline: one
// invocation event in, a pipeline of independent checkers evaluated against
// it, one aggregate allow/warn/block decision out.
package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds how long the pipeline waits for its checkers.
// Checkers that shell out to formatters or auditors can be slow; a checker
// that has not answered by the deadline is treated as allow, never block.
const DefaultTimeout = 3 * time.Second

// Message is one non-allow annotation surfaced by the pipeline, in
// checker-registration order.
type Message struct {
	Checker string
	Verdict Verdict
	Text    string
}

// PipelineDecision is the aggregate result returned to the runtime.
type PipelineDecision struct {
	// Verdict is the lattice maximum over all checker verdicts.
	Verdict Verdict

	// Messages holds every non-allow message, plus timeout notices for
	// skipped checkers, in registration order. Timeout notices carry
	// VerdictAllow and never raise the decision's verdict.
	Messages []Message

	// EffectiveInput is the tool input with any accepted rewrite applied.
	EffectiveInput map[string]interface{}

	// Rewritten reports whether EffectiveInput differs from the original input.
	Rewritten bool
}

// Pipeline evaluates an ordered list of independent checkers against one
// invocation event. It is stateless across invocations.
type Pipeline struct {
	checkers []Checker
	timeout  time.Duration
	logger   *zap.Logger
}

// NewPipeline creates a pipeline over the given checkers in registration order.
// A nil logger disables diagnostic logging. A non-positive timeout falls back
// to DefaultTimeout.
func NewPipeline(logger *zap.Logger, timeout time.Duration, checkers ...Checker) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pipeline{
		checkers: checkers,
		timeout:  timeout,
		logger:   logger,
	}
}

// checkerOutput carries one checker's result back to the collecting goroutine.
// The index preserves registration order for aggregation.
type checkerOutput struct {
	index  int
	result *CheckResult
	err    error
}

// Evaluate runs every applicable checker against the same immutable event,
// concurrently, and aggregates their verdicts over the lattice.
//
// Failure semantics: a checker error or panic downgrades to warn; a checker
// that misses the deadline downgrades to allow with a timeout notice. Nothing
// escalates to block because of the guard's own malfunction.
func (p *Pipeline) Evaluate(ctx context.Context, event *InvocationEvent) *PipelineDecision {
	invocationID := uuid.NewString()

	applicable := make([]Checker, 0, len(p.checkers))
	for _, checker := range p.checkers {
		if appliesTo(checker, event.ToolName) {
			applicable = append(applicable, checker)
		}
	}

	p.logger.Debug("evaluating pipeline",
		zap.String("invocation_id", invocationID),
		zap.String("tool", event.ToolName),
		zap.String("phase", string(event.Phase)),
		zap.Int("checkers", len(applicable)),
	)

	results := p.runCheckers(ctx, event, applicable, invocationID)

	return p.aggregate(event, applicable, results, invocationID)
}

// runCheckers fans the event out to every applicable checker and collects
// results until all have answered or the deadline fires. A slot left nil
// means that checker did not answer in time.
func (p *Pipeline) runCheckers(ctx context.Context, event *InvocationEvent, applicable []Checker, invocationID string) []*checkerOutput {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ch := make(chan checkerOutput, len(applicable))
	for i, checker := range applicable {
		go func(i int, checker Checker) {
			defer func() {
				if r := recover(); r != nil {
					ch <- checkerOutput{index: i, err: fmt.Errorf("checker panicked: %v", r)}
				}
			}()
			result, err := checker.Evaluate(ctx, event)
			ch <- checkerOutput{index: i, result: result, err: err}
		}(i, checker)
	}

	results := make([]*checkerOutput, len(applicable))
	remaining := len(applicable)
	for remaining > 0 {
		select {
		case out := <-ch:
			results[out.index] = &out
			remaining--
		case <-ctx.Done():
			p.logger.Warn("checker deadline exceeded, treating stragglers as allow",
				zap.String("invocation_id", invocationID),
				zap.Duration("timeout", p.timeout),
			)
			remaining = 0
		}
	}

	return results
}

// aggregate folds the collected results into one decision, applying the
// phase invariant, the verdict lattice, and the rewrite policy.
func (p *Pipeline) aggregate(event *InvocationEvent, applicable []Checker, results []*checkerOutput, invocationID string) *PipelineDecision {
	decision := &PipelineDecision{
		Verdict:        VerdictAllow,
		EffectiveInput: event.InputFields(),
	}

	for i, out := range results {
		name := applicable[i].Name()

		if out == nil {
			decision.Messages = append(decision.Messages, Message{
				Checker: name,
				Verdict: VerdictAllow,
				Text:    fmt.Sprintf("checker %s timed out and was skipped", name),
			})
			continue
		}

		if out.err != nil {
			p.logger.Warn("checker failed",
				zap.String("invocation_id", invocationID),
				zap.String("checker", name),
				zap.Error(out.err),
			)
			decision.Messages = append(decision.Messages, Message{
				Checker: name,
				Verdict: VerdictWarn,
				Text:    fmt.Sprintf("checker %s failed: %v", name, out.err),
			})
			if VerdictWarn.Exceeds(decision.Verdict) {
				decision.Verdict = VerdictWarn
			}
			continue
		}

		result := out.result
		if result == nil {
			continue
		}

		verdict := result.Verdict
		// An already-executed tool cannot be retroactively stopped.
		if verdict == VerdictBlock && event.Phase == PhaseAfter {
			p.logger.Warn("block verdict downgraded in after phase",
				zap.String("invocation_id", invocationID),
				zap.String("checker", name),
			)
			verdict = VerdictWarn
		}

		if verdict != VerdictAllow {
			decision.Messages = append(decision.Messages, Message{
				Checker: name,
				Verdict: verdict,
				Text:    result.Message,
			})
		}
		if verdict.Exceeds(decision.Verdict) {
			decision.Verdict = verdict
		}

		if len(result.Rewrite) > 0 {
			p.applyRewrite(event, decision, name, result.Rewrite, invocationID)
		}
	}

	p.logger.Info("pipeline decision",
		zap.String("invocation_id", invocationID),
		zap.String("tool", event.ToolName),
		zap.String("verdict", decision.Verdict.String()),
		zap.Bool("rewritten", decision.Rewritten),
	)

	return decision
}

// applyRewrite merges a checker's proposed rewrite into the effective input.
// Rewrites apply only in the before phase, and the first registered checker
// to supply one wins; later conflicting rewrites are logged as warnings.
func (p *Pipeline) applyRewrite(event *InvocationEvent, decision *PipelineDecision, name string, rewrite map[string]interface{}, invocationID string) {
	if event.Phase != PhaseBefore {
		p.logger.Warn("rewrite ignored outside before phase",
			zap.String("invocation_id", invocationID),
			zap.String("checker", name),
		)
		return
	}

	if decision.Rewritten {
		p.logger.Warn("conflicting rewrite rejected",
			zap.String("invocation_id", invocationID),
			zap.String("checker", name),
		)
		decision.Messages = append(decision.Messages, Message{
			Checker: name,
			Verdict: VerdictWarn,
			Text:    fmt.Sprintf("checker %s proposed a rewrite but an earlier checker's rewrite was already accepted", name),
		})
		if VerdictWarn.Exceeds(decision.Verdict) {
			decision.Verdict = VerdictWarn
		}
		return
	}

	for key, value := range rewrite {
		decision.EffectiveInput[key] = value
	}
	decision.Rewritten = true
}
