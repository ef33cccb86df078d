// Package filter screens AI questions before they reach the delegate.
package filter

import (
	"context"
	"log/slog"

	"github.com/af-corp/bfhl-gateway/internal/telemetry"
	"github.com/af-corp/bfhl-gateway/internal/types"
)

// Verdict is what a check thinks of a question.
type Verdict string

const (
	VerdictAllow  Verdict = "allow"
	VerdictFlag   Verdict = "flag"
	VerdictReject Verdict = "reject"
)

// Finding is one check's opinion of a question. Reason is returned to the
// caller when the verdict is VerdictReject.
type Finding struct {
	Check   string
	Verdict Verdict
	Reason  string
	Matches int
	Score   float64
}

// Check inspects a single AI question.
type Check interface {
	Name() string
	Enabled() bool
	Inspect(ctx context.Context, question string) Finding
}

// Screen applies every enabled check to a question. All checks run, so each
// flag is logged and counted even when an earlier check already rejected.
type Screen struct {
	checks  []Check
	metrics *telemetry.Metrics
}

// NewScreen builds a screen. metrics may be nil.
func NewScreen(metrics *telemetry.Metrics, checks ...Check) *Screen {
	return &Screen{checks: checks, metrics: metrics}
}

// Inspect returns the findings of every enabled check that did not allow
// the question, in check order.
func (s *Screen) Inspect(ctx context.Context, question string) []Finding {
	var findings []Finding
	for _, c := range s.checks {
		if !c.Enabled() {
			continue
		}
		if f := c.Inspect(ctx, question); f.Verdict != VerdictAllow {
			findings = append(findings, f)
		}
	}
	return findings
}

// Question screens question and returns a validation error carrying the
// first rejection's reason, or nil when the question may be forwarded.
func (s *Screen) Question(ctx context.Context, question string) error {
	var rejected *Finding
	findings := s.Inspect(ctx, question)
	for i, f := range findings {
		slog.WarnContext(ctx, "ai question screened",
			"check", f.Check,
			"verdict", string(f.Verdict),
			"matches", f.Matches,
			"score", f.Score,
		)
		if s.metrics != nil {
			s.metrics.RecordFilterAction(f.Check, string(f.Verdict))
		}
		if f.Verdict == VerdictReject && rejected == nil {
			rejected = &findings[i]
		}
	}
	if rejected != nil {
		return types.NewValidationError(rejected.Reason)
	}
	return nil
}
