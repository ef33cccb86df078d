package secrets

import (
	"context"
	"fmt"

	"github.com/af-corp/bfhl-gateway/internal/config"
	"github.com/af-corp/bfhl-gateway/internal/filter"
)

// Detection represents a detected secret in text.
type Detection struct {
	PatternName string
	Start       int // byte offset
	End         int // byte offset
}

// Scanner scans questions for credentials that should not be sent upstream.
type Scanner struct {
	patterns []Pattern
	cfg      func() config.SecretsFilterConfig
}

// NewScanner creates a scanner with the default secret patterns.
func NewScanner(cfg func() config.SecretsFilterConfig) *Scanner {
	return &Scanner{patterns: DefaultPatterns(), cfg: cfg}
}

func (s *Scanner) Name() string  { return "secrets" }
func (s *Scanner) Enabled() bool { return s.cfg().Enabled }

// Scan checks a single text string for secrets and returns all detections.
func (s *Scanner) Scan(text string) []Detection {
	var detections []Detection
	for _, p := range s.patterns {
		for _, loc := range p.Regex.FindAllStringIndex(text, -1) {
			detections = append(detections, Detection{
				PatternName: p.Name,
				Start:       loc[0],
				End:         loc[1],
			})
		}
	}
	return detections
}

// Inspect implements filter.Check. A credential in the question flags it
// unless the filter is configured to block.
func (s *Scanner) Inspect(_ context.Context, question string) filter.Finding {
	detections := s.Scan(question)
	if len(detections) == 0 {
		return filter.Finding{Check: "secrets", Verdict: filter.VerdictAllow}
	}
	verdict := filter.VerdictFlag
	if s.cfg().Block {
		verdict = filter.VerdictReject
	}
	return filter.Finding{
		Check:   "secrets",
		Verdict: verdict,
		Reason:  fmt.Sprintf("AI question contains a credential (%s)", detections[0].PatternName),
		Matches: len(detections),
		Score:   1,
	}
}
