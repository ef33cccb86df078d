package injection

import (
	"context"
	"fmt"

	"github.com/af-corp/bfhl-gateway/internal/config"
	"github.com/af-corp/bfhl-gateway/internal/filter"
)

// Detection records a matched injection pattern.
type Detection struct {
	RuleName string
	Severity float64
	Category string
	Start    int
	End      int
}

// Scanner scores questions against prompt injection rules.
type Scanner struct {
	rules []Rule
	cfg   func() config.InjectionFilterConfig
}

// NewScanner creates a prompt injection scanner.
func NewScanner(cfg func() config.InjectionFilterConfig) *Scanner {
	return &Scanner{rules: DefaultRules(), cfg: cfg}
}

func (s *Scanner) Name() string  { return "injection" }
func (s *Scanner) Enabled() bool { return s.cfg().Enabled }

// Scan checks a single text string and returns all detections and the max severity.
func (s *Scanner) Scan(text string) ([]Detection, float64) {
	var detections []Detection
	maxScore := 0.0
	for _, r := range s.rules {
		for _, loc := range r.Regex.FindAllStringIndex(text, -1) {
			detections = append(detections, Detection{
				RuleName: r.Name,
				Severity: r.Severity,
				Category: r.Category,
				Start:    loc[0],
				End:      loc[1],
			})
			if r.Severity > maxScore {
				maxScore = r.Severity
			}
		}
	}
	return detections, maxScore
}

// Inspect implements filter.Check. Scores at or above the block threshold
// only reject when blocking is enabled; otherwise they flag.
func (s *Scanner) Inspect(_ context.Context, question string) filter.Finding {
	detections, score := s.Scan(question)
	cfg := s.cfg()

	if cfg.Block && len(detections) > 0 && score >= cfg.BlockThreshold {
		return filter.Finding{
			Check:   "injection",
			Verdict: filter.VerdictReject,
			Reason:  fmt.Sprintf("AI question rejected: prompt injection detected (score %.2f)", score),
			Matches: len(detections),
			Score:   score,
		}
	}
	if score >= cfg.FlagThreshold && len(detections) > 0 {
		return filter.Finding{
			Check:   "injection",
			Verdict: filter.VerdictFlag,
			Matches: len(detections),
			Score:   score,
		}
	}
	return filter.Finding{Check: "injection", Verdict: filter.VerdictAllow, Score: score}
}
