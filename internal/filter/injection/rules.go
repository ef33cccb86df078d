package injection

import "regexp"

// Rule defines a prompt injection detection pattern.
type Rule struct {
	Name     string
	Regex    *regexp.Regexp
	Severity float64 // 0.0 to 1.0
	Category string
}

// DefaultRules returns the built-in rules. Questions are wrapped in a
// one-word instruction, so attempts to escape that wrapper score high.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "ignore_previous",
			Regex:    regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+)?(previous|prior|above)\s+(instructions|rules|context)`),
			Severity: 0.95,
			Category: "instruction_bypass",
		},
		{
			Name:     "length_override",
			Regex:    regexp.MustCompile(`(?i)(answer|respond|reply)\s+(in|with)\s+(more\s+than\s+one|multiple|several|many|\d{2,})\s+(words?|sentences?|paragraphs?)`),
			Severity: 0.9,
			Category: "output_steering",
		},
		{
			Name:     "jailbreak",
			Regex:    regexp.MustCompile(`\b(?:DAN|(?i:do\s+anything\s+now|jailbreak|unrestricted\s+mode))\b`),
			Severity: 0.9,
			Category: "role_override",
		},
		{
			Name:     "system_prefix",
			Regex:    regexp.MustCompile(`(?i)(^\s*|\n\s*)system\s*:\s*`),
			Severity: 0.85,
			Category: "role_override",
		},
		{
			Name:     "question_forgery",
			Regex:    regexp.MustCompile(`(?i)\n\s*question\s*:`),
			Severity: 0.8,
			Category: "instruction_bypass",
		},
		{
			Name:     "new_instructions",
			Regex:    regexp.MustCompile(`(?i)(new|updated|revised)\s+instructions?\s*:`),
			Severity: 0.8,
			Category: "instruction_bypass",
		},
		{
			Name:     "you_are_now",
			Regex:    regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|the)\s+`),
			Severity: 0.7,
			Category: "role_override",
		},
	}
}
