package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate rejects settings the service cannot start with. A missing AI
// credential is not an error here; it fails per request instead.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive"))
	}
	if strings.TrimSpace(c.Identity.OfficialEmail) == "" {
		errs = append(errs, fmt.Errorf("identity.official_email is required"))
	}
	switch c.AI.Backend {
	case "gemini", "genai", "openai":
	default:
		errs = append(errs, fmt.Errorf("ai.backend %q is not one of gemini, genai, openai", c.AI.Backend))
	}
	if c.AI.Backend == "openai" && c.AI.BaseURL == "" {
		errs = append(errs, fmt.Errorf("ai.base_url is required for the openai backend"))
	}
	if c.AI.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("ai.timeout must be positive"))
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.requests_per_minute must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
