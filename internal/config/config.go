package config

import (
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Identity  IdentityConfig  `yaml:"identity"`
	AI        AIConfig        `yaml:"ai"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Filter    FilterConfig    `yaml:"filter"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxBodyBytes     int64         `yaml:"max_body_bytes"`
	StaticDir        string        `yaml:"static_dir"`
	// TrustForwardedHeaders takes the client address from X-Forwarded-For
	// or X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustForwardedHeaders bool `yaml:"trust_forwarded_headers"`
}

// IdentityConfig holds the fixed contact string echoed in every envelope.
type IdentityConfig struct {
	OfficialEmail string `yaml:"official_email"`
}

// AIConfig configures the single-word answer delegate.
type AIConfig struct {
	// Backend selects the upstream client: "gemini", "genai" or "openai".
	Backend        string               `yaml:"backend"`
	APIKey         string               `yaml:"api_key"`
	APIKeyFallback string               `yaml:"api_key_fallback"`
	Model          string               `yaml:"model"`
	BaseURL        string               `yaml:"base_url"`
	Timeout        time.Duration        `yaml:"timeout"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// Credential returns the primary key, or the fallback when the primary is unset.
func (a AIConfig) Credential() string {
	if k := strings.TrimSpace(a.APIKey); k != "" {
		return k
	}
	return strings.TrimSpace(a.APIKeyFallback)
}

// ModelName returns the configured model or the documented default.
func (a AIConfig) ModelName() string {
	if m := strings.TrimSpace(a.Model); m != "" {
		return m
	}
	return DefaultModel
}

type CircuitBreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	RecoveryInterval time.Duration `yaml:"recovery_interval"`
}

type RedisConfig struct {
	Addresses []string `yaml:"addresses"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	PoolSize  int      `yaml:"pool_size"`
}

// RateLimitConfig limits requests per client IP. Zero disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsPort int    `yaml:"metrics_port"`
}

type FilterConfig struct {
	Secrets   SecretsFilterConfig   `yaml:"secrets"`
	Injection InjectionFilterConfig `yaml:"injection"`
}

type SecretsFilterConfig struct {
	Enabled bool `yaml:"enabled"`
	Block   bool `yaml:"block"`
}

type InjectionFilterConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Block          bool    `yaml:"block"`
	BlockThreshold float64 `yaml:"block_threshold"`
	FlagThreshold  float64 `yaml:"flag_threshold"`
}

const (
	DefaultModel         = "gemini-1.5-flash"
	DefaultOfficialEmail = "akshay0017.be23@chitkara.edu.in"
)

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             3000,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 15 * time.Second,
			MaxBodyBytes:     100 << 10,
		},
		Identity: IdentityConfig{
			OfficialEmail: DefaultOfficialEmail,
		},
		AI: AIConfig{
			Backend: "gemini",
			Model:   DefaultModel,
			Timeout: 12 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				FailureThreshold:      5,
				RecoveryInterval: 30 * time.Second,
			},
		},
		Redis: RedisConfig{
			DB:       0,
			PoolSize: 20,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
		Filter: FilterConfig{
			Secrets: SecretsFilterConfig{Enabled: true},
			Injection: InjectionFilterConfig{
				Enabled:        true,
				BlockThreshold: 0.9,
				FlagThreshold:  0.7,
			},
		},
	}
}
