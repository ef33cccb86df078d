// Package delegate obtains single-word answers from an external generative
// text service. It is the only part of request handling that blocks on I/O.
package delegate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/af-corp/bfhl-gateway/internal/config"
	"github.com/af-corp/bfhl-gateway/internal/telemetry"
	"github.com/af-corp/bfhl-gateway/internal/types"
)

const (
	msgNotConfigured = "GEMINI_API_KEY (or GOOGLE_API_KEY) is not configured"
	msgFailed        = "AI request failed"
	msgEmpty         = "Empty AI response"
	msgUnavailable   = "AI service temporarily unavailable"
)

// Answerer answers a trimmed, non-empty question with a single word.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// GenerateRequest is what a Backend sends upstream.
type GenerateRequest struct {
	APIKey  string
	Model   string
	BaseURL string
	Prompt  string
}

// Backend talks to one upstream API and returns the first generated text
// segment. Upstream HTTP failures are reported as *StatusError.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// StatusError is an upstream failure with the status and message it reported.
type StatusError struct {
	Code    int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Client wraps a Backend with credential lookup, the request deadline,
// a circuit breaker and answer post-processing.
type Client struct {
	backend Backend
	cfg     func() config.AIConfig
	breaker *CircuitBreaker
	metrics *telemetry.Metrics
}

// NewClient builds a delegate client. cfg is read on every call so a reloaded
// credential, timeout or breaker threshold takes effect without a restart.
// metrics may be nil.
func NewClient(backend Backend, cfg func() config.AIConfig, metrics *telemetry.Metrics) *Client {
	cb := cfg().CircuitBreaker
	return &Client{
		backend: backend,
		cfg:     cfg,
		breaker: NewCircuitBreaker(cb.FailureThreshold, cb.RecoveryInterval),
		metrics: metrics,
	}
}

// Prompt wraps a question in the one-word instruction.
func Prompt(question string) string {
	return "Answer in ONE WORD only.\nQuestion: " + question
}

// Answer implements Answerer.
func (c *Client) Answer(ctx context.Context, question string) (string, error) {
	cfg := c.cfg()
	key := cfg.Credential()
	if key == "" {
		return "", types.NewConfigurationError(msgNotConfigured)
	}

	c.breaker.SetLimits(cfg.CircuitBreaker.FailureThreshold, cfg.CircuitBreaker.RecoveryInterval)
	if !c.breaker.Allow() {
		c.record("circuit_open", 0)
		return "", types.NewUnavailableError(msgUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := time.Now()
	text, err := c.backend.Generate(ctx, GenerateRequest{
		APIKey:  key,
		Model:   cfg.ModelName(),
		BaseURL: cfg.BaseURL,
		Prompt:  Prompt(question),
	})
	elapsed := time.Since(start)

	if err != nil {
		c.breaker.RecordFailure()
		upErr := upstreamError(err)
		slog.Error("ai upstream error",
			"backend", c.backend.Name(),
			"model", cfg.ModelName(),
			"status", upErr.Status,
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)
		c.record("error", elapsed)
		return "", upErr
	}

	text = strings.TrimSpace(text)
	if text == "" {
		c.breaker.RecordFailure()
		slog.Error("ai upstream returned empty text", "backend", c.backend.Name(), "model", cfg.ModelName())
		c.record("empty", elapsed)
		return "", types.NewUpstreamError(http.StatusBadGateway, msgEmpty, nil)
	}

	c.breaker.RecordSuccess()
	c.record("ok", elapsed)
	return SingleWord(text), nil
}

// Breaker exposes the circuit breaker.
func (c *Client) Breaker() *CircuitBreaker { return c.breaker }

func (c *Client) record(outcome string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordDelegate(c.backend.Name(), outcome, float64(d.Milliseconds()))
		c.metrics.SetCircuitState(c.backend.Name(), int(c.breaker.State()))
	}
}

func upstreamError(err error) *types.Error {
	var se *StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = msgFailed
		}
		return types.NewUpstreamError(se.Code, msg, err)
	}
	return types.NewUpstreamError(http.StatusInternalServerError, msgFailed, err)
}

var nonWordChars = regexp.MustCompile(`[^\w-]`)

// SingleWord keeps the first whitespace-separated token of text and strips
// every character other than ASCII letters, digits, '_' and '-'.
func SingleWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return nonWordChars.ReplaceAllString(fields[0], "")
}
