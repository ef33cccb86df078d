package ratelimit

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/af-corp/bfhl-gateway/internal/config"
	"github.com/af-corp/bfhl-gateway/internal/httputil"
	"github.com/af-corp/bfhl-gateway/internal/telemetry"
)

const (
	headerRateLimit          = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
	headerRetryAfter         = "Retry-After"
)

// Middleware returns chi middleware that enforces per-client-IP request
// limits. Limits are read per request so a config reload applies at once.
func Middleware(checker Checker, cfg func() config.RateLimitConfig, email func() string, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rpm := cfg().RequestsPerMinute
			if rpm <= 0 || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			reqID := w.Header().Get("X-Request-ID")

			ip := clientIP(r)
			result, err := checker.Check(r.Context(), "ip:"+ip, int64(rpm), time.Minute)
			if err != nil {
				slog.Warn("rate limit check failed", "request_id", reqID, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(headerRateLimit, strconv.Itoa(rpm))
			w.Header().Set(headerRateLimitRemaining, strconv.FormatInt(result.Remaining, 10))
			w.Header().Set(headerRateLimitReset, strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				slog.Warn("rate limit exceeded",
					"request_id", reqID,
					"client_ip", ip,
					"limiter", checker.Name(),
					"limit", rpm,
				)
				if metrics != nil {
					metrics.RecordRateLimitHit(checker.Name())
				}
				w.Header().Set(headerRetryAfter, strconv.Itoa(retryAfterSeconds(result.RetryAfter)))
				httputil.WriteRateLimitError(w, reqID, email(),
					fmt.Sprintf("Rate limit exceeded: %d requests per minute", rpm))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// clientIP returns the host part of RemoteAddr. Forwarding headers count only
// when the router trusts them and has rewritten RemoteAddr with RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
