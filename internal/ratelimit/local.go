package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxIdleBuckets bounds the bucket map before idle entries are swept.
const maxIdleBuckets = 10_000

// LocalLimiter is an in-process token bucket per key. It is used when no
// Redis is configured; limits are then per replica.
type LocalLimiter struct {
	mu      sync.Mutex
	burst   int
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	limit    int64
	window   time.Duration
	lastSeen time.Time
}

// NewLocalLimiter creates a limiter. burst <= 0 lets a client spend a whole
// window's allowance at once.
func NewLocalLimiter(burst int) *LocalLimiter {
	return &LocalLimiter{
		burst:   burst,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *LocalLimiter) Name() string { return "local" }

// Check takes one token from key's bucket.
func (l *LocalLimiter) Check(_ context.Context, key string, limit int64, window time.Duration) (LimitResult, error) {
	now := l.now()
	if limit <= 0 {
		return LimitResult{Allowed: true, ResetAt: now}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.bucketFor(key, limit, window, now)
	every := window / time.Duration(limit)

	r := b.lim.ReserveN(now, 1)
	if !r.OK() {
		return LimitResult{Allowed: false, ResetAt: now.Add(every), RetryAfter: every}, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return LimitResult{Allowed: false, ResetAt: now.Add(delay), RetryAfter: delay}, nil
	}

	tokens := b.lim.TokensAt(now)
	remaining := int64(math.Floor(tokens))
	if remaining < 0 {
		remaining = 0
	}
	missing := float64(b.lim.Burst()) - tokens
	resetAt := now.Add(time.Duration(missing * float64(every)))
	return LimitResult{Allowed: true, Remaining: remaining, ResetAt: resetAt}, nil
}

func (l *LocalLimiter) bucketFor(key string, limit int64, window time.Duration, now time.Time) *bucket {
	b, ok := l.buckets[key]
	if ok && b.limit == limit && b.window == window {
		b.lastSeen = now
		return b
	}

	if len(l.buckets) >= maxIdleBuckets {
		l.sweep(now, window)
	}

	burst := l.burst
	if burst <= 0 {
		burst = int(min(limit, math.MaxInt32))
	}
	b = &bucket{
		lim:      rate.NewLimiter(rate.Every(window/time.Duration(limit)), burst),
		limit:    limit,
		window:   window,
		lastSeen: now,
	}
	l.buckets[key] = b
	return b
}

// sweep drops buckets idle for longer than a window; such buckets are full
// again and equivalent to new ones.
func (l *LocalLimiter) sweep(now time.Time, window time.Duration) {
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > window {
			delete(l.buckets, k)
		}
	}
}
