package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_NilRedis_FailOpen(t *testing.T) {
	l := NewLimiter(nil)
	result, err := l.Check(context.Background(), "test:key", 60, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed {
		t.Error("expected allowed when Redis is nil")
	}
	if result.Remaining != 59 {
		t.Errorf("expected remaining=59, got %d", result.Remaining)
	}
}

func TestLimiter_NilRedis_MultipleChecks(t *testing.T) {
	l := NewLimiter(nil)
	for i := 0; i < 100; i++ {
		result, _ := l.Check(context.Background(), "test:key", 10, time.Minute)
		if !result.Allowed {
			t.Fatalf("expected allowed on check %d", i)
		}
	}
}

func TestWindowResult(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	oldest := now.Add(-45 * time.Second)

	allowed := windowResult(now, 3, true, oldest, 10, time.Minute)
	if !allowed.Allowed || allowed.Remaining != 7 || allowed.RetryAfter != 0 {
		t.Errorf("unexpected result %+v", allowed)
	}
	if !allowed.ResetAt.Equal(now.Add(15 * time.Second)) {
		t.Errorf("reset at %v", allowed.ResetAt)
	}

	denied := windowResult(now, 10, false, oldest, 10, time.Minute)
	if denied.Allowed || denied.Remaining != 0 {
		t.Errorf("unexpected result %+v", denied)
	}
	if denied.RetryAfter != 15*time.Second {
		t.Errorf("retry after %v, want 15s", denied.RetryAfter)
	}

	stale := windowResult(now, 1, true, now.Add(-2*time.Minute), 10, time.Minute)
	if !stale.ResetAt.Equal(now) {
		t.Errorf("reset should not be in the past: %v", stale.ResetAt)
	}
}
