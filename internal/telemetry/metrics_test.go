package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func TestNewMetricsWith(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	if m.RequestTotal == nil {
		t.Error("RequestTotal should not be nil")
	}
	if m.RequestDurationMs == nil {
		t.Error("RequestDurationMs should not be nil")
	}
	if m.RejectionTotal == nil {
		t.Error("RejectionTotal should not be nil")
	}
	if m.DelegateTotal == nil {
		t.Error("DelegateTotal should not be nil")
	}
	if m.FilterActionTotal == nil {
		t.Error("FilterActionTotal should not be nil")
	}
	if m.RateLimitHitTotal == nil {
		t.Error("RateLimitHitTotal should not be nil")
	}
}

func TestNewMetricsWith_SeparateRegistries(t *testing.T) {
	// Registering twice on the same registry would panic; separate ones must not.
	NewMetricsWith(prometheus.NewRegistry())
	NewMetricsWith(prometheus.NewRegistry())
}

func TestRecordRequest(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	m.RecordRequest(RequestLabels{Operation: "fibonacci", Status: "200", DurationMs: 2})
	m.RecordRequest(RequestLabels{Operation: "fibonacci", Status: "200", DurationMs: 3})
	m.RecordRequest(RequestLabels{Operation: "prime", Status: "400", DurationMs: 1, RejectedKind: "validation"})

	if v := counterValue(t, m.RequestTotal, "fibonacci", "200"); v != 2 {
		t.Errorf("expected 2 fibonacci requests, got %v", v)
	}
	if v := counterValue(t, m.RejectionTotal, "prime", "validation"); v != 1 {
		t.Errorf("expected 1 prime rejection, got %v", v)
	}
	if v := counterValue(t, m.RejectionTotal, "fibonacci", "validation"); v != 0 {
		t.Errorf("expected no fibonacci rejections, got %v", v)
	}
}

func TestRecordDelegate(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())
	m.RecordDelegate("gemini", "ok", 340)
	m.RecordDelegate("gemini", "circuit_open", 0)

	if v := counterValue(t, m.DelegateTotal, "gemini", "ok"); v != 1 {
		t.Errorf("expected 1 ok call, got %v", v)
	}
	if v := counterValue(t, m.DelegateTotal, "gemini", "circuit_open"); v != 1 {
		t.Errorf("expected 1 short-circuited call, got %v", v)
	}
}

func TestRecordFilterAction(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())
	m.RecordFilterAction("secrets", "flag")

	if v := counterValue(t, m.FilterActionTotal, "secrets", "flag"); v != 1 {
		t.Errorf("expected filter action count 1, got %v", v)
	}
}

func TestRecordRateLimitHit(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())
	m.RecordRateLimitHit("local")
	m.RecordRateLimitHit("local")

	if v := counterValue(t, m.RateLimitHitTotal, "local"); v != 2 {
		t.Errorf("expected 2 hits, got %v", v)
	}
}

func TestSetCircuitState(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())
	m.SetCircuitState("gemini", 1)

	g, err := m.CircuitState.GetMetricWithLabelValues("gemini")
	if err != nil {
		t.Fatalf("failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if v := metric.GetGauge().GetValue(); v != 1 {
		t.Errorf("expected state 1, got %v", v)
	}
}
