package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestCountsByLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("POST", "/api/v1/price-lists", "200", 30*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/price-lists", "200", 10*time.Millisecond)
	m.ObserveRequest("GET", "", "404", time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/v1/price-lists", "200")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unknown", "404")); got != 1 {
		t.Fatalf("expected empty route to normalize to unknown, got %v", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewHTTPMetrics(nil)
	// must not panic
	m.ObserveRequest("GET", "/health/live", "200", time.Millisecond)
	var empty *HTTPMetrics
	empty.ObserveRequest("GET", "/health/live", "200", time.Millisecond)
}
