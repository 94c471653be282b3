package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/posts", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/api/posts", "GET", 200, 5*time.Millisecond)
	m.RecordError("/api/login", "POST", "UNAUTHORIZED")
	m.RecordClaimTransition("approved")

	if got := testutil.ToFloat64(m.requestCount.WithLabelValues("/api/posts", "GET", "200")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.errorCount.WithLabelValues("/api/login", "POST", "UNAUTHORIZED")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if got := testutil.ToFloat64(m.claimCount.WithLabelValues("approved")); got != 1 {
		t.Fatalf("expected 1 approval, got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordClaimTransition("denied")
}
