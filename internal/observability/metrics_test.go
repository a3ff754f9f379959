package observability

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics("test")

	m.RequestStarted()
	m.RecordRequest("/api/members/:id", "GET", 200, 15*time.Millisecond)
	m.RecordError("/api/members/:id", "GET", "NOT_FOUND")
	m.RecordEvent("member.locked")
	m.RecordEvent("member.locked")

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/members/:id", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
	if got := testutil.ToFloat64(m.inFlight); got != 0 {
		t.Fatalf("expected no in-flight requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("member.locked")); got != 2 {
		t.Fatalf("expected 2 events, got %v", got)
	}

	expected := `
# HELP http_errors_total HTTP error responses by error code.
# TYPE http_errors_total counter
http_errors_total{code="NOT_FOUND",method="GET",path="/api/members/:id"} 1
`
	if err := testutil.CollectAndCompare(m.errorsTotal, strings.NewReader(expected)); err != nil {
		t.Fatalf("unexpected error metric: %v", err)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RequestStarted()
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordEvent("x")
}
