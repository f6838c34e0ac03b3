package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/evidence", "GET", "200"))

	m.RecordRequest("/api/evidence", "GET", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/evidence", "GET", "200"))
	assert.Equal(t, before+1, after)
}

func TestMetricsExpiryGauges(t *testing.T) {
	NewMetrics().SetExpiryGauges(4, 2)
	assert.Equal(t, 4.0, testutil.ToFloat64(evidenceExpiring))
	assert.Equal(t, 2.0, testutil.ToFloat64(evidenceExpired))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/x", "GET", 200, time.Millisecond)
		m.RecordError("/x", "GET", "NOT_FOUND")
		m.RecordMutation("created")
		m.SetExpiryGauges(1, 1)
	})
}
