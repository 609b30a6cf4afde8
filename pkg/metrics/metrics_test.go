package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_BusinessCounters(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.GroupCreated("bulk")
	m.GroupCreated("bulk")
	m.DateSkipped("conflict", 2)
	m.DateSkipped("blocked", 0)
	m.PaymentRecorded("cash", 300)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GroupsCreated.WithLabelValues("bulk")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DatesSkipped.WithLabelValues("conflict")))
	assert.Equal(t, 300.0, testutil.ToFloat64(m.PaymentsAmount))
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.GroupCreated("bulk")
		m.DateSkipped("blocked", 1)
		m.NoValidDates()
		m.GroupCancelled()
		m.PaymentRecorded("cash", 1)
		m.TxRetried()
	})
}
