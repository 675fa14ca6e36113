package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsExposesRegisteredSeries(t *testing.T) {
	m := New()
	m.Tick()
	m.RequestAdmitted("boot")
	m.RequestDropped()
	m.Migration()
	m.SetRunningCost(42.5)

	out := scrape(t, m)
	assert.Contains(t, out, "geosched_ticks_total 1")
	assert.Contains(t, out, `geosched_requests_admitted_total{kind="boot"} 1`)
	assert.Contains(t, out, "geosched_requests_dropped_total 1")
	assert.Contains(t, out, "geosched_migrations_total 1")
	assert.Contains(t, out, "geosched_running_combined_cost_usd 42.5")
}

func TestNewReturnsIndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.Tick()

	assert.Contains(t, scrape(t, a), "geosched_ticks_total 1")
	assert.Contains(t, scrape(t, b), "geosched_ticks_total 0")
}
