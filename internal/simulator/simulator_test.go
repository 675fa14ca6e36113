package simulator

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/environment"
	"github.com/yourusername/geosched/internal/metrics"
	"github.com/yourusername/geosched/internal/resource"
	"github.com/yourusername/geosched/internal/scheduler"
)

func httpScrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestRunAdmitsBootAndAppliesDelete(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)

	cloud := cloudmodel.NewCloud([]cloudmodel.Server{
		{ID: "s1", Location: "A", Capacity: resource.NewVector(16, 8)},
		{ID: "s2", Location: "B", Capacity: resource.NewVector(16, 8)},
	})

	env := environment.New(start, end, 10*time.Minute, 4)
	env.SetPriceSeries("A", environment.NewSeries([]environment.Point{{Time: start, Value: 9}}))
	env.SetPriceSeries("B", environment.NewSeries([]environment.Point{{Time: start, Value: 2}}))

	vm := cloudmodel.VM{ID: "vm1", Demand: resource.NewVector(4, 2)}
	env.SetRequests([]cloudmodel.Request{
		{Time: start, VM: vm, Kind: cloudmodel.RequestBoot},
		{Time: start.Add(10 * time.Minute), VM: vm, Kind: cloudmodel.RequestDelete},
	})

	cfg := scheduler.Config{
		Scenario:      scheduler.ScenarioCheapestNow,
		Weights:       scheduler.DefaultWeights(),
		MaxFCHorizon:  4,
		Bandwidth:     scheduler.Bandwidth{Fixed: 1000},
		DirtyPageRate: 10,
	}
	sch, err := scheduler.New(cfg, 1)
	require.NoError(t, err)

	m := metrics.New()
	sim := New(sch).WithMetrics(m)
	real := sim.Run(cloud, env)

	require.GreaterOrEqual(t, real.Len(), 2)
	entries := real.Entries()
	migrate, ok := entries[0].Action.(cloudmodel.Migrate)
	require.True(t, ok)
	assert.Equal(t, "s2", migrate.ServerID) // cheaper location

	_, ok = cloud.Real().VM("vm1")
	assert.False(t, ok) // deleted by the second request
}

func TestRunWithMetricsCountsAdmittedBootAndDelete(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)

	cloud := cloudmodel.NewCloud([]cloudmodel.Server{
		{ID: "s1", Location: "A", Capacity: resource.NewVector(16, 8)},
	})
	env := environment.New(start, end, 10*time.Minute, 4)
	env.SetPriceSeries("A", environment.NewSeries([]environment.Point{{Time: start, Value: 1}}))

	vm := cloudmodel.VM{ID: "vm1", Demand: resource.NewVector(4, 2)}
	env.SetRequests([]cloudmodel.Request{
		{Time: start, VM: vm, Kind: cloudmodel.RequestBoot},
		{Time: start.Add(10 * time.Minute), VM: vm, Kind: cloudmodel.RequestDelete},
	})

	cfg := scheduler.Config{
		Scenario:      scheduler.ScenarioCheapestNow,
		Weights:       scheduler.DefaultWeights(),
		MaxFCHorizon:  4,
		Bandwidth:     scheduler.Bandwidth{Fixed: 1000},
		DirtyPageRate: 10,
	}
	sch, err := scheduler.New(cfg, 1)
	require.NoError(t, err)

	m := metrics.New()
	New(sch).WithMetrics(m).Run(cloud, env)

	out := httpScrape(t, m)
	assert.Contains(t, out, `geosched_requests_admitted_total{kind="boot"} 1`)
	assert.Contains(t, out, `geosched_requests_admitted_total{kind="delete"} 1`)
	assert.Contains(t, out, "geosched_ticks_total 3")
	assert.Contains(t, out, "geosched_running_combined_cost_usd")
}

func TestRunWithProgressReportsFinalTickAndCounts(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)

	cloud := cloudmodel.NewCloud([]cloudmodel.Server{
		{ID: "s1", Location: "A", Capacity: resource.NewVector(16, 8)},
	})
	env := environment.New(start, end, 10*time.Minute, 4)
	env.SetPriceSeries("A", environment.NewSeries([]environment.Point{{Time: start, Value: 1}}))

	vm := cloudmodel.VM{ID: "vm1", Demand: resource.NewVector(4, 2)}
	env.SetRequests([]cloudmodel.Request{
		{Time: start, VM: vm, Kind: cloudmodel.RequestBoot},
		{Time: start.Add(10 * time.Minute), VM: vm, Kind: cloudmodel.RequestDelete},
	})

	cfg := scheduler.Config{Scenario: scheduler.ScenarioCheapestNow, Weights: scheduler.DefaultWeights(), MaxFCHorizon: 4, Bandwidth: scheduler.Bandwidth{Fixed: 1000}, DirtyPageRate: 10}
	sch, err := scheduler.New(cfg, 1)
	require.NoError(t, err)

	var snapshots []Progress
	New(sch).WithProgress(func(p Progress) { snapshots = append(snapshots, p) }).Run(cloud, env)

	require.Len(t, snapshots, 3)
	last := snapshots[len(snapshots)-1]
	assert.Equal(t, 3, last.TickIndex)
	assert.Equal(t, 3, last.TotalTicks)
	assert.Equal(t, 2, last.Admitted) // one boot, one delete
	assert.Equal(t, 0, last.Dropped)
}

func TestRunWithNoRequestsProducesEmptySchedule(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Minute)
	cloud := cloudmodel.NewCloud([]cloudmodel.Server{{ID: "s1", Location: "A", Capacity: resource.NewVector(16, 8)}})
	env := environment.New(start, end, 10*time.Minute, 4)
	env.SetPriceSeries("A", environment.NewSeries([]environment.Point{{Time: start, Value: 1}}))

	cfg := scheduler.Config{Scenario: scheduler.ScenarioCheapestNow, Weights: scheduler.DefaultWeights(), MaxFCHorizon: 4, Bandwidth: scheduler.Bandwidth{Fixed: 1000}, DirtyPageRate: 10}
	sch, err := scheduler.New(cfg, 1)
	require.NoError(t, err)

	real := New(sch).Run(cloud, env)
	assert.Equal(t, 0, real.Len())
}
