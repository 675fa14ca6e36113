package environment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/geosched/internal/cloudmodel"
)

func TestLocationsPreservesInsertionOrder(t *testing.T) {
	e := New(time.Time{}, time.Time{}, time.Hour, 4)
	e.SetPriceSeries("B", NewSeries(nil))
	e.SetPriceSeries("A", NewSeries(nil))

	assert.Equal(t, []string{"B", "A"}, e.Locations())
}

func TestGetRequestsWindow(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := New(start, start.Add(time.Hour), 5*time.Minute, 4)

	vm := cloudmodel.VM{ID: "vm1"}
	e.SetRequests([]cloudmodel.Request{
		{Time: start, VM: vm, Kind: cloudmodel.RequestBoot},
		{Time: start.Add(3 * time.Minute), VM: vm, Kind: cloudmodel.RequestDelete},
		{Time: start.Add(10 * time.Minute), VM: vm, Kind: cloudmodel.RequestBoot},
	})

	require.True(t, e.Next())
	got := e.GetRequests()
	require.Len(t, got, 2)
	assert.Equal(t, cloudmodel.RequestBoot, got[0].Kind)
	assert.Equal(t, cloudmodel.RequestDelete, got[1].Kind)
}

func TestGetRemainingDurationClampedAtZero(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := New(start, start.Add(time.Hour), 5*time.Minute, 4)
	e.SetEndTime("vm1", start.Add(2*time.Minute))

	d := e.GetRemainingDuration("vm1", start.Add(5*time.Minute))
	assert.Equal(t, time.Duration(0), d)
}

func TestPriceDataUnavailable(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := New(start, start.Add(time.Hour), time.Hour, 4)
	e.SetPriceSeries("A", NewSeries([]Point{{Time: start.Add(time.Hour), Value: 1}}))

	_, err := e.Price("A", start)
	require.ErrorIs(t, err, ErrDataUnavailable)

	_, err = e.Price("B", start)
	require.ErrorIs(t, err, ErrDataUnavailable)
}

func TestNextAdvancesThroughWindow(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Minute)
	e := New(start, end, 5*time.Minute, 4)

	var ticks []time.Time
	for e.Next() {
		ticks = append(ticks, e.GetTime())
	}
	assert.Equal(t, []time.Time{start, start.Add(5 * time.Minute), end}, ticks)
}
