package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/environment"
	"github.com/yourusername/geosched/internal/resource"
)

func twoLocState() cloudmodel.State {
	return cloudmodel.NewState([]cloudmodel.Server{
		{ID: "s1", Location: "A", Capacity: resource.NewVector(16, 8)},
		{ID: "s2", Location: "B", Capacity: resource.NewVector(16, 8)},
	})
}

func TestFindHostPicksCheaperLocation(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := environment.New(start, start.Add(time.Hour), 10*time.Minute, 4)
	e.SetPriceSeries("A", environment.NewSeries([]environment.Point{{Time: start, Value: 9}}))
	e.SetPriceSeries("B", environment.NewSeries([]environment.Point{{Time: start, Value: 3}}))

	cfg := Config{Scenario: ScenarioCheapestNow}
	vm := cloudmodel.VM{ID: "vm1", Demand: resource.NewVector(4, 2)}

	host, err := findHost(e, cfg, twoLocState(), vm, start, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, "s2", host)
}

func TestFindHostNoCapacityReturnsErrNoFit(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := environment.New(start, start.Add(time.Hour), 10*time.Minute, 4)
	cfg := Config{Scenario: ScenarioRandomFit}
	vm := cloudmodel.VM{ID: "vm1", Demand: resource.NewVector(999, 999)}

	_, err := findHost(e, cfg, twoLocState(), vm, start, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, ErrNoFit)
}

func TestFindHostRandomFitIgnoresPrice(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := environment.New(start, start.Add(time.Hour), 10*time.Minute, 4)
	cfg := Config{Scenario: ScenarioRandomFit}
	vm := cloudmodel.VM{ID: "vm1", Demand: resource.NewVector(4, 2)}

	host, err := findHost(e, cfg, twoLocState(), vm, start, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Contains(t, []string{"s1", "s2"}, host)
}
