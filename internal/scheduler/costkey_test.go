package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/geosched/internal/environment"
)

func buildEnv(start time.Time) *environment.Environment {
	e := environment.New(start, start.Add(time.Hour), 10*time.Minute, 6)
	e.SetPriceSeries("A", environment.NewSeries([]environment.Point{{Time: start, Value: 5}}))
	e.SetPriceSeries("B", environment.NewSeries([]environment.Point{{Time: start, Value: 9}}))
	e.SetForecastSeries("A", environment.NewSeries([]environment.Point{
		{Time: start.Add(10 * time.Minute), Value: 1},
		{Time: start.Add(20 * time.Minute), Value: 3},
	}))
	e.SetForecastSeries("B", environment.NewSeries([]environment.Point{
		{Time: start.Add(10 * time.Minute), Value: 2},
		{Time: start.Add(20 * time.Minute), Value: 2},
	}))
	return e
}

func TestCostKeyCurrentPriceScenario(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := buildEnv(start)
	cfg := Config{Scenario: ScenarioCheapestNow}

	key, err := costKey(e, cfg, "A", start)
	require.NoError(t, err)
	assert.Equal(t, 5.0, key)
}

func TestCostKeyForecastMeanScenario(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := buildEnv(start)
	cfg := Config{Scenario: ScenarioCheapestForecast, MaxFCHorizon: 2}

	key, err := costKey(e, cfg, "A", start)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, key, 1e-9) // mean(1,3)
}

func TestCostKeyWeightedForecastFavoursNearTerm(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := buildEnv(start)
	cfg := Config{Scenario: ScenarioCheapestForecast, MaxFCHorizon: 2, Weighted: true}

	key, err := costKey(e, cfg, "A", start)
	require.NoError(t, err)
	// weights [2,1] over values [1,3]: (1*2+3*1)/3
	assert.InDelta(t, (1*2.0+3*1.0)/3.0, key, 1e-9)
}
