package scheduler

import (
	"time"

	"github.com/yourusername/geosched/internal/environment"
)

// costKey ranks loc at time t for placement/migration decisions (§4.F.3).
// Scenarios 2 and 4 rank by the current spot price. Scenarios 3, 5 and 6
// rank by the mean forecast price over a bounded horizon, optionally
// weighted so nearer periods count for more; scenario 6 substitutes the
// realised price series for the forecast (perfect hindsight). Scenario 1
// (random fit) never calls costKey.
func costKey(env *environment.Environment, cfg Config, loc string, t time.Time) (float64, error) {
	if !cfg.Scenario.UsesForecast() {
		return env.Price(loc, t)
	}

	horizon := cfg.MaxFCHorizon
	if env.ForecastPeriods < horizon {
		horizon = env.ForecastPeriods
	}
	if horizon < 1 {
		horizon = 1
	}
	from := t.Add(env.GetPeriod()) // the window starts at t+period, not t (§4.F.3)
	to := from.Add(time.Duration(horizon) * env.GetPeriod())

	var weights []float64
	if cfg.Weighted {
		weights = linearDecreasingWeights(horizon)
	}

	if cfg.Scenario.IsIdeal() {
		return env.ActualMean(loc, from, to, weights)
	}
	return env.ForecastMean(loc, from, to, weights)
}

// linearDecreasingWeights returns n weights decreasing linearly from n down
// to 1 — the "h+1 down to 1" scheme §4.F.3 describes for the weighted
// forecast cost key (h terms spanning that half-open range): the nearest
// forecast period counts most, the furthest counts least.
func linearDecreasingWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = float64(n - i)
	}
	return w
}
