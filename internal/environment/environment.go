package environment

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/geosched/internal/cloudmodel"
)

// ErrDataUnavailable is returned when a price/temperature lookup falls
// outside the configured series range. Per §7 this indicates a driver bug
// and is fatal — callers at the simulator boundary should not continue.
var ErrDataUnavailable = errors.New("environment: data unavailable for requested time/location")

// SLATiers holds the three cumulative-downtime thresholds a VM tolerates
// before each successive SLA-penalty tier (§4.E: "per-VM ordered
// thresholds (three tiers)").
type SLATiers [3]time.Duration

// Environment serves price/forecast/temperature series per location plus
// the VM boot/delete request stream, and advances a stateful logical clock
// through [Start, End] in steps of Period.
type Environment struct {
	Start           time.Time
	End             time.Time
	Period          time.Duration
	ForecastPeriods int

	ElPrices    map[string]Series // location -> price series
	ForecastEl  map[string]Series
	Temperature map[string]Series

	requests []cloudmodel.Request // sorted by Time
	slaTiers map[string]SLATiers  // vmID -> thresholds
	endTimes map[string]time.Time // vmID -> expected delete time

	locationOrder []string // insertion order, for stable cost-key tie-breaking (§4.F.3)
	seenLocation  map[string]bool

	t       time.Time
	started bool
}

// New builds an Environment. Requests need not be pre-sorted.
func New(start, end time.Time, period time.Duration, forecastPeriods int) *Environment {
	return &Environment{
		Start:           start,
		End:             end,
		Period:          period,
		ForecastPeriods: forecastPeriods,
		ElPrices:        make(map[string]Series),
		ForecastEl:      make(map[string]Series),
		Temperature:     make(map[string]Series),
		slaTiers:        make(map[string]SLATiers),
		endTimes:        make(map[string]time.Time),
		seenLocation:    make(map[string]bool),
		t:               start,
	}
}

// noteLocation records loc's first-seen position so Locations() can return
// insertion order, the tie-breaking order §4.F.3 requires for the cost key.
func (e *Environment) noteLocation(loc string) {
	if e.seenLocation[loc] {
		return
	}
	e.seenLocation[loc] = true
	e.locationOrder = append(e.locationOrder, loc)
}

// SetPriceSeries installs the spot price series for loc.
func (e *Environment) SetPriceSeries(loc string, s Series) {
	e.noteLocation(loc)
	e.ElPrices[loc] = s
}

// SetForecastSeries installs the forecast price series for loc.
func (e *Environment) SetForecastSeries(loc string, s Series) {
	e.noteLocation(loc)
	e.ForecastEl[loc] = s
}

// SetTemperatureSeries installs the ambient temperature series for loc.
func (e *Environment) SetTemperatureSeries(loc string, s Series) {
	e.noteLocation(loc)
	e.Temperature[loc] = s
}

// SetRequests installs the request stream, sorting by time (stable, so
// same-timestamp requests keep their input order).
func (e *Environment) SetRequests(requests []cloudmodel.Request) {
	sorted := make([]cloudmodel.Request, len(requests))
	copy(sorted, requests)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
	e.requests = sorted
}

// SetSLATiers records the three-tier downtime thresholds for a VM.
func (e *Environment) SetSLATiers(vmID string, tiers SLATiers) { e.slaTiers[vmID] = tiers }

// SLATiers returns the thresholds for vmID, or a zero SLATiers if unset.
func (e *Environment) SLATiers(vmID string) SLATiers { return e.slaTiers[vmID] }

// SetEndTime records when vmID's delete request is expected.
func (e *Environment) SetEndTime(vmID string, end time.Time) { e.endTimes[vmID] = end }

// GetRemainingDuration returns (vm.end_time - t) clamped at zero. If no end
// time is known for vmID, the remainder of the run (End - t) is used.
func (e *Environment) GetRemainingDuration(vmID string, t time.Time) time.Duration {
	end, ok := e.endTimes[vmID]
	if !ok {
		end = e.End
	}
	d := end.Sub(t)
	if d < 0 {
		return 0
	}
	return d
}

// GetTime returns the current logical clock value.
func (e *Environment) GetTime() time.Time { return e.t }

// GetPeriod returns the tick length.
func (e *Environment) GetPeriod() time.Duration { return e.Period }

// ForecastEnd returns t + forecast_periods*period.
func (e *Environment) ForecastEnd() time.Time {
	return e.t.Add(time.Duration(e.ForecastPeriods) * e.Period)
}

// Next advances the logical clock by one period and reports whether a tick
// remains to process. The first call leaves t == Start and reports true
// (so callers process the initial tick before the first advance); Next
// must be called again to move past it. Single-threaded, stateful
// iteration rather than a channel-based iterator, since there is never
// more than one consumer of the clock.
func (e *Environment) Next() bool {
	if !e.started {
		e.started = true
		return !e.t.After(e.End)
	}
	e.t = e.t.Add(e.Period)
	return !e.t.After(e.End)
}

// Reset rewinds the logical clock to Start, for reuse across scenarios.
func (e *Environment) Reset() {
	e.t = e.Start
	e.started = false
}

// GetRequests returns the requests whose timestamp lies in [t, t+period).
func (e *Environment) GetRequests() []cloudmodel.Request {
	end := e.t.Add(e.Period)
	lo := sort.Search(len(e.requests), func(i int) bool { return !e.requests[i].Time.Before(e.t) })
	hi := sort.Search(len(e.requests), func(i int) bool { return !e.requests[i].Time.Before(end) })
	if lo >= hi {
		return nil
	}
	out := make([]cloudmodel.Request, hi-lo)
	copy(out, e.requests[lo:hi])
	return out
}

// Price returns the spot electricity price at loc at time t. Returns
// ErrDataUnavailable if loc or t is out of range.
func (e *Environment) Price(loc string, t time.Time) (float64, error) {
	series, ok := e.ElPrices[loc]
	if !ok {
		return 0, fmt.Errorf("%w: location %q has no price series", ErrDataUnavailable, loc)
	}
	v, ok := series.At(t)
	if !ok {
		return 0, fmt.Errorf("%w: no price observation at or before %s for %q", ErrDataUnavailable, t, loc)
	}
	return v, nil
}

// ForecastPrice returns the forecast electricity price at loc at time t.
func (e *Environment) ForecastPrice(loc string, t time.Time) (float64, error) {
	series, ok := e.ForecastEl[loc]
	if !ok {
		return 0, fmt.Errorf("%w: location %q has no forecast series", ErrDataUnavailable, loc)
	}
	v, ok := series.At(t)
	if !ok {
		return 0, fmt.Errorf("%w: no forecast observation at or before %s for %q", ErrDataUnavailable, t, loc)
	}
	return v, nil
}

// TemperatureAt returns the ambient temperature at loc at time t.
func (e *Environment) TemperatureAt(loc string, t time.Time) (float64, error) {
	series, ok := e.Temperature[loc]
	if !ok {
		return 0, fmt.Errorf("%w: location %q has no temperature series", ErrDataUnavailable, loc)
	}
	v, ok := series.At(t)
	if !ok {
		return 0, fmt.Errorf("%w: no temperature observation at or before %s for %q", ErrDataUnavailable, t, loc)
	}
	return v, nil
}

// ForecastMean returns the mean (or, with non-nil weights, the weighted
// mean) of loc's forecast price series over [from, to). Used by the
// forecast cost key (§4.F.3).
func (e *Environment) ForecastMean(loc string, from, to time.Time, weights []float64) (float64, error) {
	series, ok := e.ForecastEl[loc]
	if !ok {
		return 0, fmt.Errorf("%w: location %q has no forecast series", ErrDataUnavailable, loc)
	}
	return seriesMean(series, from, to, weights, loc)
}

// ActualMean returns the mean (or weighted mean) of loc's realised spot
// price series over [from, to) — used by the "ideal forecast" scenario,
// which scores placement/migration with perfect hindsight (§4.F.6 / §9).
func (e *Environment) ActualMean(loc string, from, to time.Time, weights []float64) (float64, error) {
	series, ok := e.ElPrices[loc]
	if !ok {
		return 0, fmt.Errorf("%w: location %q has no price series", ErrDataUnavailable, loc)
	}
	return seriesMean(series, from, to, weights, loc)
}

func seriesMean(series Series, from, to time.Time, weights []float64, loc string) (float64, error) {
	var (
		mean float64
		ok   bool
	)
	if weights == nil {
		mean, ok = series.Mean(from, to)
	} else {
		mean, ok = series.WeightedMean(from, to, weights)
	}
	if !ok {
		return 0, fmt.Errorf("%w: no observations in [%s, %s) for %q", ErrDataUnavailable, from, to, loc)
	}
	return mean, nil
}

// Locations returns every known location in insertion order — the stable
// tie-breaking order the cost key (§4.F.3) requires.
func (e *Environment) Locations() []string {
	out := make([]string, len(e.locationOrder))
	copy(out, e.locationOrder)
	return out
}
