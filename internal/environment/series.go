// Package environment serves the time-varying inputs (spot electricity
// prices, forecast prices, ambient temperatures) and the VM request stream,
// and advances the simulation's logical clock (§4.E).
package environment

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Point is a single (timestamp, value) observation.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is an ordered map from timestamp to value, supporting range
// queries and resampling to a coarser frequency (design note §9).
type Series struct {
	points []Point
}

// NewSeries builds a Series from points, sorting a copy of them by
// timestamp.
func NewSeries(points []Point) Series {
	out := make([]Point, len(points))
	copy(out, points)
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return Series{points: out}
}

// Len reports the number of observations.
func (s Series) Len() int { return len(s.points) }

// floor returns the index of the last point with Time <= t, or -1 if none.
func (s Series) floor(t time.Time) int {
	idx := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].Time.After(t)
	})
	return idx - 1
}

// At returns the value observed at or immediately before t (stepwise-hold
// semantics, matching the evaluator's "extended to end by holding the last
// value"). ok is false if t precedes every observation.
func (s Series) At(t time.Time) (float64, bool) {
	idx := s.floor(t)
	if idx < 0 {
		return 0, false
	}
	return s.points[idx].Value, true
}

// Slice returns the sub-series with timestamps in [from, to).
func (s Series) Slice(from, to time.Time) Series {
	lo := sort.Search(len(s.points), func(i int) bool { return !s.points[i].Time.Before(from) })
	hi := sort.Search(len(s.points), func(i int) bool { return !s.points[i].Time.Before(to) })
	if lo >= hi {
		return Series{}
	}
	return NewSeries(s.points[lo:hi])
}

// Mean returns the unweighted mean of the series' values in [from, to). The
// second return is false when the window contains no observations.
func (s Series) Mean(from, to time.Time) (float64, bool) {
	window := s.Slice(from, to)
	if len(window.points) == 0 {
		return 0, false
	}
	values := make([]float64, len(window.points))
	for i, p := range window.points {
		values[i] = p.Value
	}
	return stat.Mean(values, nil), true
}

// WeightedMean returns the weighted mean over [from, to) with weights[i]
// applied to the i-th observation in the window (used by the forecast cost
// key when weighted=true, §4.F.3: weights decreasing linearly from h+1
// down to 1). weights is truncated or padded with 1s to match the window
// length, rather than requiring an exact match, since the number of
// observations actually falling in [from, to) can differ from the caller's
// requested horizon (e.g. near the end of a series).
func (s Series) WeightedMean(from, to time.Time, weights []float64) (float64, bool) {
	window := s.Slice(from, to)
	if len(window.points) == 0 {
		return 0, false
	}
	values := make([]float64, len(window.points))
	for i, p := range window.points {
		values[i] = p.Value
	}
	n := len(values)
	if len(weights) > n {
		weights = weights[:n]
	} else if len(weights) < n {
		padded := make([]float64, n)
		copy(padded, weights)
		for i := len(weights); i < n; i++ {
			padded[i] = 1
		}
		weights = padded
	}
	return stat.Mean(values, weights), true
}

// Resample collapses the series to one observation per period, each the
// mean of the observations falling in that bucket.
func (s Series) Resample(start, end time.Time, period time.Duration) Series {
	var out []Point
	for t := start; t.Before(end); t = t.Add(period) {
		mean, ok := s.Mean(t, t.Add(period))
		if ok {
			out = append(out, Point{Time: t, Value: mean})
		}
	}
	return NewSeries(out)
}
