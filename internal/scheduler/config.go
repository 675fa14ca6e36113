// Package scheduler implements the Best-Cost-Decreasing (BCD) policy:
// per-tick placement by cheapest forecast location, and a multi-criterion
// utility function deciding which VMs to migrate (§4.F).
package scheduler

import (
	"fmt"
	"math"

	"github.com/yourusername/geosched/internal/resource"
)

// Scenario selects one of the six placement/migration policy combinations
// from §4.F.6.
type Scenario int

const (
	ScenarioRandomFit            Scenario = 1 // random fit, no migration
	ScenarioCheapestNow          Scenario = 2 // cheapest-now, no migration
	ScenarioCheapestForecast     Scenario = 3 // cheapest-forecast, no migration
	ScenarioCheapestNowUtility   Scenario = 4 // cheapest-now, utility migration w/ current prices
	ScenarioCheapestForecastUtil Scenario = 5 // cheapest-forecast, utility migration w/ forecast prices
	ScenarioIdealForecastUtil    Scenario = 6 // cheapest-forecast (ideal), utility migration w/ ideal forecast
)

// Weights are the five utility coefficients from §4.F.4. They must sum to
// a finite positive number (§6 Configuration).
type Weights struct {
	SLA    float64 // w_sla
	Energy float64 // w_energy
	VMRem  float64 // w_vm_rem
	DCLoad float64 // w_dcload
	Cost   float64 // w_cost
}

func (w Weights) sum() float64 { return w.SLA + w.Energy + w.VMRem + w.DCLoad + w.Cost }

// DefaultWeights gives every criterion an equal share absent an explicit
// override.
func DefaultWeights() Weights {
	return Weights{SLA: 0.2, Energy: 0.2, VMRem: 0.2, DCLoad: 0.2, Cost: 0.2}
}

// Bandwidth resolves the migration bandwidth (Mb/s) for a location, falling
// back to a fixed value when no per-location override is configured.
type Bandwidth struct {
	Fixed float64
	Map   map[string]float64
}

func (b Bandwidth) For(loc string) float64 {
	if b.Map != nil {
		if v, ok := b.Map[loc]; ok {
			return v
		}
	}
	return b.Fixed
}

// Config is the full set of scheduler knobs from §6.
type Config struct {
	Scenario         Scenario
	Weights          Weights
	UtilityThreshold float64
	MaxFCHorizon     int
	Weighted         bool // linearly weight the forecast cost key toward nearer periods (§4.F.3)
	Bandwidth        Bandwidth
	DirtyPageRate    float64 // MB/s, the Liu et al. model's D (§4.F.5)
	AlternateCostModel bool  // use the simpler cheapest-forecast migration fallback instead of the utility function
	CustomWeights    *resource.Vector // optional per-resource utilisation weights; nil = resource.DefaultWeights()
}

// Validate enforces §6's ConfigurationError conditions: missing weights, a
// bad scenario id, or a non-finite/non-positive weight sum. Fatal at
// startup per §7.
func (c Config) Validate() error {
	if c.Scenario < ScenarioRandomFit || c.Scenario > ScenarioIdealForecastUtil {
		return fmt.Errorf("scheduler: %w: scenario %d out of range [1,6]", ErrConfiguration, c.Scenario)
	}
	sum := c.Weights.sum()
	if sum <= 0 || sum != sum /* NaN */ || math.IsInf(sum, 0) {
		return fmt.Errorf("scheduler: %w: utility weights must sum to a finite positive number, got %v", ErrConfiguration, sum)
	}
	if c.MaxFCHorizon < 1 {
		return fmt.Errorf("scheduler: %w: max_fc_horizon must be >= 1, got %d", ErrConfiguration, c.MaxFCHorizon)
	}
	if c.DirtyPageRate <= 0 {
		return fmt.Errorf("scheduler: %w: dirty_page_rate must be > 0, got %v", ErrConfiguration, c.DirtyPageRate)
	}
	return nil
}

// UsesMigration reports whether the scenario's policy fires migrations at
// all (scenarios 1-3 never migrate, §4.F.6).
func (s Scenario) UsesMigration() bool { return s >= ScenarioCheapestNowUtility }

// UsesForecast reports whether placement should rank locations by forecast
// mean rather than current spot price.
func (s Scenario) UsesForecast() bool {
	return s == ScenarioCheapestForecast || s == ScenarioCheapestForecastUtil || s == ScenarioIdealForecastUtil
}

// IsIdeal reports whether the forecast-based placement/migration should use
// perfect hindsight (actual future prices) rather than the forecast series.
func (s Scenario) IsIdeal() bool { return s == ScenarioIdealForecastUtil }

// IsRandom reports whether placement should ignore prices entirely.
func (s Scenario) IsRandom() bool { return s == ScenarioRandomFit }

// String names the scenario for CLI/dashboard display.
func (s Scenario) String() string {
	switch s {
	case ScenarioRandomFit:
		return "random-fit"
	case ScenarioCheapestNow:
		return "cheapest-now"
	case ScenarioCheapestForecast:
		return "cheapest-forecast"
	case ScenarioCheapestNowUtility:
		return "cheapest-now+utility-migration"
	case ScenarioCheapestForecastUtil:
		return "cheapest-forecast+utility-migration"
	case ScenarioIdealForecastUtil:
		return "ideal-forecast+utility-migration"
	default:
		return fmt.Sprintf("scenario(%d)", int(s))
	}
}
