// Package evaluator replays a committed Schedule against a Cloud and scores
// it along four normalized dimensions — utilisation, utilisation-weighted
// price, constraint violation, and SLA risk (§4.G).
package evaluator

import (
	"time"

	"github.com/yourusername/geosched/internal/scheduler"
)

// PPUEFunc derives a location's power usage effectiveness from its ambient
// temperature — the "externally supplied function" §4.G calls for, so
// callers can swap in whatever cooling model fits their datacenter mix
// without the evaluator knowing about HVAC physics.
type PPUEFunc func(location string, temperatureC float64) float64

// LinearPPUE is a simple injectable cooling model: pPUE rises linearly from
// base at 0°C by slope per degree. Grounded in nothing fancier than the
// evaluator needing *some* default when the caller doesn't supply one.
func LinearPPUE(base, slopePerDegree float64) PPUEFunc {
	return func(_ string, tempC float64) float64 {
		p := base + slopePerDegree*tempC
		if p < 1 {
			return 1
		}
		return p
	}
}

// Config holds the synthetic power model's constants (§4.G) and the
// migration-physics parameters needed to re-derive E_mig for committed
// migrations.
type Config struct {
	PIdle          float64 // W, idle baseline power per server
	PPeak          float64 // W, power at full (u=1) utilisation
	NoiseSigmaW    float64 // Gaussian power-noise standard deviation, W
	SampleInterval time.Duration
	PPUE           PPUEFunc

	Bandwidth     scheduler.Bandwidth // must match the scheduler's config for E_mig to reconcile
	DirtyPageRate float64

	PricesInMWh bool // price series are $/MWh rather than $/kWh (§6: prices_in_mwh)

	// Utilisation is always weighted with resource.DefaultWeights();
	// Config has no per-resource weight override.
}

// DefaultConfig returns the §4.G constants: P_idle=100W, P_peak=200W,
// sigma=5W, sampled every 5 minutes, flat pPUE=1.1.
func DefaultConfig() Config {
	return Config{
		PIdle:          100,
		PPeak:          200,
		NoiseSigmaW:    5,
		SampleInterval: 5 * time.Minute,
		PPUE:           LinearPPUE(1.1, 0),
	}
}
