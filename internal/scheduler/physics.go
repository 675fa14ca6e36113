package scheduler

import (
	"math"
	"time"
)

// Migration physics constants from the Liu et al. live-migration model
// (§4.F.5).
const (
	precopyThresholdMB = 100.0 // V_thd: precopy stops once remaining dirty memory falls below this
	energyAlpha        = 0.512 // J per MB transferred (V_mig is in MB)
	energyBeta         = 20.165

	// maxPrecopyIterations bounds n when the dirty-page rate meets or
	// exceeds effective bandwidth (the geometric series never converges);
	// real hypervisors cap iterations the same way rather than precopy
	// forever.
	maxPrecopyIterations = 30
)

// MigrationPhysics is the Liu et al. model's output for one candidate
// migration: n precopy iterations, total bytes transferred, wall-clock
// migration time, energy consumed, and the downtime incurred by the final
// stop-and-copy phase.
type MigrationPhysics struct {
	Iterations int
	Bytes      float64       // V_mig, MB
	Duration   time.Duration // T_mig
	EnergyJ    float64       // E_mig, Joules
	Downtime   time.Duration // final synchronous-copy pause
	Converged  bool          // false if the dirty-page rate never drops below effective bandwidth
}

// computeMigrationPhysics evaluates the model for a VM with memoryMB of RAM,
// a migration bandwidth of bandwidthMbps (Mb/s), and a dirty-page rate of
// dirtyRateMBps (MB/s). Bandwidth is converted to MB/s throughout (R/8) so
// it shares units with the dirty-page rate, matching the T_mig formula's
// own R/8 division.
func computeMigrationPhysics(memoryMB, bandwidthMbps, dirtyRateMBps float64) MigrationPhysics {
	rMBps := bandwidthMbps / 8
	if rMBps <= 0 || memoryMB <= 0 {
		return MigrationPhysics{}
	}
	ratio := dirtyRateMBps / rMBps

	converged := ratio < 1
	n := maxPrecopyIterations
	if converged && memoryMB > precopyThresholdMB {
		// n = ceil(log_ratio(V_thd / M))
		n = int(math.Ceil(math.Log(precopyThresholdMB/memoryMB) / math.Log(ratio)))
		if n < 0 {
			n = 0
		}
		if n > maxPrecopyIterations {
			n = maxPrecopyIterations
		}
	} else if memoryMB <= precopyThresholdMB {
		n = 0
	}

	var vMig float64
	if ratio == 1 {
		vMig = memoryMB * float64(n+1)
	} else {
		vMig = memoryMB * (1 - math.Pow(ratio, float64(n+1))) / (1 - ratio)
	}
	tMigSeconds := vMig / rMBps
	energyJ := energyAlpha*vMig + energyBeta

	downtimeSeconds := precopyThresholdMB / rMBps

	return MigrationPhysics{
		Iterations: n,
		Bytes:      vMig,
		Duration:   time.Duration(tMigSeconds * float64(time.Second)),
		EnergyJ:    energyJ,
		Downtime:   time.Duration(downtimeSeconds * float64(time.Second)),
		Converged:  converged,
	}
}

// energyKWh converts E_mig (Joules) to kWh for evaluator cost accounting.
func energyKWh(joules float64) float64 {
	return joules / 3_600_000
}

// EnergyKWh is the exported form of energyKWh, used by the evaluator to
// convert a committed migration's E_mig into the same units as electricity
// cost accounting (§4.G: "migration overhead").
func EnergyKWh(joules float64) float64 { return energyKWh(joules) }

// ComputeMigrationPhysics is the exported form of computeMigrationPhysics,
// used by the evaluator to re-derive E_mig for a committed Migrate action
// (bandwidth and dirty-page rate must match what the scheduler used when it
// selected the migration).
func ComputeMigrationPhysics(memoryMB, bandwidthMbps, dirtyRateMBps float64) MigrationPhysics {
	return computeMigrationPhysics(memoryMB, bandwidthMbps, dirtyRateMBps)
}
