package evaluator

import (
	"time"

	"github.com/yourusername/geosched/internal/cloudmodel"
)

// constraintPenalty is the time-weighted mean, over the stepwise-constant
// segments between samples, of 0.6·(1−ratio_within_capacity) +
// 0.4·(1−ratio_allocated) (§4.G).
func constraintPenalty(samples []utilSample, to time.Time) float64 {
	if len(samples) == 0 {
		return 0
	}
	var weightedSum, totalWeight float64
	for i, s := range samples {
		end := to
		if i+1 < len(samples) {
			end = samples[i+1].Time
		}
		w := end.Sub(s.Time).Seconds()
		if w < 0 {
			w = 0
		}
		penalty := 0.6*(1-s.RatioWithinCap) + 0.4*(1-s.RatioAlloc)
		weightedSum += penalty * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0.6*(1-samples[0].RatioWithinCap) + 0.4*(1-samples[0].RatioAlloc)
	}
	return weightedSum / totalWeight
}

// slaPenalty computes, per VM, migrations observed per 4-hour window over
// [from, to] and maps that rate linearly [1,4] -> [0,1] (clipped outside),
// then averages across VMs (§4.G). A VM with zero migrations scores 0.
func slaPenalty(migrations []committedMigration, vmIDs []string, from, to time.Time) float64 {
	if len(vmIDs) == 0 {
		return 0
	}
	counts := make(map[string]int, len(vmIDs))
	for _, id := range vmIDs {
		counts[id] = 0
	}
	for _, m := range migrations {
		counts[m.VM.ID]++
	}

	windowHours := to.Sub(from).Hours()
	if windowHours <= 0 {
		return 0
	}
	fourHourWindows := windowHours / 4

	var sum float64
	for _, id := range vmIDs {
		rate := float64(counts[id])
		if fourHourWindows > 0 {
			rate = float64(counts[id]) / fourHourWindows
		}
		sum += clipLinear(rate, 1, 4)
	}
	return sum / float64(len(vmIDs))
}

// clipLinear maps v linearly so lo -> 0 and hi -> 1, clipping outside
// [lo, hi].
func clipLinear(v, lo, hi float64) float64 {
	if v <= lo {
		return 0
	}
	if v >= hi {
		return 1
	}
	return (v - lo) / (hi - lo)
}

// knownVMIDs collects every VM identity still known to state, used to scope
// the SLA-penalty average (§4.G: "mean across VMs"). Evaluate passes the
// state left after the replay, so VMs deleted during the replay are not
// included.
func knownVMIDs(state cloudmodel.State) []string {
	ids := make([]string, 0, len(state.VMs()))
	for id := range state.VMs() {
		ids = append(ids, id)
	}
	return ids
}
