package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/environment"
	"github.com/yourusername/geosched/internal/resource"
)

// MigrationPlan names a VM's chosen destination and the utility score that
// earned it a place in the migration list (§4.F.4).
type MigrationPlan struct {
	VM       cloudmodel.VM
	Location string
	Utility  float64
	Physics  MigrationPhysics
}

// rawCandidate holds the unnormalized per-(vm,loc) quantities computed in
// the first pass, before the cross-pair maxima needed to normalize them are
// known.
type rawCandidate struct {
	vm          cloudmodel.VM
	loc         string
	currentLoc  string
	slaP        float64 // already self-normalized, no second pass needed
	energyJ     float64
	remHours    float64
	curLocUtil  float64
	meanErrDiff float64
	physics     MigrationPhysics
}

// selectMigrations implements §4.F.4's multi-criterion utility selection:
// for every still-allocated VM with remaining_duration > 0, score every
// other location, keep each VM's best destination, and return those whose
// utility clears the configured threshold, ranked best first.
func selectMigrations(env *environment.Environment, cfg Config, state cloudmodel.State, t time.Time) []MigrationPlan {
	locs := env.Locations()
	if len(locs) < 2 {
		return nil
	}
	utilByLoc := state.CalculateUtilisationsPerLocation(resource.DefaultWeights())
	maxLocUtil := 0.0
	for _, u := range utilByLoc {
		if u > maxLocUtil {
			maxLocUtil = u
		}
	}

	var raws []rawCandidate
	maxEnergy, maxRemHours := 0.0, 0.0
	minMeanErr, maxMeanErr := math.Inf(1), math.Inf(-1)

	for _, vm := range state.VMs() {
		if !vm.Allocated() {
			continue
		}
		remaining := env.GetRemainingDuration(vm.ID, t)
		if remaining <= 0 {
			continue
		}
		srv, ok := state.ServerByID(vm.ServerID)
		if !ok {
			continue
		}
		currentLoc := srv.Location
		remHours := remaining.Hours()
		if remHours > maxRemHours {
			maxRemHours = remHours
		}

		horizon := int(remaining / env.GetPeriod())
		if horizon > cfg.MaxFCHorizon-1 {
			horizon = cfg.MaxFCHorizon - 1
		}
		if horizon < 1 {
			horizon = 1
		}
		from := t.Add(env.GetPeriod()) // mirrors costKey's window: forecasts start at t+period, not t (§4.F.3)
		to := from.Add(time.Duration(horizon) * env.GetPeriod())
		var curMean float64
		var curErr error
		if cfg.Scenario.IsIdeal() {
			curMean, curErr = env.ActualMean(currentLoc, from, to, nil)
		} else {
			curMean, curErr = env.ForecastMean(currentLoc, from, to, nil)
		}

		for _, loc := range locs {
			if loc == currentLoc {
				continue
			}
			var targetMean float64
			var tgtErr error
			if cfg.Scenario.IsIdeal() {
				targetMean, tgtErr = env.ActualMean(loc, from, to, nil)
			} else {
				targetMean, tgtErr = env.ForecastMean(loc, from, to, nil)
			}
			var meanErrDiff float64
			if curErr == nil && tgtErr == nil {
				meanErrDiff = curMean - targetMean
			}

			phys := computeMigrationPhysics(vm.Demand.Get(resource.RAM), cfg.Bandwidth.For(loc), cfg.DirtyPageRate)
			energy := energyKWh(phys.EnergyJ)
			if energy > maxEnergy {
				maxEnergy = energy
			}

			slaP := slaProbability(env, vm, phys.Downtime)

			if meanErrDiff < minMeanErr {
				minMeanErr = meanErrDiff
			}
			if meanErrDiff > maxMeanErr {
				maxMeanErr = meanErrDiff
			}

			raws = append(raws, rawCandidate{
				vm:          vm,
				loc:         loc,
				currentLoc:  currentLoc,
				slaP:        slaP,
				energyJ:     energy,
				remHours:    remHours,
				curLocUtil:  utilByLoc[currentLoc],
				meanErrDiff: meanErrDiff,
				physics:     phys,
			})
		}
	}

	best := make(map[string]MigrationPlan)
	for _, r := range raws {
		pEn := normalize(r.energyJ, 0, maxEnergy)
		pRem := normalize(r.remHours, 0, maxRemHours)
		pDC := normalize(r.curLocUtil, 0, maxLocUtil)
		pCS := normalize(r.meanErrDiff, minMeanErr, maxMeanErr)

		u := cfg.Weights.SLA*r.slaP + cfg.Weights.Energy*pEn + cfg.Weights.VMRem*pRem +
			cfg.Weights.DCLoad*pDC + cfg.Weights.Cost*pCS

		if cur, ok := best[r.vm.ID]; !ok || u > cur.Utility {
			best[r.vm.ID] = MigrationPlan{VM: r.vm, Location: r.loc, Utility: u, Physics: r.physics}
		}
	}

	plans := make([]MigrationPlan, 0, len(best))
	for _, p := range best {
		if p.Utility > cfg.UtilityThreshold {
			plans = append(plans, p)
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Utility != plans[j].Utility {
			return plans[i].Utility > plans[j].Utility
		}
		return plans[i].VM.ID < plans[j].VM.ID // stable tie-break
	})
	return plans
}

// slaProbability computes p_sla: the VM's observed downtime plus the
// predicted downtime of this candidate migration, relative to the
// threshold for its current penalty tier, clipped to 1. Once a VM has
// accrued three or more penalties it is always treated as maximally at
// risk (§4.F.4).
func slaProbability(env *environment.Environment, vm cloudmodel.VM, predictedDowntime time.Duration) float64 {
	if vm.Penalties >= 3 {
		return 1
	}
	tiers := env.SLATiers(vm.ID)
	threshold := tiers[vm.Penalties]
	if threshold <= 0 {
		return 1
	}
	ratio := (vm.Downtime + predictedDowntime).Seconds() / threshold.Seconds()
	if ratio > 1 {
		return 1
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}

// normalize maps v into [0,1] given the observed [lo, hi] range across all
// candidates; a degenerate (empty or zero-width) range normalizes to 0
// rather than dividing by zero.
func normalize(v, lo, hi float64) float64 {
	if hi <= lo || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0
	}
	n := (v - lo) / (hi - lo)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// selectMigrationsByCheapestForecast is the simpler fallback policy
// (`_get_migration_vms`, §4.F.4): migrate a VM only when the remaining
// time justifies the migration's own duration and the destination is
// strictly cheaper once migration cost is accounted for. VMs are
// considered in descending remaining-duration order so the
// longest-lived VMs get first claim on a beneficial move.
func selectMigrationsByCheapestForecast(env *environment.Environment, cfg Config, state cloudmodel.State, t time.Time) []MigrationPlan {
	locs := env.Locations()
	if len(locs) < 2 {
		return nil
	}

	type candidate struct {
		vm  cloudmodel.VM
		rem time.Duration
	}
	var candidates []candidate
	for _, vm := range state.VMs() {
		if !vm.Allocated() {
			continue
		}
		rem := env.GetRemainingDuration(vm.ID, t)
		if rem <= 0 {
			continue
		}
		candidates = append(candidates, candidate{vm: vm, rem: rem})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].rem > candidates[j].rem })

	var plans []MigrationPlan
	for _, c := range candidates {
		srv, ok := state.ServerByID(c.vm.ServerID)
		if !ok {
			continue
		}
		currentLoc := srv.Location
		priceCurrent, err := env.Price(currentLoc, t)
		if err != nil {
			continue
		}

		var (
			bestLoc   string
			bestPrice float64
			bestPhys  MigrationPhysics
			found     bool
		)
		for _, loc := range locs {
			if loc == currentLoc {
				continue
			}
			phys := computeMigrationPhysics(c.vm.Demand.Get(resource.RAM), cfg.Bandwidth.For(loc), cfg.DirtyPageRate)
			if c.rem <= phys.Duration {
				continue
			}
			priceRemote, err := env.Price(loc, t)
			if err != nil {
				continue
			}
			migrationCost := energyKWh(phys.EnergyJ) * priceRemote
			if migrationCost+priceRemote >= priceCurrent {
				continue
			}
			if !found || priceRemote < bestPrice {
				bestLoc, bestPrice, bestPhys, found = loc, priceRemote, phys, true
			}
		}
		if found {
			plans = append(plans, MigrationPlan{VM: c.vm, Location: bestLoc, Utility: 0, Physics: bestPhys})
		}
	}
	return plans
}
