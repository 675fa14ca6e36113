// Package simulator drives the tick loop that ties Environment,
// Scheduler, and Cloud together into a full run (§4.H).
package simulator

import (
	"log"
	"time"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/environment"
	"github.com/yourusername/geosched/internal/metrics"
	"github.com/yourusername/geosched/internal/resource"
	"github.com/yourusername/geosched/internal/scheduler"
)

// Progress is a snapshot of a run's cumulative counters, handed to an
// optional progress callback once per tick so a caller (the dashboard's
// Bubble Tea model, in particular) can render a live view without
// reaching into Simulator internals.
type Progress struct {
	Time                  time.Time
	TickIndex, TotalTicks int
	Admitted, Dropped     int
	Migrations            int
}

// ProgressFunc receives one Progress snapshot per tick.
type ProgressFunc func(Progress)

// Simulator owns the scheduler instance driving request placement and
// migration decisions; the Cloud and Environment it operates on are
// supplied to Run.
type Simulator struct {
	scheduler *scheduler.Scheduler
	metrics   *metrics.Metrics
	progress  ProgressFunc
}

// New builds a Simulator around an already-validated Scheduler.
func New(sch *scheduler.Scheduler) *Simulator {
	return &Simulator{scheduler: sch}
}

// WithMetrics attaches a Metrics sink that Run updates as it ticks —
// optional, since a bare simulation has no -metrics-addr to serve from.
func (sim *Simulator) WithMetrics(m *metrics.Metrics) *Simulator {
	sim.metrics = m
	return sim
}

// WithProgress attaches a callback invoked once per tick with cumulative
// run counters — the seam the live dashboard uses to animate a run
// without the dashboard package reaching into the tick loop itself.
func (sim *Simulator) WithProgress(fn ProgressFunc) *Simulator {
	sim.progress = fn
	return sim
}

// Run drives env's logical clock from start to end. At each tick: delete
// requests are committed to `_real` directly (they need no placement
// decision); the scheduler is asked to reevaluate, and everything it
// schedules — admitted boots (modeled as Migrate-from-nil) at their exact
// request timestamps, plus any migrations chosen for the upcoming period —
// is committed to `_real` and appended to the real Schedule. Returns the
// committed Schedule once env reaches its final tick (§4.H).
func (sim *Simulator) Run(cloud *cloudmodel.Cloud, env *environment.Environment) *cloudmodel.Schedule {
	real := cloudmodel.NewSchedule()

	totalTicks := 1
	if env.GetPeriod() > 0 {
		totalTicks = int(env.End.Sub(env.Start)/env.GetPeriod()) + 1
	}
	var tickIndex, admitted, dropped, migrations int

	for env.Next() {
		t := env.GetTime()
		tickIndex++
		if sim.metrics != nil {
			sim.metrics.Tick()
		}

		requestedBoots := 0
		for _, req := range env.GetRequests() {
			if req.Kind == cloudmodel.RequestBoot {
				requestedBoots++
			}
			if req.Kind != cloudmodel.RequestDelete {
				continue
			}
			action := cloudmodel.Delete{VMID: req.VM.ID}
			if err := cloud.ApplyReal(action); err != nil {
				log.Printf("simulator: delete for vm %q rejected: %v", req.VM.ID, err)
				continue
			}
			real.Add(action, req.Time)
			admitted++
			if sim.metrics != nil {
				sim.metrics.RequestAdmitted("delete")
			}
		}

		tick := sim.scheduler.Reevaluate(cloud, env, t)
		admittedBoots := 0
		for _, entry := range tick.Entries() {
			wasAllocated := false
			if m, ok := entry.Action.(cloudmodel.Migrate); ok {
				if existing, ok := cloud.Real().VM(m.VM.ID); ok {
					wasAllocated = existing.Allocated()
				}
			}

			if err := cloud.ApplyReal(entry.Action); err != nil {
				log.Printf("simulator: %s rejected against _real: %v", entry.Action, err)
				continue
			}
			real.Add(entry.Action, entry.Time)

			if wasAllocated {
				migrations++
				if sim.metrics != nil {
					sim.metrics.Migration()
				}
			} else {
				admitted++
				admittedBoots++
				if sim.metrics != nil {
					sim.metrics.RequestAdmitted("boot")
				}
			}
		}
		if d := requestedBoots - admittedBoots; d > 0 {
			dropped += d
			if sim.metrics != nil {
				for i := 0; i < d; i++ {
					sim.metrics.RequestDropped()
				}
			}
		}

		if sim.metrics != nil {
			sim.metrics.SetRunningCost(runningCombinedCost(cloud.Real(), env, t))
		}

		if sim.progress != nil {
			sim.progress(Progress{
				Time:       t,
				TickIndex:  tickIndex,
				TotalTicks: totalTicks,
				Admitted:   admitted,
				Dropped:    dropped,
				Migrations: migrations,
			})
		}
	}

	return real
}

// runningCombinedCost is a cheap per-tick proxy for the combined electricity
// cost: location-weighted utilisation times that location's current spot
// price, summed across locations. It is deliberately simpler than the
// evaluator's full power-sampled combined cost (§4.G) — no noise draw, no
// cooling pPUE — since the simulator's tick loop has no business running
// the evaluator's replay on every tick; it exists only to give -metrics-addr
// a live trend to graph while a run is in progress.
func runningCombinedCost(state cloudmodel.State, env *environment.Environment, t time.Time) float64 {
	utilByLoc := state.CalculateUtilisationsPerLocation(resource.DefaultWeights())
	var cost float64
	for loc, util := range utilByLoc {
		price, err := env.Price(loc, t)
		if err != nil {
			continue
		}
		cost += util * price
	}
	return cost
}
