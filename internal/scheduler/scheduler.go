package scheduler

import (
	"log"
	"math/rand"
	"time"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/environment"
)

// Scheduler is the Best-Cost-Decreasing core (§4.F). It owns no state of
// its own beyond its configuration and a deterministic PRNG for the
// random-fit scenario — the Cloud and Environment it operates on are
// supplied to Reevaluate on every call.
type Scheduler struct {
	cfg Config
	rng *rand.Rand
}

// New builds a Scheduler from a validated Config. seed fixes the random-fit
// draw order so runs of scenario 1 are reproducible.
func New(cfg Config, seed int64) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{cfg: cfg, rng: rand.New(rand.NewSource(seed))}, nil
}

// Reevaluate runs the per-tick algorithm (§4.F.1) against cloud's scratch
// state: place every boot request due at t, then — unless this is the
// final tick — select and commit migrations for the upcoming period.
// _current is reset to _real on both entry and exit, so Reevaluate never
// leaks speculative state across ticks.
func (sch *Scheduler) Reevaluate(cloud *cloudmodel.Cloud, env *environment.Environment, t time.Time) *cloudmodel.Schedule {
	cloud.ResetToReal()
	defer cloud.ResetToReal()

	schedule := cloudmodel.NewSchedule()

	for _, req := range env.GetRequests() {
		if req.Kind != cloudmodel.RequestBoot {
			continue
		}
		host, err := findHost(env, sch.cfg, cloud.Current(), req.VM, req.Time, sch.rng)
		if err != nil {
			log.Printf("scheduler: dropping unadmitted boot for vm %q: %v", req.VM.ID, err)
			continue
		}
		action := cloudmodel.Migrate{VM: req.VM, ServerID: host}
		if err := cloud.Apply(action); err != nil {
			log.Printf("scheduler: placement for vm %q rejected by state: %v", req.VM.ID, err)
			continue
		}
		schedule.Add(action, req.Time)
	}

	next := t.Add(env.GetPeriod())
	if !next.Before(env.End) {
		return schedule
	}
	if !sch.cfg.Scenario.UsesMigration() {
		return schedule
	}

	var plans []MigrationPlan
	if sch.cfg.AlternateCostModel {
		plans = selectMigrationsByCheapestForecast(env, sch.cfg, cloud.Current(), t)
	} else {
		plans = selectMigrations(env, sch.cfg, cloud.Current(), t)
	}

	for _, plan := range plans {
		target, ok := firstFittingServerAt(cloud.Current(), plan.VM, plan.Location)
		if !ok {
			continue // no room yet; reconsidered next tick (§4.F.7)
		}
		vm := plan.VM
		vm.Downtime += plan.Physics.Downtime
		action := cloudmodel.Migrate{VM: vm, ServerID: target}
		if err := cloud.Apply(action); err != nil {
			log.Printf("scheduler: migration of vm %q to %q rejected by state: %v", vm.ID, target, err)
			continue
		}
		schedule.Add(action, next)
	}

	return schedule
}

// firstFittingServerAt returns the first server in loc with room for vm, in
// the roster's insertion order (§4.F.2), for stable, deterministic
// migration target selection.
func firstFittingServerAt(state cloudmodel.State, vm cloudmodel.VM, loc string) (string, bool) {
	for _, srv := range state.FittingServers(vm) {
		if srv.Location == loc {
			return srv.ID, true
		}
	}
	return "", false
}
