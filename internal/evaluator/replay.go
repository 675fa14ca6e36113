package evaluator

import (
	"time"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/resource"
)

// utilSample is one stepwise-constant observation of every server's
// weighted utilisation, taken at an action timestamp (or a window
// boundary).
type utilSample struct {
	Time           time.Time
	Util           map[string]float64 // serverID -> weighted utilisation
	RatioWithinCap float64            // I2 compliance ratio at this instant
	RatioAlloc     float64            // I3 (membership/allocation) ratio at this instant
}

// committedMigration records one Migrate action whose before/after host
// differ, the set §4.G charges migration overhead against.
type committedMigration struct {
	VM      cloudmodel.VM
	FromLoc string
	ToLoc   string
	Time    time.Time
}

// replay drives cloud's scratch state (`_current`) through schedule's
// entries in [from, to], recording a per-server utilisation sample at every
// action timestamp plus the window's start and end (holding the last value
// at `to`, per §4.G). It borrows `_current` as scratch the same way the
// scheduler does during reevaluate — the caller is responsible for treating
// the Cloud as busy for the duration of the call.
func replay(cloud *cloudmodel.Cloud, fromInitial bool, schedule *cloudmodel.Schedule, from, to time.Time, weights resource.Vector) ([]utilSample, []committedMigration, error) {
	if fromInitial {
		cloud.ResetToInitial()
	} else {
		cloud.ResetToReal()
	}

	var samples []utilSample
	var migrations []committedMigration

	samples = append(samples, snapshot(cloud, from, weights))

	for _, entry := range entriesInRange(schedule, from, to) {
		if mig, ok := entry.Action.(cloudmodel.Migrate); ok {
			if prevVM, ok := cloud.Current().VM(mig.VM.ID); ok && prevVM.Allocated() {
				if prevSrv, ok := cloud.Current().ServerByID(prevVM.ServerID); ok {
					if nextSrv, ok := cloud.Current().ServerByID(mig.ServerID); ok && prevSrv.ID != nextSrv.ID {
						migrations = append(migrations, committedMigration{
							VM:      mig.VM,
							FromLoc: prevSrv.Location,
							ToLoc:   nextSrv.Location,
							Time:    entry.Time,
						})
					}
				}
			}
		}

		if err := cloud.Apply(entry.Action); err != nil {
			continue // §4.F.7: domain violations never propagate, they just don't commit
		}
		samples = append(samples, snapshot(cloud, entry.Time, weights))
	}

	last := samples[len(samples)-1]
	if last.Time.Before(to) {
		samples = append(samples, utilSample{Time: to, Util: last.Util})
	}

	return samples, migrations, nil
}

// snapshot captures cloud's current state as a utilSample at time t.
func snapshot(cloud *cloudmodel.Cloud, t time.Time, weights resource.Vector) utilSample {
	state := cloud.Current()
	return utilSample{
		Time:           t,
		Util:           state.CalculateUtilisations(weights),
		RatioWithinCap: state.RatioWithinCapacity(),
		RatioAlloc:     state.RatioAllocated(),
	}
}

// entriesInRange returns schedule entries with timestamps in [from, to],
// inclusive of both ends (unlike Schedule.FilterCurrentActions, which is
// half-open — the evaluator needs the boundary action too).
func entriesInRange(schedule *cloudmodel.Schedule, from, to time.Time) []cloudmodel.Entry {
	var out []cloudmodel.Entry
	for _, e := range schedule.Entries() {
		if e.Time.Before(from) || e.Time.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// utilAt returns the stepwise-held utilisation for serverID at time t,
// given samples in ascending time order.
func utilAt(samples []utilSample, serverID string, t time.Time) float64 {
	val := 0.0
	for _, s := range samples {
		if s.Time.After(t) {
			break
		}
		if u, ok := s.Util[serverID]; ok {
			val = u
		}
	}
	return val
}
