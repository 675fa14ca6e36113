package scheduler

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/environment"
)

// ErrNoFit is returned by findHost when no server currently has room for
// the requested VM. Callers log and drop the request per §4.F.7 — this is
// never propagated as a fatal error.
var ErrNoFit = fmt.Errorf("scheduler: no server has capacity for the request")

// findHost picks a target server for vm at time t, using whichever policy
// the scenario selects (§4.F.2):
//
//   - random fit: any server with room, chosen uniformly at random
//   - cheapest-now / cheapest-forecast: the cheapest *location* by costKey,
//     then (within that location) the first server with room, servers
//     ordered by ID for determinism
func findHost(env *environment.Environment, cfg Config, state cloudmodel.State, vm cloudmodel.VM, t time.Time, rng *rand.Rand) (string, error) {
	candidates := state.FittingServers(vm)
	if len(candidates) == 0 {
		return "", ErrNoFit
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	if cfg.Scenario.IsRandom() {
		return candidates[rng.Intn(len(candidates))].ID, nil
	}

	byLoc := make(map[string][]cloudmodel.Server)
	for _, s := range candidates {
		byLoc[s.Location] = append(byLoc[s.Location], s)
	}

	var (
		bestLoc   string
		bestKey   float64
		haveBest  bool
		skippedNA []string
	)
	for _, loc := range env.Locations() {
		servers, ok := byLoc[loc]
		if !ok || len(servers) == 0 {
			continue
		}
		key, err := costKey(env, cfg, loc, t)
		if err != nil {
			skippedNA = append(skippedNA, loc)
			continue
		}
		if !haveBest || key < bestKey {
			bestKey, bestLoc, haveBest = key, loc, true
		}
	}
	if !haveBest {
		return "", fmt.Errorf("scheduler: no candidate location had usable price data (tried %v): %w", skippedNA, ErrNoFit)
	}
	return byLoc[bestLoc][0].ID, nil
}
