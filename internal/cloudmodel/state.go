package cloudmodel

import (
	"fmt"

	"github.com/yourusername/geosched/internal/resource"
)

// State is an immutable-by-convention allocation snapshot. Servers are
// shared (capacity/location never change after construction, so sharing
// the slice across States is safe); the VM map and alloc sets are
// deep-copied on Copy() since downtime/penalties/host assignment can
// diverge between the speculative (_current) and committed (_real) views
// of a Cloud.
type State struct {
	servers []Server // shared, ordered, identity-stable
	vms     map[string]VM
	alloc   map[string]map[string]struct{} // serverID -> set of vmIDs
	paused  map[string]struct{}
	suspended map[string]struct{}
}

// NewState builds an empty snapshot over a fixed server roster.
func NewState(servers []Server) State {
	alloc := make(map[string]map[string]struct{}, len(servers))
	for _, s := range servers {
		alloc[s.ID] = make(map[string]struct{})
	}
	return State{
		servers:   servers,
		vms:       make(map[string]VM),
		alloc:     alloc,
		paused:    make(map[string]struct{}),
		suspended: make(map[string]struct{}),
	}
}

// Servers returns the ordered, identity-stable server roster.
func (s State) Servers() []Server { return s.servers }

// ServerByID looks up a server by its stable ID.
func (s State) ServerByID(id string) (Server, bool) {
	for _, srv := range s.servers {
		if srv.ID == id {
			return srv, true
		}
	}
	return Server{}, false
}

// VMs returns every VM currently known to the state (I3's membership set).
func (s State) VMs() map[string]VM { return s.vms }

// VM looks up a VM by ID.
func (s State) VM(id string) (VM, bool) {
	vm, ok := s.vms[id]
	return vm, ok
}

// IsAllocated reports whether vmID currently has a host (I1).
func (s State) IsAllocated(vmID string) bool {
	vm, ok := s.vms[vmID]
	return ok && vm.Allocated()
}

// AllAllocated reports whether every known VM currently has a host.
func (s State) AllAllocated() bool {
	for _, vm := range s.vms {
		if !vm.Allocated() {
			return false
		}
	}
	return true
}

// VMsOn returns the VMs allocated to a server, in no particular order.
func (s State) VMsOn(serverID string) []VM {
	ids := s.alloc[serverID]
	out := make([]VM, 0, len(ids))
	for id := range ids {
		out = append(out, s.vms[id])
	}
	return out
}

// usedCapacity sums the demand of every VM allocated to serverID. Paused
// and suspended VMs still occupy capacity (they are merely zero-power, not
// deallocated).
func (s State) usedCapacity(serverID string) resource.Vector {
	var used resource.Vector
	for id := range s.alloc[serverID] {
		used = used.Add(s.vms[id].Demand)
	}
	return used
}

// WithinCapacity reports whether I2 holds for a single server.
func (s State) WithinCapacity(serverID string) bool {
	srv, ok := s.ServerByID(serverID)
	if !ok {
		return true
	}
	return s.usedCapacity(serverID).LessEq(srv.Capacity)
}

// AllWithinCapacity reports whether I2 holds cluster-wide.
func (s State) AllWithinCapacity() bool {
	for _, srv := range s.servers {
		if !s.WithinCapacity(srv.ID) {
			return false
		}
	}
	return true
}

// fits reports whether vm could be placed on serverID without violating I2.
// Used by Place and by the scheduler's placement search before any apply,
// per §4.F.7: invariant I2 is enforced here, never by catching a panic.
func (s State) fits(vm VM, serverID string) bool {
	srv, ok := s.ServerByID(serverID)
	if !ok {
		return false
	}
	used := s.usedCapacity(serverID)
	if existing, wasAllocated := s.vms[vm.ID]; wasAllocated && existing.ServerID == serverID {
		used = used.Sub(existing.Demand)
	}
	return used.Add(vm.Demand).LessEq(srv.Capacity)
}

// Fits is the exported form of fits, used by the scheduler to test
// candidate servers before committing to a placement.
func (s State) Fits(vm VM, serverID string) bool { return s.fits(vm, serverID) }

// FittingServers returns every server with enough spare capacity for
// demand, in roster order. Used by the scheduler's placement search
// to narrow candidates before ranking by cost key (§4.F.2).
func (s State) FittingServers(vm VM) []Server {
	var out []Server
	for _, srv := range s.servers {
		if s.fits(vm, srv.ID) {
			out = append(out, srv)
		}
	}
	return out
}

// Place registers vm (if new) and allocates it to serverID. Fails if doing
// so would violate I1 (already placed elsewhere — use Migrate for that) or
// I2 (capacity).
func (s State) Place(vm VM, serverID string) (State, error) {
	if existing, ok := s.vms[vm.ID]; ok && existing.Allocated() {
		return s, fmt.Errorf("cloudmodel: place: vm %q already allocated on %q", vm.ID, existing.ServerID)
	}
	if _, ok := s.ServerByID(serverID); !ok {
		return s, fmt.Errorf("cloudmodel: place: unknown server %q", serverID)
	}
	if !s.fits(vm, serverID) {
		return s, fmt.Errorf("cloudmodel: place: vm %q does not fit on server %q: %w", vm.ID, serverID, ErrCapacityViolation)
	}

	out := s.Copy()
	vm.ServerID = serverID
	out.vms[vm.ID] = vm
	out.alloc[serverID][vm.ID] = struct{}{}
	return out, nil
}

// Remove deallocates vm from its current host, if any. Returns
// ErrMissingAllocation if the VM is unknown to the state; a known VM that
// has no host is left as it is (not an error).
func (s State) Remove(vmID string) (State, error) {
	vm, ok := s.vms[vmID]
	if !ok {
		return s, fmt.Errorf("cloudmodel: remove: %w", ErrMissingAllocation)
	}
	out := s.Copy()
	if vm.Allocated() {
		delete(out.alloc[vm.ServerID], vmID)
	}
	vm.ServerID = ""
	out.vms[vmID] = vm
	return out, nil
}

// Migrate moves vm to serverID. Idempotent if vm is already on serverID;
// otherwise removes it from its current host (if any) and places it on the
// new one. This is also how a fresh VM boot is modeled internally (§4.F.1:
// "the boot is modeled as a migration from nil").
func (s State) Migrate(vm VM, serverID string) (State, error) {
	if existing, ok := s.vms[vm.ID]; ok && existing.ServerID == serverID {
		return s, nil
	}
	if _, ok := s.ServerByID(serverID); !ok {
		return s, fmt.Errorf("cloudmodel: migrate: unknown server %q", serverID)
	}
	if !s.fits(vm, serverID) {
		return s, fmt.Errorf("cloudmodel: migrate: vm %q does not fit on server %q: %w", vm.ID, serverID, ErrCapacityViolation)
	}

	out := s.Copy()
	if existing, ok := out.vms[vm.ID]; ok && existing.Allocated() {
		delete(out.alloc[existing.ServerID], vm.ID)
	}
	vm.ServerID = serverID
	out.vms[vm.ID] = vm
	out.alloc[serverID][vm.ID] = struct{}{}
	return out, nil
}

// Pause toggles vmID into the paused set. Fails for an unallocated VM.
func (s State) Pause(vmID string) (State, error) {
	vm, ok := s.vms[vmID]
	if !ok || !vm.Allocated() {
		return s, fmt.Errorf("cloudmodel: pause: %w", ErrMissingAllocation)
	}
	out := s.Copy()
	delete(out.suspended, vmID)
	out.paused[vmID] = struct{}{}
	return out, nil
}

// Unpause removes vmID from the paused set.
func (s State) Unpause(vmID string) (State, error) {
	out := s.Copy()
	delete(out.paused, vmID)
	return out, nil
}

// Suspend and Unsuspend mirror Pause/Unpause for the suspended set. No
// Action variant drives these directly (§3 lists only five action kinds);
// they exist so State satisfies its own data model (paused/suspended as
// disjoint VM subsets) and so the evaluator's zero-utilisation detection
// has a first-class set to consult if a future driver needs it.
func (s State) Suspend(vmID string) (State, error) {
	vm, ok := s.vms[vmID]
	if !ok || !vm.Allocated() {
		return s, fmt.Errorf("cloudmodel: suspend: %w", ErrMissingAllocation)
	}
	out := s.Copy()
	delete(out.paused, vmID)
	out.suspended[vmID] = struct{}{}
	return out, nil
}

func (s State) Unsuspend(vmID string) (State, error) {
	out := s.Copy()
	delete(out.suspended, vmID)
	return out, nil
}

func (s State) IsPaused(vmID string) bool {
	_, ok := s.paused[vmID]
	return ok
}

func (s State) IsSuspended(vmID string) bool {
	_, ok := s.suspended[vmID]
	return ok
}

// Delete removes vmID from the known VM set entirely (I3). Matches the
// decision recorded in DESIGN.md that Delete is a first-class Action, not a
// side-effect cleanup: it fully retires the VM's identity from the state.
func (s State) Delete(vmID string) (State, error) {
	vm, ok := s.vms[vmID]
	if !ok {
		return s, fmt.Errorf("cloudmodel: delete: %w", ErrMissingAllocation)
	}
	out := s.Copy()
	if vm.Allocated() {
		delete(out.alloc[vm.ServerID], vmID)
	}
	delete(out.vms, vmID)
	delete(out.paused, vmID)
	delete(out.suspended, vmID)
	return out, nil
}

// CalculateUtilisations returns the per-server weighted utilisation
// (§4.A). Paused and suspended VMs still occupy capacity but the caller
// (the evaluator) is responsible for zeroing their power contribution —
// State only reports occupancy, not power.
func (s State) CalculateUtilisations(weights resource.Vector) map[string]float64 {
	out := make(map[string]float64, len(s.servers))
	for _, srv := range s.servers {
		used := s.usedCapacity(srv.ID)
		out[srv.ID] = resource.WeightedUtilisation(used, srv.Capacity, weights)
	}
	return out
}

// CalculateUtilisationsPerLocation sums per-server utilisation grouped by
// server location.
func (s State) CalculateUtilisationsPerLocation(weights resource.Vector) map[string]float64 {
	perServer := s.CalculateUtilisations(weights)
	out := make(map[string]float64)
	for _, srv := range s.servers {
		out[srv.Location] += perServer[srv.ID]
	}
	return out
}

// RatioWithinCapacity is the fraction of servers satisfying I2, in [0,1].
func (s State) RatioWithinCapacity() float64 {
	if len(s.servers) == 0 {
		return 1
	}
	ok := 0
	for _, srv := range s.servers {
		if s.WithinCapacity(srv.ID) {
			ok++
		}
	}
	return float64(ok) / float64(len(s.servers))
}

// RatioAllocated is the fraction of known VMs currently allocated, in [0,1].
func (s State) RatioAllocated() float64 {
	if len(s.vms) == 0 {
		return 1
	}
	allocated := 0
	for _, vm := range s.vms {
		if vm.Allocated() {
			allocated++
		}
	}
	return float64(allocated) / float64(len(s.vms))
}

// CapacityPenalty is the evaluator's constraint-violation building block:
// 0.6*(1-ratio_within_capacity) + 0.4*(1-ratio_allocated), in [0,1].
func (s State) CapacityPenalty() float64 {
	return 0.6*(1-s.RatioWithinCapacity()) + 0.4*(1-s.RatioAllocated())
}

// Copy deep-copies the VM map and alloc sets (P2: mutating one state must
// not affect the other) but shares the Servers slice, since capacity and
// location never change after construction.
func (s State) Copy() State {
	vms := make(map[string]VM, len(s.vms))
	for k, v := range s.vms {
		vms[k] = v
	}
	alloc := make(map[string]map[string]struct{}, len(s.alloc))
	for server, set := range s.alloc {
		newSet := make(map[string]struct{}, len(set))
		for id := range set {
			newSet[id] = struct{}{}
		}
		alloc[server] = newSet
	}
	paused := make(map[string]struct{}, len(s.paused))
	for id := range s.paused {
		paused[id] = struct{}{}
	}
	suspended := make(map[string]struct{}, len(s.suspended))
	for id := range s.suspended {
		suspended[id] = struct{}{}
	}
	return State{
		servers:   s.servers,
		vms:       vms,
		alloc:     alloc,
		paused:    paused,
		suspended: suspended,
	}
}

// Transition applies action to a copy of s and returns the result, leaving
// s untouched (§4.B: "returns a new State with action applied; original
// unchanged").
func (s State) Transition(action Action) (State, error) {
	return action.Apply(s)
}
