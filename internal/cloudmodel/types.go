// Package cloudmodel implements the timestamped state machine of servers,
// VMs, and allocations: State, Schedule, Action, and the Cloud that owns
// the three logical snapshots (_initial, _real, _current).
package cloudmodel

import (
	"time"

	"github.com/yourusername/geosched/internal/resource"
)

// Server is a placement target: a fixed capacity vector at a location.
// Servers are created once at Cloud construction and never destroyed.
type Server struct {
	ID       string
	Location string
	Capacity resource.Vector
}

// VM is a tenant workload: an immutable identity and demand vector plus the
// mutable scheduling bookkeeping (downtime, SLA-tier penalty count, current
// host). The host back-reference is a stable ServerID, not an owning
// pointer, per the design note on avoiding cyclic object graphs — an empty
// ServerID means "not currently allocated" (nil host).
type VM struct {
	ID       string
	Demand   resource.Vector
	ServerID string
	Downtime time.Duration
	Penalties int
}

// Allocated reports whether the VM currently has a host.
func (vm VM) Allocated() bool { return vm.ServerID != "" }

// Request is a VM boot/delete event streamed by the Environment.
type RequestKind int

const (
	RequestBoot RequestKind = iota
	RequestDelete
)

func (k RequestKind) String() string {
	if k == RequestBoot {
		return "boot"
	}
	return "delete"
}

type Request struct {
	Time time.Time
	VM   VM
	Kind RequestKind
}
