// Package driver defines the plug-in seam between a committed Schedule and
// whatever actually carries out its actions. Replay dispatches a Schedule
// through the Driver interface rather than a concrete transport, and the
// scheduler, simulator and evaluator do not import this package — a
// future driver could dial a real hypervisor API without touching them.
package driver

import (
	"time"

	"github.com/yourusername/geosched/internal/cloudmodel"
)

// Driver carries out committed actions against whatever backs the cloud —
// a simulation (the only implementation this module ships), or in
// principle a real hypervisor cluster.
type Driver interface {
	Boot(vm cloudmodel.VM, serverID string, at time.Time) error
	Delete(vmID string, at time.Time) error
	Migrate(vm cloudmodel.VM, serverID string, at time.Time) error
	Pause(vmID string, at time.Time) error
	Unpause(vmID string, at time.Time) error
}

// Event records one Driver call, for the simulated Driver's audit trail and
// for tests asserting exactly what a run executed.
type Event struct {
	Time   time.Time
	Action cloudmodel.Action
}

var _ Driver = (*SimulatedDriver)(nil)
