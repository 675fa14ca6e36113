package driver

import (
	"sync"
	"time"

	"github.com/yourusername/geosched/internal/cloudmodel"
)

// SimulatedDriver records every action it's asked to perform instead of
// dispatching it anywhere; the simulator's Cloud is the real source of
// truth, so this driver exists purely as an audit log / extension point.
// cmd/geosched replays the committed Schedule through it under -debug and
// logs the resulting event count.
type SimulatedDriver struct {
	mu     sync.Mutex
	events []Event
}

// NewSimulatedDriver returns a ready-to-use SimulatedDriver.
func NewSimulatedDriver() *SimulatedDriver {
	return &SimulatedDriver{}
}

func (d *SimulatedDriver) record(at time.Time, action cloudmodel.Action) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, Event{Time: at, Action: action})
}

func (d *SimulatedDriver) Boot(vm cloudmodel.VM, serverID string, at time.Time) error {
	d.record(at, cloudmodel.Boot{VM: vm, ServerID: serverID})
	return nil
}

func (d *SimulatedDriver) Delete(vmID string, at time.Time) error {
	d.record(at, cloudmodel.Delete{VMID: vmID})
	return nil
}

func (d *SimulatedDriver) Migrate(vm cloudmodel.VM, serverID string, at time.Time) error {
	d.record(at, cloudmodel.Migrate{VM: vm, ServerID: serverID})
	return nil
}

func (d *SimulatedDriver) Pause(vmID string, at time.Time) error {
	d.record(at, cloudmodel.Pause{VMID: vmID})
	return nil
}

func (d *SimulatedDriver) Unpause(vmID string, at time.Time) error {
	d.record(at, cloudmodel.Unpause{VMID: vmID})
	return nil
}

// Events returns every recorded event in call order. The returned slice
// must not be mutated by the caller.
func (d *SimulatedDriver) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// Replay feeds schedule through the driver in (Time, Seq) order, the way a
// Simulator would dispatch a committed real Schedule to a live backend.
func Replay(d Driver, schedule *cloudmodel.Schedule) error {
	for _, entry := range schedule.Entries() {
		var err error
		switch a := entry.Action.(type) {
		case cloudmodel.Boot:
			err = d.Boot(a.VM, a.ServerID, entry.Time)
		case cloudmodel.Delete:
			err = d.Delete(a.VMID, entry.Time)
		case cloudmodel.Migrate:
			err = d.Migrate(a.VM, a.ServerID, entry.Time)
		case cloudmodel.Pause:
			err = d.Pause(a.VMID, entry.Time)
		case cloudmodel.Unpause:
			err = d.Unpause(a.VMID, entry.Time)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
