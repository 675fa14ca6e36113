package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/resource"
)

func TestReplayDispatchesEachActionKind(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	vm := cloudmodel.VM{ID: "vm1", Demand: resource.NewVector(4, 2)}

	schedule := cloudmodel.NewSchedule()
	schedule.Add(cloudmodel.Boot{VM: vm, ServerID: "s1"}, start)
	schedule.Add(cloudmodel.Pause{VMID: "vm1"}, start.Add(time.Minute))
	schedule.Add(cloudmodel.Unpause{VMID: "vm1"}, start.Add(2*time.Minute))
	schedule.Add(cloudmodel.Migrate{VM: vm, ServerID: "s2"}, start.Add(3*time.Minute))
	schedule.Add(cloudmodel.Delete{VMID: "vm1"}, start.Add(4*time.Minute))

	d := NewSimulatedDriver()
	require.NoError(t, Replay(d, schedule))

	events := d.Events()
	require.Len(t, events, 5)
	assert.IsType(t, cloudmodel.Boot{}, events[0].Action)
	assert.IsType(t, cloudmodel.Pause{}, events[1].Action)
	assert.IsType(t, cloudmodel.Unpause{}, events[2].Action)
	assert.IsType(t, cloudmodel.Migrate{}, events[3].Action)
	assert.IsType(t, cloudmodel.Delete{}, events[4].Action)
}
