package cloudmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(minute int) time.Time {
	return time.Date(2026, 1, 1, 0, minute, 0, 0, time.UTC)
}

func TestScheduleAddKeepsStableOrderWithinTimestamp(t *testing.T) {
	sch := NewSchedule()
	sch.Add(Delete{VMID: "first"}, at(5))
	sch.Add(Delete{VMID: "second"}, at(5))
	sch.Add(Delete{VMID: "zero"}, at(0))

	entries := sch.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "zero", entries[0].Action.(Delete).VMID)
	assert.Equal(t, "first", entries[1].Action.(Delete).VMID)
	assert.Equal(t, "second", entries[2].Action.(Delete).VMID)
}

func TestFilterCurrentActionsHalfOpenInterval(t *testing.T) {
	sch := NewSchedule()
	sch.Add(Delete{VMID: "before"}, at(4))
	sch.Add(Delete{VMID: "in"}, at(5))
	sch.Add(Delete{VMID: "edge"}, at(10))
	sch.Add(Delete{VMID: "after"}, at(11))

	got := sch.FilterCurrentActions(at(5), 5*time.Minute)
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].Action.(Delete).VMID)
}

func TestSliceAssociativity(t *testing.T) {
	// P3: replaying S once equals replaying S[:t*] then S[t*:].
	sch := NewSchedule()
	sch.Add(Delete{VMID: "a"}, at(0))
	sch.Add(Delete{VMID: "b"}, at(5))
	sch.Add(Delete{VMID: "c"}, at(10))

	split := at(5)
	head := sch.Slice(at(0), split)
	tail := sch.Slice(split, at(11))

	combined := NewSchedule()
	combined.Append(head)
	combined.Append(tail)

	var names []string
	for _, e := range combined.Entries() {
		names = append(names, e.Action.(Delete).VMID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}
