package cloudmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/geosched/internal/resource"
)

func TestCloudApplyAffectsOnlyCurrent(t *testing.T) {
	c := NewCloud(twoServers())
	vm := VM{ID: "vm1", Demand: resource.NewVector(4, 2)}

	require.NoError(t, c.Apply(Boot{VM: vm, ServerID: "s1"}))

	assert.True(t, c.Current().IsAllocated("vm1"))
	assert.False(t, c.Real().IsAllocated("vm1"))
}

func TestCloudApplyRealAffectsReal(t *testing.T) {
	c := NewCloud(twoServers())
	vm := VM{ID: "vm1", Demand: resource.NewVector(4, 2)}

	require.NoError(t, c.ApplyReal(Boot{VM: vm, ServerID: "s1"}))

	assert.True(t, c.Real().IsAllocated("vm1"))
	assert.False(t, c.Current().IsAllocated("vm1"))
}

func TestResetToRealDiscardsSpeculation(t *testing.T) {
	c := NewCloud(twoServers())
	vm := VM{ID: "vm1", Demand: resource.NewVector(4, 2)}
	require.NoError(t, c.ApplyReal(Boot{VM: vm, ServerID: "s1"}))

	speculative := VM{ID: "vm2", Demand: resource.NewVector(4, 2)}
	require.NoError(t, c.Apply(Boot{VM: speculative, ServerID: "s1"}))
	assert.True(t, c.Current().IsAllocated("vm2"))

	c.ResetToReal()
	assert.False(t, c.Current().IsAllocated("vm2"))
	assert.True(t, c.Current().IsAllocated("vm1"))
}

func TestResetToInitialDiscardsEverything(t *testing.T) {
	c := NewCloud(twoServers())
	vm := VM{ID: "vm1", Demand: resource.NewVector(4, 2)}
	require.NoError(t, c.ApplyReal(Boot{VM: vm, ServerID: "s1"}))

	c.ResetToInitial()
	assert.False(t, c.Current().IsAllocated("vm1"))
	assert.True(t, c.Real().IsAllocated("vm1"))
}
