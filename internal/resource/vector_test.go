package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorArithmetic(t *testing.T) {
	a := NewVector(16, 8)
	b := NewVector(4, 2)

	require.Equal(t, NewVector(20, 10), a.Add(b))
	require.Equal(t, NewVector(12, 6), a.Sub(b))
}

func TestVectorLessEq(t *testing.T) {
	cap := NewVector(16, 8)

	assert.True(t, NewVector(4, 2).LessEq(cap))
	assert.True(t, cap.LessEq(cap))
	assert.False(t, NewVector(17, 2).LessEq(cap))
	assert.False(t, NewVector(4, 9).LessEq(cap))
}

func TestWeightedUtilisationDefaultWeights(t *testing.T) {
	cap := NewVector(16, 8)
	used := NewVector(4, 2) // 25% RAM, 25% CPU

	u := WeightedUtilisation(used, cap, DefaultWeights())
	assert.InDelta(t, 0.25, u, 1e-9)
}

func TestWeightedUtilisationCustomWeights(t *testing.T) {
	cap := NewVector(16, 8)
	used := NewVector(8, 2) // 50% RAM, 25% CPU
	weights := NewVector(0.8, 0.2)

	u := WeightedUtilisation(used, cap, weights)
	assert.InDelta(t, 0.8*0.5+0.2*0.25, u, 1e-9)
}

func TestWeightedUtilisationZeroCapacityDimensionIgnored(t *testing.T) {
	cap := NewVector(0, 8)
	used := NewVector(0, 4)

	u := WeightedUtilisation(used, cap, DefaultWeights())
	assert.InDelta(t, 0.5*0.5, u, 1e-9)
}
