package storm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossv/designstorms-sub000/internal/catalog"
)

func assertMonotoneUnit(t *testing.T, v []float64) {
	t.Helper()
	require.NotEmpty(t, v)
	assert.Equal(t, 0.0, v[0])
	assert.Equal(t, 1.0, v[len(v)-1])
	for i := 1; i < len(v); i++ {
		require.GreaterOrEqual(t, v[i], v[i-1], "index %d", i)
		require.LessOrEqual(t, v[i], 1.0)
	}
}

func linspace(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

func TestSmooth_ReproducesNodes(t *testing.T) {
	table := []float64{0, 0.1, 0.3, 0.8, 0.9, 1}
	got, err := Smooth(table, linspace(len(table)))
	require.NoError(t, err)
	assert.InDeltaSlice(t, table, got, 1e-12)
}

func TestSmooth_MonotoneBetweenNodes(t *testing.T) {
	// flat stretch followed by a sharp rise: a plain cubic would overshoot here
	table := []float64{0, 0.05, 0.05, 0.05, 0.9, 1}
	got, err := Smooth(table, linspace(101))
	require.NoError(t, err)
	assertMonotoneUnit(t, got)

	// flat segments stay flat
	for i := 21; i < 60; i++ {
		assert.InDelta(t, 0.05, got[i], 1e-12, "index %d", i)
	}
}

func TestSmooth_DiffersFromLinear(t *testing.T) {
	table := []float64{0, 0.1, 0.5, 0.9, 1}
	got, err := Smooth(table, []float64{0, 0.125, 0.375, 0.625, 1})
	require.NoError(t, err)
	assertMonotoneUnit(t, got)

	linear := []float64{0, 0.05, 0.3, 0.7, 1}
	assert.NotEqual(t, linear[1], got[1])
	assert.NotEqual(t, linear[2], got[2])
}

func TestSmooth_LongTableResampled(t *testing.T) {
	def, err := catalog.Default().Lookup(catalog.Tabulated("scs_type_ii", 24))
	require.NoError(t, err)

	long := make([]float64, 2001)
	for i := range long {
		pos := float64(i) / 2000 * float64(len(def.Values)-1)
		lo := int(pos)
		if lo >= len(def.Values)-1 {
			long[i] = 1
			continue
		}
		long[i] = def.Values[lo] + (def.Values[lo+1]-def.Values[lo])*(pos-float64(lo))
	}
	require.Len(t, referenceNodes(long), maxReferenceNodes)

	got, err := Smooth(long, linspace(241))
	require.NoError(t, err)
	assertMonotoneUnit(t, got)
	for i, v := range got {
		assert.InDelta(t, def.Values[i], v, 0.02, "index %d", i)
	}
}

func TestSmooth_TooShort(t *testing.T) {
	_, err := Smooth([]float64{1}, linspace(5))
	assert.ErrorIs(t, err, ErrSmoothingUnsupported)
}
