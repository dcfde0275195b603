package storm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossv/designstorms-sub000/internal/betainc"
)

func TestBuildAxis_Locked(t *testing.T) {
	axis, err := BuildAxis(1440, 5, true, 241, betainc.Precise, FastSampleCeiling)
	require.NoError(t, err)
	require.Len(t, axis.Times, 241)
	assert.True(t, axis.Locked)
	assert.InDelta(t, 6.0, axis.Effective, 1e-12)
	assert.Equal(t, 0.0, axis.Times[0])
	assert.Equal(t, 1440.0, axis.Times[240])
}

func TestBuildAxis_LockedIgnoresTimestep(t *testing.T) {
	axis, err := BuildAxis(360, -1, true, 49, betainc.Fast, FastSampleCeiling)
	require.NoError(t, err)
	assert.Len(t, axis.Times, 49)
	assert.Equal(t, 360.0, axis.Times[48])
}

func TestBuildAxis_NonDivisible(t *testing.T) {
	axis, err := BuildAxis(60, 7, false, 0, betainc.Precise, FastSampleCeiling)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 7, 14, 21, 28, 35, 42, 49, 56, 60}, axis.Times)
	assert.False(t, axis.Locked)
	assert.Equal(t, 7.0, axis.Effective)
	for i := 1; i < len(axis.Times); i++ {
		dt := axis.Times[i] - axis.Times[i-1]
		assert.Greater(t, dt, 0.0)
		assert.LessOrEqual(t, dt, 7.0)
	}
}

func TestBuildAxis_DivisibleHasNoZeroInterval(t *testing.T) {
	for _, tc := range []struct{ dur, ts float64 }{{60, 15}, {60, 0.1}, {1440, 0.3}, {90, 1.5}} {
		axis, err := BuildAxis(tc.dur, tc.ts, false, 0, betainc.Precise, FastSampleCeiling)
		require.NoError(t, err)
		want := int(math.Round(tc.dur/tc.ts)) + 1
		assert.Len(t, axis.Times, want, "duration %g timestep %g", tc.dur, tc.ts)
		last := axis.Times[len(axis.Times)-1] - axis.Times[len(axis.Times)-2]
		assert.Greater(t, last, tc.ts/2)
	}
}

func TestBuildAxis_TimestepLongerThanDuration(t *testing.T) {
	axis, err := BuildAxis(30, 60, false, 0, betainc.Precise, FastSampleCeiling)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 30}, axis.Times)
}

func TestBuildAxis_FastCeiling(t *testing.T) {
	precise, err := BuildAxis(1440, 1, false, 0, betainc.Precise, FastSampleCeiling)
	require.NoError(t, err)
	assert.Len(t, precise.Times, 1441)

	fast, err := BuildAxis(1440, 1, false, 0, betainc.Fast, FastSampleCeiling)
	require.NoError(t, err)
	assert.Len(t, fast.Times, FastSampleCeiling)
	assert.False(t, fast.Locked)
	assert.InDelta(t, 1440.0/999, fast.Effective, 1e-12)
	assert.Equal(t, 1440.0, fast.Times[FastSampleCeiling-1])

	small, err := BuildAxis(60, 5, false, 0, betainc.Fast, FastSampleCeiling)
	require.NoError(t, err)
	assert.Len(t, small.Times, 13)
}

func TestBuildAxis_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		dur, ts  float64
		lockable bool
		native   int
	}{
		{"zero duration", 0, 5, false, 0},
		{"negative duration", -10, 5, true, 241},
		{"nan duration", math.NaN(), 5, false, 0},
		{"zero timestep", 60, 0, false, 0},
		{"inf timestep", 60, math.Inf(1), false, 0},
		{"locked without table", 60, 5, true, 1},
		{"too many samples", 1440, 1e-6, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildAxis(tt.dur, tt.ts, tt.lockable, tt.native, betainc.Precise, FastSampleCeiling)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestAxis_Normalized(t *testing.T) {
	axis := Axis{Times: []float64{0, 7, 14, 20}}
	got := axis.Normalized()
	assert.InDeltaSlice(t, []float64{0, 0.35, 0.7, 1}, got, 1e-12)
	assert.Equal(t, 1.0, got[3])
}
