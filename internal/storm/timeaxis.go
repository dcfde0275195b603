package storm

import (
	"fmt"
	"math"

	"github.com/rossv/designstorms-sub000/internal/betainc"
)

const (
	// FastSampleCeiling bounds the sample count of an unlocked fast-mode axis.
	FastSampleCeiling = 1000

	// MaxSamples bounds any axis.
	MaxSamples = 2_000_000

	// ceilTolerance absorbs floating noise in duration/timestep so a
	// divisible timestep does not gain a zero-width final interval.
	ceilTolerance = 1e-9
)

// Axis is a built time axis in minutes.
type Axis struct {
	Times     []float64
	Effective float64
	Locked    bool
}

// Normalized returns the axis times divided by the duration.
func (a Axis) Normalized() []float64 {
	out := make([]float64, len(a.Times))
	if len(a.Times) == 0 {
		return out
	}
	d := a.Times[len(a.Times)-1]
	if d <= 0 {
		return out
	}
	for i, t := range a.Times {
		out[i] = t / d
	}
	out[len(out)-1] = 1
	return out
}

// BuildAxis lays out sample times over durationMin minutes.
//
// A lockable axis uses the table's native point count spread evenly across
// the duration, ignoring timestepMin. Otherwise samples sit at multiples of
// timestepMin with the last forced to the duration, so the final interval may
// be shorter than the timestep. In fast mode an unlocked axis longer than
// ceiling samples is replaced by ceiling evenly spaced samples.
func BuildAxis(durationMin, timestepMin float64, lockable bool, native int, f betainc.Fidelity, ceiling int) (Axis, error) {
	if !(durationMin > 0) || math.IsInf(durationMin, 0) {
		return Axis{}, fmt.Errorf("%w: duration %g min", ErrInvalidParameter, durationMin)
	}

	if lockable {
		if native < 2 {
			return Axis{}, fmt.Errorf("%w: native table has %d points", ErrInvalidParameter, native)
		}
		return evenAxis(durationMin, native, true), nil
	}

	if !(timestepMin > 0) || math.IsInf(timestepMin, 0) {
		return Axis{}, fmt.Errorf("%w: timestep %g min", ErrInvalidParameter, timestepMin)
	}
	steps := math.Max(1, math.Ceil(durationMin/timestepMin-ceilTolerance))
	if f == betainc.Fast && ceiling >= 2 && steps+1 > float64(ceiling) {
		return evenAxis(durationMin, ceiling, false), nil
	}
	if steps+1 > MaxSamples {
		return Axis{}, fmt.Errorf("%w: %g samples exceeds %d", ErrInvalidParameter, steps+1, MaxSamples)
	}

	n := int(steps) + 1
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * timestepMin
	}
	times[n-1] = durationMin
	return Axis{Times: times, Effective: timestepMin, Locked: false}, nil
}

// unlockedSamples is the sample count BuildAxis gives an unlocked axis, or 0
// when the timestep is unusable. It is a float so tiny timesteps cannot
// overflow.
func unlockedSamples(durationMin, timestepMin float64, f betainc.Fidelity, ceiling int) float64 {
	if !(timestepMin > 0) || math.IsInf(timestepMin, 0) {
		return 0
	}
	steps := math.Max(1, math.Ceil(durationMin/timestepMin-ceilTolerance))
	if f == betainc.Fast && ceiling >= 2 && steps+1 > float64(ceiling) {
		return float64(ceiling)
	}
	return steps + 1
}

func evenAxis(durationMin float64, n int, locked bool) Axis {
	step := durationMin / float64(n-1)
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * step
	}
	times[n-1] = durationMin
	return Axis{Times: times, Effective: step, Locked: locked}
}
