// Package sampler turns a distribution definition into a normalized
// cumulative curve of a requested length, memoizing results through an
// injected Cache.
package sampler

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rossv/designstorms-sub000/internal/betainc"
	"github.com/rossv/designstorms-sub000/internal/catalog"
)

// GridThreshold is the sample count from which fast Beta sampling tabulates
// the whole curve with betainc.CDFGrid instead of evaluating point by point.
const GridThreshold = 64

// Curve holds cumulative fractions at the evenly spaced normalized times
// i/(len-1). It starts at 0, ends at 1 when longer than one sample and never
// decreases.
type Curve []float64

// Time returns the normalized time of sample i.
func (c Curve) Time(i int) float64 {
	if len(c) <= 1 {
		return 0
	}
	return float64(i) / float64(len(c)-1)
}

func (c Curve) clone() Curve {
	if c == nil {
		return nil
	}
	out := make(Curve, len(c))
	copy(out, c)
	return out
}

// Key identifies a memoized curve.
type Key struct {
	Distribution string
	N            int
	Fidelity     betainc.Fidelity
	Custom       string
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%d|%s|%s", k.Distribution, k.N, k.Fidelity, k.Custom)
}

// Cache stores sampled curves. Implementations must be safe for concurrent use
// if the Sampler is shared.
type Cache interface {
	Get(Key) (Curve, bool)
	Put(Key, Curve)
}

// Sampler evaluates distributions. A nil cache disables memoization.
type Sampler struct {
	cache Cache
}

func New(cache Cache) *Sampler {
	return &Sampler{cache: cache}
}

// KeyFor returns the memoization key of a definition sampled at n points.
func KeyFor(def catalog.Definition, n int, f betainc.Fidelity) Key {
	k := Key{Distribution: def.ID.String(), N: n, Fidelity: f}
	switch def.ID.Kind {
	case catalog.KindBeta:
		k.Distribution += "(" + strconv.FormatFloat(def.Alpha, 'g', -1, 64) +
			"," + strconv.FormatFloat(def.Beta, 'g', -1, 64) + ")"
	case catalog.KindUser:
		k.Custom = catalog.CanonicalCurve(def.Curve)
	}
	return k
}

// Sample returns an n-point curve for def. On a fallback it returns a uniform
// ramp together with the reason (catalog.ErrInsufficientCurve or
// betainc.ErrDegeneratePDF); fallback curves are not memoized. The returned
// curve is owned by the caller.
func (s *Sampler) Sample(def catalog.Definition, n int, f betainc.Fidelity) (Curve, error) {
	if n <= 0 {
		return Curve{}, nil
	}
	if n == 1 {
		return Uniform(1), nil
	}

	key := KeyFor(def, n, f)
	if s.cache != nil {
		if c, ok := s.cache.Get(key); ok {
			return c.clone(), nil
		}
	}

	var (
		c   Curve
		err error
	)
	switch def.ID.Kind {
	case catalog.KindTabulated:
		c = sampleTable(def.Values, n)
	case catalog.KindBeta:
		c, err = sampleBeta(def.Alpha, def.Beta, n, f)
	case catalog.KindUser:
		c, err = sampleUser(def.Curve, n)
	default:
		return Uniform(n), fmt.Errorf("%w: unknown kind %s", catalog.ErrDistributionNotFound, def.ID.Kind)
	}
	if err != nil {
		return Uniform(n), err
	}
	monotoneClamp(c)

	if s.cache != nil {
		s.cache.Put(key, c.clone())
	}
	return c, nil
}

func sampleTable(values []float64, n int) Curve {
	m := len(values)
	c := make(Curve, n)
	if m == 0 {
		return Uniform(n)
	}
	for i := range c {
		pos := c.Time(i) * float64(m-1)
		lo := int(math.Floor(pos))
		if lo >= m-1 {
			c[i] = values[m-1]
			continue
		}
		frac := pos - float64(lo)
		c[i] = values[lo] + (values[lo+1]-values[lo])*frac
	}
	return c
}

func sampleBeta(a, b float64, n int, f betainc.Fidelity) (Curve, error) {
	var c Curve
	if f == betainc.Fast && n >= GridThreshold {
		grid, err := betainc.CDFGrid(n, a, b)
		if err != nil {
			return nil, err
		}
		c = grid
	} else {
		c = make(Curve, n)
		for i := range c {
			c[i] = betainc.Regularized(c.Time(i), a, b, f)
		}
	}

	last := c[n-1]
	if !(last > 0) || math.IsInf(last, 0) {
		return nil, fmt.Errorf("%w: curve ends at %g", betainc.ErrDegeneratePDF, last)
	}
	for i := range c {
		c[i] /= last
	}
	return c, nil
}

// sampleUser expects points sorted by time.
func sampleUser(points []catalog.Point, n int) (Curve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", catalog.ErrInsufficientCurve, len(points))
	}
	c := make(Curve, n)
	first, last := points[0], points[len(points)-1]
	j := 0
	peak := 0.0
	for i := range c {
		t := c.Time(i)
		var v float64
		switch {
		case t <= first.T:
			v = first.F
		case t >= last.T:
			v = last.F
		default:
			for j < len(points)-2 && points[j+1].T < t {
				j++
			}
			p0, p1 := points[j], points[j+1]
			if span := p1.T - p0.T; span > 0 {
				v = p0.F + (p1.F-p0.F)*(t-p0.T)/span
			} else {
				v = p1.F
			}
		}
		peak = math.Max(peak, v)
		c[i] = peak
	}
	if !(peak > 0) {
		return nil, fmt.Errorf("%w: custom curve never rises above zero", betainc.ErrDegeneratePDF)
	}
	for i := range c {
		c[i] /= peak
	}
	return c, nil
}

// monotoneClamp clamps to [0,1], enforces nondecrease and pins the endpoints.
func monotoneClamp(c Curve) {
	run := 0.0
	for i, v := range c {
		if math.IsNaN(v) {
			v = run
		}
		v = math.Min(1, math.Max(run, v))
		run = v
		c[i] = v
	}
	if len(c) > 0 {
		c[0] = 0
	}
	if len(c) > 1 {
		c[len(c)-1] = 1
	}
}

// Uniform returns the linear ramp of n samples from 0 to 1.
func Uniform(n int) Curve {
	if n <= 0 {
		return Curve{}
	}
	c := make(Curve, n)
	if n == 1 {
		return c
	}
	for i := range c {
		c[i] = float64(i) / float64(n-1)
	}
	c[n-1] = 1
	return c
}
