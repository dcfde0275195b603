package storm

import (
	"fmt"
	"math"
)

// maxReferenceNodes bounds the spline size for long tables.
const maxReferenceNodes = 512

// Smooth rebuilds a tabulated cumulative curve with a Fritsch–Carlson
// monotone cubic and evaluates it at the normalized times in targets. Tables
// with at most 512 points are used as nodes directly; longer ones are first
// resampled linearly to 512 nodes. The output lies in [0,1], starts at 0,
// ends at 1 and never decreases.
func Smooth(table, targets []float64) ([]float64, error) {
	if len(table) < 2 {
		return nil, fmt.Errorf("%w: table has %d points", ErrSmoothingUnsupported, len(table))
	}
	spline := newMonotoneSpline(referenceNodes(table))

	out := make([]float64, len(targets))
	run := 0.0
	for i, t := range targets {
		v := math.Min(1, math.Max(0, spline.at(t)))
		if math.IsNaN(v) {
			v = run
		}
		run = math.Max(run, v)
		out[i] = run
	}
	if len(out) > 0 {
		out[0] = 0
	}
	if len(out) > 1 {
		out[len(out)-1] = 1
	}
	return out, nil
}

func referenceNodes(table []float64) []float64 {
	if len(table) <= maxReferenceNodes {
		return table
	}
	m := len(table)
	nodes := make([]float64, maxReferenceNodes)
	for i := range nodes {
		pos := float64(i) / float64(maxReferenceNodes-1) * float64(m-1)
		lo := int(pos)
		if lo >= m-1 {
			nodes[i] = table[m-1]
			continue
		}
		nodes[i] = table[lo] + (table[lo+1]-table[lo])*(pos-float64(lo))
	}
	return nodes
}

// monotoneSpline is a cubic Hermite spline through (x[k], y[k]) with
// Fritsch–Carlson tangents.
type monotoneSpline struct {
	x []float64
	y []float64
	m []float64
}

// newMonotoneSpline places the nodes evenly on [0,1].
func newMonotoneSpline(y []float64) monotoneSpline {
	n := len(y)
	x := make([]float64, n)
	for k := range x {
		x[k] = float64(k) / float64(n-1)
	}
	x[n-1] = 1

	h := make([]float64, n-1)
	d := make([]float64, n-1)
	for k := range d {
		h[k] = x[k+1] - x[k]
		d[k] = (y[k+1] - y[k]) / h[k]
	}

	m := make([]float64, n)
	m[0] = d[0]
	m[n-1] = d[n-2]
	for k := 1; k < n-1; k++ {
		d0, d1 := d[k-1], d[k]
		if d0 <= 0 || d1 <= 0 {
			continue
		}
		w1 := 2*h[k] + h[k-1]
		w2 := h[k] + 2*h[k-1]
		m[k] = (w1 + w2) / (w1/d0 + w2/d1)
	}
	return monotoneSpline{x: x, y: y, m: m}
}

func (s monotoneSpline) at(t float64) float64 {
	n := len(s.y)
	switch {
	case math.IsNaN(t):
		return t
	case t <= s.x[0]:
		return s.y[0]
	case t >= s.x[n-1]:
		return s.y[n-1]
	}
	k := min(int(t*float64(n-1)), n-2)
	for k > 0 && t < s.x[k] {
		k--
	}
	for k < n-2 && t > s.x[k+1] {
		k++
	}

	h := s.x[k+1] - s.x[k]
	u := (t - s.x[k]) / h
	u2 := u * u
	u3 := u2 * u

	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2
	return h00*s.y[k] + h10*h*s.m[k] + h01*s.y[k+1] + h11*h*s.m[k+1]
}
