package storm

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/rossv/designstorms-sub000/internal/catalog"
	"github.com/rossv/designstorms-sub000/internal/sampler"
)

// Engine assembles storms from a catalog and a sampler.
type Engine struct {
	cat     *catalog.Catalog
	sampler *sampler.Sampler
	logger  *slog.Logger
}

// NewEngine creates an engine. Nil arguments default to the built-in
// catalog, an uncached sampler and slog.Default().
func NewEngine(cat *catalog.Catalog, s *sampler.Sampler, logger *slog.Logger) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	if s == nil {
		s = sampler.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cat: cat, sampler: s, logger: logger}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Generate synthesizes a storm, falling back instead of failing.
func (e *Engine) Generate(p Params) Result {
	r, _ := e.run(p)
	return r
}

// GenerateStrict synthesizes a storm and returns every condition Generate
// would have recovered from, joined, with a zero Result.
func (e *Engine) GenerateStrict(p Params) (Result, error) {
	r, err := e.run(p)
	if err != nil {
		return Result{}, err
	}
	return r, nil
}

// SampleCount predicts the length of the series Generate returns for p
// without sampling anything. Requests Generate would reject count as one.
func (e *Engine) SampleCount(p Params) int {
	durationMin := p.DurationHours * 60
	if !(p.Depth >= 0) || math.IsInf(p.Depth, 0) || !(durationMin > 0) || math.IsInf(durationMin, 0) {
		return 1
	}

	id, err := e.cat.ParseID(p.Distribution)
	if err == nil {
		id = ResolveTable(e.cat, id, p.DurationHours, p.DurationMode)
	}
	native := 0
	if err == nil && p.DurationMode == Standard && e.cat.IsTabulated(id) {
		def, _ := e.cat.Lookup(id)
		native = def.NativePoints()
	}

	unlocked := unlockedSamples(durationMin, p.TimestepMinutes, p.Fidelity, FastSampleCeiling)
	switch {
	case native > 0 && (!p.Smoothing || unlocked == 0 || unlocked > MaxSamples):
		return native
	case unlocked == 0 || unlocked > MaxSamples:
		return 1
	default:
		return int(unlocked)
	}
}

type assembly struct {
	e    *Engine
	p    Params
	res  Result
	errs []error
}

func (a *assembly) fallback(err error) {
	name := fallbackName(err)
	a.res.Fallbacks = append(a.res.Fallbacks, name)
	a.errs = append(a.errs, err)
	a.e.logger.Warn("storm fallback",
		"distribution", a.p.Distribution,
		"reason", name,
		"error", err,
	)
}

func (e *Engine) run(p Params) (Result, error) {
	a := &assembly{e: e, p: p}
	durationMin := p.DurationHours * 60

	if !(p.Depth >= 0) || math.IsInf(p.Depth, 0) {
		a.res = degenerate(p.Distribution)
		a.fallback(fmt.Errorf("%w: depth %g", ErrInvalidParameter, p.Depth))
		return a.res, errors.Join(a.errs...)
	}
	if !(durationMin > 0) || math.IsInf(durationMin, 0) {
		a.res = degenerate(p.Distribution)
		a.fallback(fmt.Errorf("%w: duration %g h", ErrInvalidParameter, p.DurationHours))
		return a.res, errors.Join(a.errs...)
	}

	id, idErr := e.cat.ParseID(p.Distribution)
	if idErr == nil {
		id = ResolveTable(e.cat, id, p.DurationHours, p.DurationMode)
	}

	var def catalog.Definition
	native := 0
	lockable := false
	if idErr == nil && e.cat.IsTabulated(id) {
		def, _ = e.cat.Lookup(id)
		native = def.NativePoints()
		lockable = p.DurationMode == Standard
	}

	axis, err := BuildAxis(durationMin, p.TimestepMinutes, lockable, native, p.Fidelity, FastSampleCeiling)
	if err != nil {
		a.res = degenerate(id.String())
		a.fallback(err)
		return a.res, errors.Join(a.errs...)
	}

	// Smoothing needs a lockable table and rebuilds it on the requested
	// timestep; at the table's own nodes the spline returns the table.
	smooth := false
	if p.Smoothing {
		if axis.Locked {
			target, err := BuildAxis(durationMin, p.TimestepMinutes, false, 0, p.Fidelity, FastSampleCeiling)
			if err != nil {
				a.fallback(err)
			} else {
				axis = target
				smooth = true
			}
		} else {
			a.fallback(fmt.Errorf("%w: %s", ErrSmoothingUnsupported, id))
		}
	}

	a.res.Distribution = id.String()
	a.res.TimeMinutes = axis.Times
	a.res.EffectiveTimestep = axis.Effective
	a.res.TimestepLocked = axis.Locked

	var curve []float64
	if smooth {
		smoothed, err := Smooth(def.Values, axis.Normalized())
		if err != nil {
			a.fallback(err)
			curve = a.curve(id, idErr, def, len(axis.Times))
		} else {
			curve = smoothed
			a.res.SmoothingApplied = true
		}
	} else {
		curve = a.curve(id, idErr, def, len(axis.Times))
	}

	a.res.Cumulative, a.res.Incremental, a.res.Intensity = scale(curve, axis.Times, p.Depth)
	return a.res, errors.Join(a.errs...)
}

// curve samples the resolved distribution, substituting a uniform ramp when
// it cannot be evaluated.
func (a *assembly) curve(id catalog.ID, idErr error, def catalog.Definition, n int) []float64 {
	if idErr != nil {
		a.fallback(idErr)
		return sampler.Uniform(n)
	}

	var err error
	switch id.Kind {
	case catalog.KindUser:
		def, err = catalog.UserDefinition(a.p.CustomCurve)
	case catalog.KindTabulated:
		if def.NativePoints() == 0 {
			def, err = a.e.cat.Lookup(id)
		}
	default:
		def, err = a.e.cat.Lookup(id)
	}
	if err != nil {
		a.fallback(err)
		return sampler.Uniform(n)
	}

	c, err := a.e.sampler.Sample(def, n, a.p.Fidelity)
	if err != nil {
		a.fallback(err)
	}
	return c
}

// scale turns a normalized cumulative curve into depth series.
func scale(curve, times []float64, depth float64) (cumulative, incremental, intensity []float64) {
	n := len(curve)
	cumulative = make([]float64, n)
	incremental = make([]float64, n)
	intensity = make([]float64, n)
	for i, f := range curve {
		cumulative[i] = f * depth
	}
	cumulative[0] = 0
	if n > 1 {
		cumulative[n-1] = depth
	}
	for i := 1; i < n; i++ {
		incremental[i] = math.Max(0, cumulative[i]-cumulative[i-1])
		dt := times[i] - times[i-1]
		if dt > 0 && !math.IsInf(dt, 0) {
			intensity[i] = incremental[i] / dt * 60
		}
	}
	return cumulative, incremental, intensity
}
