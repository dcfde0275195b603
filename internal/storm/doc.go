// Package storm synthesizes design-storm hyetographs.
//
// An [Engine] turns [Params] (total depth, duration, timestep and a named
// temporal pattern) into a [Result] holding four parallel series: time,
// incremental depth, cumulative depth and intensity. The pipeline is:
//
//   - [ResolveTable] picks a cataloged table when only a family is named
//   - [BuildAxis] lays out sample times, locking to a table's native spacing
//     when the duration mode is standard
//   - the sampler evaluates the normalized cumulative curve
//   - [Smooth] optionally rebuilds a lockable table curve with a monotone
//     cubic, evaluated on the requested timestep instead of the native one
//   - the curve is scaled by depth and differenced
//
// # Failure policy
//
// [Engine.Generate] never fails: invalid parameters yield a single zero
// sample and unusable distributions fall back to a uniform ramp. Each fallback
// is named in [Result.Fallbacks] and logged. [Engine.GenerateStrict] runs the
// same pipeline but returns the underlying errors instead.
//
// # Thread Safety
//
// An Engine holds no mutable state of its own and may be shared between
// goroutines as long as its sampler's cache is safe for concurrent use.
package storm
