package storm

import (
	"math"

	"github.com/rossv/designstorms-sub000/internal/catalog"
)

// DurationLister reports the sorted cataloged durations of a table family.
type DurationLister interface {
	Durations(family string) []float64
}

// ResolveTable maps a bare table family to a concrete table for the requested
// duration. Standard mode takes the shortest table at least as long as the
// request, else the longest. Custom mode takes the nearest table, preferring
// the longer one on ties. Other IDs, and families without tables, are
// returned unchanged.
func ResolveTable(cat DurationLister, id catalog.ID, hours float64, mode DurationMode) catalog.ID {
	if id.Kind != catalog.KindTabulated || id.HasDuration() {
		return id
	}
	durations := cat.Durations(id.Family)
	if len(durations) == 0 {
		return id
	}

	pick := durations[len(durations)-1]
	switch mode {
	case Custom:
		best := math.Inf(1)
		for _, d := range durations {
			if diff := math.Abs(d - hours); diff <= best {
				best, pick = diff, d
			}
		}
	default:
		for _, d := range durations {
			if d >= hours {
				pick = d
				break
			}
		}
	}
	return catalog.Tabulated(id.Family, pick)
}
