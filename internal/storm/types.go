package storm

import (
	"fmt"
	"strings"

	"github.com/rossv/designstorms-sub000/internal/betainc"
)

// DurationMode controls how a table family is matched to the storm duration
// and whether the time axis locks to the table.
type DurationMode int

const (
	// Standard picks the shortest cataloged table covering the duration and
	// locks the time axis to its native spacing.
	Standard DurationMode = iota
	// Custom picks the nearest cataloged table and honors the timestep.
	Custom
)

func (m DurationMode) String() string {
	if m == Custom {
		return "custom"
	}
	return "standard"
}

func (m DurationMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *DurationMode) UnmarshalText(text []byte) error {
	v, err := ParseDurationMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseDurationMode accepts "standard" or "custom", case-insensitively.
func ParseDurationMode(s string) (DurationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "":
		return Standard, nil
	case "custom":
		return Custom, nil
	default:
		return Standard, fmt.Errorf("unknown duration mode: %s", s)
	}
}

// Params describes one storm request.
type Params struct {
	Depth           float64          `json:"depth"`
	DurationHours   float64          `json:"duration_hours"`
	TimestepMinutes float64          `json:"timestep_minutes"`
	Distribution    string           `json:"distribution"`
	DurationMode    DurationMode     `json:"duration_mode"`
	Fidelity        betainc.Fidelity `json:"fidelity"`
	Smoothing       bool             `json:"smoothing"`
	CustomCurve     string           `json:"custom_curve,omitempty"`
}

// Result is a synthesized hyetograph. All series have the same length.
type Result struct {
	TimeMinutes       []float64 `json:"time_minutes"`
	Incremental       []float64 `json:"incremental"`
	Cumulative        []float64 `json:"cumulative"`
	Intensity         []float64 `json:"intensity"`
	EffectiveTimestep float64   `json:"effective_timestep_minutes"`
	TimestepLocked    bool      `json:"timestep_locked"`
	SmoothingApplied  bool      `json:"smoothing_applied"`

	// Distribution is the resolved identifier, e.g. "scs_type_ii_24hr".
	Distribution string `json:"distribution"`
	// Fallbacks names each fail-soft branch taken; empty for a clean run.
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// Len returns the number of samples.
func (r Result) Len() int { return len(r.TimeMinutes) }

// Stats summarizes a result.
type Stats struct {
	PeakIntensity     float64 `json:"peak_intensity"`
	TimeToPeakMinutes float64 `json:"time_to_peak_minutes"`
	TotalDepth        float64 `json:"total_depth"`
	Samples           int     `json:"samples"`
}

// Stats returns the peak intensity, the time of its first occurrence, the
// total depth and the sample count.
func (r Result) Stats() Stats {
	s := Stats{Samples: r.Len()}
	if r.Len() == 0 {
		return s
	}
	s.TotalDepth = r.Cumulative[len(r.Cumulative)-1]
	for i, v := range r.Intensity {
		if v > s.PeakIntensity {
			s.PeakIntensity = v
			s.TimeToPeakMinutes = r.TimeMinutes[i]
		}
	}
	return s
}

func degenerate(distribution string) Result {
	return Result{
		TimeMinutes:  []float64{0},
		Incremental:  []float64{0},
		Cumulative:   []float64{0},
		Intensity:    []float64{0},
		Distribution: distribution,
	}
}
