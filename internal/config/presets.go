package config

import "slices"

// Presets holds named storm requests grouped by pattern family.
var Presets = map[string]map[string]*Config{
	"scs": {
		"type_i_24hr": {
			Depth: 4.0, DurationHours: 24, TimestepMinutes: 6, Distribution: "scs_type_i_24hr",
			DurationMode: "standard", Fidelity: "precise",
		},
		"type_ia_24hr": {
			Depth: 3.0, DurationHours: 24, TimestepMinutes: 30, Distribution: "scs_type_ia_24hr",
			DurationMode: "standard", Fidelity: "precise",
		},
		"type_ii_24hr": {
			Depth: 5.0, DurationHours: 24, TimestepMinutes: 6, Distribution: "scs_type_ii_24hr",
			DurationMode: "standard", Fidelity: "precise",
		},
		"type_ii_smooth": {
			Depth: 5.0, DurationHours: 24, TimestepMinutes: 5, Distribution: "scs_type_ii_24hr",
			DurationMode: "standard", Fidelity: "precise", Smoothing: true,
		},
		"type_iii_24hr": {
			Depth: 6.0, DurationHours: 24, TimestepMinutes: 6, Distribution: "scs_type_iii_24hr",
			DurationMode: "standard", Fidelity: "precise",
		},
		"type_ii_6hr": {
			Depth: 2.5, DurationHours: 6, TimestepMinutes: 5, Distribution: "scs_type_ii",
			DurationMode: "custom", Fidelity: "precise",
		},
	},
	"huff": {
		"q1_6hr": {
			Depth: 2.0, DurationHours: 6, TimestepMinutes: 5, Distribution: "huff_q1",
			DurationMode: "custom", Fidelity: "precise",
		},
		"q2_12hr": {
			Depth: 3.0, DurationHours: 12, TimestepMinutes: 10, Distribution: "huff_q2",
			DurationMode: "custom", Fidelity: "precise",
		},
		"q3_24hr": {
			Depth: 4.0, DurationHours: 24, TimestepMinutes: 15, Distribution: "huff_q3",
			DurationMode: "custom", Fidelity: "precise",
		},
		"q4_24hr_fast": {
			Depth: 4.0, DurationHours: 24, TimestepMinutes: 1, Distribution: "huff_q4",
			DurationMode: "custom", Fidelity: "fast",
		},
	},
	"user": {
		"linear_1hr": {
			Depth: 2.0, DurationHours: 1, TimestepMinutes: 15, Distribution: "user",
			DurationMode: "custom", Fidelity: "precise", CustomCurve: "(0,0)(1,1)",
		},
		"front_loaded_2hr": {
			Depth: 1.5, DurationHours: 2, TimestepMinutes: 5, Distribution: "user",
			DurationMode: "custom", Fidelity: "precise", CustomCurve: "(0,0)(0.25,0.6)(0.5,0.85)(1,1)",
		},
	},
}

// GetPreset returns a copy of a preset with default output settings, or nil.
func GetPreset(group, preset string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[preset]
	if !ok {
		return nil
	}
	out := *cfg
	if out.Output == (OutputConfig{}) {
		out.Output = DefaultConfig().Output
	}
	return &out
}

// ListPresets returns the sorted preset names of a group, or nil.
func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Groups returns the sorted preset group names.
func Groups() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
