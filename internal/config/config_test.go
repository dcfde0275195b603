package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossv/designstorms-sub000/internal/betainc"
	"github.com/rossv/designstorms-sub000/internal/storm"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "scs_type_ii", cfg.Distribution)
	assert.Greater(t, cfg.DurationHours, 0.0)
	assert.Greater(t, cfg.TimestepMinutes, 0.0)

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, storm.Standard, p.DurationMode)
	assert.Equal(t, betainc.Precise, p.Fidelity)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storm.yaml")
	cfg := DefaultConfig()
	cfg.Distribution = "huff_q2"
	cfg.Fidelity = "fast"
	cfg.Smoothing = true
	cfg.Output.Start = "2024-06-01 06:00"

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: 3.5\ndistribution: huff_q4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3.5, cfg.Depth)
	assert.Equal(t, "huff_q4", cfg.Distribution)
	assert.Equal(t, DefaultDuration, cfg.DurationHours)
	assert.Equal(t, DefaultGauge, cfg.Output.Gauge)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestParams_InvalidModes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DurationMode = "sideways"
	_, err := cfg.Params()
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Fidelity = "turbo"
	_, err = cfg.Params()
	assert.Error(t, err)
}

func TestParams_CustomCurveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.csv")
	require.NoError(t, os.WriteFile(path, []byte("minutes,inches\n0,0\n60,2\n"), 0o644))

	cfg := DefaultConfig()
	cfg.Distribution = "user"
	cfg.CustomCurve = "(0,0)(1,1)"
	cfg.CustomCurveFile = path

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Contains(t, p.CustomCurve, "60,2")

	cfg.CustomCurveFile = filepath.Join(t.TempDir(), "missing.csv")
	_, err = cfg.Params()
	assert.Error(t, err)
}

func TestStartTime(t *testing.T) {
	cfg := DefaultConfig()
	start, err := cfg.StartTime()
	require.NoError(t, err)
	assert.True(t, start.IsZero())

	cfg.Output.Start = "2024-06-01 06:30"
	start, err = cfg.StartTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 6, 30, 0, 0, time.UTC), start)

	cfg.Output.Start = "2024-06-01T06:30:00Z"
	start, err = cfg.StartTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 6, 30, 0, 0, time.UTC), start)

	cfg.Output.Start = "yesterday"
	_, err = cfg.StartTime()
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("scs", "type_ii_24hr")
	require.NotNil(t, cfg)
	assert.Equal(t, "scs_type_ii_24hr", cfg.Distribution)
	assert.Equal(t, DefaultGauge, cfg.Output.Gauge)

	cfg.Depth = 99
	assert.Equal(t, 5.0, Presets["scs"]["type_ii_24hr"].Depth, "presets must not be mutated through GetPreset")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("scs", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "type_ii_24hr"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"q1_6hr", "q2_12hr", "q3_24hr", "q4_24hr_fast"}, ListPresets("huff"))
	assert.Nil(t, ListPresets("nonexistent"))
	assert.Equal(t, []string{"huff", "scs", "user"}, Groups())
}

func TestPresets_AllGenerate(t *testing.T) {
	engine := storm.NewEngine(nil, nil, nil)
	for _, group := range Groups() {
		for _, name := range ListPresets(group) {
			t.Run(group+"/"+name, func(t *testing.T) {
				p, err := GetPreset(group, name).Params()
				require.NoError(t, err)
				r, err := engine.GenerateStrict(p)
				require.NoError(t, err)
				assert.InDelta(t, p.Depth, r.Stats().TotalDepth, 1e-9)
			})
		}
	}
}
