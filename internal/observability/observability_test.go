package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossv/designstorms-sub000/internal/betainc"
	"github.com/rossv/designstorms-sub000/internal/catalog"
	"github.com/rossv/designstorms-sub000/internal/sampler"
	"github.com/rossv/designstorms-sub000/internal/storm"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "json", &buf)
	logger.Info("dropped")
	logger.Warn("kept", "reason", "degenerate_pdf")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "degenerate_pdf", line["reason"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug", "text", &buf)
	logger.Debug("hello", "n", 3)
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "3")
}

func TestObserveStorm(t *testing.T) {
	m := NewMetricsForTesting()
	r := storm.Result{
		TimeMinutes:    []float64{0, 1, 2},
		TimestepLocked: true,
		Fallbacks:      []string{storm.FallbackSmoothingUnsupported},
	}
	m.ObserveStorm(storm.Params{Fidelity: betainc.Fast}, r, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StormsGenerated.WithLabelValues("fast", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues(storm.FallbackSmoothingUnsupported)))
}

func TestObservePublish(t *testing.T) {
	m := NewMetricsForTesting()
	m.ObservePublish(nil)
	m.ObservePublish(errors.New("broker down"))
	m.ObservePublish(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Published.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Published.WithLabelValues("error")))
}

func TestInstrumentCache(t *testing.T) {
	m := NewMetricsForTesting()
	s := sampler.New(m.InstrumentCache(sampler.NewLRU(4)))
	def, err := catalog.Default().Lookup(catalog.Beta("huff_q1"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.Sample(def, 24, betainc.Precise)
		require.NoError(t, err)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CurveCache.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CurveCache.WithLabelValues("hit")))
}
