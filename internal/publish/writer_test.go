package publish

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossv/designstorms-sub000/internal/betainc"
	"github.com/rossv/designstorms-sub000/internal/storm"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	p := storm.Params{Depth: 1, DurationHours: 1, TimestepMinutes: 30, Distribution: "huff_q1", Fidelity: betainc.Fast}
	r := storm.Result{
		TimeMinutes:  []float64{0, 30, 60},
		Incremental:  []float64{0, 0.7, 0.3},
		Cumulative:   []float64{0, 0.7, 1},
		Intensity:    []float64{0, 1.4, 0.6},
		Distribution: "huff_q1",
	}

	msg, err := serializeToMessage("storm_1", p, r, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("storm_1"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "distribution", msg.Headers[0].Key)
	assert.Equal(t, []byte("huff_q1"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "storm_1", env.RunID)
	assert.Equal(t, p, env.Params)
	assert.Equal(t, 1.4, env.Stats.PeakIntensity)
	assert.Equal(t, r.Cumulative, env.Result.Cumulative)
	assert.Contains(t, string(msg.Value), `"fidelity":"fast"`)
}

func TestSerializeToMessage_LocalTimeStampedUTC(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2024, 4, 26, 10, 10, 0, 0, loc)

	msg, err := serializeToMessage("storm_2", storm.Params{}, storm.Result{}, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-26T15:10:00Z", string(msg.Headers[1].Value))
}

func TestCheckReadiness_NoBrokers(t *testing.T) {
	w := NewWriter(nil, "design-storms", nil)
	err := w.CheckReadiness(t.Context())
	assert.ErrorContains(t, err, "no kafka brokers configured")
}
