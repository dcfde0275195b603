package pfds

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Point precipitation frequency estimates (inches)
NOAA Atlas 14 Volume 2 Version 3
Data type: Precipitation depth
Latitude: 40.4406, Longitude: -79.9959

PRECIPITATION FREQUENCY ESTIMATES
by duration for ARI (years):, 1,2,5,10,25,50,100
5-min:, 0.331,0.395,0.472,0.530,0.605,0.661,0.716
15-min:, 0.593,0.710,0.851,0.955,1.09,1.19,1.29
60-min:, 0.983,1.18,1.44,1.64,1.91,2.12,2.34
2-hr:, 1.16,1.39,1.71,1.96,2.31,2.60,2.89
24-hr:, 2.20,2.62,3.20,3.68,4.36,4.92,5.51
2-day:, 2.55,3.03,3.67
Date/time (GMT):  Tue Jun  4 15:42:11 2024
`

func TestLabelMinutes(t *testing.T) {
	tests := map[string]float64{
		"5-min":     5,
		"15-min:":   15,
		"2-hr":      120,
		"3 hours":   180,
		"1-day":     1440,
		"10-Days:":  14400,
		"0.5-hr":    30,
		"Latitude":  math.NaN(),
		"hr":        math.NaN(),
	}
	for label, want := range tests {
		got := LabelMinutes(label)
		if math.IsNaN(want) {
			assert.True(t, math.IsNaN(got), label)
			continue
		}
		assert.Equal(t, want, got, label)
	}
}

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 5, 10, 25, 50, 100}, tbl.ARIs)
	require.Len(t, tbl.Rows, 6)
	assert.Equal(t, "5-min", tbl.Rows[0].Label)
	assert.Equal(t, 1440.0, tbl.Rows[4].Minutes)
	assert.Equal(t, 0.955, tbl.Rows[1].Depths[3])

	short := tbl.Rows[5]
	assert.Equal(t, 3.67, short.Depths[2])
	assert.True(t, math.IsNaN(short.Depths[3]))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader("5-min:, 0.3,0.4\n"))
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Parse(strings.NewReader("by duration for ARI (years):, 1,2\nLatitude: 40\n"))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestDepth(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	tests := []struct {
		name  string
		hours float64
		ari   float64
		want  float64
	}{
		{"exact row", 24, 10, 3.68},
		{"nearest row", 20, 100, 5.51},
		{"sub-hourly", 0.2, 2, 0.710},
		{"ari rounded", 1, 24.6, 1.91},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.Depth(tt.hours, tt.ari)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDepth_Missing(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	_, err = tbl.Depth(24, 500)
	assert.ErrorIs(t, err, ErrNoValue)

	_, err = tbl.Depth(48, 10)
	assert.ErrorIs(t, err, ErrNoValue)
}
