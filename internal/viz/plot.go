package viz

import (
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/rossv/designstorms-sub000/internal/storm"
)

// MaxPlotBars caps the bar count of plotted hyetographs.
const MaxPlotBars = 2500

// Bars is a hyetograph grouped into at most a fixed number of intervals.
// Times are in minutes.
type Bars struct {
	Start      []float64
	Width      []float64
	Intensity  []float64
	Volume     []float64
	Cumulative []float64
}

func (b Bars) Len() int { return len(b.Start) }

// Aggregate groups consecutive intervals of r so that at most maxBars remain.
// Volumes are summed, intensity is recomputed over the merged width and the
// cumulative depth is taken at the end of each group.
func Aggregate(r storm.Result, maxBars int) Bars {
	intervals := r.Len() - 1
	if intervals <= 0 {
		return Bars{}
	}
	k := 1
	if maxBars > 0 && intervals > maxBars {
		k = (intervals + maxBars - 1) / maxBars
	}

	var b Bars
	for first := 1; first <= intervals; first += k {
		last := min(first+k-1, intervals)
		vol := 0.0
		for i := first; i <= last; i++ {
			vol += r.Incremental[i]
		}
		start := r.TimeMinutes[first-1]
		width := r.TimeMinutes[last] - start
		inten := 0.0
		if width > 0 {
			inten = vol / width * 60
		}
		b.Start = append(b.Start, start)
		b.Width = append(b.Width, width)
		b.Volume = append(b.Volume, vol)
		b.Intensity = append(b.Intensity, inten)
		b.Cumulative = append(b.Cumulative, r.Cumulative[last])
	}
	return b
}

// Plot renders the intensity hyetograph above the cumulative mass curve.
func Plot(r storm.Result, width, height int) string {
	bars := Aggregate(r, MaxPlotBars)
	if bars.Len() == 0 {
		return ""
	}
	width = max(width, 10)
	height = max(height, 3)

	intensity := asciigraph.Plot(stepSeries(bars, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Blue),
		asciigraph.Caption("Intensity (per hr)"))

	mass := asciigraph.Plot(r.Cumulative,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Green),
		asciigraph.Caption("Cumulative depth"))

	return intensity + "\n\n" + mass
}

// stepSeries resamples bars onto a fixed number of columns so each column
// shows the intensity of the bar covering it.
func stepSeries(b Bars, columns int) []float64 {
	end := b.Start[b.Len()-1] + b.Width[b.Len()-1]
	if !(end > 0) {
		return b.Intensity
	}
	out := make([]float64, columns)
	j := 0
	for c := range out {
		t := (float64(c) + 0.5) / float64(columns) * end
		for j < b.Len()-1 && t >= b.Start[j]+b.Width[j] {
			j++
		}
		out[c] = b.Intensity[j]
	}
	return out
}

// Sparkline is a one-line intensity profile.
func Sparkline(r storm.Result, width int) string {
	bars := Aggregate(r, max(width, 1))
	if bars.Len() == 0 {
		return ""
	}
	blocks := []rune("▁▂▃▄▅▆▇█")
	peak := 0.0
	for _, v := range bars.Intensity {
		peak = math.Max(peak, v)
	}
	var sb strings.Builder
	for _, v := range bars.Intensity {
		idx := 0
		if peak > 0 {
			idx = int(v / peak * float64(len(blocks)-1))
		}
		sb.WriteRune(blocks[idx])
	}
	return sb.String()
}
