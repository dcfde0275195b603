package export

import (
	"fmt"
	"strings"

	"github.com/rossv/designstorms-sub000/internal/storm"
)

// HyetographSVG draws intensity bars with the mass curve overlaid. The
// cumulative line shares the x axis and is scaled to the full plot height.
func HyetographSVG(r storm.Result, width, height int) string {
	n := r.Len()
	if n < 2 || width <= 0 || height <= 0 {
		return ""
	}

	duration := r.TimeMinutes[n-1]
	if duration <= 0 {
		duration = 1
	}
	peak := r.Stats().PeakIntensity
	if peak <= 0 {
		peak = 1
	}
	total := r.Cumulative[n-1]
	if total <= 0 {
		total = 1
	}

	w, h := float64(width), float64(height)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#4aa3ff">
`, width, height, width, height))

	for i := 1; i < n; i++ {
		x0 := r.TimeMinutes[i-1] / duration * w
		x1 := r.TimeMinutes[i] / duration * w
		bh := r.Intensity[i] / peak * h * 0.95
		sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>
`, x0, h-bh, x1-x0, bh))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`)
	for i := 0; i < n; i++ {
		x := r.TimeMinutes[i] / duration * w
		y := h - r.Cumulative[i]/total*h
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
