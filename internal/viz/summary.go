package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rossv/designstorms-sub000/internal/storm"
)

// Summary renders the key figures of a storm in a bordered panel.
func Summary(p storm.Params, r storm.Result) string {
	return renderSummary(newStyles(ThemeStorm), p, r)
}

func renderSummary(st styles, p storm.Params, r storm.Result) string {
	s := r.Stats()
	row := func(label, value string) string {
		return st.label.Render(fmt.Sprintf("%-14s", label)) + " " + st.value.Render(value)
	}

	step := fmt.Sprintf("%.4g min", r.EffectiveTimestep)
	if r.TimestepLocked {
		step += " (table)"
	}
	rows := []string{
		st.title.Render(strings.ToUpper(r.Distribution)),
		"",
		row("depth", fmt.Sprintf("%.4g", s.TotalDepth)),
		row("duration", fmt.Sprintf("%.4g hr", p.DurationHours)),
		row("timestep", step),
		row("peak", fmt.Sprintf("%.4g /hr at %.4g min", s.PeakIntensity, s.TimeToPeakMinutes)),
		row("samples", fmt.Sprintf("%d", s.Samples)),
		row("mode", fmt.Sprintf("%s, %s", p.DurationMode, p.Fidelity)),
	}
	if r.SmoothingApplied {
		rows = append(rows, row("smoothing", "on"))
	}
	if len(r.Fallbacks) > 0 {
		rows = append(rows, st.warn.Render("fallback: "+strings.Join(r.Fallbacks, ", ")))
	}
	return st.panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
