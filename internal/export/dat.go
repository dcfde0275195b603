package export

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/rossv/designstorms-sub000/internal/storm"
)

// Column selects the series written to a rain gauge file.
type Column string

const (
	ColumnIntensity  Column = "intensity"
	ColumnVolume     Column = "volume"
	ColumnCumulative Column = "cumulative"
)

// ParseColumn validates a column name.
func ParseColumn(s string) (Column, error) {
	switch c := Column(s); c {
	case ColumnIntensity, ColumnVolume, ColumnCumulative:
		return c, nil
	case "":
		return ColumnIntensity, nil
	default:
		return "", fmt.Errorf("unknown column: %s", s)
	}
}

// DefaultStart is the stamp origin of rain gauge files when none is given.
var DefaultStart = time.Date(2003, 1, 1, 0, 0, 0, 0, time.UTC)

// DATOptions configures WriteDAT.
type DATOptions struct {
	Gauge  string
	Start  time.Time
	Column Column
	Units  string

	// Logger receives a warning when sample times fall between whole
	// minutes. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o DATOptions) withDefaults() DATOptions {
	if o.Gauge == "" {
		o.Gauge = "System"
	}
	if o.Start.IsZero() {
		o.Start = DefaultStart
	}
	if o.Column == "" {
		o.Column = ColumnIntensity
	}
	if o.Units == "" {
		o.Units = "in"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// WriteDAT writes a PCSWMM rain gauge file. Each interval is one row stamped
// at its end, start plus the sample time; the zero sample at the storm start
// is omitted. The format resolves whole minutes only: fractional sample
// times are truncated to the minute and reported once as a warning.
func WriteDAT(w io.Writer, r storm.Result, opts DATOptions) error {
	opts = opts.withDefaults()

	var values []float64
	unit := opts.Units
	switch opts.Column {
	case ColumnIntensity:
		values = r.Intensity
		unit += "/hr"
	case ColumnVolume:
		values = r.Incremental
	case ColumnCumulative:
		values = r.Cumulative
	default:
		return fmt.Errorf("unknown column: %s", opts.Column)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, ";Rainfall (%s)\n", unit)
	fmt.Fprint(bw, ";PCSWMM generated rain gauges file (please do not edit)\n")
	fractional := 0
	for i := 1; i < len(values); i++ {
		if t := r.TimeMinutes[i]; math.Abs(t-math.Round(t)) > 1e-6 {
			fractional++
		}
		ts := offset(opts.Start, r.TimeMinutes[i])
		fmt.Fprintf(bw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			opts.Gauge, ts.Year(), int(ts.Month()), ts.Day(), ts.Hour(), ts.Minute(),
			strconv.FormatFloat(values[i], 'G', 7, 64))
	}
	if fractional > 0 {
		opts.Logger.Warn("rain gauge rows truncated to whole minutes",
			"gauge", opts.Gauge,
			"rows", fractional,
			"timestep_minutes", r.TimeMinutes[1]-r.TimeMinutes[0],
		)
	}
	return bw.Flush()
}
