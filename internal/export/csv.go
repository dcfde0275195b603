package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rossv/designstorms-sub000/internal/storm"
)

// TimestampLayout formats the optional timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"time_min", "intensity", "incremental", "cumulative"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes the four storm series with CRLF line endings. A non-zero
// start adds a timestamp column at start plus each sample time.
func WriteCSV(w io.Writer, r storm.Result, start time.Time) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	header := csvHeader
	if !start.IsZero() {
		header = append(append([]string{}, csvHeader...), "timestamp")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range r.TimeMinutes {
		row := []string{
			formatFloat(r.TimeMinutes[i]),
			formatFloat(r.Intensity[i]),
			formatFloat(r.Incremental[i]),
			formatFloat(r.Cumulative[i]),
		}
		if !start.IsZero() {
			row = append(row, offset(start, r.TimeMinutes[i]).Format(TimestampLayout))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the series written by WriteCSV. Extra columns are ignored.
func ReadCSV(rd io.Reader) (storm.Result, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return storm.Result{}, err
	}
	if len(records) == 0 {
		return storm.Result{}, fmt.Errorf("empty storm csv")
	}

	var r storm.Result
	for line, rec := range records[1:] {
		if len(rec) < len(csvHeader) {
			return storm.Result{}, fmt.Errorf("line %d: want %d columns, got %d", line+2, len(csvHeader), len(rec))
		}
		var vals [4]float64
		for j := range vals {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return storm.Result{}, fmt.Errorf("line %d column %s: %w", line+2, csvHeader[j], err)
			}
			vals[j] = v
		}
		r.TimeMinutes = append(r.TimeMinutes, vals[0])
		r.Intensity = append(r.Intensity, vals[1])
		r.Incremental = append(r.Incremental, vals[2])
		r.Cumulative = append(r.Cumulative, vals[3])
	}
	return r, nil
}

// offset adds fractional minutes to t, rounded to the second.
func offset(t time.Time, minutes float64) time.Time {
	return t.Add(time.Duration(minutes * float64(time.Minute))).Round(time.Second)
}
