// Package pfds reads NOAA Atlas 14 precipitation frequency estimates saved in
// the "free text CSV" layout: a header naming the recurrence intervals after
// "ARI (years)", then one row per duration such as "5-min:" or "2-day:".
package pfds

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrNoHeader = errors.New("pfds: no ARI header")
	ErrNoRows   = errors.New("pfds: no duration rows")
	ErrNoValue  = errors.New("pfds: no depth for request")
)

const headerMarker = "ARI (years)"

var (
	durationRe = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*[- ]\s*(min|minute|minutes|hr|hour|hours|day|days)\s*:?$`)
	rowRe      = regexp.MustCompile(`^([^:]+):\s*(.*)$`)
	intRe      = regexp.MustCompile(`\b\d+\b`)
	numberRe   = regexp.MustCompile(`[-+]?(?:\d*\.\d+|\d+)(?:[eE][-+]?\d+)?`)
)

// Row holds the depths of one duration, aligned with Table.ARIs. Missing
// cells are NaN.
type Row struct {
	Label   string
	Minutes float64
	Depths  []float64
}

type Table struct {
	ARIs []int
	Rows []Row
}

// LabelMinutes converts a duration label such as "15-min", "2-hr" or "1-day"
// to minutes. Unrecognized labels yield NaN.
func LabelMinutes(label string) float64 {
	m := durationRe.FindStringSubmatch(strings.TrimSuffix(strings.TrimSpace(label), ":"))
	if m == nil {
		return math.NaN()
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return math.NaN()
	}
	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "min"):
		return num
	case strings.HasPrefix(unit, "h"):
		return num * 60
	default:
		return num * 1440
	}
}

// Parse reads a free text table. Lines before the header and rows whose label
// is not a duration (latitude, notes) are skipped.
func Parse(r io.Reader) (*Table, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if ln := strings.TrimSpace(sc.Text()); ln != "" {
			lines = append(lines, ln)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	t := &Table{}
	for _, ln := range lines {
		idx := strings.LastIndex(ln, headerMarker)
		if idx < 0 {
			continue
		}
		for _, tok := range intRe.FindAllString(ln[idx+len(headerMarker):], -1) {
			v, err := strconv.Atoi(tok)
			if err == nil {
				t.ARIs = append(t.ARIs, v)
			}
		}
		break
	}
	if len(t.ARIs) == 0 {
		return nil, ErrNoHeader
	}

	for _, ln := range lines {
		m := rowRe.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		if !durationRe.MatchString(label) {
			continue
		}
		row := Row{Label: label, Minutes: LabelMinutes(label), Depths: make([]float64, len(t.ARIs))}
		nums := numberRe.FindAllString(m[2], -1)
		for i := range row.Depths {
			row.Depths[i] = math.NaN()
			if i < len(nums) {
				if v, err := strconv.ParseFloat(nums[i], 64); err == nil {
					row.Depths[i] = v
				}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, ErrNoRows
	}
	return t, nil
}

// Depth returns the depth in the ARI column (rounded to whole years) from the
// row whose duration is nearest the requested one. Ties go to the earlier row.
func (t *Table) Depth(durationHours, ari float64) (float64, error) {
	col := -1
	want := int(math.Round(ari))
	for i, a := range t.ARIs {
		if a == want {
			col = i
			break
		}
	}
	if col < 0 {
		return 0, fmt.Errorf("%w: ARI %d not in %v", ErrNoValue, want, t.ARIs)
	}

	target := durationHours * 60
	best, bestDiff := -1, math.Inf(1)
	for i, row := range t.Rows {
		if math.IsNaN(row.Minutes) {
			continue
		}
		if d := math.Abs(row.Minutes - target); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: no usable duration near %g hr", ErrNoValue, durationHours)
	}

	v := t.Rows[best].Depths[col]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s ARI %d is blank", ErrNoValue, t.Rows[best].Label, want)
	}
	return v, nil
}
