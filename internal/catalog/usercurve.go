package catalog

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrInsufficientCurve indicates a custom curve with fewer than two valid points.
var ErrInsufficientCurve = errors.New("catalog: custom curve needs at least 2 valid points")

func isCurveSeparator(r rune) bool {
	switch r {
	case ',', ';', ':', '(', ')', '[', ']', '{', '}', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// ParseUserCurve reads (time, cumulative fraction) pairs from free text such as
// "(0,0)(0.5,0.7)(1,1)" or a two-column CSV. Tokens that are not numbers are
// skipped and the remaining numbers are paired in order. Pairs with a
// non-finite coordinate are dropped. A column whose largest value exceeds 1 is
// taken as dimensional (minutes, inches) and divided by that value; everything
// is then clamped to [0,1]. The result is sorted by time.
func ParseUserCurve(text string) ([]Point, error) {
	var nums []float64
	for _, tok := range strings.FieldsFunc(text, isCurveSeparator) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		nums = append(nums, v)
	}

	points := make([]Point, 0, len(nums)/2)
	maxT, maxF := 0.0, 0.0
	for i := 0; i+1 < len(nums); i += 2 {
		t, f := nums[i], nums[i+1]
		if !finite(t) || !finite(f) {
			continue
		}
		points = append(points, Point{T: t, F: f})
		maxT = math.Max(maxT, t)
		maxF = math.Max(maxF, f)
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientCurve, len(points))
	}

	for i := range points {
		if maxT > 1 {
			points[i].T /= maxT
		}
		if maxF > 1 {
			points[i].F /= maxF
		}
		points[i].T = clamp01(points[i].T)
		points[i].F = clamp01(points[i].F)
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].T < points[j].T })
	return points, nil
}

// UserDefinition parses text into a user-curve definition.
func UserDefinition(text string) (Definition, error) {
	points, err := ParseUserCurve(text)
	if err != nil {
		return Definition{ID: User()}, err
	}
	return Definition{ID: User(), Curve: points}, nil
}

// CanonicalCurve renders parsed points in a stable textual form, so curves that
// differ only in formatting share a cache entry.
func CanonicalCurve(points []Point) string {
	var sb strings.Builder
	for i, p := range points {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.FormatFloat(p.T, 'g', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(p.F, 'g', -1, 64))
	}
	return sb.String()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
