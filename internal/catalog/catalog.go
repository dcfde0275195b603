package catalog

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// UserName is the identifier of the user-supplied curve variant.
const UserName = "user"

var (
	// ErrDistributionNotFound indicates a name that is neither a cataloged table nor a preset.
	ErrDistributionNotFound = errors.New("catalog: distribution not found")

	// ErrInvalidTable indicates a tabulated curve that cannot serve as a cumulative fraction.
	ErrInvalidTable = errors.New("catalog: invalid table")

	// ErrInvalidPreset indicates non-positive or non-finite shape parameters.
	ErrInvalidPreset = errors.New("catalog: invalid preset")
)

// tabulatedIDRe matches "<family>_<hours>hr", e.g. "scs_type_ii_24hr".
var tabulatedIDRe = regexp.MustCompile(`^(.+)_(\d+(?:\.\d+)?)hr$`)

// Kind enumerates the closed set of distribution variants.
type Kind int

const (
	KindTabulated Kind = iota + 1
	KindBeta
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindTabulated:
		return "tabulated"
	case KindBeta:
		return "beta"
	case KindUser:
		return "user"
	default:
		return "unknown"
	}
}

// ID identifies a distribution. Tabulated IDs with a zero DurationHours name a
// whole family and are resolved to a concrete table by duration.
type ID struct {
	Kind          Kind
	Family        string
	DurationHours float64
	Name          string
}

func Tabulated(family string, hours float64) ID {
	return ID{Kind: KindTabulated, Family: family, DurationHours: hours}
}

func Beta(name string) ID { return ID{Kind: KindBeta, Name: name} }

func User() ID { return ID{Kind: KindUser} }

// HasDuration reports whether a tabulated ID names a concrete table.
func (id ID) HasDuration() bool {
	return id.Kind == KindTabulated && id.DurationHours > 0
}

func (id ID) String() string {
	switch id.Kind {
	case KindTabulated:
		if id.DurationHours > 0 {
			return id.Family + "_" + strconv.FormatFloat(id.DurationHours, 'f', -1, 64) + "hr"
		}
		return id.Family
	case KindBeta:
		return id.Name
	case KindUser:
		return UserName
	default:
		return ""
	}
}

// Point is one (normalized time, cumulative fraction) pair.
type Point struct {
	T float64
	F float64
}

// Definition carries the payload of one distribution variant.
type Definition struct {
	ID ID

	// Tabulated: cumulative fractions at evenly spaced normalized times,
	// both endpoints included, ending at exactly 1. Shared with the catalog.
	Values []float64

	// Beta shape parameters.
	Alpha float64
	Beta  float64

	// User curve points sorted by time.
	Curve []Point
}

// NativePoints is the table length for tabulated definitions and 0 otherwise.
func (d Definition) NativePoints() int {
	if d.ID.Kind != KindTabulated {
		return 0
	}
	return len(d.Values)
}

// Table is a tabulated curve as supplied by the distribution data provider.
type Table struct {
	Family        string    `yaml:"family" json:"family"`
	DurationHours float64   `yaml:"duration_hours" json:"duration_hours"`
	Values        []float64 `yaml:"values" json:"values"`
}

// Preset names an analytic Beta(alpha, beta) shape.
type Preset struct {
	Name  string  `yaml:"name" json:"name"`
	Alpha float64 `yaml:"alpha" json:"alpha"`
	Beta  float64 `yaml:"beta" json:"beta"`
}

// Catalog is an immutable registry of tabulated curves and Beta presets.
type Catalog struct {
	tables  map[string]map[float64][]float64
	presets map[string]Preset
}

// New validates and indexes the given tables and presets. Later entries replace
// earlier ones with the same family and duration, or the same preset name.
func New(tables []Table, presets []Preset) (*Catalog, error) {
	c := &Catalog{
		tables:  make(map[string]map[float64][]float64),
		presets: make(map[string]Preset),
	}
	if err := c.add(tables, presets); err != nil {
		return nil, err
	}
	return c, nil
}

// Merge returns a new catalog holding c's entries overridden by the given ones.
func (c *Catalog) Merge(tables []Table, presets []Preset) (*Catalog, error) {
	merged := &Catalog{
		tables:  make(map[string]map[float64][]float64, len(c.tables)),
		presets: make(map[string]Preset, len(c.presets)),
	}
	for family, byHours := range c.tables {
		merged.tables[family] = make(map[float64][]float64, len(byHours))
		for hours, values := range byHours {
			merged.tables[family][hours] = values
		}
	}
	for name, p := range c.presets {
		merged.presets[name] = p
	}
	if err := merged.add(tables, presets); err != nil {
		return nil, err
	}
	return merged, nil
}

func (c *Catalog) add(tables []Table, presets []Preset) error {
	for _, t := range tables {
		values, err := normalizeTable(t)
		if err != nil {
			return err
		}
		family := strings.ToLower(strings.TrimSpace(t.Family))
		if c.tables[family] == nil {
			c.tables[family] = make(map[float64][]float64)
		}
		c.tables[family][t.DurationHours] = values
	}
	for _, p := range presets {
		if !(p.Alpha > 0) || !(p.Beta > 0) || math.IsInf(p.Alpha, 0) || math.IsInf(p.Beta, 0) {
			return fmt.Errorf("%w: %q alpha=%g beta=%g", ErrInvalidPreset, p.Name, p.Alpha, p.Beta)
		}
		p.Name = strings.ToLower(strings.TrimSpace(p.Name))
		if p.Name == "" || p.Name == UserName {
			return fmt.Errorf("%w: reserved or empty name %q", ErrInvalidPreset, p.Name)
		}
		c.presets[p.Name] = p
	}
	return nil
}

func normalizeTable(t Table) ([]float64, error) {
	family := strings.TrimSpace(t.Family)
	switch {
	case family == "" || strings.EqualFold(family, UserName):
		return nil, fmt.Errorf("%w: reserved or empty family %q", ErrInvalidTable, t.Family)
	case !(t.DurationHours > 0) || math.IsInf(t.DurationHours, 0):
		return nil, fmt.Errorf("%w: %s duration %g", ErrInvalidTable, family, t.DurationHours)
	case len(t.Values) < 2:
		return nil, fmt.Errorf("%w: %s needs at least 2 values", ErrInvalidTable, family)
	}

	last := t.Values[len(t.Values)-1]
	if !(last > 0) || math.IsInf(last, 0) {
		return nil, fmt.Errorf("%w: %s must end above zero", ErrInvalidTable, family)
	}
	out := make([]float64, len(t.Values))
	for i, v := range t.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%w: %s value %d is %g", ErrInvalidTable, family, i, v)
		}
		if i > 0 && v < t.Values[i-1] {
			return nil, fmt.Errorf("%w: %s decreases at index %d", ErrInvalidTable, family, i)
		}
		out[i] = v / last
	}
	out[len(out)-1] = 1
	return out, nil
}

// Families returns the sorted table family names.
func (c *Catalog) Families() []string {
	names := make([]string, 0, len(c.tables))
	for family := range c.tables {
		names = append(names, family)
	}
	slices.Sort(names)
	return names
}

// Durations returns the sorted cataloged durations, in hours, of a family.
func (c *Catalog) Durations(family string) []float64 {
	byHours := c.tables[family]
	hours := make([]float64, 0, len(byHours))
	for h := range byHours {
		hours = append(hours, h)
	}
	slices.Sort(hours)
	return hours
}

// Presets returns the sorted preset names.
func (c *Catalog) Presets() []string {
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Names lists every identifier ParseID accepts as-is: concrete tables, presets
// not shadowed by a table family, and the user curve.
func (c *Catalog) Names() []string {
	var names []string
	for _, family := range c.Families() {
		for _, h := range c.Durations(family) {
			names = append(names, Tabulated(family, h).String())
		}
	}
	for _, name := range c.Presets() {
		if _, shadowed := c.tables[name]; !shadowed {
			names = append(names, name)
		}
	}
	return append(names, UserName)
}

// ParseID maps a textual identifier to its variant. Table families take
// precedence over presets of the same name. Unknown names yield a Beta ID
// together with ErrDistributionNotFound so fail-soft callers can carry on.
func (c *Catalog) ParseID(s string) (ID, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == UserName {
		return User(), nil
	}
	if m := tabulatedIDRe.FindStringSubmatch(name); m != nil {
		if _, ok := c.tables[m[1]]; ok {
			hours, err := strconv.ParseFloat(m[2], 64)
			if err == nil && hours > 0 {
				return Tabulated(m[1], hours), nil
			}
		}
	}
	if _, ok := c.tables[name]; ok {
		return Tabulated(name, 0), nil
	}
	if _, ok := c.presets[name]; ok {
		return Beta(name), nil
	}
	return Beta(name), fmt.Errorf("%w: %q", ErrDistributionNotFound, s)
}

// Lookup returns the definition of a concrete tabulated or Beta ID. User
// curves carry their own points and are built with UserDefinition.
func (c *Catalog) Lookup(id ID) (Definition, error) {
	switch id.Kind {
	case KindTabulated:
		if values, ok := c.tables[id.Family][id.DurationHours]; ok {
			return Definition{ID: id, Values: values}, nil
		}
	case KindBeta:
		if p, ok := c.presets[id.Name]; ok {
			return Definition{ID: id, Alpha: p.Alpha, Beta: p.Beta}, nil
		}
	}
	return Definition{ID: id}, fmt.Errorf("%w: %s", ErrDistributionNotFound, id)
}

// IsTabulated reports whether id names a concrete cataloged table.
func (c *Catalog) IsTabulated(id ID) bool {
	if id.Kind != KindTabulated {
		return false
	}
	_, ok := c.tables[id.Family][id.DurationHours]
	return ok
}
