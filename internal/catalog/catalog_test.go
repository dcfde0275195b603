package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_TableShapes(t *testing.T) {
	cat := Default()

	tests := []struct {
		family string
		points int
	}{
		{"scs_type_i", 241},
		{"scs_type_ia", 49},
		{"scs_type_ii", 241},
		{"scs_type_iii", 241},
	}
	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			def, err := cat.Lookup(Tabulated(tt.family, 24))
			require.NoError(t, err)
			require.Len(t, def.Values, tt.points)
			assert.Equal(t, tt.points, def.NativePoints())
			assert.Equal(t, 0.0, def.Values[0])
			assert.Equal(t, 1.0, def.Values[len(def.Values)-1])
			for i := 1; i < len(def.Values); i++ {
				assert.GreaterOrEqual(t, def.Values[i], def.Values[i-1], "index %d", i)
			}
		})
	}
}

func TestDefault_Presets(t *testing.T) {
	cat := Default()
	assert.Equal(t, []string{
		"huff_q1", "huff_q2", "huff_q3", "huff_q4",
		"scs_type_i", "scs_type_ia", "scs_type_ii", "scs_type_iii",
	}, cat.Presets())

	def, err := cat.Lookup(Beta("huff_q4"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, def.Alpha)
	assert.Equal(t, 1.5, def.Beta)
}

func TestParseID(t *testing.T) {
	cat := Default()

	tests := []struct {
		in      string
		want    ID
		wantErr error
	}{
		{"user", User(), nil},
		{" USER ", User(), nil},
		{"scs_type_ii_24hr", Tabulated("scs_type_ii", 24), nil},
		{"scs_type_ia_6hr", Tabulated("scs_type_ia", 6), nil},
		{"scs_type_iii", Tabulated("scs_type_iii", 0), nil},
		{"huff_q2", Beta("huff_q2"), nil},
		{"nope", Beta("nope"), ErrDistributionNotFound},
		{"nope_24hr", Beta("nope_24hr"), ErrDistributionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cat.ParseID(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestID_String(t *testing.T) {
	assert.Equal(t, "scs_type_ii_24hr", Tabulated("scs_type_ii", 24).String())
	assert.Equal(t, "scs_type_ii_1.5hr", Tabulated("scs_type_ii", 1.5).String())
	assert.Equal(t, "scs_type_ii", Tabulated("scs_type_ii", 0).String())
	assert.Equal(t, "huff_q1", Beta("huff_q1").String())
	assert.Equal(t, "user", User().String())
}

func TestLookup_NotFound(t *testing.T) {
	cat := Default()

	_, err := cat.Lookup(Tabulated("scs_type_ii", 6))
	assert.ErrorIs(t, err, ErrDistributionNotFound)

	_, err = cat.Lookup(User())
	assert.ErrorIs(t, err, ErrDistributionNotFound)

	assert.True(t, cat.IsTabulated(Tabulated("scs_type_ii", 24)))
	assert.False(t, cat.IsTabulated(Tabulated("scs_type_ii", 0)))
	assert.False(t, cat.IsTabulated(Beta("huff_q1")))
}

func TestNew_ValidatesTables(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{"empty family", Table{Family: "", DurationHours: 6, Values: []float64{0, 1}}},
		{"reserved family", Table{Family: "user", DurationHours: 6, Values: []float64{0, 1}}},
		{"zero duration", Table{Family: "x", DurationHours: 0, Values: []float64{0, 1}}},
		{"one point", Table{Family: "x", DurationHours: 6, Values: []float64{1}}},
		{"decreasing", Table{Family: "x", DurationHours: 6, Values: []float64{0, 0.6, 0.5, 1}}},
		{"zero end", Table{Family: "x", DurationHours: 6, Values: []float64{0, 0}}},
		{"negative", Table{Family: "x", DurationHours: 6, Values: []float64{-0.1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]Table{tt.table}, nil)
			assert.ErrorIs(t, err, ErrInvalidTable)
		})
	}
}

func TestNew_NormalizesTables(t *testing.T) {
	cat, err := New([]Table{{Family: "Custom", DurationHours: 6, Values: []float64{0, 1, 2, 4}}}, nil)
	require.NoError(t, err)

	def, err := cat.Lookup(Tabulated("custom", 6))
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{0, 0.25, 0.5, 1}, def.Values); diff != "" {
		t.Errorf("normalized values mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_ValidatesPresets(t *testing.T) {
	_, err := New(nil, []Preset{{Name: "bad", Alpha: 0, Beta: 1}})
	assert.ErrorIs(t, err, ErrInvalidPreset)

	_, err = New(nil, []Preset{{Name: "user", Alpha: 1, Beta: 1}})
	assert.ErrorIs(t, err, ErrInvalidPreset)
}

func TestMerge_DoesNotMutateBase(t *testing.T) {
	base := Default()
	merged, err := base.Merge(
		[]Table{{Family: "scs_type_ii", DurationHours: 6, Values: []float64{0, 0.5, 1}}},
		[]Preset{{Name: "flat", Alpha: 1, Beta: 1}},
	)
	require.NoError(t, err)

	assert.Equal(t, []float64{6, 24}, merged.Durations("scs_type_ii"))
	assert.Equal(t, []float64{24}, base.Durations("scs_type_ii"))
	assert.Contains(t, merged.Presets(), "flat")
	assert.NotContains(t, base.Presets(), "flat")
}

func TestNames_TablesShadowPresets(t *testing.T) {
	names := Default().Names()
	assert.Contains(t, names, "scs_type_ii_24hr")
	assert.Contains(t, names, "huff_q3")
	assert.NotContains(t, names, "scs_type_ii")
	assert.Equal(t, UserName, names[len(names)-1])
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
tables:
  - family: scs_type_ii
    duration_hours: 12
    values: [0, 0.1, 0.6, 0.9, 1.0]
presets:
  - name: front_loaded
    alpha: 1.2
    beta: 4
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cat, err := LoadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 24}, cat.Durations("scs_type_ii"))

	id, err := cat.ParseID("front_loaded")
	require.NoError(t, err)
	def, err := cat.Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, 1.2, def.Alpha)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestParseUserCurve(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Point
	}{
		{
			name: "parenthesized pairs",
			text: "(0,0)(1,1)",
			want: []Point{{0, 0}, {1, 1}},
		},
		{
			name: "csv with header",
			text: "time,fraction\n0,0\n0.5,0.7\n1,1\n",
			want: []Point{{0, 0}, {0.5, 0.7}, {1, 1}},
		},
		{
			name: "unsorted",
			text: "[1;1] [0;0] [0.25;0.5]",
			want: []Point{{0, 0}, {0.25, 0.5}, {1, 1}},
		},
		{
			name: "dimensional columns",
			text: "0 0\n30 1.5\n60 2",
			want: []Point{{0, 0}, {0.5, 0.75}, {1, 1}},
		},
		{
			name: "non-finite pair dropped",
			text: "0,0 NaN,0.5 1,1",
			want: []Point{{0, 0}, {1, 1}},
		},
		{
			name: "negative clamped",
			text: "0,-0.2 1,1",
			want: []Point{{0, 0}, {1, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserCurve(tt.text)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseUserCurve mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseUserCurve_Insufficient(t *testing.T) {
	for _, text := range []string{"", "0.5", "(0,0)", "a,b c,d", "Inf,0 0,1"} {
		_, err := ParseUserCurve(text)
		assert.ErrorIs(t, err, ErrInsufficientCurve, "text %q", text)
	}
}

func TestCanonicalCurve(t *testing.T) {
	a, err := ParseUserCurve("(0, 0) (0.5, 0.7) (1, 1)")
	require.NoError(t, err)
	b, err := ParseUserCurve("0,0\n0.5,0.70\n1,1.0")
	require.NoError(t, err)

	assert.Equal(t, "0,0;0.5,0.7;1,1", CanonicalCurve(a))
	assert.Equal(t, CanonicalCurve(a), CanonicalCurve(b))
}

func TestUserDefinition(t *testing.T) {
	def, err := UserDefinition("(0,0)(1,1)")
	require.NoError(t, err)
	assert.Equal(t, KindUser, def.ID.Kind)
	assert.Len(t, def.Curve, 2)

	def, err = UserDefinition("")
	assert.ErrorIs(t, err, ErrInsufficientCurve)
	assert.Equal(t, KindUser, def.ID.Kind)
}
