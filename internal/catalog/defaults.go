package catalog

import "fmt"

// DefaultTables are the built-in NRCS 24-hour tables.
func DefaultTables() []Table {
	return []Table{
		{Family: "scs_type_i", DurationHours: 24, Values: scsTypeI24},
		{Family: "scs_type_ia", DurationHours: 24, Values: scsTypeIA24},
		{Family: "scs_type_ii", DurationHours: 24, Values: scsTypeII24},
		{Family: "scs_type_iii", DurationHours: 24, Values: scsTypeIII24},
	}
}

// DefaultPresets are the built-in Beta shapes. The scs_* entries are legacy
// approximations, reachable only through an explicit Beta ID since the tables
// of the same name take precedence in ParseID.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "scs_type_i", Alpha: 2.0, Beta: 5.0},
		{Name: "scs_type_ia", Alpha: 2.0, Beta: 6.0},
		// mode (a-1)/(a+b-2) ~ 0.33
		{Name: "scs_type_ii", Alpha: 3.5, Beta: 6.0},
		{Name: "scs_type_iii", Alpha: 5.0, Beta: 2.0},
		{Name: "huff_q1", Alpha: 1.5, Beta: 5.0},
		{Name: "huff_q2", Alpha: 2.0, Beta: 3.0},
		{Name: "huff_q3", Alpha: 3.0, Beta: 2.0},
		{Name: "huff_q4", Alpha: 5.0, Beta: 1.5},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultTables(), DefaultPresets())
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in data invalid: %v", err))
	}
	return c
}
