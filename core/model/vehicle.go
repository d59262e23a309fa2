package model

import (
	"fmt"

	"github.com/kilianp07/emitest/core/emission"
)

// Category identifies the kind of vehicle under test.
type Category int

const (
	CategoryGas Category = iota
	CategoryElectric
)

// String returns a human-readable representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryGas:
		return "Gas"
	case CategoryElectric:
		return "Electric"
	default:
		return "unknown"
	}
}

// ParseCategory converts a category name to its enum value. Matching is
// case-sensitive on the lowercase form used in configuration files.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "gas":
		return CategoryGas, nil
	case "electric":
		return CategoryElectric, nil
	default:
		return 0, fmt.Errorf("unknown vehicle category %q", s)
	}
}

// ParamUnit returns the unit of the category-specific parameter.
func (c Category) ParamUnit() string {
	switch c {
	case CategoryGas:
		return "cc"
	case CategoryElectric:
		return "kWh"
	default:
		return ""
	}
}

// Vehicle represents a physical unit submitted to emission testing. Vehicles
// are constructed once at fleet setup and immutable afterwards, so they can
// be read by any number of concurrent test executions without locking.
type Vehicle struct {
	Category Category
	Age      int    // age in years
	Standard string // emission standard label, e.g. "BS6"
	// Param is the category-specific input of the emission strategy:
	// engine displacement in cc for gas, battery capacity in kWh for electric.
	Param    float64
	Strategy emission.Strategy
}

// Description is a structured summary of a vehicle for the reporting boundary.
type Description struct {
	Category  string  `json:"category"`
	Age       int     `json:"age"`
	Standard  string  `json:"standard"`
	Param     float64 `json:"param"`
	ParamUnit string  `json:"param_unit"`
}

// Validate checks that the vehicle configuration is sound.
func (v Vehicle) Validate() error {
	if v.Category != CategoryGas && v.Category != CategoryElectric {
		return fmt.Errorf("unknown vehicle category %d", v.Category)
	}
	if v.Age < 0 {
		return fmt.Errorf("age must be non-negative")
	}
	if v.Param <= 0 {
		return fmt.Errorf("%s parameter must be positive", v.Category.ParamUnit())
	}
	if v.Strategy == nil {
		return fmt.Errorf("no emission strategy assigned")
	}
	return nil
}

// EmissionLevel delegates to the assigned strategy with the stored parameter.
func (v Vehicle) EmissionLevel() float64 {
	return v.Strategy.Calculate(v.Param)
}

// Describe returns the reporting summary of the vehicle.
func (v Vehicle) Describe() Description {
	return Description{
		Category:  v.Category.String(),
		Age:       v.Age,
		Standard:  v.Standard,
		Param:     v.Param,
		ParamUnit: v.Category.ParamUnit(),
	}
}
