package config

import (
	"fmt"

	"github.com/kilianp07/emitest/core/emission"
	"github.com/kilianp07/emitest/core/model"
)

// VehicleConfig describes one vehicle of the test fleet. Exactly one of
// DisplacementCC and BatteryKWh must be set, matching the category.
type VehicleConfig struct {
	Category       string  `json:"category"`
	Age            int     `json:"age"`
	Standard       string  `json:"standard"`
	DisplacementCC float64 `json:"displacement_cc"`
	BatteryKWh     float64 `json:"battery_kwh"`
}

// FleetConfig holds the ordered list of vehicles under test.
type FleetConfig struct {
	Vehicles []VehicleConfig `json:"vehicles"`
}

// SetDefaults seeds a small demonstration fleet when none is configured.
func (c *FleetConfig) SetDefaults() {
	if len(c.Vehicles) == 0 {
		c.Vehicles = []VehicleConfig{
			{Category: "gas", Age: 5, Standard: "BS6", DisplacementCC: 2000},
			{Category: "electric", Age: 2, Standard: "EV", BatteryKWh: 50},
			{Category: "gas", Age: 10, Standard: "BS4", DisplacementCC: 1500},
		}
	}
}

// Validate checks each vehicle entry, in particular that the parameter set
// matches the declared category.
func (c FleetConfig) Validate() error {
	for i, v := range c.Vehicles {
		cat, err := model.ParseCategory(v.Category)
		if err != nil {
			return fmt.Errorf("fleet vehicle %d: %w", i+1, err)
		}
		if v.Age < 0 {
			return fmt.Errorf("fleet vehicle %d: age must be non-negative", i+1)
		}
		switch cat {
		case model.CategoryGas:
			if v.DisplacementCC <= 0 {
				return fmt.Errorf("fleet vehicle %d: gas vehicles require displacement_cc", i+1)
			}
			if v.BatteryKWh != 0 {
				return fmt.Errorf("fleet vehicle %d: battery_kwh is not valid for gas vehicles", i+1)
			}
		case model.CategoryElectric:
			if v.BatteryKWh <= 0 {
				return fmt.Errorf("fleet vehicle %d: electric vehicles require battery_kwh", i+1)
			}
			if v.DisplacementCC != 0 {
				return fmt.Errorf("fleet vehicle %d: displacement_cc is not valid for electric vehicles", i+1)
			}
		}
	}
	return nil
}

// Build constructs the fleet, assigning each vehicle the strategy for its
// category. Strategy configuration is looked up by category name; missing
// entries fall back to the builtin defaults. Strategies are created once per
// category and shared across vehicles.
func (c FleetConfig) Build(reg *emission.Registry, strategies map[string]emission.ModuleConfig) ([]model.Vehicle, error) {
	built := make(map[string]emission.Strategy)
	vehicles := make([]model.Vehicle, 0, len(c.Vehicles))
	for i, vc := range c.Vehicles {
		cat, err := model.ParseCategory(vc.Category)
		if err != nil {
			return nil, fmt.Errorf("fleet vehicle %d: %w", i+1, err)
		}
		strat, ok := built[vc.Category]
		if !ok {
			mc, found := strategies[vc.Category]
			if !found {
				mc = emission.ModuleConfig{Type: vc.Category}
			}
			strat, err = reg.Create(mc)
			if err != nil {
				return nil, fmt.Errorf("fleet vehicle %d: %w", i+1, err)
			}
			built[vc.Category] = strat
		}
		param := vc.DisplacementCC
		if cat == model.CategoryElectric {
			param = vc.BatteryKWh
		}
		v := model.Vehicle{
			Category: cat,
			Age:      vc.Age,
			Standard: vc.Standard,
			Param:    param,
			Strategy: strat,
		}
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("fleet vehicle %d: %w", i+1, err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}
