package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/emitest/config"
	"github.com/kilianp07/emitest/core/compliance"
	"github.com/kilianp07/emitest/core/emission"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List configured vehicles",
	RunE:  runFleetLs,
}

var fleetDescribeCmd = &cobra.Command{
	Use:   "describe <id>",
	Short: "Show details of one vehicle, e.g. Vehicle_1",
	Args:  cobra.ExactArgs(1),
	RunE:  runFleetDescribe,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	fleetCmd.AddCommand(fleetDescribeCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, err := cfg.Fleet.Build(emission.DefaultRegistry(), cfg.Strategies)
	if err != nil {
		return err
	}
	for i, v := range fleet {
		d := v.Describe()
		cmd.Printf("%s\t%s\t%s\t%g %s\n", compliance.VehicleID(i), d.Category, d.Standard, d.Param, d.ParamUnit)
	}
	return nil
}

func runFleetDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, err := cfg.Fleet.Build(emission.DefaultRegistry(), cfg.Strategies)
	if err != nil {
		return err
	}
	idx, err := compliance.ParseVehicleID(args[0])
	if err != nil {
		return err
	}
	if idx >= len(fleet) {
		return fmt.Errorf("%w: %s", compliance.ErrUnknownVehicle, args[0])
	}
	d := fleet[idx].Describe()
	cmd.Printf("Vehicle Type: %s\n", d.Category)
	cmd.Printf("Age: %d\n", d.Age)
	cmd.Printf("Emission Standard: %s\n", d.Standard)
	cmd.Printf("Parameter: %g %s\n", d.Param, d.ParamUnit)
	return nil
}
