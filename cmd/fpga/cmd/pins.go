package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pinmap"
	"github.com/spf13/cobra"
)

var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "Show the effective port-to-pin table",
	Long: `Load the pin table given by --pins (or the built-in board table) and print
its bindings in declaration order, which is the order of the emitted I/O list.

Examples:
  fpga pins
  fpga pins --pins board.pcf`,
	Args: cobra.NoArgs,
	RunE: runPins,
}

func init() {
	rootCmd.AddCommand(pinsCmd)
}

func runPins(cmd *cobra.Command, args []string) error {
	pins, err := pinmap.Load(pinsPath)
	if err != nil {
		return fmt.Errorf("failed to load pins: %w", err)
	}

	source := pinsPath
	if source == "" {
		source = "built-in"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pin table (%s): %d binding(s)\n", source, pins.Len())
	pins.Print(cmd.OutOrStdout())
	return nil
}
