package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showPrimitives bool

var infoCmd = &cobra.Command{
	Use:   "info <netlist.json>",
	Short: "Translate a netlist and summarize the result",
	Long: `Translate a Yosys JSON netlist and print a summary of the resulting LUT
configuration together with any warnings.

Examples:
  fpga info blinky.json
  fpga info --primitives --pins board.pcf blinky.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&showPrimitives, "primitives", false,
		"list every classified primitive")
}

func runInfo(cmd *cobra.Command, args []string) error {
	res, err := translateFile(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Module: %s\n", res.Module)
	res.Problem.Report(out)

	if showPrimitives || verbose {
		fmt.Fprintf(out, "\nPrimitives: %d total\n", len(res.Primitives))
		for _, prim := range res.Primitives {
			fmt.Fprintf(out, "  %-24s %s\n", prim.Cell, prim)
		}
	}

	if len(res.Diagnostics) > 0 {
		fmt.Fprintf(out, "\nWarnings: %d\n", len(res.Diagnostics))
		for _, d := range res.Diagnostics {
			fmt.Fprintf(out, "  %s\n", d)
		}
	}
	return nil
}
