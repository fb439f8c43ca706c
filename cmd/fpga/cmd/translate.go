package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pnr"
	"github.com/spf13/cobra"
)

var (
	outputPath   string
	outputFormat string
	dotPath      string
)

var translateCmd = &cobra.Command{
	Use:   "translate <netlist.json>",
	Short: "Translate a netlist into a LUT configuration",
	Long: `Translate a Yosys JSON netlist into the LUT configuration consumed by
place and route. SB_DFF cells become registered pass-through LUTs, SB_LUT4
cells keep their LUT_INIT table. Other cell types are reported and skipped
unless --strict is given.

Examples:
  fpga translate blinky.json
  fpga translate -o blinky.yaml --pins board.pcf blinky.json
  fpga translate --format json --dot blinky.dot blinky.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"output file (default: stdout)")
	translateCmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"output format: yaml or json (default: from output extension, else yaml)")
	translateCmd.Flags().StringVar(&dotPath, "dot", "",
		"also write a graphviz rendering of the wiring")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(outputFormat, outputPath)
	if err != nil {
		return err
	}

	res, err := translateFile(args[0])
	if err != nil {
		return err
	}

	if outputPath == "" {
		err = writeProblem(cmd.OutOrStdout(), format, res.Problem)
	} else {
		err = writeFile(outputPath, format, res.Problem)
	}
	if err != nil {
		return err
	}

	if dotPath != "" {
		f, err := os.Create(dotPath)
		if err != nil {
			return fmt.Errorf("failed to create dot file: %w", err)
		}
		res.Problem.Dot(f)
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write dot file: %w", err)
		}
	}

	if outputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d LUT4(s), %d wire(s), %d I/O(s) to %s\n",
			len(res.Problem.Lut4s), len(res.Problem.Wires), len(res.Problem.UsedIOs), outputPath)
		if len(res.Diagnostics) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d warning(s); run with -v for details\n", len(res.Diagnostics))
		}
	}
	return nil
}

func writeProblem(out io.Writer, format string, problem *pnr.Problem) error {
	var err error
	switch format {
	case "json":
		err = pnr.WriteJSON(out, problem)
	default:
		err = pnr.WriteYAML(out, problem)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeFile(path, format string, problem *pnr.Problem) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := writeProblem(f, format, problem); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func resolveFormat(format, path string) (string, error) {
	if format == "" {
		if strings.EqualFold(filepath.Ext(path), ".json") {
			return "json", nil
		}
		return "yaml", nil
	}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return "yaml", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("unknown output format %q (use yaml or json)", format)
	}
}
