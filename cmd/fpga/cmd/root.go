package cmd

import (
	"fmt"
	"os"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/lutmap"
	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pinmap"
	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/yosys"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose   bool
	pinsPath  string
	topModule string
	strict    bool
)

var rootCmd = &cobra.Command{
	Use:   "fpga",
	Short: "Netlist to LUT configuration translator",
	Long: `Translate Yosys gate-level netlists of iCE40 designs (SB_LUT4 and SB_DFF
cells) into the flat LUT, wire and I/O description consumed by place and route.

Examples:
  fpga translate blinky.json -o blinky.yaml        # Translate with the built-in pins
  fpga translate --pins board.pcf blinky.json      # Bind ports from a constraints file
  fpga info blinky.json                            # Summarize a translation
  fpga pins --pins board.yaml                      # Show the effective pin table`,
	Version: "0.3.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&pinsPath, "pins", "p", "",
		"pin table (.pcf, .yaml); built-in board pins when empty")
	rootCmd.PersistentFlags().StringVarP(&topModule, "top", "t", "top",
		"module to translate")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false,
		"fail on unsupported cell types")
}

func configureLogging(cmd *cobra.Command) {
	logger := logrus.StandardLogger()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// translateFile parses a netlist and translates the selected module with
// the flags shared by all subcommands.
func translateFile(filename string) (*lutmap.Result, error) {
	logrus.Debugf("Parsing netlist: %s", filename)
	design, err := yosys.ParseFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to parse netlist: %w", err)
	}

	pins, err := pinmap.Load(pinsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pins: %w", err)
	}

	opts := lutmap.DefaultOptions()
	opts.TopModule = topModule
	opts.Strict = strict

	res, err := lutmap.Translate(design, pins, opts)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	if err := res.Problem.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}
