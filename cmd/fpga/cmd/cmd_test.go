package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pnr"
)

var (
	blinky   = filepath.Join("..", "..", "..", "pkg", "yosys", "testdata", "blinky.json")
	boardPCF = filepath.Join("..", "..", "..", "pkg", "pinmap", "testdata", "board.pcf")
)

const carryNetlist = `{
  "modules": {
    "top": {
      "ports": {
        "clock": {"direction": "input", "bits": [2]},
        "led": {"direction": "output", "bits": [5]}
      },
      "cells": {
        "carry": {"type": "SB_CARRY", "connections": {"I0": [2], "I1": ["0"], "CI": ["0"], "CO": [8]}},
        "inv": {"type": "SB_LUT4", "parameters": {"LUT_INIT": "0101010101010101"},
                "connections": {"I0": [2], "I1": ["0"], "I2": ["0"], "I3": ["0"], "O": [5]}}
      }
    }
  }
}
`

func resetFlags() {
	verbose = false
	pinsPath = ""
	topModule = "top"
	strict = false
	outputPath = ""
	outputFormat = ""
	dotPath = ""
	showPrimitives = false
}

// run executes the root command and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestTranslateToStdout(t *testing.T) {
	out, err := run(t, "translate", blinky)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	problem, err := pnr.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not decode: %v\n%s", err, out)
	}
	if len(problem.Lut4s) != 2 || len(problem.Wires) != 2 || len(problem.UsedIOs) != 2 {
		t.Errorf("unexpected problem sizes: %d luts, %d wires, %d ios",
			len(problem.Lut4s), len(problem.Wires), len(problem.UsedIOs))
	}
}

func TestTranslateToFile(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "blinky.json")
	dot := filepath.Join(dir, "blinky.dot")

	out, err := run(t, "translate", "-o", output, "--dot", dot, "--pins", boardPCF, blinky)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if !strings.Contains(out, "Wrote 2 LUT4(s), 2 wire(s), 2 I/O(s)") {
		t.Errorf("unexpected summary: %q", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		t.Errorf("expected JSON output, got:\n%s", data)
	}
	if _, err := pnr.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output does not decode: %v", err)
	}

	graph, err := os.ReadFile(dot)
	if err != nil {
		t.Fatalf("dot file not written: %v", err)
	}
	if !strings.HasPrefix(string(graph), "digraph pnr") {
		t.Errorf("unexpected dot output:\n%s", graph)
	}
}

func TestTranslateUnknownCell(t *testing.T) {
	netlist := filepath.Join(t.TempDir(), "carry.json")
	if err := os.WriteFile(netlist, []byte(carryNetlist), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "translate", netlist)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	problem, err := pnr.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	if len(problem.Lut4s) != 1 || problem.Lut4s[0].Table != 0x5555 {
		t.Errorf("expected the LUT4 only, got %+v", problem.Lut4s)
	}

	if _, err := run(t, "translate", "--strict", netlist); err == nil {
		t.Error("expected --strict to reject SB_CARRY")
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing netlist", args: []string{"translate", "does-not-exist.json"}},
		{name: "bad format", args: []string{"translate", "--format", "xml", blinky}},
		{name: "unknown module", args: []string{"translate", "--top", "chip", blinky}},
		{name: "bad pin file", args: []string{"translate", "--pins", "board.xdc", blinky}},
		{name: "no arguments", args: []string{"translate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestPins(t *testing.T) {
	out, err := run(t, "pins", "--pins", boardPCF)
	if err != nil {
		t.Fatalf("pins failed: %v", err)
	}
	for _, want := range []string{"2 binding(s)", "clock", "led", "(19,0)"} {
		if !strings.Contains(out, want) {
			t.Errorf("pins output missing %q:\n%s", want, out)
		}
	}
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info", "--primitives", blinky)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"Module: top", "LUT4s", "Primitives: 2 total", "led_SB_DFF_Q"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, path, want string
	}{
		{"", "", "yaml"},
		{"", "out.JSON", "json"},
		{"", "out.yaml", "yaml"},
		{"yml", "out.json", "yaml"},
		{"JSON", "", "json"},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.path)
		if err != nil {
			t.Errorf("resolveFormat(%q, %q) failed: %v", tt.format, tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %s, want %s", tt.format, tt.path, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	resetFlags()
	res, err := translateFile(blinky)
	if err != nil {
		t.Fatalf("translateFile failed: %v", err)
	}

	output := filepath.Join(t.TempDir(), "blinky.yaml")
	if err := writeFile(output, "yaml", res.Problem); err != nil {
		t.Fatalf("writeFile failed: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pnr.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("written file does not decode: %v", err)
	}

	if err := writeFile(filepath.Join(t.TempDir(), "missing", "out.yaml"), "yaml", res.Problem); err == nil {
		t.Error("expected error for missing directory")
	}

	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full")
	}
	if err := writeFile("/dev/full", "json", res.Problem); err == nil {
		t.Error("expected error when the device is full")
	}
}
