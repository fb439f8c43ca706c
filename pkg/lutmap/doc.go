// Package lutmap lowers a synthesized iCE40 netlist into a flat list of LUT4
// cells, the wires between them and the I/O pins they use.
//
// # Overview
//
// Translation runs in four forward phases over one module:
//  1. Every input port net is registered in the net table with its pin as
//     driving source.
//  2. Cells are classified in document order. SB_DFF and SB_LUT4 cells
//     become primitives; the index of a primitive is its position in that
//     order and its output net is registered as driven by that index.
//     Other cell types are reported as diagnostics and skipped.
//  3. Every primitive input is resolved through the now complete net
//     table and emitted as a wire to (primitive index, input slot).
//  4. The pin table, the lowered primitives and the wires are assembled
//     into a pnr.Problem.
//
// A net has exactly one driver, so no phase needs to revisit an earlier one.
//
// # Lowering
//
// A flip-flop is lowered to a LUT whose table passes input 0 through
// (0b10) and whose output is registered in clock domain 7. The clock net
// is never wired; all flip-flops share the single global clock domain. A
// LUT4 keeps its LUT_INIT table and carries no clock domain. LUT inputs
// tied to constant "0" are left unwired.
//
// # Usage
//
//	design, err := yosys.ParseFile("blinky.json")
//	pins, err := pinmap.Load("board.pcf")
//	res, err := lutmap.Translate(design, pins, lutmap.DefaultOptions())
//	err = pnr.WriteYAML(os.Stdout, res.Problem)
//
// # Errors
//
// Unbound ports, dangling nets, duplicate drivers, multi-bit signals,
// missing connections and malformed LUT_INIT values abort the translation.
// Test for them with errors.Is against the Err* values of this package.
package lutmap
