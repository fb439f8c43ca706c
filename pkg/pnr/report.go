package pnr

import (
	"fmt"
	"io"

	"github.com/markkurossi/tabulate"
)

// Report prints a summary table of the problem.
func (p *Problem) Report(out io.Writer) {
	inputs, outputs := 0, 0
	for _, u := range p.UsedIOs {
		if u.IsOutput {
			outputs++
		} else {
			inputs++
		}
	}
	ffs := p.FlipFlopCount()

	var pinWires, lutWires int
	for _, w := range p.Wires {
		if w.From.Kind == SpotPin {
			pinWires++
		} else {
			lutWires++
		}
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Item").SetAlign(tabulate.ML)
	tab.Header("Count").SetAlign(tabulate.MR)

	row := tab.Row()
	row.Column("LUT4s")
	row.Column(fmt.Sprintf("%d", len(p.Lut4s)))

	row = tab.Row()
	row.Column("├╴Combinational").SetFormat(tabulate.FmtItalic)
	row.Column(fmt.Sprintf("%d", len(p.Lut4s)-ffs)).SetFormat(tabulate.FmtItalic)

	row = tab.Row()
	row.Column("╰╴Registered").SetFormat(tabulate.FmtItalic)
	row.Column(fmt.Sprintf("%d", ffs)).SetFormat(tabulate.FmtItalic)

	row = tab.Row()
	row.Column("Wires")
	row.Column(fmt.Sprintf("%d", len(p.Wires)))

	row = tab.Row()
	row.Column("├╴From pins").SetFormat(tabulate.FmtItalic)
	row.Column(fmt.Sprintf("%d", pinWires)).SetFormat(tabulate.FmtItalic)

	row = tab.Row()
	row.Column("╰╴From LUTs").SetFormat(tabulate.FmtItalic)
	row.Column(fmt.Sprintf("%d", lutWires)).SetFormat(tabulate.FmtItalic)

	row = tab.Row()
	row.Column("I/Os")
	row.Column(fmt.Sprintf("%d", len(p.UsedIOs)))

	row = tab.Row()
	row.Column("├╴Inputs").SetFormat(tabulate.FmtItalic)
	row.Column(fmt.Sprintf("%d", inputs)).SetFormat(tabulate.FmtItalic)

	row = tab.Row()
	row.Column("╰╴Outputs").SetFormat(tabulate.FmtItalic)
	row.Column(fmt.Sprintf("%d", outputs)).SetFormat(tabulate.FmtItalic)

	tab.Print(out)
}

// Dot creates graphviz dot output of the LUT wiring.
func (p *Problem) Dot(out io.Writer) {
	fmt.Fprintf(out, "digraph pnr\n{\n")
	fmt.Fprintf(out, "  rankdir=LR;\n")
	fmt.Fprintf(out, "  node\t[fontname=\"Helvetica\"];\n")

	fmt.Fprintf(out, "  {\n    node [shape=plaintext];\n")
	for _, u := range p.UsedIOs {
		dir := "in"
		if u.IsOutput {
			dir = "out"
		}
		fmt.Fprintf(out, "    %s\t[label=\"%s %s\"];\n", pinNode(u.Spot), dir, u.Spot)
	}
	fmt.Fprintf(out, "  }\n")

	fmt.Fprintf(out, "  {\n    node [shape=box];\n")
	for idx, lut := range p.Lut4s {
		if lut.ClockDomain != nil {
			fmt.Fprintf(out, "    l%d\t[label=\"FF%d\\nclk=%d\"];\n", idx, idx, *lut.ClockDomain)
		} else {
			fmt.Fprintf(out, "    l%d\t[label=\"LUT%d\\n0x%04X\"];\n", idx, idx, lut.Table)
		}
	}
	fmt.Fprintf(out, "  }\n")

	for _, w := range p.Wires {
		var from string
		if w.From.Kind == SpotPin {
			from = pinNode(w.From.Pin)
		} else {
			from = fmt.Sprintf("l%d", w.From.LutIndex)
		}
		switch w.To.Kind {
		case SpotLut:
			fmt.Fprintf(out, "  %s -> l%d\t[label=\"I%d\"];\n", from, w.To.LutIndex, w.To.InputIndex)
		case SpotPin:
			fmt.Fprintf(out, "  %s -> %s;\n", from, pinNode(w.To.Pin))
		}
	}
	fmt.Fprintf(out, "}\n")
}

func pinNode(p PinSpot) string {
	return fmt.Sprintf("p%d_%d_%d", p.Tile.X, p.Tile.Y, p.Which)
}
