package pnr

import (
	"fmt"
)

// TilePos is a tile coordinate on the device grid.
type TilePos struct {
	X uint8
	Y uint8
}

func (t TilePos) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// PinSpot identifies one I/O pin: a tile and the pin number inside it.
type PinSpot struct {
	Tile  TilePos
	Which uint8
}

func (p PinSpot) String() string {
	return fmt.Sprintf("pin%s/%d", p.Tile, p.Which)
}

// SpotKind tags the variant held by an OutputSpot or InputSpot.
type SpotKind int

const (
	SpotPin SpotKind = iota
	SpotLut
	SpotGlobalNetIngress
)

func (k SpotKind) String() string {
	switch k {
	case SpotPin:
		return "Pin"
	case SpotLut:
		return "Lut"
	case SpotGlobalNetIngress:
		return "GlobalNetIngress"
	default:
		return fmt.Sprintf("{SpotKind %d}", int(k))
	}
}

// OutputSpot is the driving source of a net: an external pin or the output
// of a LUT.
type OutputSpot struct {
	Kind     SpotKind
	Pin      PinSpot // valid when Kind == SpotPin
	LutIndex int     // valid when Kind == SpotLut
}

// PinOutput returns an OutputSpot driven by the given pin.
func PinOutput(spot PinSpot) OutputSpot {
	return OutputSpot{Kind: SpotPin, Pin: spot}
}

// LutOutput returns an OutputSpot driven by the LUT at index.
func LutOutput(index int) OutputSpot {
	return OutputSpot{Kind: SpotLut, LutIndex: index}
}

func (o OutputSpot) String() string {
	switch o.Kind {
	case SpotPin:
		return o.Pin.String()
	case SpotLut:
		return fmt.Sprintf("lut%d", o.LutIndex)
	default:
		return o.Kind.String()
	}
}

// InputSpot is the destination of a wire.
type InputSpot struct {
	Kind       SpotKind
	Pin        PinSpot // SpotPin
	Tile       TilePos // SpotGlobalNetIngress
	LutIndex   int     // SpotLut
	InputIndex uint8   // SpotLut, 0..3
}

// LutInput returns the InputSpot of input slot of the LUT at index.
func LutInput(index int, slot uint8) InputSpot {
	return InputSpot{Kind: SpotLut, LutIndex: index, InputIndex: slot}
}

func (i InputSpot) String() string {
	switch i.Kind {
	case SpotPin:
		return i.Pin.String()
	case SpotLut:
		return fmt.Sprintf("lut%d.I%d", i.LutIndex, i.InputIndex)
	case SpotGlobalNetIngress:
		return fmt.Sprintf("ingress%s", i.Tile)
	default:
		return i.Kind.String()
	}
}

// Lut4 is one device-level LUT. A non-nil ClockDomain means the LUT output
// is registered by the flip-flop of that clock domain.
type Lut4 struct {
	Table       uint16  `yaml:"table" json:"table"`
	ClockDomain *uint32 `yaml:"clock_domain" json:"clock_domain"`
}

// UsedIO binds a pin and its direction.
type UsedIO struct {
	Spot     PinSpot `yaml:"spot" json:"spot"`
	IsOutput bool    `yaml:"is_output" json:"is_output"`
}

// Wire is a directed connection from a driving source to a LUT input.
type Wire struct {
	From OutputSpot `yaml:"from" json:"from"`
	To   InputSpot  `yaml:"to" json:"to"`
}

// Problem is the flattened configuration handed to place and route.
type Problem struct {
	UsedIOs []UsedIO `yaml:"used_ios" json:"used_ios"`
	Lut4s   []Lut4   `yaml:"lut4s" json:"lut4s"`
	Wires   []Wire   `yaml:"wires" json:"wires"`
}

// NewProblem returns an empty problem with non-nil lists so that it
// serializes as empty sequences.
func NewProblem() *Problem {
	return &Problem{
		UsedIOs: []UsedIO{},
		Lut4s:   []Lut4{},
		Wires:   []Wire{},
	}
}

// FlipFlopCount returns the number of LUTs carrying a clock domain.
func (p *Problem) FlipFlopCount() int {
	count := 0
	for _, lut := range p.Lut4s {
		if lut.ClockDomain != nil {
			count++
		}
	}
	return count
}

// Validate checks that every wire refers to an existing LUT and a valid
// input slot.
func (p *Problem) Validate() error {
	for i, w := range p.Wires {
		if w.From.Kind == SpotLut {
			if w.From.LutIndex < 0 || w.From.LutIndex >= len(p.Lut4s) {
				return fmt.Errorf("pnr: wire %d: source lut index %d out of range (%d luts)",
					i, w.From.LutIndex, len(p.Lut4s))
			}
		}
		if w.To.Kind == SpotLut {
			if w.To.LutIndex < 0 || w.To.LutIndex >= len(p.Lut4s) {
				return fmt.Errorf("pnr: wire %d: destination lut index %d out of range (%d luts)",
					i, w.To.LutIndex, len(p.Lut4s))
			}
			if w.To.InputIndex > 3 {
				return fmt.Errorf("pnr: wire %d: input index %d out of range", i, w.To.InputIndex)
			}
		}
	}
	return nil
}
