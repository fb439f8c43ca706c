package lutmap

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pnr"
	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/yosys"
)

// Kind is the primitive variant.
type Kind int

const (
	FlipFlop Kind = iota
	LUT4
)

func (k Kind) String() string {
	switch k {
	case FlipFlop:
		return "FF"
	case LUT4:
		return "LUT4"
	default:
		return fmt.Sprintf("{Kind %d}", int(k))
	}
}

// PassThroughTable is the truth table of a LUT whose output equals input 0.
const PassThroughTable uint16 = 0b10

// Primitive is a classified cell.
type Primitive struct {
	Kind  Kind
	Index int
	Cell  string

	// FlipFlop
	Clock yosys.Bit
	Data  yosys.Bit

	// LUT4
	Table  uint16
	Inputs [4]yosys.Bit

	Output yosys.Bit
}

// Lower returns the device LUT for the primitive. Flip-flops are tagged
// with clockDomain.
func (p *Primitive) Lower(clockDomain uint32) pnr.Lut4 {
	if p.Kind == FlipFlop {
		domain := clockDomain
		return pnr.Lut4{Table: PassThroughTable, ClockDomain: &domain}
	}
	return pnr.Lut4{Table: p.Table}
}

func (p *Primitive) String() string {
	if p.Kind == FlipFlop {
		return fmt.Sprintf("%s#%d %s (clock=%s, data=%s)", p.Kind, p.Index, p.Output, p.Clock, p.Data)
	}
	return fmt.Sprintf("%s#%d %s (I0=%s, I1=%s, I2=%s, I3=%s) table=0x%04X", p.Kind, p.Index, p.Output,
		p.Inputs[0], p.Inputs[1], p.Inputs[2], p.Inputs[3], p.Table)
}
