package lutmap

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pnr"
	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/yosys"
)

// resolveWiring emits one wire per connected primitive input, in primitive
// order and then slot order.
func (tr *translation) resolveWiring() ([]pnr.Wire, error) {
	unconnected := yosys.ConstBit(tr.opts.UnconnectedNet)
	wires := []pnr.Wire{}

	for _, p := range tr.prims {
		switch p.Kind {
		case FlipFlop:
			from, err := tr.nets.Resolve(p.Data)
			if err != nil {
				return nil, fmt.Errorf("%w (cell %s, input D)", err, p.Cell)
			}
			wires = append(wires, pnr.Wire{From: from, To: pnr.LutInput(p.Index, 0)})

		case LUT4:
			for slot, net := range p.Inputs {
				if net == unconnected {
					continue
				}
				from, err := tr.nets.Resolve(net)
				if err != nil {
					return nil, fmt.Errorf("%w (cell %s, input %s)", err, p.Cell, lutInputs[slot])
				}
				wires = append(wires, pnr.Wire{From: from, To: pnr.LutInput(p.Index, uint8(slot))})
			}
		}
	}
	return wires, nil
}
