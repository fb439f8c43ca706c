package lutmap

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pnr"
	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/yosys"
)

// Cell type tags understood by the classifier.
const (
	CellDFF  = "SB_DFF"
	CellLUT4 = "SB_LUT4"
)

// lutInputs are the LUT4 connection names in input slot order.
var lutInputs = [4]string{"I0", "I1", "I2", "I3"}

// registerPorts records port directions and registers input port nets as
// driven by their pins.
func (tr *translation) registerPorts() error {
	for _, port := range tr.module.Ports {
		bit, err := singleBit(port.Bits)
		if err != nil {
			return fmt.Errorf("lutmap: port %s: %w", port.Name, err)
		}
		entry, ok := tr.pins.Lookup(port.Name)
		if !ok {
			return fmt.Errorf("lutmap: port %s: %w", port.Name, ErrUnboundPort)
		}

		isOutput := port.Direction == yosys.Output
		tr.outputs[port.Name] = isOutput
		if isOutput {
			continue
		}
		if err := tr.nets.Register(bit, pnr.PinOutput(entry.Spot)); err != nil {
			return fmt.Errorf("%w (port %s)", err, port.Name)
		}
	}
	return nil
}

// buildPrimitives classifies cells in document order.
func (tr *translation) buildPrimitives() error {
	for _, cell := range tr.module.Cells {
		var err error
		switch cell.Type {
		case CellDFF:
			err = tr.addFlipFlop(cell)
		case CellLUT4:
			err = tr.addLUT4(cell)
		default:
			err = tr.unsupported(cell)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (tr *translation) addFlipFlop(cell *yosys.Cell) error {
	clock, err := connection(cell, "C")
	if err != nil {
		return err
	}
	data, err := connection(cell, "D")
	if err != nil {
		return err
	}
	q, err := connection(cell, "Q")
	if err != nil {
		return err
	}

	tr.log.WithField("cell", cell.Name).Debugf("%s %s (clock=%s, data=%s)", CellDFF, q, clock, data)

	return tr.add(cell, &Primitive{
		Kind:   FlipFlop,
		Clock:  clock,
		Data:   data,
		Output: q,
	})
}

func (tr *translation) addLUT4(cell *yosys.Cell) error {
	init, ok := cell.Param("LUT_INIT")
	if !ok {
		return fmt.Errorf("lutmap: cell %s: %w: parameter missing", cell.Name, ErrBadTruthTable)
	}
	table, err := ParseTruthTable(init)
	if err != nil {
		return fmt.Errorf("lutmap: cell %s: %w", cell.Name, err)
	}

	var inputs [4]yosys.Bit
	for slot, name := range lutInputs {
		inputs[slot], err = connection(cell, name)
		if err != nil {
			return err
		}
	}
	o, err := connection(cell, "O")
	if err != nil {
		return err
	}

	tr.log.WithField("cell", cell.Name).Debugf("%s %s (I0=%s, I1=%s, I2=%s, I3=%s)",
		CellLUT4, o, inputs[0], inputs[1], inputs[2], inputs[3])

	return tr.add(cell, &Primitive{
		Kind:   LUT4,
		Table:  table,
		Inputs: inputs,
		Output: o,
	})
}

// add appends prim at the next index and registers its output net.
func (tr *translation) add(cell *yosys.Cell, prim *Primitive) error {
	prim.Index = len(tr.prims)
	prim.Cell = cell.Name
	if err := tr.nets.Register(prim.Output, pnr.LutOutput(prim.Index)); err != nil {
		return fmt.Errorf("%w (cell %s)", err, cell.Name)
	}
	tr.prims = append(tr.prims, prim)
	return nil
}

func (tr *translation) unsupported(cell *yosys.Cell) error {
	if tr.opts.Strict {
		return fmt.Errorf("lutmap: cell %s: %w %s", cell.Name, ErrUnsupportedCell, cell.Type)
	}
	tr.warn(cell.Name, cell.Type, fmt.Sprintf("Unknown cell type %s", cell.Type))
	return nil
}

// ParseTruthTable parses a LUT_INIT binary literal of at most 16
// significant bits.
func ParseTruthTable(init string) (uint16, error) {
	if init == "" {
		return 0, fmt.Errorf("%w: empty value", ErrBadTruthTable)
	}
	v, err := strconv.ParseUint(init, 2, 16)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrBadTruthTable, init)
	}
	return uint16(v), nil
}

// connection returns the single bit bound to a named cell connection.
func connection(cell *yosys.Cell, name string) (yosys.Bit, error) {
	bits, ok := cell.Connections[name]
	if !ok {
		return yosys.Bit{}, fmt.Errorf("lutmap: cell %s: %w %s", cell.Name, ErrMissingConnection, name)
	}
	bit, err := singleBit(bits)
	if err != nil {
		return yosys.Bit{}, fmt.Errorf("lutmap: cell %s connection %s: %w", cell.Name, name, err)
	}
	return bit, nil
}

func singleBit(bits []yosys.Bit) (yosys.Bit, error) {
	if len(bits) != 1 {
		return yosys.Bit{}, fmt.Errorf("%w: %d bits", ErrMultiBit, len(bits))
	}
	return bits[0], nil
}
