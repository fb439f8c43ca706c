package lutmap

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pnr"
	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/yosys"
)

// Translation errors. All of them abort a translation.
var (
	ErrModuleNotFound    = errors.New("module not found")
	ErrUnboundPort       = errors.New("port has no pin binding")
	ErrDanglingNet       = errors.New("net has no driver")
	ErrDuplicateDriver   = errors.New("net already has a driver")
	ErrMultiBit          = errors.New("signal is not single-bit")
	ErrMissingConnection = errors.New("missing connection")
	ErrBadTruthTable     = errors.New("invalid LUT_INIT")
	ErrUnsupportedCell   = errors.New("unsupported cell type")
	ErrUnusedPin         = errors.New("bound port not declared by module")
)

// NetTable maps each net to its single driving source.
type NetTable struct {
	sources map[yosys.Bit]pnr.OutputSpot
}

// NewNetTable creates an empty table.
func NewNetTable() *NetTable {
	return &NetTable{
		sources: make(map[yosys.Bit]pnr.OutputSpot),
	}
}

// Register binds net to its driver. A net can be registered once.
func (t *NetTable) Register(net yosys.Bit, source pnr.OutputSpot) error {
	if existing, ok := t.sources[net]; ok {
		return fmt.Errorf("lutmap: net %s: %w (%s, then %s)", net, ErrDuplicateDriver, existing, source)
	}
	t.sources[net] = source
	return nil
}

// Resolve returns the driver of net.
func (t *NetTable) Resolve(net yosys.Bit) (pnr.OutputSpot, error) {
	source, ok := t.sources[net]
	if !ok {
		return pnr.OutputSpot{}, fmt.Errorf("lutmap: net %s: %w", net, ErrDanglingNet)
	}
	return source, nil
}

// Len returns the number of registered nets.
func (t *NetTable) Len() int {
	return len(t.sources)
}
