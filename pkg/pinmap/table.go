package pinmap

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pnr"
	"github.com/markkurossi/tabulate"
)

// KindPin is the only device-type tag currently supported for a binding.
const KindPin = "Pin"

// Entry binds a top-level port name to a physical pin.
type Entry struct {
	Port string
	Kind string
	Spot pnr.PinSpot
}

// Table is an ordered port-to-pin mapping. The order is the order in which
// bindings were declared and is the order of the emitted I/O list.
type Table struct {
	entries []Entry
	index   map[string]int
}

// NewTable builds a table from entries, rejecting duplicate ports and
// unsupported kinds. An empty Kind defaults to KindPin.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if err := t.add(e); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(e Entry) error {
	if e.Port == "" {
		return fmt.Errorf("pinmap: empty port name")
	}
	if e.Kind == "" {
		e.Kind = KindPin
	}
	if e.Kind != KindPin {
		return fmt.Errorf("pinmap: port %s: unsupported type %q", e.Port, e.Kind)
	}
	if _, exists := t.index[e.Port]; exists {
		return fmt.Errorf("pinmap: duplicate port %s", e.Port)
	}
	t.index[e.Port] = len(t.entries)
	t.entries = append(t.entries, e)
	return nil
}

// Default returns the built-in bindings of the reference board.
func Default() *Table {
	t, _ := NewTable(
		Entry{Port: "clock", Kind: KindPin, Spot: pnr.PinSpot{Tile: pnr.TilePos{X: 19, Y: 0}, Which: 1}},
		Entry{Port: "led", Kind: KindPin, Spot: pnr.PinSpot{Tile: pnr.TilePos{X: 6, Y: 31}, Which: 0}},
	)
	return t
}

// Lookup returns the binding of a port.
func (t *Table) Lookup(port string) (Entry, bool) {
	i, ok := t.index[port]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns the bindings in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.entries)
}

// Print writes the table as a text grid.
func (t *Table) Print(out io.Writer) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Port").SetAlign(tabulate.ML)
	tab.Header("Type").SetAlign(tabulate.ML)
	tab.Header("Tile").SetAlign(tabulate.MR)
	tab.Header("Which").SetAlign(tabulate.MR)

	for _, e := range t.entries {
		row := tab.Row()
		row.Column(e.Port)
		row.Column(e.Kind)
		row.Column(e.Spot.Tile.String())
		row.Column(fmt.Sprintf("%d", e.Spot.Which))
	}
	tab.Print(out)
}
