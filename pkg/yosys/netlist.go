// Package yosys reads gate-level netlists written by Yosys' write_json.
//
// Mapping order is significant: ports and cells are kept in the order they
// first appear in the document, so downstream index assignment is stable
// across runs.
package yosys

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Bit names a single-bit signal. Yosys uses integers for nets and the
// strings "0", "1", "x" and "z" for constant drivers.
type Bit struct {
	Net   int
	Const string
}

// NetBit returns the bit for net number n.
func NetBit(n int) Bit { return Bit{Net: n} }

// ConstBit returns a constant bit such as "0" or "x".
func ConstBit(c string) Bit { return Bit{Const: c} }

// IsConst reports whether the bit is a constant rather than a net.
func (b Bit) IsConst() bool { return b.Const != "" }

func (b Bit) String() string {
	if b.IsConst() {
		return b.Const
	}
	return strconv.Itoa(b.Net)
}

// UnmarshalYAML accepts both integer nets and constant strings.
func (b *Bit) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("yosys: line %d: bit is neither a net number nor a constant", value.Line)
	}
	switch value.ShortTag() {
	case "!!int":
		n, err := strconv.Atoi(value.Value)
		if err != nil {
			return fmt.Errorf("yosys: line %d: bad net number %q", value.Line, value.Value)
		}
		*b = NetBit(n)
	case "!!str":
		if value.Value == "" {
			return fmt.Errorf("yosys: line %d: empty constant bit", value.Line)
		}
		*b = ConstBit(value.Value)
	default:
		return fmt.Errorf("yosys: line %d: bit is neither a net number nor a constant", value.Line)
	}
	return nil
}

// Param is a cell parameter in its literal form. Yosys writes most
// parameters as binary strings; plain integers are kept in decimal.
type Param string

// UnmarshalYAML accepts strings and scalars of any other type.
func (p *Param) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("yosys: line %d: parameter is not a scalar", value.Line)
	}
	*p = Param(value.Value)
	return nil
}

// Direction of a module port.
type Direction string

const (
	Input  Direction = "input"
	Output Direction = "output"
	Inout  Direction = "inout"
)

// Port is a top-level module port.
type Port struct {
	Name      string    `yaml:"-"`
	Direction Direction `yaml:"direction"`
	Bits      []Bit     `yaml:"bits"`
}

// Cell is an instance of a primitive.
type Cell struct {
	Name           string               `yaml:"-"`
	Type           string               `yaml:"type"`
	HideName       int                  `yaml:"hide_name"`
	Parameters     map[string]Param     `yaml:"parameters"`
	PortDirections map[string]Direction `yaml:"port_directions"`
	Connections    map[string][]Bit     `yaml:"connections"`
}

// Param returns the named parameter and whether it is present.
func (c *Cell) Param(name string) (string, bool) {
	v, ok := c.Parameters[name]
	return string(v), ok
}

// Module is one synthesized module.
type Module struct {
	Name  string  `yaml:"-"`
	Ports []*Port `yaml:"-"`
	Cells []*Cell `yaml:"-"`
}

// Port returns the named port or nil.
func (m *Module) Port(name string) *Port {
	for _, p := range m.Ports {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// UnmarshalYAML keeps the document order of ports and cells.
func (m *Module) UnmarshalYAML(value *yaml.Node) error {
	var doc struct {
		Ports ordered[Port] `yaml:"ports"`
		Cells ordered[Cell] `yaml:"cells"`
	}
	if err := value.Decode(&doc); err != nil {
		return err
	}
	for _, e := range doc.Ports {
		e.value.Name = e.name
		m.Ports = append(m.Ports, e.value)
	}
	for _, e := range doc.Cells {
		e.value.Name = e.name
		m.Cells = append(m.Cells, e.value)
	}
	return nil
}

// Design is a parsed netlist document.
type Design struct {
	Creator string
	Modules []*Module
}

// Module returns the named module.
func (d *Design) Module(name string) (*Module, error) {
	for _, m := range d.Modules {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("yosys: module %q not found", name)
}

// UnmarshalYAML keeps the document order of modules.
func (d *Design) UnmarshalYAML(value *yaml.Node) error {
	var doc struct {
		Creator string          `yaml:"creator"`
		Modules ordered[Module] `yaml:"modules"`
	}
	if err := value.Decode(&doc); err != nil {
		return err
	}
	d.Creator = doc.Creator
	for _, e := range doc.Modules {
		e.value.Name = e.name
		d.Modules = append(d.Modules, e.value)
	}
	return nil
}

type entry[T any] struct {
	name  string
	value *T
}

// ordered decodes a mapping into its entries in document order.
type ordered[T any] []entry[T]

func (o *ordered[T]) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("yosys: line %d: expected a mapping", value.Line)
	}
	seen := make(map[string]bool, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, node := value.Content[i], value.Content[i+1]
		if seen[key.Value] {
			return fmt.Errorf("yosys: line %d: duplicate key %q", key.Line, key.Value)
		}
		seen[key.Value] = true

		v := new(T)
		if err := node.Decode(v); err != nil {
			return err
		}
		*o = append(*o, entry[T]{name: key.Value, value: v})
	}
	return nil
}

// Parse reads a Yosys JSON netlist.
func Parse(r io.Reader) (*Design, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("yosys: read: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a netlist held in memory.
func ParseBytes(data []byte) (*Design, error) {
	var d Design
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("yosys: parse error: %w", err)
	}
	return &d, nil
}

// ParseFile parses a netlist from a file path.
func ParseFile(filename string) (*Design, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("yosys: failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}
