package pinmap

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pnr"
	"gopkg.in/yaml.v3"
)

// entryDoc is one binding as written in a YAML pin file.
type entryDoc struct {
	Port  string `yaml:"port"`
	Type  string `yaml:"type"`
	Tile  []int  `yaml:"tile"`
	Which int    `yaml:"which"`
}

func (d entryDoc) entry() (Entry, error) {
	if len(d.Tile) != 2 {
		return Entry{}, fmt.Errorf("pinmap: port %s: tile needs 2 coordinates, got %d", d.Port, len(d.Tile))
	}
	for _, v := range []int{d.Tile[0], d.Tile[1], d.Which} {
		if v < 0 || v > 255 {
			return Entry{}, fmt.Errorf("pinmap: port %s: coordinate %d out of range", d.Port, v)
		}
	}
	return Entry{
		Port: d.Port,
		Kind: d.Type,
		Spot: pnr.PinSpot{
			Tile:  pnr.TilePos{X: uint8(d.Tile[0]), Y: uint8(d.Tile[1])},
			Which: uint8(d.Which),
		},
	}, nil
}

// entryList accepts either a sequence of bindings or a mapping from port
// name to binding. Mapping order is preserved.
type entryList []entryDoc

func (l *entryList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var seq []entryDoc
		if err := value.Decode(&seq); err != nil {
			return err
		}
		*l = seq
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			var d entryDoc
			if err := value.Content[i+1].Decode(&d); err != nil {
				return err
			}
			d.Port = value.Content[i].Value
			*l = append(*l, d)
		}
	default:
		return fmt.Errorf("pinmap: line %d: pins must be a sequence or a mapping", value.Line)
	}
	return nil
}

type fileDoc struct {
	Pins entryList `yaml:"pins"`
}

// ParseYAML reads a pin table from YAML. Both forms are accepted:
//
//	pins:
//	  - {port: clock, type: Pin, tile: [19, 0], which: 1}
//
//	pins:
//	  clock: {type: Pin, tile: [19, 0], which: 1}
func ParseYAML(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pinmap: read: %w", err)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("pinmap: parse yaml: %w", err)
	}
	entries := make([]Entry, 0, len(doc.Pins))
	for _, d := range doc.Pins {
		e, err := d.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return NewTable(entries...)
}

// LoadYAML reads a YAML pin table from a file.
func LoadYAML(path string) (*Table, error) {
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("pinmap: %w", err)
	}
	defer f.Close()

	return ParseYAML(f)
}
