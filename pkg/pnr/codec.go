package pnr

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// spotDoc is the serialized form shared by all spot variants. Spots are
// written as maps tagged by "type", the layout the place-and-route reader
// expects.
type spotDoc struct {
	Type       string   `yaml:"type" json:"type"`
	Tile       *TilePos `yaml:"tile,omitempty" json:"tile,omitempty"`
	Which      *uint8   `yaml:"which,omitempty" json:"which,omitempty"`
	LutIndex   *int     `yaml:"lut_index,omitempty" json:"lut_index,omitempty"`
	InputIndex *uint8   `yaml:"input_index,omitempty" json:"input_index,omitempty"`
}

func pinDoc(p PinSpot) spotDoc {
	tile, which := p.Tile, p.Which
	return spotDoc{Type: SpotPin.String(), Tile: &tile, Which: &which}
}

func (d spotDoc) pin() (PinSpot, error) {
	if d.Tile == nil || d.Which == nil {
		return PinSpot{}, fmt.Errorf("pnr: pin spot needs tile and which")
	}
	return PinSpot{Tile: *d.Tile, Which: *d.Which}, nil
}

func (d spotDoc) lutIndex() (int, error) {
	if d.LutIndex == nil {
		return 0, fmt.Errorf("pnr: lut spot needs lut_index")
	}
	if *d.LutIndex < 0 {
		return 0, fmt.Errorf("pnr: negative lut_index %d", *d.LutIndex)
	}
	return *d.LutIndex, nil
}

func (d spotDoc) output() (OutputSpot, error) {
	switch d.Type {
	case "Pin":
		pin, err := d.pin()
		if err != nil {
			return OutputSpot{}, err
		}
		return PinOutput(pin), nil
	case "Lut":
		index, err := d.lutIndex()
		if err != nil {
			return OutputSpot{}, err
		}
		return LutOutput(index), nil
	default:
		return OutputSpot{}, fmt.Errorf("pnr: unknown output spot type %q", d.Type)
	}
}

func (d spotDoc) input() (InputSpot, error) {
	switch d.Type {
	case "Pin":
		pin, err := d.pin()
		if err != nil {
			return InputSpot{}, err
		}
		return InputSpot{Kind: SpotPin, Pin: pin}, nil
	case "GlobalNetIngress":
		if d.Tile == nil {
			return InputSpot{}, fmt.Errorf("pnr: global net ingress needs tile")
		}
		return InputSpot{Kind: SpotGlobalNetIngress, Tile: *d.Tile}, nil
	case "Lut":
		index, err := d.lutIndex()
		if err != nil {
			return InputSpot{}, err
		}
		if d.InputIndex == nil {
			return InputSpot{}, fmt.Errorf("pnr: lut input spot needs input_index")
		}
		return LutInput(index, *d.InputIndex), nil
	default:
		return InputSpot{}, fmt.Errorf("pnr: unknown input spot type %q", d.Type)
	}
}

func (o OutputSpot) doc() spotDoc {
	if o.Kind == SpotPin {
		return pinDoc(o.Pin)
	}
	index := o.LutIndex
	return spotDoc{Type: SpotLut.String(), LutIndex: &index}
}

func (i InputSpot) doc() spotDoc {
	switch i.Kind {
	case SpotPin:
		return pinDoc(i.Pin)
	case SpotGlobalNetIngress:
		tile := i.Tile
		return spotDoc{Type: i.Kind.String(), Tile: &tile}
	default:
		index, slot := i.LutIndex, i.InputIndex
		return spotDoc{Type: SpotLut.String(), LutIndex: &index, InputIndex: &slot}
	}
}

// MarshalYAML writes the tile as a two element sequence.
func (t TilePos) MarshalYAML() (interface{}, error) {
	return []int{int(t.X), int(t.Y)}, nil
}

// UnmarshalYAML reads a two element sequence.
func (t *TilePos) UnmarshalYAML(value *yaml.Node) error {
	var xy []int
	if err := value.Decode(&xy); err != nil {
		return err
	}
	return t.set(xy)
}

// MarshalJSON writes the tile as a two element array.
func (t TilePos) MarshalJSON() ([]byte, error) {
	return json.Marshal([]int{int(t.X), int(t.Y)})
}

// UnmarshalJSON reads a two element array.
func (t *TilePos) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	return t.set(xy)
}

func (t *TilePos) set(xy []int) error {
	if len(xy) != 2 {
		return fmt.Errorf("pnr: tile needs 2 coordinates, got %d", len(xy))
	}
	for _, v := range xy {
		if v < 0 || v > 255 {
			return fmt.Errorf("pnr: tile coordinate %d out of range", v)
		}
	}
	t.X, t.Y = uint8(xy[0]), uint8(xy[1])
	return nil
}

func (p PinSpot) MarshalYAML() (interface{}, error) { return pinDoc(p), nil }
func (p PinSpot) MarshalJSON() ([]byte, error)     { return json.Marshal(pinDoc(p)) }

func (p *PinSpot) UnmarshalYAML(value *yaml.Node) error {
	var d spotDoc
	if err := value.Decode(&d); err != nil {
		return err
	}
	return p.fromDoc(d)
}

func (p *PinSpot) UnmarshalJSON(data []byte) error {
	var d spotDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	return p.fromDoc(d)
}

func (p *PinSpot) fromDoc(d spotDoc) error {
	if d.Type != "" && d.Type != "Pin" {
		return fmt.Errorf("pnr: expected Pin spot, got %q", d.Type)
	}
	pin, err := d.pin()
	if err != nil {
		return err
	}
	*p = pin
	return nil
}

func (o OutputSpot) MarshalYAML() (interface{}, error) { return o.doc(), nil }
func (o OutputSpot) MarshalJSON() ([]byte, error)     { return json.Marshal(o.doc()) }

func (o *OutputSpot) UnmarshalYAML(value *yaml.Node) error {
	var d spotDoc
	if err := value.Decode(&d); err != nil {
		return err
	}
	spot, err := d.output()
	if err != nil {
		return err
	}
	*o = spot
	return nil
}

func (o *OutputSpot) UnmarshalJSON(data []byte) error {
	var d spotDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	spot, err := d.output()
	if err != nil {
		return err
	}
	*o = spot
	return nil
}

func (i InputSpot) MarshalYAML() (interface{}, error) { return i.doc(), nil }
func (i InputSpot) MarshalJSON() ([]byte, error)     { return json.Marshal(i.doc()) }

func (i *InputSpot) UnmarshalYAML(value *yaml.Node) error {
	var d spotDoc
	if err := value.Decode(&d); err != nil {
		return err
	}
	spot, err := d.input()
	if err != nil {
		return err
	}
	*i = spot
	return nil
}

func (i *InputSpot) UnmarshalJSON(data []byte) error {
	var d spotDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	spot, err := d.input()
	if err != nil {
		return err
	}
	*i = spot
	return nil
}

// WriteYAML serializes the problem as YAML.
func WriteYAML(w io.Writer, p *Problem) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("pnr: marshal yaml: %w", err)
	}
	return enc.Close()
}

// WriteJSON serializes the problem as indented JSON.
func WriteJSON(w io.Writer, p *Problem) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("pnr: marshal json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Decode reads a problem written by WriteYAML or WriteJSON.
func Decode(r io.Reader) (*Problem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pnr: read: %w", err)
	}
	p := NewProblem()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("pnr: decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
