package pnr

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func clockDomain(v uint32) *uint32 { return &v }

func sampleProblem() *Problem {
	clock := PinSpot{Tile: TilePos{X: 19, Y: 0}, Which: 1}
	led := PinSpot{Tile: TilePos{X: 6, Y: 31}, Which: 0}
	return &Problem{
		UsedIOs: []UsedIO{
			{Spot: clock, IsOutput: false},
			{Spot: led, IsOutput: true},
		},
		Lut4s: []Lut4{
			{Table: 0x5555},
			{Table: 0b10, ClockDomain: clockDomain(7)},
		},
		Wires: []Wire{
			{From: PinOutput(clock), To: LutInput(0, 2)},
			{From: LutOutput(0), To: LutInput(1, 0)},
		},
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, sampleProblem()); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"used_ios:",
		"lut4s:",
		"wires:",
		"type: Pin",
		"type: Lut",
		"which: 1",
		"is_output: true",
		"table: 21845",
		"clock_domain: null",
		"clock_domain: 7",
		"lut_index: 0",
		"input_index: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleProblem()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`"tile": [`,
		`"type": "Pin"`,
		`"clock_domain": null`,
		`"clock_domain": 7`,
		`"input_index": 2`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("json output missing %q:\n%s", want, out)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	want := sampleProblem()

	var yamlBuf, jsonBuf bytes.Buffer
	if err := WriteYAML(&yamlBuf, want); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}
	if err := WriteJSON(&jsonBuf, want); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	for name, buf := range map[string]*bytes.Buffer{"yaml": &yamlBuf, "json": &jsonBuf} {
		got, err := Decode(buf)
		if err != nil {
			t.Fatalf("%s: Decode failed: %v", name, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s: round trip mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestJSONUnmarshal(t *testing.T) {
	want := sampleProblem()
	want.Wires = append(want.Wires, Wire{
		From: LutOutput(1),
		To:   InputSpot{Kind: SpotGlobalNetIngress, Tile: TilePos{X: 12, Y: 0}},
	})

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	got := &Problem{}
	if err := json.Unmarshal(data, got); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("json round trip mismatch (-want +got):\n%s", diff)
	}

	bad := []string{
		`{"used_ios": [{"spot": {"type": "Lut", "lut_index": 0}, "is_output": false}]}`,
		`{"wires": [{"from": {"type": "Carry"}, "to": {"type": "Lut", "lut_index": 0, "input_index": 0}}]}`,
		`{"wires": [{"from": {"type": "Lut", "lut_index": 0}, "to": {"type": "GlobalNetIngress"}}]}`,
		`{"used_ios": [{"spot": {"type": "Pin", "tile": [1], "which": 0}, "is_output": true}]}`,
	}
	for _, doc := range bad {
		if err := json.Unmarshal([]byte(doc), &Problem{}); err == nil {
			t.Errorf("expected error for %s", doc)
		}
	}
}

func TestDecodeGlobalNetIngress(t *testing.T) {
	doc := `
used_ios: []
lut4s:
- table: 2
  clock_domain: 0
wires:
- from: {type: Lut, lut_index: 0}
  to: {type: GlobalNetIngress, tile: [12, 0]}
`
	p, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	to := p.Wires[0].To
	if to.Kind != SpotGlobalNetIngress || to.Tile != (TilePos{X: 12, Y: 0}) {
		t.Errorf("unexpected destination: %+v", to)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown spot type",
			doc: `wires:
- from: {type: Carry, lut_index: 0}
  to: {type: Lut, lut_index: 0, input_index: 0}
lut4s: [{table: 1}]`,
		},
		{
			name: "tile with three coordinates",
			doc:  `used_ios: [{spot: {type: Pin, tile: [1, 2, 3], which: 0}, is_output: false}]`,
		},
		{
			name: "tile out of range",
			doc:  `used_ios: [{spot: {type: Pin, tile: [256, 2], which: 0}, is_output: false}]`,
		},
		{
			name: "missing input index",
			doc: `lut4s: [{table: 1}]
wires: [{from: {type: Lut, lut_index: 0}, to: {type: Lut, lut_index: 0}}]`,
		},
		{
			name: "lut index out of range",
			doc: `lut4s: [{table: 1}]
wires: [{from: {type: Lut, lut_index: 3}, to: {type: Lut, lut_index: 0, input_index: 1}}]`,
		},
		{
			name: "table too wide",
			doc:  `lut4s: [{table: 65536}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.doc)); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestValidateInputIndex(t *testing.T) {
	p := sampleProblem()
	p.Wires[1].To.InputIndex = 4
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for input index 4")
	}
}

func TestFlipFlopCount(t *testing.T) {
	if got := sampleProblem().FlipFlopCount(); got != 1 {
		t.Errorf("expected 1 flip-flop, got %d", got)
	}
}

func TestDot(t *testing.T) {
	var buf bytes.Buffer
	sampleProblem().Dot(&buf)
	out := buf.String()

	if !strings.HasPrefix(out, "digraph pnr") {
		t.Errorf("unexpected dot header: %q", out)
	}
	for _, want := range []string{
		"p19_0_1 -> l0\t[label=\"I2\"];",
		"l0 -> l1\t[label=\"I0\"];",
		"LUT0\\n0x5555",
		"FF1\\nclk=7",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	sampleProblem().Report(&buf)
	out := buf.String()

	for _, want := range []string{"LUT4s", "Wires", "I/Os"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
