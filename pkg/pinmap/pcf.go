package pinmap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pnr"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// PCFLexer tokenizes physical constraint files. Only tile-addressed
// set_io commands are understood:
//
//	set_io [-nowarn] <port> <tile-x> <tile-y> <which>
var PCFLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Flag", Pattern: `-[A-Za-z_]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_$][A-Za-z0-9_\[\]\.$]*`},
})

// PCFFile is the parsed form of a constraints file.
type PCFFile struct {
	Commands []*SetIO `parser:"@@*"`
}

// SetIO binds one port to a pin.
type SetIO struct {
	Pos lexer.Position

	Flags []string `parser:"\"set_io\" @Flag*"`
	Port  string   `parser:"@Ident"`
	X     int      `parser:"@Int"`
	Y     int      `parser:"@Int"`
	Which int      `parser:"@Int"`
}

var pcfParser = participle.MustBuild[PCFFile](
	participle.Lexer(PCFLexer),
	participle.Elide("Comment", "Whitespace"),
)

// ParsePCF reads a pin table from a constraints file.
func ParsePCF(r io.Reader) (*Table, error) {
	file, err := pcfParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("pinmap: parse error: %w", err)
	}
	return file.Table()
}

// Table converts the parsed commands into a pin table.
func (f *PCFFile) Table() (*Table, error) {
	t, _ := NewTable()
	for _, cmd := range f.Commands {
		for _, v := range []int{cmd.X, cmd.Y, cmd.Which} {
			if v > 255 {
				return nil, fmt.Errorf("pinmap: %s: coordinate %d out of range", cmd.Pos, v)
			}
		}
		err := t.add(Entry{
			Port: cmd.Port,
			Kind: KindPin,
			Spot: pnr.PinSpot{
				Tile:  pnr.TilePos{X: uint8(cmd.X), Y: uint8(cmd.Y)},
				Which: uint8(cmd.Which),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w (at %s)", err, cmd.Pos)
		}
	}
	return t, nil
}

// LoadPCF reads a constraints file from disk.
func LoadPCF(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pinmap: %w", err)
	}
	defer f.Close()

	return ParsePCF(f)
}

// Load reads a pin table, choosing the format by file extension. An empty
// path returns the default table.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcf":
		return LoadPCF(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("pinmap: unknown pin file format %q", filepath.Ext(path))
	}
}
