package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/termcast/vmath"
)

// Document is the on-disk map format
type Document struct {
	Name     string         `yaml:"name,omitempty" json:"name,omitempty" jsonschema:"title=Map name,description=Shown in the debug line and spectator feed"`
	CellSize float64        `yaml:"cell_size,omitempty" json:"cell_size,omitempty" jsonschema:"title=Cell size,description=World units spanned by one grid cell (default 25)"`
	Rows     []string       `yaml:"rows" json:"rows" jsonschema:"required,title=Rows,description=Grid rows of equal length. '#' or 1-9 wall; '.' or space or 0 floor; '@' floor holding the spawn,minItems=1"`
	Spawn    *SpawnDocument `yaml:"spawn,omitempty" json:"spawn,omitempty" jsonschema:"title=Spawn,description=Overrides the '@' position or heading"`
}

// SpawnDocument overrides spawn fields; nil fields keep the row-derived value
type SpawnDocument struct {
	X      *float64 `yaml:"x,omitempty" json:"x,omitempty" jsonschema:"description=World X of the spawn"`
	Y      *float64 `yaml:"y,omitempty" json:"y,omitempty" jsonschema:"description=World Y of the spawn"`
	YawDeg *float64 `yaml:"yaw_deg,omitempty" json:"yaw_deg,omitempty" jsonschema:"description=Heading in degrees; 0 faces up the grid and grows clockwise"`
}

// LoadFile reads and parses a YAML map file
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world: load %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("world: %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a YAML map document
func Parse(data []byte) (*Map, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("world: unmarshal: %w", err)
	}
	return doc.Map()
}

// Map converts the document into a validated map
func (d *Document) Map() (*Map, error) {
	cell := d.CellSize
	if cell == 0 {
		cell = DefaultCellSize
	}
	if cell < 0 {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidMap, cell)
	}

	m, err := fromRows(d.Name, d.Rows, cell)
	if err != nil {
		return nil, err
	}

	if s := d.Spawn; s != nil {
		if s.X != nil {
			m.Spawn.X = *s.X
		}
		if s.Y != nil {
			m.Spawn.Y = *s.Y
		}
		if s.YawDeg != nil {
			m.Spawn.Yaw = vmath.NormalizeAngle(vmath.Radians(*s.YawDeg))
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Encode writes a map in the Document format
func Encode(m *Map) ([]byte, error) {
	rows := make([]string, m.Height)
	var sb strings.Builder
	for y := 0; y < m.Height; y++ {
		sb.Reset()
		for x := 0; x < m.Width; x++ {
			sb.WriteByte(tileGlyph(m.At(x, y)))
		}
		rows[y] = sb.String()
	}

	x, y := m.Spawn.X, m.Spawn.Y
	yaw := vmath.Degrees(m.Spawn.Yaw)
	doc := Document{
		Name:     m.Name,
		CellSize: m.CellSize,
		Rows:     rows,
		Spawn:    &SpawnDocument{X: &x, Y: &y, YawDeg: &yaw},
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("world: marshal: %w", err)
	}
	return data, nil
}

func fromRows(name string, rows []string, cellSize float64) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidMap)
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty first row", ErrInvalidMap)
	}

	m := NewMap(width, len(rows), cellSize)
	m.Name = name
	spawnSet := false

	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidMap, y, len(row), width)
		}
		for x := 0; x < len(row); x++ {
			c := row[x]
			if c == '@' {
				if spawnSet {
					return nil, fmt.Errorf("%w: second spawn at row %d col %d", ErrInvalidMap, y, x)
				}
				center := m.CellCenter(x, y)
				m.Spawn = Spawn{X: center.X, Y: center.Y}
				spawnSet = true
				continue
			}
			t, ok := glyphTile(c)
			if !ok {
				return nil, fmt.Errorf("%w: unknown glyph %q at row %d col %d", ErrInvalidMap, c, y, x)
			}
			m.Tiles[y*width+x] = t
		}
	}

	if !spawnSet {
		cx, cy, ok := m.FirstOpen()
		if !ok {
			return nil, ErrNoSpawn
		}
		center := m.CellCenter(cx, cy)
		m.Spawn = Spawn{X: center.X, Y: center.Y}
	}
	return m, nil
}

func glyphTile(c byte) (Tile, bool) {
	switch {
	case c == '.' || c == ' ' || c == '0':
		return Empty, true
	case c == '#':
		return Wall, true
	case c >= '1' && c <= '9':
		return Tile(c - '0'), true
	}
	return Empty, false
}

func tileGlyph(t Tile) byte {
	switch {
	case t == Empty:
		return '.'
	case t == Wall:
		return '#'
	default:
		return '0' + byte(t)
	}
}
