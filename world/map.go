// Package world holds the tile grid the camera moves through and the
// loaders that build it: YAML map files, maze generation and Tengo scripts.
package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/termcast/vmath"
)

// Tile is a grid cell value. Zero is open floor, 1-9 are wall variants
type Tile uint8

const (
	Empty Tile = 0
	Wall  Tile = 1

	// MaxVariant is the highest wall variant a map may use
	MaxVariant Tile = 9
)

// Solid reports whether the tile blocks movement and sight
func (t Tile) Solid() bool { return t != Empty }

var (
	ErrNoSpawn     = errors.New("world: no open cell for spawn")
	ErrInvalidMap  = errors.New("world: invalid map")
	ErrSpawnInWall = errors.New("world: spawn inside wall")
)

// Spawn is the initial camera pose in world units
type Spawn struct {
	X, Y float64
	Yaw  float64
}

// Map is a row-major tile grid. Each cell spans CellSize world units
type Map struct {
	Name     string
	Width    int
	Height   int
	CellSize float64
	Tiles    []Tile
	Spawn    Spawn
}

// NewMap allocates an empty map of the given dimensions
func NewMap(width, height int, cellSize float64) *Map {
	return &Map{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		Tiles:    make([]Tile, width*height),
	}
}

// At returns the tile at cell (cx, cy). Cells outside the grid read as Wall
func (m *Map) At(cx, cy int) Tile {
	if cx < 0 || cy < 0 || cx >= m.Width || cy >= m.Height {
		return Wall
	}
	return m.Tiles[cy*m.Width+cx]
}

// Set writes a tile; out of range writes are ignored
func (m *Map) Set(cx, cy int, t Tile) {
	if cx < 0 || cy < 0 || cx >= m.Width || cy >= m.Height {
		return
	}
	m.Tiles[cy*m.Width+cx] = t
}

// CellOf returns the cell containing a world position
func (m *Map) CellOf(p vmath.Vec2) (int, int) {
	return p.Floor(m.CellSize)
}

// Solid reports whether the world position lies in a solid cell
func (m *Map) Solid(p vmath.Vec2) bool {
	cx, cy := m.CellOf(p)
	return m.At(cx, cy).Solid()
}

// Bounds returns world-space extents
func (m *Map) Bounds() (float64, float64) {
	return float64(m.Width) * m.CellSize, float64(m.Height) * m.CellSize
}

// CellCenter returns the world position at the middle of a cell
func (m *Map) CellCenter(cx, cy int) vmath.Vec2 {
	return vmath.Vec2{
		X: (float64(cx) + 0.5) * m.CellSize,
		Y: (float64(cy) + 0.5) * m.CellSize,
	}
}

// FirstOpen returns the first empty cell in row-major order
func (m *Map) FirstOpen() (int, int, bool) {
	for i, t := range m.Tiles {
		if !t.Solid() {
			return i % m.Width, i / m.Width, true
		}
	}
	return 0, 0, false
}

// Validate checks structural consistency and that the spawn is usable
func (m *Map) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidMap, m.Width, m.Height)
	}
	if m.CellSize <= 0 || math.IsNaN(m.CellSize) || math.IsInf(m.CellSize, 0) {
		return fmt.Errorf("%w: cell size %v", ErrInvalidMap, m.CellSize)
	}
	if len(m.Tiles) != m.Width*m.Height {
		return fmt.Errorf("%w: %d tiles for %dx%d grid", ErrInvalidMap, len(m.Tiles), m.Width, m.Height)
	}
	for i, t := range m.Tiles {
		if t > MaxVariant {
			return fmt.Errorf("%w: tile %d at (%d,%d)", ErrInvalidMap, t, i%m.Width, i/m.Width)
		}
	}
	w, h := m.Bounds()
	s := m.Spawn
	if s.X < 0 || s.Y < 0 || s.X >= w || s.Y >= h {
		return fmt.Errorf("%w: spawn (%.2f, %.2f) outside %.0fx%.0f", ErrInvalidMap, s.X, s.Y, w, h)
	}
	if m.Solid(vmath.Vec2{X: s.X, Y: s.Y}) {
		return fmt.Errorf("%w: (%.2f, %.2f)", ErrSpawnInWall, s.X, s.Y)
	}
	return nil
}

// Reachable counts open cells connected to (cx, cy) through orthogonal moves
func (m *Map) Reachable(cx, cy int) int {
	if m.At(cx, cy).Solid() {
		return 0
	}
	visited := make([]bool, len(m.Tiles))
	queue := []int{cy*m.Width + cx}
	visited[queue[0]] = true
	count := 0

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		count++

		x, y := idx%m.Width, idx/m.Width
		for _, d := range [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			nx, ny := x+d[0], y+d[1]
			if m.At(nx, ny).Solid() {
				continue
			}
			n := ny*m.Width + nx
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return count
}

// defaultRows is the 10x10 courtyard the renderer starts in
var defaultRows = []string{
	"##########",
	"#........#",
	"#..##....#",
	"#........#",
	"#........#",
	"#......#.#",
	"#......###",
	"#......#..",
	"#......#..",
	"########..",
}

const (
	DefaultCellSize = 25.0
	defaultSpawnX   = 50.0
	defaultSpawnY   = 70.0
	defaultYawDeg   = 11.44
)

// Default returns the built-in map
func Default() *Map {
	m, err := fromRows("default", defaultRows, DefaultCellSize)
	if err != nil {
		panic(err)
	}
	m.Spawn = Spawn{X: defaultSpawnX, Y: defaultSpawnY, Yaw: vmath.Radians(defaultYawDeg)}
	return m
}
