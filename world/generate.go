package world

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lixenwraith/termcast/vmath"
)

// GenConfig controls maze generation
type GenConfig struct {
	Width, Height int

	// Braiding: 0.0 (perfect maze, single path) to 1.0 (no dead ends)
	// Plazas (2x2 open) and pillars (isolated walls) are never created
	Braiding float64

	// Variants is the number of wall variants to scatter (1 = plain walls)
	Variants int

	CellSize float64
	Seed     int64 // 0 = time based
}

type point struct{ x, y int }

var (
	carveDirs = [4]point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}
	orthoDirs = [4]point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
)

// Generate builds a maze map. Dimensions round down to odd values, minimum 5
func Generate(cfg GenConfig) (*Map, error) {
	if cfg.Braiding < 0 || cfg.Braiding > 1 {
		return nil, fmt.Errorf("%w: braiding %v outside [0,1]", ErrInvalidMap, cfg.Braiding)
	}
	cols := ensureOdd(cfg.Width)
	rows := ensureOdd(cfg.Height)
	cell := cfg.CellSize
	if cell <= 0 {
		cell = DefaultCellSize
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	m := NewMap(cols, rows, cell)
	m.Name = fmt.Sprintf("maze-%dx%d-%d", cols, rows, seed)
	for i := range m.Tiles {
		m.Tiles[i] = Wall
	}

	carve(m, point{1, 1}, rng)
	if cfg.Braiding > 0 {
		braid(m, cfg.Braiding, rng)
	}
	if cfg.Variants > 1 {
		scatterVariants(m, cfg.Variants, rng)
	}

	center := m.CellCenter(1, 1)
	m.Spawn = Spawn{X: center.X, Y: center.Y, Yaw: openHeading(m, 1, 1)}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := checkConnected(m, 1, 1); err != nil {
		return nil, err
	}
	return m, nil
}

// checkConnected fails when some open cell cannot be walked to from (cx, cy)
func checkConnected(m *Map, cx, cy int) error {
	open := 0
	for _, t := range m.Tiles {
		if !t.Solid() {
			open++
		}
	}
	if got := m.Reachable(cx, cy); got != open {
		return fmt.Errorf("%w: %d of %d open cells reachable from (%d,%d)", ErrInvalidMap, got, open, cx, cy)
	}
	return nil
}

// carve runs an iterative recursive backtracker from start
func carve(m *Map, start point, rng *rand.Rand) {
	stack := []point{start}
	m.Set(start.x, start.y, Empty)
	candidates := make([]point, 0, 4)

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates = candidates[:0]

		for _, d := range carveDirs {
			nx, ny := curr.x+d.x, curr.y+d.y
			// Leave a one cell border of walls
			if nx > 0 && nx < m.Width-1 && ny > 0 && ny < m.Height-1 && m.At(nx, ny) == Wall {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		m.Set(curr.x+d.x/2, curr.y+d.y/2, Empty)
		next := point{curr.x + d.x, curr.y + d.y}
		m.Set(next.x, next.y, Empty)
		stack = append(stack, next)
	}
}

// braid opens walls next to dead ends with the given probability
func braid(m *Map, probability float64, rng *rand.Rand) {
	candidates := make([]point, 0, 4)

	for y := 1; y < m.Height-1; y += 2 {
		for x := 1; x < m.Width-1; x += 2 {
			if m.At(x, y).Solid() {
				continue
			}

			exits := 0
			for _, d := range orthoDirs {
				if !m.At(x+d.x, y+d.y).Solid() {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= probability {
				continue
			}

			candidates = candidates[:0]
			for _, d := range carveDirs {
				nx, ny := x+d.x, y+d.y
				wx, wy := x+d.x/2, y+d.y/2
				if nx <= 0 || ny <= 0 || nx >= m.Width-1 || ny >= m.Height-1 {
					continue
				}
				if !m.At(nx, ny).Solid() && m.At(wx, wy).Solid() && safeToOpen(m, wx, wy) {
					candidates = append(candidates, point{wx, wy})
				}
			}
			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				m.Set(c.x, c.y, Empty)
			}
		}
	}
}

// safeToOpen rejects openings that would create a 2x2 plaza or an isolated pillar
func safeToOpen(m *Map, x, y int) bool {
	open := func(tx, ty int) bool { return !m.At(tx, ty).Solid() }

	if open(x-1, y-1) && open(x, y-1) && open(x-1, y) {
		return false
	}
	if open(x, y-1) && open(x+1, y-1) && open(x+1, y) {
		return false
	}
	if open(x-1, y) && open(x-1, y+1) && open(x, y+1) {
		return false
	}
	if open(x+1, y) && open(x, y+1) && open(x+1, y+1) {
		return false
	}

	for _, d := range orthoDirs {
		nx, ny := x+d.x, y+d.y
		if !m.At(nx, ny).Solid() {
			continue
		}
		links := 0
		for _, d2 := range orthoDirs {
			ax, ay := nx+d2.x, ny+d2.y
			if ax == x && ay == y {
				continue
			}
			if m.At(ax, ay).Solid() {
				links++
			}
		}
		if links == 0 {
			return false
		}
	}
	return true
}

// scatterVariants recolors wall cells with variants 1..n
func scatterVariants(m *Map, n int, rng *rand.Rand) {
	if n > int(MaxVariant) {
		n = int(MaxVariant)
	}
	for i, t := range m.Tiles {
		if t.Solid() {
			m.Tiles[i] = Tile(1 + rng.Intn(n))
		}
	}
}

// openHeading returns a yaw that faces an open neighbor of (cx, cy)
func openHeading(m *Map, cx, cy int) float64 {
	headings := [4]struct {
		d   point
		yaw float64
	}{
		{point{1, 0}, vmath.HalfPi},
		{point{0, 1}, 2 * vmath.HalfPi},
		{point{-1, 0}, 3 * vmath.HalfPi},
		{point{0, -1}, 0},
	}
	for _, h := range headings {
		if !m.At(cx+h.d.x, cy+h.d.y).Solid() {
			return h.yaw
		}
	}
	return 0
}

func ensureOdd(n int) int {
	if n < 5 {
		return 5
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}
