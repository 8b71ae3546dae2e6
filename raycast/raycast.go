// Package raycast finds the first wall a ray meets on a world.Map using a
// grid DDA: the ray advances boundary to boundary, one cell per step.
package raycast

import (
	"math"

	"github.com/lixenwraith/termcast/vmath"
	"github.com/lixenwraith/termcast/world"
)

// Axis identifies which family of grid lines the ray crossed into the wall
type Axis uint8

const (
	// AxisX: crossed a vertical grid line, the face is east or west
	AxisX Axis = iota
	// AxisY: crossed a horizontal grid line, the face is north or south
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Hit is the result of a single ray
type Hit struct {
	Point vmath.Vec2
	Angle float64

	// Distance is Euclidean from the origin; Perpendicular is projected on
	// the view direction when produced by Fan
	Distance      float64
	Perpendicular float64

	Axis         Axis
	CellX, CellY int
	Tile         world.Tile
	Steps        int

	// Wall is false when the visibility limit ran out first
	Wall bool
}

// Cast traces from origin along angle, crossing at most maxCells cell boundaries
func Cast(m *world.Map, origin vmath.Vec2, angle float64, maxCells int) Hit {
	cs := m.CellSize
	dir := vmath.Dir(angle)
	cx, cy := m.CellOf(origin)

	hit := Hit{Point: origin, Angle: angle, CellX: cx, CellY: cy}

	if t := m.At(cx, cy); t.Solid() {
		hit.Tile = t
		hit.Wall = true
		return hit
	}
	if maxCells <= 0 {
		return hit
	}

	// Ray parameter t is measured in cells along a unit direction
	px, py := origin.X/cs, origin.Y/cs

	stepX, deltaX, sideX := axisSetup(px, cx, dir.X)
	stepY, deltaY, sideY := axisSetup(py, cy, dir.Y)

	var t float64
	var axis Axis
	for step := 1; step <= maxCells; step++ {
		if sideX < sideY {
			t = sideX
			sideX += deltaX
			cx += stepX
			axis = AxisX
		} else {
			t = sideY
			sideY += deltaY
			cy += stepY
			axis = AxisY
		}

		hit.Steps = step
		hit.Axis = axis
		hit.CellX, hit.CellY = cx, cy

		if tile := m.At(cx, cy); tile.Solid() {
			hit.Tile = tile
			hit.Wall = true
			break
		}
	}

	hit.Distance = t * cs
	hit.Perpendicular = hit.Distance
	hit.Point = origin.Add(dir.Scale(hit.Distance))
	return hit
}

// axisSetup returns step direction, parameter delta per cell and the
// parameter at the first boundary for one axis
func axisSetup(p float64, cell int, d float64) (int, float64, float64) {
	if d == 0 || math.Abs(d) < 1e-12 {
		return 0, math.Inf(1), math.Inf(1)
	}
	delta := math.Abs(1 / d)
	if d > 0 {
		return 1, delta, (float64(cell) + 1 - p) * delta
	}
	return -1, delta, (p - float64(cell)) * delta
}

// Fan fills dst with rays spread evenly across fov centered on yaw.
// Each slot samples the center of its angular span
func Fan(m *world.Map, origin vmath.Vec2, yaw, fov float64, maxCells int, dst []Hit) {
	n := len(dst)
	if n == 0 {
		return
	}
	view := vmath.Dir(yaw)
	start := yaw - fov/2
	span := fov / float64(n)
	for i := range dst {
		angle := start + span*(float64(i)+0.5)
		h := Cast(m, origin, vmath.NormalizeAngle(angle), maxCells)
		// Projection on the view axis removes fisheye
		h.Perpendicular = h.Point.Sub(origin).Dot(view)
		dst[i] = h
	}
}
