package raycast

import (
	"math"
	"testing"

	"github.com/lixenwraith/termcast/vmath"
	"github.com/lixenwraith/termcast/world"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// angleOff returns the signed offset of b from a in (-π, π]
func angleOff(a, b float64) float64 {
	d := vmath.NormalizeAngle(b - a)
	if d > math.Pi {
		d -= vmath.TwoPi
	}
	return d
}

func TestCastNorthFromDefaultSpawn(t *testing.T) {
	m := world.Default()
	origin := vmath.Vec2{X: 50, Y: 70}

	h := Cast(m, origin, 0, 15)
	if !h.Wall {
		t.Fatal("Expected wall hit")
	}
	if h.Axis != AxisY {
		t.Errorf("Expected AxisY, got %v", h.Axis)
	}
	if !near(h.Point.Y, 25) || !near(h.Point.X, 50) {
		t.Errorf("Expected hit at (50,25), got %+v", h.Point)
	}
	if !near(h.Distance, 45) {
		t.Errorf("Expected distance 45, got %v", h.Distance)
	}
	if h.CellX != 2 || h.CellY != 0 || h.Tile != world.Wall {
		t.Errorf("Expected wall cell (2,0), got (%d,%d) tile %d", h.CellX, h.CellY, h.Tile)
	}
	if h.Steps != 2 {
		t.Errorf("Expected 2 boundary crossings, got %d", h.Steps)
	}
}

func TestCastEastHitsVerticalFace(t *testing.T) {
	m := world.Default()
	// Row 1 is open from x=1 to x=8, wall at column 9
	origin := m.CellCenter(1, 1)

	h := Cast(m, origin, vmath.HalfPi, 15)
	if !h.Wall || h.Axis != AxisX {
		t.Fatalf("Expected AxisX wall hit, got %+v", h)
	}
	if !near(h.Point.X, 225) {
		t.Errorf("Expected x=225, got %v", h.Point.X)
	}
	if h.CellX != 9 || h.CellY != 1 {
		t.Errorf("Expected cell (9,1), got (%d,%d)", h.CellX, h.CellY)
	}
}

func TestCastSouthAndWestSigns(t *testing.T) {
	m := world.Default()
	origin := m.CellCenter(1, 1)

	south := Cast(m, origin, math.Pi, 15)
	if !south.Wall || south.Axis != AxisY || south.CellY != 9 {
		t.Errorf("South ray: %+v", south)
	}
	if !near(south.Point.Y, 225) {
		t.Errorf("Expected south hit at y=225, got %v", south.Point.Y)
	}

	west := Cast(m, origin, 3*vmath.HalfPi, 15)
	if !west.Wall || west.Axis != AxisX || west.CellX != 0 {
		t.Errorf("West ray: %+v", west)
	}
	if !near(west.Distance, 12.5) {
		t.Errorf("Expected west distance 12.5, got %v", west.Distance)
	}
}

func TestCastVisibilityLimit(t *testing.T) {
	m := world.Default()
	origin := m.CellCenter(1, 1)

	h := Cast(m, origin, vmath.HalfPi, 1)
	if h.Wall {
		t.Fatal("Expected no wall within one cell")
	}
	if h.Steps != 1 {
		t.Errorf("Expected 1 step, got %d", h.Steps)
	}
	if !near(h.Distance, 12.5) {
		t.Errorf("Expected ray to stop at first boundary (12.5), got %v", h.Distance)
	}

	zero := Cast(m, origin, 0, 0)
	if zero.Wall || zero.Distance != 0 || zero.Point != origin {
		t.Errorf("Expected empty hit for zero budget, got %+v", zero)
	}
}

func TestCastFromInsideWall(t *testing.T) {
	m := world.Default()
	h := Cast(m, vmath.Vec2{X: 5, Y: 5}, 1, 15)
	if !h.Wall || h.Distance != 0 || h.CellX != 0 || h.CellY != 0 {
		t.Errorf("Expected zero-distance hit on own cell, got %+v", h)
	}
}

func TestCastDiagonal(t *testing.T) {
	m := world.NewMap(4, 4, 10)
	for i := 0; i < 4; i++ {
		m.Set(i, 0, world.Wall)
		m.Set(i, 3, world.Wall)
		m.Set(0, i, world.Wall)
		m.Set(3, i, world.Wall)
	}
	origin := vmath.Vec2{X: 15, Y: 25}
	// Heading north-east at 45 degrees
	h := Cast(m, origin, math.Pi/4, 10)
	if !h.Wall {
		t.Fatal("Expected wall")
	}
	if !m.Solid(h.Point.Add(vmath.Dir(math.Pi / 4).Scale(1e-6))) {
		t.Errorf("Point just past hit %+v should be solid", h.Point)
	}
	if !near(h.Distance, origin.Dist(h.Point)) {
		t.Errorf("Distance %v disagrees with point distance %v", h.Distance, origin.Dist(h.Point))
	}
}

func TestFanSpreadAndFisheye(t *testing.T) {
	m := world.Default()
	origin := m.CellCenter(4, 4)
	yaw := 0.0
	fov := vmath.Radians(90)

	hits := make([]Hit, 9)
	Fan(m, origin, yaw, fov, 15, hits)

	for i, h := range hits {
		if !h.Wall {
			t.Errorf("Ray %d found no wall in enclosed room", i)
		}
		if h.Perpendicular > h.Distance+1e-9 {
			t.Errorf("Ray %d perpendicular %v exceeds distance %v", i, h.Perpendicular, h.Distance)
		}
		if want := h.Distance * math.Cos(angleOff(yaw, h.Angle)); !near(h.Perpendicular, want) {
			t.Errorf("Ray %d perpendicular %v, want %v", i, h.Perpendicular, want)
		}
	}

	center := hits[4]
	if !near(angleOff(yaw, center.Angle), 0) {
		t.Errorf("Middle ray angle %v, want yaw", center.Angle)
	}
	if !near(center.Perpendicular, center.Distance) {
		t.Error("Center ray should need no fisheye correction")
	}

	first := angleOff(yaw, hits[0].Angle)
	last := angleOff(yaw, hits[8].Angle)
	if !near(first, -last) || first >= 0 {
		t.Errorf("Fan not symmetric: first %v last %v", first, last)
	}
	if !near(last-first, fov*8/9) {
		t.Errorf("Fan spans %v, want %v", last-first, fov*8/9)
	}

	// Empty destination is a no-op
	Fan(m, origin, yaw, fov, 15, nil)
}

func TestAxisString(t *testing.T) {
	if AxisX.String() != "x" || AxisY.String() != "y" {
		t.Error("Axis names")
	}
}
