// Package player holds the camera actor: its pose and how it moves
package player

import (
	"math"

	"github.com/lixenwraith/termcast/vmath"
	"github.com/lixenwraith/termcast/world"
)

// Direction is a movement heading relative to the current yaw
type Direction uint8

const (
	Forward Direction = iota
	StrafeRight
	Backward
	StrafeLeft
)

// offset returns the yaw offset for a movement direction
func (d Direction) offset() float64 {
	switch d {
	case StrafeRight:
		return vmath.HalfPi
	case Backward:
		return math.Pi
	case StrafeLeft:
		return math.Pi + vmath.HalfPi
	default:
		return 0
	}
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case StrafeRight:
		return "strafe_right"
	case Backward:
		return "backward"
	case StrafeLeft:
		return "strafe_left"
	}
	return "unknown"
}

// Defaults for a player not configured otherwise
const (
	DefaultMoveSpeed = 2.5
	DefaultTurnSpeed = 0.1
	DefaultRadius    = 4.0
)

// Pose is a position and heading snapshot
type Pose struct {
	X, Y float64
	Yaw  float64
}

// MoveResult reports what a move did
type MoveResult struct {
	Moved  bool
	Bumped bool
}

// Player is the camera entity
type Player struct {
	Pos       vmath.Vec2
	Yaw       float64
	MoveSpeed float64
	TurnSpeed float64

	// Radius is the clearance kept from solid cells
	Radius float64
}

// New creates a player at the map spawn
func New(m *world.Map) *Player {
	p := &Player{
		MoveSpeed: DefaultMoveSpeed,
		TurnSpeed: DefaultTurnSpeed,
		Radius:    DefaultRadius,
	}
	p.Respawn(m)
	return p
}

// Respawn moves the player to the map spawn
func (p *Player) Respawn(m *world.Map) {
	p.Pos = vmath.Vec2{X: m.Spawn.X, Y: m.Spawn.Y}
	p.Yaw = vmath.NormalizeAngle(m.Spawn.Yaw)
}

// Pose returns the current pose
func (p *Player) Pose() Pose {
	return Pose{X: p.Pos.X, Y: p.Pos.Y, Yaw: p.Yaw}
}

// Turn rotates by sign * TurnSpeed. Positive turns clockwise (right)
func (p *Player) Turn(sign float64) {
	p.Yaw = vmath.NormalizeAngle(p.Yaw + sign*p.TurnSpeed)
}

// Move steps MoveSpeed world units in a direction relative to yaw.
// The step is split so no piece is longer than the clearance, and a blocked
// piece slides along whichever axis is free
func (p *Player) Move(m *world.Map, dir Direction) MoveResult {
	heading := vmath.NormalizeAngle(p.Yaw + dir.offset())
	delta := vmath.Dir(heading).Scale(p.MoveSpeed)

	n := int(math.Ceil(p.MoveSpeed / p.maxStep(m)))
	if n < 1 {
		n = 1
	}
	step := delta.Scale(1 / float64(n))

	var res MoveResult
	for i := 0; i < n; i++ {
		moved, slid := p.step(m, step)
		if !moved {
			res.Bumped = true
			break
		}
		res.Moved = true
		if slid {
			res.Bumped = true
		}
	}
	return res
}

// maxStep is the longest sub-step that cannot skip a solid cell
func (p *Player) maxStep(m *world.Map) float64 {
	limit := m.CellSize / 2
	if p.Radius > 0 && p.Radius < limit {
		limit = p.Radius
	}
	return limit
}

// step tries one sub-step, then each axis alone
func (p *Player) step(m *world.Map, delta vmath.Vec2) (moved, slid bool) {
	candidates := [3]vmath.Vec2{
		p.Pos.Add(delta),
		{X: p.Pos.X + delta.X, Y: p.Pos.Y},
		{X: p.Pos.X, Y: p.Pos.Y + delta.Y},
	}
	for i, c := range candidates {
		// Axis slides only count when they actually move
		if i > 0 && c.Dist(p.Pos) < vmath.Epsilon {
			continue
		}
		if p.Fits(m, c) {
			p.Pos = c
			return true, i > 0
		}
	}
	return false, false
}

// Fits reports whether a circle of Radius at pos overlaps no solid cell
func (p *Player) Fits(m *world.Map, pos vmath.Vec2) bool {
	r := p.Radius
	if r <= 0 {
		return !m.Solid(pos)
	}
	cs := m.CellSize
	minX := int(math.Floor((pos.X - r) / cs))
	maxX := int(math.Floor((pos.X + r) / cs))
	minY := int(math.Floor((pos.Y - r) / cs))
	maxY := int(math.Floor((pos.Y + r) / cs))

	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			if !m.At(cx, cy).Solid() {
				continue
			}
			// Closest point of the cell rectangle to the circle center
			nx := vmath.Clamp(pos.X, float64(cx)*cs, float64(cx+1)*cs)
			ny := vmath.Clamp(pos.Y, float64(cy)*cs, float64(cy+1)*cs)
			dx, dy := pos.X-nx, pos.Y-ny
			if dx*dx+dy*dy < r*r {
				return false
			}
		}
	}
	return true
}
