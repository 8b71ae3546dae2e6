package vmath

import "math"

// Vec2 is a point or direction in world space
type Vec2 struct {
	X, Y float64
}

// Dir returns the unit heading for a yaw angle
func Dir(angle float64) Vec2 {
	return Vec2{X: math.Sin(angle), Y: -math.Cos(angle)}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the scalar product
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len returns the Euclidean length
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between two points
func (v Vec2) Dist(o Vec2) float64 { return o.Sub(v).Len() }

// Floor returns the integer cell containing v for a given cell size
func (v Vec2) Floor(cell float64) (int, int) {
	return int(math.Floor(v.X / cell)), int(math.Floor(v.Y / cell))
}
