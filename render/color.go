package render

import "github.com/gdamore/tcell/v2"

// clamp converts float to a channel value
func clamp(v float64) int32 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return int32(v)
}

// Blend mixes src over c with the given alpha
func Blend(c, src tcell.Color, alpha float64) tcell.Color {
	if alpha >= 1.0 {
		return src
	}
	if alpha <= 0.0 {
		return c
	}
	inv := 1.0 - alpha
	cr, cg, cb := c.RGB()
	sr, sg, sb := src.RGB()
	return tcell.NewRGBColor(
		clamp(float64(sr)*alpha+float64(cr)*inv),
		clamp(float64(sg)*alpha+float64(cg)*inv),
		clamp(float64(sb)*alpha+float64(cb)*inv),
	)
}

// Scale multiplies each channel by factor, clamping at 255
func Scale(c tcell.Color, factor float64) tcell.Color {
	r, g, b := c.RGB()
	return tcell.NewRGBColor(
		clamp(float64(r)*factor),
		clamp(float64(g)*factor),
		clamp(float64(b)*factor),
	)
}
