package render

import "github.com/gdamore/tcell/v2"

// Text writes s left to right from (x, y), one rune per column.
// Returns the column after the last rune
func (f *Frame) Text(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		f.Set(x, y, r, style)
		x++
	}
	return x
}

// VLine fills column x from y0 to y1 inclusive
func (f *Frame) VLine(x, y0, y1 int, r rune, style tcell.Style) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 >= f.height {
		y1 = f.height - 1
	}
	for y := y0; y <= y1; y++ {
		f.Set(x, y, r, style)
	}
}

// Fill paints a w by h rectangle anchored at (x, y)
func (f *Frame) Fill(x, y, w, h int, r rune, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			f.Set(col, row, r, style)
		}
	}
}

// Line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
// Steep lines are walked along y so no gaps appear
func (f *Frame) Line(x0, y0, x1, y1 int, r rune, style tcell.Style) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	err := dx / 2
	ystep := 1
	if y0 > y1 {
		ystep = -1
	}

	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			f.Set(y, x, r, style)
		} else {
			f.Set(x, y, r, style)
		}
		err -= dy
		if err < 0 {
			y += ystep
			err += dx
		}
	}
}

// Dot marks (x, y) with a plus-shaped cross of the given radius
func (f *Frame) Dot(x, y, radius int, r rune, style tcell.Style) {
	if radius <= 0 {
		f.Set(x, y, r, style)
		return
	}
	f.Line(x-radius, y, x+radius, y, r, style)
	f.Line(x, y-radius, x, y+radius, r, style)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
