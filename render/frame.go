// Package render composes a frame of terminal cells and presents only the
// cells that changed since the last present.
package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Cell is one terminal character with its style
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Screen is the subset of tcell.Screen a frame is presented to
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

// Frame is a double buffer: renderers write the back buffer, the front
// buffer mirrors what the screen last received
type Frame struct {
	back   []Cell
	front  []Cell
	width  int
	height int

	// full forces every cell to be written on the next Present
	full bool
}

// NewFrame creates a frame with the specified dimensions
func NewFrame(width, height int) *Frame {
	f := &Frame{}
	f.Resize(width, height)
	return f
}

// Size returns the frame dimensions
func (f *Frame) Size() (int, int) {
	return f.width, f.height
}

// Resize adjusts dimensions, reallocates only if capacity insufficient.
// The next Present repaints the whole screen, even when the size is unchanged
func (f *Frame) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == f.width && height == f.height {
		f.Invalidate()
		return
	}
	size := width * height
	if cap(f.back) < size {
		f.back = make([]Cell, size)
		f.front = make([]Cell, size)
	} else {
		f.back = f.back[:size]
		f.front = f.front[:size]
	}
	f.width = width
	f.height = height
	f.Clear(tcell.StyleDefault)
	f.Invalidate()
}

// Invalidate forces a full repaint, used after the terminal lost its contents
func (f *Frame) Invalidate() {
	f.full = true
}

// Clear resets the back buffer to blanks using exponential copy
func (f *Frame) Clear(style tcell.Style) {
	if len(f.back) == 0 {
		return
	}
	f.back[0] = Cell{Rune: ' ', Style: style}
	for filled := 1; filled < len(f.back); filled *= 2 {
		copy(f.back[filled:], f.back[:filled])
	}
}

func (f *Frame) inBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// Set writes one cell. Out-of-bounds writes are dropped
func (f *Frame) Set(x, y int, r rune, style tcell.Style) {
	if !f.inBounds(x, y) {
		return
	}
	f.back[y*f.width+x] = Cell{Rune: r, Style: style}
}

// Get returns the back buffer cell, zero Cell when out of bounds
func (f *Frame) Get(x, y int) Cell {
	if !f.inBounds(x, y) {
		return Cell{}
	}
	return f.back[y*f.width+x]
}

// Present writes cells that differ from the front buffer to the screen and
// shows it. Returns the number of cells written
func (f *Frame) Present(s Screen) int {
	written := 0
	for y := 0; y < f.height; y++ {
		row := y * f.width
		for x := 0; x < f.width; x++ {
			idx := row + x
			c := f.back[idx]
			if !f.full && c == f.front[idx] {
				continue
			}
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			s.SetContent(x, y, r, nil, c.Style)
			f.front[idx] = c
			written++
		}
	}
	f.full = false
	s.Show()
	return written
}

// String returns the back buffer as text, one line per row with trailing
// blanks trimmed
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow(f.width*f.height + f.height)
	line := make([]rune, f.width)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			r := f.back[y*f.width+x].Rune
			if r == 0 {
				r = ' '
			}
			line[x] = r
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
