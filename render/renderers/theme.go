// Package renderers holds the layers drawn each frame: the first-person
// scene, the top-down map and the debug line.
package renderers

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termcast/config"
	"github.com/lixenwraith/termcast/raycast"
	"github.com/lixenwraith/termcast/render"
	"github.com/lixenwraith/termcast/world"
)

// variantTint colors wall variants 2-9; variant 1 keeps the base color
var variantTint = [world.MaxVariant + 1]tcell.Color{
	2: tcell.ColorMaroon,
	3: tcell.ColorOlive,
	4: tcell.ColorTeal,
	5: tcell.ColorNavy,
	6: tcell.ColorPurple,
	7: tcell.ColorGreen,
	8: tcell.ColorOrange,
	9: tcell.ColorAqua,
}

// distanceGlyphs go from nearest to farthest
var distanceGlyphs = [...]rune{'█', '▓', '▒', '░'}

// Theme is the glyph and color set shared by the renderers
type Theme struct {
	WallX   rune
	WallY   rune
	Floor   rune
	Wall    tcell.Color
	Side    tcell.Color
	Shading string
}

// NewTheme resolves glyphs and colors from the config
func NewTheme(cfg *config.Config) (Theme, error) {
	wall, err := config.ParseColor(cfg.Render.WallColor)
	if err != nil {
		return Theme{}, fmt.Errorf("renderers: wall color: %w", err)
	}
	side, err := config.ParseColor(cfg.Render.SideColor)
	if err != nil {
		return Theme{}, fmt.Errorf("renderers: side color: %w", err)
	}
	wx, wy := cfg.WallRunes()
	return Theme{
		WallX:   wx,
		WallY:   wy,
		Floor:   cfg.FloorRune(),
		Wall:    wall,
		Side:    side,
		Shading: cfg.Render.Shading,
	}, nil
}

// AxisGlyph returns the glyph for a face hit along axis a
func (t Theme) AxisGlyph(a raycast.Axis) rune {
	if a == raycast.AxisX {
		return t.WallX
	}
	return t.WallY
}

// WallColor returns the face color for a hit, tinted by tile variant
func (t Theme) WallColor(h raycast.Hit) tcell.Color {
	c := t.Wall
	if h.Axis == raycast.AxisY {
		c = t.Side
	}
	if int(h.Tile) < len(variantTint) && h.Tile > world.Wall {
		c = render.Blend(c, variantTint[h.Tile], 0.6)
	}
	return c
}

// WallGlyph picks the glyph for a hit at a fraction of the visibility range
func (t Theme) WallGlyph(h raycast.Hit, band float64) rune {
	if t.Shading != config.ShadingDistance {
		return t.AxisGlyph(h.Axis)
	}
	i := int(band * float64(len(distanceGlyphs)))
	if i < 0 {
		i = 0
	}
	if i >= len(distanceGlyphs) {
		i = len(distanceGlyphs) - 1
	}
	return distanceGlyphs[i]
}
