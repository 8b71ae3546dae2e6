package renderers

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termcast/render"
)

// HUD draws the debug pose line on the bottom row
type HUD struct {
	style tcell.Style
}

// NewHUD creates the debug line renderer
func NewHUD() *HUD {
	return &HUD{style: tcell.StyleDefault.Reverse(true)}
}

// IsVisible implements render.VisibilityToggle
func (h *HUD) IsVisible(ctx render.Context) bool {
	return ctx.State.Debug
}

// Render implements render.SystemRenderer
func (h *HUD) Render(ctx render.Context, f *render.Frame) {
	if ctx.Height <= 0 {
		return
	}
	y := ctx.Height - 1
	f.Fill(0, y, ctx.Width, 1, ' ', h.style)
	f.Text(0, y, ctx.State.DebugLine(), h.style)
}
