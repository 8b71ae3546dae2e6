package renderers

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termcast/config"
	"github.com/lixenwraith/termcast/raycast"
	"github.com/lixenwraith/termcast/render"
	"github.com/lixenwraith/termcast/vmath"
)

var floorColor = tcell.NewRGBColor(110, 110, 110)

// Scene draws the first-person view, one ray per column
type Scene struct {
	theme    Theme
	fov      float64
	maxCells int
	fisheye  bool

	// Reused across frames
	hits []raycast.Hit
}

// NewScene creates the 3D renderer
func NewScene(cfg *config.Config, theme Theme) *Scene {
	return &Scene{
		theme:    theme,
		fov:      vmath.Radians(cfg.Camera.FOVDeg),
		maxCells: cfg.Camera.MaxCells,
		fisheye:  cfg.Camera.Fisheye,
	}
}

// IsVisible implements render.VisibilityToggle
func (s *Scene) IsVisible(ctx render.Context) bool {
	return ctx.State.View.Shows3D() && ctx.State.Map != nil
}

// Render implements render.SystemRenderer
func (s *Scene) Render(ctx render.Context, f *render.Frame) {
	w, h := ctx.Width, ctx.Height
	if w <= 0 || h <= 0 {
		return
	}
	if cap(s.hits) < w {
		s.hits = make([]raycast.Hit, w)
	}
	s.hits = s.hits[:w]

	m := ctx.State.Map
	pose := ctx.State.Pose
	raycast.Fan(m, vmath.Vec2{X: pose.X, Y: pose.Y}, pose.Yaw, s.fov, s.maxCells, s.hits)

	horizon := h / 2
	rangeLimit := float64(s.maxCells) * m.CellSize

	for col, hit := range s.hits {
		bottom := horizon
		if hit.Wall {
			dist := hit.Distance
			if s.fisheye {
				dist = hit.Perpendicular
			}
			height := h
			if dist > vmath.Epsilon {
				height = int(float64(h) * m.CellSize / dist)
			}
			if height > h {
				height = h
			}
			if height < 1 {
				height = 1
			}

			top := horizon - height/2
			bottom = top + height - 1

			band := dist / rangeLimit
			color := render.Scale(s.theme.WallColor(hit), vmath.Lerp(1, 0.4, vmath.Clamp(band, 0, 1)))
			style := tcell.StyleDefault.Foreground(color)
			f.VLine(col, top, bottom, s.theme.WallGlyph(hit, band), style)
		}
		s.drawFloor(f, col, bottom+1, horizon, h)
	}
}

// drawFloor fills a column below the wall, brighter toward the viewer
func (s *Scene) drawFloor(f *render.Frame, col, from, horizon, h int) {
	if s.theme.Floor == 0 {
		return
	}
	if from <= horizon {
		from = horizon + 1
	}
	span := float64(h - horizon)
	for y := from; y < h; y++ {
		near := float64(y-horizon) / span
		style := tcell.StyleDefault.Foreground(render.Scale(floorColor, vmath.Lerp(0.35, 1, near)))
		f.Set(col, y, s.theme.Floor, style)
	}
}
