package renderers

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termcast/config"
	"github.com/lixenwraith/termcast/game"
	"github.com/lixenwraith/termcast/raycast"
	"github.com/lixenwraith/termcast/render"
	"github.com/lixenwraith/termcast/vmath"
)

// mapRays is the ray count drawn on the map
const mapRays = 90

var (
	insetBg     = tcell.NewRGBColor(16, 16, 24)
	rayColor    = tcell.NewRGBColor(200, 170, 60)
	playerColor = tcell.ColorYellow
)

// headingTicks by octant, clockwise from north
var headingTicks = [8]rune{'|', '/', '-', '\\', '|', '/', '-', '\\'}

// MapView draws the grid from above with the player and its ray fan
type MapView struct {
	theme        Theme
	fov          float64
	maxCells     int
	aspect       float64
	minimapWidth int

	hits []raycast.Hit
}

// NewMapView creates the 2D renderer
func NewMapView(cfg *config.Config, theme Theme) *MapView {
	return &MapView{
		theme:        theme,
		fov:          vmath.Radians(cfg.Camera.FOVDeg),
		maxCells:     cfg.Camera.MaxCells,
		aspect:       cfg.Render.Aspect,
		minimapWidth: cfg.Render.MinimapWidth,
		hits:         make([]raycast.Hit, mapRays),
	}
}

// IsVisible implements render.VisibilityToggle
func (v *MapView) IsVisible(ctx render.Context) bool {
	if ctx.State.Map == nil {
		return false
	}
	switch ctx.State.View {
	case game.View2D:
		return true
	case game.ViewBoth:
		return ctx.State.ShowMap && v.minimapWidth > 0
	}
	return false
}

// viewport is the screen rectangle the map occupies and its scale
type viewport struct {
	x, y, w, h int
	// world units per column; rows cover scale*aspect units
	scale float64
}

// layout computes where the map is drawn for ctx
func (v *MapView) layout(ctx render.Context) viewport {
	m := ctx.State.Map
	mw, mh := m.Bounds()

	var vp viewport
	if ctx.State.View == game.View2D {
		vp = viewport{w: ctx.Width, h: ctx.Height}
	} else {
		w := vmath.ClampInt(v.minimapWidth, 1, ctx.Width)
		h := int(math.Ceil(float64(w) * mh / mw / v.aspect))
		h = vmath.ClampInt(h, 1, ctx.Height)
		vp = viewport{x: ctx.Width - w, w: w, h: h}
	}
	vp.scale = math.Max(mw/float64(vp.w), mh/(float64(vp.h)*v.aspect))
	return vp
}

// toScreen maps a world point into the viewport
func (vp viewport) toScreen(p vmath.Vec2, aspect float64) (int, int) {
	return vp.x + int(math.Floor(p.X/vp.scale)), vp.y + int(math.Floor(p.Y/(vp.scale*aspect)))
}

// Render implements render.SystemRenderer
func (v *MapView) Render(ctx render.Context, f *render.Frame) {
	if ctx.Width <= 0 || ctx.Height <= 0 {
		return
	}
	m := ctx.State.Map
	pose := ctx.State.Pose
	origin := vmath.Vec2{X: pose.X, Y: pose.Y}
	vp := v.layout(ctx)

	bg := tcell.StyleDefault
	if ctx.State.View != game.View2D {
		bg = bg.Background(insetBg)
		f.Fill(vp.x, vp.y, vp.w, vp.h, ' ', bg)
	}

	// Rays first so walls and the player stay readable on top
	raycast.Fan(m, origin, pose.Yaw, v.fov, v.maxCells, v.hits)
	px, py := vp.toScreen(origin, v.aspect)
	for _, hit := range v.hits {
		hx, hy := vp.toScreen(hit.Point, v.aspect)
		hx = vmath.ClampInt(hx, vp.x, vp.x+vp.w-1)
		hy = vmath.ClampInt(hy, vp.y, vp.y+vp.h-1)
		f.Line(px, py, hx, hy, v.theme.AxisGlyph(hit.Axis), bg.Foreground(rayColor))
	}

	wallStyle := bg.Foreground(v.theme.Wall)
	rowSpan := vp.scale * v.aspect
	for row := 0; row < vp.h; row++ {
		wy := (float64(row) + 0.5) * rowSpan
		for col := 0; col < vp.w; col++ {
			wx := (float64(col) + 0.5) * vp.scale
			cx, cy := m.CellOf(vmath.Vec2{X: wx, Y: wy})
			if cx >= m.Width || cy >= m.Height {
				continue
			}
			if m.At(cx, cy).Solid() {
				f.Set(vp.x+col, vp.y+row, '#', wallStyle)
			}
		}
	}

	playerStyle := bg.Foreground(playerColor).Bold(true)
	dx, dy := headingOffset(pose.Yaw)
	if tx, ty := px+dx, py+dy; tx >= vp.x && tx < vp.x+vp.w && ty >= vp.y && ty < vp.y+vp.h {
		f.Set(tx, ty, headingTicks[octant(pose.Yaw)], playerStyle)
	}
	f.Set(px, py, '@', playerStyle)
}

// octant returns 0-7 for yaw, 0 centered on north
func octant(yaw float64) int {
	return int(math.Floor(vmath.NormalizeAngle(yaw+math.Pi/8)/(math.Pi/4))) % 8
}

// headingOffset is the neighboring cell in the direction of yaw
func headingOffset(yaw float64) (int, int) {
	d := vmath.Dir(yaw)
	return int(math.Round(d.X)), int(math.Round(d.Y))
}
