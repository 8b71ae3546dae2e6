package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termcast/game"
)

// recordScreen captures SetContent calls
type recordScreen struct {
	cells map[[2]int]rune
	sets  int
	shows int
}

func newRecordScreen() *recordScreen {
	return &recordScreen{cells: make(map[[2]int]rune)}
}

func (s *recordScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	s.cells[[2]int{x, y}] = primary
	s.sets++
}

func (s *recordScreen) Show() { s.shows++ }

func TestPresentWritesOnlyChanges(t *testing.T) {
	f := NewFrame(10, 4)
	scr := newRecordScreen()

	if n := f.Present(scr); n != 40 {
		t.Fatalf("First present should repaint all 40 cells, wrote %d", n)
	}
	if n := f.Present(scr); n != 0 {
		t.Errorf("Unchanged frame wrote %d cells", n)
	}

	f.Set(3, 2, 'x', tcell.StyleDefault)
	if n := f.Present(scr); n != 1 {
		t.Errorf("Single change wrote %d cells", n)
	}
	if scr.cells[[2]int{3, 2}] != 'x' {
		t.Error("Changed cell not sent to screen")
	}

	// Style-only change counts as a change
	f.Set(3, 2, 'x', tcell.StyleDefault.Bold(true))
	if n := f.Present(scr); n != 1 {
		t.Errorf("Style change wrote %d cells", n)
	}
	if scr.shows != 4 {
		t.Errorf("Expected 4 Show calls, got %d", scr.shows)
	}
}

func TestResizeAndInvalidateRepaint(t *testing.T) {
	f := NewFrame(4, 4)
	scr := newRecordScreen()
	f.Present(scr)

	f.Invalidate()
	if n := f.Present(scr); n != 16 {
		t.Errorf("Invalidate should repaint 16, wrote %d", n)
	}

	f.Resize(6, 2)
	if w, h := f.Size(); w != 6 || h != 2 {
		t.Fatalf("Size = %dx%d", w, h)
	}
	if n := f.Present(scr); n != 12 {
		t.Errorf("Resize should repaint 12, wrote %d", n)
	}

	// Same-size resize still repaints, as after a terminal restore
	f.Present(scr)
	f.Resize(6, 2)
	if n := f.Present(scr); n != 12 {
		t.Errorf("Same-size resize should repaint 12, wrote %d", n)
	}

	f.Resize(-1, 3)
	if w, h := f.Size(); w != 0 || h != 3 {
		t.Errorf("Negative width not clamped: %dx%d", w, h)
	}
}

func TestSetOutOfBoundsDropped(t *testing.T) {
	f := NewFrame(3, 3)
	f.Set(-1, 0, 'a', tcell.StyleDefault)
	f.Set(3, 0, 'a', tcell.StyleDefault)
	f.Set(0, 3, 'a', tcell.StyleDefault)
	if strings.ContainsRune(f.String(), 'a') {
		t.Error("Out-of-bounds write landed in frame")
	}
	if f.Get(5, 5) != (Cell{}) {
		t.Error("Out-of-bounds Get should return zero cell")
	}
}

func TestDrawingPrimitives(t *testing.T) {
	f := NewFrame(7, 5)
	st := tcell.StyleDefault

	if end := f.Text(1, 0, "ab", st); end != 3 {
		t.Errorf("Text end = %d", end)
	}
	f.VLine(6, 4, 2, '|', st)
	f.Line(0, 4, 4, 2, '*', st)

	got := f.String()
	lines := strings.Split(got, "\n")
	if lines[0] != " ab" {
		t.Errorf("Text row %q", lines[0])
	}
	if f.Get(6, 2).Rune != '|' || f.Get(6, 4).Rune != '|' || f.Get(6, 1).Rune == '|' {
		t.Errorf("VLine wrong:\n%s", got)
	}
	for _, p := range [][2]int{{0, 4}, {4, 2}} {
		if f.Get(p[0], p[1]).Rune != '*' {
			t.Errorf("Line endpoint %v missing:\n%s", p, got)
		}
	}
}

func TestLineSteepHasNoGaps(t *testing.T) {
	f := NewFrame(5, 10)
	f.Line(1, 0, 2, 9, '#', tcell.StyleDefault)
	for y := 0; y < 10; y++ {
		found := false
		for x := 0; x < 5; x++ {
			if f.Get(x, y).Rune == '#' {
				found = true
			}
		}
		if !found {
			t.Errorf("Row %d has no line cell", y)
		}
	}
}

func TestDotAndFill(t *testing.T) {
	f := NewFrame(5, 5)
	f.Fill(0, 0, 5, 5, '.', tcell.StyleDefault)
	f.Dot(2, 2, 1, '+', tcell.StyleDefault)

	for _, p := range [][2]int{{1, 2}, {2, 2}, {3, 2}, {2, 1}, {2, 3}} {
		if f.Get(p[0], p[1]).Rune != '+' {
			t.Errorf("Dot missing at %v", p)
		}
	}
	if f.Get(1, 1).Rune != '.' {
		t.Error("Dot should not touch diagonals")
	}

	f.Dot(0, 0, 0, '@', tcell.StyleDefault)
	if f.Get(0, 0).Rune != '@' {
		t.Error("Zero-radius dot")
	}
}

type stubRenderer struct {
	name    string
	log     *[]string
	visible bool
}

func (s *stubRenderer) Render(ctx Context, f *Frame) {
	*s.log = append(*s.log, s.name)
	f.Text(0, 0, s.name, tcell.StyleDefault)
}

func (s *stubRenderer) IsVisible(ctx Context) bool { return s.visible }

func TestOrchestratorOrdering(t *testing.T) {
	var log []string
	o := NewOrchestrator(8, 2)

	o.Register(&stubRenderer{name: "hud", log: &log, visible: true}, PriorityHUD)
	o.Register(&stubRenderer{name: "scene", log: &log, visible: true}, PriorityScene)
	o.Register(&stubRenderer{name: "map", log: &log, visible: false}, PriorityMap)
	o.Register(&stubRenderer{name: "scene2", log: &log, visible: true}, PriorityScene)

	scr := newRecordScreen()
	n := o.RenderFrame(game.State{}, scr)
	if n != 16 {
		t.Errorf("First frame wrote %d cells, want 16", n)
	}

	want := []string{"scene", "scene2", "hud"}
	if strings.Join(log, ",") != strings.Join(want, ",") {
		t.Errorf("Render order %v, want %v", log, want)
	}
	// Highest priority drew last
	if got := strings.SplitN(o.Frame().String(), "\n", 2)[0]; got != "hudne2" {
		t.Errorf("Top row %q", got)
	}

	o.Resize(4, 1)
	if w, h := o.Frame().Size(); w != 4 || h != 1 {
		t.Errorf("Resize: %dx%d", w, h)
	}
}

func TestBlendAndScale(t *testing.T) {
	black := tcell.NewRGBColor(0, 0, 0)
	white := tcell.NewRGBColor(255, 255, 255)

	r, g, b := Blend(black, white, 0.5).RGB()
	if r != 127 || g != 127 || b != 127 {
		t.Errorf("Blend half = %d %d %d", r, g, b)
	}
	if Blend(black, white, 1) != white || Blend(black, white, 0) != black {
		t.Error("Blend endpoints")
	}

	r, _, _ = Scale(tcell.NewRGBColor(200, 0, 0), 2).RGB()
	if r != 255 {
		t.Errorf("Scale should clamp, got %d", r)
	}
}
