package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termcast/game"
)

// Priority determines render order. Lower values render first
type Priority int

const (
	PriorityScene Priority = iota
	PriorityMap
	PriorityHUD
)

// Context is the per-frame input handed to renderers, passed by value
type Context struct {
	Width  int
	Height int
	State  game.State
}

// SystemRenderer draws one layer of the frame
type SystemRenderer interface {
	Render(ctx Context, f *Frame)
}

// VisibilityToggle is optionally implemented to skip a renderer for a frame
type VisibilityToggle interface {
	IsVisible(ctx Context) bool
}

type rendererEntry struct {
	renderer SystemRenderer
	priority Priority
}

// Orchestrator runs registered renderers over a shared frame
type Orchestrator struct {
	frame     *Frame
	renderers []rendererEntry
}

// NewOrchestrator creates an orchestrator with a frame of the given size
func NewOrchestrator(width, height int) *Orchestrator {
	return &Orchestrator{
		frame:     NewFrame(width, height),
		renderers: make([]rendererEntry, 0, 8),
	}
}

// Register adds a renderer at the specified priority. Maintains sorted order
// via insertion sort; equal priorities keep registration order
func (o *Orchestrator) Register(r SystemRenderer, priority Priority) {
	entry := rendererEntry{renderer: r, priority: priority}

	pos := len(o.renderers)
	for i, e := range o.renderers {
		if priority < e.priority {
			pos = i
			break
		}
	}

	o.renderers = append(o.renderers, rendererEntry{})
	copy(o.renderers[pos+1:], o.renderers[pos:])
	o.renderers[pos] = entry
}

// Resize updates frame dimensions; the next present repaints everything
func (o *Orchestrator) Resize(width, height int) {
	o.frame.Resize(width, height)
}

// Frame exposes the composed frame
func (o *Orchestrator) Frame() *Frame {
	return o.frame
}

// Compose clears the frame and runs every visible renderer in order
func (o *Orchestrator) Compose(st game.State) {
	w, h := o.frame.Size()
	ctx := Context{Width: w, Height: h, State: st}

	o.frame.Clear(tcell.StyleDefault)
	for _, entry := range o.renderers {
		if vt, ok := entry.renderer.(VisibilityToggle); ok && !vt.IsVisible(ctx) {
			continue
		}
		entry.renderer.Render(ctx, o.frame)
	}
}

// RenderFrame composes and presents, returning the number of cells written
func (o *Orchestrator) RenderFrame(st game.State, s Screen) int {
	o.Compose(st)
	return o.frame.Present(s)
}
