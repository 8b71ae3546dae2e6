// Package game owns the camera state shared by the frame loop, the map
// watcher and the spectator feed.
package game

import (
	"fmt"
	"sync"

	"github.com/lixenwraith/termcast/config"
	"github.com/lixenwraith/termcast/input"
	"github.com/lixenwraith/termcast/player"
	"github.com/lixenwraith/termcast/world"
)

// Effect reports what an action did
type Effect struct {
	Moved  bool
	Turned bool
	Bumped bool
	Quit   bool
}

// State is a consistent copy of everything a frame draws.
// Map is shared and must not be mutated
type State struct {
	Frame   uint64
	Map     *world.Map
	Pose    player.Pose
	View    ViewMode
	Debug   bool
	ShowMap bool
}

// Snapshot is the wire form of the camera state
type Snapshot struct {
	Frame uint64  `json:"frame"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Yaw   float64 `json:"yaw"`
	View  string  `json:"view"`
	Map   string  `json:"map"`
}

// Game is the mutex-guarded camera state
type Game struct {
	mu      sync.RWMutex
	m       *world.Map
	player  *player.Player
	radius  float64
	view    ViewMode
	debug   bool
	showMap bool
	frame   uint64
}

// New places a player configured by cfg at the spawn of m
func New(cfg *config.Config, m *world.Map) (*Game, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	view, err := ParseViewMode(cfg.Render.View)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	p := player.New(m)
	p.MoveSpeed = cfg.Player.MoveSpeed
	p.TurnSpeed = cfg.Player.TurnSpeed

	g := &Game{
		m:       m,
		player:  p,
		radius:  cfg.Player.Radius,
		view:    view,
		debug:   cfg.Debug,
		showMap: true,
	}
	g.place(m, false)
	return g, nil
}

// place restores the configured radius on m. A player that no longer fits
// moves to the spawn, and a spawn hugging a wall drops the radius so the
// player is not stuck
func (g *Game) place(m *world.Map, keepPos bool) {
	p := g.player
	p.Radius = g.radius
	if keepPos && p.Fits(m, p.Pos) {
		return
	}
	p.Respawn(m)
	if !p.Fits(m, p.Pos) {
		p.Radius = 0
	}
}

// moveDirs maps translation actions to player directions
var moveDirs = map[input.Action]player.Direction{
	input.ActionForward:     player.Forward,
	input.ActionBackward:    player.Backward,
	input.ActionStrafeLeft:  player.StrafeLeft,
	input.ActionStrafeRight: player.StrafeRight,
}

// Apply performs one action step
func (g *Game) Apply(a input.Action) Effect {
	g.mu.Lock()
	defer g.mu.Unlock()

	if a.IsMovement() {
		return g.move(a)
	}
	switch a {
	case input.ActionCycleView:
		g.view = g.view.Next()
	case input.ActionToggleDebug:
		g.debug = !g.debug
	case input.ActionToggleMap:
		g.showMap = !g.showMap
	case input.ActionQuit:
		return Effect{Quit: true}
	}
	return Effect{}
}

func (g *Game) move(a input.Action) Effect {
	switch a {
	case input.ActionTurnLeft:
		g.player.Turn(-1)
		return Effect{Turned: true}
	case input.ActionTurnRight:
		g.player.Turn(1)
		return Effect{Turned: true}
	}
	res := g.player.Move(g.m, moveDirs[a])
	return Effect{Moved: res.Moved, Bumped: res.Bumped}
}

// ReplaceMap swaps in a reloaded map. The player keeps its position when
// it still fits at the configured radius, otherwise it moves to the new spawn
func (g *Game) ReplaceMap(m *world.Map) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.m = m
	g.place(m, true)
	return nil
}

// Tick advances the frame counter and returns the state to draw
func (g *Game) Tick() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frame++
	return g.state()
}

// State returns a copy of the current state
func (g *Game) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state()
}

func (g *Game) state() State {
	return State{
		Frame:   g.frame,
		Map:     g.m,
		Pose:    g.player.Pose(),
		View:    g.view,
		Debug:   g.debug,
		ShowMap: g.showMap,
	}
}

// Map returns the active map
func (g *Game) Map() *world.Map {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.m
}

// Pose returns the camera pose
func (g *Game) Pose() player.Pose {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.player.Pose()
}

// Debug reports whether debug output is on
func (g *Game) Debug() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.debug
}

// Snapshot returns the spectator form of the state
func (g *Game) Snapshot() Snapshot {
	return g.State().Snapshot()
}

// DebugLine formats the pose line shown by the HUD
func (g *Game) DebugLine() string {
	return g.State().DebugLine()
}

// Snapshot converts a state to its wire form
func (s State) Snapshot() Snapshot {
	name := ""
	if s.Map != nil {
		name = s.Map.Name
	}
	return Snapshot{
		Frame: s.Frame,
		X:     s.Pose.X,
		Y:     s.Pose.Y,
		Yaw:   s.Pose.Yaw,
		View:  s.View.String(),
		Map:   name,
	}
}

// DebugLine formats yaw, coordinates, view and frame
func (s State) DebugLine() string {
	return fmt.Sprintf("YAW: %.4f | COORD: [x: %.4f, y: %.4f] | VIEW: %s | FRAME: %d",
		s.Pose.Yaw, s.Pose.X, s.Pose.Y, s.View.Label(), s.Frame)
}
