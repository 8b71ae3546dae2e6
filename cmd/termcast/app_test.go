package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termcast/audio"
	"github.com/lixenwraith/termcast/config"
	"github.com/lixenwraith/termcast/game"
	"github.com/lixenwraith/termcast/input"
	"github.com/lixenwraith/termcast/spectate"
	"github.com/lixenwraith/termcast/status"
	"github.com/lixenwraith/termcast/world"
)

func newTestApp(t *testing.T) (*app, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(40, 12)
	t.Cleanup(screen.Fini)

	cfg := config.Default()
	g, err := game.New(cfg, world.Default())
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	orch, err := newOrchestrator(cfg, 40, 12)
	if err != nil {
		t.Fatalf("newOrchestrator: %v", err)
	}
	return &app{
		screen:   screen,
		game:     g,
		orch:     orch,
		keys:     input.DefaultKeyMap(),
		sound:    audio.NewSoundManager(0),
		stats:    status.NewRegistry(),
		interval: 10 * time.Millisecond,
		reload: func(context.Context) (*world.Map, error) {
			return world.Default(), nil
		},
	}, screen
}

func runApp(t *testing.T, a *app, ctx context.Context) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestRunAppliesKeysUntilQuit(t *testing.T) {
	a, screen := newTestApp(t)
	start := a.game.Pose()

	screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))
	screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'v', tcell.ModNone))
	screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))

	runApp(t, a, context.Background())

	pose := a.game.Pose()
	if pose.Y >= start.Y {
		t.Errorf("Forward did not move north: %v -> %v", start, pose)
	}
	if st := a.game.State(); st.View != game.View2D {
		t.Errorf("View = %v, want 2d", st.View)
	}
	if a.game.State().Frame == 0 {
		t.Error("No frame rendered")
	}
	if strings.TrimSpace(a.orch.Frame().String()) == "" {
		t.Error("Frame is blank")
	}
	if got := a.stats.Counter("actions").Load(); got != 3 {
		t.Errorf("actions = %d, want 3", got)
	}
	if a.stats.Counter("cells_written").Load() == 0 {
		t.Error("No cells written")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	a, _ := newTestApp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	runApp(t, a, ctx)

	if a.game.State().Frame < 2 {
		t.Errorf("Expected ticks before cancel, frame %d", a.game.State().Frame)
	}
}

func TestHandleEvent(t *testing.T) {
	a, _ := newTestApp(t)

	if !a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone)) {
		t.Error("Unbound key should not quit")
	}
	if !a.handleEvent(tcell.NewEventResize(60, 20)) {
		t.Error("Resize should not quit")
	}
	if w, h := a.orch.Frame().Size(); w != 60 || h != 20 {
		t.Errorf("Frame size %dx%d after resize", w, h)
	}
	if a.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Escape should quit")
	}
}

func TestFrameDoesNotWaitForViewers(t *testing.T) {
	a, _ := newTestApp(t)
	// No Serve, so nothing drains the hub
	a.hub = spectate.NewHub(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			a.frame()
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Frames blocked on the spectator hub")
	}
	if got := a.stats.Counter("frames").Load(); got != 50 {
		t.Errorf("frames = %d, want 50", got)
	}
}

func TestWatcherReloadsMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.yaml")
	writeMap := func(rows ...string) {
		t.Helper()
		data, err := world.Encode(mustRows(t, rows...))
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		// Replace atomically so the watcher never sees a partial file
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if err := os.Rename(tmp, path); err != nil {
			t.Fatalf("Rename: %v", err)
		}
	}
	writeMap("#####", "#@..#", "#####")

	a, _ := newTestApp(t)
	a.reload = func(context.Context) (*world.Map, error) { return world.LoadFile(path) }
	w, err := world.NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	a.watcher = w

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	// Let the watcher settle before writing
	time.Sleep(50 * time.Millisecond)
	writeMap("#######", "#@....#", "#######")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && a.game.Map().Width != 7 {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if got := a.game.Map().Width; got != 7 {
		t.Errorf("Map width after reload = %d, want 7", got)
	}
	if a.stats.Counter("reloads").Load() == 0 {
		t.Error("Reload not counted")
	}
}

func mustRows(t *testing.T, rows ...string) *world.Map {
	t.Helper()
	doc := world.Document{Name: "level", Rows: rows}
	m, err := doc.Map()
	if err != nil {
		t.Fatalf("doc.Map: %v", err)
	}
	return m
}
