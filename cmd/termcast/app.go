package main

import (
	"context"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termcast/audio"
	"github.com/lixenwraith/termcast/core"
	"github.com/lixenwraith/termcast/game"
	"github.com/lixenwraith/termcast/input"
	"github.com/lixenwraith/termcast/player"
	"github.com/lixenwraith/termcast/render"
	"github.com/lixenwraith/termcast/spectate"
	"github.com/lixenwraith/termcast/status"
	"github.com/lixenwraith/termcast/world"
)

const eventBuffer = 256

// app owns the terminal loop. hub and watcher may be nil
type app struct {
	screen   tcell.Screen
	game     *game.Game
	orch     *render.Orchestrator
	keys     *input.KeyMap
	sound    *audio.SoundManager
	hub      *spectate.Hub
	watcher  *world.Watcher
	stats    *status.Registry
	interval time.Duration
	reload   func(ctx context.Context) (*world.Map, error)

	lastPose player.Pose
}

// run processes input and draws frames until quit or ctx is cancelled
func (a *app) run(ctx context.Context) error {
	events := make(chan tcell.Event, eventBuffer)
	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	})

	var (
		watchEvents <-chan string
		watchErrors <-chan error
	)
	if a.watcher != nil {
		watchEvents = a.watcher.Events
		watchErrors = a.watcher.Errors
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.frame()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if !a.handleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			a.frame()

		case path, ok := <-watchEvents:
			if !ok {
				watchEvents = nil
				continue
			}
			a.reloadMap(ctx, path)

		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			log.Printf("map watch: %v", err)
		}
	}
}

// handleEvent applies one terminal event, returning false on quit
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		action := a.keys.Resolve(ev)
		if action == input.ActionNone {
			return true
		}
		a.stats.Counter("actions").Add(1)
		eff := a.game.Apply(action)
		if eff.Quit {
			return false
		}
		if eff.Bumped {
			a.stats.Counter("bumps").Add(1)
			a.sound.PlayBump()
		} else if eff.Moved {
			a.sound.PlayStep()
		}

	case *tcell.EventResize:
		w, h := ev.Size()
		a.orch.Resize(w, h)
		a.screen.Sync()
	}
	return true
}

// frame advances the clock, draws and publishes the state
func (a *app) frame() {
	start := time.Now()
	st := a.game.Tick()
	written := a.orch.RenderFrame(st, a.screen)

	a.stats.Counter("frames").Add(1)
	a.stats.Counter("cells_written").Add(int64(written))
	a.stats.Gauge("render_ms").Set(float64(time.Since(start).Microseconds()) / 1000)

	if a.hub != nil {
		a.stats.Gauge("viewers").Set(float64(a.hub.Clients()))
		a.hub.Publish(st.Snapshot())
	}

	if st.Debug && st.Pose != a.lastPose {
		log.Print(st.DebugLine())
	}
	a.lastPose = st.Pose
}

func (a *app) reloadMap(ctx context.Context, path string) {
	m, err := a.reload(ctx)
	if err != nil {
		// Keep the current map until the file parses again
		a.stats.Counter("reload_errors").Add(1)
		log.Printf("reload %s: %v", path, err)
		return
	}
	if err := a.game.ReplaceMap(m); err != nil {
		a.stats.Counter("reload_errors").Add(1)
		log.Printf("reload %s: %v", path, err)
		return
	}
	a.stats.Counter("reloads").Add(1)
	log.Printf("reloaded %s", path)
}
