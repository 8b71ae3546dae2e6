// Command termcast walks a tile map in a terminal raycast view
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termcast/audio"
	"github.com/lixenwraith/termcast/config"
	"github.com/lixenwraith/termcast/core"
	"github.com/lixenwraith/termcast/game"
	"github.com/lixenwraith/termcast/input"
	"github.com/lixenwraith/termcast/render"
	"github.com/lixenwraith/termcast/render/renderers"
	"github.com/lixenwraith/termcast/spectate"
	"github.com/lixenwraith/termcast/status"
	"github.com/lixenwraith/termcast/world"
)

const (
	defaultDumpSize  = "80x24"
	defaultScriptDim = 21
	genVariants      = 4
)

type options struct {
	configPath string
	keysPath   string
	mapPath    string
	scriptPath string
	generate   string
	seed       int64
	view       string
	color      string
	debug      bool
	dump       bool
	dumpSize   string
	export     string
	listKeys   bool
	mute       bool
}

func parseFlags(args []string, errOut io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("termcast", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&o.configPath, "config", "", "TOML config file")
	fs.StringVar(&o.keysPath, "keys", "", "TOML file with a [keys] table")
	fs.StringVar(&o.mapPath, "map", "", "YAML map file")
	fs.StringVar(&o.scriptPath, "script", "", "Tengo map script")
	fs.StringVar(&o.generate, "generate", "", "Generate a WxH maze")
	fs.Int64Var(&o.seed, "seed", 0, "Maze seed (0 = time based)")
	fs.StringVar(&o.view, "view", "", "View mode: 3d, 2d, both")
	fs.StringVar(&o.color, "color", "auto", "Color mode: auto, truecolor, 256")
	fs.BoolVar(&o.debug, "debug", false, "Log to logs/termcast.log and show the debug line")
	fs.BoolVar(&o.dump, "dump", false, "Print one frame to stdout and exit")
	fs.StringVar(&o.dumpSize, "dump-size", defaultDumpSize, "Frame size for -dump, WxH")
	fs.StringVar(&o.export, "export", "", "Write the active map as YAML and exit")
	fs.BoolVar(&o.listKeys, "list-keys", false, "Print the active key bindings and exit")
	fs.BoolVar(&o.mute, "mute", false, "Disable audio")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return o, nil
}

// parseSize parses "WxH" with both sides positive
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("size %q: bad width", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("size %q: bad height", s)
	}
	return w, h, nil
}

// applyOverrides folds command line flags into cfg
func applyOverrides(cfg *config.Config, o options) error {
	if o.debug {
		cfg.Debug = true
	}
	if o.mute {
		cfg.Audio.Enabled = false
	}
	if o.view != "" {
		cfg.Render.View = o.view
	}
	if o.mapPath != "" {
		cfg.Map.File = o.mapPath
	}
	if o.scriptPath != "" {
		cfg.Map.Script = o.scriptPath
	}
	if o.generate != "" {
		w, h, err := parseSize(o.generate)
		if err != nil {
			return fmt.Errorf("-generate: %w", err)
		}
		cfg.Map.Generate.Width, cfg.Map.Generate.Height = w, h
	}
	if o.seed != 0 {
		cfg.Map.Generate.Seed = o.seed
	}
	return cfg.Validate()
}

// mapSource builds the starting map and knows how to rebuild it when the
// backing file changes. path is empty for sources that cannot be watched
type mapSource struct {
	path string
	load func(ctx context.Context) (*world.Map, error)
}

// selectSource applies the precedence script > generate > file > built-in
func selectSource(cfg *config.Config) mapSource {
	gen := cfg.Map.Generate
	switch {
	case cfg.Map.Script != "":
		w, h := gen.Width, gen.Height
		if w == 0 || h == 0 {
			w, h = defaultScriptDim, defaultScriptDim
		}
		path := cfg.Map.Script
		return mapSource{path: path, load: func(ctx context.Context) (*world.Map, error) {
			return world.LoadScript(ctx, path, w, h)
		}}
	case gen.Width > 0 && gen.Height > 0:
		gc := world.GenConfig{
			Width:    gen.Width,
			Height:   gen.Height,
			Braiding: gen.Braiding,
			Variants: genVariants,
			CellSize: world.DefaultCellSize,
			Seed:     gen.Seed,
		}
		return mapSource{load: func(context.Context) (*world.Map, error) {
			return world.Generate(gc)
		}}
	case cfg.Map.File != "":
		path := cfg.Map.File
		return mapSource{path: path, load: func(context.Context) (*world.Map, error) {
			return world.LoadFile(path)
		}}
	default:
		return mapSource{load: func(context.Context) (*world.Map, error) {
			return world.Default(), nil
		}}
	}
}

func loadKeyMap(cfg *config.Config, path string) (*input.KeyMap, error) {
	km := input.DefaultKeyMap()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}
		if km, err = input.LoadKeyMap(data); err != nil {
			return nil, err
		}
	}
	if err := km.Apply(cfg.Keys); err != nil {
		return nil, err
	}
	return km, nil
}

// newOrchestrator registers the renderers in priority order
func newOrchestrator(cfg *config.Config, width, height int) (*render.Orchestrator, error) {
	theme, err := renderers.NewTheme(cfg)
	if err != nil {
		return nil, err
	}

	type rendererDef struct {
		renderer render.SystemRenderer
		priority render.Priority
	}
	rendererList := []rendererDef{
		{renderers.NewScene(cfg, theme), render.PriorityScene},
		{renderers.NewMapView(cfg, theme), render.PriorityMap},
		{renderers.NewHUD(), render.PriorityHUD},
	}

	o := render.NewOrchestrator(width, height)
	for _, def := range rendererList {
		o.Register(def.renderer, def.priority)
	}
	return o, nil
}

// dumpFrame renders a single frame as plain text followed by the debug line
func dumpFrame(w io.Writer, cfg *config.Config, g *game.Game, size string) error {
	width, height, err := parseSize(size)
	if err != nil {
		return fmt.Errorf("-dump-size: %w", err)
	}
	o, err := newOrchestrator(cfg, width, height)
	if err != nil {
		return err
	}
	st := g.Tick()
	o.Compose(st)
	_, err = fmt.Fprintf(w, "%s%s\n", o.Frame().String(), st.DebugLine())
	return err
}

func listKeys(w io.Writer, km *input.KeyMap) error {
	for _, b := range km.Bindings() {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", b.Key, b.Action); err != nil {
			return err
		}
	}
	return nil
}

func exportMap(path string, m *world.Map) error {
	data, err := world.Encode(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func applyColorMode(mode string) {
	switch mode {
	case "256":
		os.Setenv("TCELL_TRUECOLOR", "disable")
	case "truecolor", "true", "24bit":
		os.Setenv("COLORTERM", "truecolor")
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "termcast: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fatal("%v", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fatal("%v", err)
	}
	if err := applyOverrides(cfg, opts); err != nil {
		fatal("%v", err)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := selectSource(cfg)
	m, err := src.load(ctx)
	if err != nil {
		fatal("%v", err)
	}
	log.Printf("map %q %dx%d loaded", m.Name, m.Width, m.Height)

	g, err := game.New(cfg, m)
	if err != nil {
		fatal("%v", err)
	}

	switch {
	case opts.export != "":
		if err := exportMap(opts.export, g.Map()); err != nil {
			fatal("export: %v", err)
		}
		return
	case opts.dump:
		if err := dumpFrame(os.Stdout, cfg, g, opts.dumpSize); err != nil {
			fatal("dump: %v", err)
		}
		return
	}

	keys, err := loadKeyMap(cfg, opts.keysPath)
	if err != nil {
		fatal("%v", err)
	}
	if opts.listKeys {
		if err := listKeys(os.Stdout, keys); err != nil {
			fatal("%v", err)
		}
		return
	}

	applyColorMode(opts.color)
	screen, err := tcell.NewScreen()
	if err != nil {
		fatal("failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		fatal("failed to initialize terminal: %v", err)
	}
	core.SetCrashScreen(screen)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	width, height := screen.Size()
	orch, err := newOrchestrator(cfg, width, height)
	if err != nil {
		screen.Fini()
		fatal("%v", err)
	}

	sound := audio.NewSoundManager(cfg.Audio.Volume)
	if cfg.Audio.Enabled {
		if err := sound.Initialize(); err != nil {
			log.Printf("audio unavailable: %v (continuing without audio)", err)
		}
	}
	defer sound.Cleanup()

	a := &app{
		screen:   screen,
		game:     g,
		orch:     orch,
		keys:     keys,
		sound:    sound,
		stats:    status.NewRegistry(),
		interval: cfg.FrameInterval(),
		reload:   src.load,
	}
	if sound.Initialized() {
		a.stats.Gauge("audio").Set(1)
	}

	if cfg.Map.Watch && src.path != "" {
		w, err := world.NewWatcher(src.path)
		if err != nil {
			log.Printf("map watch disabled: %v", err)
		} else {
			a.watcher = w
			defer w.Close()
		}
	}

	if cfg.Spectate.Addr != "" {
		a.hub = spectate.NewHub(log.Default())
		a.hub.Handle("/stats", a.stats.Handler())
		core.Go(func() {
			if err := a.hub.Serve(ctx, cfg.Spectate.Addr); err != nil {
				log.Printf("spectate: %v", err)
			}
		})
	}

	runErr := a.run(ctx)

	core.SetCrashScreen(nil)
	screen.Fini()

	if runErr != nil {
		fatal("%v", runErr)
	}
	if g.Debug() {
		fmt.Println(g.DebugLine())
	}
}
