// Package config loads termcast settings from TOML
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Shading modes
const (
	ShadingAxis     = "axis"
	ShadingDistance = "distance"
)

// Camera controls the ray fan
type Camera struct {
	FOVDeg   float64 `toml:"fov_deg"`
	MaxCells int     `toml:"max_cells"`
	Fisheye  bool    `toml:"fisheye"`
}

// Player controls movement
type Player struct {
	MoveSpeed float64 `toml:"move_speed"`
	TurnSpeed float64 `toml:"turn_speed"`
	Radius    float64 `toml:"radius"`
}

// Render controls the terminal output
type Render struct {
	View         string  `toml:"view"`
	FrameMS      int     `toml:"frame_ms"`
	Aspect       float64 `toml:"aspect"`
	MinimapWidth int     `toml:"minimap_width"`
	WallX        string  `toml:"wall_x"`
	WallY        string  `toml:"wall_y"`
	Shading      string  `toml:"shading"`
	WallColor    string  `toml:"wall_color"`
	SideColor    string  `toml:"side_color"`
	Floor        string  `toml:"floor"`
}

// Generate describes a generated maze. Zero width disables generation
type Generate struct {
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Braiding float64 `toml:"braiding"`
	Seed     int64   `toml:"seed"`
}

// Map selects the map source
type Map struct {
	File     string   `toml:"file"`
	Watch    bool     `toml:"watch"`
	Script   string   `toml:"script"`
	Generate Generate `toml:"generate"`
}

// Audio controls feedback sounds
type Audio struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

// Spectate configures the websocket feed. Empty addr disables it
type Spectate struct {
	Addr string `toml:"addr"`
}

// Config is the full settings tree
type Config struct {
	Debug    bool              `toml:"debug"`
	Camera   Camera            `toml:"camera"`
	Player   Player            `toml:"player"`
	Render   Render            `toml:"render"`
	Map      Map               `toml:"map"`
	Audio    Audio             `toml:"audio"`
	Spectate Spectate          `toml:"spectate"`
	Keys     map[string]string `toml:"keys"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Camera: Camera{
			FOVDeg:   90,
			MaxCells: 15,
			Fisheye:  true,
		},
		Player: Player{
			MoveSpeed: 2.5,
			TurnSpeed: 0.1,
			Radius:    4,
		},
		Render: Render{
			View:         "3d",
			FrameMS:      50,
			Aspect:       2,
			MinimapWidth: 24,
			WallX:        "▓",
			WallY:        "-",
			Shading:      ShadingAxis,
			WallColor:    "silver",
			SideColor:    "gray",
			Floor:        ".",
		},
		Map: Map{
			Watch: true,
			Generate: Generate{
				Braiding: 0.2,
			},
		},
		Audio: Audio{
			Enabled: true,
			Volume:  0.5,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Decode(data); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode applies TOML data over the current values and validates the result
func (c *Config) Decode(data []byte) error {
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return c.Validate()
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if c.Camera.FOVDeg <= 0 || c.Camera.FOVDeg >= 180 {
		add("camera.fov_deg %v outside (0,180)", c.Camera.FOVDeg)
	}
	if c.Camera.MaxCells <= 0 {
		add("camera.max_cells must be positive")
	}
	if c.Player.MoveSpeed <= 0 {
		add("player.move_speed must be positive")
	}
	if c.Player.TurnSpeed <= 0 {
		add("player.turn_speed must be positive")
	}
	if c.Player.Radius < 0 {
		add("player.radius must not be negative")
	}

	switch c.Render.View {
	case "3d", "2d", "both":
	default:
		add("render.view %q not one of 3d, 2d, both", c.Render.View)
	}
	if c.Render.FrameMS < 10 {
		add("render.frame_ms %d below 10", c.Render.FrameMS)
	}
	if c.Render.Aspect <= 0 {
		add("render.aspect must be positive")
	}
	if c.Render.MinimapWidth < 0 {
		add("render.minimap_width must not be negative")
	}
	for name, glyph := range map[string]string{
		"wall_x": c.Render.WallX,
		"wall_y": c.Render.WallY,
		"floor":  c.Render.Floor,
	} {
		// Empty floor is allowed and leaves the floor blank
		if name == "floor" && glyph == "" {
			continue
		}
		if utf8.RuneCountInString(glyph) != 1 {
			add("render.%s must be a single character", name)
		}
	}
	switch c.Render.Shading {
	case ShadingAxis, ShadingDistance:
	default:
		add("render.shading %q not one of axis, distance", c.Render.Shading)
	}
	if _, err := ParseColor(c.Render.WallColor); err != nil {
		add("render.wall_color: %v", err)
	}
	if _, err := ParseColor(c.Render.SideColor); err != nil {
		add("render.side_color: %v", err)
	}

	g := c.Map.Generate
	if g.Width < 0 || g.Height < 0 {
		add("map.generate dimensions must not be negative")
	}
	if (g.Width == 0) != (g.Height == 0) {
		add("map.generate needs both width and height")
	}
	if g.Braiding < 0 || g.Braiding > 1 {
		add("map.generate.braiding %v outside [0,1]", g.Braiding)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		add("audio.volume %v outside [0,1]", c.Audio.Volume)
	}

	if len(errs) == 0 {
		return nil
	}
	sort.Strings(errs)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
}

// FrameInterval returns the render tick period
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Render.FrameMS) * time.Millisecond
}

// WallRunes returns the glyphs for X-axis and Y-axis hits
func (c *Config) WallRunes() (x, y rune) {
	x, _ = utf8.DecodeRuneInString(c.Render.WallX)
	y, _ = utf8.DecodeRuneInString(c.Render.WallY)
	return x, y
}

// FloorRune returns the floor glyph, 0 when disabled
func (c *Config) FloorRune() rune {
	if c.Render.Floor == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.Render.Floor)
	return r
}

// ParseColor resolves a color name or #rrggbb value
func ParseColor(s string) (tcell.Color, error) {
	c := tcell.GetColor(strings.TrimSpace(s))
	if c == tcell.ColorDefault {
		return c, fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}
