package input

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
)

// Named keys accepted in key map files. Single characters bind runes
var specialKeys = map[string]tcell.Key{
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"tab":       tcell.KeyTab,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"enter":     tcell.KeyEnter,
	"backspace": tcell.KeyBackspace2,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"pgup":      tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
	"ctrl+c":    tcell.KeyCtrlC,
	"ctrl+q":    tcell.KeyCtrlQ,
	"f1":        tcell.KeyF1,
	"f2":        tcell.KeyF2,
	"f3":        tcell.KeyF3,
	"f4":        tcell.KeyF4,
	"f5":        tcell.KeyF5,
}

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backtick":  '`',
	"backslash": '\\',
}

// Binding is one key to action entry
type Binding struct {
	Key    string
	Action Action
}

// KeyMap resolves key events to actions
type KeyMap struct {
	runes map[rune]Action
	keys  map[tcell.Key]Action
}

var defaultBindings = map[string]Action{
	"w":        ActionForward,
	"s":        ActionBackward,
	"a":        ActionStrafeLeft,
	"d":        ActionStrafeRight,
	"q":        ActionTurnLeft,
	"e":        ActionTurnRight,
	"x":        ActionQuit,
	"v":        ActionCycleView,
	"m":        ActionToggleMap,
	"backtick": ActionToggleDebug,
	"up":       ActionForward,
	"down":     ActionBackward,
	"left":     ActionTurnLeft,
	"right":    ActionTurnRight,
	"tab":      ActionCycleView,
	"f3":       ActionToggleDebug,
	"esc":      ActionQuit,
	"ctrl+c":   ActionQuit,
}

// NewKeyMap returns an empty key map
func NewKeyMap() *KeyMap {
	return &KeyMap{
		runes: make(map[rune]Action),
		keys:  make(map[tcell.Key]Action),
	}
}

// DefaultKeyMap returns the built-in bindings
func DefaultKeyMap() *KeyMap {
	km := NewKeyMap()
	for k, a := range defaultBindings {
		if err := km.Bind(k, a); err != nil {
			panic(err)
		}
	}
	return km
}

// Bind maps a key name to an action. ActionNone removes the binding
func (km *KeyMap) Bind(name string, a Action) error {
	name = strings.ToLower(strings.TrimSpace(name))

	if k, ok := specialKeys[name]; ok {
		if a == ActionNone {
			delete(km.keys, k)
		} else {
			km.keys[k] = a
		}
		return nil
	}

	r, ok := runeAliases[name]
	if !ok {
		if utf8.RuneCountInString(name) != 1 {
			return fmt.Errorf("unknown key %q", name)
		}
		r, _ = utf8.DecodeRuneInString(name)
	}
	r = unicode.ToLower(r)
	if a == ActionNone {
		delete(km.runes, r)
	} else {
		km.runes[r] = a
	}
	return nil
}

// Apply binds every key in bindings (key name -> action name)
func (km *KeyMap) Apply(bindings map[string]string) error {
	// Sorted for deterministic error reporting
	names := make([]string, 0, len(bindings))
	for k := range bindings {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, k := range names {
		a, ok := ActionByName(strings.ToLower(strings.TrimSpace(bindings[k])))
		if !ok {
			return fmt.Errorf("[keys] %q: unknown action %q", k, bindings[k])
		}
		if err := km.Bind(k, a); err != nil {
			return fmt.Errorf("[keys] %w", err)
		}
	}
	return nil
}

// LoadKeyMap parses a TOML [keys] table over the default bindings
func LoadKeyMap(data []byte) (*KeyMap, error) {
	var doc struct {
		Keys map[string]string `toml:"keys"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("keymap parse: %w", err)
	}
	km := DefaultKeyMap()
	if err := km.Apply(doc.Keys); err != nil {
		return nil, err
	}
	return km, nil
}

// Resolve returns the action bound to a key event
func (km *KeyMap) Resolve(ev *tcell.EventKey) Action {
	if ev == nil {
		return ActionNone
	}
	if ev.Key() == tcell.KeyRune {
		return km.runes[unicode.ToLower(ev.Rune())]
	}
	// Backspace arrives as either code depending on the terminal
	if ev.Key() == tcell.KeyBackspace {
		return km.keys[tcell.KeyBackspace2]
	}
	return km.keys[ev.Key()]
}

// Bindings lists all bindings sorted by key name
func (km *KeyMap) Bindings() []Binding {
	out := make([]Binding, 0, len(km.runes)+len(km.keys))
	for name, k := range specialKeys {
		if a, ok := km.keys[k]; ok {
			// Aliases share a key code; report the canonical short name
			if name == "escape" {
				continue
			}
			out = append(out, Binding{Key: name, Action: a})
		}
	}
	for r, a := range km.runes {
		name := string(r)
		for alias, ar := range runeAliases {
			if ar == r {
				name = alias
			}
		}
		out = append(out, Binding{Key: name, Action: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
