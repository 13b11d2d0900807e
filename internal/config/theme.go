// Package config provides YAML-based theme and keybinding preferences for
// the simulator: side names, key layout, face colors, and the timing knobs
// of the session.
package config

import (
	"encoding/hex"
	"fmt"
)

// Theme contains every user-tunable preference. The axis list caps the
// puzzle dimension; the layer key list caps the layer count.
type Theme struct {
	Axes         []Axis       `yaml:"axes"`
	Keys         GlobalKeys   `yaml:"keys"`
	Colors       GlobalColors `yaml:"colors"`
	DamageRepeat int          `yaml:"damage_repeat"`
	AlertFrames  int          `yaml:"alert_frames"`
}

// Axis names one puzzle axis: its two sides and the key that selects the
// axis in axial keybind mode.
type Axis struct {
	Pos     Side   `yaml:"pos"`
	Neg     Side   `yaml:"neg"`
	AxisKey string `yaml:"axis_key"`
}

// Side describes one face: display name, hex color, and its keys.
type Side struct {
	Name  string   `yaml:"name"`
	Color string   `yaml:"color"`
	Keys  SideKeys `yaml:"keys"`
}

// SideKeys are the keys bound to one face. Select picks the face as the
// turned side; Side is the right-hand key used by side keybind mode, and may
// be empty for axes beyond that mode's reach.
type SideKeys struct {
	Select string `yaml:"select"`
	Side   string `yaml:"side,omitempty"`
}

// GlobalKeys are the keys not tied to a face.
type GlobalKeys struct {
	Layers         []string `yaml:"layers"`
	Rotate         string   `yaml:"rotate"`
	Scramble       string   `yaml:"scramble"`
	Reset          string   `yaml:"reset"`
	KeybindMode    string   `yaml:"keybind_mode"`
	AxisMode       string   `yaml:"axis_mode"`
	Undo           string   `yaml:"undo"`
	Redo           string   `yaml:"redo"`
	NextFilter     string   `yaml:"next_filter"`
	PrevFilter     string   `yaml:"prev_filter"`
	LiveFilterMode string   `yaml:"live_filter_mode"`
	Save           string   `yaml:"save"`
}

// GlobalColors are the non-face colors, as hex RGB strings.
type GlobalColors struct {
	Piece    string `yaml:"piece"`
	Filtered string `yaml:"filtered"`
	Alert    string `yaml:"alert"`
}

// MaxDim returns the highest supported puzzle dimension.
func (t *Theme) MaxDim() int { return len(t.Axes) }

// MaxLayers returns the highest supported layer count: every layer must be
// reachable through a layer key from one side or the other, plus the
// unkeyed default (outermost) layer.
func (t *Theme) MaxLayers() int { return 2*len(t.Keys.Layers) + 1 }

// SideKeyDims returns how many leading axes carry right-hand side keys,
// capping the dimension for side keybind mode.
func (t *Theme) SideKeyDims() int {
	for i, a := range t.Axes {
		if a.Pos.Keys.Side == "" || a.Neg.Keys.Side == "" {
			return i
		}
	}
	return len(t.Axes)
}

func runeOf(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// Rune accessors used by the session's key dispatch. Index i addresses
// axis i; missing keys come back as 0, which matches no input.

func (t *Theme) PosNames() []rune { return t.sideRunes(func(a Axis) string { return a.Pos.Name }) }
func (t *Theme) NegNames() []rune { return t.sideRunes(func(a Axis) string { return a.Neg.Name }) }
func (t *Theme) PosKeys() []rune {
	return t.sideRunes(func(a Axis) string { return a.Pos.Keys.Select })
}
func (t *Theme) NegKeys() []rune {
	return t.sideRunes(func(a Axis) string { return a.Neg.Keys.Select })
}
func (t *Theme) PosSideKeys() []rune {
	return t.sideRunes(func(a Axis) string { return a.Pos.Keys.Side })
}
func (t *Theme) NegSideKeys() []rune {
	return t.sideRunes(func(a Axis) string { return a.Neg.Keys.Side })
}
func (t *Theme) AxisKeys() []rune { return t.sideRunes(func(a Axis) string { return a.AxisKey }) }

func (t *Theme) sideRunes(pick func(Axis) string) []rune {
	out := make([]rune, len(t.Axes))
	for i, a := range t.Axes {
		out[i] = runeOf(pick(a))
	}
	return out
}

// LayerKeys returns the layer key runes in layer order.
func (t *Theme) LayerKeys() []rune {
	out := make([]rune, len(t.Keys.Layers))
	for i, s := range t.Keys.Layers {
		out[i] = runeOf(s)
	}
	return out
}

// KeyRune returns the rune of a single-key binding string.
func KeyRune(s string) rune { return runeOf(s) }

// Validate checks that the theme is usable: at least one axis, single-rune
// keys where required, and parseable colors.
func (t *Theme) Validate() error {
	if len(t.Axes) == 0 {
		return fmt.Errorf("config: theme has no axes")
	}
	for i, a := range t.Axes {
		for _, part := range []struct {
			what, val string
		}{
			{"pos name", a.Pos.Name},
			{"neg name", a.Neg.Name},
			{"pos select key", a.Pos.Keys.Select},
			{"neg select key", a.Neg.Keys.Select},
			{"axis key", a.AxisKey},
		} {
			if len([]rune(part.val)) != 1 {
				return fmt.Errorf("config: axis %d: %s %q must be a single character", i, part.what, part.val)
			}
		}
		if err := checkColor(a.Pos.Color); err != nil {
			return fmt.Errorf("config: axis %d pos: %w", i, err)
		}
		if err := checkColor(a.Neg.Color); err != nil {
			return fmt.Errorf("config: axis %d neg: %w", i, err)
		}
	}
	if len(t.Keys.Layers) == 0 {
		return fmt.Errorf("config: theme has no layer keys")
	}
	for _, c := range []string{t.Colors.Piece, t.Colors.Filtered, t.Colors.Alert} {
		if err := checkColor(c); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if t.DamageRepeat < 1 {
		return fmt.Errorf("config: damage_repeat must be at least 1")
	}
	if t.AlertFrames < 1 {
		return fmt.Errorf("config: alert_frames must be at least 1")
	}
	return nil
}

func checkColor(s string) error {
	if b, err := hex.DecodeString(s); err != nil || len(b) != 3 {
		return fmt.Errorf("invalid hex color %q", s)
	}
	return nil
}
