// Package session implements an interactive solve: key dispatch, the turn
// builder state machines, undo/redo, sticker filters, and rendering into a
// core.Screen. It is driven by single runes and a frame tick, so any
// front end (terminal or SSH) can host it.
package session

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/ilmarin/flatcube/internal/config"
	"github.com/ilmarin/flatcube/internal/filter"
	"github.com/ilmarin/flatcube/internal/puzzle"
	"github.com/ilmarin/flatcube/internal/solvelog"
)

// Sentinel runes for keys without a printable character.
const (
	KeyEscape    = '⎋'
	KeyBackspace = '⌫'
	KeyEnter     = '\n'
)

// Mode selects what keys mean: building turns or editing the live filter.
type Mode int

const (
	ModeTurn Mode = iota
	ModeLiveFilter
)

// KeybindSet selects how turns are keyed in.
type KeybindSet int

const (
	// ThreeKey builds a turn from a side key and two plane keys.
	ThreeKey KeybindSet = iota
	// FixedKey fixes d-3 axes after the side and derives the plane from
	// the remainder; on 3D puzzles it degenerates to single-key turns.
	FixedKey
)

func (k KeybindSet) valid(n int) bool {
	return k == ThreeKey || n >= 3
}

func (k KeybindSet) next(n int) KeybindSet {
	nxt := FixedKey
	if k == FixedKey {
		nxt = ThreeKey
	}
	if !nxt.valid(n) {
		return nxt.next(n)
	}
	return nxt
}

// Name returns the display name of the set.
func (k KeybindSet) Name() string {
	if k == FixedKey {
		return "fixed-key"
	}
	return "three-key"
}

// turnBuild is the partially keyed-in turn.
type turnBuild struct {
	hasLayer    bool
	wholePuzzle bool
	layer       int
	hasSide     bool
	side        int
	hasFrom     bool
	from        int
	fixed       []int
}

// keymap is the theme flattened into rune tables for dispatch.
type keymap struct {
	layers      []rune
	posNames    []rune
	negNames    []rune
	posKeys     []rune
	negKeys     []rune
	posSideKeys []rune
	negSideKeys []rune
	axisKeys    []rune

	rotate     rune
	scramble   rune
	reset      rune
	keybind    rune
	axisMode   rune
	undo       rune
	redo       rune
	nextFilter rune
	prevFilter rune
	liveFilter rune
	save       rune
}

func newKeymap(t *config.Theme) keymap {
	return keymap{
		layers:      t.LayerKeys(),
		posNames:    t.PosNames(),
		negNames:    t.NegNames(),
		posKeys:     t.PosKeys(),
		negKeys:     t.NegKeys(),
		posSideKeys: t.PosSideKeys(),
		negSideKeys: t.NegSideKeys(),
		axisKeys:    t.AxisKeys(),
		rotate:      config.KeyRune(t.Keys.Rotate),
		scramble:    config.KeyRune(t.Keys.Scramble),
		reset:       config.KeyRune(t.Keys.Reset),
		keybind:     config.KeyRune(t.Keys.KeybindMode),
		axisMode:    config.KeyRune(t.Keys.AxisMode),
		undo:        config.KeyRune(t.Keys.Undo),
		redo:        config.KeyRune(t.Keys.Redo),
		nextFilter:  config.KeyRune(t.Keys.NextFilter),
		prevFilter:  config.KeyRune(t.Keys.PrevFilter),
		liveFilter:  config.KeyRune(t.Keys.LiveFilterMode),
		save:        config.KeyRune(t.Keys.Save),
	}
}

// Session is one interactive solve.
type Session struct {
	puzzle   *puzzle.Puzzle
	scramble *puzzle.Puzzle
	theme    *config.Theme
	keys     keymap
	rng      *rand.Rand

	mode        Mode
	currentKeys string
	build       turnBuild
	alert       int
	damageKey   rune
	damageCount int
	keybinds    KeybindSet
	axial       bool
	message     string
	hasMessage  bool
	solved      bool

	undo []puzzle.Turn
	redo []puzzle.Turn

	filters       []filter.Filter
	filterInd     int
	useLiveFilter bool
	liveBuf       string
	livePending   filter.Filter
	liveFilter    filter.Filter

	logPath string
}

// New starts a session on a freshly solved n^d puzzle.
func New(n, d int, theme *config.Theme, seed int64) *Session {
	p := puzzle.MakeSolved(n, d)
	return &Session{
		puzzle:      p,
		scramble:    p.Clone(),
		theme:       theme,
		keys:        newKeymap(theme),
		rng:         rand.New(rand.NewSource(seed)),
		keybinds:    ThreeKey,
		axial:       true,
		livePending: filter.Default(),
		liveFilter:  filter.Default(),
		logPath:     solvelog.DefaultPath(time.Now()),
	}
}

// FromLog resumes a session from a saved log by replaying its moves. The
// resumed session saves to a fresh log path.
func FromLog(l solvelog.Log, theme *config.Theme, seed int64) (*Session, error) {
	s := New(l.Scramble.N(), l.Scramble.D(), theme, seed)
	p, err := l.Replay()
	if err != nil {
		return nil, err
	}
	s.puzzle = p
	s.scramble = l.Scramble.Clone()
	s.undo = slices.Clone(l.Moves)
	return s, nil
}

// Puzzle returns the live puzzle state.
func (s *Session) Puzzle() *puzzle.Puzzle { return s.puzzle }

// N returns the layer count.
func (s *Session) N() int { return s.puzzle.N() }

// D returns the dimension count.
func (s *Session) D() int { return s.puzzle.D() }

// MoveCount returns the number of recorded moves.
func (s *Session) MoveCount() int { return len(s.undo) }

// SetFilters installs the preloaded filter list cycled by the filter keys.
func (s *Session) SetFilters(filters []filter.Filter) {
	s.filters = filters
	s.filterInd = 0
}

// LogPath returns where Save writes.
func (s *Session) LogPath() string { return s.logPath }

// ToLog snapshots the session as a persistable log.
func (s *Session) ToLog() solvelog.Log {
	return solvelog.Log{
		Scramble: s.scramble.Clone(),
		Moves:    slices.Clone(s.undo),
	}
}

// Save writes the session log to its log path.
func (s *Session) Save() error {
	return solvelog.Save(s.logPath, s.ToLog())
}

// JustSolved reports whether a turn solved the puzzle since the last call,
// clearing the flag.
func (s *Session) JustSolved() bool {
	was := s.solved
	s.solved = false
	return was
}

// Message returns the status line: an explicit message if one is set,
// otherwise the pending key sequence or the live filter buffer.
func (s *Session) Message() string {
	if s.hasMessage {
		return s.message
	}
	if s.mode == ModeLiveFilter {
		return "live filter: " + s.liveBuf
	}
	return s.currentKeys
}

// Tick advances the alert countdown; call once per frame.
func (s *Session) Tick() {
	if s.alert > 0 {
		s.alert--
	}
}

func (s *Session) setMessage(m string) {
	s.message, s.hasMessage = m, true
}

func (s *Session) flushModes() {
	s.currentKeys = ""
	s.build = turnBuild{}
	s.liveBuf = ""
}

func (s *Session) alertFrames() int { return s.theme.AlertFrames }

func (s *Session) raiseAlert() { s.alert = s.alertFrames()*4 - 1 }

// ProcessKey dispatches one key press.
func (s *Session) ProcessKey(r rune) {
	s.message, s.hasMessage = "", false

	// The scramble and reset keys are destructive, so they only fire after
	// enough consecutive presses. A press of anything else disarms them.
	if r == s.keys.scramble || r == s.keys.reset {
		if s.damageCount == 0 || s.damageKey == r {
			s.damageKey = r
			s.damageCount++
		}
	} else {
		s.damageCount = 0
	}

	switch {
	case s.damageCount == s.theme.DamageRepeat:
		s.flushModes()
		if s.damageKey == s.keys.scramble && s.puzzle.D() >= 3 {
			s.puzzle = puzzle.MakeSolved(s.puzzle.N(), s.puzzle.D())
			s.puzzle.Scramble(s.rng)
			s.setMessage(fmt.Sprintf("scrambled with %d turns", puzzle.ScrambleTurns))
			s.scramble = s.puzzle.Clone()
			s.undo, s.redo = nil, nil
		} else if s.damageKey == s.keys.reset {
			s.puzzle = puzzle.MakeSolved(s.puzzle.N(), s.puzzle.D())
			s.setMessage("puzzle reset")
			s.scramble = s.puzzle.Clone()
			s.undo, s.redo = nil, nil
		}
		s.damageCount = 0

	case r == KeyEscape:
		s.mode = ModeTurn
		s.flushModes()

	case r == s.keys.liveFilter && s.mode != ModeLiveFilter:
		s.mode = ModeLiveFilter

	case r == s.keys.save:
		if err := s.Save(); err != nil {
			s.setMessage("could not save")
		} else {
			s.setMessage("saved to " + s.logPath)
		}

	case s.mode == ModeTurn:
		s.processTurnKey(r)

	default:
		s.processFilterKey(r)
	}
}

// processTurnKey handles a key in turn mode: first the global bindings and
// the shared layer/side selection, then the active keybind set's stage.
func (s *Session) processTurnKey(r rune) {
	justPressedSide := false

	switch {
	case r == s.keys.keybind:
		s.flushModes()
		s.keybinds = s.keybinds.next(s.puzzle.N())
		s.setMessage("set keybinds to " + s.keybinds.Name())

	case r == s.keys.axisMode:
		if s.puzzle.D() > s.theme.SideKeyDims() {
			s.setMessage("not enough room for side keybinds")
		} else {
			s.flushModes()
			s.axial = !s.axial
			if s.axial {
				s.setMessage("set axis mode to axis keybinds")
			} else {
				s.setMessage("set axis mode to side keybinds")
			}
		}

	case r == s.keys.undo:
		s.flushModes()
		if len(s.undo) == 0 {
			s.setMessage("nothing to undo")
		} else {
			last := s.undo[len(s.undo)-1]
			s.undo = s.undo[:len(s.undo)-1]
			_ = s.puzzle.Turn(last.Inverse())
			s.redo = append(s.redo, last)
		}

	case r == s.keys.redo:
		s.flushModes()
		if len(s.redo) == 0 {
			s.setMessage("nothing to redo")
		} else {
			last := s.redo[len(s.redo)-1]
			s.redo = s.redo[:len(s.redo)-1]
			_ = s.puzzle.Turn(last)
			s.undo = append(s.undo, last)
		}

	case r == s.keys.nextFilter:
		if len(s.filters) == 0 {
			s.setMessage("no filters loaded")
		} else {
			s.flushModes()
			s.filterInd = (s.filterInd + 1) % len(s.filters)
			s.useLiveFilter = false
			s.setMessage("next filter")
		}

	case r == s.keys.prevFilter:
		if len(s.filters) == 0 {
			s.setMessage("no filters loaded")
		} else {
			s.flushModes()
			s.filterInd = (s.filterInd + len(s.filters) - 1) % len(s.filters)
			s.useLiveFilter = false
			s.setMessage("previous filter")
		}

	default:
		if l := slices.Index(s.keys.layers, r); l >= 0 {
			if l >= s.puzzle.N() {
				return
			}
			s.flushModes()
			s.currentKeys += string(r)
			s.build.hasLayer = true
			s.build.wholePuzzle = false
			s.build.layer = l
		} else if i := slices.Index(s.keys.posKeys, r); i >= 0 {
			if i >= s.puzzle.D() {
				return
			}
			s.selectSide(r, i)
			justPressedSide = true
		} else if i := slices.Index(s.keys.negKeys, r); i >= 0 {
			if i >= s.puzzle.D() {
				return
			}
			s.selectSide(r, puzzle.Opp(i))
			justPressedSide = true
		} else if r == s.keys.rotate {
			if s.keybinds == ThreeKey {
				s.flushModes()
				justPressedSide = true
			}
			s.currentKeys += string(r)
			s.build.hasLayer = true
			s.build.wholePuzzle = true
		}
	}

	switch {
	case s.keybinds == ThreeKey:
		s.threeKeyStage(r)
	case s.puzzle.D() == 3:
		s.fixedKeyStage3(r, justPressedSide)
	default:
		s.fixedKeyStage(r)
	}
}

// selectSide records a side selection, restarting the build unless a layer
// is pending.
func (s *Session) selectSide(r rune, side int) {
	if !s.build.hasLayer || s.build.hasSide {
		s.flushModes()
	}
	s.currentKeys += string(r)
	s.build.hasSide = true
	s.build.side = side
}

// threeKeyStage consumes the two plane keys after a side (or whole-puzzle)
// selection: the first picks the from axis, the second picks to and fires.
func (s *Session) threeKeyStage(r rune) {
	axis, ok := s.getAxisKey(r)
	if !ok || !(s.build.hasSide || (s.build.hasLayer && s.build.wholePuzzle)) {
		return
	}
	if puzzle.Ax(axis) >= s.puzzle.D() {
		return
	}
	s.currentKeys += string(r)

	side := 0
	if s.build.hasSide {
		side = s.build.side
	}
	if !s.build.hasFrom {
		s.build.hasFrom = true
		s.build.from = axis
		return
	}
	if err := s.performTurn(side, s.build.from, axis); err != nil {
		s.raiseAlert()
		s.currentKeys = trimLastRunes(s.currentKeys, 2)
	}
	s.build.hasFrom = false
}

// fixedKeyStage3 is the 3D fixed-key variant: a single right-hand key fires
// a turn of the pending side, and the right-hand keys double as flipped
// re-selections.
func (s *Session) fixedKeyStage3(r rune, justPressedSide bool) {
	flip := false
	if i := slices.Index(s.keys.posSideKeys, r); i >= 0 {
		if puzzle.Ax(i) >= s.puzzle.D() {
			return
		}
		s.selectSide(r, i)
		flip = true
		justPressedSide = true
	} else if i := slices.Index(s.keys.negSideKeys, r); i >= 0 {
		if puzzle.Ax(i) >= s.puzzle.D() {
			return
		}
		s.selectSide(r, puzzle.Opp(i))
		flip = true
		justPressedSide = true
	}

	if !s.build.hasSide || !justPressedSide {
		return
	}
	side := s.build.side

	// The plane is the two axes other than the side's, ordered so positive
	// sides turn the same way on screen; a flip or a negative side each
	// reverse it.
	var from, to int
	if side < 0 {
		from, to = (puzzle.Opp(side)+1)%3, (puzzle.Opp(side)+2)%3
	} else {
		from, to = (side+1)%3, (side+2)%3
	}
	if flip != (side < 0) {
		from, to = to, from
	}
	_ = s.performTurn(side, from, to)
}

// fixedKeyStage accumulates d-3 fixed axes after the side selection, then
// derives the remaining plane and its direction from the permutation sign.
func (s *Session) fixedKeyStage(r rune) {
	axis, ok := s.getAxisKey(r)
	if !ok {
		return
	}
	if puzzle.Ax(axis) >= s.puzzle.D() {
		return
	}
	s.currentKeys += string(r)
	s.build.fixed = append(s.build.fixed, axis)

	if !s.build.hasSide || len(s.build.fixed) != s.puzzle.D()-3 {
		return
	}

	sign := true
	axes := append([]int{s.build.side}, s.build.fixed...)
	for i := range axes {
		if axes[i] < 0 {
			sign = !sign
			axes[i] = puzzle.Opp(axes[i])
		}
	}
	for a := 0; a < s.puzzle.D(); a++ {
		if !slices.Contains(axes, a) {
			axes = append(axes, a)
		}
	}

	var err error
	if len(axes) > s.puzzle.D() {
		// A duplicate among the chosen axes: the plane is degenerate.
		err = puzzle.ErrDegenerateTurn
	} else {
		// Completing the chosen axes to a full permutation flips the
		// orientation once per swapped pair.
		if n := len(axes); n*(n-1)/2%2 == 1 {
			sign = !sign
		}
		from, to := axes[len(axes)-2], axes[len(axes)-1]
		if !sign {
			from, to = to, from
		}
		err = s.performTurn(s.build.side, from, to)
	}
	if err != nil {
		s.raiseAlert()
		s.currentKeys = trimLastRunes(s.currentKeys, len(s.build.fixed))
	}
	s.build.fixed = nil
}

// getAxisKey resolves a plane-selection key to a side code under the active
// axis mode.
func (s *Session) getAxisKey(r rune) (int, bool) {
	if s.axial {
		if i := slices.Index(s.keys.axisKeys, r); i >= 0 {
			return i, true
		}
		return 0, false
	}
	if i := slices.Index(s.keys.posSideKeys, r); i >= 0 {
		return i, true
	}
	if i := slices.Index(s.keys.negSideKeys, r); i >= 0 {
		return puzzle.Opp(i), true
	}
	return 0, false
}

// performTurn builds the turn from the pending layer selection and applies
// it. Only accepted turns enter the undo history.
func (s *Session) performTurn(side, from, to int) error {
	var t puzzle.Turn
	if s.build.hasLayer && s.build.wholePuzzle {
		t = puzzle.Rotation{From: from, To: to}
	} else {
		layerMin := s.puzzle.N() - 1
		if s.build.hasLayer {
			layerMin = s.puzzle.N() - 1 - 2*s.build.layer
		}
		layerMax := layerMin
		if side < 0 {
			layerMin, layerMax = -layerMax, -layerMin
		}
		t = puzzle.SideTurn{Side: side, LayerMin: layerMin, LayerMax: layerMax, From: from, To: to}
	}

	if err := s.puzzle.Turn(t); err != nil {
		return err
	}
	s.undo = append(s.undo, t)
	if s.puzzle.IsSolved() {
		s.solved = true
		s.setMessage("solved!")
	}
	return nil
}

// processFilterKey edits the live filter buffer. Side keys insert their
// side's name, names type through directly, and Enter commits.
func (s *Session) processFilterKey(r rune) {
	if r == '+' || r == '!' {
		s.liveBuf += string(r)
	} else if i := slices.Index(s.keys.posKeys, r); i >= 0 {
		if i >= s.puzzle.D() {
			return
		}
		s.liveBuf += string(s.keys.posNames[i])
	} else if i := slices.Index(s.keys.negKeys, r); i >= 0 {
		if i >= s.puzzle.D() {
			return
		}
		s.liveBuf += string(s.keys.negNames[i])
	} else if slices.Contains(s.keys.posNames, r) || slices.Contains(s.keys.negNames, r) {
		s.liveBuf += string(r)
	} else if r == KeyBackspace {
		s.liveBuf = trimLastRunes(s.liveBuf, 1)
	}

	parsed, err := filter.Parse(s.liveBuf, s.keys.posNames, s.keys.negNames)
	if err == nil {
		s.livePending = parsed
	}

	if r == KeyEnter {
		if err != nil {
			s.setMessage(err.Error())
		} else {
			s.flushModes()
			s.mode = ModeTurn
			s.useLiveFilter = true
			s.liveFilter = s.livePending
		}
	}
}

// activeFilter picks the filter the renderer should apply right now.
func (s *Session) activeFilter() filter.Filter {
	switch {
	case s.mode == ModeLiveFilter:
		return s.livePending
	case s.useLiveFilter:
		return s.liveFilter
	case s.filterInd < len(s.filters):
		return s.filters[s.filterInd]
	default:
		return filter.Default()
	}
}

func trimLastRunes(s string, n int) string {
	rs := []rune(s)
	if n >= len(rs) {
		return ""
	}
	return string(rs[:len(rs)-n])
}
