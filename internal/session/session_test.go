package session

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ilmarin/flatcube/internal/config"
	"github.com/ilmarin/flatcube/internal/core"
	"github.com/ilmarin/flatcube/internal/layout"
	"github.com/ilmarin/flatcube/internal/puzzle"
)

func testTheme(t *testing.T) *config.Theme {
	t.Helper()
	th, err := config.LoadTheme("")
	if err != nil {
		t.Fatalf("loading default theme: %v", err)
	}
	return th
}

func newSession(t *testing.T, n, d int) *Session {
	t.Helper()
	s := New(n, d, testTheme(t), 1)
	s.logPath = filepath.Join(t.TempDir(), "solve.log")
	return s
}

func press(s *Session, keys string) {
	for _, r := range keys {
		s.ProcessKey(r)
	}
}

func TestThreeKeyTurn(t *testing.T) {
	// Side R (key f), then plane axes 1 and 2 (axis keys j, l).
	s := newSession(t, 3, 3)
	press(s, "fjl")

	want := puzzle.MakeSolved(3, 3)
	if err := want.Turn(puzzle.SideTurn{Side: 0, LayerMin: 2, LayerMax: 2, From: 1, To: 2}); err != nil {
		t.Fatal(err)
	}
	if !s.Puzzle().Equal(want) {
		t.Error("three-key turn did not apply the outer-layer side turn")
	}
	if s.MoveCount() != 1 {
		t.Errorf("MoveCount = %d, want 1", s.MoveCount())
	}
}

func TestLayerKeySelectsDeeperLayer(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "2fjl")

	want := puzzle.MakeSolved(3, 3)
	if err := want.Turn(puzzle.SideTurn{Side: 0, LayerMin: 0, LayerMax: 0, From: 1, To: 2}); err != nil {
		t.Fatal(err)
	}
	if !s.Puzzle().Equal(want) {
		t.Error("layer key did not move the turn one layer inward")
	}
}

func TestNegativeSideMirrorsLayers(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "sjl")

	want := puzzle.MakeSolved(3, 3)
	if err := want.Turn(puzzle.SideTurn{Side: puzzle.Opp(0), LayerMin: -2, LayerMax: -2, From: 1, To: 2}); err != nil {
		t.Fatal(err)
	}
	if !s.Puzzle().Equal(want) {
		t.Error("negative side turn did not mirror the layer window")
	}
}

func TestWholePuzzleRotation(t *testing.T) {
	s := newSession(t, 2, 3)
	press(s, "xjl")

	want := puzzle.MakeSolved(2, 3)
	if err := want.Turn(puzzle.Rotation{From: 1, To: 2}); err != nil {
		t.Fatal(err)
	}
	if !s.Puzzle().Equal(want) {
		t.Error("rotate key did not apply a whole-puzzle rotation")
	}
	if !s.Puzzle().IsSolved() {
		t.Error("rotation broke the solved state")
	}
	if s.MoveCount() != 1 {
		t.Errorf("MoveCount = %d, want 1", s.MoveCount())
	}
}

func TestInvalidTurnAlertsAndKeepsState(t *testing.T) {
	// Side R with a plane containing its own axis (axis key k is axis 0).
	s := newSession(t, 3, 3)
	press(s, "fkj")

	if s.MoveCount() != 0 {
		t.Errorf("rejected turn entered history: MoveCount = %d", s.MoveCount())
	}
	if !s.Puzzle().IsSolved() {
		t.Error("rejected turn modified the puzzle")
	}
	if s.alert == 0 {
		t.Error("rejected turn raised no alert")
	}
	if got := s.Message(); got != "f" {
		t.Errorf("pending keys after rejection = %q, want %q", got, "f")
	}
}

func TestUndoRedo(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "fjl")

	press(s, "z")
	if !s.Puzzle().IsSolved() {
		t.Fatal("undo did not restore the solved state")
	}
	if s.MoveCount() != 0 {
		t.Errorf("MoveCount after undo = %d", s.MoveCount())
	}

	press(s, "Z")
	if s.Puzzle().IsSolved() {
		t.Fatal("redo did not reapply the turn")
	}
	if s.MoveCount() != 1 {
		t.Errorf("MoveCount after redo = %d", s.MoveCount())
	}

	press(s, "z")
	press(s, "z")
	if got := s.Message(); got != "nothing to undo" {
		t.Errorf("message = %q, want %q", got, "nothing to undo")
	}
}

func TestSolvedMessage(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "fjl")
	if s.JustSolved() {
		t.Fatal("solved flag set after a single turn")
	}
	press(s, "flj")
	if got := s.Message(); got != "solved!" {
		t.Errorf("message = %q, want %q", got, "solved!")
	}
	if !s.JustSolved() {
		t.Error("solved flag not set")
	}
	if s.JustSolved() {
		t.Error("solved flag not cleared by reading it")
	}
}

func TestDamageGuardedScramble(t *testing.T) {
	s := newSession(t, 3, 3)

	press(s, "====")
	if !s.Puzzle().IsSolved() {
		t.Fatal("scramble fired early")
	}
	press(s, "=")
	if s.Puzzle().IsSolved() {
		t.Fatal("five presses did not scramble")
	}
	if got := s.Message(); got != "scrambled with 5000 turns" {
		t.Errorf("message = %q", got)
	}
	if s.MoveCount() != 0 {
		t.Error("scramble left moves in the history")
	}

	press(s, "-----")
	if !s.Puzzle().IsSolved() {
		t.Fatal("reset did not restore the solved state")
	}
	if got := s.Message(); got != "puzzle reset" {
		t.Errorf("message = %q", got)
	}
}

func TestDamageCounterDisarmedByOtherKeys(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "====j=")
	if !s.Puzzle().IsSolved() {
		t.Error("scramble fired despite an interrupting key")
	}
}

func TestScrambleNeedsThreeDimensions(t *testing.T) {
	s := newSession(t, 3, 2)
	press(s, "=====")
	if !s.Puzzle().IsSolved() {
		t.Error("a 2D puzzle was scrambled")
	}
}

func TestKeybindSetCycling(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "\\")
	if s.keybinds != FixedKey {
		t.Fatalf("keybinds = %v, want FixedKey", s.keybinds)
	}
	if got := s.Message(); got != "set keybinds to fixed-key" {
		t.Errorf("message = %q", got)
	}
	press(s, "\\")
	if s.keybinds != ThreeKey {
		t.Errorf("keybinds = %v, want ThreeKey", s.keybinds)
	}

	// Fixed-key needs n >= 3, so a 2-layer puzzle never leaves three-key.
	s2 := newSession(t, 2, 3)
	press(s2, "\\")
	if s2.keybinds != ThreeKey {
		t.Error("fixed-key enabled on a 2-layer puzzle")
	}
}

func TestFixedKeyThreeDimensions(t *testing.T) {
	// In 3D fixed-key mode a single right-hand key both selects the side
	// and fires the turn, with the plane flipped.
	s := newSession(t, 3, 3)
	press(s, "\\")
	press(s, "l")

	want := puzzle.MakeSolved(3, 3)
	if err := want.Turn(puzzle.SideTurn{Side: 0, LayerMin: 2, LayerMax: 2, From: 2, To: 1}); err != nil {
		t.Fatal(err)
	}
	if !s.Puzzle().Equal(want) {
		t.Error("right-hand key did not fire the flipped turn")
	}

	// The left-hand select key fires the unflipped turn.
	s2 := newSession(t, 3, 3)
	press(s2, "\\")
	press(s2, "f")
	want2 := puzzle.MakeSolved(3, 3)
	if err := want2.Turn(puzzle.SideTurn{Side: 0, LayerMin: 2, LayerMax: 2, From: 1, To: 2}); err != nil {
		t.Fatal(err)
	}
	if !s2.Puzzle().Equal(want2) {
		t.Error("select key did not fire the unflipped turn")
	}
}

func TestFixedKeyHigherDimensions(t *testing.T) {
	// d=5: side, then d-3 fixed axes; the remaining two axes form the
	// plane, ordered by the permutation sign.
	s := newSession(t, 3, 5)
	press(s, "\\")
	press(s, "f")  // side 0
	press(s, "iu") // fix axes 3 and 4

	want := puzzle.MakeSolved(3, 5)
	if err := want.Turn(puzzle.SideTurn{Side: 0, LayerMin: 2, LayerMax: 2, From: 1, To: 2}); err != nil {
		t.Fatal(err)
	}
	if !s.Puzzle().Equal(want) {
		t.Error("fixed-key turn applied the wrong plane")
	}
	if s.MoveCount() != 1 {
		t.Errorf("MoveCount = %d, want 1", s.MoveCount())
	}
}

func TestFixedKeyDuplicateAxisAlerts(t *testing.T) {
	s := newSession(t, 3, 5)
	press(s, "\\")
	press(s, "f")  // side 0
	press(s, "ki") // axis 0 duplicates the side's axis

	if s.MoveCount() != 0 {
		t.Error("duplicate-axis selection performed a turn")
	}
	if s.alert == 0 {
		t.Error("duplicate-axis selection raised no alert")
	}
}

func TestLiveFilterEntry(t *testing.T) {
	s := newSession(t, 3, 3)

	press(s, "F")
	if s.mode != ModeLiveFilter {
		t.Fatal("live filter key did not switch modes")
	}

	// Side keys type their face's name.
	press(s, "f")
	if got := s.Message(); got != "live filter: R" {
		t.Errorf("message = %q", got)
	}
	s.ProcessKey('!')
	s.ProcessKey('U')
	if s.liveBuf != "R!U" {
		t.Errorf("buffer = %q, want %q", s.liveBuf, "R!U")
	}
	s.ProcessKey(KeyBackspace)
	if s.liveBuf != "R!" {
		t.Errorf("buffer after backspace = %q", s.liveBuf)
	}
	s.ProcessKey('D')

	s.ProcessKey(KeyEnter)
	if s.mode != ModeTurn {
		t.Error("commit did not return to turn mode")
	}
	if !s.useLiveFilter {
		t.Error("committed filter not active")
	}
	piece := []int{0, puzzle.Opp(1)}
	if s.activeFilter().MatchStickers(piece) {
		t.Error("filter R!D matched a piece holding D")
	}
	if !s.activeFilter().MatchStickers([]int{0, 1}) {
		t.Error("filter R!D rejected a matching piece")
	}
}

func TestLiveFilterBadExpression(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "F")
	s.ProcessKey('!')
	s.ProcessKey('!')
	s.ProcessKey(KeyEnter)
	if s.mode != ModeLiveFilter {
		t.Error("a bad expression was committed")
	}
	if s.Message() == "" {
		t.Error("no parse error reported")
	}

	s.ProcessKey(KeyEscape)
	if s.mode != ModeTurn || s.liveBuf != "" {
		t.Error("escape did not abort the live filter")
	}
}

func TestFilterCyclingWithoutFilters(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "K")
	if got := s.Message(); got != "no filters loaded" {
		t.Errorf("message = %q", got)
	}
}

func TestSaveAndResume(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "fjl")
	press(s, "2ekl")

	press(s, "S")
	if got := s.Message(); !strings.HasPrefix(got, "saved to ") {
		t.Fatalf("message = %q", got)
	}

	resumed, err := FromLog(s.ToLog(), testTheme(t), 2)
	if err != nil {
		t.Fatal(err)
	}
	if !resumed.Puzzle().Equal(s.Puzzle()) {
		t.Error("resumed session differs from the saved one")
	}
	if resumed.MoveCount() != s.MoveCount() {
		t.Errorf("resumed MoveCount = %d, want %d", resumed.MoveCount(), s.MoveCount())
	}
}

func TestRenderLine(t *testing.T) {
	s := newSession(t, 2, 1)
	lay := layout.MakeLayout(2, 1, false)
	scr := core.NewScreen(lay.Width, lay.Height+1)

	s.Render(scr, lay, false)
	if got := scr.Row(0); got != "L · · R" {
		t.Errorf("row = %q, want %q", got, "L · · R")
	}
	if scr.GetCell(0, 0).Color != core.FaceColor(puzzle.Opp(0)) {
		t.Error("left face has the wrong color")
	}
	if scr.GetCell(2, 0).Color != core.ColorPiece {
		t.Error("piece cell has the wrong color")
	}

	s.Render(scr, lay, true)
	if got := scr.Get(6, 0); got != '■' {
		t.Errorf("boxes glyph = %q", got)
	}
}

func TestRenderAlertBlinks(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "fkj") // invalid turn raises the alert

	lay := layout.MakeLayout(3, 3, false)
	scr := core.NewScreen(lay.Width, lay.Height+1)

	s.Render(scr, lay, false)
	if !strings.Contains(scr.String(), "+") {
		t.Error("no blinking cells during alert")
	}

	for i := 0; i < s.theme.AlertFrames; i++ {
		s.Tick()
	}
	s.Render(scr, lay, false)
	if strings.Contains(scr.String(), "+") {
		t.Error("blink phase did not end")
	}
}

func TestRenderMessageLine(t *testing.T) {
	s := newSession(t, 3, 3)
	press(s, "f")
	lay := layout.MakeLayout(3, 3, false)
	scr := core.NewScreen(lay.Width, lay.Height+1)
	s.Render(scr, lay, false)
	if got := strings.TrimRight(scr.Row(lay.Height), " "); got != "f" {
		t.Errorf("status line = %q, want %q", got, "f")
	}
}
