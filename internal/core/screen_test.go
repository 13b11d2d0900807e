package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(10, 5)
	if s.Width() != 10 || s.Height() != 5 {
		t.Errorf("size = %dx%d, want 10x5", s.Width(), s.Height())
	}
	if got := s.GetCell(3, 2); got.Rune != ' ' || got.Color != ColorDefault {
		t.Errorf("fresh cell = %+v, want default space", got)
	}
}

func TestSetGetCell(t *testing.T) {
	s := NewScreen(4, 3)
	s.SetCell(1, 2, 'R', FaceColor(0))
	got := s.GetCell(1, 2)
	if got.Rune != 'R' || got.Color != FaceColor(0) {
		t.Errorf("cell = %+v", got)
	}
	if s.Get(1, 2) != 'R' {
		t.Error("Get disagrees with GetCell")
	}
}

func TestOutOfBounds(t *testing.T) {
	s := NewScreen(4, 3)
	coords := []struct{ x, y int }{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}}
	for _, c := range coords {
		s.SetCell(c.x, c.y, 'x', ColorAlert)
		if got := s.GetCell(c.x, c.y); got.Rune != ' ' || got.Color != ColorDefault {
			t.Errorf("out-of-bounds cell (%d, %d) = %+v", c.x, c.y, got)
		}
	}
}

func TestClearResetsColors(t *testing.T) {
	s := NewScreen(3, 3)
	s.SetCell(0, 0, '+', ColorAlert)
	s.Clear()
	if got := s.GetCell(0, 0); got.Rune != ' ' || got.Color != ColorDefault {
		t.Errorf("cleared cell = %+v", got)
	}
}

func TestDrawText(t *testing.T) {
	s := NewScreen(6, 2)
	s.DrawText(2, 1, "solved!")
	if got := s.Row(1); got != "  solv" {
		t.Errorf("row = %q, want %q", got, "  solv")
	}
	if got := s.Row(0); got != strings.Repeat(" ", 6) {
		t.Errorf("untouched row = %q", got)
	}
}

func TestDrawTextMultibyte(t *testing.T) {
	s := NewScreen(4, 1)
	s.DrawText(0, 0, "ΓΔ·")
	if got := s.Row(0); got != "ΓΔ· " {
		t.Errorf("row = %q", got)
	}
}

func TestString(t *testing.T) {
	s := NewScreen(2, 2)
	s.Set(0, 0, 'a')
	s.Set(1, 1, 'b')
	if got := s.String(); got != "a \n b" {
		t.Errorf("String() = %q", got)
	}
}

func TestResize(t *testing.T) {
	s := NewScreen(4, 2)
	s.SetCell(1, 1, 'x', ColorPiece)
	s.Resize(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, want 6x3", s.Width(), s.Height())
	}
	if got := s.GetCell(1, 1); got.Rune != 'x' || got.Color != ColorPiece {
		t.Errorf("cell lost on grow: %+v", got)
	}

	s.Resize(2, 1)
	if got := s.GetCell(1, 1); got.Rune != ' ' {
		t.Errorf("cell survived shrink out of bounds: %+v", got)
	}
}

func TestFaceColorSlots(t *testing.T) {
	seen := make(map[Color]int)
	for axis := 0; axis < 10; axis++ {
		for _, side := range []int{axis, ^axis} {
			c := FaceColor(side)
			if prev, dup := seen[c]; dup {
				t.Errorf("FaceColor(%d) collides with FaceColor(%d)", side, prev)
			}
			seen[c] = side
			for _, fixed := range []Color{ColorDefault, ColorPiece, ColorFiltered, ColorAlert} {
				if c == fixed {
					t.Errorf("FaceColor(%d) collides with fixed color %d", side, fixed)
				}
			}
		}
	}
}
