package layout

import (
	"testing"

	"github.com/ilmarin/flatcube/internal/puzzle"
)

func TestMakeLayoutLine(t *testing.T) {
	// d=1 is a strip: n+2 cells separated by single-column gaps.
	l := MakeLayout(2, 1, false)
	if l.Width != 7 || l.Height != 1 {
		t.Fatalf("bounds = %dx%d, want 7x1", l.Width, l.Height)
	}
	want := map[Coord]int{
		{0, 0}: -2,
		{2, 0}: -1,
		{4, 0}: 1,
		{6, 0}: 2,
	}
	if len(l.Points) != len(want) {
		t.Fatalf("%d points, want %d", len(l.Points), len(want))
	}
	for c, coord := range want {
		pos, ok := l.Points[c]
		if !ok || len(pos) != 1 || pos[0] != coord {
			t.Errorf("point at %v = %v, want [%d]", c, pos, coord)
		}
	}
}

func TestMakeLayoutBounds(t *testing.T) {
	for n := 1; n <= 4; n++ {
		for d := 1; d <= 4; d++ {
			l := MakeLayout(n, d, false)
			if l.Width <= 0 || l.Height <= 0 {
				t.Errorf("n=%d d=%d: empty bounds %dx%d", n, d, l.Width, l.Height)
				continue
			}
			for c := range l.Points {
				if c.X < 0 || c.X >= l.Width || c.Y < 0 || c.Y >= l.Height {
					t.Errorf("n=%d d=%d: point %v outside %dx%d", n, d, c, l.Width, l.Height)
				}
			}
			for c := range l.Hints {
				if _, ok := l.Points[c]; !ok {
					t.Errorf("n=%d d=%d: hint at %v has no cell", n, d, c)
				}
			}
		}
	}
}

func TestMakeLayoutStickerBijection(t *testing.T) {
	// Cells carrying exactly one ±n coordinate are the sticker cells; they
	// must correspond one-to-one with the puzzle's stickers. The remaining
	// cells are piece bodies and carry no boundary coordinate.
	for n := 1; n <= 4; n++ {
		for d := 1; d <= 4; d++ {
			l := MakeLayout(n, d, false)
			p := puzzle.MakeSolved(n, d)

			seen := make(map[string]int)
			for _, pos := range l.Points {
				boundary := 0
				for _, x := range pos {
					if x == n || x == -n {
						boundary++
					}
				}
				switch boundary {
				case 0:
				case 1:
					seen[pos.Key()]++
				default:
					t.Errorf("n=%d d=%d: cell position %v has %d boundary coordinates", n, d, pos, boundary)
				}
			}

			if len(seen) != p.Len() {
				t.Errorf("n=%d d=%d: %d sticker cells, puzzle has %d stickers", n, d, len(seen), p.Len())
			}
			p.Each(func(pos puzzle.Vec, _ int) {
				if seen[pos.Key()] != 1 {
					t.Errorf("n=%d d=%d: sticker %v drawn %d times", n, d, pos, seen[pos.Key()])
				}
			})
		}
	}
}

func TestMakeLayoutDeterministic(t *testing.T) {
	a := MakeLayout(3, 3, false)
	b := MakeLayout(3, 3, false)
	if a.Width != b.Width || a.Height != b.Height || len(a.Points) != len(b.Points) {
		t.Fatal("repeated generation differs in shape")
	}
	for c, pos := range a.Points {
		other, ok := b.Points[c]
		if !ok || pos.Key() != other.Key() {
			t.Fatalf("repeated generation differs at %v", c)
		}
	}
	for c, h := range a.Hints {
		if b.Hints[c] != h {
			t.Fatalf("repeated generation differs in hints at %v", c)
		}
	}
}

func TestMakeLayoutCompact(t *testing.T) {
	wide := MakeLayout(3, 4, false)
	tight := MakeLayout(3, 4, true)
	if len(wide.Points) != len(tight.Points) {
		t.Errorf("compact layout dropped cells: %d vs %d", len(tight.Points), len(wide.Points))
	}
	if tight.Width >= wide.Width {
		t.Errorf("compact width %d not smaller than %d", tight.Width, wide.Width)
	}
}

func TestMakeLayoutDeepGapsClamped(t *testing.T) {
	// Depths past the gap table reuse its last entry instead of failing.
	l := MakeLayout(1, 9, true)
	if len(l.Points) == 0 {
		t.Fatal("deep layout has no cells")
	}
}

func TestMakeLayoutHints(t *testing.T) {
	l := MakeLayout(3, 2, false)
	sides := make(map[int]int)
	for _, h := range l.Hints {
		if !h.Center {
			sides[h.Side]++
		}
	}
	for _, side := range []int{0, puzzle.Opp(0), 1, puzzle.Opp(1)} {
		if sides[side] == 0 {
			t.Errorf("no hint cell for side %d", side)
		}
	}
}

func TestMoveRight(t *testing.T) {
	l := MakeLayout(2, 2, false)
	shifted := l.Clone().MoveRight(3)
	if shifted.Width != l.Width+3 || shifted.Height != l.Height {
		t.Fatalf("bounds = %dx%d, want %dx%d", shifted.Width, shifted.Height, l.Width+3, l.Height)
	}
	for c, pos := range l.Points {
		moved, ok := shifted.Points[Coord{c.X + 3, c.Y}]
		if !ok || moved.Key() != pos.Key() {
			t.Errorf("point %v not shifted to %v", c, Coord{c.X + 3, c.Y})
		}
	}
}

func TestConcatGrid(t *testing.T) {
	cell := func(w int, pos puzzle.Vec) Layout {
		return Layout{
			Width:  w,
			Height: 1,
			Points: map[Coord]puzzle.Vec{{0, 0}: pos},
			Hints:  map[Coord]Hint{},
		}
	}

	grid := ConcatGrid([][]Layout{
		{cell(1, puzzle.Vec{0}), cell(3, puzzle.Vec{1})},
		{cell(2, puzzle.Vec{2}), cell(1, puzzle.Vec{3})},
	}, 1, 0)

	// Columns widen to their widest member: 2 and 3, one gap column.
	if grid.Width != 6 || grid.Height != 2 {
		t.Fatalf("bounds = %dx%d, want 6x2", grid.Width, grid.Height)
	}
	want := map[Coord]int{
		{0, 0}: 0,
		{3, 0}: 1,
		{0, 1}: 2,
		{3, 1}: 3,
	}
	for c, axis := range want {
		pos, ok := grid.Points[c]
		if !ok || pos[0] != axis {
			t.Errorf("cell %v = %v, want [%d]", c, pos, axis)
		}
	}
}
