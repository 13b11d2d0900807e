// Package layout turns an n^d puzzle into a 2D character net: a mapping
// from screen coordinates to position vectors, built by recursively slicing
// one axis at a time and packing the slices. Generation is deterministic and
// depends only on (n, d, compact), never on puzzle state.
package layout

import (
	"slices"

	"github.com/ilmarin/flatcube/internal/puzzle"
)

// Gap tables indexed by recursion depth: columns between slices at odd
// depths, rows at even depths. Depths past the table reuse the last entry.
var (
	gaps        = []int{0, 1, 0, 2, 1, 10, 4, 40, 18}
	gapsCompact = []int{0, 1, 0, 1, 0, 1, 0, 1, 0}
)

// Coord is a screen cell position.
type Coord struct {
	X, Y int
}

// Hint marks a cell that displays a keybind: either the rotation center of a
// sub-layout (Center) or the select key for one side.
type Hint struct {
	Side   int
	Center bool
}

// Layout is a packed net: occupied cells with their position vectors, hint
// cells, and the bounding size. Transform methods consume their receiver and
// may alias its maps; use Clone first to keep the input.
type Layout struct {
	Width  int
	Height int
	Points map[Coord]puzzle.Vec
	Hints  map[Coord]Hint
}

func newLayout() Layout {
	return Layout{
		Points: make(map[Coord]puzzle.Vec),
		Hints:  make(map[Coord]Hint),
	}
}

// Clone returns an independent copy.
func (l Layout) Clone() Layout {
	out := newLayout()
	out.Width, out.Height = l.Width, l.Height
	for c, pos := range l.Points {
		out.Points[c] = pos.Clone()
	}
	for c, h := range l.Hints {
		out.Hints[c] = h
	}
	return out
}

// MoveRight translates the layout by shift columns, growing the width.
func (l Layout) MoveRight(shift int) Layout {
	out := newLayout()
	out.Width, out.Height = l.Width+shift, l.Height
	for c, pos := range l.Points {
		out.Points[Coord{c.X + shift, c.Y}] = pos
	}
	for c, h := range l.Hints {
		out.Hints[Coord{c.X + shift, c.Y}] = h
	}
	return out
}

// moveDown translates the layout by shift rows, growing the height.
func (l Layout) moveDown(shift int) Layout {
	out := newLayout()
	out.Width, out.Height = l.Width, l.Height+shift
	for c, pos := range l.Points {
		out.Points[Coord{c.X, c.Y + shift}] = pos
	}
	for c, h := range l.Hints {
		out.Hints[Coord{c.X, c.Y + shift}] = h
	}
	return out
}

// squishLeft shifts the content so the leftmost occupied column is 0.
func (l Layout) squishLeft() Layout {
	minX, first := 0, true
	for c := range l.Points {
		if first || c.X < minX {
			minX, first = c.X, false
		}
	}
	return l.MoveRight(-minX)
}

// squishRight shrinks the width to the rightmost occupied column.
func (l Layout) squishRight() Layout {
	maxX := -1
	for c := range l.Points {
		if c.X > maxX {
			maxX = c.X
		}
	}
	l.Width = maxX + 1
	return l
}

func (l Layout) squishTop() Layout {
	minY, first := 0, true
	for c := range l.Points {
		if first || c.Y < minY {
			minY, first = c.Y, false
		}
	}
	return l.moveDown(-minY)
}

func (l Layout) squishBottom() Layout {
	maxY := -1
	for c := range l.Points {
		if c.Y > maxY {
			maxY = c.Y
		}
	}
	l.Height = maxY + 1
	return l
}

func (l Layout) squishHoriz() Layout { return l.squishLeft().squishRight() }
func (l Layout) squishVert() Layout  { return l.squishTop().squishBottom() }

// union overlays other onto l; the bounding box covers both.
func (l Layout) union(other Layout) Layout {
	for c, pos := range other.Points {
		l.Points[c] = pos
	}
	for c, h := range other.Hints {
		l.Hints[c] = h
	}
	l.Width = max(l.Width, other.Width)
	l.Height = max(l.Height, other.Height)
	return l
}

func (l Layout) joinHoriz(other Layout, gap int) Layout {
	return l.union(other.MoveRight(l.Width + gap))
}

func (l Layout) joinVert(other Layout, gap int) Layout {
	return l.union(other.moveDown(l.Height + gap))
}

func concatHoriz(items []Layout, gap int) Layout {
	out := items[0]
	for _, it := range items[1:] {
		out = out.joinHoriz(it, gap)
	}
	return out
}

func concatVert(items []Layout, gap int) Layout {
	out := items[0]
	for _, it := range items[1:] {
		out = out.joinVert(it, gap)
	}
	return out
}

// ConcatGrid packs rows of layouts into one, first widening every column to
// its widest member so the rows line up.
func ConcatGrid(rows [][]Layout, gapHoriz, gapVert int) Layout {
	for i := range rows[0] {
		maxW := 0
		for _, row := range rows {
			maxW = max(maxW, row[i].Width)
		}
		for j := range rows {
			rows[j][i].Width = maxW
		}
	}
	stacked := make([]Layout, len(rows))
	for i, row := range rows {
		stacked[i] = concatHoriz(row, gapHoriz)
	}
	return concatVert(stacked, gapVert)
}

// pushAll appends coordinate x to every stored position, copying the layout.
func (l Layout) pushAll(x int) Layout {
	out := newLayout()
	out.Width, out.Height = l.Width, l.Height
	for c, pos := range l.Points {
		next := make(puzzle.Vec, len(pos)+1)
		copy(next, pos)
		next[len(pos)] = x
		out.Points[c] = next
	}
	for c, h := range l.Hints {
		out.Hints[c] = h
	}
	return out
}

// clean drops positions that picked up a second boundary coordinate, keeping
// only sticker and piece-body cells.
func (l Layout) clean(n int) Layout {
	for c, pos := range l.Points {
		boundary := 0
		for _, x := range pos {
			if x == n || x == -n {
				boundary++
			}
		}
		if boundary > 1 {
			delete(l.Points, c)
		}
	}
	return l
}

// retagHints rewrites the hints of one slice copy. The interior slices next
// to the two boundary slices advertise the newly added axis (negative and
// positive side respectively) at their center cells; the middle slices keep
// their hints; every other slice drops them.
func (l Layout) retagHints(i, n, d int) Layout {
	for c, h := range l.Hints {
		switch {
		case i == -n+1:
			if !h.Center {
				delete(l.Hints, c)
				continue
			}
			l.Hints[c] = Hint{Side: puzzle.Opp(d - 1)}
		case i == n-1:
			if !h.Center {
				delete(l.Hints, c)
				continue
			}
			l.Hints[c] = Hint{Side: d - 1}
		default:
			if i != 0 && i != 1 {
				delete(l.Hints, c)
			}
		}
	}
	return l
}

// sliceValues is the ordered coordinate sequence along one axis: the two
// boundary values flanking the step-2 interior values.
func sliceValues(n int) []int {
	out := []int{-n}
	for c := -n + 1; c < n; c += 2 {
		out = append(out, c)
	}
	return append(out, n)
}

// MakeLayout builds the net of an n^d puzzle. Each recursion step slices the
// newest axis into n+2 copies of the (d-1)-net, keeps the cells that are
// still stickers or piece bodies, shrink-wraps the two face slices, and
// packs the row: columns at odd depths, rows (reversed) at even depths.
func MakeLayout(n, d int, compact bool) Layout {
	gapTable := gaps
	if compact {
		gapTable = gapsCompact
	}

	if d == 0 {
		l := newLayout()
		l.Width, l.Height = 1, 1
		l.Points[Coord{0, 0}] = puzzle.Vec{}
		if n > 2 {
			l.Hints[Coord{0, 0}] = Hint{Center: true}
		}
		return l
	}

	lower := MakeLayout(n, d-1, compact)
	row := make([]Layout, 0, n+2)
	for _, i := range sliceValues(n) {
		cur := lower.pushAll(i).clean(n)
		if i == n || i == -n {
			if d%2 == 1 {
				cur = cur.squishHoriz()
			} else {
				cur = cur.squishVert()
			}
		}
		row = append(row, cur.retagHints(i, n, d))
	}

	gap := gapTable[min(d, len(gapTable)-1)]
	if d%2 == 1 {
		return concatHoriz(row, gap)
	}
	slices.Reverse(row)
	return concatVert(row, gap)
}
