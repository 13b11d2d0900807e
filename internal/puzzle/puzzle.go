package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sort"
)

// Vec is a position vector with one signed coordinate per axis. A sticker
// position has exactly one coordinate equal to ±n; the others step by 2
// through [-(n-1), n-1]. Shifting the ±n coordinate one step inward gives
// the position of the piece the sticker is attached to.
type Vec []int

const coordBias = 128

// Key packs a vector into a string usable as a map key, one byte per
// coordinate, biased so negative values fit.
func (v Vec) Key() string {
	b := make([]byte, len(v))
	for i, c := range v {
		b[i] = byte(c + coordBias)
	}
	return string(b)
}

// FromKey unpacks a key produced by Key.
func FromKey(k string) Vec {
	v := make(Vec, len(k))
	for i := 0; i < len(k); i++ {
		v[i] = int(k[i]) - coordBias
	}
	return v
}

// Clone returns an independent copy of the vector.
func (v Vec) Clone() Vec { return slices.Clone(v) }

// rotateRight cycles coordinates one slot toward higher indices.
func rotateRight(v Vec) {
	if len(v) < 2 {
		return
	}
	last := v[len(v)-1]
	copy(v[1:], v[:len(v)-1])
	v[0] = last
}

var (
	// ErrDegenerateTurn reports a rotation plane spanned by a single axis.
	ErrDegenerateTurn = errors.New("puzzle: from and to lie on the same axis")

	// ErrSideInPlane reports a side turn whose restricting axis lies inside
	// its own rotation plane.
	ErrSideInPlane = errors.New("puzzle: side axis lies in the rotation plane")
)

// Puzzle is the sticker-to-color mapping of an n^d puzzle. The position set
// is fixed at construction; turns permute values only, so a turn either
// applies completely or leaves the state untouched.
type Puzzle struct {
	n        int
	d        int
	stickers map[string]int
}

// N returns the layer count per axis.
func (p *Puzzle) N() int { return p.n }

// D returns the dimension count.
func (p *Puzzle) D() int { return p.d }

// Len returns the number of stickers.
func (p *Puzzle) Len() int { return len(p.stickers) }

// MakeSolved builds the canonical solved puzzle: every sticker of side s
// carries color s. Callers validate n ≥ 1 and d ≥ 1.
func MakeSolved(n, d int) *Puzzle {
	p := &Puzzle{n: n, d: d, stickers: make(map[string]int)}
	if d == 1 {
		p.stickers[Vec{-n}.Key()] = Opp(0)
		p.stickers[Vec{n}.Key()] = 0
		return p
	}

	interior := make([]int, 0, n)
	for c := -n + 1; c < n; c += 2 {
		interior = append(interior, c)
	}

	// Seed every sticker of axis 0's two sides, then rotate each position
	// vector through all d cyclic shifts: shift f moves the boundary
	// coordinate to axis f, and the color advances with it.
	for _, side := range []int{n, -n} {
		combo := make(Vec, d)
		combo[0] = side
		var fill func(i int)
		fill = func(i int) {
			if i == d {
				pos := combo.Clone()
				for f := 0; f < d; f++ {
					color := f
					if side < 0 {
						color = Opp(f)
					}
					p.stickers[pos.Key()] = color
					rotateRight(pos)
				}
				return
			}
			for _, c := range interior {
				combo[i] = c
				fill(i + 1)
			}
		}
		fill(1)
	}
	return p
}

// Clone returns an independent copy of the puzzle.
func (p *Puzzle) Clone() *Puzzle {
	out := &Puzzle{n: p.n, d: p.d, stickers: make(map[string]int, len(p.stickers))}
	for k, v := range p.stickers {
		out.stickers[k] = v
	}
	return out
}

// Equal reports whether two puzzles have identical size and sticker colors.
func (p *Puzzle) Equal(other *Puzzle) bool {
	if p.n != other.n || p.d != other.d || len(p.stickers) != len(other.stickers) {
		return false
	}
	for k, v := range p.stickers {
		if ov, ok := other.stickers[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// ColorAt returns the color of the sticker at pos, if pos is a sticker
// position.
func (p *Puzzle) ColorAt(pos Vec) (int, bool) {
	c, ok := p.stickers[pos.Key()]
	return c, ok
}

// Each calls fn for every (position, color) pair in unspecified order.
func (p *Puzzle) Each(fn func(pos Vec, color int)) {
	for k, color := range p.stickers {
		fn(FromKey(k), color)
	}
}

// Turn applies t, or returns an error leaving the state unchanged.
func (p *Puzzle) Turn(t Turn) error {
	switch t := t.(type) {
	case SideTurn:
		return p.sideTurn(t)
	case Rotation:
		return p.rotate(t)
	default:
		return fmt.Errorf("puzzle: unknown turn type %T", t)
	}
}

// normalizePlane reduces a signed from/to pair to unsigned axes. Mirroring
// one axis of the plane reverses the rotation, and mirroring both cancels,
// so a single sign disagreement swaps the pair.
func normalizePlane(from, to int) (int, int) {
	flip := (from < 0) != (to < 0)
	if from < 0 {
		from = Opp(from)
	}
	if to < 0 {
		to = Opp(to)
	}
	if flip {
		from, to = to, from
	}
	return from, to
}

// preimage writes into pre the position that maps onto pos under a quarter
// turn from axis `from` toward axis `to`.
func preimage(pre, pos Vec, from, to int) {
	copy(pre, pos)
	pre[from] = pos[to]
	pre[to] = -pos[from]
}

func (p *Puzzle) sideTurn(t SideTurn) error {
	if Ax(t.Side) == Ax(t.From) || Ax(t.Side) == Ax(t.To) {
		return ErrSideInPlane
	}
	if Ax(t.From) == Ax(t.To) {
		return ErrDegenerateTurn
	}

	// Widen the window by one in each direction so the ±n boundary
	// coordinates flanking the selected layers are included. Interior
	// coordinates and the boundary differ in parity, so nothing else can
	// land in the padding.
	lo, hi := t.LayerMin-1, t.LayerMax+1
	from, to := normalizePlane(t.From, t.To)
	axis := Ax(t.Side)

	pre := make(Vec, p.d)
	updates := make(map[string]int)
	for k := range p.stickers {
		if c := int(k[axis]) - coordBias; c < lo || c > hi {
			continue
		}
		preimage(pre, FromKey(k), from, to)
		updates[k] = p.stickers[pre.Key()]
	}
	for k, color := range updates {
		p.stickers[k] = color
	}
	return nil
}

func (p *Puzzle) rotate(t Rotation) error {
	if Ax(t.From) == Ax(t.To) {
		return ErrDegenerateTurn
	}
	from, to := normalizePlane(t.From, t.To)

	pre := make(Vec, p.d)
	updates := make(map[string]int, len(p.stickers))
	for k := range p.stickers {
		preimage(pre, FromKey(k), from, to)
		updates[k] = p.stickers[pre.Key()]
	}
	for k, color := range updates {
		p.stickers[k] = color
	}
	return nil
}

// face returns the side code of the face a sticker position lies on.
func (p *Puzzle) face(pos Vec) int {
	for i, c := range pos {
		if c == p.n {
			return i
		}
		if c == -p.n {
			return Opp(i)
		}
	}
	return 0
}

// IsSolved reports whether every face is monochromatic. The puzzle's
// orientation does not matter: a whole-puzzle rotation of a solved state is
// still solved.
func (p *Puzzle) IsSolved() bool {
	faceColor := make(map[int]int, 2*p.d)
	for k, color := range p.stickers {
		f := p.face(FromKey(k))
		if prev, ok := faceColor[f]; ok {
			if prev != color {
				return false
			}
		} else {
			faceColor[f] = color
		}
	}
	return true
}

// pieceBody shifts a sticker position one step inward onto the piece it
// belongs to. Interior positions come back unchanged.
func (p *Puzzle) pieceBody(pos Vec) Vec {
	body := pos.Clone()
	for i, c := range body {
		if c == p.n {
			body[i]--
			return body
		}
		if c == -p.n {
			body[i]++
			return body
		}
	}
	return body
}

// Stickers returns the colors attached to the piece at the given position,
// which may be a sticker or a piece-body cell. A piece shows a sticker on
// every axis where its body coordinate sits against a face. When n == 1 the
// two faces of each axis fold onto the same body cell, so each axis
// contributes the probed color and its complement.
func (p *Puzzle) Stickers(pos Vec) []int {
	body := p.pieceBody(pos)
	var colors []int
	probe := body.Clone()
	for i, c := range body {
		switch c {
		case p.n - 1:
			probe[i] = c + 1
		case -(p.n - 1):
			probe[i] = c - 1
		default:
			continue
		}
		color := p.stickers[probe.Key()]
		probe[i] = c
		colors = append(colors, color)
		if p.n == 1 {
			colors = append(colors, Opp(color))
		}
	}
	return colors
}

// ScrambleTurns is the number of random side turns a scramble applies.
const ScrambleTurns = 5000

// Scramble applies ScrambleTurns random single-layer side turns. Each turn
// draws three distinct axes from a shuffle, so every turn is valid. Puzzles
// below three dimensions have no valid side turns and are left unchanged.
func (p *Puzzle) Scramble(rng *rand.Rand) {
	if p.d < 3 {
		return
	}
	for i := 0; i < ScrambleTurns; i++ {
		axes := rng.Perm(p.d)
		layer := p.n - 1 - 2*rng.Intn(p.n)
		_ = p.Turn(SideTurn{
			Side:     axes[0],
			LayerMin: layer,
			LayerMax: layer,
			From:     axes[1],
			To:       axes[2],
		})
	}
}

// stickerPair is the JSON form of one sticker: a [position, color] pair.
type stickerPair struct {
	Pos   Vec
	Color int
}

func (sp stickerPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{sp.Pos, sp.Color})
}

func (sp *stickerPair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return errors.New("puzzle: sticker entry must be a [position, color] pair")
	}
	if err := json.Unmarshal(raw[0], &sp.Pos); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &sp.Color)
}

type puzzleJSON struct {
	N        int           `json:"n"`
	D        int           `json:"d"`
	Stickers []stickerPair `json:"stickers"`
}

// MarshalJSON encodes the puzzle with its sticker pairs in position order,
// so equal states produce identical bytes.
func (p *Puzzle) MarshalJSON() ([]byte, error) {
	pairs := make([]stickerPair, 0, len(p.stickers))
	for k, color := range p.stickers {
		pairs = append(pairs, stickerPair{Pos: FromKey(k), Color: color})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Pos.Key() < pairs[j].Pos.Key()
	})
	return json.Marshal(puzzleJSON{N: p.n, D: p.d, Stickers: pairs})
}

// UnmarshalJSON decodes a puzzle snapshot produced by MarshalJSON.
func (p *Puzzle) UnmarshalJSON(data []byte) error {
	var raw puzzleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.N < 1 || raw.D < 1 {
		return fmt.Errorf("puzzle: invalid size n=%d d=%d", raw.N, raw.D)
	}
	stickers := make(map[string]int, len(raw.Stickers))
	for _, sp := range raw.Stickers {
		if len(sp.Pos) != raw.D {
			return fmt.Errorf("puzzle: sticker position %v does not have %d coordinates", sp.Pos, raw.D)
		}
		stickers[sp.Pos.Key()] = sp.Color
	}
	p.n, p.d, p.stickers = raw.N, raw.D, stickers
	return nil
}
