package session

import (
	"github.com/ilmarin/flatcube/internal/core"
	"github.com/ilmarin/flatcube/internal/layout"
	"github.com/ilmarin/flatcube/internal/puzzle"
)

// Render draws the net and the status line into dst. Sticker cells show
// their face name (or a box in boxes mode) in the face color, piece cells a
// dot, and the active filter dims whatever it excludes. During an alert the
// piece cells blink. Hint cells overlay the key that selects their face.
func (s *Session) Render(dst *core.Screen, lay layout.Layout, boxes bool) {
	dst.Clear()
	f := s.activeFilter()
	alerting := s.alert%(2*s.alertFrames()) >= s.alertFrames()

	for c, pos := range lay.Points {
		inFilter := f.MatchStickers(s.puzzle.Stickers(pos))

		if side, ok := s.puzzle.ColorAt(pos); ok {
			color := core.FaceColor(side)
			if !inFilter {
				color = core.ColorFiltered
			}
			dst.SetCell(c.X, c.Y, s.faceGlyph(side, boxes), color)
			continue
		}
		if h, ok := lay.Hints[c]; ok && !h.Center {
			continue
		}
		switch {
		case alerting:
			dst.SetCell(c.X, c.Y, '+', core.ColorAlert)
		case inFilter:
			dst.SetCell(c.X, c.Y, '·', core.ColorPiece)
		default:
			dst.SetCell(c.X, c.Y, '·', core.ColorFiltered)
		}
	}

	for c, h := range lay.Hints {
		if h.Center {
			continue
		}
		dst.SetCell(c.X, c.Y, s.hintGlyph(h.Side), core.ColorPiece)
	}

	dst.DrawText(0, lay.Height, s.Message())
}

// faceGlyph returns the character drawn for a sticker of the given side.
func (s *Session) faceGlyph(side int, boxes bool) rune {
	if boxes {
		return '■'
	}
	if side >= 0 {
		return s.keys.posNames[side]
	}
	return s.keys.negNames[puzzle.Opp(side)]
}

// hintGlyph returns the key shown on a face's hint cell: the select key
// while no side is pending (or always in 3D fixed-key mode, where select
// keys are the whole turn), otherwise the plane key of the active axis mode.
func (s *Session) hintGlyph(side int) rune {
	axis := puzzle.Ax(side)
	if !s.build.hasSide || (s.keybinds == FixedKey && s.puzzle.D() == 3) {
		if side >= 0 {
			return s.keys.posKeys[axis]
		}
		return s.keys.negKeys[axis]
	}
	if s.axial {
		if side >= 0 {
			return s.keys.axisKeys[axis]
		}
		return '·'
	}
	if side >= 0 {
		return s.keys.posSideKeys[axis]
	}
	return s.keys.negSideKeys[axis]
}
