package core

// Color is a logical cell color. The platform layer maps it to a terminal
// style using the active theme; the simulation never sees real colors.
type Color uint8

const (
	ColorDefault Color = iota
	ColorPiece
	ColorFiltered
	ColorAlert
	faceBase
)

// FaceColor returns the slot of a face's color: positive sides occupy even
// offsets past the fixed colors, negative sides the following odd offsets.
func FaceColor(side int) Color {
	if side >= 0 {
		return faceBase + Color(2*side)
	}
	return faceBase + Color(2*(^side)) + 1
}
