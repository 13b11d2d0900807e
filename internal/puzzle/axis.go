// Package puzzle implements the state of an n^d flat-hypercube twisty
// puzzle as an exact sticker permutation: a mapping from sticker positions
// to side colors, rewritten by quarter turns of axis-aligned layer blocks.
// It has no external dependencies; rendering and input live elsewhere.
package puzzle

// Sides and colors are coded as signed integers packing an axis index and a
// direction: the positive side of axis k is k, the negative side is ^k.
// Bitwise complement is its own inverse, so Opp flips direction and Ax
// recovers the unsigned axis from either code.

// Opp returns the code of the opposite side.
func Opp(code int) int { return ^code }

// Ax returns the unsigned axis index of a side code.
func Ax(code int) int { return max(code, ^code) }
