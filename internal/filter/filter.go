// Package filter implements the sticker filter language used to highlight
// subsets of pieces. An expression like "FU!D+B" is a disjunction over '+'
// of conjunctions: each group requires the side names before its '!' and
// forbids the ones after it, so this example reads "(has F and U, not D) or
// (has B)".
package filter

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/ilmarin/flatcube/internal/puzzle"
)

// term requires (have) or forbids (!have) one side color on a piece.
type term struct {
	color int
	have  bool
}

// Filter is a compiled piece predicate. The zero Filter matches nothing;
// Default matches everything.
type Filter struct {
	groups [][]term
}

// Default returns the filter that matches every piece: a single empty
// conjunction.
func Default() Filter {
	return Filter{groups: [][]term{{}}}
}

// Parse compiles an expression. pos and neg name the positive and negative
// side of each axis; a name's index is its side color.
func Parse(expr string, pos, neg []rune) (Filter, error) {
	var f Filter
	for _, group := range strings.Split(expr, "+") {
		parts := strings.Split(group, "!")
		if len(parts) > 2 {
			return Filter{}, fmt.Errorf("filter: more than one ! in %q", group)
		}

		var terms []term
		for have, src := range parts {
			for _, ch := range src {
				if unicode.IsSpace(ch) {
					continue
				}
				switch i := slices.Index(pos, ch); {
				case i >= 0:
					terms = append(terms, term{color: i, have: have == 0})
				default:
					j := slices.Index(neg, ch)
					if j < 0 {
						return Filter{}, fmt.Errorf("filter: unknown side name %q", ch)
					}
					terms = append(terms, term{color: puzzle.Opp(j), have: have == 0})
				}
			}
		}
		f.groups = append(f.groups, terms)
	}
	return f, nil
}

// MatchStickers reports whether a piece carrying the given sticker colors
// passes the filter.
func (f Filter) MatchStickers(colors []int) bool {
	for _, group := range f.groups {
		ok := true
		for _, t := range group {
			if slices.Contains(colors, t.color) != t.have {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
