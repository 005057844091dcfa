package match

import (
	"sort"

	"github.com/keymagic-project/keymagic-go/km2"
)

// Order is a precomputed, priority-sorted view over a layout's rules: the
// indices of rule, from highest to lowest match priority. Building it once
// per loaded layout avoids re-sorting on every key press.
type Order struct {
	indices []int
}

// NewOrder sorts rules by the matcher's priority rule (stable, descending):
// state-gated rules first, then chord rules, then by LHS text footprint,
// ties broken by original file order. layout resolves VARIABLE elements'
// contribution to footprint.
func NewOrder(layout *km2.KeyboardLayout) *Order {
	rules := layout.Rules
	idx := make([]int, len(rules))
	for i := range idx {
		idx[i] = i
	}
	keys := make([]sortKey, len(rules))
	for i, r := range rules {
		keys[i] = sortKey{
			hasState:  lhsHasState(r.LHS),
			hasChord:  lhsHasChord(r.LHS),
			footprint: footprint(layout, r.LHS),
			fileOrder: i,
		}
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return less(keys[idx[i]], keys[idx[j]])
	})
	return &Order{indices: idx}
}

type sortKey struct {
	hasState  bool
	hasChord  bool
	footprint int
	fileOrder int
}

// less reports whether a ranks strictly ahead of b (a should sort first).
func less(a, b sortKey) bool {
	if a.hasState != b.hasState {
		return a.hasState
	}
	if a.hasChord != b.hasChord {
		return a.hasChord
	}
	if a.footprint != b.footprint {
		return a.footprint > b.footprint
	}
	return a.fileOrder < b.fileOrder
}

func lhsHasState(lhs []km2.Element) bool {
	for _, e := range lhs {
		if e.Kind == km2.KindState {
			return true
		}
	}
	return false
}

func lhsHasChord(lhs []km2.Element) bool {
	for _, e := range lhs {
		if e.Kind == km2.KindChord {
			return true
		}
	}
	return false
}

// footprint counts the literal code points contributed by STRING and
// VARIABLE elements only — indexed variables, ANY, chords, and states all
// have fixed width 1 or 0 and don't count toward footprint priority.
func footprint(layout *km2.KeyboardLayout, lhs []km2.Element) int {
	n := 0
	for _, e := range lhs {
		switch e.Kind {
		case km2.KindString:
			n += len(e.Runes)
		case km2.KindVariable:
			if s, ok := layout.String(e.VarIndex); ok {
				n += len([]rune(s))
			}
		}
	}
	return n
}

// RuleIndices returns the priority-ordered rule indices.
func (o *Order) RuleIndices() []int { return o.indices }
