package compile

import (
	"github.com/keymagic-project/keymagic-go/km2"
	"github.com/keymagic-project/keymagic-go/kms"
	"github.com/keymagic-project/keymagic-go/vk"
)

// compileRule lowers one LHS => RHS pair, tracking how many LHS elements
// contribute a numbered capture (chord, ANY, and $v[*]/$v[^] matches) so
// that RHS back-references can be bounds-checked.
func (c *compiler) compileRule(r kms.RuleDecl) km2.Rule {
	c.checkStandaloneState(r.LHS)
	lhs, captures := c.compileSide(r.LHS, true, 0)
	rhs, _ := c.compileSide(r.RHS, false, captures)
	return km2.Rule{LHS: lhs, RHS: rhs}
}

// checkStandaloneState enforces that state tokens on the LHS come before
// every other element on that side: a state gates the rest of the pattern,
// so one that follows text or a chord (e.g. "a" + (s) + "b") is rejected.
func (c *compiler) checkStandaloneState(lhs []kms.PatternElem) {
	seenOther := false
	for _, pe := range lhs {
		if pe.Kind != kms.PState {
			seenOther = true
			continue
		}
		if seenOther {
			c.addErr(pe.Line, ErrStateNotStandalone)
		}
	}
}

func (c *compiler) compileSide(elems []kms.PatternElem, isLHS bool, captureBudget int) ([]km2.Element, int) {
	out := make([]km2.Element, 0, len(elems))
	captures := captureBudget
	for _, pe := range elems {
		el, gained, ok := c.compileElem(pe, isLHS, captures)
		if !ok {
			continue
		}
		out = append(out, el)
		captures += gained
	}
	return out, captures
}

// compileElem lowers one pattern element. captures is the number of
// back-reference slots established so far on this side (LHS accumulates as
// it goes; RHS receives the LHS's final total). It returns how many new
// capture slots this element itself establishes (always 0 on the RHS).
func (c *compiler) compileElem(pe kms.PatternElem, isLHS bool, captures int) (km2.Element, int, bool) {
	switch pe.Kind {
	case kms.PString:
		return km2.Element{Kind: km2.KindString, Runes: append([]rune(nil), pe.Text...)}, 0, true

	case kms.PUnicode:
		return km2.Element{Kind: km2.KindString, Runes: []rune{pe.Rune}}, 0, true

	case kms.PVarRef:
		v, ok := c.vars[pe.VarName]
		if !ok {
			c.addErr(pe.Line, ErrUndefinedVariable)
			return km2.Element{}, 0, false
		}
		return km2.Element{Kind: km2.KindVariable, VarIndex: v.index}, 0, true

	case kms.PIndexedVar:
		return c.compileIndexedVar(pe, captures)

	case kms.PAny:
		return km2.Element{Kind: km2.KindAny}, 1, true

	case kms.PChord:
		chord := append([]vk.Code(nil), pe.Chord...)
		return km2.Element{Kind: km2.KindChord, Chord: chord}, 1, true

	case kms.PState:
		return km2.Element{Kind: km2.KindState, StateIndex: c.stateSlot(pe.StateName)}, 0, true

	case kms.PBackRef:
		if pe.Index < 1 || pe.Index > captures {
			c.addErr(pe.Line, ErrInvalidBackRef)
			return km2.Element{}, 0, false
		}
		return km2.Element{Kind: km2.KindReference, Index: pe.Index}, 0, true

	case kms.PNull:
		return km2.Element{Kind: km2.KindNull}, 0, true
	}
	return km2.Element{}, 0, false
}

// compileIndexedVar handles $v[*], $v[^], $v[k] (0-based literal,
// resolved at compile time to a plain string since the value is already
// known), and $v[$n] (back-reference into a prior capture's position).
func (c *compiler) compileIndexedVar(pe kms.PatternElem, captures int) (km2.Element, int, bool) {
	v, ok := c.vars[pe.VarName]
	if !ok {
		c.addErr(pe.Line, ErrUndefinedVariable)
		return km2.Element{}, 0, false
	}

	switch pe.IndexKind {
	case kms.IdxStar:
		return km2.Element{Kind: km2.KindIndexedVariable, VarIndex: v.index, IndexKind: km2.IndexStar}, 1, true

	case kms.IdxCaret:
		return km2.Element{Kind: km2.KindIndexedVariable, VarIndex: v.index, IndexKind: km2.IndexCaret}, 1, true

	case kms.IdxPositional:
		if pe.Index < 0 || pe.Index >= len(v.runes) {
			c.addErr(pe.Line, ErrIndexOutOfRange)
			return km2.Element{}, 0, false
		}
		return km2.Element{Kind: km2.KindString, Runes: []rune{v.runes[pe.Index]}}, 0, true

	case kms.IdxBackRef:
		if pe.Index < 1 || pe.Index > captures {
			c.addErr(pe.Line, ErrInvalidBackRef)
			return km2.Element{}, 0, false
		}
		return km2.Element{
			Kind:      km2.KindIndexedVariable,
			VarIndex:  v.index,
			IndexKind: km2.IndexNumeric,
			Index:     pe.Index,
		}, 0, true
	}
	return km2.Element{}, 0, false
}
