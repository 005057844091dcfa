package match

import "github.com/keymagic-project/keymagic-go/km2"

// Result is the outcome of evaluating a matched rule's RHS: the text
// fragment it produces, the states it activates, and whether it forces the
// buffer to be cleared first (NULL).
type Result struct {
	Text        string
	NewStates   []int
	ClearBuffer bool
}

// Evaluate turns a matched rule's RHS into output text and newly active
// states, using the captures its LHS produced (spec §4.6 step 4). Per
// spec §7, an RHS element that dereferences a capture that the compiler
// could not have rejected up front but that turns out unusable at runtime
// (out-of-range index, or a position the variable doesn't cover) is
// reported as ok=false so the caller treats the rule as not matching rather
// than emit partial output. Lower-priority candidates are not tried: Find
// has already returned this rule as the match.
func Evaluate(layout *km2.KeyboardLayout, rhs []km2.Element, captures []Capture) (Result, bool) {
	var res Result
	var text []rune

	for _, e := range rhs {
		switch e.Kind {
		case km2.KindString:
			text = append(text, e.Runes...)

		case km2.KindVariable:
			s, ok := layout.String(e.VarIndex)
			if !ok {
				return Result{}, false
			}
			text = append(text, []rune(s)...)

		case km2.KindIndexedVariable:
			if e.IndexKind != km2.IndexNumeric {
				return Result{}, false
			}
			s, ok := layout.String(e.VarIndex)
			if !ok {
				return Result{}, false
			}
			varRunes := []rune(s)
			n := e.Index
			if n < 1 || n > len(captures) {
				return Result{}, false
			}
			pos := captures[n-1].Position
			if pos < 1 || pos > len(varRunes) {
				return Result{}, false
			}
			text = append(text, varRunes[pos-1])

		case km2.KindReference:
			n := e.Index
			if n < 1 || n > len(captures) {
				return Result{}, false
			}
			text = append(text, captures[n-1].Text...)

		case km2.KindState:
			res.NewStates = append(res.NewStates, e.StateIndex)

		case km2.KindNull:
			res.ClearBuffer = true
			text = text[:0]

		default:
			return Result{}, false
		}
	}

	res.Text = string(text)
	return res, true
}
