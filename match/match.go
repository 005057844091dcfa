package match

import (
	"github.com/keymagic-project/keymagic-go/km2"
	"github.com/keymagic-project/keymagic-go/vk"
)

// Find tries each rule named by order, in priority order, against q and
// returns the first one whose LHS matches. When textOnly is true, chord-
// and ANY-bearing rules are skipped — the recursive rewrite pass (spec
// §4.6 step 7) only re-triggers on text.
func Find(layout *km2.KeyboardLayout, order *Order, q Query, textOnly bool) (*Match, bool) {
	for _, ri := range order.RuleIndices() {
		rule := layout.Rules[ri]
		if textOnly && (lhsHasChord(rule.LHS) || lhsHasAny(rule.LHS)) {
			continue
		}
		if m, ok := matchOne(layout, rule, ri, q); ok {
			return m, true
		}
	}
	return nil, false
}

func lhsHasAny(lhs []km2.Element) bool {
	for _, e := range lhs {
		if e.Kind == km2.KindAny {
			return true
		}
	}
	return false
}

// matchOne attempts a single rule's LHS against q. Matching elements have a
// statically known width (0 for state/chord, 1 for ANY/indexed-variable,
// len(Runes) for string, the resolved length for a plain variable
// reference), so the match window against the tail of the combined input
// is computed up front rather than backtracked.
func matchOne(layout *km2.KeyboardLayout, rule km2.Rule, ruleIdx int, q Query) (*Match, bool) {
	hasChord := lhsHasChord(rule.LHS)

	combined := q.Buffer
	consumedChar := !hasChord && q.Key != nil && isPrintableASCIINonSpace(q.Key.Char)
	if consumedChar {
		combined = append(append([]rune(nil), q.Buffer...), q.Key.Char)
	}

	width := 0
	for _, e := range rule.LHS {
		width += elemWidth(layout, e)
	}
	if width > len(combined) {
		return nil, false
	}
	pos := len(combined) - width

	var captures []Capture
	consumedKey := false

	for _, e := range rule.LHS {
		switch e.Kind {
		case km2.KindState:
			if q.ActiveStates == nil || !q.ActiveStates[e.StateIndex] {
				return nil, false
			}

		case km2.KindChord:
			if q.Key == nil || !chordMatches(e.Chord, *q.Key) {
				return nil, false
			}
			consumedKey = true
			captures = append(captures, chordCapture(q.Key))

		case km2.KindString:
			n := len(e.Runes)
			if !runesEqual(combined[pos:pos+n], e.Runes) {
				return nil, false
			}
			pos += n

		case km2.KindVariable:
			s, ok := layout.String(e.VarIndex)
			if !ok {
				return nil, false
			}
			runes := []rune(s)
			n := len(runes)
			if !runesEqual(combined[pos:pos+n], runes) {
				return nil, false
			}
			pos += n

		case km2.KindIndexedVariable:
			s, ok := layout.String(e.VarIndex)
			if !ok {
				return nil, false
			}
			varRunes := []rune(s)
			r := combined[pos]
			capt, ok := matchIndexedVar(e, varRunes, r, captures)
			if !ok {
				return nil, false
			}
			if e.IndexKind != km2.IndexNumeric {
				captures = append(captures, capt)
			}
			pos++

		case km2.KindAny:
			r := combined[pos]
			if !isPrintableASCIINonSpace(r) {
				return nil, false
			}
			captures = append(captures, Capture{Text: []rune{r}, Position: -1})
			pos++

		case km2.KindReference:
			n := e.Index
			if n < 1 || n > len(captures) || len(captures[n-1].Text) != 1 {
				return nil, false
			}
			if combined[pos] != captures[n-1].Text[0] {
				return nil, false
			}
			pos++

		default:
			return nil, false
		}
	}

	return &Match{
		Rule:         ruleIdx,
		Captures:     captures,
		Width:        width,
		ConsumedKey:  consumedKey,
		ConsumedChar: consumedChar && width > 0,
	}, true
}

// matchIndexedVar handles $v[*] (ANYOF), $v[^] (NANYOF), and $v[$n] (a
// back-reference consistency check against an earlier LHS capture).
func matchIndexedVar(e km2.Element, varRunes []rune, r rune, captures []Capture) (Capture, bool) {
	switch e.IndexKind {
	case km2.IndexStar:
		if i := runeIndex(varRunes, r); i >= 0 {
			return Capture{Text: []rune{r}, Position: i + 1}, true
		}
		return Capture{}, false

	case km2.IndexCaret:
		if runeIndex(varRunes, r) >= 0 {
			return Capture{}, false
		}
		return Capture{Text: []rune{r}, Position: -1}, true

	case km2.IndexNumeric:
		n := e.Index
		if n < 1 || n > len(captures) {
			return Capture{}, false
		}
		pos := captures[n-1].Position
		if pos < 1 || pos > len(varRunes) {
			return Capture{}, false
		}
		if varRunes[pos-1] != r {
			return Capture{}, false
		}
		return Capture{Text: []rune{r}, Position: pos}, true
	}
	return Capture{}, false
}

func chordCapture(key *KeyInput) Capture {
	if key.Char == 0 {
		return Capture{Position: -1}
	}
	return Capture{Text: []rune{key.Char}, Position: -1}
}

func chordMatches(chord []vk.Code, key KeyInput) bool {
	var need KeyInput
	var haveBase bool
	for _, c := range chord {
		switch c {
		case vk.VK_SHIFT:
			need.Shift = true
		case vk.VK_CONTROL:
			need.Ctrl = true
		case vk.VK_ALT, vk.VK_ALT_GR:
			need.Alt = true
		default:
			need.VK = c
			haveBase = true
		}
	}
	if haveBase && need.VK != key.VK {
		return false
	}
	return need.Shift == key.Shift && need.Ctrl == key.Ctrl && need.Alt == key.Alt
}

func elemWidth(layout *km2.KeyboardLayout, e km2.Element) int {
	switch e.Kind {
	case km2.KindString:
		return len(e.Runes)
	case km2.KindVariable:
		s, _ := layout.String(e.VarIndex)
		return len([]rune(s))
	case km2.KindIndexedVariable, km2.KindAny:
		return 1
	case km2.KindReference:
		// A bare $n on the LHS re-checks an earlier capture, which is
		// always exactly one code point (every capturing element --
		// chord, ANY, $v[*]/$v[^] -- captures at most one rune), so its
		// width is fixed even though the rune it must match isn't known
		// until the referenced capture is in hand.
		return 1
	default:
		return 0
	}
}

func runeIndex(haystack []rune, r rune) int {
	for i, h := range haystack {
		if h == r {
			return i
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isPrintableASCIINonSpace reports whether r is in U+0021..U+007E — the
// range ANY matches and the range a bare key character must fall in to
// extend the combined match window (spec §4.6 step 5, §4.5 ANY rule, and
// the "open question" resolved in favor of excluding space).
func isPrintableASCIINonSpace(r rune) bool {
	return r >= 0x21 && r <= 0x7E
}
