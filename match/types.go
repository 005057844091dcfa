// Package match implements the pattern matcher: rule priority ordering,
// LHS matching against a composing buffer and an optional key event, and
// RHS evaluation into an output fragment and a set of newly active states.
package match

import "github.com/keymagic-project/keymagic-go/vk"

// KeyInput is one physical key event offered to the matcher and, further
// up, to the engine.
type KeyInput struct {
	VK    vk.Code
	Char  rune // 0 if the key produces no printable character
	Shift bool
	Ctrl  bool
	Alt   bool
	Caps  bool
}

// Query is everything the matcher needs to attempt a match: the buffer to
// match the right end of, an optional key event (nil during the recursive,
// text-only rewrite pass), and the set of states the caller currently has
// active.
type Query struct {
	Buffer       []rune
	Key          *KeyInput
	ActiveStates map[int]bool
}

// Capture is one numbered back-reference slot produced by a matched LHS
// element: the literal text it matched, and — for $v[*] matches only — the
// 1-based position within the referenced variable. Position is -1 when the
// capturing element carries no meaningful variable position (NANYOF, ANY,
// a chord).
type Capture struct {
	Text     []rune
	Position int
}

// Match is a successful LHS match: the rule, its ordered captures, how wide
// its LHS was, and whether that width was satisfied by consuming the key's
// chord or its printable character rather than purely buffer text. The
// caller uses Width and ConsumedChar to work out how much of the buffer
// (as opposed to the key event) the match actually removed.
type Match struct {
	Rule         int // index into the rule slice passed to Find
	Captures     []Capture
	Width        int
	ConsumedKey  bool
	ConsumedChar bool
}

// BufferConsumed returns how many trailing code points of the query buffer
// (not counting any appended key character) the match removed.
func (m *Match) BufferConsumed() int {
	n := m.Width
	if m.ConsumedChar && n > 0 {
		n--
	}
	return n
}
