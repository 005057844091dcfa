// Package km2 reads and writes the compiled binary keyboard layout format
// (KM2): header, string table, info table, and rule opcode streams.
package km2

import "github.com/keymagic-project/keymagic-go/vk"

// MagicKMKL is the 4-byte file signature.
var MagicKMKL = [4]byte{'K', 'M', 'K', 'L'}

const (
	majorVersion = 1
	minorVersion = 5
	headerSize   = 18
)

// Option holds the five layout booleans stored in the header, in on-disk
// order.
type Option struct {
	TrackCaps          bool
	SmartBackspace     bool
	EatAllUnusedKeys   bool
	USLayoutBased      bool
	TreatCtrlAltAsRalt bool
}

// DefaultOption returns the spec-mandated defaults for a layout that
// specifies no @OPTION lines.
func DefaultOption() Option {
	return Option{
		TrackCaps:          true,
		TreatCtrlAltAsRalt: true,
	}
}

// Well-known info table tags.
const (
	TagName   = "name"
	TagDesc   = "desc"
	TagFont   = "font"
	TagIcon   = "icon"
	TagHotkey = "htky"
)

// InfoEntry is one entry of the info table: a 4-byte tag and its raw
// payload. name/desc/font are UTF-8 text; icon is raw image bytes; htky is
// a packed hotkey (modifier flags + VK).
type InfoEntry struct {
	Tag   string // always 4 ASCII bytes, in canonical (non-reversed) order
	Value []byte
}

// IndexKind distinguishes the three forms an indexed variable reference can
// take: $v[*], $v[^], and $v[$n]. The compiler lowers a positional $v[k] to
// a plain KindString element, so it never appears here.
type IndexKind uint8

const (
	IndexNone IndexKind = iota
	IndexStar
	IndexCaret
	IndexNumeric
)

// ElementKind tags the variant carried by Element.
type ElementKind uint8

const (
	KindString ElementKind = iota
	KindVariable
	KindIndexedVariable
	KindReference
	KindAny
	KindChord
	KindState
	KindNull
)

// Element is one pattern element of a rule's LHS or RHS, matching the
// tagged-variant design in spec §9. Only the fields relevant to Kind are
// populated; the rest are zero.
type Element struct {
	Kind ElementKind

	Runes []rune // KindString

	VarIndex  int       // KindVariable, KindIndexedVariable: 1-based string-table slot
	IndexKind IndexKind // KindIndexedVariable
	Index     int       // KindIndexedVariable (IndexNumeric), KindReference: the numeric n

	Chord []vk.Code // KindChord: virtual keys joined by AND, in source order

	StateIndex int // KindState: 1-based string-table slot holding "K"
}

// Rule is one compiled LHS => RHS pair.
type Rule struct {
	LHS []Element
	RHS []Element
}

// KeyboardLayout is the fully decoded contents of a KM2 file. It is
// immutable once returned by Read/ReadFile; the engine shares it by
// reference.
type KeyboardLayout struct {
	Options Option
	Strings []string // zero-based; opcodes reference these with 1-based indices
	Info    []InfoEntry
	Rules   []Rule
}

// String returns the zero-based string table entry for a 1-based opcode
// index, or ("", false) if out of range.
func (k *KeyboardLayout) String(oneBased int) (string, bool) {
	i := oneBased - 1
	if i < 0 || i >= len(k.Strings) {
		return "", false
	}
	return k.Strings[i], true
}

// InfoValue returns the raw payload for the given tag, or nil if absent.
func (k *KeyboardLayout) InfoValue(tag string) []byte {
	for _, e := range k.Info {
		if e.Tag == tag {
			return e.Value
		}
	}
	return nil
}
