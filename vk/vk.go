// Package vk is the canonical mapping between platform virtual-key codes,
// KMS source names, and the small positive internal key identifiers the
// KM2 codec and the matching engine operate on.
package vk

// Code is an internal virtual-key identifier. Identifiers start at 1; Null
// is reserved for the special "delete composition without output" RHS.
type Code uint16

// Null is the sentinel PREDEFINED(1) output meaning "clear the composing
// buffer and produce no text" (spec: NULL output).
const Null Code = 1

// Letters and digits.
const (
	VK_KEY_A Code = iota + 2
	VK_KEY_B
	VK_KEY_C
	VK_KEY_D
	VK_KEY_E
	VK_KEY_F
	VK_KEY_G
	VK_KEY_H
	VK_KEY_I
	VK_KEY_J
	VK_KEY_K
	VK_KEY_L
	VK_KEY_M
	VK_KEY_N
	VK_KEY_O
	VK_KEY_P
	VK_KEY_Q
	VK_KEY_R
	VK_KEY_S
	VK_KEY_T
	VK_KEY_U
	VK_KEY_V
	VK_KEY_W
	VK_KEY_X
	VK_KEY_Y
	VK_KEY_Z
	VK_KEY_0
	VK_KEY_1
	VK_KEY_2
	VK_KEY_3
	VK_KEY_4
	VK_KEY_5
	VK_KEY_6
	VK_KEY_7
	VK_KEY_8
	VK_KEY_9
)

// Modifiers and whitespace/control keys.
const (
	VK_SHIFT Code = iota + 100
	VK_CONTROL
	VK_ALT
	VK_ALT_GR
	VK_SPACE
	VK_BACK
	VK_RETURN
	VK_TAB
	VK_ESCAPE
	VK_CAPSLOCK
	VK_CFLEX
	VK_DELETE
)

// Function keys.
const (
	VK_F1 Code = iota + 200
	VK_F2
	VK_F3
	VK_F4
	VK_F5
	VK_F6
	VK_F7
	VK_F8
	VK_F9
	VK_F10
	VK_F11
	VK_F12
)

// Numpad keys.
const (
	VK_NUMPAD0 Code = iota + 300
	VK_NUMPAD1
	VK_NUMPAD2
	VK_NUMPAD3
	VK_NUMPAD4
	VK_NUMPAD5
	VK_NUMPAD6
	VK_NUMPAD7
	VK_NUMPAD8
	VK_NUMPAD9
)

// OEM punctuation keys (layout-dependent physical keys; names follow the
// Win32 VK_OEM_n numbering, not the characters they happen to produce).
const (
	VK_OEM_1 Code = iota + 400 // ;:
	VK_OEM_2                   // /?
	VK_OEM_3                   // `~
	VK_OEM_4                   // [{
	VK_OEM_5                   // \|
	VK_OEM_6                   // ]}
	VK_OEM_7                   // '"
	VK_OEM_8                   // misc, layout dependent
	VK_OEM_PLUS
	VK_OEM_COMMA
	VK_OEM_MINUS
	VK_OEM_PERIOD
)

// Navigation keys.
const (
	VK_HOME Code = iota + 500
	VK_END
	VK_PRIOR // Page Up
	VK_NEXT  // Page Down
	VK_LEFT
	VK_UP
	VK_RIGHT
	VK_DOWN
	VK_INSERT
)

var names = map[Code]string{
	Null: "NULL",

	VK_KEY_A: "VK_KEY_A", VK_KEY_B: "VK_KEY_B", VK_KEY_C: "VK_KEY_C", VK_KEY_D: "VK_KEY_D",
	VK_KEY_E: "VK_KEY_E", VK_KEY_F: "VK_KEY_F", VK_KEY_G: "VK_KEY_G", VK_KEY_H: "VK_KEY_H",
	VK_KEY_I: "VK_KEY_I", VK_KEY_J: "VK_KEY_J", VK_KEY_K: "VK_KEY_K", VK_KEY_L: "VK_KEY_L",
	VK_KEY_M: "VK_KEY_M", VK_KEY_N: "VK_KEY_N", VK_KEY_O: "VK_KEY_O", VK_KEY_P: "VK_KEY_P",
	VK_KEY_Q: "VK_KEY_Q", VK_KEY_R: "VK_KEY_R", VK_KEY_S: "VK_KEY_S", VK_KEY_T: "VK_KEY_T",
	VK_KEY_U: "VK_KEY_U", VK_KEY_V: "VK_KEY_V", VK_KEY_W: "VK_KEY_W", VK_KEY_X: "VK_KEY_X",
	VK_KEY_Y: "VK_KEY_Y", VK_KEY_Z: "VK_KEY_Z",
	VK_KEY_0: "VK_KEY_0", VK_KEY_1: "VK_KEY_1", VK_KEY_2: "VK_KEY_2", VK_KEY_3: "VK_KEY_3",
	VK_KEY_4: "VK_KEY_4", VK_KEY_5: "VK_KEY_5", VK_KEY_6: "VK_KEY_6", VK_KEY_7: "VK_KEY_7",
	VK_KEY_8: "VK_KEY_8", VK_KEY_9: "VK_KEY_9",

	VK_SHIFT: "VK_SHIFT", VK_CONTROL: "VK_CONTROL", VK_ALT: "VK_ALT", VK_ALT_GR: "VK_ALT_GR",
	VK_SPACE: "VK_SPACE", VK_BACK: "VK_BACK", VK_RETURN: "VK_RETURN", VK_TAB: "VK_TAB",
	VK_ESCAPE: "VK_ESCAPE", VK_CAPSLOCK: "VK_CAPSLOCK", VK_CFLEX: "VK_CFLEX", VK_DELETE: "VK_DELETE",

	VK_F1: "VK_F1", VK_F2: "VK_F2", VK_F3: "VK_F3", VK_F4: "VK_F4", VK_F5: "VK_F5", VK_F6: "VK_F6",
	VK_F7: "VK_F7", VK_F8: "VK_F8", VK_F9: "VK_F9", VK_F10: "VK_F10", VK_F11: "VK_F11", VK_F12: "VK_F12",

	VK_NUMPAD0: "VK_NUMPAD0", VK_NUMPAD1: "VK_NUMPAD1", VK_NUMPAD2: "VK_NUMPAD2", VK_NUMPAD3: "VK_NUMPAD3",
	VK_NUMPAD4: "VK_NUMPAD4", VK_NUMPAD5: "VK_NUMPAD5", VK_NUMPAD6: "VK_NUMPAD6", VK_NUMPAD7: "VK_NUMPAD7",
	VK_NUMPAD8: "VK_NUMPAD8", VK_NUMPAD9: "VK_NUMPAD9",

	VK_OEM_1: "VK_OEM_1", VK_OEM_2: "VK_OEM_2", VK_OEM_3: "VK_OEM_3", VK_OEM_4: "VK_OEM_4",
	VK_OEM_5: "VK_OEM_5", VK_OEM_6: "VK_OEM_6", VK_OEM_7: "VK_OEM_7", VK_OEM_8: "VK_OEM_8",
	VK_OEM_PLUS: "VK_OEM_PLUS", VK_OEM_COMMA: "VK_OEM_COMMA", VK_OEM_MINUS: "VK_OEM_MINUS", VK_OEM_PERIOD: "VK_OEM_PERIOD",

	VK_HOME: "VK_HOME", VK_END: "VK_END", VK_PRIOR: "VK_PRIOR", VK_NEXT: "VK_NEXT",
	VK_LEFT: "VK_LEFT", VK_UP: "VK_UP", VK_RIGHT: "VK_RIGHT", VK_DOWN: "VK_DOWN", VK_INSERT: "VK_INSERT",
}

// aliases maps alternate KMS spellings onto their canonical Code.
var aliases = map[string]Code{
	"VK_CTRL":    VK_CONTROL,
	"VK_MENU":    VK_ALT,
	"VK_ENTER":   VK_RETURN,
	"VK_ESC":     VK_ESCAPE,
	"NULL":       Null,
}

var byName map[string]Code

func init() {
	byName = make(map[string]Code, len(names)+len(aliases))
	for c, n := range names {
		byName[n] = c
	}
	for alias, c := range aliases {
		byName[alias] = c
	}
}

// Lookup resolves a KMS source name (e.g. "VK_KEY_A", "VK_CTRL") to its
// canonical Code.
func Lookup(name string) (Code, bool) {
	c, ok := byName[name]
	return c, ok
}

// Name returns the canonical KMS source name for c, or "" if unknown.
func Name(c Code) string {
	return names[c]
}
