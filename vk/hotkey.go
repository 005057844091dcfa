package vk

import "strings"

// Hotkey is a modifier-qualified key binding, as used for a layout's
// @HOTKEY option and the ABI's keymagic_parse_hotkey entry point.
type Hotkey struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Key   Code
}

// ParseHotkey parses a "Ctrl+Shift+K" style string. Token order is
// insignificant; exactly one token must name a non-modifier key.
func ParseHotkey(s string) (Hotkey, bool) {
	var hk Hotkey
	var keyName string
	parts := strings.Split(s, "+")
	for _, raw := range parts {
		p := strings.ToUpper(strings.TrimSpace(raw))
		switch p {
		case "":
			return Hotkey{}, false
		case "CTRL", "CONTROL":
			hk.Ctrl = true
		case "ALT":
			hk.Alt = true
		case "SHIFT":
			hk.Shift = true
		default:
			if keyName != "" {
				return Hotkey{}, false
			}
			keyName = p
		}
	}
	if keyName == "" {
		return Hotkey{}, false
	}
	code, ok := Lookup(keyName)
	if !ok {
		code, ok = Lookup("VK_KEY_" + keyName)
	}
	if !ok {
		return Hotkey{}, false
	}
	hk.Key = code
	return hk, true
}

// String renders a Hotkey back to its canonical "Ctrl+Shift+K" form.
func (h Hotkey) String() string {
	var b strings.Builder
	if h.Ctrl {
		b.WriteString("Ctrl+")
	}
	if h.Alt {
		b.WriteString("Alt+")
	}
	if h.Shift {
		b.WriteString("Shift+")
	}
	name := Name(h.Key)
	name = strings.TrimPrefix(name, "VK_KEY_")
	b.WriteString(name)
	return b.String()
}

// EncodeBytes packs a Hotkey into the 3-byte form stored in a KM2 info
// entry: one flag byte (bit0 ctrl, bit1 alt, bit2 shift) followed by the
// 2-byte little-endian internal key code.
func (h Hotkey) EncodeBytes() []byte {
	var flags byte
	if h.Ctrl {
		flags |= 1
	}
	if h.Alt {
		flags |= 2
	}
	if h.Shift {
		flags |= 4
	}
	return []byte{flags, byte(h.Key), byte(h.Key >> 8)}
}

// DecodeHotkeyBytes reverses EncodeBytes.
func DecodeHotkeyBytes(b []byte) (Hotkey, bool) {
	if len(b) != 3 {
		return Hotkey{}, false
	}
	return Hotkey{
		Ctrl:  b[0]&1 != 0,
		Alt:   b[0]&2 != 0,
		Shift: b[0]&4 != 0,
		Key:   Code(uint16(b[1]) | uint16(b[2])<<8),
	}, true
}
