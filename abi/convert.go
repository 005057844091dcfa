package abi

import (
	"github.com/keymagic-project/keymagic-go/match"
	"github.com/keymagic-project/keymagic-go/vk"
)

func toEngineKeyInput(k KeyInput) match.KeyInput {
	return match.KeyInput{
		VK:    vk.Code(k.VK),
		Char:  k.Char,
		Shift: k.Shift,
		Ctrl:  k.Ctrl,
		Alt:   k.Alt,
		Caps:  k.Caps,
	}
}

func decodeHotkey(raw []byte) (string, bool) {
	hk, ok := vk.DecodeHotkeyBytes(raw)
	if !ok {
		return "", false
	}
	return hk.String(), true
}

// ParseHotkey parses a "Ctrl+Shift+K" string into its components, for the
// keymagic_parse_hotkey entry point.
func ParseHotkey(s string) (ctrl, alt, shift bool, keyCode uint16, ok bool) {
	hk, ok := vk.ParseHotkey(s)
	if !ok {
		return false, false, false, 0, false
	}
	return hk.Ctrl, hk.Alt, hk.Shift, uint16(hk.Key), true
}

// VirtualKeyName returns the canonical KMS source name for a virtual-key
// code, or "" if unrecognized.
func VirtualKeyName(code uint16) string {
	return vk.Name(vk.Code(code))
}

// Version is the facade's reported version string (keymagic_get_version).
const Version = "1.5.0"
