package vk

import "testing"

func TestLookupCanonical(t *testing.T) {
	cases := []struct {
		name string
		want Code
	}{
		{"VK_KEY_A", VK_KEY_A},
		{"VK_KEY_Z", VK_KEY_Z},
		{"VK_KEY_0", VK_KEY_0},
		{"VK_SHIFT", VK_SHIFT},
		{"NULL", Null},
	}
	for _, c := range cases {
		got, ok := Lookup(c.name)
		if !ok {
			t.Errorf("Lookup(%q): not found", c.name)
			continue
		}
		if got != c.want {
			t.Errorf("Lookup(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLookupAliases(t *testing.T) {
	aliasCases := map[string]Code{
		"VK_CTRL":  VK_CONTROL,
		"VK_MENU":  VK_ALT,
		"VK_ENTER": VK_RETURN,
		"VK_ESC":   VK_ESCAPE,
	}
	for alias, want := range aliasCases {
		got, ok := Lookup(alias)
		if !ok || got != want {
			t.Errorf("Lookup(%q) = %v, %v; want %v, true", alias, got, ok, want)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("VK_DOES_NOT_EXIST"); ok {
		t.Error("expected unknown VK name to fail lookup")
	}
}

func TestNameRoundTrip(t *testing.T) {
	for _, c := range []Code{VK_KEY_A, VK_SHIFT, VK_OEM_1, VK_F1, VK_NUMPAD0} {
		n := Name(c)
		if n == "" {
			t.Fatalf("Name(%v) empty", c)
		}
		got, ok := Lookup(n)
		if !ok || got != c {
			t.Errorf("round trip through %q failed: got %v, ok=%v", n, got, ok)
		}
	}
}

func TestFromWindowsVK(t *testing.T) {
	cases := []struct {
		wvk  uint16
		want Code
	}{
		{0x41, VK_KEY_A},
		{0x5A, VK_KEY_Z},
		{0x30, VK_KEY_0},
		{0x10, VK_SHIFT},
		{0xA5, VK_ALT_GR},
		{0x08, VK_BACK},
	}
	for _, c := range cases {
		got, ok := FromWindowsVK(c.wvk)
		if !ok || got != c.want {
			t.Errorf("FromWindowsVK(0x%02X) = %v, %v; want %v, true", c.wvk, got, ok, c.want)
		}
	}
	if _, ok := FromWindowsVK(0xFFFF); ok {
		t.Error("expected unmapped VK to fail")
	}
}
