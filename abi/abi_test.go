package abi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/keymagic-project/keymagic-go/compile"
	"github.com/keymagic-project/keymagic-go/kms"
)

func mustLayoutFile(t *testing.T, src string) string {
	t.Helper()
	toks, err := kms.Lex([]byte(src), "test.kms")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	f, err := kms.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	layout, err := compile.Compile(f)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	var buf bytes.Buffer
	if err := layout.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.km2")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestEngineHandleLifecycle(t *testing.T) {
	h := NewEngine()
	defer FreeEngine(h)

	if r := Reset(h); r != Success {
		t.Fatalf("Reset: got %v", r)
	}

	FreeEngine(h)
	if r := Reset(h); r != InvalidHandle {
		t.Errorf("expected InvalidHandle after free, got %v", r)
	}
}

func TestProcessKeyThroughHandle(t *testing.T) {
	path := mustLayoutFile(t, `"ka" => U1000`)
	h := NewEngine()
	defer FreeEngine(h)

	if r := LoadKeyboardFile(h, path); r != Success {
		t.Fatalf("LoadKeyboardFile: got %v", r)
	}

	ProcessKey(h, KeyInput{Char: 'k'})
	_, r := ProcessKey(h, KeyInput{Char: 'a'})
	if r != Success {
		t.Fatalf("ProcessKey: got %v", r)
	}

	comp, r := GetComposition(h)
	if r != Success {
		t.Fatalf("GetComposition: got %v", r)
	}
	want := string(rune(0x1000))
	if comp != want {
		t.Errorf("got composition %q, want %q", comp, want)
	}
}

func TestLoadKeyboardFileInvalidHandle(t *testing.T) {
	if r := LoadKeyboardFile(Handle(999999), "/does/not/exist.km2"); r != InvalidHandle {
		t.Errorf("expected InvalidHandle, got %v", r)
	}
}

func TestKm2FileHandleLifecycle(t *testing.T) {
	path := mustLayoutFile(t, `/*
 @HOTKEY = "Ctrl+Shift+K"
*/
"a" => "b"`)
	h, r := LoadKm2File(path)
	if r != Success {
		t.Fatalf("LoadKm2File: got %v", r)
	}
	defer FreeKm2File(h)

	hotkey, r := Km2Hotkey(h)
	if r != Success || hotkey != "Ctrl+Shift+K" {
		t.Errorf("got hotkey %q, r=%v", hotkey, r)
	}
}

func TestParseHotkeyRoundTrip(t *testing.T) {
	ctrl, alt, shift, keyCode, ok := ParseHotkey("Ctrl+Alt+A")
	if !ok || !ctrl || !alt || shift {
		t.Fatalf("unexpected parse result: ctrl=%v alt=%v shift=%v ok=%v", ctrl, alt, shift, ok)
	}
	if name := VirtualKeyName(keyCode); name != "VK_KEY_A" {
		t.Errorf("got key name %q", name)
	}
}
