// Package abi implements the host-facing facade behind the C ABI: an
// opaque handle registry over engine.Engine and km2.KeyboardLayout, and the
// result-code taxonomy the cgo export layer in cmd/libkeymagic translates
// into return values. Kept free of cgo so it can be unit-tested directly.
package abi

import (
	"sync"
	"sync/atomic"

	"github.com/keymagic-project/keymagic-go/engine"
	"github.com/keymagic-project/keymagic-go/km2"
)

// Result mirrors the ABI's stable result-code taxonomy (spec §6.1).
type Result int32

const (
	Success             Result = 0
	InvalidHandle       Result = -1
	InvalidParameter    Result = -2
	EngineFailure       Result = -3
	Utf8ConversionError Result = -4
	NoKeyboardLoaded    Result = -5
)

// Handle identifies a registered engine or KM2 file across the ABI
// boundary. It is opaque to callers; 0 is never issued and is always
// invalid.
type Handle uint64

var nextHandle uint64

func allocHandle() Handle {
	return Handle(atomic.AddUint64(&nextHandle, 1))
}

var (
	enginesMu sync.RWMutex
	engines   = map[Handle]*engine.Engine{}

	km2FilesMu sync.RWMutex
	km2Files   = map[Handle]*km2.KeyboardLayout{}
)

// NewEngine registers a fresh engine and returns its handle.
func NewEngine() Handle {
	h := allocHandle()
	enginesMu.Lock()
	engines[h] = engine.New()
	enginesMu.Unlock()
	return h
}

// FreeEngine releases an engine handle. Freeing an unknown handle is a
// no-op, matching the "passing a freed handle yields InvalidHandle" policy
// for subsequent calls rather than for the free call itself.
func FreeEngine(h Handle) {
	enginesMu.Lock()
	delete(engines, h)
	enginesMu.Unlock()
}

func lookupEngine(h Handle) (*engine.Engine, bool) {
	enginesMu.RLock()
	e, ok := engines[h]
	enginesMu.RUnlock()
	return e, ok
}

// LoadKeyboardFile loads a KM2 file from disk into the given engine.
func LoadKeyboardFile(h Handle, path string) Result {
	e, ok := lookupEngine(h)
	if !ok {
		return InvalidHandle
	}
	if err := e.LoadKeyboardFile(path); err != nil {
		return EngineFailure
	}
	return Success
}

// LoadKeyboardFromMemory loads a KM2 file already read into memory.
func LoadKeyboardFromMemory(h Handle, data []byte) Result {
	e, ok := lookupEngine(h)
	if !ok {
		return InvalidHandle
	}
	if err := e.LoadKeyboard(data); err != nil {
		return EngineFailure
	}
	return Success
}

// Reset clears an engine's composing buffer and active states.
func Reset(h Handle) Result {
	e, ok := lookupEngine(h)
	if !ok {
		return InvalidHandle
	}
	e.Reset()
	return Success
}

// SetComposition replaces an engine's composing buffer.
func SetComposition(h Handle, text string) Result {
	e, ok := lookupEngine(h)
	if !ok {
		return InvalidHandle
	}
	e.SetComposingText(text)
	return Success
}

// GetComposition reads an engine's composing buffer.
func GetComposition(h Handle) (string, Result) {
	e, ok := lookupEngine(h)
	if !ok {
		return "", InvalidHandle
	}
	return e.GetComposition(), Success
}

// KeyInput is the ABI-level key event, mirroring engine.KeyInput but kept
// separate so the cgo layer never needs to import the engine package's
// internals directly.
type KeyInput struct {
	VK    uint16
	Char  rune
	Shift bool
	Ctrl  bool
	Alt   bool
	Caps  bool
}

// ProcessKey runs one key event through an engine and returns its output.
func ProcessKey(h Handle, key KeyInput) (engine.Output, Result) {
	e, ok := lookupEngine(h)
	if !ok {
		return engine.Output{}, InvalidHandle
	}
	out := e.ProcessKey(toEngineKeyInput(key))
	return out, Success
}

// LoadKm2File parses a KM2 file from disk into a standalone file handle,
// independent of any engine (spec's Km2FileHandle).
func LoadKm2File(path string) (Handle, Result) {
	layout, err := km2.ReadFile(path)
	if err != nil {
		return 0, EngineFailure
	}
	h := allocHandle()
	km2FilesMu.Lock()
	km2Files[h] = layout
	km2FilesMu.Unlock()
	return h, Success
}

// FreeKm2File releases a KM2 file handle.
func FreeKm2File(h Handle) {
	km2FilesMu.Lock()
	delete(km2Files, h)
	km2FilesMu.Unlock()
}

// Km2Hotkey returns the hotkey string for a loaded KM2 file, or "" if it
// declares none.
func Km2Hotkey(h Handle) (string, Result) {
	km2FilesMu.RLock()
	layout, ok := km2Files[h]
	km2FilesMu.RUnlock()
	if !ok {
		return "", InvalidHandle
	}
	raw := layout.InfoValue(km2.TagHotkey)
	if raw == nil {
		return "", Success
	}
	hk, ok := decodeHotkey(raw)
	if !ok {
		return "", Success
	}
	return hk, Success
}
