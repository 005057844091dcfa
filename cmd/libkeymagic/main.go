// Command libkeymagic builds the stable C ABI described in the keymagic-go
// facade as a c-shared library: opaque engine/KM2-file handles, UTF-8
// string transfer with a paired free entry point, and the result-code
// taxonomy in package abi.
//
// Build with:
//
//	go build -buildmode=c-shared -o libkeymagic.so ./cmd/libkeymagic
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	int32_t action_type;
	char*   text;
	int32_t delete_count;
	char*   composing_text;
	int32_t is_processed;
} KeyMagicOutput;

typedef struct {
	int32_t ctrl;
	int32_t alt;
	int32_t shift;
	int32_t key_code;
} KeyMagicHotkeyInfo;
*/
import "C"

import (
	"unsafe"

	"github.com/keymagic-project/keymagic-go/abi"
	"github.com/keymagic-project/keymagic-go/engine"
)

func main() {} // required by -buildmode=c-shared; unused

//export keymagic_engine_new
func keymagic_engine_new() C.uint64_t {
	return C.uint64_t(abi.NewEngine())
}

//export keymagic_engine_free
func keymagic_engine_free(h C.uint64_t) {
	abi.FreeEngine(abi.Handle(h))
}

//export keymagic_engine_load_keyboard
func keymagic_engine_load_keyboard(h C.uint64_t, pathUtf8 *C.char) C.int32_t {
	if pathUtf8 == nil {
		return C.int32_t(abi.InvalidParameter)
	}
	path := C.GoString(pathUtf8)
	return C.int32_t(abi.LoadKeyboardFile(abi.Handle(h), path))
}

//export keymagic_engine_load_keyboard_from_memory
func keymagic_engine_load_keyboard_from_memory(h C.uint64_t, ptr *C.char, length C.int32_t) C.int32_t {
	if ptr == nil || length < 0 {
		return C.int32_t(abi.InvalidParameter)
	}
	data := C.GoBytes(unsafe.Pointer(ptr), length)
	return C.int32_t(abi.LoadKeyboardFromMemory(abi.Handle(h), data))
}

//export keymagic_engine_process_key
func keymagic_engine_process_key(
	h C.uint64_t,
	vkCode C.uint16_t,
	char C.uint32_t,
	shift, ctrl, alt, caps C.int32_t,
	out *C.KeyMagicOutput,
) C.int32_t {
	if out == nil {
		return C.int32_t(abi.InvalidParameter)
	}
	key := abi.KeyInput{
		VK:    uint16(vkCode),
		Char:  rune(char),
		Shift: shift != 0,
		Ctrl:  ctrl != 0,
		Alt:   alt != 0,
		Caps:  caps != 0,
	}
	result, status := abi.ProcessKey(abi.Handle(h), key)
	if status != abi.Success {
		return C.int32_t(status)
	}
	fillOutput(out, result)
	return C.int32_t(abi.Success)
}

func fillOutput(out *C.KeyMagicOutput, result engine.Output) {
	out.action_type = C.int32_t(result.Action.Kind)
	out.delete_count = C.int32_t(result.Action.DeleteCount)
	out.composing_text = C.CString(result.ComposingText)
	if result.Action.InsertText != "" {
		out.text = C.CString(result.Action.InsertText)
	} else {
		out.text = nil
	}
	if result.IsProcessed {
		out.is_processed = 1
	} else {
		out.is_processed = 0
	}
}

//export keymagic_engine_reset
func keymagic_engine_reset(h C.uint64_t) C.int32_t {
	return C.int32_t(abi.Reset(abi.Handle(h)))
}

//export keymagic_engine_set_composition
func keymagic_engine_set_composition(h C.uint64_t, textUtf8 *C.char) C.int32_t {
	if textUtf8 == nil {
		return C.int32_t(abi.InvalidParameter)
	}
	return C.int32_t(abi.SetComposition(abi.Handle(h), C.GoString(textUtf8)))
}

//export keymagic_engine_get_composition
func keymagic_engine_get_composition(h C.uint64_t) *C.char {
	text, status := abi.GetComposition(abi.Handle(h))
	if status != abi.Success {
		return nil
	}
	return C.CString(text)
}

//export keymagic_free_string
func keymagic_free_string(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

//export keymagic_km2_load
func keymagic_km2_load(pathUtf8 *C.char) C.uint64_t {
	if pathUtf8 == nil {
		return 0
	}
	h, status := abi.LoadKm2File(C.GoString(pathUtf8))
	if status != abi.Success {
		return 0
	}
	return C.uint64_t(h)
}

//export keymagic_km2_free
func keymagic_km2_free(h C.uint64_t) {
	abi.FreeKm2File(abi.Handle(h))
}

//export keymagic_km2_get_hotkey
func keymagic_km2_get_hotkey(h C.uint64_t) *C.char {
	hotkey, status := abi.Km2Hotkey(abi.Handle(h))
	if status != abi.Success {
		hotkey = ""
	}
	return C.CString(hotkey)
}

//export keymagic_parse_hotkey
func keymagic_parse_hotkey(str *C.char, outInfo *C.KeyMagicHotkeyInfo) C.int {
	if str == nil || outInfo == nil {
		return 0
	}
	ctrl, alt, shift, keyCode, ok := abi.ParseHotkey(C.GoString(str))
	if !ok {
		return 0
	}
	outInfo.ctrl = boolToC(ctrl)
	outInfo.alt = boolToC(alt)
	outInfo.shift = boolToC(shift)
	outInfo.key_code = C.int32_t(keyCode)
	return 1
}

func boolToC(b bool) C.int32_t {
	if b {
		return 1
	}
	return 0
}

//export keymagic_virtual_key_to_string
func keymagic_virtual_key_to_string(code C.uint16_t) *C.char {
	return C.CString(abi.VirtualKeyName(uint16(code)))
}

//export keymagic_get_version
func keymagic_get_version() *C.char {
	return C.CString(abi.Version)
}
