package km2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/keymagic-project/keymagic-go/core"
	"github.com/keymagic-project/keymagic-go/vk"
)

// Read decodes a KM2 file from r.
func Read(r io.Reader) (*KeyboardLayout, error) {
	var layout *KeyboardLayout
	err := core.Try(func() {
		layout = mustRead(r)
	})
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		return nil, err
	}
	return layout, nil
}

// ReadFile opens path and decodes it as a KM2 file.
func ReadFile(path string) (*KeyboardLayout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("km2: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func mustRead(r io.Reader) *KeyboardLayout {
	var magic [4]byte
	core.ReadFull(r, magic[:])
	if magic != MagicKMKL {
		core.Throwf("%w: got %q", ErrInvalidMagic, magic[:])
	}

	var major, minor uint8
	core.ReadLE(r, &major)
	core.ReadLE(r, &minor)
	if major != majorVersion || minor != minorVersion {
		core.Throwf("%w: %d.%d", ErrUnsupportedVersion, major, minor)
	}

	var stringCount, infoCount, ruleCount uint16
	core.ReadLE(r, &stringCount)
	core.ReadLE(r, &infoCount)
	core.ReadLE(r, &ruleCount)

	var optBytes [5]byte
	core.ReadFull(r, optBytes[:])
	opt := Option{
		TrackCaps:          optBytes[0] != 0,
		SmartBackspace:     optBytes[1] != 0,
		EatAllUnusedKeys:   optBytes[2] != 0,
		USLayoutBased:      optBytes[3] != 0,
		TreatCtrlAltAsRalt: optBytes[4] != 0,
	}

	var padding uint8
	core.ReadLE(r, &padding)

	strs := make([]string, stringCount)
	for i := range strs {
		var n uint16
		core.ReadLE(r, &n)
		raw := make([]byte, int(n)*2)
		core.ReadFull(r, raw)
		s, err := decodeUTF16LE(raw)
		core.ThrowError(err)
		strs[i] = s
	}

	info := make([]InfoEntry, infoCount)
	for i := range info {
		var tagBytes [4]byte
		core.ReadFull(r, tagBytes[:])
		var n uint16
		core.ReadLE(r, &n)
		val := make([]byte, n)
		core.ReadFull(r, val)
		info[i] = InfoEntry{Tag: reverseTag(tagBytes), Value: val}
	}

	rules := make([]Rule, ruleCount)
	for i := range rules {
		rules[i].LHS = mustReadOpcodeStream(r)
		rules[i].RHS = mustReadOpcodeStream(r)
	}

	return &KeyboardLayout{Options: opt, Strings: strs, Info: info, Rules: rules}
}

func reverseTag(b [4]byte) string {
	return string([]byte{b[3], b[2], b[1], b[0]})
}

func tagBytes(tag string) [4]byte {
	var b [4]byte
	t := []byte(tag)
	if len(t) != 4 {
		core.Throwf("%w: info tag %q must be 4 bytes", ErrMalformedOpcode, tag)
	}
	b[0], b[1], b[2], b[3] = t[3], t[2], t[1], t[0]
	return b
}

func mustReadOpcodeStream(r io.Reader) []Element {
	var lenWords uint16
	core.ReadLE(r, &lenWords)
	raw := make([]byte, int(lenWords)*2)
	core.ReadFull(r, raw)
	return mustDecodeElements(raw)
}

// wordReader walks a flat []uint16 word stream with peek/consume, which the
// opcode grammar needs to recognize a MODIFIER follower and to greedily
// collect PREDEFINED tokens under an AND chord.
type wordReader struct {
	words []uint16
	pos   int
}

func (w *wordReader) more() bool { return w.pos < len(w.words) }

func (w *wordReader) next() uint16 {
	if !w.more() {
		core.Throwf("%w: unexpected end of opcode stream", ErrTruncated)
	}
	v := w.words[w.pos]
	w.pos++
	return v
}

func (w *wordReader) peek() (uint16, bool) {
	if !w.more() {
		return 0, false
	}
	return w.words[w.pos], true
}

func mustDecodeElements(raw []byte) []Element {
	if len(raw)%2 != 0 {
		core.Throwf("%w: odd-length opcode stream", ErrMalformedOpcode)
	}
	words := make([]uint16, len(raw)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(raw[i*2 : i*2+2])
	}
	wr := &wordReader{words: words}

	var elems []Element
	for wr.more() {
		elems = append(elems, mustDecodeOneElement(wr))
	}
	return elems
}

func mustDecodeOneElement(wr *wordReader) Element {
	op := Opcode(wr.next())
	switch op {
	case OpString:
		n := wr.next()
		units := make([]byte, 0, int(n)*2)
		for i := uint16(0); i < n; i++ {
			u := wr.next()
			units = append(units, byte(u), byte(u>>8))
		}
		s, err := decodeUTF16LE(units)
		core.ThrowError(err)
		return Element{Kind: KindString, Runes: []rune(s)}

	case OpVariable:
		idx := int(wr.next())
		if follower, ok := wr.peek(); ok && Opcode(follower) == OpModifier {
			wr.next() // consume MODIFIER
			f := wr.next()
			switch Opcode(f) {
			case OpAnyOf:
				return Element{Kind: KindIndexedVariable, VarIndex: idx, IndexKind: IndexStar}
			case OpNanyOf:
				return Element{Kind: KindIndexedVariable, VarIndex: idx, IndexKind: IndexCaret}
			default:
				return Element{Kind: KindIndexedVariable, VarIndex: idx, IndexKind: IndexNumeric, Index: int(f)}
			}
		}
		return Element{Kind: KindVariable, VarIndex: idx}

	case OpReference:
		return Element{Kind: KindReference, Index: int(wr.next())}

	case OpPredefined:
		code := vk.Code(wr.next())
		if code != vk.Null {
			core.Throwf("%w: standalone PREDEFINED(%d) outside AND chord", ErrMalformedOpcode, code)
		}
		return Element{Kind: KindNull}

	case OpAnd:
		var chord []vk.Code
		for {
			next, ok := wr.peek()
			if !ok || Opcode(next) != OpPredefined {
				break
			}
			wr.next()
			chord = append(chord, vk.Code(wr.next()))
		}
		if len(chord) == 0 {
			core.Throwf("%w: AND with no PREDEFINED keys", ErrMalformedOpcode)
		}
		return Element{Kind: KindChord, Chord: chord}

	case OpAny:
		return Element{Kind: KindAny}

	case OpSwitch:
		return Element{Kind: KindState, StateIndex: int(wr.next())}

	case OpAnyOf, OpNanyOf, OpModifier:
		core.Throwf("%w: opcode 0x%04X may only appear as a MODIFIER follower", ErrMalformedOpcode, uint16(op))
	}
	core.Throwf("%w: unknown opcode 0x%04X", ErrMalformedOpcode, uint16(op))
	panic("unreachable")
}
