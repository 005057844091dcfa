package km2

import (
	"encoding/binary"
	"io"

	"github.com/keymagic-project/keymagic-go/core"
	"github.com/keymagic-project/keymagic-go/vk"
)

// Write encodes k to w in KM2 binary form. Write(Read(x)) round-trips byte
// for byte with the original file for any layout produced by this package
// or by the compiler.
func (k *KeyboardLayout) Write(w io.Writer) error {
	return core.Try(func() {
		mustWrite(k, w)
	})
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func mustWrite(k *KeyboardLayout, w io.Writer) {
	core.WriteFull(w, MagicKMKL[:])
	core.WriteLE(w, uint8(majorVersion))
	core.WriteLE(w, uint8(minorVersion))
	core.WriteLE(w, uint16(len(k.Strings)))
	core.WriteLE(w, uint16(len(k.Info)))
	core.WriteLE(w, uint16(len(k.Rules)))

	opt := k.Options
	core.WriteFull(w, []byte{
		boolByte(opt.TrackCaps),
		boolByte(opt.SmartBackspace),
		boolByte(opt.EatAllUnusedKeys),
		boolByte(opt.USLayoutBased),
		boolByte(opt.TreatCtrlAltAsRalt),
	})
	core.WriteLE(w, uint8(0)) // padding

	for _, s := range k.Strings {
		raw, err := encodeUTF16LE(s)
		core.ThrowError(err)
		core.WriteLE(w, uint16(len(raw)/2))
		core.WriteFull(w, raw)
	}

	for _, e := range k.Info {
		tb := tagBytes(e.Tag)
		core.WriteFull(w, tb[:])
		core.WriteLE(w, uint16(len(e.Value)))
		core.WriteFull(w, e.Value)
	}

	for _, rule := range k.Rules {
		mustWriteOpcodeStream(w, rule.LHS)
		mustWriteOpcodeStream(w, rule.RHS)
	}
}

func mustWriteOpcodeStream(w io.Writer, elems []Element) {
	var words []uint16
	for _, e := range elems {
		words = append(words, mustEncodeOneElement(e)...)
	}
	core.WriteLE(w, uint16(len(words)))
	raw := make([]byte, len(words)*2)
	for i, word := range words {
		binary.LittleEndian.PutUint16(raw[i*2:], word)
	}
	core.WriteFull(w, raw)
}

func mustEncodeOneElement(e Element) []uint16 {
	switch e.Kind {
	case KindString:
		units := mustUTF16Units(string(e.Runes))
		words := make([]uint16, 0, 2+len(units))
		words = append(words, uint16(OpString), uint16(len(units)))
		words = append(words, units...)
		return words

	case KindVariable:
		return []uint16{uint16(OpVariable), uint16(e.VarIndex)}

	case KindIndexedVariable:
		switch e.IndexKind {
		case IndexStar:
			return []uint16{uint16(OpVariable), uint16(e.VarIndex), uint16(OpModifier), uint16(OpAnyOf)}
		case IndexCaret:
			return []uint16{uint16(OpVariable), uint16(e.VarIndex), uint16(OpModifier), uint16(OpNanyOf)}
		default:
			return []uint16{uint16(OpVariable), uint16(e.VarIndex), uint16(OpModifier), uint16(e.Index)}
		}

	case KindReference:
		return []uint16{uint16(OpReference), uint16(e.Index)}

	case KindAny:
		return []uint16{uint16(OpAny)}

	case KindChord:
		words := make([]uint16, 0, 1+2*len(e.Chord))
		words = append(words, uint16(OpAnd))
		for _, c := range e.Chord {
			words = append(words, uint16(OpPredefined), uint16(c))
		}
		return words

	case KindState:
		return []uint16{uint16(OpSwitch), uint16(e.StateIndex)}

	case KindNull:
		return []uint16{uint16(OpPredefined), uint16(vk.Null)}
	}
	core.Throwf("%w: unknown element kind %d", ErrMalformedOpcode, e.Kind)
	panic("unreachable")
}

func mustUTF16Units(s string) []uint16 {
	raw, err := encodeUTF16LE(s)
	core.ThrowError(err)
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return units
}
