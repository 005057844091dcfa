package core

import (
	"encoding/binary"
	"io"
)

// ReadFull reads exactly len(buf) bytes from r, panicking (via ThrowError)
// on any error including a short read.
func ReadFull(r io.Reader, buf []byte) {
	_, err := io.ReadFull(r, buf)
	ThrowError(err)
}

// ReadLE reads a fixed-size little-endian value into out. T is constrained
// to the integer widths the KM2 format uses on the wire.
func ReadLE[T ~uint8 | ~uint16 | ~uint32](r io.Reader, out *T) {
	ThrowError(binary.Read(r, binary.LittleEndian, out))
}

// WriteLE writes v to w in little-endian form, panicking on any write error.
func WriteLE[T ~uint8 | ~uint16 | ~uint32](w io.Writer, v T) {
	ThrowError(binary.Write(w, binary.LittleEndian, v))
}

// WriteFull writes b to w in full, panicking on any write error or short
// write.
func WriteFull(w io.Writer, b []byte) {
	n, err := w.Write(b)
	ThrowError(err)
	if n != len(b) {
		Throwf("short write: wrote %d of %d bytes", n, len(b))
	}
}
