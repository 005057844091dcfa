package km2

import "golang.org/x/text/encoding/unicode"

// utf16LE is shared by the string table and STRING opcode payloads, which
// are UTF-16LE on the wire; info-table payloads are kept as raw bytes and
// do not pass through it. golang.org/x/text is the ecosystem's
// standard non-UTF-8 transcoding library, used here instead of a hand-rolled
// surrogate-pair walker.
var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func decodeUTF16LE(b []byte) (string, error) {
	out, err := utf16LE.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func encodeUTF16LE(s string) ([]byte, error) {
	return utf16LE.NewEncoder().Bytes([]byte(s))
}
