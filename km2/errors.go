package km2

import "errors"

// Format errors returned by Read/ReadFile, per the KM2 codec's error
// taxonomy. Wrapped with additional context via fmt.Errorf("%w: ...").
var (
	ErrInvalidMagic          = errors.New("km2: invalid magic")
	ErrUnsupportedVersion    = errors.New("km2: unsupported version")
	ErrTruncated             = errors.New("km2: truncated file")
	ErrMalformedOpcode       = errors.New("km2: malformed opcode")
	ErrStringIndexOutOfRange = errors.New("km2: string index out of range")
)
