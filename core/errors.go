// Package core provides small utilities shared across the keymagic packages:
// panic/recover error plumbing for deeply recursive decode/parse code, and
// byte-order helpers for the KM2 codec.
package core

import "fmt"

// ThrowError panics with err if err is non-nil. Used inside package-internal
// decode/parse helpers where threading an error return through every call
// site would bury the control flow; callers recover via Try at the public
// boundary.
func ThrowError(err error) {
	if err != nil {
		panic(err)
	}
}

// Throwf panics with a formatted error.
func Throwf(format string, args ...interface{}) {
	panic(fmt.Errorf(format, args...))
}

// ThrowIf panics with err if cond is true.
func ThrowIf(cond bool, err error) {
	if cond {
		panic(err)
	}
}

// Try runs fn and converts any panic raised through ThrowError/Throwf back
// into a plain error. A panic value that is not an error is re-panicked:
// only the Throw* helpers in this package are meant to unwind through Try.
func Try(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	fn()
	return nil
}
