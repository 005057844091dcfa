// Package kms lexes and parses the textual keyboard script source format.
package kms

import "errors"

var (
	ErrLex                = errors.New("kms: lex error")
	ErrParse              = errors.New("kms: parse error")
	ErrUndefinedVariable   = errors.New("kms: undefined variable")
	ErrUndefinedState      = errors.New("kms: undefined state")
	ErrInvalidBackRef      = errors.New("kms: invalid back-reference")
	ErrIncludeNotFound     = errors.New("kms: include not found")
	ErrIncludeCycle        = errors.New("kms: include cycle")
)
