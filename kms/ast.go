package kms

import "github.com/keymagic-project/keymagic-go/vk"

// File is the parsed AST of one fully include-resolved KMS source.
type File struct {
	Options []OptionDecl
	Vars    []VarDecl
	Rules   []RuleDecl
}

// OptionDecl is an `@NAME = "value"` layout option assignment.
type OptionDecl struct {
	Name  string // one of the names in token.go's optionNames
	Value string
	Line  int
}

// VarDecl is a `$name = <value expr>` variable definition.
type VarDecl struct {
	Name     string
	Elements []ValueElem
	Line     int
}

// ValueElemKind tags a variable value's terms.
type ValueElemKind int

const (
	ValueString ValueElemKind = iota
	ValueUnicode
	ValueVarRef
)

type ValueElem struct {
	Kind ValueElemKind
	Text []rune // ValueString
	Rune rune   // ValueUnicode
	Name string // ValueVarRef
	Line int
}

// PatternElemKind tags an LHS/RHS element in a rule. Not every kind is
// legal on both sides; the compiler enforces that (spec §4.4).
type PatternElemKind int

const (
	PString PatternElemKind = iota
	PUnicode
	PVarRef
	PIndexedVar
	PAny
	PChord
	PState
	PBackRef
	PNull
)

// IndexKind distinguishes the forms of an indexed variable reference.
type IndexKind int

const (
	IdxStar IndexKind = iota
	IdxCaret
	IdxPositional // $v[k], LHS only, 0-based literal index into the variable
	IdxBackRef    // $v[$n], n is a 1-based capture index
)

// PatternElem is one element of a rule's LHS or RHS.
type PatternElem struct {
	Kind PatternElemKind

	Text []rune // PString
	Rune rune   // PUnicode

	VarName   string    // PVarRef, PIndexedVar
	IndexKind IndexKind // PIndexedVar
	Index     int       // PIndexedVar (IdxPositional/IdxBackRef), PBackRef

	Chord []vk.Code // PChord

	StateName string // PState

	Line int
}

// RuleDecl is one `<lhs> => <rhs>` rule.
type RuleDecl struct {
	LHS  []PatternElem
	RHS  []PatternElem
	Line int
}
