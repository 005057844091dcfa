package kms

import (
	"fmt"

	"github.com/keymagic-project/keymagic-go/vk"
)

type parser struct {
	toks []Token
	pos  int
}

// Parse builds an AST from a fully include-resolved token stream.
func Parse(tokens []Token) (*File, error) {
	p := &parser{toks: tokens}
	f := &File{}
	for !p.at(EOF) {
		switch {
		case p.at(At):
			decl, err := p.parseOption()
			if err != nil {
				return nil, err
			}
			f.Options = append(f.Options, decl)

		case p.at(VarRef) && p.pos+1 < len(p.toks) && p.toks[p.pos+1].Kind == Equals:
			decl, err := p.parseVarDecl()
			if err != nil {
				return nil, err
			}
			f.Vars = append(f.Vars, decl)

		default:
			rule, err := p.parseRule()
			if err != nil {
				return nil, err
			}
			f.Rules = append(f.Rules, rule)
		}
	}
	return f, nil
}

func (p *parser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) at(k Kind) bool { return p.cur().Kind == k }

func (p *parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t Token, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s:%d:%d: %s", ErrParse, t.File, t.Line, t.Col, fmt.Sprintf(format, args...))
}

func (p *parser) expect(k Kind, what string) (Token, error) {
	if !p.at(k) {
		return Token{}, p.errorf(p.cur(), "expected %s, got %q", what, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *parser) parseOption() (OptionDecl, error) {
	at := p.advance() // '@NAME'
	if _, err := p.expect(Equals, "'='"); err != nil {
		return OptionDecl{}, err
	}
	val, err := p.expect(String, "string value")
	if err != nil {
		return OptionDecl{}, err
	}
	return OptionDecl{Name: at.Text, Value: val.Text, Line: at.Line}, nil
}

func (p *parser) parseVarDecl() (VarDecl, error) {
	name := p.advance() // VarRef
	if _, err := p.expect(Equals, "'='"); err != nil {
		return VarDecl{}, err
	}
	var elems []ValueElem
	for {
		elem, err := p.parseValueTerm()
		if err != nil {
			return VarDecl{}, err
		}
		elems = append(elems, elem)
		if p.at(Plus) {
			p.advance()
			continue
		}
		break
	}
	return VarDecl{Name: name.Text, Elements: elems, Line: name.Line}, nil
}

func (p *parser) parseValueTerm() (ValueElem, error) {
	t := p.cur()
	switch t.Kind {
	case String:
		p.advance()
		return ValueElem{Kind: ValueString, Text: []rune(t.Text), Line: t.Line}, nil
	case Unicode:
		p.advance()
		return ValueElem{Kind: ValueUnicode, Rune: t.Rune, Line: t.Line}, nil
	case VarRef:
		p.advance()
		return ValueElem{Kind: ValueVarRef, Name: t.Text, Line: t.Line}, nil
	case Lt:
		return ValueElem{}, p.errorf(t, "virtual-key reference not allowed inside a variable value")
	default:
		return ValueElem{}, p.errorf(t, "expected string, unicode literal, or variable reference")
	}
}

func (p *parser) parseRule() (RuleDecl, error) {
	line := p.cur().Line
	lhs, err := p.parseSide(true)
	if err != nil {
		return RuleDecl{}, err
	}
	if _, err := p.expect(Arrow, "'=>'"); err != nil {
		return RuleDecl{}, err
	}
	rhs, err := p.parseSide(false)
	if err != nil {
		return RuleDecl{}, err
	}
	return RuleDecl{LHS: lhs, RHS: rhs, Line: line}, nil
}

func (p *parser) parseSide(isLHS bool) ([]PatternElem, error) {
	var elems []PatternElem
	for {
		elem, err := p.parsePatternElem(isLHS)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.at(Plus) {
			p.advance()
			continue
		}
		break
	}
	return elems, nil
}

func (p *parser) parsePatternElem(isLHS bool) (PatternElem, error) {
	t := p.cur()
	switch t.Kind {
	case String:
		p.advance()
		return PatternElem{Kind: PString, Text: []rune(t.Text), Line: t.Line}, nil

	case Unicode:
		p.advance()
		return PatternElem{Kind: PUnicode, Rune: t.Rune, Line: t.Line}, nil

	case VarRef:
		if isBackRefText(t.Text) {
			p.advance()
			return PatternElem{Kind: PBackRef, Index: atoiBackRef(t.Text), Line: t.Line}, nil
		}
		return p.parseVarRefElem(t, isLHS)

	case Ident:
		switch t.Text {
		case "ANY":
			if !isLHS {
				return PatternElem{}, p.errorf(t, "ANY is only valid on the LHS")
			}
			p.advance()
			return PatternElem{Kind: PAny, Line: t.Line}, nil
		case "NULL":
			if isLHS {
				return PatternElem{}, p.errorf(t, "NULL is only valid on the RHS")
			}
			p.advance()
			return PatternElem{Kind: PNull, Line: t.Line}, nil
		default:
			return PatternElem{}, p.errorf(t, "unexpected identifier %q in rule", t.Text)
		}

	case Lt:
		return p.parseChord(isLHS)

	case LParen:
		return p.parseState()

	default:
		return PatternElem{}, p.errorf(t, "unexpected token %q in rule", t.Text)
	}
}

func (p *parser) parseVarRefElem(t Token, isLHS bool) (PatternElem, error) {
	p.advance()
	if !p.at(LBracket) {
		return PatternElem{Kind: PVarRef, VarName: t.Text, Line: t.Line}, nil
	}
	p.advance() // '['
	elem := PatternElem{Kind: PIndexedVar, VarName: t.Text, Line: t.Line}
	switch {
	case p.at(Star):
		if !isLHS {
			return PatternElem{}, p.errorf(p.cur(), "%s[*] is only valid on the LHS", t.Text)
		}
		p.advance()
		elem.IndexKind = IdxStar
	case p.at(Caret):
		if !isLHS {
			return PatternElem{}, p.errorf(p.cur(), "%s[^] is only valid on the LHS", t.Text)
		}
		p.advance()
		elem.IndexKind = IdxCaret
	case p.at(VarRef) && isBackRefText(p.cur().Text):
		num := p.advance()
		elem.IndexKind = IdxBackRef
		elem.Index = atoiBackRef(num.Text)
	case p.at(Number):
		if !isLHS {
			return PatternElem{}, p.errorf(p.cur(), "positional index %s[k] is only valid on the LHS", t.Text)
		}
		num := p.advance()
		elem.IndexKind = IdxPositional
		elem.Index = num.Num
	default:
		return PatternElem{}, p.errorf(p.cur(), "expected '*', '^', '$n' or a positional index")
	}
	if _, err := p.expect(RBracket, "']'"); err != nil {
		return PatternElem{}, err
	}
	return elem, nil
}

func (p *parser) parseChord(isLHS bool) (PatternElem, error) {
	open := p.advance() // '<'
	if !isLHS {
		return PatternElem{}, p.errorf(open, "virtual-key chord is only valid on the LHS")
	}
	var chord []vk.Code
	for {
		name, err := p.expect(Ident, "virtual-key name")
		if err != nil {
			return PatternElem{}, err
		}
		code, ok := vk.Lookup(name.Text)
		if !ok {
			return PatternElem{}, p.errorf(name, "unknown virtual key %q", name.Text)
		}
		chord = append(chord, code)
		if p.at(Amp) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(Gt, "'>'"); err != nil {
		return PatternElem{}, err
	}
	return PatternElem{Kind: PChord, Chord: chord, Line: open.Line}, nil
}

func (p *parser) parseState() (PatternElem, error) {
	open := p.advance() // '('
	var name string
	switch {
	case p.at(Ident):
		name = p.advance().Text
	case p.at(String):
		name = p.advance().Text
	default:
		return PatternElem{}, p.errorf(p.cur(), "expected state name")
	}
	if _, err := p.expect(RParen, "')'"); err != nil {
		return PatternElem{}, err
	}
	return PatternElem{Kind: PState, StateName: name, Line: open.Line}, nil
}

// isBackRefText reports whether a VarRef token's text names a bare
// back-reference ($1, $2, ...) rather than a variable ($name). The lexer
// folds both forms into the same token kind, so the distinction is made
// here: a variable name can never be composed entirely of digits.
func isBackRefText(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoiBackRef(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
