package kms

import (
	"errors"
	"fmt"
	"testing"
)

func mustLexTokens(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Lex([]byte(src), "test.kms")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	return toks
}

func fakeFS(files map[string]string) func(string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		if src, ok := files[path]; ok {
			return []byte(src), nil
		}
		return nil, fmt.Errorf("no such file: %s", path)
	}
}

func TestResolveSplicesIncludedTokens(t *testing.T) {
	r := &Resolver{Load: fakeFS(map[string]string{
		"defs.kms": `$cons = "က"`,
	})}
	toks := mustLexTokens(t, `include "defs.kms"
$cons[*] + "a" => "X"`)

	resolved, err := r.Resolve(toks, ".")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved[0].Kind != VarRef || resolved[0].Text != "cons" {
		t.Fatalf("expected spliced VarRef first, got %+v", resolved[0])
	}
	var eofs int
	for _, tok := range resolved {
		if tok.Kind == EOF {
			eofs++
		}
	}
	if eofs != 1 {
		t.Errorf("expected exactly one EOF in the flattened stream, got %d", eofs)
	}
}

func TestResolveNestedIncludes(t *testing.T) {
	r := &Resolver{Load: fakeFS(map[string]string{
		"a.kms": `include "b.kms"`,
		"b.kms": `$x = "1"`,
	})}
	toks := mustLexTokens(t, `include "a.kms"`)

	resolved, err := r.Resolve(toks, ".")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved) != 4 || resolved[0].Kind != VarRef {
		t.Fatalf("expected [VarRef Equals String EOF], got %+v", resolved)
	}
}

func TestResolveDetectsCycle(t *testing.T) {
	r := &Resolver{Load: fakeFS(map[string]string{
		"a.kms": `include "b.kms"`,
		"b.kms": `include "a.kms"`,
	})}
	toks := mustLexTokens(t, `include "a.kms"`)

	_, err := r.Resolve(toks, ".")
	if !errors.Is(err, ErrIncludeCycle) {
		t.Fatalf("expected ErrIncludeCycle, got %v", err)
	}
}

func TestResolveMissingIncludeFile(t *testing.T) {
	r := &Resolver{Load: fakeFS(map[string]string{})}
	toks := mustLexTokens(t, `include "missing.kms"`)

	_, err := r.Resolve(toks, ".")
	if !errors.Is(err, ErrIncludeNotFound) {
		t.Fatalf("expected ErrIncludeNotFound, got %v", err)
	}
}
