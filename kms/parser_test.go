package kms

import "testing"

func mustLex(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Lex([]byte(src), "test.kms")
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	return toks
}

func TestParseOptionDecl(t *testing.T) {
	f, err := Parse(mustLex(t, `@NAME = "Test Keyboard"`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Options) != 1 || f.Options[0].Name != "NAME" || f.Options[0].Value != "Test Keyboard" {
		t.Errorf("got %+v", f.Options)
	}
}

func TestParseVarDecl(t *testing.T) {
	f, err := Parse(mustLex(t, `$a = "x" + U1000 + $b`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Vars) != 1 {
		t.Fatalf("got %d vars, want 1", len(f.Vars))
	}
	v := f.Vars[0]
	if v.Name != "a" || len(v.Elements) != 3 {
		t.Fatalf("got %+v", v)
	}
	if v.Elements[0].Kind != ValueString || v.Elements[1].Kind != ValueUnicode || v.Elements[2].Kind != ValueVarRef {
		t.Errorf("unexpected element kinds: %+v", v.Elements)
	}
}

func TestParseVarDeclRejectsChord(t *testing.T) {
	_, err := Parse(mustLex(t, `$a = <VK_KEY_A>`))
	if err == nil {
		t.Error("expected error for virtual-key reference inside a variable value")
	}
}

func TestParseSimpleRule(t *testing.T) {
	f, err := Parse(mustLex(t, `"ka" => U1000`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(f.Rules))
	}
	r := f.Rules[0]
	if len(r.LHS) != 1 || r.LHS[0].Kind != PString || string(r.LHS[0].Text) != "ka" {
		t.Errorf("unexpected LHS: %+v", r.LHS)
	}
	if len(r.RHS) != 1 || r.RHS[0].Kind != PUnicode || r.RHS[0].Rune != 0x1000 {
		t.Errorf("unexpected RHS: %+v", r.RHS)
	}
}

func TestParseChordRule(t *testing.T) {
	f, err := Parse(mustLex(t, `<VK_SHIFT & VK_KEY_A> => "A"`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	lhs := f.Rules[0].LHS
	if len(lhs) != 1 || lhs[0].Kind != PChord || len(lhs[0].Chord) != 2 {
		t.Fatalf("unexpected chord LHS: %+v", lhs)
	}
}

func TestParseStateRule(t *testing.T) {
	f, err := Parse(mustLex(t, `(caps) + "a" => "A"`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	lhs := f.Rules[0].LHS
	if len(lhs) != 2 || lhs[0].Kind != PState || lhs[0].StateName != "caps" {
		t.Fatalf("unexpected state LHS: %+v", lhs)
	}
}

func TestParseNullRHS(t *testing.T) {
	f, err := Parse(mustLex(t, `"x" => NULL`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Rules[0].RHS) != 1 || f.Rules[0].RHS[0].Kind != PNull {
		t.Errorf("unexpected RHS: %+v", f.Rules[0].RHS)
	}
}

func TestParseNullRejectedOnLHS(t *testing.T) {
	_, err := Parse(mustLex(t, `NULL => "x"`))
	if err == nil {
		t.Error("expected error for NULL on LHS")
	}
}

func TestParseAnyRejectedOnRHS(t *testing.T) {
	_, err := Parse(mustLex(t, `"x" => ANY`))
	if err == nil {
		t.Error("expected error for ANY on RHS")
	}
}

func TestParseBackRef(t *testing.T) {
	f, err := Parse(mustLex(t, `ANY + "b" => $1 + "B"`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rhs := f.Rules[0].RHS
	if len(rhs) != 2 || rhs[0].Kind != PBackRef || rhs[0].Index != 1 {
		t.Fatalf("unexpected RHS: %+v", rhs)
	}
}

func TestParseIndexedVariable(t *testing.T) {
	f, err := Parse(mustLex(t, `$cons[*] => $cons[$1]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	lhs := f.Rules[0].LHS
	if len(lhs) != 1 || lhs[0].Kind != PIndexedVar || lhs[0].IndexKind != IdxStar {
		t.Fatalf("unexpected LHS: %+v", lhs)
	}
	rhs := f.Rules[0].RHS
	if len(rhs) != 1 || rhs[0].Kind != PIndexedVar || rhs[0].IndexKind != IdxBackRef || rhs[0].Index != 1 {
		t.Fatalf("unexpected RHS: %+v", rhs)
	}
}

func TestParsePositionalIndexOnlyOnLHS(t *testing.T) {
	if _, err := Parse(mustLex(t, `$cons[0] => "x"`)); err != nil {
		t.Errorf("positional index on LHS should be valid: %v", err)
	}
	if _, err := Parse(mustLex(t, `"x" => $cons[0]`)); err == nil {
		t.Error("expected error for positional index on RHS")
	}
}

func TestParseStarIndexRejectedOnRHS(t *testing.T) {
	if _, err := Parse(mustLex(t, `$cons[*] => "x"`)); err != nil {
		t.Errorf("$v[*] on LHS should be valid: %v", err)
	}
	if _, err := Parse(mustLex(t, `"x" => $cons[*]`)); err == nil {
		t.Error("expected error for $v[*] on RHS")
	}
}

func TestParseUnknownVirtualKey(t *testing.T) {
	_, err := Parse(mustLex(t, `<VK_NOT_A_REAL_KEY> => "x"`))
	if err == nil {
		t.Error("expected error for unknown virtual key name")
	}
}
