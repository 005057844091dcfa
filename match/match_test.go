package match

import (
	"testing"

	"github.com/keymagic-project/keymagic-go/compile"
	"github.com/keymagic-project/keymagic-go/km2"
	"github.com/keymagic-project/keymagic-go/kms"
	"github.com/keymagic-project/keymagic-go/vk"
)

func mustCompileSrc(t *testing.T, src string) *km2.KeyboardLayout {
	t.Helper()
	toks, err := kms.Lex([]byte(src), "test.kms")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	f, err := kms.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	layout, err := compile.Compile(f)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return layout
}

func TestFindSimpleStringRule(t *testing.T) {
	layout := mustCompileSrc(t, `"ka" => U1000`)
	order := NewOrder(layout)

	m, ok := Find(layout, order, Query{Buffer: []rune("k"), Key: &KeyInput{Char: 'a'}}, false)
	if !ok {
		t.Fatal("expected match")
	}
	res, ok := Evaluate(layout, layout.Rules[m.Rule].RHS, m.Captures)
	if !ok || res.Text != string(rune(0x1000)) {
		t.Fatalf("unexpected eval result: %+v ok=%v", res, ok)
	}
	if m.BufferConsumed() != 1 {
		t.Errorf("got BufferConsumed=%d, want 1", m.BufferConsumed())
	}
}

func TestFindNoMatchReturnsFalse(t *testing.T) {
	layout := mustCompileSrc(t, `"ka" => U1000`)
	order := NewOrder(layout)
	_, ok := Find(layout, order, Query{Buffer: []rune("x"), Key: &KeyInput{Char: 'y'}}, false)
	if ok {
		t.Error("expected no match")
	}
}

func TestFindIndexedVariableAnyOf(t *testing.T) {
	layout := mustCompileSrc(t, "$consonants = \"k\"\n$consonants[*] + \"a\" => $1 + \"A\"")
	order := NewOrder(layout)

	m, ok := Find(layout, order, Query{Buffer: []rune("ka")}, true)
	if !ok {
		t.Fatal("expected match")
	}
	res, ok := Evaluate(layout, layout.Rules[m.Rule].RHS, m.Captures)
	if !ok || res.Text != "kA" {
		t.Fatalf("unexpected eval result: %+v ok=%v", res, ok)
	}
}

func TestFindChordRule(t *testing.T) {
	layout := mustCompileSrc(t, `<VK_SHIFT & VK_KEY_A> => "A"`)
	order := NewOrder(layout)

	key := &KeyInput{VK: vk.VK_KEY_A, Shift: true}
	m, ok := Find(layout, order, Query{Key: key}, false)
	if !ok {
		t.Fatal("expected chord match")
	}
	if !m.ConsumedKey {
		t.Error("expected ConsumedKey=true")
	}
}

func TestFindChordSkippedInTextOnlyMode(t *testing.T) {
	layout := mustCompileSrc(t, `<VK_SHIFT & VK_KEY_A> => "A"`)
	order := NewOrder(layout)

	key := &KeyInput{VK: vk.VK_KEY_A, Shift: true}
	_, ok := Find(layout, order, Query{Key: key}, true)
	if ok {
		t.Error("chord rule should be skipped in text-only mode")
	}
}

func TestFindStateGatedRule(t *testing.T) {
	layout := mustCompileSrc(t, `(shift_state) + "a" => "A"`)
	order := NewOrder(layout)
	stateIdx := layout.Rules[0].LHS[0].StateIndex

	_, ok := Find(layout, order, Query{Key: &KeyInput{Char: 'a'}}, false)
	if ok {
		t.Error("state-gated rule should not match without the state active")
	}

	active := map[int]bool{stateIdx: true}
	_, ok = Find(layout, order, Query{Key: &KeyInput{Char: 'a'}, ActiveStates: active}, false)
	if !ok {
		t.Fatal("expected match with state active")
	}
}

func TestFindBackReferenceOnLHS(t *testing.T) {
	layout := mustCompileSrc(t, `ANY + "b" + $1 => "DONE"`)
	order := NewOrder(layout)

	_, ok := Find(layout, order, Query{Buffer: []rune("xb"), Key: &KeyInput{Char: 'x'}}, false)
	if !ok {
		t.Fatal("expected back-reference match when the repeated rune equals the capture")
	}

	_, ok = Find(layout, order, Query{Buffer: []rune("xb"), Key: &KeyInput{Char: 'y'}}, false)
	if ok {
		t.Error("back-reference should reject a mismatched repeat")
	}
}

func TestFindNullRHSEvaluation(t *testing.T) {
	layout := mustCompileSrc(t, `<VK_BACK> => NULL`)
	order := NewOrder(layout)

	m, ok := Find(layout, order, Query{Key: &KeyInput{VK: vk.VK_BACK}}, false)
	if !ok {
		t.Fatal("expected match")
	}
	res, ok := Evaluate(layout, layout.Rules[m.Rule].RHS, m.Captures)
	if !ok || !res.ClearBuffer || res.Text != "" {
		t.Fatalf("unexpected NULL eval result: %+v ok=%v", res, ok)
	}
}

func TestEvaluateOutOfRangeCaptureFails(t *testing.T) {
	layout := mustCompileSrc(t, `"x" => "y"`)
	_, ok := Evaluate(layout, []km2.Element{{Kind: km2.KindReference, Index: 5}}, nil)
	if ok {
		t.Error("expected evaluation failure for an out-of-range capture reference")
	}
}
