package match

import (
	"testing"

	"github.com/keymagic-project/keymagic-go/compile"
	"github.com/keymagic-project/keymagic-go/km2"
	"github.com/keymagic-project/keymagic-go/kms"
)

func mustOrderSrc(t *testing.T, src string) (*km2.KeyboardLayout, *Order) {
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
	return layout, NewOrder(layout)
}

func TestOrderStateBeforeChordBeforeFootprint(t *testing.T) {
	src := `"a" => "1"
<VK_KEY_A> => "2"
(caps) + "a" => "3"`
	layout, order := mustOrderSrc(t, src)
	idx := order.RuleIndices()
	if layout.Rules[idx[0]].LHS[0].Kind != km2.KindState {
		t.Errorf("expected state-gated rule first, got rule %d", idx[0])
	}
	if layout.Rules[idx[1]].LHS[0].Kind != km2.KindChord {
		t.Errorf("expected chord rule second, got rule %d", idx[1])
	}
}

func TestOrderLongerFootprintFirst(t *testing.T) {
	layout, order := mustOrderSrc(t, "\"a\" => \"1\"\n\"abc\" => \"2\"\n\"ab\" => \"3\"")
	idx := order.RuleIndices()
	if string(layout.Rules[idx[0]].LHS[0].Runes) != "abc" {
		t.Errorf("expected longest footprint first, got %+v", layout.Rules[idx[0]].LHS)
	}
	if string(layout.Rules[idx[1]].LHS[0].Runes) != "ab" {
		t.Errorf("expected middle footprint second, got %+v", layout.Rules[idx[1]].LHS)
	}
}

func TestOrderTiesBrokenByFileOrder(t *testing.T) {
	layout, order := mustOrderSrc(t, "\"ab\" => \"1\"\n\"xy\" => \"2\"")
	idx := order.RuleIndices()
	if idx[0] != 0 || idx[1] != 1 {
		t.Errorf("expected stable file order for equal footprint, got %v", idx)
	}
	_ = layout
}

func TestOrderVariableFootprintCountsResolvedLength(t *testing.T) {
	layout, order := mustOrderSrc(t, "$long = \"abcd\"\n\"xy\" => \"1\"\n$long => \"2\"")
	idx := order.RuleIndices()
	if layout.Rules[idx[0]].LHS[0].Kind != km2.KindVariable {
		t.Errorf("expected the 4-rune variable rule to outrank the 2-rune string rule, got %+v", layout.Rules[idx[0]].LHS)
	}
}
