package engine

import (
	"bytes"
	"testing"

	"github.com/keymagic-project/keymagic-go/compile"
	"github.com/keymagic-project/keymagic-go/kms"
	"github.com/keymagic-project/keymagic-go/vk"
)

func mustLayoutBytes(t *testing.T, src string) []byte {
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
	var buf bytes.Buffer
	if err := layout.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.Bytes()
}

func TestProcessKeyNoLayoutLoaded(t *testing.T) {
	e := New()
	out := e.ProcessKey(KeyInput{Char: 'a'})
	if out.IsProcessed {
		t.Error("expected IsProcessed=false with no layout loaded")
	}
	if out.Action.Kind != ActionNone {
		t.Errorf("expected ActionNone, got %+v", out.Action)
	}
}

func TestProcessKeySimpleStringRule(t *testing.T) {
	e := New()
	if err := e.LoadKeyboard(mustLayoutBytes(t, `"ka" => U1000`)); err != nil {
		t.Fatalf("LoadKeyboard: %v", err)
	}

	out := e.ProcessKey(KeyInput{Char: 'k'})
	if out.ComposingText != "k" || out.Action.Kind != ActionInsert {
		t.Fatalf("unexpected output after 'k': %+v", out)
	}

	out = e.ProcessKey(KeyInput{Char: 'a'})
	want := string(rune(0x1000))
	if out.ComposingText != want {
		t.Fatalf("got composing %q, want %q", out.ComposingText, want)
	}
	if out.Action.Kind != ActionBackspaceDeleteAndInsert || out.Action.DeleteCount != 1 {
		t.Fatalf("unexpected action: %+v", out.Action)
	}
}

func TestProcessKeyChordRule(t *testing.T) {
	e := New()
	if err := e.LoadKeyboard(mustLayoutBytes(t, `<VK_SHIFT & VK_KEY_A> => "A"`)); err != nil {
		t.Fatalf("LoadKeyboard: %v", err)
	}
	out := e.ProcessKey(KeyInput{VK: vk.VK_KEY_A, Shift: true})
	if out.ComposingText != "A" || !out.IsProcessed {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestProcessKeyNullClearsBuffer(t *testing.T) {
	e := New()
	if err := e.LoadKeyboard(mustLayoutBytes(t, "\"ka\" => \"X\"\n<VK_BACK> => NULL")); err != nil {
		t.Fatalf("LoadKeyboard: %v", err)
	}
	e.SetComposingText("X")
	out := e.ProcessKey(KeyInput{VK: vk.VK_BACK})
	if out.ComposingText != "" {
		t.Fatalf("expected buffer cleared, got %q", out.ComposingText)
	}
	if out.Action.Kind != ActionBackspaceDelete || out.Action.DeleteCount != 1 {
		t.Fatalf("unexpected action: %+v", out.Action)
	}
}

func TestProcessKeySmartBackspaceFallback(t *testing.T) {
	e := New()
	if err := e.LoadKeyboard(mustLayoutBytes(t, "/*\n @SMART_BACKSPACE = \"true\"\n*/\n\"never\" => \"matches\"")); err != nil {
		t.Fatalf("LoadKeyboard: %v", err)
	}
	e.SetComposingText("abc")
	out := e.ProcessKey(KeyInput{VK: vk.VK_BACK})
	if out.ComposingText != "ab" || !out.IsProcessed {
		t.Fatalf("unexpected smart-backspace fallback output: %+v", out)
	}
}

func TestProcessKeyStateRule(t *testing.T) {
	e := New()
	src := `<VK_CFLEX> => ('zg_key')
('zg_key') + "1" => "X"`
	if err := e.LoadKeyboard(mustLayoutBytes(t, src)); err != nil {
		t.Fatalf("LoadKeyboard: %v", err)
	}
	e.ProcessKey(KeyInput{VK: vk.VK_CFLEX})
	out := e.ProcessKey(KeyInput{Char: '1'})
	if out.ComposingText != "X" {
		t.Fatalf("expected state-gated rule to fire, got %q", out.ComposingText)
	}
}

func TestProcessKeyRecursiveRewrite(t *testing.T) {
	e := New()
	src := `$cons = "k"
$cons[*] + "a" => $1 + U102C
"k" + U102C => U1000`
	if err := e.LoadKeyboard(mustLayoutBytes(t, src)); err != nil {
		t.Fatalf("LoadKeyboard: %v", err)
	}
	e.ProcessKey(KeyInput{Char: 'k'})
	out := e.ProcessKey(KeyInput{Char: 'a'})
	want := string(rune(0x1000))
	if out.ComposingText != want {
		t.Fatalf("expected recursive rewrite to chain to %q, got %q", want, out.ComposingText)
	}
}

func TestProcessKeyMatchedRuleIndex(t *testing.T) {
	e := New()
	if err := e.LoadKeyboard(mustLayoutBytes(t, "\"a\" => \"x\"\n\"b\" => \"y\"")); err != nil {
		t.Fatalf("LoadKeyboard: %v", err)
	}
	out := e.ProcessKey(KeyInput{Char: 'b'})
	if out.MatchedRule != 1 {
		t.Errorf("expected MatchedRule=1, got %d", out.MatchedRule)
	}
	out = e.ProcessKey(KeyInput{VK: vk.VK_ESCAPE})
	if out.MatchedRule != -1 {
		t.Errorf("expected MatchedRule=-1 for no match, got %d", out.MatchedRule)
	}
}

func TestEngineActiveStatesOneShot(t *testing.T) {
	e := New()
	src := `<VK_CFLEX> => ('zg_key')
('zg_key') + "1" => "X"`
	if err := e.LoadKeyboard(mustLayoutBytes(t, src)); err != nil {
		t.Fatalf("LoadKeyboard: %v", err)
	}
	e.ProcessKey(KeyInput{VK: vk.VK_CFLEX})
	if states := e.ActiveStates(); len(states) != 1 {
		t.Fatalf("expected one armed state after VK_CFLEX, got %v", states)
	}
	e.ProcessKey(KeyInput{Char: '1'})
	if states := e.ActiveStates(); len(states) != 0 {
		t.Errorf("expected state consumed after use, got %v", states)
	}
}

func TestProcessKeyUnmatchedNonPrintableKey(t *testing.T) {
	e := New()
	if err := e.LoadKeyboard(mustLayoutBytes(t, `"a" => "b"`)); err != nil {
		t.Fatalf("LoadKeyboard: %v", err)
	}
	out := e.ProcessKey(KeyInput{VK: vk.VK_ESCAPE})
	if out.IsProcessed {
		t.Error("expected Escape with no matching rule to be unprocessed")
	}
	if out.ComposingText != "" {
		t.Errorf("expected buffer unchanged, got %q", out.ComposingText)
	}
}
