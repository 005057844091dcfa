// Package engine implements the key-processing engine: a composing buffer,
// active-state tracking, and the process_key operation that drives the
// matcher and the recursive rewrite pass over a loaded keyboard layout.
package engine

import (
	"bytes"
	"fmt"

	"github.com/keymagic-project/keymagic-go/km2"
	"github.com/keymagic-project/keymagic-go/kmlog"
	"github.com/keymagic-project/keymagic-go/match"
	"github.com/keymagic-project/keymagic-go/vk"
)

// DefaultRecursionDepth caps the recursive rewrite pass (spec: "a
// conservative depth, e.g. 32").
const DefaultRecursionDepth = 32

// KeyInput is re-exported from match so callers only need to import engine.
type KeyInput = match.KeyInput

// Engine is the composing-buffer state machine driving one input context.
// It is not safe for concurrent use; the caller must serialize calls on a
// given Engine (spec §5).
type Engine struct {
	layout         *km2.KeyboardLayout
	order          *match.Order
	buffer         []rune
	activeStates   map[int]bool
	recursionDepth int
	logger         *kmlog.StructuredLogger
}

// New constructs an engine with no layout loaded.
func New() *Engine {
	return &Engine{
		recursionDepth: DefaultRecursionDepth,
		logger:         kmlog.Logger(),
	}
}

// SetRecursionDepth overrides the recursive rewrite cap (default
// DefaultRecursionDepth).
func (e *Engine) SetRecursionDepth(n int) {
	if n > 0 {
		e.recursionDepth = n
	}
}

// SetLogger overrides the engine's structured logger.
func (e *Engine) SetLogger(l *kmlog.StructuredLogger) { e.logger = l }

// LoadKeyboard parses a KM2 file from bytes and swaps it in atomically,
// resetting the composing buffer and active states.
func (e *Engine) LoadKeyboard(data []byte) error {
	layout, err := km2.Read(bytes.NewReader(data))
	if err != nil {
		e.logger.LogLayoutLoad("<bytes>", 0, err)
		return fmt.Errorf("engine: load keyboard: %w", err)
	}
	e.setLayout(layout, "<bytes>")
	return nil
}

// LoadKeyboardFile reads and parses a KM2 file from disk and swaps it in
// atomically, resetting the composing buffer and active states.
func (e *Engine) LoadKeyboardFile(path string) error {
	layout, err := km2.ReadFile(path)
	if err != nil {
		e.logger.LogLayoutLoad(path, 0, err)
		return fmt.Errorf("engine: load keyboard file: %w", err)
	}
	e.setLayout(layout, path)
	return nil
}

func (e *Engine) setLayout(layout *km2.KeyboardLayout, source string) {
	e.layout = layout
	e.order = match.NewOrder(layout)
	e.buffer = nil
	e.activeStates = nil
	e.logger.LogLayoutLoad(source, len(layout.Rules), nil)
}

// Reset clears the composing buffer and active states without touching the
// loaded layout.
func (e *Engine) Reset() {
	e.buffer = nil
	e.activeStates = nil
}

// SetComposingText replaces the composing buffer with s and clears active
// states.
func (e *Engine) SetComposingText(s string) {
	e.buffer = []rune(s)
	e.activeStates = nil
}

// GetComposition returns the current composing buffer.
func (e *Engine) GetComposition() string {
	return string(e.buffer)
}

// Layout returns the currently loaded layout, or nil if none is loaded.
func (e *Engine) Layout() *km2.KeyboardLayout {
	return e.layout
}

// Order returns the priority-sorted rule view built for the current layout,
// or nil if none is loaded.
func (e *Engine) Order() *match.Order {
	return e.order
}

// ActiveStates returns the indices of states armed for the next ProcessKey
// call (spec §4.5: one-shot unless reissued by a matching rule's RHS).
func (e *Engine) ActiveStates() []int {
	states := make([]int, 0, len(e.activeStates))
	for s := range e.activeStates {
		states = append(states, s)
	}
	return states
}

// ProcessKey is the primary entry point: it advances the composing buffer
// in response to one physical key event and reports what the host must do
// to its text field (spec §4.6).
func (e *Engine) ProcessKey(key match.KeyInput) Output {
	if e.layout == nil {
		return Output{ComposingText: string(e.buffer), Action: Action{Kind: ActionNone}, IsProcessed: false, MatchedRule: -1}
	}

	before := append([]rune(nil), e.buffer...)

	q := match.Query{Buffer: e.buffer, Key: &key, ActiveStates: e.activeStates}
	m, matched := match.Find(e.layout, e.order, q, false)
	e.activeStates = nil // states are one-shot unless reissued by the RHS

	var isProcessed bool
	applied := matched && e.applyMatch(m)
	if !applied {
		m = nil
	}

	switch {
	case applied:
		isProcessed = true

	case key.VK == vk.VK_BACK && e.layout.Options.SmartBackspace && len(e.buffer) > 0:
		e.buffer = e.buffer[:len(e.buffer)-1]
		isProcessed = true

	case isPrintableASCIINonSpace(key.Char):
		e.buffer = append(e.buffer, key.Char)
		isProcessed = e.layout.Options.EatAllUnusedKeys

	default:
		isProcessed = false
	}

	e.recursiveRewrite()

	action := diffAction(before, e.buffer)
	e.logger.LogKeyEvent(fmt.Sprintf("%d", key.VK), ruleIndex(m), isProcessed, nil)

	return Output{
		Action:        action,
		ComposingText: string(e.buffer),
		IsProcessed:   isProcessed,
		MatchedRule:   ruleIndex(m),
	}
}

// applyMatch removes a match's matched buffer suffix, evaluates its RHS,
// and installs the resulting fragment and active state set. It reports
// false, leaving the buffer untouched, when the RHS cannot be evaluated.
func (e *Engine) applyMatch(m *match.Match) bool {
	rule := e.layout.Rules[m.Rule]
	result, ok := match.Evaluate(e.layout, rule.RHS, m.Captures)
	if !ok {
		// Spec §7: a runtime-unusable RHS dereference is treated as if
		// the rule hadn't matched. The buffer is left untouched.
		e.logger.Warn("rule RHS could not be evaluated", map[string]interface{}{"rule_index": m.Rule})
		return false
	}

	remainder := e.buffer
	if consumed := m.BufferConsumed(); consumed > 0 {
		remainder = e.buffer[:len(e.buffer)-consumed]
	}

	if result.ClearBuffer {
		e.buffer = nil
	} else {
		e.buffer = append(append([]rune(nil), remainder...), []rune(result.Text)...)
	}

	if len(result.NewStates) > 0 {
		e.activeStates = make(map[int]bool, len(result.NewStates))
		for _, s := range result.NewStates {
			e.activeStates[s] = true
		}
	}
	return true
}

// recursiveRewrite repeatedly re-matches the buffer in text-only mode
// (spec §4.6 step 7) until the buffer is empty, consists of exactly one
// printable-ASCII-non-space code point, or the recursion cap is hit.
func (e *Engine) recursiveRewrite() {
	for depth := 0; depth < e.recursionDepth; depth++ {
		if len(e.buffer) == 0 {
			return
		}
		if len(e.buffer) == 1 && isPrintableASCIINonSpace(e.buffer[0]) {
			return
		}

		q := match.Query{Buffer: e.buffer, Key: nil, ActiveStates: nil}
		m, ok := match.Find(e.layout, e.order, q, true)
		if !ok || !e.applyMatch(m) {
			return
		}
	}
	e.logger.LogRecursionCap(e.recursionDepth, string(e.buffer))
}

func ruleIndex(m *match.Match) int {
	if m == nil {
		return -1
	}
	return m.Rule
}

func isPrintableASCIINonSpace(r rune) bool {
	return r >= 0x21 && r <= 0x7E
}
