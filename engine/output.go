package engine

// ActionKind tags the variant carried by Action: whether the host should
// leave the text caret alone, insert text, delete text, or both.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionInsert
	ActionBackspaceDelete
	ActionBackspaceDeleteAndInsert
)

// Action is what the host must do to its text field to reflect one
// process_key call: delete DeleteCount code points from the caret, then
// insert InsertText.
type Action struct {
	Kind        ActionKind
	DeleteCount int
	InsertText  string
}

// Output is the result of one process_key call. ComposingText is always
// populated with the engine's authoritative post-call buffer.
type Output struct {
	Action        Action
	ComposingText string
	IsProcessed   bool
	MatchedRule   int // index into the loaded layout's Rules, or -1 if nothing matched
}

// diffAction computes Output.Action by diffing the pre-call buffer against
// the final buffer: longest common prefix, then delete the remainder of
// before and insert the remainder of after (spec §4.6 step 8).
func diffAction(before, after []rune) Action {
	p := 0
	for p < len(before) && p < len(after) && before[p] == after[p] {
		p++
	}
	deleteCount := len(before) - p
	insertText := string(after[p:])

	switch {
	case deleteCount == 0 && insertText == "":
		return Action{Kind: ActionNone}
	case deleteCount == 0:
		return Action{Kind: ActionInsert, InsertText: insertText}
	case insertText == "":
		return Action{Kind: ActionBackspaceDelete, DeleteCount: deleteCount}
	default:
		return Action{Kind: ActionBackspaceDeleteAndInsert, DeleteCount: deleteCount, InsertText: insertText}
	}
}
