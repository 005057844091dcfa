// Command kmrepl is an interactive terminal session for exercising a
// compiled keyboard layout one keystroke at a time: it shows the live
// composing buffer and a scrolling history of the actions the engine
// produced.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"

	"github.com/keymagic-project/keymagic-go/compile"
	"github.com/keymagic-project/keymagic-go/config"
	"github.com/keymagic-project/keymagic-go/engine"
	"github.com/keymagic-project/keymagic-go/km2"
	"github.com/keymagic-project/keymagic-go/kms"
	"github.com/keymagic-project/keymagic-go/match"
	"github.com/keymagic-project/keymagic-go/vk"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [FILE.km2|FILE.kms]\n", os.Args[0])
	}
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		picked, err := pickLayout(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "kmrepl: %s\n", err)
			os.Exit(1)
		}
		path = picked
	}

	eng := engine.New()
	cfg := config.LoadFromEnvironment()
	eng.SetRecursionDepth(cfg.Engine.RecursionDepth)

	if err := loadLayout(eng, path); err != nil {
		fmt.Fprintf(os.Stderr, "kmrepl: %s\n", err)
		os.Exit(1)
	}

	m := newModel(eng, path, cfg.Devtools)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "kmrepl: %s\n", err)
		os.Exit(1)
	}
}

// loadLayout loads path into eng, compiling it first if it is KMS source.
func loadLayout(eng *engine.Engine, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".kms") {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		toks, err := kms.Lex(src, path)
		if err != nil {
			return fmt.Errorf("lex: %w", err)
		}
		toks, err = kms.NewResolver().Resolve(toks, filepath.Dir(path))
		if err != nil {
			return fmt.Errorf("resolve includes: %w", err)
		}
		file, err := kms.Parse(toks)
		if err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		layout, err := compile.Compile(file)
		if err != nil {
			return fmt.Errorf("compile: %w", err)
		}
		var buf bytes.Buffer
		if err := layout.Write(&buf); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return eng.LoadKeyboard(buf.Bytes())
	}
	return eng.LoadKeyboardFile(path)
}

// pickLayout chooses one of the .km2/.kms files under dir without
// prompting: the only one if there is one, otherwise the first that
// fuzzy.Find ranks for an empty query, or the first candidate if it ranks
// none. With no files it reports an error instead of starting the REPL
// with nothing loaded.
func pickLayout(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	candidates := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		return e.Name(), !e.IsDir() && (ext == ".km2" || ext == ".kms")
	})
	if len(candidates) == 0 {
		return "", fmt.Errorf("no .km2/.kms files found in %s", dir)
	}
	if len(candidates) == 1 {
		return filepath.Join(dir, candidates[0]), nil
	}
	ranks := fuzzy.Find("", candidates)
	if len(ranks) == 0 {
		return filepath.Join(dir, candidates[0]), nil
	}
	return filepath.Join(dir, candidates[ranks[0].Index]), nil
}

type historyEntry struct {
	keyLabel string
	action   engine.Action
	composed string
	rule     int
	states   []int
}

type model struct {
	eng       *engine.Engine
	path      string
	history   []historyEntry
	histLimit int
	color     bool
	quitting  bool

	cmdMode  bool
	cmdBuf   string
	cmdLines []string
}

func newModel(eng *engine.Engine, path string, dev config.DevtoolsConfig) model {
	color := dev.ColorOutput && isatty.IsTerminal(os.Stdout.Fd())
	limit := dev.HistorySize
	if limit <= 0 {
		limit = 200
	}
	return model{eng: eng, path: path, histLimit: limit, color: color}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.cmdMode {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.cmdMode, m.cmdBuf = false, ""
		case tea.KeyEnter:
			m.cmdLines = append([]string{m.runCommand(m.cmdBuf)}, m.cmdLines...)
			m.cmdMode, m.cmdBuf = false, ""
		case tea.KeyBackspace:
			if len(m.cmdBuf) > 0 {
				m.cmdBuf = m.cmdBuf[:len(m.cmdBuf)-1]
			}
		case tea.KeySpace:
			m.cmdBuf += " "
		case tea.KeyRunes:
			m.cmdBuf += string(keyMsg.Runes)
		}
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyCtrlR:
		m.eng.Reset()
		m.history = nil
		return m, nil
	case tea.KeyBackspace:
		out := m.eng.ProcessKey(match.KeyInput{VK: vk.VK_BACK})
		m.record("Backspace", out)
		return m, nil
	case tea.KeySpace:
		out := m.eng.ProcessKey(match.KeyInput{VK: vk.VK_SPACE, Char: ' '})
		m.record("Space", out)
		return m, nil
	case tea.KeyRunes:
		if len(keyMsg.Runes) == 1 && keyMsg.Runes[0] == ':' && strings.TrimSpace(m.eng.GetComposition()) == "" {
			m.cmdMode, m.cmdBuf = true, ""
			return m, nil
		}
		for _, r := range keyMsg.Runes {
			vkCode, _ := vk.Lookup(strings.ToUpper("VK_KEY_" + string(r)))
			out := m.eng.ProcessKey(match.KeyInput{VK: vkCode, Char: r})
			m.record(string(r), out)
		}
		return m, nil
	}
	return m, nil
}

func (m *model) record(label string, out engine.Output) {
	m.history = append(m.history, historyEntry{
		keyLabel: label,
		action:   out.Action,
		composed: out.ComposingText,
		rule:     out.MatchedRule,
		states:   m.eng.ActiveStates(),
	})
	if len(m.history) > m.histLimit {
		m.history = m.history[len(m.history)-m.histLimit:]
	}
}

// runCommand handles the REPL's ":" commands. Currently only ":rules
// <query>" is recognized: a fuzzy search over the loaded layout's rule LHS
// text, grouped by priority bucket (state-gated / chord / text).
func (m *model) runCommand(line string) string {
	fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
	if len(fields) == 0 || fields[0] == "" {
		return "(empty command)"
	}
	switch fields[0] {
	case "rules":
		query := ""
		if len(fields) == 2 {
			query = fields[1]
		}
		return m.searchRules(query)
	default:
		return fmt.Sprintf("unknown command %q", fields[0])
	}
}

type ruleListing struct {
	bucket string
	text   string
}

func (m *model) searchRules(query string) string {
	layout := m.eng.Layout()
	if layout == nil {
		return "no layout loaded"
	}
	listings := lo.Map(layout.Rules, func(r km2.Rule, _ int) ruleListing {
		return ruleListing{bucket: ruleBucket(r), text: ruleLHSText(layout, r)}
	})

	matched := listings
	if query != "" {
		targets := lo.Map(listings, func(l ruleListing, _ int) string { return l.text })
		ranks := fuzzy.Find(query, targets)
		matched = lo.Map(ranks, func(rk fuzzy.Match, _ int) ruleListing { return listings[rk.Index] })
	}

	buckets := lo.GroupBy(matched, func(l ruleListing) string { return l.bucket })
	var b strings.Builder
	for _, bucket := range []string{"state", "chord", "text"} {
		items := buckets[bucket]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "[%s]\n", bucket)
		for _, item := range items {
			fmt.Fprintf(&b, "  %s\n", item.text)
		}
	}
	if b.Len() == 0 {
		return "no matching rules"
	}
	return strings.TrimRight(b.String(), "\n")
}

// ruleBucket classifies a rule's LHS into the same priority bucket the
// matcher sorts on (state-gated, chord, or plain text/variable).
func ruleBucket(r km2.Rule) string {
	for _, e := range r.LHS {
		if e.Kind == km2.KindState {
			return "state"
		}
	}
	for _, e := range r.LHS {
		if e.Kind == km2.KindChord {
			return "chord"
		}
	}
	return "text"
}

func ruleLHSText(layout *km2.KeyboardLayout, r km2.Rule) string {
	parts := make([]string, len(r.LHS))
	for i, e := range r.LHS {
		parts[i] = formatElem(layout, e)
	}
	return strings.Join(parts, " + ")
}

func formatElem(layout *km2.KeyboardLayout, e km2.Element) string {
	switch e.Kind {
	case km2.KindString:
		return strconv.Quote(string(e.Runes))
	case km2.KindVariable:
		s, _ := layout.String(e.VarIndex)
		return fmt.Sprintf("$%d(%s)", e.VarIndex, strconv.Quote(s))
	case km2.KindIndexedVariable:
		return fmt.Sprintf("$%d[idx]", e.VarIndex)
	case km2.KindReference:
		return fmt.Sprintf("$%d", e.Index)
	case km2.KindAny:
		return "ANY"
	case km2.KindChord:
		parts := make([]string, len(e.Chord))
		for i, c := range e.Chord {
			parts[i] = vk.Name(c)
		}
		return "<" + strings.Join(parts, " & ") + ">"
	case km2.KindState:
		return fmt.Sprintf("(state#%d)", e.StateIndex)
	case km2.KindNull:
		return "NULL"
	default:
		return "?"
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "kmrepl  %s\n", m.path)
	fmt.Fprintf(&b, "composing: %s\n\n", m.style(m.eng.GetComposition(), "36"))
	start := 0
	if len(m.history) > 10 {
		start = len(m.history) - 10
	}
	for _, h := range m.history[start:] {
		fmt.Fprintf(&b, "  %-10s %-24s rule=%-4s states=%-8v -> %s\n",
			h.keyLabel, actionLabel(h.action), ruleLabel(h.rule), h.states, h.composed)
	}

	if m.cmdMode {
		fmt.Fprintf(&b, "\n:%s\n", m.cmdBuf)
	}
	for i, line := range m.cmdLines {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "%s\n", line)
	}

	b.WriteString("\n(: for commands, ctrl+r reset, esc/ctrl+c quit)\n")
	return b.String()
}

func ruleLabel(rule int) string {
	if rule < 0 {
		return "-"
	}
	return strconv.Itoa(rule)
}

func (m model) style(s, color string) string {
	if !m.color {
		return s
	}
	profile := termenv.EnvColorProfile()
	return termenv.Style{}.Foreground(profile.Color(color)).Styled(s)
}

func actionLabel(a engine.Action) string {
	switch a.Kind {
	case engine.ActionNone:
		return "none"
	case engine.ActionInsert:
		return fmt.Sprintf("insert %q", a.InsertText)
	case engine.ActionBackspaceDelete:
		return fmt.Sprintf("delete %d", a.DeleteCount)
	case engine.ActionBackspaceDeleteAndInsert:
		return fmt.Sprintf("delete %d, insert %q", a.DeleteCount, a.InsertText)
	default:
		return "?"
	}
}
