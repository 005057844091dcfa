// Command km2dump prints a human-readable listing of a KM2 file's header,
// info table, string table, and decoded rules.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/keymagic-project/keymagic-go/km2"
	"github.com/keymagic-project/keymagic-go/vk"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s FILE.km2\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "km2dump: %s\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	layout, err := km2.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	fmt.Printf("%s (%s)\n\n", path, humanize.Bytes(uint64(info.Size())))

	printOptions(layout.Options)
	printInfoTable(layout.Info)
	printStringTable(layout.Strings)
	printRules(layout)
	return nil
}

func printOptions(opt km2.Option) {
	fmt.Println("options:")
	fmt.Printf("  track_caps=%v  smart_backspace=%v  eat_all_unused_keys=%v\n",
		opt.TrackCaps, opt.SmartBackspace, opt.EatAllUnusedKeys)
	fmt.Printf("  us_layout_based=%v  treat_ctrl_alt_as_ralt=%v\n\n",
		opt.USLayoutBased, opt.TreatCtrlAltAsRalt)
}

func printInfoTable(entries []km2.InfoEntry) {
	if len(entries) == 0 {
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"tag", "value"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, e := range entries {
		table.Append([]string{e.Tag, displayValue(e.Tag, e.Value)})
	}
	table.Render()
	fmt.Println()
}

func displayValue(tag string, v []byte) string {
	switch tag {
	case km2.TagIcon:
		return fmt.Sprintf("<%s binary>", humanize.Bytes(uint64(len(v))))
	case km2.TagHotkey:
		return fmt.Sprintf("% x", v)
	default:
		return string(v)
	}
}

func printStringTable(strs []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "string", "width"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for i, s := range strs {
		table.Append([]string{strconv.Itoa(i + 1), s, strconv.Itoa(runewidth.StringWidth(s))})
	}
	table.Render()
	fmt.Println()
}

func printRules(layout *km2.KeyboardLayout) {
	fmt.Printf("rules (%d):\n", len(layout.Rules))
	for i, r := range layout.Rules {
		fmt.Printf("  [%3d] %s => %s\n", i, formatSide(layout, r.LHS), formatSide(layout, r.RHS))
	}
}

func formatSide(layout *km2.KeyboardLayout, elems []km2.Element) string {
	s := ""
	for i, e := range elems {
		if i > 0 {
			s += " + "
		}
		s += formatElem(layout, e)
	}
	return s
}

func formatElem(layout *km2.KeyboardLayout, e km2.Element) string {
	switch e.Kind {
	case km2.KindString:
		return strconv.Quote(string(e.Runes))
	case km2.KindVariable:
		s, _ := layout.String(e.VarIndex)
		return fmt.Sprintf("$%d(%s)", e.VarIndex, strconv.Quote(s))
	case km2.KindIndexedVariable:
		return fmt.Sprintf("$%d[%s]", e.VarIndex, formatIndexKind(e))
	case km2.KindReference:
		return fmt.Sprintf("$%d", e.Index)
	case km2.KindAny:
		return "ANY"
	case km2.KindChord:
		return formatChord(e.Chord)
	case km2.KindState:
		return fmt.Sprintf("(state#%d)", e.StateIndex)
	case km2.KindNull:
		return "NULL"
	default:
		return "?"
	}
}

func formatIndexKind(e km2.Element) string {
	switch e.IndexKind {
	case km2.IndexStar:
		return "*"
	case km2.IndexCaret:
		return "^"
	case km2.IndexNumeric:
		return fmt.Sprintf("$%d", e.Index)
	default:
		return "?"
	}
}

func formatChord(chord []vk.Code) string {
	s := ""
	for i, c := range chord {
		if i > 0 {
			s += " & "
		}
		s += vk.Name(c)
	}
	return s
}
