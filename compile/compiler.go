package compile

import (
	"strconv"
	"strings"

	"github.com/keymagic-project/keymagic-go/km2"
	"github.com/keymagic-project/keymagic-go/kms"
	"github.com/keymagic-project/keymagic-go/vk"
)

type variable struct {
	index int // 1-based string-table slot
	runes []rune
}

type compiler struct {
	strings []string
	vars    map[string]variable
	states  map[string]int

	opt  km2.Option
	info []km2.InfoEntry

	errs ErrorList
}

// Compile lowers a parsed KMS file to a KM2 keyboard layout. It returns the
// layout alongside an ErrorList when any rule or declaration fails to
// compile; callers should not trust a non-nil layout when err is non-nil.
func Compile(f *kms.File) (*km2.KeyboardLayout, error) {
	c := &compiler{
		vars:   make(map[string]variable),
		states: make(map[string]int),
		opt:    km2.DefaultOption(),
	}

	for _, o := range f.Options {
		c.compileOption(o)
	}
	for _, v := range f.Vars {
		c.compileVarDecl(v)
	}

	rules := make([]km2.Rule, 0, len(f.Rules))
	for _, r := range f.Rules {
		rules = append(rules, c.compileRule(r))
	}

	layout := &km2.KeyboardLayout{
		Options: c.opt,
		Strings: c.strings,
		Info:    c.info,
		Rules:   rules,
	}
	if len(c.errs) > 0 {
		return layout, c.errs
	}
	return layout, nil
}

func (c *compiler) addErr(line int, err error) {
	c.errs = append(c.errs, &Error{Line: line, Err: err})
}

func (c *compiler) addString(s string) int {
	c.strings = append(c.strings, s)
	return len(c.strings)
}

func (c *compiler) stateSlot(name string) int {
	if idx, ok := c.states[name]; ok {
		return idx
	}
	idx := c.addString("K")
	c.states[name] = idx
	return idx
}

func (c *compiler) compileOption(o kms.OptionDecl) {
	switch o.Name {
	case "NAME":
		c.info = append(c.info, km2.InfoEntry{Tag: km2.TagName, Value: []byte(o.Value)})
	case "DESCRIPTION":
		c.info = append(c.info, km2.InfoEntry{Tag: km2.TagDesc, Value: []byte(o.Value)})
	case "FONTFAMILY":
		c.info = append(c.info, km2.InfoEntry{Tag: km2.TagFont, Value: []byte(o.Value)})
	case "ICON":
		c.info = append(c.info, km2.InfoEntry{Tag: km2.TagIcon, Value: []byte(o.Value)})
	case "HOTKEY":
		hk, ok := vk.ParseHotkey(o.Value)
		if !ok {
			c.addErr(o.Line, ErrInvalidHotkey)
			return
		}
		c.info = append(c.info, km2.InfoEntry{Tag: km2.TagHotkey, Value: hk.EncodeBytes()})
	case "TRACK_CAPSLOCK":
		c.opt.TrackCaps = c.parseBool(o)
	case "EAT_ALL_UNUSED_KEYS":
		c.opt.EatAllUnusedKeys = c.parseBool(o)
	case "US_LAYOUT_BASED":
		c.opt.USLayoutBased = c.parseBool(o)
	case "SMART_BACKSPACE":
		c.opt.SmartBackspace = c.parseBool(o)
	case "TREAT_CTRL_ALT_AS_RALT":
		c.opt.TreatCtrlAltAsRalt = c.parseBool(o)
	}
}

func (c *compiler) parseBool(o kms.OptionDecl) bool {
	v := strings.ToLower(strings.TrimSpace(o.Value))
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.addErr(o.Line, ErrInvalidOption)
		return false
	}
	return b
}

func (c *compiler) compileVarDecl(v kms.VarDecl) {
	var runes []rune
	for _, el := range v.Elements {
		switch el.Kind {
		case kms.ValueString:
			runes = append(runes, el.Text...)
		case kms.ValueUnicode:
			runes = append(runes, el.Rune)
		case kms.ValueVarRef:
			ref, ok := c.vars[el.Name]
			if !ok {
				c.addErr(el.Line, ErrUndefinedVariable)
				continue
			}
			runes = append(runes, ref.runes...)
		}
	}
	idx := c.addString(string(runes))
	c.vars[v.Name] = variable{index: idx, runes: runes}
}
