package parser

import (
	"io"
	"regexp"
	"strings"

	"er-editor/internal/model"
	"er-editor/internal/textutil"
)

// Table names of the ability text header.
const (
	AbilityNamesTable        = "gAbilityNames"
	AbilityDescriptionsTable = "gAbilityDescriptionPointers"
)

// escapedNewline separates description lines inside one string literal.
const escapedNewline = `\n`

var textRules = []rule{
	{lineStringConst, regexp.MustCompile(`^\s*static const u8 (?P<name>s\w+)\s*\[\] = _\("(?P<value>[^"]*)"\);+` + trailingComment)},
	{lineInlineName, regexp.MustCompile(`^\s*\[(?P<name>ABILITY_\w+)\]\s+=\s+_\("(?P<value>[^"]*)"\)\s*,?` + trailingComment)},
	{lineNamePointer, regexp.MustCompile(`^\s*\[(?P<name>ABILITY_\w+)\]\s+=\s+(?P<value>s\w+)\s*,?` + trailingComment)},
}

// AbilityText is the decoded ability text header with indirection resolved.
type AbilityText struct {
	Names        map[string]string
	Descriptions map[string][]string
}

// DecodeAbilityText reads string constants, the inline name table and the
// description pointer table, then joins pointers to constants by name.
func DecodeAbilityText(r io.Reader) (*AbilityText, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	consts := make(map[string]string)
	pointers := make(map[string]string)
	var pointerOrder []string
	out := &AbilityText{
		Names:        make(map[string]string),
		Descriptions: make(map[string][]string),
	}

	for _, line := range lines {
		m, ok := classify(textRules, line)
		if !ok {
			continue
		}
		switch m.kind {
		case lineStringConst:
			consts[m.group("name")] = m.group("value")
		case lineInlineName:
			out.Names[m.group("name")] = m.group("value")
		case lineNamePointer:
			if _, seen := pointers[m.group("name")]; !seen {
				pointerOrder = append(pointerOrder, m.group("name"))
			}
			pointers[m.group("name")] = m.group("value")
		}
	}

	for _, id := range pointerOrder {
		text, ok := consts[pointers[id]]
		if !ok {
			return nil, &model.ResolutionError{Name: id, Ref: pointers[id]}
		}
		out.Descriptions[id] = SplitDescription(text)
	}
	return out, nil
}

// SplitDescription splits on the escaped newline and pads to two lines.
func SplitDescription(text string) []string {
	return model.NewAbility("", "", strings.Split(text, escapedNewline)).Description
}

// JoinDescription drops blank trailing lines and joins the rest.
func JoinDescription(lines []string) string {
	return strings.Join(textutil.TrimTrailingBlank(lines), escapedNewline)
}

// AbilityDescriptionConst derives the string constant name for an ability:
// ABILITY_SPEED_BOOST -> sSpeedBoostDescription.
func AbilityDescriptionConst(id string) string {
	return "s" + textutil.TitleSegments(strings.TrimPrefix(id, AbilityEnums.Prefix)) + "Description"
}

// EncodeAbilityText writes the constants, the name table and the pointer
// table, in that order.
func EncodeAbilityText(w io.Writer, abilities []model.Ability) error {
	lw := newLineWriter(w)

	for _, a := range abilities {
		desc := a.Description
		if len(desc) > model.AbilityDescriptionLines {
			desc = desc[:model.AbilityDescriptionLines]
		}
		lw.linef(`static const u8 %s[] = _("%s");`, AbilityDescriptionConst(a.ID), JoinDescription(desc))
	}

	lw.line("")
	lw.linef("const u8 %s[ABILITIES_COUNT][ABILITY_NAME_LENGTH + 1] =", AbilityNamesTable)
	lw.line("{")
	for _, a := range abilities {
		lw.linef(`%s[%s] = _("%s"),`, indent(1), a.ID, a.Name)
	}
	lw.line("};")

	lw.line("")
	lw.linef("const u8 *const %s[ABILITIES_COUNT] =", AbilityDescriptionsTable)
	lw.line("{")
	for _, a := range abilities {
		lw.linef("%s[%s] = %s,", indent(1), a.ID, AbilityDescriptionConst(a.ID))
	}
	lw.line("};")

	return lw.flush()
}
