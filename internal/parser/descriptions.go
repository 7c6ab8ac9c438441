package parser

import (
	"io"
	"regexp"
	"strings"

	"er-editor/internal/model"
	"er-editor/internal/textutil"
)

const (
	twoLinePrefix  = "sMoveTwoLineDescription_"
	fourLinePrefix = "sMoveFourLineDescription_"
)

var descriptionRules = []rule{
	{lineFourLine, regexp.MustCompile(`^\s*static\s+const\s+u8\s+(?P<name>sMoveFourLineDescription_\w+)\[\]\s+=\s*_\(\s*"(?P<value>[^"]*)"\s*\);` + trailingComment)},
	{lineFourLinePointer, regexp.MustCompile(`^\s*\[\s*(?P<name>MOVE_\w+)\s+-\s+1\s*\]\s+=\s+(?P<value>sMoveFourLineDescription_\w+),`)},
	{lineTwoLinePointer, regexp.MustCompile(`^\s*\[\s*(?P<name>MOVE_\w+)\s+-\s+1\s*\]\s+=\s+(?P<value>s\w+),`)},
	{lineTwoLineStart, regexp.MustCompile(`^\s*static\s+const\s+u8\s+(?P<name>s\w+)\[\]\s+=\s*_\(` + trailingComment)},
	{lineTwoLineContinue, regexp.MustCompile(`^\s*"(?P<value>[^"]*)\\n"` + trailingComment)},
	{lineTwoLineFinish, regexp.MustCompile(`^\s*"(?P<value>[^"]*)"\);`)},
}

// MoveDescription holds both description variants of one move.
type MoveDescription struct {
	TwoLine  []string
	FourLine []string
}

// DecodeDescriptions reads both description families and joins them on the
// move identifier. Only moves present in the four-line pointer table are
// returned; a missing two-line text falls back to a placeholder.
func DecodeDescriptions(r io.Reader) (map[string]MoveDescription, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	twoLine := make(map[string][]string)
	twoLinePointers := make(map[string]string)
	fourLine := make(map[string]string)
	fourLinePointers := make(map[string]string)

	var current []string
	currentName := ""

	for _, line := range lines {
		m, ok := classify(descriptionRules, line)
		if !ok {
			continue
		}
		switch m.kind {
		case lineFourLine:
			fourLine[m.group("name")] = m.group("value")
		case lineFourLinePointer:
			fourLinePointers[m.group("name")] = m.group("value")
		case lineTwoLinePointer:
			twoLinePointers[m.group("name")] = m.group("value")
		case lineTwoLineStart:
			current = nil
			currentName = m.group("name")
		case lineTwoLineContinue:
			current = append(current, m.group("value"))
		case lineTwoLineFinish:
			current = append(current, m.group("value"))
			twoLine[currentName] = current
			current = nil
		}
	}

	out := make(map[string]MoveDescription, len(fourLinePointers))
	for id, ref := range fourLinePointers {
		text, ok := fourLine[ref]
		if !ok {
			return nil, &model.ResolutionError{Name: id, Ref: ref}
		}
		desc := MoveDescription{
			TwoLine:  []string{model.NotImplemented},
			FourLine: strings.Split(text, escapedNewline),
		}
		if two, ok := twoLine[twoLinePointers[id]]; ok {
			desc.TwoLine = two
		}
		out[id] = desc
	}
	return out, nil
}

// TwoLineDescriptionConst is the constant name of a move's two-line text.
// The MOVE_ segment is kept: MOVE_POUND -> sMoveTwoLineDescription_MovePound.
func TwoLineDescriptionConst(id string) string {
	return twoLinePrefix + textutil.TitleSegments(id)
}

// FourLineDescriptionConst is the constant name of a move's four-line text.
func FourLineDescriptionConst(id string) string {
	return fourLinePrefix + textutil.TitleSegments(id)
}

// EncodeDescriptions writes two-line constants, the two-line pointer table,
// four-line constants and the four-line pointer table. The move at ordinal 0
// has no entry in any of them.
func EncodeDescriptions(w io.Writer, moves []model.Move) error {
	if len(moves) == 0 {
		return &model.ValidationError{Field: "moves", Msg: "move table must hold at least the none sentinel"}
	}
	described := moves[1:]
	lw := newLineWriter(w)

	for _, m := range described {
		lines := textutil.TrimTrailingBlank(m.DescriptionTwoLine)
		lw.linef("static const u8 %s[] = _(", TwoLineDescriptionConst(m.ID))
		if len(lines) == 0 {
			lw.line(indent(1) + `"");`)
		} else {
			for _, l := range lines[:len(lines)-1] {
				lw.linef(`%s"%s\n"`, indent(1), l)
			}
			lw.linef(`%s"%s");`, indent(1), lines[len(lines)-1])
		}
		lw.line("")
	}

	lw.line("// MOVE_NONE is ignored in this table. Make sure to always subtract 1 before getting the right pointer.")
	lw.line("const u8 *const gMoveDescriptionPointers[MOVES_COUNT - 1] =")
	lw.line("{")
	for _, m := range described {
		lw.linef("%s[%s - 1] = %s,", indent(1), m.ID, TwoLineDescriptionConst(m.ID))
	}
	lw.line("};")
	lw.line("")

	for _, m := range described {
		lw.linef(`static const u8 %s[] = _("%s");`, FourLineDescriptionConst(m.ID), JoinDescription(m.DescriptionFourLine))
	}
	lw.line("")

	lw.line("const u8 *const gMoveFourLineDescriptionPointers[MOVES_COUNT - 1] = {")
	for _, m := range described {
		lw.linef("%s[%s - 1] = %s,", indent(1), m.ID, FourLineDescriptionConst(m.ID))
	}
	lw.line("};")

	return lw.flush()
}
