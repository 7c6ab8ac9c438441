package parser

import (
	"io"
	"regexp"
	"strings"

	"er-editor/internal/model"
	"er-editor/internal/textutil"
)

// AnimationTableLabel is the label that opens the move animation pointers.
const AnimationTableLabel = "gBattleAnims_Moves::"

var animationRef = regexp.MustCompile(`^\s*\.4byte (?P<name>` + model.IdentPattern(model.AnimationPrefix) + `)`)

// isAnimationEnd reports a line that closes the pointer run: its first
// non-space character starts neither a comment nor another reference.
func isAnimationEnd(line string) bool {
	trimmed := strings.TrimLeft(line, " \t\r\n\v\f")
	if trimmed == "" || strings.HasPrefix(trimmed, "@") {
		return false
	}
	return !animationRef.MatchString(trimmed)
}

// DecodeAnimations returns the animation references following the label,
// in file order.
func DecodeAnimations(r io.Reader) ([]string, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	start := labelIndex(lines)
	if start < 0 {
		return nil, &model.FormatError{Msg: "animation table label " + AnimationTableLabel + " not found"}
	}

	var refs []string
	for _, line := range lines[start+1:] {
		if sub := animationRef.FindStringSubmatch(line); sub != nil {
			refs = append(refs, sub[animationRef.SubexpIndex("name")])
			continue
		}
		if isAnimationEnd(line) {
			break
		}
	}
	return refs, nil
}

// EncodeAnimations rewrites the pointer run of original with one reference
// per move. Bytes up to the label and from the original end boundary on are
// copied verbatim.
func EncodeAnimations(w io.Writer, original io.Reader, moves []model.Move) error {
	lines, err := readRawLines(original)
	if err != nil {
		return err
	}

	start := labelIndex(lines)
	if start < 0 {
		return &model.FormatError{Msg: "animation table label " + AnimationTableLabel + " not found"}
	}

	end := start + 1
	for end < len(lines) && !isAnimationEnd(chomp(lines[end])) {
		end++
	}

	lw := newLineWriter(w)
	for _, line := range lines[:start+1] {
		lw.passthrough(line, true)
	}
	for _, m := range moves {
		line := "\t.4byte " + m.Animation
		if textutil.Fold(m.Animation) != textutil.Fold(m.ID) {
			line += " @ " + m.ID
		}
		lw.line(line)
	}
	lw.line("")
	tail := lines[end:]
	for i, line := range tail {
		lw.passthrough(line, i < len(tail)-1)
	}
	return lw.flush()
}

func labelIndex(lines []string) int {
	for i, line := range lines {
		if strings.Contains(line, AnimationTableLabel) {
			return i
		}
	}
	return -1
}
