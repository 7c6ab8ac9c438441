package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// TitleSegments turns an underscore-delimited constant into concatenated
// title-case words: "MOVE_DOUBLE_EDGE" -> "MoveDoubleEdge".
func TitleSegments(ident string) string {
	var b strings.Builder
	for _, seg := range strings.Split(ident, "_") {
		b.WriteString(titleCaser.String(strings.ToLower(seg)))
	}
	return b.String()
}

// Clip shortens s to at most maxRunes runes.
func Clip(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes])
}

// Fold removes underscores and lower-cases, so Move_DoubleEdge and
// MOVE_DOUBLE_EDGE compare equal.
func Fold(ident string) string {
	return strings.ToLower(strings.ReplaceAll(ident, "_", ""))
}

// TrimTrailingBlank drops blank lines from the end of lines.
func TrimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}
