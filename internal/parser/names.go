package parser

import (
	"io"
	"regexp"
	"strings"

	"er-editor/internal/model"
	"er-editor/internal/textutil"
)

const (
	// LongNamesLabel switches decoding from short to long names.
	LongNamesLabel = "const u8 gMoveNamesLong"

	ShortNameLength = 12
	LongNameLength  = 18
)

var nameRules = []rule{
	{lineName, regexp.MustCompile(`^\s*\[\s*(?P<name>MOVE_\w+)\s*\]\s+=\s*_\("(?P<value>[^"]+)"\),`)},
}

// MoveNames holds both move name tables.
type MoveNames struct {
	Short map[string]string
	Long  map[string]string
}

// DecodeMoveNames reads gMoveNames and, after the long-name label,
// gMoveNamesLong.
func DecodeMoveNames(r io.Reader) (*MoveNames, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	names := &MoveNames{Short: make(map[string]string), Long: make(map[string]string)}
	into := names.Short
	for _, line := range lines {
		if strings.Contains(line, LongNamesLabel) {
			into = names.Long
			continue
		}
		if m, ok := classify(nameRules, line); ok {
			into[m.group("name")] = m.group("value")
		}
	}
	return names, nil
}

// DefaultMoveName is used when a move has no entry in a name table.
func DefaultMoveName(id string) string {
	return strings.ReplaceAll(id, "_", "")
}

// EncodeMoveNames writes both tables, clipping names to the game's limits.
func EncodeMoveNames(w io.Writer, moves []model.Move) error {
	lw := newLineWriter(w)

	lw.line("const u8 gMoveNames[MOVES_COUNT][MOVE_NAME_LENGTH + 1] =")
	lw.line("{")
	for _, m := range moves {
		lw.linef(`%s[%s] = _("%s"),`, indent(1), m.ID, textutil.Clip(m.ShortName, ShortNameLength))
	}
	lw.line("};")
	lw.line("")
	lw.line("// Second table with longer move names for places where they fit.")
	lw.line("// TODO: Change both move name tables into a table of pointers so strings can be reused.")
	lw.line(LongNamesLabel + "[MOVES_COUNT][LONG_MOVE_NAME_LENGTH + 1] =")
	lw.line("{")
	for _, m := range moves {
		lw.linef(`%s[%s] = _("%s"),`, indent(1), m.ID, textutil.Clip(m.Name, LongNameLength))
	}
	lw.line("};")

	return lw.flush()
}
