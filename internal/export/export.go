package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"er-editor/internal/model"
)

// Format selects the file export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTSV  Format = "tsv"
)

// ParseFormat accepts "json" or "tsv", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatTSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write dispatches on f.
func Write(w io.Writer, rs *model.RecordSet, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, rs)
	case FormatTSV:
		return WriteTSV(w, rs.Moves.Moves)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// WriteJSON writes the whole record set as indented JSON.
func WriteJSON(w io.Writer, rs *model.RecordSet) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(rs); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

var tsvHeader = []string{
	"ordinal", "id", "name", "short_name", "effect", "power", "type", "type2", "accuracy", "pp",
	"secondary_effect_chance", "target", "priority", "split", "flags", "argument", "animation", "description",
}

// WriteTSV writes one row per move, in table order.
func WriteTSV(w io.Writer, moves []model.Move) error {
	if _, err := fmt.Fprintln(w, strings.Join(tsvHeader, "\t")); err != nil {
		return fmt.Errorf("write TSV header: %w", err)
	}

	for i, m := range moves {
		bm := m.Battle
		target, err := bm.Target.Names()
		if err != nil {
			return fmt.Errorf("%s: %w", m.ID, err)
		}
		row := []string{
			strconv.Itoa(i),
			m.ID,
			escapeTSV(m.Name),
			escapeTSV(m.ShortName),
			bm.Effect,
			strconv.Itoa(bm.Power),
			bm.Type.String(),
			bm.Type2.String(),
			strconv.Itoa(bm.Accuracy),
			strconv.Itoa(bm.PP),
			strconv.Itoa(bm.SecondaryEffectChance),
			strings.Join(target, "|"),
			strconv.Itoa(bm.Priority),
			bm.Split.String(),
			strings.Join(bm.Flags.Sorted(), "|"),
			escapeTSV(bm.Argument),
			m.Animation,
			escapeTSV(strings.Join(m.DescriptionFourLine, " ")),
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("write TSV row %s: %w", m.ID, err)
		}
	}
	return nil
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}
