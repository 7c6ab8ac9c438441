package parser

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"er-editor/internal/model"
)

// EnumDialect describes one ordinal constant header.
type EnumDialect struct {
	Guard        string // include guard macro
	Prefix       string // prefix of primary constants, e.g. ABILITY_
	MarkerPrefix string // prefix of marker constants, empty when the file has none
	CountMarker  string // synthetic trailing count constant
	CountAlias   string // public alias of CountMarker, may be empty
	// SpaceMarkers puts a blank line after each marker as well as before it.
	SpaceMarkers bool
	// Footer lines go between the count constants and the closing guard.
	Footer []string
}

var (
	AbilityEnums = EnumDialect{
		Guard:        "GUARD_CONSTANTS_ABILITIES_H",
		Prefix:       model.AbilityPrefix,
		MarkerPrefix: model.AbilityMarkerPrefix,
		CountMarker:  model.AbilityCountMarker,
		CountAlias:   "ABILITIES_COUNT",
		SpaceMarkers: true,
	}

	MoveEnums = EnumDialect{
		Guard:        "GUARD_CONSTANTS_MOVES_H",
		Prefix:       model.MovePrefix,
		MarkerPrefix: model.MoveMarkerPrefix,
		CountMarker:  model.MoveCountMarker,
		CountAlias:   "MOVES_COUNT",
		Footer: []string{
			"#define EFFECTIVENESS_NEUTRAL             1.0",
			"#define EFFECTIVENESS_NOT_VERY_EFFECTIVE  0.5",
			"#define EFFECTIVENESS_SUPER_EFFECTIVE     2.0",
			"#define EFFECTIVENESS_SUPER_FROM_NOT_VERY 4.0",
		},
	}

	EffectEnums = EnumDialect{
		Guard:       "GUARD_CONSTANTS_BATTLE_MOVE_EFFECTS_H",
		Prefix:      model.EffectPrefix,
		CountMarker: "NUM_BATTLE_MOVE_EFFECTS",
	}
)

const trailingComment = `\s*(?://.*)?$`

func (d EnumDialect) rules() []rule {
	p := model.IdentPattern(d.Prefix)
	rules := []rule{
		{lineDirect, regexp.MustCompile(`^\s*#define\s+(?P<name>` + p + `)\s+(?P<value>\d+)` + trailingComment)},
	}
	if d.MarkerPrefix == "" {
		return rules
	}
	mp := model.IdentPattern(d.MarkerPrefix)
	return append(rules,
		rule{lineRelative, regexp.MustCompile(`^\s*#define\s+(?P<name>` + p + `)\s+\(\s*(?P<marker>` + mp + `)(?:\s*\+\s*(?P<offset>\d+))?\s*\)` + trailingComment)},
		rule{lineMarkerNumeric, regexp.MustCompile(`^\s*#define\s+(?P<name>` + mp + `)\s+(?P<value>\d+)` + trailingComment)},
		rule{lineMarkerReferential, regexp.MustCompile(`^\s*#define\s+(?P<name>` + mp + `)\s+\(?\s*(?P<ref>` + p + `)(?:\s*\+\s*(?P<offset>\d+))?\s*\)?` + trailingComment)},
	)
}

// EnumTable is a decoded ordinal header.
type EnumTable struct {
	// Names in resolved-value order.
	Names []string
	// Markers in order of first definition; count constants excluded.
	Markers []model.Marker
}

// DecodeEnums reads an ordinal header. Markers may only reference primary
// constants; a marker naming an unknown constant fails with ResolutionError.
func DecodeEnums(r io.Reader, d EnumDialect) (*EnumTable, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	rules := d.rules()
	values := make(map[string]int)
	var order []string
	markers := make(map[string]model.Marker)
	var markerOrder []string

	set := func(name string, v int) {
		if _, ok := values[name]; !ok {
			order = append(order, name)
		}
		values[name] = v
	}
	addMarker := func(mk model.Marker) {
		if _, ok := markers[mk.Define]; !ok {
			markerOrder = append(markerOrder, mk.Define)
		}
		markers[mk.Define] = mk
	}

	for i, line := range lines {
		m, ok := classify(rules, line)
		if !ok {
			continue
		}
		name := m.group("name")

		switch m.kind {
		case lineDirect:
			v, err := m.intGroup("value", 0)
			if err != nil {
				return nil, &model.FormatError{Line: i + 1, Msg: err.Error()}
			}
			set(name, v)

		case lineRelative:
			mk, ok := markers[m.group("marker")]
			if !ok {
				return nil, &model.ResolutionError{Name: name, Ref: m.group("marker")}
			}
			base, ok := values[mk.Ref]
			if !ok {
				return nil, &model.ResolutionError{Name: mk.Define, Ref: mk.Ref}
			}
			off, err := m.intGroup("offset", 0)
			if err != nil {
				return nil, &model.FormatError{Line: i + 1, Msg: err.Error()}
			}
			set(name, base+mk.Offset+off)

		case lineMarkerNumeric:
			v, err := m.intGroup("value", 0)
			if err != nil {
				return nil, &model.FormatError{Line: i + 1, Msg: err.Error()}
			}
			if name == d.CountMarker || name == d.CountAlias {
				continue
			}
			ref := slices.IndexFunc(order, func(n string) bool { return values[n] == v-1 })
			if ref < 0 {
				return nil, &model.ResolutionError{Name: name, Ref: fmt.Sprintf("value %d", v-1)}
			}
			addMarker(model.Marker{Define: name, Ref: order[ref], Offset: 1})

		case lineMarkerReferential:
			off, err := m.intGroup("offset", 0)
			if err != nil {
				return nil, &model.FormatError{Line: i + 1, Msg: err.Error()}
			}
			addMarker(model.Marker{Define: name, Ref: m.group("ref"), Offset: off})
		}
	}

	table := &EnumTable{Names: order}
	slices.SortStableFunc(table.Names, func(a, b string) int { return values[a] - values[b] })

	for _, define := range markerOrder {
		if define == d.CountMarker || define == d.CountAlias {
			continue
		}
		mk := markers[define]
		if _, ok := values[mk.Ref]; !ok {
			return nil, &model.ResolutionError{Name: mk.Define, Ref: mk.Ref}
		}
		table.Markers = append(table.Markers, mk)
	}
	return table, nil
}

// EnumEntry is one primary constant to write, with an optional trailing comment.
type EnumEntry struct {
	Name    string
	Comment string
}

// EncodeEnums writes entries numbered from 0, each followed by the markers
// that reference it, then the count constant and its alias.
func EncodeEnums(w io.Writer, d EnumDialect, entries []EnumEntry, markers []model.Marker) error {
	if len(entries) == 0 {
		return &model.ValidationError{Field: "entries", Value: d.Prefix, Msg: "cannot write an empty table"}
	}

	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e.Name] = true
	}
	byRef := make(map[string][]model.Marker)
	for _, mk := range markers {
		if mk.Define == d.CountMarker || mk.Define == d.CountAlias {
			continue
		}
		if !present[mk.Ref] {
			return &model.ResolutionError{Name: mk.Define, Ref: mk.Ref}
		}
		if mk.Offset < 0 {
			return &model.ValidationError{Field: "offset", Value: mk.Define, Msg: "marker offsets must not be negative"}
		}
		byRef[mk.Ref] = append(byRef[mk.Ref], mk)
	}

	lw := newLineWriter(w)
	lw.line("#ifndef " + d.Guard)
	lw.line("#define " + d.Guard)
	lw.line("")

	for i, e := range entries {
		line := fmt.Sprintf("#define %s %d", e.Name, i)
		if e.Comment != "" {
			line = strings.TrimRight(line+" // "+e.Comment, " /")
		}
		lw.line(line)

		for _, mk := range byRef[e.Name] {
			lw.line("")
			lw.line(markerLine(mk))
			if d.SpaceMarkers {
				lw.line("")
			}
		}
	}

	lw.line("")
	lw.linef("#define %s (%s + 1)", d.CountMarker, entries[len(entries)-1].Name)
	lw.line("")
	if d.CountAlias != "" {
		lw.linef("#define %s %s", d.CountAlias, d.CountMarker)
		lw.line("")
	}
	if len(d.Footer) > 0 {
		for _, f := range d.Footer {
			lw.line(f)
		}
		lw.line("")
	}
	lw.line("#endif  // " + d.Guard)
	return lw.flush()
}

func markerLine(mk model.Marker) string {
	if mk.Offset == 0 {
		return fmt.Sprintf("#define %s (%s)", mk.Define, mk.Ref)
	}
	return fmt.Sprintf("#define %s (%s + %d)", mk.Define, mk.Ref, mk.Offset)
}
