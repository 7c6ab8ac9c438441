package parser

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"er-editor/internal/model"
)

// BattleMovesTrailer marks the start of the opaque block after the table.
const BattleMovesTrailer = "const struct IntimidateCloneData gIntimidateCloneData[NUM_INTIMIDATE_CLONES] ="

const (
	targetPrefix = "MOVE_TARGET_"
	typePrefix   = "TYPE_"
	splitPrefix  = "SPLIT_"
)

var battleRules = []rule{
	{lineBlockStart, regexp.MustCompile(`^\s*\[\s*(?P<name>MOVE_\w+)\s*\]\s+=\s*\{?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>effect)\s+=\s+(?P<value>\w+)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>power)\s+=\s+(?P<value>\d+)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>accuracy)\s+=\s+(?P<value>\d+)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>pp)\s+=\s+(?P<value>\d+)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>priority)\s+=\s+(?P<value>-?\d+)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>secondaryEffectChance)\s+=\s+(?P<value>\d+)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>type)\s+=\s+TYPE_(?P<value>\w+)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>type2)\s+=\s+TYPE_(?P<value>\w+)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>target)\s+=\s+(?P<value>MOVE_TARGET_\w+(?:\s*\|\s*MOVE_TARGET_\w+)*)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>split)\s+=\s+SPLIT_(?P<value>\w+)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>flags2?)\s+=\s+(?P<value>FLAG_\w+(?:\s*\|\s*FLAG_\w+)*)\s*,?`)},
	{lineField, regexp.MustCompile(`^\s*\.(?P<field>argument)\s+=\s+(?P<value>[^,]+)\s*,?`)},
	{lineBlockEnd, regexp.MustCompile(`^\s*\}\s*,`)},
}

// BattleMoveTable is the decoded gBattleMoves table.
type BattleMoveTable struct {
	Moves map[string]model.BattleMove
	// Order lists identifiers in file order.
	Order []string
	// Trailer is everything from BattleMovesTrailer to end of input.
	Trailer string
}

// DecodeBattleMoves reads the struct blocks. Effects and flags are the
// vocabularies every token must belong to.
func DecodeBattleMoves(r io.Reader, effects, flags []string) (*BattleMoveTable, error) {
	lines, err := readRawLines(r)
	if err != nil {
		return nil, err
	}

	validEffects := toSet(effects)
	validFlags := toSet(flags)
	table := &BattleMoveTable{Moves: make(map[string]model.BattleMove)}
	cur := model.NewBattleMove("")

	for i, raw := range lines {
		line := chomp(raw)
		if strings.Contains(line, BattleMovesTrailer) {
			table.Trailer = strings.Join(lines[i:], "")
			break
		}

		m, ok := classify(battleRules, line)
		if !ok {
			continue
		}
		switch m.kind {
		case lineBlockStart:
			cur = model.NewBattleMove(m.group("name"))
		case lineBlockEnd:
			if cur.ID != "" {
				if _, seen := table.Moves[cur.ID]; !seen {
					table.Order = append(table.Order, cur.ID)
				}
				table.Moves[cur.ID] = cur
			}
			cur = model.NewBattleMove("")
		case lineField:
			if err := applyField(&cur, m.group("field"), strings.TrimSpace(m.group("value")), validEffects, validFlags); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
	}
	return table, nil
}

func applyField(bm *model.BattleMove, field, value string, effects, flags map[string]bool) error {
	var err error
	switch field {
	case "effect":
		if !effects[value] {
			return &model.ValidationError{Record: bm.ID, Field: field, Value: value, Msg: "not a known effect"}
		}
		bm.Effect = value
	case "power":
		bm.Power, err = strconv.Atoi(value)
	case "accuracy":
		bm.Accuracy, err = strconv.Atoi(value)
	case "pp":
		bm.PP, err = strconv.Atoi(value)
	case "priority":
		bm.Priority, err = strconv.Atoi(value)
	case "secondaryEffectChance":
		bm.SecondaryEffectChance, err = strconv.Atoi(value)
	case "type":
		bm.Type, err = model.ParseElementType(value)
	case "type2":
		bm.Type2, err = model.ParseElementType(value)
	case "split":
		bm.Split, err = model.ParseSplit(value)
	case "target":
		var names []string
		for _, piece := range splitPipes(value) {
			names = append(names, strings.TrimPrefix(piece, targetPrefix))
		}
		bm.Target, err = model.ParseTarget(names)
	case "flags", "flags2":
		tokens := splitPipes(value)
		for _, t := range tokens {
			if !flags[t] {
				return &model.ValidationError{Record: bm.ID, Field: field, Value: t, Msg: "not a known flag"}
			}
		}
		if bm.Flags == nil {
			bm.Flags = model.FlagSet{}
		}
		for _, t := range tokens {
			bm.Flags[t] = struct{}{}
		}
	case "argument":
		bm.Argument = value
	}
	if err != nil {
		return fmt.Errorf("%s: %w", bm.ID, err)
	}
	return nil
}

// EncodeBattleMoves writes the table, omitting fields that hold their
// defaults, then re-emits trailer unchanged.
func EncodeBattleMoves(w io.Writer, moves []model.BattleMove, flags1, flags2 []string, trailer string) error {
	lw := newLineWriter(w)
	lw.line("const struct BattleMove gBattleMoves[MOVES_COUNT] =")
	lw.line("{")

	for _, bm := range moves {
		target, err := bm.Target.Names()
		if err != nil {
			return fmt.Errorf("%s: %w", bm.ID, err)
		}
		for i, name := range target {
			target[i] = targetPrefix + name
		}

		lw.linef("%s[%s] =", indent(1), bm.ID)
		lw.line(indent(1) + "{")
		field := func(name, value string) {
			lw.linef("%s.%s = %s,", indent(2), name, value)
		}

		field("effect", bm.Effect)
		field("power", strconv.Itoa(bm.Power))
		field("type", typePrefix+bm.Type.String())
		if bm.Type2 != model.TypeNormal {
			field("type2", typePrefix+bm.Type2.String())
		}
		field("accuracy", strconv.Itoa(bm.Accuracy))
		field("pp", strconv.Itoa(bm.PP))
		field("secondaryEffectChance", strconv.Itoa(bm.SecondaryEffectChance))
		field("target", strings.Join(target, " | "))
		if bm.Priority != 0 {
			field("priority", strconv.Itoa(bm.Priority))
		}
		if f := bm.Flags.In(flags1); len(f) > 0 {
			field("flags", strings.Join(f, " | "))
		}
		if f := bm.Flags.In(flags2); len(f) > 0 {
			field("flags2", strings.Join(f, " | "))
		}
		field("split", splitPrefix+bm.Split.String())
		if strings.TrimSpace(bm.Argument) != "" {
			field("argument", bm.Argument)
		}

		lw.line(indent(1) + "},")
	}

	lw.line("};")
	lw.line("")
	lw.raw(trailer)
	return lw.flush()
}

func splitPipes(expr string) []string {
	var out []string
	for _, piece := range strings.Split(expr, "|") {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
