// Package project loads a decomp source tree into a RecordSet and writes it
// back, one codec per target file.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"er-editor/internal/model"
	"er-editor/internal/parser"

	"github.com/rs/zerolog/log"
)

// Project binds a root directory to its file layout.
type Project struct {
	root   string
	layout Layout
}

// New creates a Project for root.
func New(root string, layout Layout) *Project {
	return &Project{root: root, layout: layout}
}

// Root returns the project root as given.
func (p *Project) Root() string { return p.root }

// paths maps layout keys to absolute paths after checking every file exists.
func (p *Project) paths() (map[string]string, error) {
	entries, err := p.layout.Resolve(p.root)
	if err != nil {
		return nil, err
	}
	paths := make(map[string]string, len(entries))
	for _, e := range entries {
		paths[e.Name] = e.Path
	}
	return paths, nil
}

// decodeFile opens path for the duration of one decode.
func decodeFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, &model.NotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	v, err := decode(f)
	if err != nil {
		return v, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}

// Load runs every codec against its file and merges the results by
// identifier. Any failure returns no RecordSet.
func (p *Project) Load() (*model.RecordSet, error) {
	paths, err := p.paths()
	if err != nil {
		return nil, err
	}

	abilities, err := loadAbilities(paths)
	if err != nil {
		return nil, fmt.Errorf("load abilities: %w", err)
	}
	moves, err := loadMoves(paths)
	if err != nil {
		return nil, fmt.Errorf("load moves: %w", err)
	}

	log.Info().
		Str("root", p.root).
		Int("abilities", len(abilities.Abilities)).
		Int("moves", len(moves.Moves)).
		Int("effects", len(moves.Effects)).
		Msg("Loaded project")
	return &model.RecordSet{Abilities: *abilities, Moves: *moves}, nil
}

func loadAbilities(paths map[string]string) (*model.AbilitySet, error) {
	enums, err := decodeFile(paths["ability_enums"], func(r io.Reader) (*parser.EnumTable, error) {
		return parser.DecodeEnums(r, parser.AbilityEnums)
	})
	if err != nil {
		return nil, err
	}
	text, err := decodeFile(paths["ability_text"], parser.DecodeAbilityText)
	if err != nil {
		return nil, err
	}

	set := &model.AbilitySet{Markers: enums.Markers}
	for _, id := range enums.Names {
		name, ok := text.Names[id]
		if !ok {
			return nil, &model.ResolutionError{Name: id, Ref: parser.AbilityNamesTable}
		}
		desc, ok := text.Descriptions[id]
		if !ok {
			return nil, &model.ResolutionError{Name: id, Ref: parser.AbilityDescriptionsTable}
		}
		set.Abilities = append(set.Abilities, model.NewAbility(id, name, desc))
	}
	return set, nil
}

func loadMoves(paths map[string]string) (*model.MoveSet, error) {
	enums, err := decodeFile(paths["move_enums"], func(r io.Reader) (*parser.EnumTable, error) {
		return parser.DecodeEnums(r, parser.MoveEnums)
	})
	if err != nil {
		return nil, err
	}
	bank, err := decodeFile(paths["flags"], parser.DecodeFlags)
	if err != nil {
		return nil, err
	}
	effects, err := decodeFile(paths["effects"], func(r io.Reader) (*parser.EnumTable, error) {
		return parser.DecodeEnums(r, parser.EffectEnums)
	})
	if err != nil {
		return nil, err
	}
	allFlags := append(slices.Clone(bank.Primary), bank.Secondary...)
	battle, err := decodeFile(paths["battle_moves"], func(r io.Reader) (*parser.BattleMoveTable, error) {
		return parser.DecodeBattleMoves(r, effects.Names, allFlags)
	})
	if err != nil {
		return nil, err
	}
	names, err := decodeFile(paths["move_names"], parser.DecodeMoveNames)
	if err != nil {
		return nil, err
	}
	descriptions, err := decodeFile(paths["descriptions"], parser.DecodeDescriptions)
	if err != nil {
		return nil, err
	}
	animations, err := decodeFile(paths["animations"], parser.DecodeAnimations)
	if err != nil {
		return nil, err
	}
	if len(animations) != len(enums.Names) {
		log.Warn().
			Int("animations", len(animations)).
			Int("moves", len(enums.Names)).
			Msg("Animation table length differs from move table, binding by position")
	}

	set := &model.MoveSet{
		References: enums.Markers,
		Flags1:     bank.Primary,
		Flags2:     bank.Secondary,
		Effects:    effects.Names,
		Trailer:    battle.Trailer,
	}
	for i, id := range enums.Names {
		m := model.NewMove(id)
		m.ShortName = lookupOr(names.Short, id, parser.DefaultMoveName(id))
		m.Name = lookupOr(names.Long, id, parser.DefaultMoveName(id))
		if i < len(animations) {
			m.Animation = animations[i]
		}
		if d, ok := descriptions[id]; ok {
			m.DescriptionTwoLine = d.TwoLine
			m.DescriptionFourLine = d.FourLine
		} else {
			m.DescriptionTwoLine = []string{model.NotImplemented}
			m.DescriptionFourLine = []string{model.NotImplemented}
		}
		if bm, ok := battle.Moves[id]; ok {
			m.Battle = bm
		}
		set.Moves = append(set.Moves, m)
	}
	return set, nil
}

func lookupOr(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

// Save validates rs and regenerates every target file in a fixed order. A
// failing file does not stop the others; all failures are returned joined.
// Files already written are not rolled back.
func (p *Project) Save(rs *model.RecordSet) error {
	if err := rs.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	paths, err := p.paths()
	if err != nil {
		return err
	}

	abilities := rs.Abilities.Abilities
	moves := rs.Moves.Moves

	steps := []struct {
		key    string
		encode func(w io.Writer, original io.Reader) error
	}{
		{"ability_enums", func(w io.Writer, _ io.Reader) error {
			entries := make([]parser.EnumEntry, len(abilities))
			for i, a := range abilities {
				entries[i] = parser.EnumEntry{Name: a.ID, Comment: strings.Join(a.Description, " ")}
			}
			return parser.EncodeEnums(w, parser.AbilityEnums, entries, rs.Abilities.Markers)
		}},
		{"ability_text", func(w io.Writer, _ io.Reader) error {
			return parser.EncodeAbilityText(w, abilities)
		}},
		{"move_enums", func(w io.Writer, _ io.Reader) error {
			entries := make([]parser.EnumEntry, len(moves))
			for i, m := range moves {
				entries[i] = parser.EnumEntry{Name: m.ID}
			}
			return parser.EncodeEnums(w, parser.MoveEnums, entries, rs.Moves.References)
		}},
		{"battle_moves", func(w io.Writer, _ io.Reader) error {
			battle := make([]model.BattleMove, len(moves))
			for i, m := range moves {
				battle[i] = m.Battle
				battle[i].ID = m.ID
			}
			return parser.EncodeBattleMoves(w, battle, rs.Moves.Flags1, rs.Moves.Flags2, rs.Moves.Trailer)
		}},
		{"flags", func(w io.Writer, original io.Reader) error {
			return parser.EncodeFlags(w, original, rs.Moves.Flags1, rs.Moves.Flags2)
		}},
		{"effects", func(w io.Writer, _ io.Reader) error {
			entries := make([]parser.EnumEntry, len(rs.Moves.Effects))
			for i, e := range rs.Moves.Effects {
				entries[i] = parser.EnumEntry{Name: e}
			}
			return parser.EncodeEnums(w, parser.EffectEnums, entries, nil)
		}},
		{"animations", func(w io.Writer, original io.Reader) error {
			return parser.EncodeAnimations(w, original, moves)
		}},
		{"descriptions", func(w io.Writer, _ io.Reader) error {
			return parser.EncodeDescriptions(w, moves)
		}},
		{"move_names", func(w io.Writer, _ io.Reader) error {
			return parser.EncodeMoveNames(w, moves)
		}},
	}

	var errs []error
	for _, step := range steps {
		path := paths[step.key]
		if err := writeFile(path, step.encode); err != nil {
			log.Error().Err(err).Str("file", path).Msg("Write failed")
			errs = append(errs, fmt.Errorf("write %s: %w", step.key, err))
			continue
		}
		log.Debug().Str("file", path).Msg("Wrote file")
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.Info().Str("root", p.root).Int("files", len(steps)).Msg("Saved project")
	return nil
}

// writeFile renders into memory from a snapshot of the current file, then
// overwrites it. An encode failure leaves the file untouched.
func writeFile(path string, encode func(w io.Writer, original io.Reader) error) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return &model.NotFoundError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	if err := encode(&buf, bytes.NewReader(original)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
