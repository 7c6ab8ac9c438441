package model

import (
	"fmt"
	"regexp"
)

// Terminal count markers. They are regenerated on every write and never
// placed after a record.
const (
	AbilityCountMarker = "ABILITIES_COUNT_CUSTOM"
	MoveCountMarker    = "MOVES_COUNT_DARKY"
)

var (
	abilityIDRe     = anchored(AbilityPrefix)
	abilityMarkerRe = anchored(AbilityMarkerPrefix)
	moveIDRe        = anchored(MovePrefix)
	moveMarkerRe    = anchored(MoveMarkerPrefix)
	effectRe        = anchored(EffectPrefix)
	flagRe          = anchored(FlagPrefix)
	animationRe     = anchored(AnimationPrefix)
)

func anchored(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + IdentPattern(prefix) + `$`)
}

// checkIdent rejects a value the codecs would not read back.
func checkIdent(re *regexp.Regexp, record, field, value string) error {
	if re.MatchString(value) {
		return nil
	}
	return &ValidationError{Record: record, Field: field, Value: value, Msg: "must match " + re.String()}
}

// Validate checks the ability set before it is written.
func (s *AbilitySet) Validate() error {
	if len(s.Abilities) == 0 {
		return &ValidationError{Field: "abilities", Msg: "ability table is empty"}
	}
	ids := make(map[string]bool, len(s.Abilities))
	for _, a := range s.Abilities {
		if a.ID == "" {
			return &ValidationError{Field: "id", Msg: "empty ability identifier"}
		}
		if err := checkIdent(abilityIDRe, a.ID, "id", a.ID); err != nil {
			return err
		}
		if ids[a.ID] {
			return &ValidationError{Record: a.ID, Field: "id", Value: a.ID, Msg: "duplicate identifier"}
		}
		ids[a.ID] = true
	}
	return validateMarkers(s.Markers, ids, AbilityCountMarker, abilityMarkerRe)
}

// Validate checks the move set before it is written.
func (s *MoveSet) Validate() error {
	if len(s.Moves) == 0 {
		return &ValidationError{Field: "moves", Msg: "move table must hold at least the none sentinel"}
	}

	flagOwner := make(map[string]int, len(s.Flags1)+len(s.Flags2))
	for bank, vocab := range [][]string{s.Flags1, s.Flags2} {
		for _, f := range vocab {
			if err := checkIdent(flagRe, "", "flags", f); err != nil {
				return err
			}
			if _, dup := flagOwner[f]; dup {
				return &ValidationError{Field: "flags", Value: f, Msg: "flag listed more than once"}
			}
			flagOwner[f] = bank
		}
	}
	effects := make(map[string]bool, len(s.Effects))
	for _, e := range s.Effects {
		if err := checkIdent(effectRe, "", "effect", e); err != nil {
			return err
		}
		effects[e] = true
	}

	ids := make(map[string]bool, len(s.Moves))
	for _, m := range s.Moves {
		if m.ID == "" {
			return &ValidationError{Field: "id", Msg: "empty move identifier"}
		}
		if err := checkIdent(moveIDRe, m.ID, "id", m.ID); err != nil {
			return err
		}
		if ids[m.ID] {
			return &ValidationError{Record: m.ID, Field: "id", Value: m.ID, Msg: "duplicate identifier"}
		}
		ids[m.ID] = true
		if err := checkIdent(animationRe, m.ID, "animation", m.Animation); err != nil {
			return err
		}

		if !effects[m.Battle.Effect] {
			return &ValidationError{Record: m.ID, Field: "effect", Value: m.Battle.Effect, Msg: "not a known effect"}
		}
		for f := range m.Battle.Flags {
			if _, ok := flagOwner[f]; !ok {
				return &ValidationError{Record: m.ID, Field: "flags", Value: f, Msg: "not a known flag"}
			}
		}
		if _, err := m.Battle.Target.Extract(); err != nil {
			return fmt.Errorf("%s: %w", m.ID, err)
		}
	}
	return validateMarkers(s.References, ids, MoveCountMarker, moveMarkerRe)
}

// Validate checks both sets.
func (rs *RecordSet) Validate() error {
	if err := rs.Abilities.Validate(); err != nil {
		return fmt.Errorf("abilities: %w", err)
	}
	if err := rs.Moves.Validate(); err != nil {
		return fmt.Errorf("moves: %w", err)
	}
	return nil
}

func validateMarkers(markers []Marker, ids map[string]bool, terminal string, defineRe *regexp.Regexp) error {
	seen := make(map[string]bool, len(markers))
	for _, m := range markers {
		if m.Define == terminal {
			continue
		}
		if err := checkIdent(defineRe, "", "marker", m.Define); err != nil {
			return err
		}
		if seen[m.Define] {
			return &ValidationError{Field: "marker", Value: m.Define, Msg: "duplicate marker"}
		}
		seen[m.Define] = true
		if !ids[m.Ref] {
			return &ResolutionError{Name: m.Define, Ref: m.Ref}
		}
	}
	return nil
}
