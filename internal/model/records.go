package model

import (
	"regexp"
	"slices"
)

// Identifier prefixes shared by the codecs and validation. Every identifier
// is its prefix followed by at least one word character.
const (
	AbilityPrefix       = "ABILITY_"
	AbilityMarkerPrefix = "ABILITIES_"
	MovePrefix          = "MOVE_"
	MoveMarkerPrefix    = "MOVES_"
	EffectPrefix        = "EFFECT_"
	FlagPrefix          = "FLAG_"
	AnimationPrefix     = "Move_"
)

// IdentPattern is the unanchored pattern for identifiers with prefix.
func IdentPattern(prefix string) string {
	return regexp.QuoteMeta(prefix) + `\w+`
}

// AbilityDescriptionLines is the fixed number of ability description lines.
const AbilityDescriptionLines = 2

// Ability is one entry of the ability tables.
type Ability struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description []string `json:"description"`
}

// NewAbility pads or truncates description to exactly two lines.
func NewAbility(id, name string, description []string) Ability {
	desc := make([]string, AbilityDescriptionLines)
	copy(desc, description)
	return Ability{ID: id, Name: name, Description: desc}
}

// Marker is a constant defined as the value of Ref plus Offset.
type Marker struct {
	Define string `json:"define"`
	Ref    string `json:"ref"`
	Offset int    `json:"offset"`
}

// NotImplemented is the placeholder used for missing move descriptions.
const NotImplemented = "Not implemented."

// Move is one entry of the move tables with its battle data.
type Move struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	ShortName           string     `json:"shortName"`
	Animation           string     `json:"animation"`
	DescriptionTwoLine  []string   `json:"descriptionTwoLine"`
	DescriptionFourLine []string   `json:"descriptionFourLine"`
	Battle              BattleMove `json:"battle"`
}

// NewMove returns the defaults for a freshly added move.
func NewMove(id string) Move {
	return Move{
		ID:        id,
		Name:      "New Move",
		ShortName: "New Move",
		Animation: "Move_NONE",
		Battle:    NewBattleMove(id),
	}
}

// WithID renames the move and its battle data together.
func (m Move) WithID(id string) Move {
	m.ID = id
	m.Battle.ID = id
	return m
}

// AbilitySet holds the ability table and the markers defined against it.
type AbilitySet struct {
	Abilities []Ability `json:"abilities"`
	Markers   []Marker  `json:"markers"`
}

// Index returns the position of id, or -1.
func (s *AbilitySet) Index(id string) int {
	return slices.IndexFunc(s.Abilities, func(a Ability) bool { return a.ID == id })
}

// MoveSet holds the move table plus the vocabularies and opaque text its files need.
type MoveSet struct {
	Moves      []Move   `json:"moves"`
	References []Marker `json:"references"`
	Flags1     []string `json:"flags1"`
	Flags2     []string `json:"flags2"`
	Effects    []string `json:"effects"`
	// Trailer is the text following the battle move table, kept verbatim.
	Trailer string `json:"-"`
}

// Index returns the position of id, or -1.
func (s *MoveSet) Index(id string) int {
	return slices.IndexFunc(s.Moves, func(m Move) bool { return m.ID == id })
}

// RecordSet is everything loaded from one project.
type RecordSet struct {
	Abilities AbilitySet `json:"abilities"`
	Moves     MoveSet    `json:"moves"`
}
