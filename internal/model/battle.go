package model

import (
	"encoding/json"
	"slices"
	"sort"
)

// ElementType is the elemental type of a move, written as TYPE_<NAME>.
type ElementType int

const (
	TypeNone ElementType = iota
	TypeNormal
	TypeFighting
	TypeFlying
	TypePoison
	TypeGround
	TypeRock
	TypeBug
	TypeGhost
	TypeSteel
	TypeMystery
	TypeFire
	TypeWater
	TypeGrass
	TypeElectric
	TypePsychic
	TypeIce
	TypeDragon
	TypeDark
	TypeFairy
)

var typeNames = []string{
	"NONE", "NORMAL", "FIGHTING", "FLYING", "POISON", "GROUND", "ROCK", "BUG", "GHOST", "STEEL",
	"MYSTERY", "FIRE", "WATER", "GRASS", "ELECTRIC", "PSYCHIC", "ICE", "DRAGON", "DARK", "FAIRY",
}

func (t ElementType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "UNKNOWN"
	}
	return typeNames[t]
}

// ParseElementType maps a bare type name (without the TYPE_ prefix).
func ParseElementType(name string) (ElementType, error) {
	if i := slices.Index(typeNames, name); i >= 0 {
		return ElementType(i), nil
	}
	return TypeNone, &ValidationError{Field: "type", Value: name, Msg: "unknown type"}
}

func (t ElementType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// Split is the damage category of a move, written as SPLIT_<NAME>.
type Split int

const (
	SplitPhysical Split = iota
	SplitSpecial
	SplitStatus
)

var splitNames = []string{"PHYSICAL", "SPECIAL", "STATUS"}

func (s Split) String() string {
	if s < 0 || int(s) >= len(splitNames) {
		return "UNKNOWN"
	}
	return splitNames[s]
}

// ParseSplit maps a bare split name (without the SPLIT_ prefix).
func ParseSplit(name string) (Split, error) {
	if i := slices.Index(splitNames, name); i >= 0 {
		return Split(i), nil
	}
	return SplitPhysical, &ValidationError{Field: "split", Value: name, Msg: "unknown split"}
}

func (s Split) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// FlagSet is an unordered set of FLAG_ tokens.
type FlagSet map[string]struct{}

// NewFlagSet builds a set from tokens.
func NewFlagSet(tokens ...string) FlagSet {
	fs := make(FlagSet, len(tokens))
	for _, t := range tokens {
		fs[t] = struct{}{}
	}
	return fs
}

func (fs FlagSet) Has(token string) bool {
	_, ok := fs[token]
	return ok
}

// Sorted returns the tokens in lexical order.
func (fs FlagSet) Sorted() []string {
	out := make([]string, 0, len(fs))
	for t := range fs {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// In returns the members of vocabulary that are in the set, in vocabulary order.
func (fs FlagSet) In(vocabulary []string) []string {
	var out []string
	for _, t := range vocabulary {
		if fs.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (fs FlagSet) MarshalJSON() ([]byte, error) { return json.Marshal(fs.Sorted()) }

// BattleMove is one entry of the gBattleMoves table.
type BattleMove struct {
	ID                    string      `json:"id"`
	Effect                string      `json:"effect"`
	Power                 int         `json:"power"`
	Type                  ElementType `json:"type"`
	Type2                 ElementType `json:"type2"`
	Accuracy              int         `json:"accuracy"`
	PP                    int         `json:"pp"`
	SecondaryEffectChance int         `json:"secondaryEffectChance"`
	Flags                 FlagSet     `json:"flags"`
	Split                 Split       `json:"split"`
	Target                Target      `json:"target"`
	Argument              string      `json:"argument,omitempty"`
	Priority              int         `json:"priority"`
}

// DefaultEffect is assigned to moves that have no battle data yet.
const DefaultEffect = "EFFECT_PLACEHOLDER"

// NewBattleMove returns the default battle data for id.
func NewBattleMove(id string) BattleMove {
	return BattleMove{
		ID:     id,
		Effect: DefaultEffect,
		Type:   TypeNormal,
		Type2:  TypeNormal,
		Flags:  FlagSet{},
		Split:  SplitPhysical,
		Target: TargetSelected,
	}
}
