package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Target is the MOVE_TARGET_ bitmask of a battle move.
type Target uint16

const (
	TargetSelected       Target = 0x0
	TargetDepends        Target = 0x1
	TargetUserOrSelected Target = 0x2
	TargetRandom         Target = 0x4
	TargetBoth           Target = 0x8
	TargetUser           Target = 0x10
	TargetFoesAndAlly    Target = 0x20
	TargetOpponentsField Target = 0x40
	TargetAlly           Target = 0x80
	TargetAllBattlers    Target = 0x100 | TargetUser
)

// TargetPiece is one named component of a target bitmask.
type TargetPiece struct {
	Name  string
	Value Target
}

// targetPieces is ordered from most atomic to most composite.
var targetPieces = []TargetPiece{
	{"SELECTED", TargetSelected},
	{"DEPENDS", TargetDepends},
	{"USER_OR_SELECTED", TargetUserOrSelected},
	{"RANDOM", TargetRandom},
	{"BOTH", TargetBoth},
	{"USER", TargetUser},
	{"FOES_AND_ALLY", TargetFoesAndAlly},
	{"OPPONENTS_FIELD", TargetOpponentsField},
	{"ALLY", TargetAlly},
	{"ALL_BATTLERS", TargetAllBattlers},
}

// TargetPieces returns the closed piece set, most atomic first.
func TargetPieces() []TargetPiece {
	return slices.Clone(targetPieces)
}

// ParseTarget ORs the named pieces (bare names, without MOVE_TARGET_).
func ParseTarget(names []string) (Target, error) {
	var mask Target
	for _, name := range names {
		i := slices.IndexFunc(targetPieces, func(p TargetPiece) bool { return p.Name == name })
		if i < 0 {
			return 0, &ValidationError{Field: "target", Value: name, Msg: "unknown target piece"}
		}
		mask |= targetPieces[i].Value
	}
	return mask, nil
}

// Extract greedily removes pieces from the mask, scanning from the most
// composite piece to the most atomic, and returns them in extraction order.
func (t Target) Extract() ([]TargetPiece, error) {
	if t == TargetSelected {
		return []TargetPiece{targetPieces[0]}, nil
	}

	remaining := t
	var out []TargetPiece
	for i := len(targetPieces) - 1; i > 0 && remaining != 0; i-- {
		p := targetPieces[i]
		if remaining&p.Value == p.Value {
			remaining &^= p.Value
			out = append(out, p)
		}
	}
	if remaining != 0 {
		return nil, &ValidationError{Field: "target", Value: fmt.Sprintf("%#x", uint16(t)), Msg: "not expressible with known pieces"}
	}
	return out, nil
}

// Pieces returns the canonical display order: the extraction order reversed.
func (t Target) Pieces() ([]TargetPiece, error) {
	pieces, err := t.Extract()
	if err != nil {
		return nil, err
	}
	slices.Reverse(pieces)
	return pieces, nil
}

// Names returns the canonical piece names in display order.
func (t Target) Names() ([]string, error) {
	pieces, err := t.Pieces()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(pieces))
	for i, p := range pieces {
		names[i] = p.Name
	}
	return names, nil
}

func (t Target) MarshalJSON() ([]byte, error) {
	names, err := t.Names()
	if err != nil {
		return nil, err
	}
	return json.Marshal(names)
}
