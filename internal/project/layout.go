package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"er-editor/internal/model"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Layout lists the target files relative to a project root.
type Layout struct {
	AbilityEnums string `yaml:"ability_enums"`
	AbilityText  string `yaml:"ability_text"`
	MoveEnums    string `yaml:"move_enums"`
	BattleMoves  string `yaml:"battle_moves"`
	Flags        string `yaml:"flags"`
	Effects      string `yaml:"effects"`
	Animations   string `yaml:"animations"`
	Descriptions string `yaml:"descriptions"`
	MoveNames    string `yaml:"move_names"`
}

// DefaultLayout returns the paths used by the decomp source tree.
func DefaultLayout() Layout {
	return Layout{
		AbilityEnums: "include/constants/abilities.h",
		AbilityText:  "src/data/text/abilities.h",
		MoveEnums:    "include/constants/moves.h",
		BattleMoves:  "src/data/battle_moves.h",
		Flags:        "include/constants/pokemon.h",
		Effects:      "include/constants/battle_move_effects.h",
		Animations:   "data/battle_anim_scripts.s",
		Descriptions: "src/data/text/move_descriptions.h",
		MoveNames:    "src/data/text/move_names.h",
	}
}

// LoadLayout reads a YAML override on top of DefaultLayout. Keys absent from
// the file keep their defaults; an empty path returns the defaults.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()
	if path == "" {
		return layout, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return layout, &model.NotFoundError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return layout, fmt.Errorf("parse layout %s: %w", path, err)
	}
	log.Debug().Str("file", path).Msg("Loaded layout override")
	return layout, nil
}

// FileEntry is one target file of a project.
type FileEntry struct {
	Name string // layout key
	Rel  string // path relative to the root
	Path string // absolute path
}

// Entries lists every target file in load order.
func (l Layout) Entries() []FileEntry {
	return []FileEntry{
		{Name: "ability_enums", Rel: l.AbilityEnums},
		{Name: "ability_text", Rel: l.AbilityText},
		{Name: "move_enums", Rel: l.MoveEnums},
		{Name: "flags", Rel: l.Flags},
		{Name: "effects", Rel: l.Effects},
		{Name: "battle_moves", Rel: l.BattleMoves},
		{Name: "move_names", Rel: l.MoveNames},
		{Name: "descriptions", Rel: l.Descriptions},
		{Name: "animations", Rel: l.Animations},
	}
}

// Resolve checks that root is a directory holding every target file and
// returns the entries with absolute paths.
func (l Layout) Resolve(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &model.NotFoundError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	entries := l.Entries()
	for i := range entries {
		if entries[i].Rel == "" {
			return nil, fmt.Errorf("layout key %s has no path", entries[i].Name)
		}
		entries[i].Path = filepath.Join(root, filepath.FromSlash(entries[i].Rel))
		info, err := os.Stat(entries[i].Path)
		if err != nil {
			return nil, &model.NotFoundError{Path: entries[i].Path, Err: err}
		}
		if info.IsDir() {
			return nil, &model.NotFoundError{Path: entries[i].Path, Err: errors.New("is a directory")}
		}
	}

	log.Debug().Int("count", len(entries)).Str("root", root).Msg("Resolved project files")
	return entries, nil
}
