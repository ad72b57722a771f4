package mods

import (
	"path"
	"strings"

	"pack-mod-manager/fsutil"
	"pack-mod-manager/games"
	"pack-mod-manager/pack"
)

// Mod is one record in the registry. The id is the pack file name and acts
// as the primary key; a mod keeps its record even after being uninstalled,
// its paths are just cleared.
type Mod struct {
	// Visual name. Marketplace title when the mod has a store id.
	Name string `json:"name"`

	// Pack file name.
	ID string `json:"id"`

	// Marketplace identity, if any.
	Store StoreID `json:"store_id"`

	Enabled bool `json:"enabled"`

	// Declared kind of the first path's pack.
	PackKind pack.Kind `json:"pack_type"`

	// Install locations, highest precedence first: data, then secondary,
	// then content. Empty means not currently installed.
	Paths []string `json:"paths"`

	// Marketplace creator id and display name.
	Creator     string `json:"creator"`
	CreatorName string `json:"creator_name"`

	// Original file name for legacy bin mods. For folder-shipped legacy
	// mods this holds the folder path the files were meant to live in.
	FileName string `json:"file_name"`

	FileSize    uint64 `json:"file_size"`
	Description string `json:"description"`

	// Unix seconds. Marketplace timestamps when enriched, filesystem
	// timestamps for local mods.
	TimeCreated int64 `json:"time_created"`
	TimeUpdated int64 `json:"time_updated"`
}

// AltName derives the pack name a legacy bin mod will get once converted:
// the last segment of its original file name, spaces replaced with
// underscores, with the pack extension. Returns "" for mods without a
// legacy file name or whose file name already is a pack.
func (m *Mod) AltName() string {
	if m.FileName == "" || strings.HasSuffix(m.FileName, ".pack") {
		return ""
	}
	last := path.Base(strings.ReplaceAll(m.FileName, "\\", "/"))
	return strings.ReplaceAll(last, " ", "_") + ".pack"
}

// Installed reports whether the mod currently exists on disk.
func (m *Mod) Installed() bool { return len(m.Paths) > 0 }

// EnabledFor resolves the effective enabled state for one title.
//
// Mod packs follow the flag. Movie packs follow the flag on engines that can
// exclude a movie by name; on older engines a movie sitting in /data is
// always enabled and only movies outside /data respect the flag. Anything
// else is never enabled.
func (m *Mod) EnabledFor(game *games.Game, dataPath string) bool {
	switch m.PackKind {
	case pack.KindMod:
		return m.Enabled
	case pack.KindMovie:
		if game.SupportsExcludePackCommand {
			return m.Enabled
		}
		if len(m.Paths) == 0 {
			return false
		}
		if strings.HasPrefix(fsutil.Canonical(m.Paths[0]), fsutil.Canonical(dataPath)) {
			return true
		}
		return m.Enabled
	default:
		return false
	}
}

// CanBeToggled mirrors EnabledFor: movies that are force-enabled by their
// location cannot be toggled.
func (m *Mod) CanBeToggled(game *games.Game, dataPath string) bool {
	switch m.PackKind {
	case pack.KindMod:
		return true
	case pack.KindMovie:
		if game.SupportsExcludePackCommand {
			return true
		}
		if len(m.Paths) == 0 {
			return false
		}
		return !strings.HasPrefix(fsutil.Canonical(m.Paths[0]), fsutil.Canonical(dataPath))
	default:
		return false
	}
}

// Outdated reports whether the game updated after the mod's last update.
func (m *Mod) Outdated(gameLastUpdate int64) bool {
	return gameLastUpdate > m.TimeUpdated
}

// AddPathFront inserts a path at the highest-precedence position, skipping
// duplicates.
func (m *Mod) AddPathFront(p string) {
	for _, existing := range m.Paths {
		if existing == p {
			return
		}
	}
	m.Paths = append([]string{p}, m.Paths...)
}

// AddPathBack appends a path at the lowest-precedence position, skipping
// duplicates.
func (m *Mod) AddPathBack(p string) {
	for _, existing := range m.Paths {
		if existing == p {
			return
		}
	}
	m.Paths = append(m.Paths, p)
}
