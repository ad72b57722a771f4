package games

import (
	"fmt"
	"path/filepath"
)

// Reserved pack names used by the launcher itself to inject generated
// options. They must never be treated as user mods, in any tier.
const (
	ReservedPackName            = "zzzzzzzzzzzzzzzzzzzzrun_you_fool_thron.pack"
	ReservedPackNameAlternative = "!!!!!!!!!!!!!!!!!!!!!run_you_fool_thron.pack"
)

// Game describes one supported title. All per-title quirks live here as
// capability flags; the scanner, resolver and artifact builder consume them
// generically instead of branching on game keys.
type Game struct {
	Key         string
	DisplayName string

	// Engine generation. 0 = oldest script-driven titles, 1 = first
	// generation with custom mod lists, 2+ = modern titles.
	Generation int

	// SupportsSecondaryFolder reports whether the title can load packs from
	// a shared secondary mods folder outside the installation.
	SupportsSecondaryFolder bool

	// SupportsExcludePackCommand reports whether the engine understands
	// exclude_pack_file directives. Titles without it rely on masking
	// movie packs with empty packs from a "masks" folder at launch time.
	SupportsExcludePackCommand bool

	// UsesUTF16Script marks titles whose launch script must be UTF-16LE.
	UsesUTF16Script bool

	// LegacyAltNameRule marks titles whose pre-container mods carry a
	// folder-style file name that must be sanitized into a pack name.
	LegacyAltNameRule bool

	// UsesAlternativeReservedPack marks titles whose movie load order
	// requires the alternative reserved pack name.
	UsesAlternativeReservedPack bool

	// Relative directories inside the installation root.
	DataDir    string
	ContentDir string
}

// MasksFolderName is the auxiliary sub-folder of the secondary mods folder
// used to mask disabled movie packs on titles without exclusion support.
const MasksFolderName = "masks"

var supported = []Game{
	{Key: "empire", DisplayName: "Empire", Generation: 0, UsesUTF16Script: true, LegacyAltNameRule: true, DataDir: "data", ContentDir: ""},
	{Key: "napoleon", DisplayName: "Napoleon", Generation: 0, UsesUTF16Script: true, LegacyAltNameRule: true, DataDir: "data", ContentDir: ""},
	{Key: "shogun_2", DisplayName: "Shogun 2", Generation: 1, SupportsSecondaryFolder: true, UsesUTF16Script: true, LegacyAltNameRule: true, UsesAlternativeReservedPack: true, DataDir: "data", ContentDir: filepath.Join("content", "shogun_2")},
	{Key: "rome_2", DisplayName: "Rome 2", Generation: 2, SupportsSecondaryFolder: true, UsesAlternativeReservedPack: true, DataDir: "data", ContentDir: filepath.Join("content", "rome_2")},
	{Key: "attila", DisplayName: "Attila", Generation: 2, SupportsSecondaryFolder: true, UsesAlternativeReservedPack: true, DataDir: "data", ContentDir: filepath.Join("content", "attila")},
	{Key: "thrones", DisplayName: "Thrones of Britannia", Generation: 2, SupportsSecondaryFolder: true, UsesAlternativeReservedPack: true, DataDir: "data", ContentDir: filepath.Join("content", "thrones")},
	{Key: "warhammer", DisplayName: "Warhammer", Generation: 2, SupportsSecondaryFolder: true, SupportsExcludePackCommand: true, DataDir: "data", ContentDir: filepath.Join("content", "warhammer")},
	{Key: "warhammer_2", DisplayName: "Warhammer 2", Generation: 2, SupportsSecondaryFolder: true, SupportsExcludePackCommand: true, DataDir: "data", ContentDir: filepath.Join("content", "warhammer_2")},
	{Key: "warhammer_3", DisplayName: "Warhammer 3", Generation: 2, SupportsSecondaryFolder: true, SupportsExcludePackCommand: true, DataDir: "data", ContentDir: filepath.Join("content", "warhammer_3")},
	{Key: "three_kingdoms", DisplayName: "Three Kingdoms", Generation: 2, SupportsSecondaryFolder: true, SupportsExcludePackCommand: true, DataDir: "data", ContentDir: filepath.Join("content", "three_kingdoms")},
	{Key: "troy", DisplayName: "Troy", Generation: 2, SupportsSecondaryFolder: true, SupportsExcludePackCommand: true, DataDir: "data", ContentDir: filepath.Join("content", "troy")},
	{Key: "pharaoh", DisplayName: "Pharaoh", Generation: 2, SupportsSecondaryFolder: true, SupportsExcludePackCommand: true, DataDir: "data", ContentDir: filepath.Join("content", "pharaoh")},
}

// Get returns the descriptor for a game key.
func Get(key string) (*Game, error) {
	for i := range supported {
		if supported[i].Key == key {
			return &supported[i], nil
		}
	}
	return nil, fmt.Errorf("unsupported game %q", key)
}

// Keys returns every supported game key, in declaration order.
func Keys() []string {
	keys := make([]string, len(supported))
	for i := range supported {
		keys[i] = supported[i].Key
	}
	return keys
}

// DataPath returns the absolute data folder for an installation root.
func (g *Game) DataPath(installPath string) string {
	return filepath.Join(installPath, g.DataDir)
}

// ContentPath returns the absolute content folder for an installation root,
// or "" for titles without marketplace content.
func (g *Game) ContentPath(installPath string) string {
	if g.ContentDir == "" {
		return ""
	}
	return filepath.Join(installPath, g.ContentDir)
}

// ReservedPackName returns the staging pack name this title expects.
func (g *Game) ReservedPackName() string {
	if g.UsesAlternativeReservedPack {
		return ReservedPackNameAlternative
	}
	return ReservedPackName
}

// IsReservedPackName reports whether a file name matches either staging pack.
func IsReservedPackName(name string) bool {
	return name == ReservedPackName || name == ReservedPackNameAlternative
}

// SupportsWorkingDirectories reports whether the engine understands
// add_working_directory directives. The oldest generation loads from /data
// only.
func (g *Game) SupportsWorkingDirectories() bool {
	return g.Generation >= 1
}
