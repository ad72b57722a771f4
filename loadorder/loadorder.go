package loadorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"pack-mod-manager/games"
	"pack-mod-manager/mods"
	"pack-mod-manager/pack"
)

// PatcherFolderName is the internal pack folder whose contents get
// extracted to the scratch resources directory after every rebuild.
const PatcherFolderName = "patcher"

// Direction of a manual reorder step.
type Direction int

const (
	Up Direction = iota
	Down
)

// LoadOrder is the effective sequence of enabled packs for one game.
//
// Mod packs are reorderable; movie packs are not, so they live in a
// separate list that is rebuilt from scratch on every update. The parsed
// pack cache is ephemeral and never persisted.
type LoadOrder struct {
	// Automatic orders alphabetically on every update. Any explicit
	// reorder flips this off permanently.
	Automatic bool `json:"automatic"`

	Mods   []string `json:"mods"`
	Movies []string `json:"movies"`

	packs map[string]*pack.Pack
}

// New returns an empty, automatic load order.
func New() *LoadOrder {
	return &LoadOrder{Automatic: true, packs: make(map[string]*pack.Pack)}
}

func filePath(dir, gameKey string) string {
	return filepath.Join(dir, fmt.Sprintf("load_order_%s.json", gameKey))
}

// Load reads the persisted order for a game. Like the registry, loading is
// permissive: missing or unparsable files yield a fresh default.
func Load(dir, gameKey string) *LoadOrder {
	data, err := os.ReadFile(filePath(dir, gameKey))
	if err != nil {
		return New()
	}
	var lo LoadOrder
	if err := json.Unmarshal(data, &lo); err != nil {
		return New()
	}
	lo.packs = make(map[string]*pack.Pack)
	return &lo
}

// Save persists the order as pretty-printed JSON.
func (lo *LoadOrder) Save(dir, gameKey string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(lo, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath(dir, gameKey), data, 0644)
}

// Pack returns the parsed pack for an id from the cache built by Update.
func (lo *LoadOrder) Pack(id string) (*pack.Pack, bool) {
	p, ok := lo.packs[id]
	return p, ok
}

// Update rebuilds the order from the registry. Movies are always recomputed
// from scratch; mods follow the automatic or manual rule. Afterwards the
// parsed pack cache is rebuilt and, when extractedDir is set, the scratch
// resources folder is regenerated by extracting each pack's patcher folder
// in load-order sequence so higher-priority packs overwrite lower ones.
func (lo *LoadOrder) Update(registry *mods.Registry, game *games.Game, dataPath, extractedDir string) {
	lo.Movies = lo.Movies[:0]
	lo.buildMovies(registry, game, dataPath)

	if lo.Automatic {
		lo.buildAutomatic(registry, game, dataPath)
	} else {
		lo.buildManual(registry, game, dataPath)
	}

	lo.reloadPacks(registry)

	if extractedDir != "" {
		lo.regenerateExtracted(extractedDir)
	}
}

func enabledIDs(registry *mods.Registry, game *games.Game, dataPath string, kind pack.Kind) []string {
	var ids []string
	for id, modd := range registry.Mods {
		if modd.PackKind == kind && modd.Installed() && modd.EnabledFor(game, dataPath) {
			ids = append(ids, id)
		}
	}
	return ids
}

// sortByPackName orders ids by the file name of each mod's first path,
// falling back to the id itself when the record or path is unavailable.
// The fallback keeps the order total and deterministic.
func sortByPackName(ids []string, registry *mods.Registry) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		modA, okA := registry.Mods[a]
		modB, okB := registry.Mods[b]
		if okA && okB && len(modA.Paths) > 0 && len(modB.Paths) > 0 {
			return filepath.Base(modA.Paths[0]) < filepath.Base(modB.Paths[0])
		}
		return a < b
	})
}

func (lo *LoadOrder) buildAutomatic(registry *mods.Registry, game *games.Game, dataPath string) {
	lo.Mods = enabledIDs(registry, game, dataPath, pack.KindMod)
	sortByPackName(lo.Mods, registry)
}

// buildManual keeps the user's sequence: ids no longer enabled drop out,
// newly enabled ids land at the bottom.
func (lo *LoadOrder) buildManual(registry *mods.Registry, game *games.Game, dataPath string) {
	enabled := enabledIDs(registry, game, dataPath, pack.KindMod)
	sort.Strings(enabled)

	enabledSet := make(map[string]bool, len(enabled))
	for _, id := range enabled {
		enabledSet[id] = true
	}

	kept := lo.Mods[:0]
	for _, id := range lo.Mods {
		if enabledSet[id] {
			kept = append(kept, id)
		}
	}
	lo.Mods = kept

	present := make(map[string]bool, len(lo.Mods))
	for _, id := range lo.Mods {
		present[id] = true
	}
	for _, id := range enabled {
		if !present[id] {
			lo.Mods = append(lo.Mods, id)
		}
	}
}

func (lo *LoadOrder) buildMovies(registry *mods.Registry, game *games.Game, dataPath string) {
	lo.Movies = enabledIDs(registry, game, dataPath, pack.KindMovie)
	sortByPackName(lo.Movies, registry)
}

// reloadPacks opens every pack in the final order. Packs that fail to open
// are silently left out of the cache; order does not matter here, so the
// opens run in parallel keyed by id.
func (lo *LoadOrder) reloadPacks(registry *mods.Registry) {
	lo.packs = make(map[string]*pack.Pack)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range append(append([]string{}, lo.Mods...), lo.Movies...) {
		modd, ok := registry.Mods[id]
		if !ok || len(modd.Paths) == 0 {
			continue
		}
		wg.Add(1)
		go func(id, path string) {
			defer wg.Done()
			p, err := pack.ReadAndMerge([]string{path})
			if err != nil {
				return
			}
			mu.Lock()
			lo.packs[id] = p
			mu.Unlock()
		}(id, modd.Paths[0])
	}
	wg.Wait()
}

func (lo *LoadOrder) regenerateExtracted(dir string) {
	_ = os.RemoveAll(dir)
	_ = os.MkdirAll(dir, 0755)

	for _, id := range append(append([]string{}, lo.Mods...), lo.Movies...) {
		if p, ok := lo.packs[id]; ok {
			_ = p.Extract(PatcherFolderName, dir)
		}
	}
}

// MoveInDirection moves a mod one position up or down. Moving past either
// boundary is a no-op. Any call switches the order to manual, permanently.
func (lo *LoadOrder) MoveInDirection(id string, direction Direction) {
	lo.Automatic = false
	for i, current := range lo.Mods {
		if current != id {
			continue
		}
		switch direction {
		case Up:
			if i > 0 {
				lo.Mods[i], lo.Mods[i-1] = lo.Mods[i-1], lo.Mods[i]
			}
		case Down:
			if i < len(lo.Mods)-1 {
				lo.Mods[i], lo.Mods[i+1] = lo.Mods[i+1], lo.Mods[i]
			}
		}
		return
	}
}

// MoveAbove moves source directly above target. Moving a mod above itself
// is a no-op and does not switch modes.
func (lo *LoadOrder) MoveAbove(sourceID, targetID string) {
	if sourceID == targetID {
		return
	}

	lo.Automatic = false
	src := -1
	for i, id := range lo.Mods {
		if id == sourceID {
			src = i
			break
		}
	}
	if src < 0 {
		return
	}
	dst := -1
	for i, id := range lo.Mods {
		if id == targetID {
			dst = i
			break
		}
	}
	if dst < 0 {
		return
	}
	// Compensate for the index shift after removing the source.
	if dst > src {
		dst--
	}

	lo.Mods = append(lo.Mods[:src], lo.Mods[src+1:]...)
	lo.Mods = append(lo.Mods[:dst], append([]string{sourceID}, lo.Mods[dst:]...)...)
}
