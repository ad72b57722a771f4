package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"pack-mod-manager/fsutil"
	"pack-mod-manager/games"
	"pack-mod-manager/loadorder"
	"pack-mod-manager/logger"
	"pack-mod-manager/mods"
	"pack-mod-manager/pack"
	"pack-mod-manager/store"
)

// vanillaManifestName lists the base game's own packs, one file name per
// line, inside the data folder. Anything on the list is never a mod.
const vanillaManifestName = "manifest.txt"

// Scanner repopulates the path lists of a registry from the four
// prioritized filesystem tiers: vanilla baseline, content, secondary, data.
type Scanner struct {
	game          *games.Game
	installPath   string
	secondaryPath string
	configDir     string
	extractedDir  string
	dispatcher    *store.Dispatcher

	// Legacy bin mods waiting for enrichment-driven conversion into real
	// packs, by mod id.
	pending []string
}

// New builds a scanner for one game installation. secondaryPath may be ""
// when the title has no secondary folder support; dispatcher may be nil to
// disable enrichment entirely.
func New(game *games.Game, installPath, secondaryPath, configDir, extractedDir string, dispatcher *store.Dispatcher) *Scanner {
	return &Scanner{
		game:          game,
		installPath:   installPath,
		secondaryPath: secondaryPath,
		configDir:     configDir,
		extractedDir:  extractedDir,
		dispatcher:    dispatcher,
	}
}

// PendingConversions returns the ids of legacy candidates found by the last
// scan, in discovery order.
func (s *Scanner) PendingConversions() []string {
	return append([]string{}, s.pending...)
}

// openResult is the outcome of opening one candidate file. Results are
// keyed by path so the parallel opens inside a tier need no ordering.
type openResult struct {
	path   string
	pack   *pack.Pack
	legacy bool
}

// Scan walks the four tiers strictly in order, rebuilds categories and the
// load order, persists both, and dispatches the enrichment request. A
// missing or invalid installation root degrades to an empty result. A stat
// failure on a located file aborts the scan with an error, leaving prior
// persisted state untouched.
//
// Returns the enrichment handle, or nil when enrichment was skipped.
func (s *Scanner) Scan(registry *mods.Registry, order *loadorder.LoadOrder, skipEnrichment bool) (<-chan store.Result, error) {
	// Idempotent reset: stale paths from a previous failed scan must not
	// survive into this one.
	registry.ClearPaths()
	s.pending = nil

	var handle <-chan store.Result

	if info, err := os.Stat(s.installPath); err == nil && info.IsDir() {
		dataPath := s.game.DataPath(s.installPath)
		vanilla := readVanillaManifest(dataPath)

		storeIDs, err := s.scanContent(registry, vanilla)
		if err != nil {
			return nil, err
		}

		// The enrichment request goes out as soon as the content tier is
		// done; it is fire-and-forget and never blocks the later tiers.
		if s.dispatcher != nil && !skipEnrichment && len(storeIDs) > 0 {
			handle = s.dispatcher.Request(storeIDs)
		}

		if err := s.scanSecondary(registry, vanilla); err != nil {
			return nil, err
		}
		if err := s.scanData(registry, vanilla, dataPath); err != nil {
			return nil, err
		}
	} else {
		logger.Log.Infow("Game path missing or not a directory, scanning nothing",
			zap.String("path", s.installPath))
	}

	registry.Reconcile()

	order.Update(registry, s.game, s.game.DataPath(s.installPath), s.extractedDir)
	if err := order.Save(s.configDir, registry.GameKey); err != nil {
		return handle, err
	}
	if err := registry.Save(s.configDir); err != nil {
		return handle, err
	}

	return handle, nil
}

// scanContent processes the lowest-priority tier: per-subscription folders
// under the content root. Returns the store ids discovered for enrichment.
func (s *Scanner) scanContent(registry *mods.Registry, vanilla map[string]bool) ([]string, error) {
	contentPath := s.game.ContentPath(s.installPath)
	if contentPath == "" {
		return nil, nil
	}
	if info, err := os.Stat(contentPath); err != nil || !info.IsDir() {
		return nil, nil
	}
	contentPath = fsutil.Canonical(contentPath)

	paths, err := fsutil.FindFilesByExtension(contentPath, ".pack", ".bin")
	if err != nil {
		return nil, fmt.Errorf("walking content folder: %w", err)
	}
	paths = filterCandidates(paths, vanilla)

	var storeIDs []string
	for _, result := range openAll(paths, true) {
		packName := filepath.Base(result.path)

		switch {
		case result.pack != nil:
			if result.pack.Kind() != pack.KindMod && result.pack.Kind() != pack.KindMovie {
				continue
			}
			modd := s.upsertContent(registry, packName, result.path, result.pack.Kind())
			if err := applyFileTimes(modd, result.path); err != nil {
				return nil, err
			}
			if id, ok := storeIDFromPath(contentPath, result.path); ok {
				modd.Store = id
				storeIDs = append(storeIDs, id.ID)
			}

		case result.legacy:
			// Decompressable bin: a pending map/bin mod. It stays a plain
			// record until enrichment names it and conversion turns it
			// into a real pack.
			modd := s.upsertContent(registry, packName, result.path, pack.KindMod)
			if err := applyFileTimes(modd, result.path); err != nil {
				return nil, err
			}
			if id, ok := storeIDFromPath(contentPath, result.path); ok {
				modd.Store = id
				storeIDs = append(storeIDs, id.ID)
			}
			s.pending = append(s.pending, packName)

		default:
			// Neither a pack nor a legacy payload. Skipped for this cycle.
			logger.Log.Debugw("Skipping unreadable content file", zap.String("path", result.path))
		}
	}

	return storeIDs, nil
}

func (s *Scanner) upsertContent(registry *mods.Registry, packName, path string, kind pack.Kind) *mods.Mod {
	modd, ok := registry.Mods[packName]
	if !ok {
		modd = &mods.Mod{Name: packName, ID: packName}
		registry.Mods[packName] = modd
	}
	modd.AddPathBack(path)
	modd.PackKind = kind
	return modd
}

// scanSecondary processes the shared mid-priority folder. Matching files
// prepend their path to the existing record; unmatched files fall back to
// the derived legacy alternate name before becoming new records.
func (s *Scanner) scanSecondary(registry *mods.Registry, vanilla map[string]bool) error {
	if s.secondaryPath == "" {
		return nil
	}
	if info, err := os.Stat(s.secondaryPath); err != nil || !info.IsDir() {
		return nil
	}

	paths, err := listPacksInDir(s.secondaryPath)
	if err != nil {
		return fmt.Errorf("listing secondary folder: %w", err)
	}
	paths = filterCandidates(paths, vanilla)

	for _, result := range openAll(paths, false) {
		if result.pack == nil {
			continue
		}
		if result.pack.Kind() != pack.KindMod && result.pack.Kind() != pack.KindMovie {
			continue
		}
		modd := matchOrCreate(registry, filepath.Base(result.path))
		modd.AddPathFront(result.path)
		modd.PackKind = result.pack.Kind()
		if err := applyFileTimes(modd, modd.Paths[0]); err != nil {
			return err
		}
	}
	return nil
}

// scanData processes the highest-priority tier: the game's own data
// folder. A pack here may be the materialized form of a legacy bin, so the
// bin file-name match runs before the plain id match.
func (s *Scanner) scanData(registry *mods.Registry, vanilla map[string]bool, dataPath string) error {
	if info, err := os.Stat(dataPath); err != nil || !info.IsDir() {
		return nil
	}

	paths, err := listPacksInDir(dataPath)
	if err != nil {
		return fmt.Errorf("listing data folder: %w", err)
	}
	paths = filterCandidates(paths, vanilla)

	for _, result := range openAll(paths, false) {
		if result.pack == nil {
			continue
		}
		if result.pack.Kind() != pack.KindMod && result.pack.Kind() != pack.KindMovie {
			continue
		}

		packName := filepath.Base(result.path)

		if modd := matchByLegacyFileName(registry, packName); modd != nil {
			modd.AddPathFront(result.path)
			if err := applyFileTimes(modd, modd.Paths[0]); err != nil {
				return err
			}
			continue
		}

		modd := matchOrCreate(registry, packName)
		modd.AddPathFront(result.path)
		modd.PackKind = result.pack.Kind()
		if err := applyFileTimes(modd, modd.Paths[0]); err != nil {
			return err
		}
	}
	return nil
}

// matchOrCreate resolves a pack name to its record: direct id match first,
// then the derived legacy alternate name, then a brand-new record.
func matchOrCreate(registry *mods.Registry, packName string) *mods.Mod {
	if modd, ok := registry.Mods[packName]; ok {
		return modd
	}
	for _, modd := range registry.Mods {
		if alt := modd.AltName(); alt != "" && alt == packName {
			return modd
		}
	}
	modd := &mods.Mod{Name: packName, ID: packName}
	registry.Mods[packName] = modd
	return modd
}

// matchByLegacyFileName finds the record whose enriched file name resolves
// to the given pack name. Only legacy bin mods carry one.
func matchByLegacyFileName(registry *mods.Registry, packName string) *mods.Mod {
	for _, modd := range registry.Mods {
		if modd.FileName == "" {
			continue
		}
		last := filepath.Base(strings.ReplaceAll(modd.FileName, "\\", "/"))
		if last == packName {
			return modd
		}
	}
	return nil
}

// openAll opens every candidate in parallel. Order inside a tier does not
// matter, so results are collected unordered and sorted by path afterwards
// to keep the merge deterministic.
func openAll(paths []string, legacyFallback bool) []openResult {
	results := make([]openResult, 0, len(paths))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			result := openResult{path: path}
			if p, err := pack.ReadAndMerge([]string{path}); err == nil {
				result.pack = p
			} else if legacyFallback && strings.HasSuffix(path, ".bin") {
				if data, err := os.ReadFile(path); err == nil && pack.IsLegacyPayload(data) {
					result.legacy = true
				}
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(path)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })
	return results
}

// filterCandidates canonicalizes paths and drops vanilla packs and the
// reserved staging packs, in every tier.
func filterCandidates(paths []string, vanilla map[string]bool) []string {
	filtered := paths[:0]
	for _, path := range paths {
		canon := fsutil.Canonical(path)
		if vanilla[canon] {
			continue
		}
		if games.IsReservedPackName(filepath.Base(canon)) {
			continue
		}
		filtered = append(filtered, canon)
	}
	return filtered
}

// applyFileTimes stats the given path and copies its timestamps onto the
// record. A failure here means a file we just located vanished or the
// filesystem is lying; that is corruption, not absence, so it is fatal to
// the scan.
func applyFileTimes(modd *mods.Mod, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat on located file %s: %w", path, err)
	}
	modd.TimeUpdated = info.ModTime().Unix()
	if modd.TimeCreated == 0 {
		modd.TimeCreated = info.ModTime().Unix()
	}
	modd.FileSize = uint64(info.Size())
	return nil
}

// storeIDFromPath derives a store id from the first path component below
// the content root, when that component is a literal store-id folder.
func storeIDFromPath(contentPath, path string) (mods.StoreID, bool) {
	rel, err := filepath.Rel(contentPath, path)
	if err != nil {
		return mods.NoStore(), false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return mods.NoStore(), false
	}
	return mods.ParseStoreDir(parts[0])
}

// listPacksInDir returns the pack files directly inside a folder,
// non-recursively, sorted.
func listPacksInDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".pack") || strings.HasSuffix(entry.Name(), ".bin") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// readVanillaManifest loads the base game's pack list as canonical paths.
// A missing manifest just means nothing is excluded.
func readVanillaManifest(dataPath string) map[string]bool {
	vanilla := make(map[string]bool)

	f, err := os.Open(filepath.Join(dataPath, vanillaManifestName))
	if err != nil {
		return vanilla
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		vanilla[fsutil.Canonical(filepath.Join(dataPath, name))] = true
	}
	return vanilla
}
