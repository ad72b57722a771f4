package scanner

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"pack-mod-manager/fsutil"
	"pack-mod-manager/logger"
	"pack-mod-manager/mods"
	"pack-mod-manager/pack"
)

// ConvertPending materializes the legacy bin mods found by the last scan
// into real packs, once enrichment has supplied their file names. An
// unenriched candidate is simply left for a future cycle; a conversion
// failure is logged and skipped, never fatal. A target pack that already
// exists on disk is adopted as-is, never overwritten.
func (s *Scanner) ConvertPending(registry *mods.Registry) {
	remaining := s.pending[:0]
	for _, id := range s.pending {
		modd, ok := registry.Mods[id]
		if !ok || !modd.Installed() {
			continue
		}
		if modd.FileName == "" {
			logger.Log.Debugw("Legacy mod not yet enriched, conversion deferred", zap.String("id", id))
			remaining = append(remaining, id)
			continue
		}
		if err := s.convertOne(modd); err != nil {
			logger.Log.Warnw("Legacy conversion failed", zap.String("id", id), zap.Error(err))
			remaining = append(remaining, id)
			continue
		}
	}
	s.pending = remaining

	registry.PruneAltNameDuplicates()
}

func (s *Scanner) convertOne(modd *mods.Mod) error {
	source := modd.Paths[len(modd.Paths)-1]
	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading legacy payload: %w", err)
	}

	var p *pack.Pack
	var packName string

	remoteName := filepath.Base(strings.ReplaceAll(modd.FileName, "\\", "/"))
	if strings.HasSuffix(remoteName, ".pack") {
		// A pack container that was uploaded compressed. Decompressing
		// yields the pack itself.
		raw, err := pack.DecompressLegacyPayload(data)
		if err != nil {
			return err
		}
		p, err = pack.Read(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("decoding compressed pack: %w", err)
		}
		packName = remoteName
	} else {
		// A bare map archive. Its files go under the maps tree of a fresh
		// pack named after the derived alternate name.
		files, err := pack.DecodeLegacyPayload(data)
		if err != nil {
			return err
		}
		mapName := strings.TrimSuffix(remoteName, filepath.Ext(remoteName))
		p = pack.FromLegacyFiles(files, "maps/"+mapName)
		packName = modd.AltName()
		if packName == "" {
			return fmt.Errorf("no alternate name derivable for %s", modd.ID)
		}
	}

	target := s.conversionTarget(packName)
	if _, err := os.Stat(target); err == nil {
		// Already materialized by an earlier cycle or hand-placed.
		modd.AddPathFront(fsutil.Canonical(target))
		return nil
	}

	if err := p.Save(target); err != nil {
		return fmt.Errorf("writing converted pack: %w", err)
	}
	modd.AddPathFront(fsutil.Canonical(target))

	logger.Log.Infow("Converted legacy mod",
		zap.String("id", modd.ID),
		zap.String("target", target))
	return nil
}

// conversionTarget prefers the shared secondary folder so the converted
// pack survives game reinstalls; data is the fallback.
func (s *Scanner) conversionTarget(packName string) string {
	if s.secondaryPath != "" {
		return filepath.Join(s.secondaryPath, packName)
	}
	return filepath.Join(s.game.DataPath(s.installPath), packName)
}
