package scanner

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"pack-mod-manager/fsutil"
	"pack-mod-manager/logger"
	"pack-mod-manager/mods"
)

// CopyToSecondary copies the packs behind the given ids from wherever they
// currently live into the shared secondary folder, so they survive store
// unsubscribes and game reinstalls. Records are updated in place; the
// caller persists. Returns the ids that could not be copied.
func (s *Scanner) CopyToSecondary(registry *mods.Registry, ids []string) []string {
	var failed []string

	if s.secondaryPath == "" {
		return append(failed, ids...)
	}

	for _, id := range ids {
		modd, ok := registry.Mods[id]
		if !ok || !modd.Installed() {
			failed = append(failed, id)
			continue
		}

		// The store-owned copy is the lowest-priority path.
		source := modd.Paths[len(modd.Paths)-1]
		target := filepath.Join(s.secondaryPath, filepath.Base(source))
		if containsPath(modd.Paths, fsutil.Canonical(target)) {
			continue
		}

		if err := copyFile(source, target); err != nil {
			logger.Log.Warnw("Copy to secondary failed",
				zap.String("id", id), zap.Error(err))
			failed = append(failed, id)
			continue
		}
		// The next scan slots the new path into exact tier order.
		modd.AddPathFront(fsutil.Canonical(target))
	}

	return failed
}

func containsPath(paths []string, p string) bool {
	for _, existing := range paths {
		if existing == p {
			return true
		}
	}
	return false
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(target)
		return err
	}
	return out.Close()
}
