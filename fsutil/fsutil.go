// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Canonical returns the absolute, symlink-resolved form of a path. All path
// comparisons in the manager go through this so relative and absolute
// spellings of the same file never create duplicate records. Resolution is
// best-effort: a path that does not exist yet is still made absolute.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// FindFilesByExtension recursively searches the given root path for all files
// ending with one of the specified extensions. Results are sorted so callers
// get a stable order.
func FindFilesByExtension(rootPath string, extensions ...string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(d.Name(), ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
