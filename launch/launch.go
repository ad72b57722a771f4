package launch

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"pack-mod-manager/fsutil"
	"pack-mod-manager/games"
	"pack-mod-manager/loadorder"
	"pack-mod-manager/mods"
	"pack-mod-manager/pack"
)

// Builder turns a resolved load order into the text directives the game
// process reads at startup.
type Builder struct {
	game          *games.Game
	dataPath      string
	secondaryPath string
}

func NewBuilder(game *games.Game, installPath, secondaryPath string) *Builder {
	return &Builder{
		game:          game,
		dataPath:      fsutil.Canonical(game.DataPath(installPath)),
		secondaryPath: secondaryPath,
	}
}

// Directives builds the full directive list:
//
//	add_working_directory "<dir>";   secondary and masks first, then one
//	                                 per distinct content folder
//	mod "<file>";                    one per Mod-kind entry, in order
//	exclude_pack_file "<name>";      disabled movies, exclusion-capable
//	                                 titles only
//
// Movie-kind entries never get a mod directive; being visible from a
// mounted directory is enough for the engine to load them.
func (b *Builder) Directives(registry *mods.Registry, order *loadorder.LoadOrder) []string {
	var workingDirs []string
	var modLines []string
	secondaryUsed := false

	all := append(append([]string{}, order.Mods...), order.Movies...)
	for _, id := range all {
		modd, ok := registry.Mods[id]
		if !ok || !modd.Installed() {
			continue
		}
		path := modd.Paths[0]
		folder := filepath.Dir(path)

		if folder != b.dataPath && b.game.SupportsWorkingDirectories() {
			if b.secondaryPath != "" && folder == b.secondaryPath {
				if !secondaryUsed {
					secondaryUsed = true
					// The secondary directive goes ahead of everything
					// accumulated so far; masks goes ahead of even that,
					// so masked movies bottom out the precedence chain.
					workingDirs = append([]string{workingDirDirective(b.secondaryPath)}, workingDirs...)
					if !b.game.SupportsExcludePackCommand {
						masks := filepath.Join(b.secondaryPath, games.MasksFolderName)
						workingDirs = append([]string{workingDirDirective(masks)}, workingDirs...)
					}
				}
			} else if !containsString(workingDirs, workingDirDirective(folder)) {
				workingDirs = append(workingDirs, workingDirDirective(folder))
			}
		}

		if modd.PackKind == pack.KindMod {
			modLines = append(modLines, fmt.Sprintf("mod %q;", filepath.Base(path)))
		}
	}

	directives := append(workingDirs, modLines...)
	directives = append(directives, b.exclusions(registry, secondaryUsed)...)
	return directives
}

// exclusions covers every Movie-kind record in the registry, not just the
// resolved order: a disabled movie visible from a mounted directory must
// be named explicitly, or the engine loads it anyway. Titles without the
// exclude command rely on the masks folder instead.
func (b *Builder) exclusions(registry *mods.Registry, secondaryUsed bool) []string {
	if !b.game.SupportsExcludePackCommand {
		return nil
	}

	var lines []string
	for _, modd := range registry.Mods {
		if modd.PackKind != pack.KindMovie || !modd.Installed() {
			continue
		}
		if modd.EnabledFor(b.game, b.dataPath) {
			continue
		}
		folder := filepath.Dir(modd.Paths[0])
		mounted := folder == b.dataPath || (secondaryUsed && folder == b.secondaryPath)
		if mounted {
			lines = append(lines, fmt.Sprintf("exclude_pack_file %q;", filepath.Base(modd.Paths[0])))
		}
	}
	return lines
}

func workingDirDirective(dir string) string {
	return fmt.Sprintf("add_working_directory %q;", filepath.ToSlash(dir))
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// WriteScript writes the directives to path, one per line. Legacy titles
// read the file as UTF-16LE with a BOM, modern ones as UTF-8. The write
// goes through a temp file in the same directory and a rename, so the game
// never sees a half-written script.
func (b *Builder) WriteScript(path string, directives []string) error {
	content := strings.Join(directives, "\n")
	if content != "" {
		content += "\n"
	}

	data := []byte(content)
	if b.game.UsesUTF16Script {
		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes(data)
		if err != nil {
			return fmt.Errorf("encoding launch script: %w", err)
		}
		data = encoded
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Options are the optional tweaks forwarded to the external patcher
// process. The zero value means "no tweaks".
type Options struct {
	EnableLogging       bool
	SkipIntros          bool
	RemoveTraitLimit    bool
	RemoveSiegeAttacker bool
	EnableDevUI         bool
	Translation         string
	UniversalRebalancer string
	UnitMultiplier      float64
}

// BuildArgs constructs the patcher's argument vector. Pure: the same
// inputs always yield the same slice, nothing is read from the
// environment.
func BuildArgs(game *games.Game, loadOrderPath, outputPath string, opts Options) []string {
	args := []string{
		"-g", game.Key,
		"-l", loadOrderPath,
		"-p", outputPath,
		"-s",
	}
	if opts.EnableLogging {
		args = append(args, "-e")
	}
	if opts.SkipIntros {
		args = append(args, "-i")
	}
	if opts.RemoveTraitLimit {
		args = append(args, "-r")
	}
	if opts.RemoveSiegeAttacker {
		args = append(args, "-a")
	}
	if opts.EnableDevUI {
		args = append(args, "-d")
	}
	if opts.Translation != "" {
		args = append(args, "-t", opts.Translation)
	}
	if opts.UniversalRebalancer != "" {
		args = append(args, "-u", opts.UniversalRebalancer)
	}
	if opts.UnitMultiplier != 0 && opts.UnitMultiplier != 1 {
		args = append(args, "-m", strconv.FormatFloat(opts.UnitMultiplier, 'f', -1, 64))
	}
	return args
}
