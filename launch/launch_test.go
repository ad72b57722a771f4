package launch

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"pack-mod-manager/fsutil"
	"pack-mod-manager/games"
	"pack-mod-manager/loadorder"
	"pack-mod-manager/mods"
	"pack-mod-manager/pack"
)

func mustGame(t *testing.T, key string) *games.Game {
	t.Helper()
	g, err := games.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// layout builds an install root with a data folder and returns builder inputs.
func layout(t *testing.T) (install, data, secondary, content string) {
	t.Helper()
	root := t.TempDir()
	install = filepath.Join(root, "install")
	data = filepath.Join(install, "data")
	secondary = filepath.Join(root, "secondary")
	content = filepath.Join(install, "content", "warhammer_3", "111")
	for _, dir := range []string{data, secondary, content} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return install, fsutil.Canonical(data), fsutil.Canonical(secondary), fsutil.Canonical(content)
}

func TestDirectivesOrdering(t *testing.T) {
	game := mustGame(t, "warhammer_3")
	install, data, secondary, content := layout(t)

	registry := mods.NewRegistry(game.Key)
	registry.Mods["a.pack"] = &mods.Mod{
		ID: "a.pack", PackKind: pack.KindMod, Enabled: true,
		Paths: []string{filepath.Join(content, "a.pack")},
	}
	registry.Mods["b.pack"] = &mods.Mod{
		ID: "b.pack", PackKind: pack.KindMod, Enabled: true,
		Paths: []string{filepath.Join(secondary, "b.pack")},
	}
	registry.Mods["c.pack"] = &mods.Mod{
		ID: "c.pack", PackKind: pack.KindMod, Enabled: true,
		Paths: []string{filepath.Join(data, "c.pack")},
	}
	registry.Mods["movie.pack"] = &mods.Mod{
		ID: "movie.pack", PackKind: pack.KindMovie, Enabled: true,
		Paths: []string{filepath.Join(secondary, "movie.pack")},
	}

	order := loadorder.New()
	order.Mods = []string{"a.pack", "b.pack", "c.pack"}
	order.Movies = []string{"movie.pack"}

	b := NewBuilder(game, install, secondary)
	got := b.Directives(registry, order)

	want := []string{
		`add_working_directory "` + filepath.ToSlash(secondary) + `";`,
		`add_working_directory "` + filepath.ToSlash(content) + `";`,
		`mod "a.pack";`,
		`mod "b.pack";`,
		`mod "c.pack";`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected directives\n%v\ngot\n%v", want, got)
	}

	t.Run("movies never get a mod directive", func(t *testing.T) {
		for _, line := range got {
			if strings.Contains(line, "movie.pack") {
				t.Errorf("Expected no directive for the movie, got %s", line)
			}
		}
	})

	t.Run("secondary directive is emitted once", func(t *testing.T) {
		registry.Mods["d.pack"] = &mods.Mod{
			ID: "d.pack", PackKind: pack.KindMod, Enabled: true,
			Paths: []string{filepath.Join(secondary, "d.pack")},
		}
		order.Mods = append(order.Mods, "d.pack")
		got := b.Directives(registry, order)

		count := 0
		for _, line := range got {
			if line == want[0] {
				count++
			}
		}
		if count != 1 {
			t.Errorf("Expected one secondary directive, got %d in %v", count, got)
		}
	})
}

func TestDirectivesMasksFolder(t *testing.T) {
	// Shogun 2 cannot exclude movies by name, so the masks folder must be
	// mounted with the lowest precedence of all.
	game := mustGame(t, "shogun_2")
	install, _, secondary, _ := layout(t)

	registry := mods.NewRegistry(game.Key)
	registry.Mods["b.pack"] = &mods.Mod{
		ID: "b.pack", PackKind: pack.KindMod, Enabled: true,
		Paths: []string{filepath.Join(secondary, "b.pack")},
	}
	order := loadorder.New()
	order.Mods = []string{"b.pack"}

	b := NewBuilder(game, install, secondary)
	got := b.Directives(registry, order)

	masks := filepath.ToSlash(filepath.Join(secondary, games.MasksFolderName))
	if len(got) < 2 || got[0] != `add_working_directory "`+masks+`";` {
		t.Errorf("Expected masks directive first, got %v", got)
	}
	if got[1] != `add_working_directory "`+filepath.ToSlash(secondary)+`";` {
		t.Errorf("Expected secondary directive second, got %v", got)
	}
}

func TestExclusionDirectives(t *testing.T) {
	install, data, secondary, _ := layout(t)

	registry := mods.NewRegistry("warhammer_3")
	registry.Mods["disabled_movie.pack"] = &mods.Mod{
		ID: "disabled_movie.pack", PackKind: pack.KindMovie, Enabled: false,
		Paths: []string{filepath.Join(data, "disabled_movie.pack")},
	}
	order := loadorder.New()

	t.Run("exclusion-capable engine excludes by name", func(t *testing.T) {
		b := NewBuilder(mustGame(t, "warhammer_3"), install, secondary)
		got := b.Directives(registry, order)
		want := `exclude_pack_file "disabled_movie.pack";`
		if len(got) != 1 || got[0] != want {
			t.Errorf("Expected %s, got %v", want, got)
		}
	})

	t.Run("older engine emits no exclusion", func(t *testing.T) {
		b := NewBuilder(mustGame(t, "shogun_2"), install, secondary)
		for _, line := range b.Directives(registry, order) {
			if strings.Contains(line, "exclude_pack_file") {
				t.Errorf("Expected no exclusion directive, got %s", line)
			}
		}
	})

	t.Run("unmounted secondary movie is not excluded", func(t *testing.T) {
		registry := mods.NewRegistry("warhammer_3")
		registry.Mods["m.pack"] = &mods.Mod{
			ID: "m.pack", PackKind: pack.KindMovie, Enabled: false,
			Paths: []string{filepath.Join(secondary, "m.pack")},
		}
		b := NewBuilder(mustGame(t, "warhammer_3"), install, secondary)
		if got := b.Directives(registry, loadorder.New()); len(got) != 0 {
			t.Errorf("Expected no directives, got %v", got)
		}
	})
}

func TestWriteScript(t *testing.T) {
	install, _, secondary, _ := layout(t)
	directives := []string{`mod "a.pack";`, `mod "b.pack";`}

	t.Run("modern titles write UTF-8", func(t *testing.T) {
		b := NewBuilder(mustGame(t, "warhammer_3"), install, secondary)
		path := filepath.Join(t.TempDir(), "mod_list.txt")
		if err := b.WriteScript(path, directives); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		want := "mod \"a.pack\";\nmod \"b.pack\";\n"
		if string(data) != want {
			t.Errorf("Expected %q, got %q", want, data)
		}
	})

	t.Run("legacy titles write UTF-16LE with BOM", func(t *testing.T) {
		b := NewBuilder(mustGame(t, "empire"), install, secondary)
		path := filepath.Join(t.TempDir(), "mod_list.txt")
		if err := b.WriteScript(path, directives); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte{0xFF, 0xFE}) {
			t.Fatalf("Expected a UTF-16LE BOM, got % x", data[:4])
		}
		// 'm' encoded little-endian right after the BOM.
		if data[2] != 'm' || data[3] != 0 {
			t.Errorf("Expected UTF-16LE content, got % x", data[2:6])
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		b := NewBuilder(mustGame(t, "warhammer_3"), install, secondary)
		dir := t.TempDir()
		if err := b.WriteScript(filepath.Join(dir, "mod_list.txt"), directives); err != nil {
			t.Fatal(err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("Expected only the script file, got %d entries", len(entries))
		}
	})
}

func TestBuildArgs(t *testing.T) {
	game := mustGame(t, "warhammer_3")

	t.Run("base flags", func(t *testing.T) {
		got := BuildArgs(game, "/cfg/load_order.json", "/data/out.pack", Options{})
		want := []string{"-g", "warhammer_3", "-l", "/cfg/load_order.json", "-p", "/data/out.pack", "-s"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("tweaks add one flag each", func(t *testing.T) {
		opts := Options{
			EnableLogging:       true,
			SkipIntros:          true,
			Translation:         "fr",
			UnitMultiplier:      1.5,
			UniversalRebalancer: "base.pack",
		}
		got := BuildArgs(game, "lo.json", "out.pack", opts)
		joined := strings.Join(got, " ")
		for _, fragment := range []string{"-e", "-i", "-t fr", "-u base.pack", "-m 1.5"} {
			if !strings.Contains(joined, fragment) {
				t.Errorf("Expected %q in %q", fragment, joined)
			}
		}
	})

	t.Run("pure function", func(t *testing.T) {
		a := BuildArgs(game, "lo.json", "out.pack", Options{SkipIntros: true})
		b := BuildArgs(game, "lo.json", "out.pack", Options{SkipIntros: true})
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Expected identical output, got %v and %v", a, b)
		}
	})
}
