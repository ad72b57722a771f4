package mods

import (
	"path/filepath"
	"testing"

	"pack-mod-manager/games"
	"pack-mod-manager/pack"
)

func mustGame(t *testing.T, key string) *games.Game {
	t.Helper()
	g, err := games.Get(key)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return g
}

func TestAltName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"empty", "", ""},
		{"already a pack", "some_mod.pack", ""},
		{"plain name", "old map", "old_map.pack"},
		{"folder path", "mods\\battle maps\\bridge fight", "bridge_fight.pack"},
		{"forward slashes", "mods/bridge fight", "bridge_fight.pack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Mod{FileName: tt.fileName}
			if got := m.AltName(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEnabledFor(t *testing.T) {
	modern := mustGame(t, "warhammer_3")
	old := mustGame(t, "shogun_2")
	dataPath := filepath.Join(t.TempDir(), "data")

	t.Run("mod follows the flag", func(t *testing.T) {
		m := Mod{PackKind: pack.KindMod, Enabled: true, Paths: []string{filepath.Join(dataPath, "a.pack")}}
		if !m.EnabledFor(modern, dataPath) {
			t.Error("Expected enabled mod to be enabled")
		}
		m.Enabled = false
		if m.EnabledFor(modern, dataPath) {
			t.Error("Expected disabled mod to be disabled")
		}
	})

	t.Run("movie in data on old engine is always enabled", func(t *testing.T) {
		m := Mod{PackKind: pack.KindMovie, Enabled: false, Paths: []string{filepath.Join(dataPath, "m.pack")}}
		if !m.EnabledFor(old, dataPath) {
			t.Error("Expected movie in data to be force-enabled")
		}
		if m.CanBeToggled(old, dataPath) {
			t.Error("Expected force-enabled movie to be untoggleable")
		}
	})

	t.Run("movie outside data on old engine follows the flag", func(t *testing.T) {
		m := Mod{PackKind: pack.KindMovie, Enabled: false, Paths: []string{filepath.Join(t.TempDir(), "m.pack")}}
		if m.EnabledFor(old, dataPath) {
			t.Error("Expected movie outside data to respect the flag")
		}
		if !m.CanBeToggled(old, dataPath) {
			t.Error("Expected movie outside data to be toggleable")
		}
	})

	t.Run("movie on exclusion-capable engine follows the flag", func(t *testing.T) {
		m := Mod{PackKind: pack.KindMovie, Enabled: false, Paths: []string{filepath.Join(dataPath, "m.pack")}}
		if m.EnabledFor(modern, dataPath) {
			t.Error("Expected disabled movie to stay disabled")
		}
	})

	t.Run("other kind is never enabled", func(t *testing.T) {
		m := Mod{PackKind: pack.KindOther, Enabled: true, Paths: []string{filepath.Join(dataPath, "x.pack")}}
		if m.EnabledFor(modern, dataPath) {
			t.Error("Expected non-mod pack to be excluded")
		}
	})
}

func TestAddPath(t *testing.T) {
	m := Mod{}
	m.AddPathBack("/content/a.pack")
	m.AddPathFront("/data/a.pack")
	m.AddPathFront("/data/a.pack") // duplicate
	m.AddPathBack("/content/a.pack")

	if len(m.Paths) != 2 {
		t.Fatalf("Expected 2 paths, got %d", len(m.Paths))
	}
	if m.Paths[0] != "/data/a.pack" || m.Paths[1] != "/content/a.pack" {
		t.Errorf("Expected precedence order, got %v", m.Paths)
	}
}

func TestOutdated(t *testing.T) {
	m := Mod{TimeUpdated: 100}
	if !m.Outdated(200) {
		t.Error("Expected mod older than the game update to be outdated")
	}
	if m.Outdated(50) {
		t.Error("Expected mod newer than the game update to be current")
	}
}
