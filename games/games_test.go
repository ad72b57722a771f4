package games

import "testing"

func TestGet(t *testing.T) {
	g, err := Get("shogun_2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if g.DisplayName != "Shogun 2" {
		t.Errorf("Expected Shogun 2, got %s", g.DisplayName)
	}
	if _, err := Get("chess"); err == nil {
		t.Error("Expected an error for an unsupported key")
	}
}

func TestReservedPackNames(t *testing.T) {
	modern, _ := Get("warhammer_3")
	old, _ := Get("rome_2")

	if modern.ReservedPackName() != ReservedPackName {
		t.Errorf("Expected the standard reserved name, got %s", modern.ReservedPackName())
	}
	if old.ReservedPackName() != ReservedPackNameAlternative {
		t.Errorf("Expected the alternative reserved name, got %s", old.ReservedPackName())
	}

	for _, name := range []string{ReservedPackName, ReservedPackNameAlternative} {
		if !IsReservedPackName(name) {
			t.Errorf("Expected %s to be reserved", name)
		}
	}
	if IsReservedPackName("a.pack") {
		t.Error("Expected ordinary packs not to be reserved")
	}
}

func TestCapabilityConsistency(t *testing.T) {
	for _, key := range Keys() {
		g, err := Get(key)
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", key, err)
		}
		t.Run(key, func(t *testing.T) {
			if g.DataDir == "" {
				t.Error("Expected every title to declare a data dir")
			}
			if g.Generation == 0 && g.SupportsWorkingDirectories() {
				t.Error("Expected the oldest generation to load from data only")
			}
			if g.SupportsExcludePackCommand && g.Generation < 2 {
				t.Error("Expected exclusion support only on modern engines")
			}
		})
	}
}
