package mods

import "testing"

func TestParseStoreDir(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		ok   bool
	}{
		{"numeric workshop folder", "123456789", true},
		{"mixed name", "my_mods", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ParseStoreDir(tt.dir)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok {
				if !id.IsSteam() || id.ID != tt.dir {
					t.Errorf("Expected steam id %s, got %+v", tt.dir, id)
				}
			} else if !id.IsNone() {
				t.Errorf("Expected no store id, got %+v", id)
			}
		})
	}
}
