package pack

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	p := New(KindMod)
	p.SetFile("db/units/main", []byte("unit data"))
	p.SetFile("patcher/settings.txt", []byte("a = 1"))
	p.SetFile("empty", nil)

	data, err := p.Bytes()
	if err != nil {
		t.Fatalf("Unexpected error encoding: %v", err)
	}

	decoded, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Unexpected error decoding: %v", err)
	}

	if decoded.Kind() != KindMod {
		t.Errorf("Expected kind mod, got %s", decoded.Kind())
	}
	if decoded.Len() != 3 {
		t.Errorf("Expected 3 files, got %d", decoded.Len())
	}
	got, ok := decoded.File("db/units/main")
	if !ok || string(got) != "unit data" {
		t.Errorf("Expected file contents to survive, got %q (ok=%v)", got, ok)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("definitely not a pack"))); err == nil {
		t.Error("Expected an error for a non-pack stream")
	}
}

func TestReadAndMergeFirstWins(t *testing.T) {
	dir := t.TempDir()

	high := New(KindMod)
	high.SetFile("shared.txt", []byte("high"))
	high.SetFile("only_high.txt", []byte("x"))
	highPath := filepath.Join(dir, "high.pack")
	if err := high.Save(highPath); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	low := New(KindMovie)
	low.SetFile("shared.txt", []byte("low"))
	low.SetFile("only_low.txt", []byte("y"))
	lowPath := filepath.Join(dir, "low.pack")
	if err := low.Save(lowPath); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	merged, err := ReadAndMerge([]string{highPath, lowPath})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if merged.Kind() != KindMod {
		t.Errorf("Expected kind from the first path, got %s", merged.Kind())
	}
	if merged.Len() != 3 {
		t.Errorf("Expected 3 merged files, got %d", merged.Len())
	}
	if got, _ := merged.File("shared.txt"); string(got) != "high" {
		t.Errorf("Expected the first path to win on conflicts, got %q", got)
	}
}

func TestExtract(t *testing.T) {
	dest := t.TempDir()

	first := New(KindMod)
	first.SetFile("patcher/a.txt", []byte("from first"))
	first.SetFile("patcher/sub/b.txt", []byte("nested"))
	first.SetFile("db/ignored", []byte("not extracted"))

	second := New(KindMod)
	second.SetFile("patcher/a.txt", []byte("from second"))

	if err := first.Extract("patcher", dest); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := second.Extract("patcher", dest); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(got) != "from second" {
		t.Errorf("Expected the later extract to win, got %q", got)
	}

	if _, err := os.ReadFile(filepath.Join(dest, "sub", "b.txt")); err != nil {
		t.Errorf("Expected nested file to be extracted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "ignored")); !os.IsNotExist(err) {
		t.Error("Expected files outside the folder to be skipped")
	}
}

func TestKindTextMarshaling(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Kind
	}{
		{"mod", "mod", KindMod},
		{"movie", "movie", KindMovie},
		{"unknown falls back to other", "boot", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var k Kind
			if err := k.UnmarshalText([]byte(tt.in)); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if k != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, k)
			}
		})
	}
}
