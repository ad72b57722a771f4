package pack

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind is the declared type of a pack. It decides how the engine loads it:
// Mod packs go into the explicit load order, Movie packs load implicitly
// from any mounted directory.
type Kind byte

const (
	KindOther Kind = iota
	KindMod
	KindMovie
)

func (k Kind) String() string {
	switch k {
	case KindMod:
		return "mod"
	case KindMovie:
		return "movie"
	default:
		return "other"
	}
}

// MarshalText makes kinds serialize as their names in JSON documents.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText. Unknown names
// decode as KindOther so stale documents stay loadable.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "mod":
		*k = KindMod
	case "movie":
		*k = KindMovie
	default:
		*k = KindOther
	}
	return nil
}

var magic = [4]byte{'P', 'M', 'P', 'K'}

const formatVersion uint32 = 1

// Pack is an in-memory container: a declared kind plus a flat map of
// internal paths to file contents.
type Pack struct {
	kind  Kind
	files map[string][]byte
}

// New returns an empty pack of the given kind.
func New(kind Kind) *Pack {
	return &Pack{kind: kind, files: make(map[string][]byte)}
}

// Kind returns the declared kind of the pack.
func (p *Pack) Kind() Kind { return p.kind }

// SetKind overrides the declared kind.
func (p *Pack) SetKind(kind Kind) { p.kind = kind }

// SetFile adds or replaces one file. Internal paths use forward slashes.
func (p *Pack) SetFile(path string, data []byte) {
	p.files[path] = data
}

// File returns the contents of one internal path.
func (p *Pack) File(path string) ([]byte, bool) {
	data, ok := p.files[path]
	return data, ok
}

// Paths returns every internal path, sorted.
func (p *Pack) Paths() []string {
	paths := make([]string, 0, len(p.files))
	for path := range p.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of files in the pack.
func (p *Pack) Len() int { return len(p.files) }

// ReadAndMerge opens every path and merges the results into a single pack.
// The first path has the highest precedence: a file present in several packs
// keeps the contents from the earliest one. The declared kind is taken from
// the first pack.
func ReadAndMerge(paths []string) (*Pack, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to read")
	}

	var merged *Pack
	for _, path := range paths {
		p, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = p
			continue
		}
		for name, data := range p.files {
			if _, ok := merged.files[name]; !ok {
				merged.files[name] = data
			}
		}
	}
	return merged, nil
}

// ReadFile reads a single pack from disk.
func ReadFile(path string) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("reading pack %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// Read decodes a pack from a stream.
func Read(r io.Reader) (*Pack, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header != magic {
		return nil, fmt.Errorf("not a pack file")
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, fmt.Errorf("unsupported pack version %d", version)
	}

	var kind byte
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return nil, err
	}
	if kind > byte(KindMovie) {
		return nil, fmt.Errorf("unknown pack kind %d", kind)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	p := New(Kind(kind))
	for i := uint32(0); i < count; i++ {
		var nameLen uint32
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return nil, err
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, err
		}
		var dataLen uint64
		if err := binary.Read(r, binary.LittleEndian, &dataLen); err != nil {
			return nil, err
		}
		data := make([]byte, dataLen)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}
		p.files[string(name)] = data
	}
	return p, nil
}

// Save writes the pack to disk, creating parent folders as needed.
func (p *Pack) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := p.write(w); err != nil {
		return err
	}
	return w.Flush()
}

func (p *Pack) write(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, byte(p.kind)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(p.files))); err != nil {
		return err
	}
	for _, name := range p.Paths() {
		data := p.files[name]
		if err := binary.Write(w, binary.LittleEndian, uint32(len(name))); err != nil {
			return err
		}
		if _, err := w.Write([]byte(name)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(len(data))); err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// Bytes encodes the pack into memory. Mostly useful for tests.
func (p *Pack) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extract writes every file under the given internal folder into dest,
// stripping the folder prefix. Existing files are overwritten, which is what
// gives the caller last-writer-wins semantics when extracting several packs
// in order.
func (p *Pack) Extract(folder, dest string) error {
	prefix := strings.TrimSuffix(folder, "/") + "/"
	for name, data := range p.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rel := strings.TrimPrefix(name, prefix)
		target := filepath.Join(dest, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return err
		}
	}
	return nil
}
