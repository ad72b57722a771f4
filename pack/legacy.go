package pack

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"
)

// Legacy "bin" mods predate the container format. On disk they are
// zlib-compressed archives with a simple record layout:
//
//	null-terminated UTF-16LE string: file name
//	u64: file data size
//	[size]byte: file data
//
// followed by a trailing 4-byte marker that is not part of any file.

// IsLegacyPayload reports whether data decompresses as a legacy archive.
// Used during scanning to keep failed container opens as pending candidates
// instead of discarding them.
func IsLegacyPayload(data []byte) bool {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return false
	}
	defer r.Close()
	_, err = io.Copy(io.Discard, r)
	return err == nil
}

// DecompressLegacyPayload returns the raw decompressed bytes of a legacy
// payload. Some uploads are whole pack containers compressed this way
// rather than archives.
func DecompressLegacyPayload(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a zlib payload: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// DecodeLegacyPayload decompresses and parses a legacy archive into its
// file map.
func DecodeLegacyPayload(data []byte) (map[string][]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a zlib payload: %w", err)
	}
	defer r.Close()

	dec, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing legacy payload: %w", err)
	}

	files := make(map[string][]byte)
	buf := bytes.NewReader(dec)
	for {
		// The last 4 bytes are a marker, not a file.
		if buf.Len() <= 4 {
			break
		}

		name, err := readStringU16Zero(buf)
		if err != nil {
			return nil, err
		}
		var size uint64
		if err := binary.Read(buf, binary.LittleEndian, &size); err != nil {
			return nil, err
		}
		if size > uint64(buf.Len()) {
			return nil, fmt.Errorf("legacy entry %q larger than remaining payload", name)
		}
		fileData := make([]byte, size)
		if _, err := io.ReadFull(buf, fileData); err != nil {
			return nil, err
		}
		files[name] = fileData
	}
	return files, nil
}

// FromLegacyFiles builds a Mod pack out of decoded legacy files, placing
// them under the given internal folder.
func FromLegacyFiles(files map[string][]byte, folder string) *Pack {
	p := New(KindMod)
	for name, data := range files {
		p.SetFile(folder+"/"+name, data)
	}
	return p
}

func readStringU16Zero(r io.Reader) (string, error) {
	var units []uint16
	for {
		var u uint16
		if err := binary.Read(r, binary.LittleEndian, &u); err != nil {
			return "", err
		}
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}
