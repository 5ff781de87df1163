// Package testsupport builds on-disk fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// EXIF describes the tags written into a fixture JPEG. Empty fields are
// omitted from the EXIF directory.
type EXIF struct {
	DateTimeOriginal string
	MakerNote        []byte
}

const (
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003
	tagMakerNote        = 0x927c

	typeASCII     = 2
	typeLong      = 4
	typeUndefined = 7
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// JPEG returns a minimal JPEG stream (SOI, APP1 Exif, EOI) carrying meta.
// It is not a decodable image; only the metadata segment is meaningful.
func JPEG(meta EXIF) []byte {
	var entries []ifdEntry
	if meta.DateTimeOriginal != "" {
		ascii := append([]byte(meta.DateTimeOriginal), 0)
		entries = append(entries, ifdEntry{tag: tagDateTimeOriginal, typ: typeASCII, count: uint32(len(ascii)), data: ascii})
	}
	if len(meta.MakerNote) > 0 {
		entries = append(entries, ifdEntry{tag: tagMakerNote, typ: typeUndefined, count: uint32(len(meta.MakerNote)), data: meta.MakerNote})
	}

	order := binary.LittleEndian
	const ifd0Offset = 8
	const ifd0Size = 2 + 12 + 4
	exifOffset := uint32(ifd0Offset + ifd0Size)
	exifSize := uint32(2 + 12*len(entries) + 4)
	dataOffset := exifOffset + exifSize

	var tiff bytes.Buffer
	tiff.WriteString("II")
	binary.Write(&tiff, order, uint16(42))
	binary.Write(&tiff, order, uint32(ifd0Offset))

	// IFD0 holds only the pointer to the EXIF sub-directory.
	binary.Write(&tiff, order, uint16(1))
	binary.Write(&tiff, order, uint16(tagExifIFDPointer))
	binary.Write(&tiff, order, uint16(typeLong))
	binary.Write(&tiff, order, uint32(1))
	binary.Write(&tiff, order, exifOffset)
	binary.Write(&tiff, order, uint32(0))

	var payload bytes.Buffer
	binary.Write(&tiff, order, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&tiff, order, e.tag)
		binary.Write(&tiff, order, e.typ)
		binary.Write(&tiff, order, e.count)
		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			tiff.Write(inline)
			continue
		}
		binary.Write(&tiff, order, dataOffset+uint32(payload.Len()))
		payload.Write(e.data)
		if payload.Len()%2 == 1 {
			payload.WriteByte(0)
		}
	}
	binary.Write(&tiff, order, uint32(0))
	tiff.Write(payload.Bytes())

	var out bytes.Buffer
	out.Write([]byte{0xff, 0xd8, 0xff, 0xe1})
	binary.Write(&out, binary.BigEndian, uint16(2+6+tiff.Len()))
	out.WriteString("Exif\x00\x00")
	out.Write(tiff.Bytes())
	out.Write([]byte{0xff, 0xd9})
	return out.Bytes()
}

// WriteJPEG writes a fixture JPEG carrying meta to path, creating parents.
func WriteJPEG(t testing.TB, path string, meta EXIF) {
	t.Helper()
	writeBytes(t, path, JPEG(meta))
}

// WriteJPEGWithoutEXIF writes a JPEG stream with no APP1 segment.
func WriteJPEGWithoutEXIF(t testing.TB, path string) {
	t.Helper()
	writeBytes(t, path, []byte{0xff, 0xd8, 0xff, 0xd9})
}

// CameraNote builds a maker note in the layout trail cameras emit: a
// backslash-separated record with the corridor identifier in the middle.
func CameraNote(corridor string) []byte {
	return []byte(`BSCAM\FW 2.1\` + corridor + `\TEMP 21C\BATT 88`)
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
