package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteExifJPEG writes a minimal JPEG whose EXIF block carries dateTime in the
// IFD0 DateTime tag. dateTime is written verbatim, so callers can supply
// malformed values. payload is appended in a comment segment so files with
// equal timestamps can still differ in content.
func WriteExifJPEG(t testing.TB, path, dateTime string, payload []byte) {
	t.Helper()

	value := append([]byte(dateTime), 0)
	const (
		headerLen = 8
		entryLen  = 12
	)
	valueOffset := uint32(headerLen + 2 + entryLen + 4)

	var tiff bytes.Buffer
	tiff.WriteString("II")
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(42))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(headerLen))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(1))      // entry count
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0132)) // DateTime
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))      // ASCII
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(len(value)))
	_ = binary.Write(&tiff, binary.LittleEndian, valueOffset)
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0)) // next IFD
	tiff.Write(value)

	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	segLen := uint16(2 + 6 + tiff.Len())
	_ = binary.Write(&out, binary.BigEndian, segLen)
	out.WriteString("Exif\x00\x00")
	out.Write(tiff.Bytes())
	// COM segment holding the payload keeps the stream well formed.
	if len(payload) > 0 {
		out.Write([]byte{0xFF, 0xFE})
		_ = binary.Write(&out, binary.BigEndian, uint16(2+len(payload)))
		out.Write(payload)
	}
	out.Write([]byte{0xFF, 0xD9})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
