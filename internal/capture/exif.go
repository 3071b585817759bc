package capture

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	exif.RegisterParsers(mknote.All...)
}

// ExifDateLayout is the EXIF datetime representation, "YYYY:MM:DD HH:MM:SS".
const ExifDateLayout = "2006:01:02 15:04:05"

// exifDateFields are consulted in order.
var exifDateFields = []exif.FieldName{exif.DateTimeOriginal, exif.DateTime}

// ExifReader reads DateTimeOriginal, falling back to DateTime.
type ExifReader struct{}

func (ExifReader) Source() Source { return SourceEXIF }

func (ExifReader) CaptureTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	// Decode may return partial data alongside a parser error; whatever was
	// decoded is still worth consulting.
	x, _ := exif.Decode(f)
	if x == nil {
		return time.Time{}, ErrMetadataAbsent
	}

	for _, field := range exifDateFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		if t, ok := ParseExifTime(raw); ok {
			return t, nil
		}
	}
	return time.Time{}, ErrMetadataAbsent
}

// ParseExifTime parses value strictly as "YYYY:MM:DD HH:MM:SS" in local time.
// Trailing NULs and surrounding whitespace are ignored.
func ParseExifTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(strings.TrimRight(value, "\x00"))
	if len(value) != len(ExifDateLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ExifDateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
