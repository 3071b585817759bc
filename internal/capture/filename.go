package capture

import (
	"path/filepath"
	"regexp"
	"time"
)

var filenamePatterns = []struct {
	regex  *regexp.Regexp
	layout string
}{
	// picsort's own prefix: 2020-09-01_21-42-03
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2})`), "2006-01-02_15-04-05"},
	// Phones and most cameras: IMG_20200901_214203.jpg
	{regexp.MustCompile(`(\d{8}_\d{6})`), "20060102_150405"},
	// DJI_20200901214203_0001_D.JPG
	{regexp.MustCompile(`DJI_(\d{14})`), "20060102150405"},
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`), "2006-01-02"},
	// Compact date, last resort.
	{regexp.MustCompile(`(?:^|\D)(\d{8})(?:\D|$)`), "20060102"},
}

// FilenameReader parses capture times embedded in file names.
type FilenameReader struct{}

func (FilenameReader) Source() Source { return SourceFilename }

func (FilenameReader) CaptureTime(path string) (time.Time, error) {
	if t, ok := ParseFilenameTime(filepath.Base(path)); ok {
		return t, nil
	}
	return time.Time{}, ErrMetadataAbsent
}

// ParseFilenameTime tries each known pattern in order; the first plausible
// match wins.
func ParseFilenameTime(name string) (time.Time, bool) {
	for _, p := range filenamePatterns {
		m := p.regex.FindStringSubmatch(name)
		if len(m) < 2 {
			continue
		}
		t, err := time.ParseInLocation(p.layout, m[1], time.Local)
		if err != nil {
			continue
		}
		if t.Year() < 1900 || t.Year() > 2100 {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}
