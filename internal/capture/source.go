package capture

import (
	"path/filepath"
	"time"
)

// SourceFile is a discovered candidate. Its capture time is unset until
// WithResolution is applied.
type SourceFile struct {
	dir      string
	name     string
	captured *time.Time
	source   Source
}

// NewSourceFile splits path into directory and file name.
func NewSourceFile(path string) SourceFile {
	return SourceFile{dir: filepath.Dir(path), name: filepath.Base(path)}
}

func (f SourceFile) Dir() string { return f.dir }

func (f SourceFile) Name() string { return f.name }

func (f SourceFile) FullPath() string { return filepath.Join(f.dir, f.name) }

// CaptureTime returns the resolved time and whether one has been set.
func (f SourceFile) CaptureTime() (time.Time, bool) {
	if f.captured == nil {
		return time.Time{}, false
	}
	return *f.captured, true
}

func (f SourceFile) CaptureSource() Source { return f.source }

// WithResolution returns a copy carrying the resolved capture time.
func (f SourceFile) WithResolution(res Resolution) SourceFile {
	t := res.Time
	f.captured = &t
	f.source = res.Source
	return f
}
