package capture

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/djherbis/times"

	"picsort/internal/errs"
	"picsort/internal/logging"
)

// ErrMetadataAbsent signals that a reader found no usable capture time.
var ErrMetadataAbsent = errors.New("capture metadata absent")

// Source names where a capture time came from.
type Source string

const (
	SourceEXIF       Source = "exif"
	SourceFilename   Source = "filename"
	SourceFilesystem Source = "filesystem"
)

// MetadataReader extracts a capture time from a file. Implementations return
// ErrMetadataAbsent when the file carries no usable datetime.
type MetadataReader interface {
	Source() Source
	CaptureTime(path string) (time.Time, error)
}

// Resolution is the resolved capture time and its origin.
type Resolution struct {
	Time   time.Time
	Source Source
}

// Resolver applies the metadata-then-filesystem fallback policy.
type Resolver struct {
	readers []MetadataReader
	logger  *slog.Logger
}

// NewResolver builds a resolver that tries readers in order. With no readers
// only filesystem times are used.
func NewResolver(logger *slog.Logger, readers ...MetadataReader) *Resolver {
	return &Resolver{
		readers: append([]MetadataReader(nil), readers...),
		logger:  logging.NewComponentLogger(logger, "capture"),
	}
}

// NewDefaultResolver reads EXIF first and optionally filename patterns.
func NewDefaultResolver(logger *slog.Logger, filenamePatterns bool) *Resolver {
	readers := []MetadataReader{ExifReader{}}
	if filenamePatterns {
		readers = append(readers, FilenameReader{})
	}
	return NewResolver(logger, readers...)
}

// Resolve returns the capture time for path. It never fails for an existing,
// readable file.
func (r *Resolver) Resolve(path string) (Resolution, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Resolution{}, errs.Path(errs.ErrNotFound, "resolve capture time", path, "", err)
		}
		return Resolution{}, errs.Path(errs.ErrFilesystem, "resolve capture time", path, "", err)
	}
	if info.IsDir() {
		return Resolution{}, errs.Path(errs.ErrNotFound, "resolve capture time", path, "", errors.New("is a directory"))
	}

	for _, reader := range r.readers {
		t, err := reader.CaptureTime(path)
		if err == nil {
			return Resolution{Time: t, Source: reader.Source()}, nil
		}
		if !errors.Is(err, ErrMetadataAbsent) {
			logging.WarnWithContext(r.logger, "capture metadata unreadable; trying next source", "capture_metadata_unreadable",
				logging.String("path", path),
				logging.String("reader", string(reader.Source())),
				logging.Error(err),
				logging.String(logging.FieldImpact, "capture time taken from a fallback source"),
			)
			continue
		}
		r.logger.Debug("capture metadata absent",
			logging.String("path", path),
			logging.String("reader", string(reader.Source())),
		)
	}

	return Resolution{Time: filesystemTime(path, info), Source: SourceFilesystem}, nil
}

// filesystemTime prefers the creation time, then the last status change, then
// the modification time reported by info.
func filesystemTime(path string, info fs.FileInfo) time.Time {
	ts, err := times.Stat(path)
	if err != nil {
		return info.ModTime()
	}
	if ts.HasBirthTime() {
		return ts.BirthTime()
	}
	if ts.HasChangeTime() {
		return ts.ChangeTime()
	}
	return ts.ModTime()
}
