package capture_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"picsort/internal/capture"
	"picsort/internal/errs"
	"picsort/internal/logging"
	"picsort/internal/testsupport"
)

func TestResolveReadsExifDateTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IMG_0001.jpg")
	testsupport.WriteExifJPEG(t, path, "2020:09:01 21:42:03", nil)

	resolver := capture.NewDefaultResolver(logging.NewNop(), false)
	res, err := resolver.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Source != capture.SourceEXIF {
		t.Fatalf("expected exif source, got %q", res.Source)
	}
	want := time.Date(2020, 9, 1, 21, 42, 3, 0, time.Local)
	if !res.Time.Equal(want) {
		t.Fatalf("unexpected capture time: got %v want %v", res.Time, want)
	}
}

func TestResolveFallsBackToFilesystemWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	testsupport.WriteFile(t, path, 128)

	before := time.Now().Add(-time.Minute)
	res, err := capture.NewDefaultResolver(nil, false).Resolve(path)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Source != capture.SourceFilesystem {
		t.Fatalf("expected filesystem source, got %q", res.Source)
	}
	if res.Time.Before(before) {
		t.Fatalf("expected a recent filesystem time, got %v", res.Time)
	}
}

func TestResolveFallsBackOnMalformedExifValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jpg")
	testsupport.WriteExifJPEG(t, path, "2020-09-01 21:42:03", nil)

	res, err := capture.NewDefaultResolver(nil, false).Resolve(path)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Source != capture.SourceFilesystem {
		t.Fatalf("expected filesystem fallback for malformed value, got %q", res.Source)
	}
}

func TestResolveUsesFilenamePatternsWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IMG_20190704_101500.jpg")
	testsupport.WriteFile(t, path, 16)

	res, err := capture.NewDefaultResolver(nil, true).Resolve(path)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Source != capture.SourceFilename {
		t.Fatalf("expected filename source, got %q", res.Source)
	}
	want := time.Date(2019, 7, 4, 10, 15, 0, 0, time.Local)
	if !res.Time.Equal(want) {
		t.Fatalf("unexpected capture time: got %v want %v", res.Time, want)
	}

	res, err = capture.NewDefaultResolver(nil, false).Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != capture.SourceFilesystem {
		t.Fatalf("filename patterns must be opt-in, got %q", res.Source)
	}
}

func TestResolveMissingFileIsNotFound(t *testing.T) {
	_, err := capture.NewDefaultResolver(nil, false).Resolve(filepath.Join(t.TempDir(), "missing.jpg"))
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected underlying ErrNotExist, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Source() capture.Source { return "broken" }

func (failingReader) CaptureTime(string) (time.Time, error) {
	return time.Time{}, errors.New("decoder exploded")
}

type fixedReader struct{ t time.Time }

func (fixedReader) Source() capture.Source { return "fixed" }

func (r fixedReader) CaptureTime(string) (time.Time, error) { return r.t, nil }

func TestResolveSkipsFailingReaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.jpg")
	testsupport.WriteFile(t, path, 1)
	want := time.Date(2011, 1, 2, 3, 4, 5, 0, time.UTC)

	res, err := capture.NewResolver(nil, failingReader{}, fixedReader{t: want}).Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != "fixed" || !res.Time.Equal(want) {
		t.Fatalf("unexpected resolution %+v", res)
	}
}

func TestParseExifTimeIsStrict(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2020:09:01 21:42:03", true},
		{"2020:09:01 21:42:03\x00", true},
		{" 2020:09:01 21:42:03 ", true},
		{"2020-09-01 21:42:03", false},
		{"2020:09:01", false},
		{"0000:00:00 00:00:00", false},
		{"2020:13:01 21:42:03", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, ok := capture.ParseExifTime(tc.in); ok != tc.ok {
			t.Fatalf("ParseExifTime(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestParseFilenameTime(t *testing.T) {
	cases := []struct {
		name string
		want time.Time
		ok   bool
	}{
		{"2020-09-01_21-42-03_my-file.jpg", time.Date(2020, 9, 1, 21, 42, 3, 0, time.Local), true},
		{"IMG_20200901_214203.jpg", time.Date(2020, 9, 1, 21, 42, 3, 0, time.Local), true},
		{"DJI_20250619224111_0001_D.JPG", time.Date(2025, 6, 19, 22, 41, 11, 0, time.Local), true},
		{"holiday 2018-05-04.jpg", time.Date(2018, 5, 4, 0, 0, 0, 0, time.Local), true},
		{"scan_19991231.jpg", time.Date(1999, 12, 31, 0, 0, 0, 0, time.Local), true},
		{"IMG_0001.jpg", time.Time{}, false},
		{"00000001.jpg", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := capture.ParseFilenameTime(tc.name)
		if ok != tc.ok {
			t.Fatalf("ParseFilenameTime(%q) ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("ParseFilenameTime(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSourceFileCarriesResolution(t *testing.T) {
	f := capture.NewSourceFile(filepath.Join("c", "path", "a.a"))
	if f.Dir() != filepath.Join("c", "path") || f.Name() != "a.a" {
		t.Fatalf("unexpected split: %q %q", f.Dir(), f.Name())
	}
	if f.FullPath() != filepath.Join("c", "path", "a.a") {
		t.Fatalf("unexpected full path %q", f.FullPath())
	}
	if _, ok := f.CaptureTime(); ok {
		t.Fatal("expected no capture time before resolution")
	}
	when := time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC)
	resolved := f.WithResolution(capture.Resolution{Time: when, Source: capture.SourceEXIF})
	got, ok := resolved.CaptureTime()
	if !ok || !got.Equal(when) || resolved.CaptureSource() != capture.SourceEXIF {
		t.Fatalf("unexpected resolved file %+v", resolved)
	}
	if _, ok := f.CaptureTime(); ok {
		t.Fatal("WithResolution must not mutate the receiver")
	}
}
