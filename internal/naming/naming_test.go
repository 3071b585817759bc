package naming

import (
	"errors"
	"testing"
	"time"

	"picsort/internal/errs"
)

func TestBuild(t *testing.T) {
	ts := time.Date(2020, 9, 1, 21, 42, 3, 0, time.UTC)
	cases := []struct {
		name     string
		original string
		scheme   Scheme
		want     string
	}{
		{"timestamp only", "my-file.jpg", Scheme{PrependTimestamp: true}, "2020-09-01_21-42-03.jpg"},
		{"name only", "my-file.jpg", Scheme{KeepOriginalName: true}, "my-file.jpg"},
		{"both", "my-file.jpg", Scheme{PrependTimestamp: true, KeepOriginalName: true}, "2020-09-01_21-42-03_my-file.jpg"},
		{"no extension", "README", Scheme{PrependTimestamp: true, KeepOriginalName: true}, "2020-09-01_21-42-03_README"},
		{"last dot wins", "archive.tar.JPG", Scheme{KeepOriginalName: true, PrependTimestamp: true}, "2020-09-01_21-42-03_archive.tar.JPG"},
		{"dotfile", ".hidden", Scheme{PrependTimestamp: true}, "2020-09-01_21-42-03.hidden"},
		{"extension only keeps name", ".jpg", Scheme{KeepOriginalName: true}, ".jpg"},
		{"extension only with timestamp", ".jpg", Scheme{KeepOriginalName: true, PrependTimestamp: true}, "2020-09-01_21-42-03_.jpg"},
	}
	for _, tc := range cases {
		got, err := Build(tc.original, ts, tc.scheme)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: Build = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestBuildWithoutNamingFlagsFails(t *testing.T) {
	ts := time.Date(2020, 9, 1, 21, 42, 3, 0, time.UTC)
	_, err := Build("my-file.jpg", ts, Scheme{})
	if !errors.Is(err, errs.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	ts := time.Date(2001, 2, 3, 4, 5, 6, 0, time.Local)
	scheme := Scheme{PrependTimestamp: true, KeepOriginalName: true}
	first, err := Build("IMG_0001.JPG", ts, scheme)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := Build("IMG_0001.JPG", ts, scheme)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("expected %q, got %q", first, again)
		}
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct{ in, stem, ext string }{
		{"photo.jpg", "photo", ".jpg"},
		{"photo", "photo", ""},
		{"a.b.c", "a.b", ".c"},
		{"trailing.", "trailing", "."},
	}
	for _, tc := range cases {
		stem, ext := SplitName(tc.in)
		if stem != tc.stem || ext != tc.ext {
			t.Fatalf("SplitName(%q) = (%q, %q), want (%q, %q)", tc.in, stem, ext, tc.stem, tc.ext)
		}
	}
}

func TestIncrementSuffix(t *testing.T) {
	cases := []struct{ in, want string }{
		{"photo", "photo_00"},
		{"photo_00", "photo_01"},
		{"photo_09", "photo_10"},
		{"photo_99", "photo_100"},
		{"photo_7", "photo_08"},
		{"photo_", "photo__00"},
		{"2020-09-01_21-42-03", "2020-09-01_21-42-03_00"},
		{"2020-09-01_21-42-03_my_01", "2020-09-01_21-42-03_my_02"},
		{"photo_18446744073709551614", "photo_18446744073709551615"},
		{"photo_18446744073709551615", "photo_18446744073709551615_00"},
		{"photo_99999999999999999999", "photo_99999999999999999999_00"},
	}
	for _, tc := range cases {
		if got := IncrementSuffix(tc.in); got != tc.want {
			t.Fatalf("IncrementSuffix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
