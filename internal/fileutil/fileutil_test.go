package fileutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "out", "dst.jpg")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	content := []byte("verified copy content")
	if err := os.WriteFile(src, content, 0o640); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2019, 5, 4, 10, 11, 12, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	n, err := CopyFileVerified(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(content)) {
		t.Fatalf("written = %d, want %d", n, len(content))
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("mode = %o, want 640", info.Mode().Perm())
	}
	if !info.ModTime().Equal(mtime) {
		t.Fatalf("mtime = %v, want %v", info.ModTime(), mtime)
	}

	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := CopyFileVerified(filepath.Join(dir, "nonexistent"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(filepath.Join(dir, "dst")); !os.IsNotExist(err) {
		t.Fatal("destination should not exist after failed copy")
	}
}

func TestCopyFileVerifiedMissingTargetDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CopyFileVerified(src, filepath.Join(dir, "missing", "dst")); err == nil {
		t.Fatal("expected error when target directory is missing")
	}
}

func TestSameContent(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	big := bytes.Repeat([]byte("abcdefgh"), compareChunk/4)
	bigChanged := append([]byte(nil), big...)
	bigChanged[len(bigChanged)-1] = 'z'

	a := write("a", big)
	b := write("b", append([]byte(nil), big...))
	c := write("c", bigChanged)
	d := write("d", []byte("short"))
	e := write("e", nil)
	f := write("f", nil)

	cases := []struct {
		x, y string
		want bool
	}{
		{a, b, true},
		{a, c, false},
		{a, d, false},
		{e, f, true},
		{a, a, true},
	}
	for _, tc := range cases {
		got, err := SameContent(tc.x, tc.y)
		if err != nil {
			t.Fatalf("SameContent(%s, %s): %v", tc.x, tc.y, err)
		}
		if got != tc.want {
			t.Fatalf("SameContent(%s, %s) = %v, want %v", filepath.Base(tc.x), filepath.Base(tc.y), got, tc.want)
		}
	}

	if _, err := SameContent(a, filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestIsCrossDevice(t *testing.T) {
	if !IsCrossDevice(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EXDEV}) {
		t.Fatal("EXDEV link error not detected")
	}
	if IsCrossDevice(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.ENOENT}) {
		t.Fatal("ENOENT reported as cross-device")
	}
	if IsCrossDevice(errors.New("plain")) {
		t.Fatal("plain error reported as cross-device")
	}
}

func TestIsPartialCopy(t *testing.T) {
	cases := map[string]bool{
		".a.jpg.123.tmp":  true,
		"a.jpg.tmp":       false,
		".tmp":            false,
		".hidden.jpg":     false,
		"photo.jpg":       false,
		".notes.tmp":      false,
		".a.jpg.12x.tmp":  false,
		".a.jpg.123.tmp~": false,
	}
	for name, want := range cases {
		if got := IsPartialCopy(name); got != want {
			t.Errorf("IsPartialCopy(%q) = %v, want %v", name, got, want)
		}
	}

	tmp, err := os.CreateTemp(t.TempDir(), partialPattern("/lib/2020-09/a.jpg"))
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	tmp.Close()
	if !IsPartialCopy(filepath.Base(tmp.Name())) {
		t.Fatalf("temporary copy name %q not recognised", filepath.Base(tmp.Name()))
	}
}
