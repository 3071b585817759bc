package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"syscall"

	"github.com/djherbis/times"
)

const compareChunk = 64 * 1024

// CopyFileVerified copies src to dst through a temporary file in dst's
// directory. The temporary file is synced, re-read and checked against the
// source's size and SHA-256, given the source's permission bits and
// access/modification times, and only then renamed onto dst. On any failure
// the temporary file is removed and dst is left untouched.
func CopyFileVerified(src, dst string) (int64, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), partialPattern(dst))
	if err != nil {
		return 0, fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	srcHasher := sha256.New()
	written, err := io.Copy(tmp, io.TeeReader(in, srcHasher))
	if err != nil {
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}

	if written != srcInfo.Size() {
		return 0, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	dstSum, dstSize, err := HashFile(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("verify copy: %w", err)
	}
	if dstSize != written || !bytes.Equal(srcHasher.Sum(nil), dstSum) {
		return 0, errors.New("copy hash mismatch: file corrupted during copy")
	}

	if err := PreserveAttributes(tmpPath, srcInfo); err != nil {
		return 0, err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, err
	}
	committed = true
	return written, nil
}

// PreserveAttributes applies info's permission bits and access/modification
// times to path.
func PreserveAttributes(path string, info os.FileInfo) error {
	if err := os.Chmod(path, info.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve mode: %w", err)
	}
	atime := times.Get(info).AccessTime()
	if atime.IsZero() {
		atime = info.ModTime()
	}
	if err := os.Chtimes(path, atime, info.ModTime()); err != nil {
		return fmt.Errorf("preserve times: %w", err)
	}
	return nil
}

// HashFile returns the SHA-256 digest and size of path.
func HashFile(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, 0, err
	}
	return h.Sum(nil), n, nil
}

// SameContent reports whether a and b hold byte-identical content. Sizes are
// compared first so differing files are usually rejected without reading.
func SameContent(a, b string) (bool, error) {
	aInfo, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bInfo, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if aInfo.Size() != bInfo.Size() {
		return false, nil
	}
	if os.SameFile(aInfo, bInfo) {
		return true, nil
	}

	af, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer af.Close()
	bf, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer bf.Close()

	abuf := make([]byte, compareChunk)
	bbuf := make([]byte, compareChunk)
	for {
		an, aerr := io.ReadFull(af, abuf)
		bn, berr := io.ReadFull(bf, bbuf)
		if an != bn || !bytes.Equal(abuf[:an], bbuf[:bn]) {
			return false, nil
		}
		aDone := errors.Is(aerr, io.EOF) || errors.Is(aerr, io.ErrUnexpectedEOF)
		bDone := errors.Is(berr, io.EOF) || errors.Is(berr, io.ErrUnexpectedEOF)
		if aerr != nil && !aDone {
			return false, aerr
		}
		if berr != nil && !bDone {
			return false, berr
		}
		if aDone || bDone {
			return aDone == bDone, nil
		}
	}
}

// IsCrossDevice reports whether err is a rename failure across filesystems.
func IsCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

const partialSuffix = ".tmp"

// partialCopyName is the shape os.CreateTemp gives the temporary file of
// CopyFileVerified: "." + target name + "." + random digits + ".tmp".
var partialCopyName = regexp.MustCompile(`^\..+\.[0-9]+\.tmp$`)

func partialPattern(dst string) string {
	return "." + filepath.Base(dst) + ".*" + partialSuffix
}

// IsPartialCopy reports whether name looks like the temporary file
// CopyFileVerified writes before renaming into place.
func IsPartialCopy(name string) bool {
	return partialCopyName.MatchString(name)
}
