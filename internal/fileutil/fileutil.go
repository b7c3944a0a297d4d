package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrDestinationExists is returned when a no-clobber operation finds a file
// with the same name at the target.
var ErrDestinationExists = errors.New("file exists in destination")

// ErrDestinationDir is returned when the target directory is missing or is
// not a directory.
var ErrDestinationDir = errors.New("destination directory unavailable")

// Swappable so tests can simulate cross-device and I/O failures.
var (
	renameFunc = os.Rename
	removeFunc = os.Remove
)

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// Removes dst on mismatch. dst is created exclusively: an existing file yields
// ErrDestinationExists and is left untouched.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
		}
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return nil
}

// MoveNoClobber moves src into dstDir under its own base name and returns the
// new path. It never overwrites: an existing target yields
// ErrDestinationExists. A missing source yields an error matching
// fs.ErrNotExist. Cross-device moves fall back to a verified copy followed by
// removal of the source.
func MoveNoClobber(src, dstDir string) (string, error) {
	if _, err := os.Lstat(src); err != nil {
		return "", fmt.Errorf("source %s: %w", src, err)
	}
	target := filepath.Join(dstDir, filepath.Base(src))
	if err := ensureAbsent(target); err != nil {
		return "", err
	}
	if err := ensureDir(dstDir); err != nil {
		return "", err
	}

	renameErr := renameFunc(src, target)
	if renameErr == nil {
		return target, nil
	}
	if !IsCrossDevice(renameErr) {
		return "", renameErr
	}

	if err := CopyFileVerified(src, target); err != nil {
		return "", fmt.Errorf("cross-device copy %s: %w", src, err)
	}
	if err := removeFunc(src); err != nil {
		// Leave the source in place rather than hold two copies silently.
		_ = os.Remove(target)
		return "", fmt.Errorf("remove source after cross-device copy: %w", err)
	}
	return target, nil
}

// CopyNoClobber copies src into dstDir under its own base name with integrity
// verification and returns the new path.
func CopyNoClobber(src, dstDir string) (string, error) {
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("source %s: %w", src, err)
	}
	target := filepath.Join(dstDir, filepath.Base(src))
	if err := ensureAbsent(target); err != nil {
		return "", err
	}
	if err := ensureDir(dstDir); err != nil {
		return "", err
	}
	if err := CopyFileVerified(src, target); err != nil {
		return "", err
	}
	return target, nil
}

func ensureAbsent(target string) error {
	_, err := os.Lstat(target)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrDestinationExists, target)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return err
	}
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDestinationDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrDestinationDir, dir)
	}
	return nil
}
