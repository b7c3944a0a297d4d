package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte("verified copy content")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileVerifiedRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	err := CopyFileVerified(src, dst)
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
	if got := readFile(t, dst); got != "old" {
		t.Fatalf("existing file was modified: %q", got)
	}
}

func TestCopyFileVerified_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFileVerified(filepath.Join(dir, "nonexistent"), filepath.Join(dir, "dst.bin"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestMoveNoClobber(t *testing.T) {
	src := filepath.Join(t.TempDir(), "IMG_0001.ARW")
	dstDir := t.TempDir()
	writeFile(t, src, "raw")

	target, err := MoveNoClobber(src, dstDir)
	if err != nil {
		t.Fatalf("MoveNoClobber: %v", err)
	}
	if target != filepath.Join(dstDir, "IMG_0001.ARW") {
		t.Fatalf("unexpected target %q", target)
	}
	if _, err := os.Stat(src); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected source gone, stat err=%v", err)
	}
	if got := readFile(t, target); got != "raw" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestMoveNoClobberCollision(t *testing.T) {
	src := filepath.Join(t.TempDir(), "IMG_0001.JPG")
	dstDir := t.TempDir()
	writeFile(t, src, "new")
	writeFile(t, filepath.Join(dstDir, "IMG_0001.JPG"), "old")

	_, err := MoveNoClobber(src, dstDir)
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
	if got := readFile(t, src); got != "new" {
		t.Fatal("source must stay in place on collision")
	}
	if got := readFile(t, filepath.Join(dstDir, "IMG_0001.JPG")); got != "old" {
		t.Fatal("destination must not be overwritten")
	}
}

func TestMoveNoClobberMissingSource(t *testing.T) {
	_, err := MoveNoClobber(filepath.Join(t.TempDir(), "gone.ARW"), t.TempDir())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMoveNoClobberMissingDestination(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.ARW")
	writeFile(t, src, "raw")

	_, err := MoveNoClobber(src, filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrDestinationDir) {
		t.Fatalf("expected ErrDestinationDir, got %v", err)
	}
	if !exists(src) {
		t.Fatal("source must stay in place")
	}
}

func TestMoveNoClobberCrossDeviceFallsBackToCopy(t *testing.T) {
	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	defer func() { renameFunc = old }()

	src := filepath.Join(t.TempDir(), "a.ARW")
	dstDir := t.TempDir()
	writeFile(t, src, "raw bytes")

	target, err := MoveNoClobber(src, dstDir)
	if err != nil {
		t.Fatalf("MoveNoClobber: %v", err)
	}
	if got := readFile(t, target); got != "raw bytes" {
		t.Fatalf("unexpected content %q", got)
	}
	if exists(src) {
		t.Fatal("source must be removed after cross-device copy")
	}
}

func TestMoveNoClobberCrossDeviceRemoveFailureKeepsSource(t *testing.T) {
	oldRename, oldRemove := renameFunc, removeFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	removeFunc = func(string) error { return os.ErrPermission }
	defer func() { renameFunc, removeFunc = oldRename, oldRemove }()

	src := filepath.Join(t.TempDir(), "a.ARW")
	dstDir := t.TempDir()
	writeFile(t, src, "raw")

	_, err := MoveNoClobber(src, dstDir)
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if !exists(src) {
		t.Fatal("source must remain when it cannot be removed")
	}
	if exists(filepath.Join(dstDir, "a.ARW")) {
		t.Fatal("copy must be cleaned up when the source cannot be removed")
	}
}

func TestMoveNoClobberRenameFailure(t *testing.T) {
	old := renameFunc
	renameFunc = func(string, string) error { return os.ErrPermission }
	defer func() { renameFunc = old }()

	src := filepath.Join(t.TempDir(), "a.ARW")
	writeFile(t, src, "raw")

	if _, err := MoveNoClobber(src, t.TempDir()); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestCopyNoClobber(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.ARW")
	dstDir := t.TempDir()
	writeFile(t, src, "raw")

	target, err := CopyNoClobber(src, dstDir)
	if err != nil {
		t.Fatalf("CopyNoClobber: %v", err)
	}
	if !exists(src) || readFile(t, target) != "raw" {
		t.Fatal("expected both source and copy to exist")
	}
	if _, err := CopyNoClobber(src, dstDir); !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists on second copy, got %v", err)
	}
}

func TestIsCrossDevice(t *testing.T) {
	if !IsCrossDevice(&os.LinkError{Op: "rename", Old: "/a", New: "/b", Err: syscall.EXDEV}) {
		t.Fatal("expected EXDEV link error to be cross-device")
	}
	if IsCrossDevice(os.ErrPermission) {
		t.Fatal("permission error is not cross-device")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
