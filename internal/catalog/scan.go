package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scan lists the JPEGs in inputDir and pairs each with the RAW file that shares
// its stem. Extensions may carry a leading dot and are matched
// case-sensitively. Hidden files, such as the "._" AppleDouble sidecars macOS
// leaves on exFAT cards, are skipped. Subdirectories are not descended into.
//
// When no pair is found Scan returns ErrNoPhotosFound together with the
// catalog, so callers can still report the JPEG-only files.
func Scan(inputDir, jpegExt, rawExt string) (*Catalog, error) {
	jpegSuffix := "." + strings.TrimPrefix(strings.TrimSpace(jpegExt), ".")
	rawSuffix := "." + strings.TrimPrefix(strings.TrimSpace(rawExt), ".")
	if jpegSuffix == "." || rawSuffix == "." {
		return nil, errors.New("scan: jpeg and raw extensions are required")
	}

	root, err := filepath.Abs(filepath.Clean(inputDir))
	if err != nil {
		return nil, fmt.Errorf("scan: resolve %q: %w", inputDir, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan: read %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if len(name) <= len(jpegSuffix) || !strings.HasSuffix(name, jpegSuffix) {
			continue
		}
		// Symlinks count when they resolve to a regular file.
		if entry.Type()&fs.ModeSymlink != 0 && !isRegularFile(filepath.Join(root, name)) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		photos   []Photo
		jpegOnly []string
	)
	for _, name := range names {
		stem := strings.TrimSuffix(name, jpegSuffix)
		rawPath := filepath.Join(root, stem+rawSuffix)
		if !isRegularFile(rawPath) {
			jpegOnly = append(jpegOnly, name)
			continue
		}
		photos = append(photos, Photo{
			ID:       stem,
			JPEGPath: filepath.Join(root, name),
			RAWPath:  rawPath,
		})
	}

	cat, err := New(root, photos, jpegOnly)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if cat.Len() == 0 {
		return cat, fmt.Errorf("%w in %s (%d JPEG files without %s partner)", ErrNoPhotosFound, root, len(jpegOnly), rawSuffix)
	}
	return cat, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
