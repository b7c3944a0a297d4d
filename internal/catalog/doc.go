// Package catalog models the photos found in one triage input directory.
//
// A Catalog is built once per session by Scan, which pairs every JPEG with the
// RAW file sharing its stem. JPEGs without a RAW partner are reported through
// JPEGOnly and never enter the photo sequence. Photos keep the order they had
// at scan time, so index-based access stays valid for the catalog's lifetime.
//
// Ratings and rotations are the only mutable state. Rate keeps the histogram in
// step with the photo set; Rotate is a display hint that relocation ignores.
// The package performs no file moves; internal/relocation reads ratings
// through PhotosWithRating and does the I/O.
package catalog
