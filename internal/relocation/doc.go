// Package relocation moves rated RAW+JPEG pairs into their destination
// directories.
//
// Each rating group (4, 3, 2, 1 in that order) is routed to a RAW and a JPEG
// directory. Every photo is moved as a unit: the RAW goes first, and if the
// JPEG cannot follow the RAW is moved back. Once both files have moved, the
// RAW is copied back into the input directory as an archival copy. Nothing is
// ever overwritten; a same-named file at the target fails that photo only.
//
// Engine.Run returns a structured Result; Relocate wraps it and returns the
// plain-text report for each rating.
package relocation
