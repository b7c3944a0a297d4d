// Package preflight provides readiness checks for the directories a
// relocation reads from and writes to.
//
// The CLI "phototriage status" and "phototriage config validate" commands
// print every result; "phototriage move" refuses to start while a check
// fails, so a missing destination is caught before any file is touched.
package preflight
