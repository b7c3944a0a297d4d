// Package main hosts the phototriage CLI entrypoint and command graph.
//
// The Cobra-based command tree scans an input directory into a catalog,
// restores saved ratings from the session store, and lets the user rate,
// rotate and review photos before relocating them. Configuration resolution,
// logging setup, the session lock and store access are centralized in
// commandContext so subcommands only deal with presentation.
//
// Keep this package lean: behaviour belongs in internal/catalog,
// internal/relocation and internal/session; commands here only surface it.
package main
