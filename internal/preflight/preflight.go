package preflight

import (
	"phototriage/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string

	// Warning marks a passed check the user should still know about.
	Warning bool
}

// RunAll checks the directories a relocation touches. inputDir may be empty
// when no input directory is known yet.
func RunAll(cfg *config.Config, inputDir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if inputDir != "" {
		results = append(results, CheckDirectoryAccess("Input", inputDir))
	}

	dests := []struct {
		name string
		path string
	}{
		{"RAW backup", cfg.Destinations.RAWBackupDir},
		{"RAW edit", cfg.Destinations.RAWEditDir},
		{"JPEG", cfg.Destinations.JPEGDir},
		{"Delete", cfg.Destinations.DeleteDir},
	}
	for _, d := range dests {
		result := CheckDirectoryAccess(d.name, d.path)
		if result.Passed && inputDir != "" {
			result = CheckSameFilesystem(result, inputDir, d.path)
		}
		results = append(results, result)
	}

	results = append(results, CheckDirectoryAccess("State", cfg.Paths.StateDir))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
