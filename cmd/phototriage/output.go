package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"phototriage/internal/session"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML encodes v as YAML to the command's stdout.
func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

type runView struct {
	ID        string          `json:"id" yaml:"id"`
	InputDir  string          `json:"input_dir" yaml:"input_dir"`
	Started   time.Time       `json:"started" yaml:"started"`
	Finished  time.Time       `json:"finished" yaml:"finished"`
	Moved     int             `json:"moved" yaml:"moved"`
	Failed    int             `json:"failed" yaml:"failed"`
	Untouched int             `json:"untouched" yaml:"untouched"`
	Photos    []runResultView `json:"photos,omitempty" yaml:"photos,omitempty"`
}

type runResultView struct {
	PhotoID    string `json:"photo_id" yaml:"photo_id"`
	Rating     int    `json:"rating" yaml:"rating"`
	Outcome    string `json:"outcome" yaml:"outcome"`
	RAWTarget  string `json:"raw_target,omitempty" yaml:"raw_target,omitempty"`
	JPEGTarget string `json:"jpeg_target,omitempty" yaml:"jpeg_target,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newRunView(run session.Run, results []session.RunResult) runView {
	view := runView{
		ID:        run.ID,
		InputDir:  run.InputDir,
		Started:   run.Started,
		Finished:  run.Finished,
		Moved:     run.Moved,
		Failed:    run.Failed,
		Untouched: run.Untouched,
	}
	for _, r := range results {
		view.Photos = append(view.Photos, runResultView{
			PhotoID:    r.PhotoID,
			Rating:     int(r.Rating),
			Outcome:    string(r.Outcome),
			RAWTarget:  r.RAWTarget,
			JPEGTarget: r.JPEGTarget,
			Error:      r.Error,
		})
	}
	return view
}
