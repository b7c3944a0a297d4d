package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"phototriage/internal/session"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON, asYAML bool

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List past relocation runs or show one run in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := session.Open(cfg)
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			runCtx := commandCtx(cmd)
			if len(args) == 0 {
				runs, err := store.Runs(runCtx, limit)
				if err != nil {
					return err
				}
				if asJSON || asYAML {
					views := make([]runView, 0, len(runs))
					for _, run := range runs {
						views = append(views, newRunView(run, nil))
					}
					return writeStructured(cmd, asYAML, views)
				}
				if len(runs) == 0 {
					fmt.Fprintln(out, "No relocation runs recorded")
					return nil
				}
				fmt.Fprint(out, renderRunsTable(runs))
				return nil
			}

			run, err := findRun(cmd, store, args[0])
			if err != nil {
				return err
			}
			results, err := store.RunResults(runCtx, run.ID)
			if err != nil {
				return err
			}
			if asJSON || asYAML {
				return writeStructured(cmd, asYAML, newRunView(run, results))
			}
			fmt.Fprintf(out, "Run %s\n", run.ID)
			fmt.Fprintf(out, "Directory: %s\n", run.InputDir)
			fmt.Fprintf(out, "Started:   %s (%s)\n", run.Started.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.Started))
			fmt.Fprintf(out, "Result:    %d moved, %d failed, %d untouched\n", run.Moved, run.Failed, run.Untouched)
			if len(results) > 0 {
				fmt.Fprint(out, renderRunResultsTable(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Output as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	return cmd
}

func writeStructured(cmd *cobra.Command, asYAML bool, v any) error {
	if asYAML {
		return writeYAML(cmd, v)
	}
	return writeJSON(cmd, v)
}

// findRun resolves a full run ID or a unique prefix of one.
func findRun(cmd *cobra.Command, store *session.Store, ref string) (session.Run, error) {
	runs, err := store.Runs(commandCtx(cmd), 0)
	if err != nil {
		return session.Run{}, err
	}
	ref = strings.TrimSpace(ref)
	var matches []session.Run
	for _, run := range runs {
		if run.ID == ref {
			return run, nil
		}
		if ref != "" && strings.HasPrefix(run.ID, ref) {
			matches = append(matches, run)
		}
	}
	switch len(matches) {
	case 0:
		return session.Run{}, fmt.Errorf("no relocation run matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return session.Run{}, fmt.Errorf("run id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func renderRunsTable(runs []session.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			humanize.Time(run.Started),
			run.InputDir,
			strconv.Itoa(run.Moved),
			strconv.Itoa(run.Failed),
			strconv.Itoa(run.Untouched),
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Directory", "Moved", "Failed", "Untouched"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}

func renderRunResultsTable(results []session.RunResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		detail := r.Error
		if detail == "" {
			detail = r.RAWTarget
		}
		rows = append(rows, []string{
			r.PhotoID,
			r.Rating.Title(),
			string(r.Outcome),
			detail,
		})
	}
	return renderTable(
		[]string{"Photo", "Rating", "Outcome", "RAW target / error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
