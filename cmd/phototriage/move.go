package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"phototriage/internal/catalog"
	"phototriage/internal/logging"
	"phototriage/internal/preflight"
	"phototriage/internal/relocation"
)

func newMoveCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "move [dir]",
		Short: "Relocate every rated photo pair to its destination",
		Long: `Relocate every rated photo pair to its destination directories.

Each pair moves as a unit: if the JPEG cannot follow the RAW, the RAW is put
back. After a successful move a copy of the RAW is left in the input
directory. Files that already exist at a destination are never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd, firstArg(args), true)
			if err != nil {
				return err
			}
			defer s.Close()

			return runMove(cmd, s, ctx.destinations(), bufio.NewReader(cmd.InOrStdin()), assumeYes)
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

var (
	errMoveIncomplete  = errors.New("some photos could not be moved")
	errPreflightFailed = errors.New("directory check failed; nothing was moved")
)

// runMove confirms, relocates and journals one run. Photos left in the input
// directory keep their saved marks, so failed ones are retried next run.
func runMove(cmd *cobra.Command, s *triageSession, dests relocation.Destinations, in *bufio.Reader, assumeYes bool) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	hist := s.catalog.Histogram()
	rated := hist.Total() - hist[catalog.Unrated]
	if rated == 0 {
		fmt.Fprintln(out, renderStatusLine("Move", statusInfo, "nothing to move; every photo is unrated", colorize))
		return nil
	}

	if failed := preflight.Failed(preflight.RunAll(s.cfg, s.catalog.InputDir())); len(failed) > 0 {
		for _, line := range preflightLines(failed, colorize) {
			fmt.Fprintln(out, line)
		}
		return fmt.Errorf("%w: %s", errPreflightFailed, failed[0].Detail)
	}

	if !assumeYes {
		fmt.Fprint(out, renderHistogramTable(hist, dests))
		ok, err := confirm(in, out, fmt.Sprintf("Move %s?", plural(rated, "photo")))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted; nothing was moved.")
			return nil
		}
	}

	runCtx := commandCtx(cmd)
	result := relocation.NewEngine(s.logger).Run(runCtx, s.catalog, dests)

	reports := result.Reports()
	for _, rating := range relocation.ProcessingOrder() {
		report := reports[rating]
		if report == "" {
			continue
		}
		for _, line := range renderSectionHeader(rating.Heading(), colorize) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, report)
		fmt.Fprintln(out)
	}

	run, err := s.store.RecordRun(runCtx, result)
	if err != nil {
		logging.WarnWithContext(s.logger, "relocation journal not written", "journal_write_failed",
			logging.String(logging.FieldRunID, result.RunID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "run will be missing from 'phototriage history'"),
		)
	}
	if err := keepUnmovedMarks(cmd, s, result); err != nil {
		return err
	}

	summary := fmt.Sprintf("%s moved, %s left in place (run %s)",
		plural(result.Moved(), "photo"), plural(result.Failed(), "photo"), shortID(result.RunID))
	if result.Failed() > 0 {
		fmt.Fprintln(out, renderStatusLine("Move", statusError, summary, colorize))
		return fmt.Errorf("%w: %d of %d", errMoveIncomplete, result.Failed(), result.Failed()+result.Moved())
	}
	fmt.Fprintln(out, renderStatusLine("Move", statusOK, summary, colorize))
	if run.ID != "" {
		s.logger.Info("relocation journaled", logging.String(logging.FieldRunID, run.ID))
	}
	return nil
}

// keepUnmovedMarks resets the saved marks of the directory to the photos still
// in it: failed photos keep their rating for a retry and unrated photos keep
// their rotation.
func keepUnmovedMarks(cmd *cobra.Command, s *triageSession, result *relocation.Result) error {
	ctx := commandCtx(cmd)
	moved := make(map[string]bool)
	for _, outcome := range result.Outcomes() {
		if outcome.Outcome.Succeeded() {
			moved[outcome.PhotoID] = true
		}
	}
	if err := s.store.ClearMarks(ctx, s.catalog.InputDir()); err != nil {
		return fmt.Errorf("clear saved ratings: %w", err)
	}
	for _, photo := range s.catalog.Photos() {
		if moved[photo.ID] || (photo.Rating == catalog.Unrated && photo.Rotation == 0) {
			continue
		}
		if err := s.store.SaveMark(ctx, s.catalog.InputDir(), photo); err != nil {
			return fmt.Errorf("keep mark of %s: %w", photo.ID, err)
		}
	}
	return nil
}

// confirm asks a yes/no question; anything but y/yes declines.
func confirm(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	fmt.Fprintln(out)
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
