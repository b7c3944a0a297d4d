package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"phototriage/internal/catalog"
	"phototriage/internal/preflight"
	"phototriage/internal/relocation"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status [dir]",
		Short: "Show how many photos carry each rating",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd, firstArg(args), false)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			hist := s.catalog.Histogram()
			fmt.Fprintf(out, "%s in %s\n", plural(s.catalog.Len(), "photo"), s.catalog.InputDir())
			fmt.Fprint(out, renderHistogramTable(hist, ctx.destinations()))

			rated := hist.Total() - hist[catalog.Unrated]
			switch {
			case rated == 0:
				fmt.Fprintln(out, renderStatusLine("Move", statusInfo, "nothing rated yet", colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("Move", statusOK, plural(rated, "photo")+" ready for 'phototriage move'", colorize))
			}
			if n := len(s.catalog.JPEGOnly()); n > 0 {
				fmt.Fprintln(out, renderStatusLine("Unpaired", statusWarn, plural(n, "JPEG")+" without a RAW partner", colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Directories", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range preflightLines(preflight.RunAll(s.cfg, s.catalog.InputDir()), colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

// renderHistogramTable lists ratings highest first with the directories each
// one relocates into.
func renderHistogramTable(hist catalog.Histogram, dests relocation.Destinations) string {
	ratings := catalog.Ratings()
	rows := make([][]string, 0, len(ratings)+1)
	for i := len(ratings) - 1; i >= 0; i-- {
		rating := ratings[i]
		rawDir, jpegDir := "stays", "stays"
		if route, ok := dests.Route(rating); ok {
			rawDir, jpegDir = route.RAWDir, route.JPEGDir
		}
		rows = append(rows, []string{
			strconv.Itoa(int(rating)),
			rating.Title(),
			strconv.Itoa(hist[rating]),
			rawDir,
			jpegDir,
		})
	}
	return renderTableWithFooter(
		[]string{"Key", "Rating", "Photos", "RAW to", "JPEG to"},
		rows,
		[]string{"", "Total", strconv.Itoa(hist.Total()), "", ""},
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	)
}
