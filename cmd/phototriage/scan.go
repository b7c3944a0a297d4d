package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"phototriage/internal/catalog"
	"phototriage/internal/config"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List the RAW+JPEG pairs of an input directory",
		Long: `List the RAW+JPEG pairs of an input directory.

With --follow (-f), keeps watching the directory while a card is being
imported and prints the photo count whenever it changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd, firstArg(args), false)
			if err != nil {
				if follow && errors.Is(err, catalog.ErrNoPhotosFound) {
					return followEmptyDir(cmd, ctx, firstArg(args))
				}
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			cat := s.catalog
			fmt.Fprintf(out, "%s in %s\n", plural(cat.Len(), "photo"), cat.InputDir())
			fmt.Fprint(out, renderPhotoTable(cat.Photos()))

			if jpegOnly := cat.JPEGOnly(); len(jpegOnly) > 0 {
				fmt.Fprintf(out, "\nSkipped %s without a .%s partner:\n",
					plural(len(jpegOnly), "JPEG"), strings.TrimPrefix(s.cfg.Photos.RAWExtension, "."))
				for _, name := range jpegOnly {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}

			fmt.Fprintln(out)
			fmt.Fprint(out, renderHistogramTable(cat.Histogram(), ctx.destinations()))
			if !follow {
				return nil
			}
			s.Close()
			return followDir(cmd, s.cfg, cat.InputDir(), cat.Len())
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep watching the directory for new files")
	return cmd
}

// followEmptyDir starts watching a directory that holds no pairs yet, the
// usual state when a card import has just begun.
func followEmptyDir(cmd *cobra.Command, ctx *commandContext, dirArg string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	dir, err := cfg.ResolveInputDir(dirArg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "No photo pairs in %s yet\n", dir)
	return followDir(cmd, cfg, dir, 0)
}

// followDir rescans dir after each settled burst of changes and prints the
// photo count, starting from last.
func followDir(cmd *cobra.Command, cfg *config.Config, dir string, last int) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", dir)
	return watchDir(commandCtx(cmd), dir, watchSettle, func() {
		rescanned, err := catalog.Scan(dir, cfg.Photos.JPEGExtension, cfg.Photos.RAWExtension)
		if err != nil && rescanned == nil {
			fmt.Fprintf(out, "%s rescan failed: %v\n", time.Now().Format(time.TimeOnly), err)
			return
		}
		fmt.Fprintf(out, "%s %s (%+d), %s unpaired\n",
			time.Now().Format(time.TimeOnly), plural(rescanned.Len(), "photo"), rescanned.Len()-last, plural(len(rescanned.JPEGOnly()), "JPEG"))
		last = rescanned.Len()
	})
}

func renderPhotoTable(photos []catalog.Photo) string {
	rows := make([][]string, 0, len(photos))
	for i, p := range photos {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.ID,
			p.JPEGName(),
			p.RAWName(),
			p.Rating.String(),
			formatRotation(p.Rotation),
		})
	}
	return renderTable(
		[]string{"#", "ID", "JPEG", "RAW", "Rating", "Rotation"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func formatRotation(deg int) string {
	if deg == 0 {
		return "-"
	}
	return strconv.Itoa(deg) + "°"
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
