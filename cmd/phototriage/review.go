package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"phototriage/internal/catalog"
)

const reviewHelp = "keys: 0-4 rate, n next, p previous, l/r rotate, m move, q quit"

func newReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review [dir]",
		Short: "Step through photos and rate them from the keyboard",
		Long: `Step through the photos of an input directory one at a time.

Type a key and press enter:
  0-4  rate the current photo and advance
  n/p  next / previous photo (wraps around)
  l/r  rotate left / right
  m    move rated photos now
  q    quit (ratings are kept)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd, firstArg(args), true)
			if err != nil {
				return err
			}
			defer s.Close()

			r := &reviewer{
				cmd: cmd,
				s:   s,
				app: ctx,
				in:  bufio.NewReader(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
			}
			return r.loop()
		},
	}
}

// reviewer owns the cursor for one interactive session.
type reviewer struct {
	cmd    *cobra.Command
	s      *triageSession
	app    *commandContext
	in     *bufio.Reader
	out    io.Writer
	cursor int
}

func (r *reviewer) loop() error {
	fmt.Fprintln(r.out, reviewHelp)
	for {
		r.show()
		line, err := r.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read key: %w", err)
		}
		key := strings.ToLower(strings.TrimSpace(line))
		if key == "" && errors.Is(err, io.EOF) {
			r.summary()
			return nil
		}

		done, cmdErr := r.handle(key)
		if cmdErr != nil {
			if errors.Is(cmdErr, errMoveIncomplete) || errors.Is(cmdErr, errPreflightFailed) {
				return cmdErr
			}
			fmt.Fprintf(r.out, "  %v\n", cmdErr)
		}
		if done {
			return nil
		}
		if errors.Is(err, io.EOF) {
			r.summary()
			return nil
		}
	}
}

func (r *reviewer) handle(key string) (bool, error) {
	cat := r.s.catalog
	switch key {
	case "q", "quit":
		r.summary()
		return true, nil
	case "n", "next":
		r.step(1)
	case "p", "prev":
		r.step(-1)
	case "l", "r":
		delta := 90
		if key == "l" {
			delta = -90
		}
		if _, err := cat.Rotate(r.cursor, delta); err != nil {
			return false, err
		}
		return false, r.persist()
	case "m", "move":
		if err := r.persist(); err != nil {
			return false, err
		}
		return true, runMove(r.cmd, r.s, r.app.destinations(), r.in, false)
	case "?", "h", "help":
		fmt.Fprintln(r.out, reviewHelp)
	default:
		rating, err := catalog.ParseRating(key)
		if err != nil {
			return false, fmt.Errorf("unknown key %q (%s)", key, reviewHelp)
		}
		if err := cat.Rate(r.cursor, rating); err != nil {
			return false, err
		}
		if err := r.persist(); err != nil {
			return false, err
		}
		r.step(1)
	}
	return false, nil
}

// step moves the cursor by delta, wrapping past either end.
func (r *reviewer) step(delta int) {
	n := r.s.catalog.Len()
	if n == 0 {
		return
	}
	r.cursor = ((r.cursor+delta)%n + n) % n
}

func (r *reviewer) persist() error {
	photo, err := r.s.catalog.Get(r.cursor)
	if err != nil {
		return err
	}
	if err := r.s.store.SaveMark(commandCtx(r.cmd), r.s.catalog.InputDir(), photo); err != nil {
		return fmt.Errorf("save mark: %w", err)
	}
	return nil
}

func (r *reviewer) show() {
	photo, err := r.s.catalog.Get(r.cursor)
	if err != nil {
		return
	}
	fmt.Fprintf(r.out, "[%d/%d] %s  %s  rotation %s\n  %s\n> ",
		r.cursor+1, r.s.catalog.Len(), photo.ID, photo.Rating, formatRotation(photo.Rotation), photo.JPEGPath)
}

func (r *reviewer) summary() {
	fmt.Fprintln(r.out)
	fmt.Fprint(r.out, renderHistogramTable(r.s.catalog.Histogram(), r.app.destinations()))
}
