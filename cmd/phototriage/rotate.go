package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"phototriage/internal/catalog"
	"phototriage/internal/logging"
)

func newRotateCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "rotate <photo> <left|right|degrees>",
		Short: "Rotate a photo's preview in 90 degree steps",
		Long: `Rotate a photo by ID or by its number in 'phototriage scan'.

Rotation is display metadata only; files are never rewritten. Use "left"
or "right" for a quarter turn, or pass degrees after "--" when negative:

  phototriage rotate IMG_0001 left
  phototriage rotate 3 180
  phototriage rotate -- 3 -90`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := parseRotation(args[1])
			if err != nil {
				return err
			}
			s, err := ctx.openSession(cmd, dir, true)
			if err != nil {
				return err
			}
			defer s.Close()

			idx, err := resolvePhoto(s.catalog, args[0])
			if err != nil {
				return err
			}
			rotation, err := s.catalog.Rotate(idx, delta)
			if err != nil {
				return err
			}
			photo, _ := s.catalog.Get(idx)
			if err := s.store.SaveMark(commandCtx(cmd), s.catalog.InputDir(), photo); err != nil {
				return fmt.Errorf("save rotation: %w", err)
			}
			s.logger.Debug("photo rotated",
				logging.String(logging.FieldPhotoID, photo.ID),
				logging.Int("rotation", rotation),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%s rotated to %d°\n", photo.ID, rotation)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Input directory (defaults to photos.input_dir)")
	return cmd
}

func parseRotation(value string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "l", "left", "ccw":
		return -90, nil
	case "r", "right", "cw":
		return 90, nil
	}
	deg, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(value), "°"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", catalog.ErrInvalidRotation, value)
	}
	return deg, nil
}
