package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"phototriage/internal/catalog"
	"phototriage/internal/logging"
)

func newRateCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "rate <photo> <rating>",
		Short: "Rate a photo (0 unrated, 1 delete, 2 edit, 3 jpeg, 4 backup)",
		Long: `Rate a photo by ID or by its number in 'phototriage scan'.

Ratings decide where 'phototriage move' puts the pair:
  4 backup  RAW to raw_backup_dir, JPEG to jpeg_dir
  3 jpeg    RAW to delete_dir,     JPEG to jpeg_dir
  2 edit    RAW to raw_edit_dir,   JPEG to delete_dir
  1 delete  both to delete_dir
  0 unrated stays in place`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := catalog.ParseRating(args[1])
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
			if err := s.catalog.Rate(idx, rating); err != nil {
				return err
			}
			photo, _ := s.catalog.Get(idx)
			if err := s.store.SaveMark(commandCtx(cmd), s.catalog.InputDir(), photo); err != nil {
				return fmt.Errorf("save rating: %w", err)
			}
			s.logger.Debug("photo rated",
				logging.String(logging.FieldPhotoID, photo.ID),
				logging.Int(logging.FieldRating, int(rating)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%s rated %s\n", photo.ID, rating)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Input directory (defaults to photos.input_dir)")
	return cmd
}
