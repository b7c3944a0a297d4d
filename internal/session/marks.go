package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"phototriage/internal/catalog"
)

// Mark is the persisted rating and rotation of one photo.
type Mark struct {
	PhotoID   string
	Rating    catalog.Rating
	Rotation  int
	UpdatedAt time.Time
}

const upsertMarkSQL = `INSERT INTO marks (input_dir, photo_id, rating, rotation, updated_at)
    VALUES (?, ?, ?, ?, ?)
    ON CONFLICT(input_dir, photo_id) DO UPDATE SET
        rating = excluded.rating,
        rotation = excluded.rotation,
        updated_at = excluded.updated_at`

// SaveMark stores the current rating and rotation of photo.
func (s *Store) SaveMark(ctx context.Context, inputDir string, photo catalog.Photo) error {
	if err := s.exec(ctx, upsertMarkSQL,
		inputDir, photo.ID, int(photo.Rating), photo.Rotation, formatTime(time.Now()),
	); err != nil {
		return fmt.Errorf("save mark %s: %w", photo.ID, err)
	}
	return nil
}

// SaveCatalog stores every photo of cat that carries a rating or rotation,
// and drops marks of photos that were reset to defaults.
func (s *Store) SaveCatalog(ctx context.Context, cat *catalog.Catalog) error {
	ctx = ensureContext(ctx)
	now := formatTime(time.Now())
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, photo := range cat.Photos() {
			if photo.Rating == catalog.Unrated && photo.Rotation == 0 {
				if _, err := tx.ExecContext(ctx,
					"DELETE FROM marks WHERE input_dir = ? AND photo_id = ?", cat.InputDir(), photo.ID,
				); err != nil {
					return err
				}
				continue
			}
			if _, err := tx.ExecContext(ctx, upsertMarkSQL,
				cat.InputDir(), photo.ID, int(photo.Rating), photo.Rotation, now,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save catalog marks: %w", err)
	}
	return nil
}

// Marks returns every stored mark for inputDir keyed by photo ID.
func (s *Store) Marks(ctx context.Context, inputDir string) (map[string]Mark, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT photo_id, rating, rotation, updated_at FROM marks WHERE input_dir = ? ORDER BY photo_id",
		inputDir,
	)
	if err != nil {
		return nil, fmt.Errorf("query marks: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Mark)
	for rows.Next() {
		var (
			m          Mark
			rating     int
			updatedRaw string
		)
		if err := rows.Scan(&m.PhotoID, &rating, &m.Rotation, &updatedRaw); err != nil {
			return nil, fmt.Errorf("scan mark: %w", err)
		}
		m.Rating = catalog.Rating(rating)
		m.UpdatedAt = parseTime(updatedRaw)
		out[m.PhotoID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate marks: %w", err)
	}
	return out, nil
}

// ClearMarks deletes every stored mark for inputDir.
func (s *Store) ClearMarks(ctx context.Context, inputDir string) error {
	if err := s.exec(ctx, "DELETE FROM marks WHERE input_dir = ?", inputDir); err != nil {
		return fmt.Errorf("clear marks: %w", err)
	}
	return nil
}

// Restore applies stored marks to a freshly scanned catalog and returns how
// many were applied. Marks for photos no longer present are ignored.
func (s *Store) Restore(ctx context.Context, cat *catalog.Catalog) (int, error) {
	marks, err := s.Marks(ctx, cat.InputDir())
	if err != nil {
		return 0, err
	}
	applied := 0
	for id, mark := range marks {
		idx, err := cat.Lookup(id)
		if errors.Is(err, catalog.ErrUnknownPhoto) {
			continue
		}
		if err != nil {
			return applied, err
		}
		if err := cat.Rate(idx, mark.Rating); err != nil {
			return applied, fmt.Errorf("restore %s: %w", id, err)
		}
		photo, err := cat.Get(idx)
		if err != nil {
			return applied, err
		}
		if _, err := cat.Rotate(idx, mark.Rotation-photo.Rotation); err != nil {
			return applied, fmt.Errorf("restore %s: %w", id, err)
		}
		applied++
	}
	return applied, nil
}
