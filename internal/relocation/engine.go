package relocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"phototriage/internal/catalog"
	"phototriage/internal/fileutil"
	"phototriage/internal/logging"
)

// Destinations are the four target directories of a relocation run.
type Destinations struct {
	Backup string
	Edit   string
	JPEG   string
	Delete string
}

// Route names where the two files of a rating group go.
type Route struct {
	Rating  catalog.Rating
	RAWDir  string
	JPEGDir string
}

// Route returns the route for rating. Unrated photos have no route.
func (d Destinations) Route(rating catalog.Rating) (Route, bool) {
	switch rating {
	case catalog.RatingBackup:
		return Route{Rating: rating, RAWDir: d.Backup, JPEGDir: d.JPEG}, true
	case catalog.RatingJPEG:
		return Route{Rating: rating, RAWDir: d.Delete, JPEGDir: d.JPEG}, true
	case catalog.RatingEdit:
		return Route{Rating: rating, RAWDir: d.Edit, JPEGDir: d.Delete}, true
	case catalog.RatingDelete:
		return Route{Rating: rating, RAWDir: d.Delete, JPEGDir: d.Delete}, true
	default:
		return Route{Rating: rating}, false
	}
}

// processingOrder is the fixed group order. Unrated is never processed.
var processingOrder = []catalog.Rating{
	catalog.RatingBackup,
	catalog.RatingJPEG,
	catalog.RatingEdit,
	catalog.RatingDelete,
}

// ProcessingOrder returns the ratings relocated by a run, in the order they run.
func ProcessingOrder() []catalog.Rating {
	return append([]catalog.Rating(nil), processingOrder...)
}

// Engine relocates rated photo pairs. It is not safe for concurrent use.
type Engine struct {
	logger *slog.Logger
	move   func(src, dstDir string) (string, error)
	copy   func(src, dstDir string) (string, error)
	now    func() time.Time
}

// NewEngine returns an engine that moves files with the no-clobber primitives.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		logger: logging.NewComponentLogger(logger, "relocation"),
		move:   fileutil.MoveNoClobber,
		copy:   fileutil.CopyNoClobber,
		now:    time.Now,
	}
}

// Relocate runs a relocation with a no-op logger and returns the per-rating
// report text. The map always has all five ratings; unrated and empty groups
// map to "".
func Relocate(cat *catalog.Catalog, dests Destinations) map[catalog.Rating]string {
	return NewEngine(nil).Run(context.Background(), cat, dests).Reports()
}

// Run relocates every rated photo of cat. Per-photo failures are recorded in
// the result and never abort the run. ctx is checked between rating groups
// only; groups not reached are marked skipped. After the run the catalog is
// marked relocated and a second run makes no moves.
func (e *Engine) Run(ctx context.Context, cat *catalog.Catalog, dests Destinations) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	runID, ok := logging.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = logging.WithRunID(ctx, runID)
	}
	ctx = logging.WithInputDir(ctx, cat.InputDir())
	logger := logging.WithContext(ctx, e.logger)

	result := newResult(runID, cat.InputDir())
	result.Started = e.now()
	defer func() { result.Finished = e.now() }()

	if cat.Relocated() {
		result.AlreadyRelocated = true
		logging.WarnWithContext(logger, "catalog already relocated", "relocation_repeated",
			logging.String(logging.FieldErrorHint, "rescan the input directory before moving again"),
			logging.String(logging.FieldImpact, "no files were moved"),
		)
		return result
	}
	result.Untouched = len(cat.PhotosWithRating(catalog.Unrated))

	for _, rating := range processingOrder {
		route, _ := dests.Route(rating)
		group := result.Groups[rating]
		group.Route = route
		if err := ctx.Err(); err != nil {
			group.Skipped = true
			logging.WarnWithContext(logger, "relocation stopped before rating group", "relocation_canceled",
				logging.Int(logging.FieldRating, int(rating)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "photos in this group were left in place"),
			)
			continue
		}
		for _, photo := range cat.PhotosWithRating(rating) {
			group.Photos = append(group.Photos, e.relocatePhoto(logger, route, photo))
		}
		if group.Total() > 0 {
			logger.Info("rating group relocated",
				logging.Int(logging.FieldRating, int(rating)),
				logging.Int("succeeded", group.Succeeded()),
				logging.Int("total", group.Total()),
				logging.String("raw_dest", route.RAWDir),
				logging.String("jpeg_dest", route.JPEGDir),
			)
		}
	}

	cat.MarkRelocated()
	return result
}

// relocatePhoto moves the RAW, then the JPEG, rolling the RAW back if the
// JPEG cannot follow. On success the relocated RAW is copied back into its
// original directory; a failed copy is reported but not rolled back.
func (e *Engine) relocatePhoto(logger *slog.Logger, route Route, photo catalog.Photo) PhotoOutcome {
	out := PhotoOutcome{
		PhotoID:  photo.ID,
		RAWPath:  photo.RAWPath,
		JPEGPath: photo.JPEGPath,
		Outcome:  OutcomeFailed,
	}
	photoLogger := logger.With(
		logging.String(logging.FieldPhotoID, photo.ID),
		logging.Int(logging.FieldRating, int(route.Rating)),
	)

	if err := checkRoute(route); err != nil {
		out.Err = err
		e.logFailure(photoLogger, out, "photo left in input directory")
		return out
	}

	rawHome := filepath.Dir(photo.RAWPath)
	err := Paired(
		func() error {
			target, err := e.move(photo.RAWPath, route.RAWDir)
			out.RAWTarget = target
			return classify("move RAW to "+route.RAWDir, err)
		},
		func() error {
			target, err := e.move(photo.JPEGPath, route.JPEGDir)
			out.JPEGTarget = target
			return classify("move JPEG to "+route.JPEGDir, err)
		},
		func() error {
			_, err := e.move(out.RAWTarget, rawHome)
			if err != nil {
				return classify("restore RAW to "+rawHome, err)
			}
			out.RAWTarget = ""
			return nil
		},
	)
	if err != nil {
		out.Err = err
		impact := "photo left in input directory"
		var stranded *CompensationError
		if errors.As(err, &stranded) {
			impact = "RAW stranded at " + out.RAWTarget + " while its JPEG stayed in the input directory"
		}
		e.logFailure(photoLogger, out, impact)
		return out
	}

	if _, err := e.copy(out.RAWTarget, rawHome); err != nil {
		out.Outcome = OutcomeArchiveFailed
		out.Err = classify("copy RAW back to "+rawHome, err)
		e.logFailure(photoLogger, out, "archival RAW copy missing from input directory")
		return out
	}

	out.Outcome = OutcomeMoved
	photoLogger.Debug("photo relocated",
		logging.String("raw_target", out.RAWTarget),
		logging.String("jpeg_target", out.JPEGTarget),
	)
	return out
}

func (e *Engine) logFailure(logger *slog.Logger, out PhotoOutcome, impact string) {
	logging.WarnWithContext(logger, "photo relocation incomplete", "photo_"+string(out.Outcome),
		logging.Error(out.Err),
		logging.String(logging.FieldErrorHint, errorHint(out.Err)),
		logging.String(logging.FieldImpact, impact),
	)
}

func checkRoute(route Route) error {
	var missing []string
	if strings.TrimSpace(route.RAWDir) == "" {
		missing = append(missing, "RAW")
	}
	if strings.TrimSpace(route.JPEGDir) == "" {
		missing = append(missing, "JPEG")
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: no %s destination configured for rating %d",
		ErrIOFailure, strings.Join(missing, " or "), int(route.Rating))
}
