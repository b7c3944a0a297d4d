package relocation

import (
	"errors"
	"fmt"
	"io/fs"

	"phototriage/internal/fileutil"
)

// Per-photo failure classes. Every error recorded against a photo matches
// exactly one of these via errors.Is.
var (
	ErrDestinationCollision = errors.New("destination collision")
	ErrSourceMissing        = errors.New("source missing")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrIOFailure            = errors.New("i/o failure")
)

// CompensationError reports a failed second step whose rollback also failed.
// It unwraps to the original failure so classification is unchanged.
type CompensationError struct {
	Err         error
	RollbackErr error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("%v (rollback failed: %v)", e.Err, e.RollbackErr)
}

func (e *CompensationError) Unwrap() error { return e.Err }

// classify tags a file primitive error with its failure class and the step
// that produced it. A nil err stays nil.
func classify(step string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", failureClass(err), step, err)
}

func failureClass(err error) error {
	switch {
	case errors.Is(err, fileutil.ErrDestinationExists):
		return ErrDestinationCollision
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	case errors.Is(err, fileutil.ErrDestinationDir):
		return ErrIOFailure
	case errors.Is(err, fs.ErrNotExist):
		return ErrSourceMissing
	default:
		return ErrIOFailure
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, ErrDestinationCollision):
		return "remove or rename the existing file at the destination, then move again"
	case errors.Is(err, ErrSourceMissing):
		return "the file disappeared from the input directory; rescan before moving"
	case errors.Is(err, ErrPermissionDenied):
		return "check write permissions on the input and destination directories"
	default:
		return "check that the destination is mounted and has free space"
	}
}
