package catalog

import "errors"

var (
	ErrNoPhotosFound   = errors.New("no photos found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrInvalidRotation = errors.New("invalid rotation")
	ErrUnknownPhoto    = errors.New("unknown photo")
)
