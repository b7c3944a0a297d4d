package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rating is the user's verdict on a photo, 0 (unrated) through 4.
type Rating int

const (
	Unrated Rating = iota
	RatingDelete
	RatingEdit
	RatingJPEG
	RatingBackup
)

// MinRating and MaxRating bound the valid rating range.
const (
	MinRating = Unrated
	MaxRating = RatingBackup
)

var ratingLabels = [...]string{
	Unrated:      "unrated",
	RatingDelete: "delete",
	RatingEdit:   "edit",
	RatingJPEG:   "jpeg",
	RatingBackup: "backup",
}

// Ratings returns every valid rating in ascending order.
func Ratings() []Rating {
	return []Rating{Unrated, RatingDelete, RatingEdit, RatingJPEG, RatingBackup}
}

// Valid reports whether r is within 0..4.
func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

// Label returns the lowercase name shown next to the rating key.
func (r Rating) Label() string {
	if !r.Valid() {
		return "rating(" + strconv.Itoa(int(r)) + ")"
	}
	return ratingLabels[r]
}

// Heading returns the upper-cased label used for report headings.
func (r Rating) Heading() string {
	return cases.Upper(language.Und).String(r.Label())
}

// Title returns the title-cased label used in tables.
func (r Rating) Title() string {
	return cases.Title(language.Und).String(r.Label())
}

func (r Rating) String() string {
	return fmt.Sprintf("[%d] %s", int(r), r.Label())
}

// ParseRating accepts a digit or a label ("backup", "Delete").
func ParseRating(value string) (Rating, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if n, err := strconv.Atoi(trimmed); err == nil {
		r := Rating(n)
		if !r.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidRating, n)
		}
		return r, nil
	}
	for i, label := range ratingLabels {
		if label == trimmed {
			return Rating(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRating, value)
}

// Histogram maps each rating to the number of photos carrying it.
type Histogram map[Rating]int

// Total sums every bucket.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}
