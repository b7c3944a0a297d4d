package catalog

import (
	"fmt"
	"path/filepath"
)

// Photo is one RAW+JPEG pair. ID is the JPEG filename without extension.
type Photo struct {
	ID       string
	JPEGPath string
	RAWPath  string
	Rating   Rating
	Rotation int
}

// JPEGName returns the JPEG's base filename.
func (p Photo) JPEGName() string { return filepath.Base(p.JPEGPath) }

// RAWName returns the RAW's base filename.
func (p Photo) RAWName() string { return filepath.Base(p.RAWPath) }

// Catalog is the ordered set of paired photos found in one input directory.
// It is not safe for concurrent use.
type Catalog struct {
	inputDir  string
	photos    []Photo
	index     map[string]int
	jpegOnly  []string
	histogram Histogram
	relocated bool
}

// New builds a catalog from already-paired photos. Ratings and rotations on
// the supplied photos are kept; IDs must be unique.
func New(inputDir string, photos []Photo, jpegOnly []string) (*Catalog, error) {
	c := &Catalog{
		inputDir: inputDir,
		photos:   make([]Photo, 0, len(photos)),
		index:    make(map[string]int, len(photos)),
		jpegOnly: append([]string(nil), jpegOnly...),
	}
	for _, p := range photos {
		if !p.Rating.Valid() {
			return nil, fmt.Errorf("photo %s: %w: %d", p.ID, ErrInvalidRating, int(p.Rating))
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate photo id %q", p.ID)
		}
		c.index[p.ID] = len(c.photos)
		c.photos = append(c.photos, p)
	}
	c.recount()
	return c, nil
}

// InputDir returns the scanned directory.
func (c *Catalog) InputDir() string { return c.inputDir }

// Len returns the number of paired photos.
func (c *Catalog) Len() int { return len(c.photos) }

// JPEGOnly returns the JPEG filenames that had no RAW partner.
func (c *Catalog) JPEGOnly() []string {
	return append([]string(nil), c.jpegOnly...)
}

// Get returns a copy of the photo at index.
func (c *Catalog) Get(index int) (Photo, error) {
	if err := c.checkIndex(index); err != nil {
		return Photo{}, err
	}
	return c.photos[index], nil
}

// Lookup returns the catalog index of the photo with the given ID.
func (c *Catalog) Lookup(id string) (int, error) {
	idx, ok := c.index[id]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownPhoto, id)
	}
	return idx, nil
}

// Photos returns a copy of every photo in catalog order.
func (c *Catalog) Photos() []Photo {
	return append([]Photo(nil), c.photos...)
}

// Rate sets the rating of the photo at index and refreshes the histogram.
func (c *Catalog) Rate(index int, rating Rating) error {
	if !rating.Valid() {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidRating, int(rating), MinRating, MaxRating)
	}
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.photos[index].Rating = rating
	c.recount()
	return nil
}

// Rotate adds delta degrees to the photo's display rotation and returns the
// normalized result in [0, 360). Delta must be a multiple of 90.
func (c *Catalog) Rotate(index int, delta int) (int, error) {
	if delta%90 != 0 {
		return 0, fmt.Errorf("%w: %d is not a multiple of 90", ErrInvalidRotation, delta)
	}
	if err := c.checkIndex(index); err != nil {
		return 0, err
	}
	c.photos[index].Rotation = normalizeRotation(c.photos[index].Rotation + delta)
	return c.photos[index].Rotation, nil
}

// PhotosWithRating returns the photos currently carrying rating, in catalog
// order. The result is computed on every call.
func (c *Catalog) PhotosWithRating(rating Rating) []Photo {
	var out []Photo
	for _, p := range c.photos {
		if p.Rating == rating {
			out = append(out, p)
		}
	}
	return out
}

// Histogram returns a snapshot of the rating counts. Every valid rating has a
// bucket, including empty ones.
func (c *Catalog) Histogram() Histogram {
	out := make(Histogram, len(c.histogram))
	for r, n := range c.histogram {
		out[r] = n
	}
	return out
}

// MarkRelocated records that the files behind this catalog have been moved.
func (c *Catalog) MarkRelocated() { c.relocated = true }

// Relocated reports whether MarkRelocated has been called.
func (c *Catalog) Relocated() bool { return c.relocated }

func (c *Catalog) checkIndex(index int) error {
	if index < 0 || index >= len(c.photos) {
		return fmt.Errorf("%w: %d (catalog has %d photos)", ErrIndexOutOfRange, index, len(c.photos))
	}
	return nil
}

func (c *Catalog) recount() {
	h := make(Histogram, len(ratingLabels))
	for _, r := range Ratings() {
		h[r] = 0
	}
	for _, p := range c.photos {
		h[p.Rating]++
	}
	c.histogram = h
}

func normalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
