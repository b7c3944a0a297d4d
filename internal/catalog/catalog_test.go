package catalog_test

import (
	"errors"
	"testing"

	"phototriage/internal/catalog"
)

func newCatalog(t *testing.T, ids ...string) *catalog.Catalog {
	t.Helper()
	photos := make([]catalog.Photo, 0, len(ids))
	for _, id := range ids {
		photos = append(photos, catalog.Photo{
			ID:       id,
			JPEGPath: "/in/" + id + ".JPG",
			RAWPath:  "/in/" + id + ".ARW",
		})
	}
	cat, err := catalog.New("/in", photos, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cat
}

func TestRateUpdatesOnlyTargetBucket(t *testing.T) {
	for _, r := range catalog.Ratings() {
		t.Run(r.Label(), func(t *testing.T) {
			cat := newCatalog(t, "a", "b", "c")
			if err := cat.Rate(1, r); err != nil {
				t.Fatalf("Rate: %v", err)
			}
			h := cat.Histogram()
			if h.Total() != cat.Len() {
				t.Fatalf("histogram total %d != len %d", h.Total(), cat.Len())
			}
			for _, other := range catalog.Ratings() {
				ids := map[string]bool{}
				for _, p := range cat.PhotosWithRating(other) {
					ids[p.ID] = true
				}
				if other == r && !ids["b"] {
					t.Fatalf("rating %d bucket missing photo b", r)
				}
				if other != r && ids["b"] {
					t.Fatalf("photo b leaked into bucket %d", other)
				}
				if h[other] != len(ids) {
					t.Fatalf("histogram[%d]=%d but %d photos carry it", other, h[other], len(ids))
				}
			}
		})
	}
}

func TestRateReratingMovesBetweenBuckets(t *testing.T) {
	cat := newCatalog(t, "a", "b")
	if err := cat.Rate(0, catalog.RatingBackup); err != nil {
		t.Fatal(err)
	}
	if err := cat.Rate(0, catalog.RatingDelete); err != nil {
		t.Fatal(err)
	}
	h := cat.Histogram()
	if h[catalog.RatingBackup] != 0 || h[catalog.RatingDelete] != 1 || h[catalog.Unrated] != 1 {
		t.Fatalf("unexpected histogram: %v", h)
	}
}

func TestRateRejectsInvalidInput(t *testing.T) {
	cat := newCatalog(t, "a")
	if err := cat.Rate(0, 5); !errors.Is(err, catalog.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if err := cat.Rate(0, -1); !errors.Is(err, catalog.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if err := cat.Rate(1, catalog.RatingEdit); !errors.Is(err, catalog.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if h := cat.Histogram(); h[catalog.Unrated] != 1 {
		t.Fatalf("failed rate must not change histogram: %v", h)
	}
}

func TestGetBounds(t *testing.T) {
	cat := newCatalog(t, "a", "b")
	p, err := cat.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.ID != "b" {
		t.Fatalf("Get(1).ID = %q", p.ID)
	}
	for _, idx := range []int{-1, 2} {
		if _, err := cat.Get(idx); !errors.Is(err, catalog.ErrIndexOutOfRange) {
			t.Fatalf("Get(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
}

func TestGetReturnsCopy(t *testing.T) {
	cat := newCatalog(t, "a")
	p, _ := cat.Get(0)
	p.Rating = catalog.RatingBackup
	if got, _ := cat.Get(0); got.Rating != catalog.Unrated {
		t.Fatal("mutating a returned photo must not affect the catalog")
	}
}

func TestRotateNormalizes(t *testing.T) {
	cat := newCatalog(t, "a")
	steps := []struct {
		delta int
		want  int
	}{
		{90, 90},
		{90, 180},
		{270, 90},
		{-180, 270},
		{-270, 0},
		{720, 0},
	}
	for _, step := range steps {
		got, err := cat.Rotate(0, step.delta)
		if err != nil {
			t.Fatalf("Rotate(%d): %v", step.delta, err)
		}
		if got != step.want {
			t.Fatalf("Rotate(%d) = %d, want %d", step.delta, got, step.want)
		}
	}
	if _, err := cat.Rotate(0, 45); !errors.Is(err, catalog.ErrInvalidRotation) {
		t.Fatalf("expected ErrInvalidRotation, got %v", err)
	}
	if _, err := cat.Rotate(3, 90); !errors.Is(err, catalog.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if h := cat.Histogram(); h[catalog.Unrated] != 1 {
		t.Fatalf("rotation must not touch ratings: %v", h)
	}
}

func TestPhotosWithRatingKeepsCatalogOrderAndIsLive(t *testing.T) {
	cat := newCatalog(t, "a", "b", "c", "d")
	for _, idx := range []int{3, 0, 2} {
		if err := cat.Rate(idx, catalog.RatingEdit); err != nil {
			t.Fatal(err)
		}
	}
	got := cat.PhotosWithRating(catalog.RatingEdit)
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "c" || got[2].ID != "d" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if err := cat.Rate(2, catalog.Unrated); err != nil {
		t.Fatal(err)
	}
	if got := cat.PhotosWithRating(catalog.RatingEdit); len(got) != 2 {
		t.Fatalf("expected live result with 2 photos, got %d", len(got))
	}
}

func TestLookup(t *testing.T) {
	cat := newCatalog(t, "a", "b")
	idx, err := cat.Lookup("b")
	if err != nil || idx != 1 {
		t.Fatalf("Lookup(b) = %d, %v", idx, err)
	}
	if _, err := cat.Lookup("zzz"); !errors.Is(err, catalog.ErrUnknownPhoto) {
		t.Fatalf("expected ErrUnknownPhoto, got %v", err)
	}
}

func TestNewRejectsDuplicatesAndBadRatings(t *testing.T) {
	if _, err := catalog.New("/in", []catalog.Photo{{ID: "a"}, {ID: "a"}}, nil); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if _, err := catalog.New("/in", []catalog.Photo{{ID: "a", Rating: 9}}, nil); !errors.Is(err, catalog.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in      string
		want    catalog.Rating
		wantErr bool
	}{
		{"0", catalog.Unrated, false},
		{"4", catalog.RatingBackup, false},
		{" Backup ", catalog.RatingBackup, false},
		{"delete", catalog.RatingDelete, false},
		{"5", 0, true},
		{"keep", 0, true},
	}
	for _, tt := range tests {
		got, err := catalog.ParseRating(tt.in)
		if tt.wantErr {
			if !errors.Is(err, catalog.ErrInvalidRating) {
				t.Fatalf("ParseRating(%q): expected ErrInvalidRating, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseRating(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestRatingLabels(t *testing.T) {
	if got := catalog.RatingBackup.Heading(); got != "BACKUP" {
		t.Fatalf("Heading = %q", got)
	}
	if got := catalog.RatingEdit.Title(); got != "Edit" {
		t.Fatalf("Title = %q", got)
	}
	if got := catalog.Rating(7).Label(); got != "rating(7)" {
		t.Fatalf("Label for invalid rating = %q", got)
	}
}
