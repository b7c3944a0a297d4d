package relocation

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"phototriage/internal/catalog"
	"phototriage/internal/fileutil"
)

func fakeCatalog(t *testing.T, ratings ...catalog.Rating) *catalog.Catalog {
	t.Helper()

	photos := make([]catalog.Photo, 0, len(ratings))
	for i, r := range ratings {
		id := "P" + string(rune('1'+i))
		photos = append(photos, catalog.Photo{
			ID:       id,
			JPEGPath: filepath.Join("/in", id+".JPG"),
			RAWPath:  filepath.Join("/in", id+".ARW"),
			Rating:   r,
		})
	}
	cat, err := catalog.New("/in", photos, nil)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

var fakeDests = Destinations{Backup: "/backup", Edit: "/edit", JPEG: "/jpeg", Delete: "/delete"}

func okMove(src, dstDir string) (string, error) {
	return filepath.Join(dstDir, filepath.Base(src)), nil
}

func TestRunProcessesGroupsInOrder(t *testing.T) {
	cat := fakeCatalog(t, catalog.RatingDelete, catalog.RatingBackup, catalog.RatingEdit, catalog.RatingJPEG, catalog.Unrated)

	var moved []string
	engine := NewEngine(nil)
	engine.move = func(src, dstDir string) (string, error) {
		moved = append(moved, filepath.Base(src)+"->"+dstDir)
		return okMove(src, dstDir)
	}
	engine.copy = okMove

	result := engine.Run(context.Background(), cat, fakeDests)

	want := []string{
		"P2.ARW->/backup", "P2.JPG->/jpeg",
		"P4.ARW->/delete", "P4.JPG->/jpeg",
		"P3.ARW->/edit", "P3.JPG->/delete",
		"P1.ARW->/delete", "P1.JPG->/delete",
	}
	if !reflect.DeepEqual(moved, want) {
		t.Fatalf("move order = %v, want %v", moved, want)
	}
	var order []string
	for _, o := range result.Outcomes() {
		order = append(order, o.PhotoID)
	}
	if !reflect.DeepEqual(order, []string{"P2", "P4", "P3", "P1"}) {
		t.Fatalf("outcome order = %v", order)
	}
}

func TestArchiveCopyFailureCountsAsMoved(t *testing.T) {
	cat := fakeCatalog(t, catalog.RatingBackup)
	engine := NewEngine(nil)
	engine.move = okMove
	engine.copy = func(string, string) (string, error) {
		return "", fs.ErrPermission
	}

	result := engine.Run(context.Background(), cat, fakeDests)

	group := result.Group(catalog.RatingBackup)
	if group.Photos[0].Outcome != OutcomeArchiveFailed {
		t.Fatalf("outcome = %s", group.Photos[0].Outcome)
	}
	if !errors.Is(group.Photos[0].Err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", group.Photos[0].Err)
	}
	report := group.Report()
	if !strings.HasPrefix(report, "1/1 photos are successfully moved\nRAW:/backup\nJPEG:/jpeg\nfollowing files cannot be moved:\n  P1: permission denied: copy RAW back to /in") {
		t.Fatalf("unexpected report %q", report)
	}
	if result.Moved() != 1 || result.Failed() != 0 {
		t.Fatalf("moved=%d failed=%d", result.Moved(), result.Failed())
	}
}

func TestRollbackFailureIsAppendedToOriginalError(t *testing.T) {
	cat := fakeCatalog(t, catalog.RatingJPEG)
	engine := NewEngine(nil)
	engine.move = func(src, dstDir string) (string, error) {
		switch {
		case strings.HasSuffix(src, ".JPG"):
			return "", fileutil.ErrDestinationExists
		case dstDir == "/in":
			return "", errors.New("disk unplugged")
		default:
			return okMove(src, dstDir)
		}
	}
	engine.copy = func(string, string) (string, error) {
		t.Fatal("archival copy must not run after a failed move")
		return "", nil
	}

	result := engine.Run(context.Background(), cat, fakeDests)

	out := result.Group(catalog.RatingJPEG).Photos[0]
	if out.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %s", out.Outcome)
	}
	if !errors.Is(out.Err, ErrDestinationCollision) {
		t.Fatalf("expected original collision error, got %v", out.Err)
	}
	var ce *CompensationError
	if !errors.As(out.Err, &ce) || !errors.Is(ce.RollbackErr, ErrIOFailure) {
		t.Fatalf("expected compensation error, got %v", out.Err)
	}
	if !strings.Contains(out.Err.Error(), "rollback failed: i/o failure: restore RAW to /in: disk unplugged") {
		t.Fatalf("unexpected message %q", out.Err.Error())
	}
	if out.RAWTarget != "/delete/P1.ARW" {
		t.Fatalf("stranded RAW path = %q", out.RAWTarget)
	}
}

func TestPaired(t *testing.T) {
	errFirst := errors.New("first")
	errSecond := errors.New("second")
	errUndo := errors.New("undo")

	tests := []struct {
		name        string
		first       error
		second      error
		undo        error
		wantCalls   []string
		wantErr     error
		wantRollErr bool
	}{
		{name: "both succeed", wantCalls: []string{"first", "second"}},
		{name: "first fails", first: errFirst, wantCalls: []string{"first"}, wantErr: errFirst},
		{name: "second fails", second: errSecond, wantCalls: []string{"first", "second", "undo"}, wantErr: errSecond},
		{name: "undo fails", second: errSecond, undo: errUndo, wantCalls: []string{"first", "second", "undo"}, wantErr: errSecond, wantRollErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			step := func(name string, err error) func() error {
				return func() error {
					calls = append(calls, name)
					return err
				}
			}

			err := Paired(step("first", tt.first), step("second", tt.second), step("undo", tt.undo))

			if !reflect.DeepEqual(calls, tt.wantCalls) {
				t.Fatalf("calls = %v, want %v", calls, tt.wantCalls)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			var ce *CompensationError
			if got := errors.As(err, &ce); got != tt.wantRollErr {
				t.Fatalf("compensation error present = %v, want %v", got, tt.wantRollErr)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"collision", fileutil.ErrDestinationExists, ErrDestinationCollision},
		{"missing source", &fs.PathError{Op: "lstat", Path: "/in/a", Err: fs.ErrNotExist}, ErrSourceMissing},
		{"missing destination", errors.Join(fileutil.ErrDestinationDir, fs.ErrNotExist), ErrIOFailure},
		{"permission", &fs.PathError{Op: "rename", Path: "/in/a", Err: fs.ErrPermission}, ErrPermissionDenied},
		{"other", errors.New("short write"), ErrIOFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("move RAW", tt.err)
			if !errors.Is(got, tt.want) || !errors.Is(got, tt.err) {
				t.Fatalf("classify(%v) = %v, want class %v", tt.err, got, tt.want)
			}
		})
	}
	if classify("noop", nil) != nil {
		t.Fatal("nil error must stay nil")
	}
}
