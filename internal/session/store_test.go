package session_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"phototriage/internal/catalog"
	"phototriage/internal/relocation"
	"phototriage/internal/session"
	"phototriage/internal/testsupport"
)

func scanInbox(t *testing.T, dir string, stems ...string) *catalog.Catalog {
	t.Helper()
	for _, stem := range stems {
		testsupport.WritePair(t, dir, stem, "JPG", "ARW")
	}
	cat, err := catalog.Scan(dir, "JPG", "ARW")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return cat
}

func TestOpenCreatesDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if store.Path() != cfg.DatabasePath() {
		t.Fatalf("Path() = %q, want %q", store.Path(), cfg.DatabasePath())
	}
	if !testsupport.Exists(cfg.DatabasePath()) {
		t.Fatal("expected database file to exist")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	if reopened == nil {
		t.Fatal("expected reopen to succeed")
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close()

	db, err := sql.Open("sqlite", cfg.DatabasePath())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := session.Open(cfg); !errors.Is(err, session.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestMarksRoundTripThroughRestore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	cat := scanInbox(t, cfg.Photos.InputDir, "IMG_0001", "IMG_0002", "IMG_0003")
	if err := cat.Rate(0, catalog.RatingBackup); err != nil {
		t.Fatal(err)
	}
	if _, err := cat.Rotate(0, 270); err != nil {
		t.Fatal(err)
	}
	if err := cat.Rate(2, catalog.RatingDelete); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCatalog(ctx, cat); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}

	marks, err := store.Marks(ctx, cfg.Photos.InputDir)
	if err != nil {
		t.Fatalf("Marks: %v", err)
	}
	if len(marks) != 2 {
		t.Fatalf("expected 2 marks, got %v", marks)
	}
	if m := marks["IMG_0001"]; m.Rating != catalog.RatingBackup || m.Rotation != 270 || m.UpdatedAt.IsZero() {
		t.Fatalf("unexpected mark %+v", m)
	}

	fresh, err := catalog.Scan(cfg.Photos.InputDir, "JPG", "ARW")
	if err != nil {
		t.Fatal(err)
	}
	applied, err := store.Restore(ctx, fresh)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if applied != 2 {
		t.Fatalf("applied = %d, want 2", applied)
	}
	h := fresh.Histogram()
	if h[catalog.RatingBackup] != 1 || h[catalog.RatingDelete] != 1 || h[catalog.Unrated] != 1 {
		t.Fatalf("unexpected histogram %v", h)
	}
	if p, _ := fresh.Get(0); p.Rotation != 270 {
		t.Fatalf("rotation = %d, want 270", p.Rotation)
	}
}

func TestSaveCatalogDropsResetMarks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	cat := scanInbox(t, cfg.Photos.InputDir, "A")
	if err := cat.Rate(0, catalog.RatingEdit); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCatalog(ctx, cat); err != nil {
		t.Fatal(err)
	}
	if err := cat.Rate(0, catalog.Unrated); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCatalog(ctx, cat); err != nil {
		t.Fatal(err)
	}

	marks, err := store.Marks(ctx, cfg.Photos.InputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(marks) != 0 {
		t.Fatalf("expected no marks, got %v", marks)
	}
}

func TestRestoreIgnoresVanishedPhotos(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	cat := scanInbox(t, cfg.Photos.InputDir, "A")
	if err := store.SaveMark(ctx, cfg.Photos.InputDir, catalog.Photo{ID: "gone", Rating: catalog.RatingBackup}); err != nil {
		t.Fatal(err)
	}

	applied, err := store.Restore(ctx, cat)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if applied != 0 {
		t.Fatalf("applied = %d, want 0", applied)
	}
}

func TestMarksAreScopedByInputDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.SaveMark(ctx, "/a", catalog.Photo{ID: "x", Rating: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveMark(ctx, "/b", catalog.Photo{ID: "x", Rating: 2}); err != nil {
		t.Fatal(err)
	}
	if err := store.ClearMarks(ctx, "/a"); err != nil {
		t.Fatal(err)
	}

	a, _ := store.Marks(ctx, "/a")
	b, _ := store.Marks(ctx, "/b")
	if len(a) != 0 || b["x"].Rating != 2 {
		t.Fatalf("a=%v b=%v", a, b)
	}
}

func TestRecordRunAndHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	cat := scanInbox(t, cfg.Photos.InputDir, "A", "B", "C")
	_ = cat.Rate(0, catalog.RatingBackup)
	_ = cat.Rate(1, catalog.RatingDelete)
	testsupport.WriteContent(t, filepath.Join(cfg.Destinations.DeleteDir, "B.JPG"), "blocker")

	result := relocation.NewEngine(nil).Run(ctx, cat, relocation.Destinations{
		Backup: cfg.Destinations.RAWBackupDir,
		Edit:   cfg.Destinations.RAWEditDir,
		JPEG:   cfg.Destinations.JPEGDir,
		Delete: cfg.Destinations.DeleteDir,
	})

	run, err := store.RecordRun(ctx, result)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if run.ID != result.RunID || run.Moved != 1 || run.Failed != 1 || run.Untouched != 1 {
		t.Fatalf("unexpected run %+v", run)
	}

	runs, err := store.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID || runs[0].InputDir != cfg.Photos.InputDir {
		t.Fatalf("unexpected runs %+v", runs)
	}
	if runs[0].Started.IsZero() || runs[0].Finished.Before(runs[0].Started) {
		t.Fatalf("unexpected timestamps %+v", runs[0])
	}

	results, err := store.RunResults(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %+v", results)
	}
	if results[0].PhotoID != "A" || results[0].Outcome != relocation.OutcomeMoved || results[0].Error != "" {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if results[1].PhotoID != "B" || results[1].Outcome != relocation.OutcomeFailed || results[1].Error == "" {
		t.Fatalf("unexpected second result %+v", results[1])
	}
}

func TestRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		result := &relocation.Result{
			RunID:    id,
			InputDir: "/in",
			Groups:   map[catalog.Rating]*relocation.GroupResult{},
			Started:  base.Add(time.Duration(i) * time.Hour),
			Finished: base.Add(time.Duration(i)*time.Hour + time.Minute),
		}
		if _, err := store.RecordRun(ctx, result); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.Runs(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "new" {
		t.Fatalf("unexpected runs %+v", runs)
	}
}

func TestAcquireLockIsExclusive(t *testing.T) {
	stateDir := t.TempDir()
	inputDir := t.TempDir()

	first, err := session.AcquireLock(stateDir, inputDir)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}

	if _, err := session.AcquireLock(stateDir, inputDir); !errors.Is(err, session.ErrSessionLocked) {
		t.Fatalf("expected ErrSessionLocked, got %v", err)
	}

	other, err := session.AcquireLock(stateDir, t.TempDir())
	if err != nil {
		t.Fatalf("lock on another directory: %v", err)
	}
	defer other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := session.AcquireLock(stateDir, inputDir)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	if again.Path() != session.LockPath(stateDir, inputDir) {
		t.Fatalf("unexpected lock path %q", again.Path())
	}
	_ = again.Release()
}
