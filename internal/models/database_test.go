package models

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAndGetMigrated(t *testing.T) {
	db := newTestDatabase(t)

	rec := &MigratedRelease{
		JPSGroupID:   100,
		JPSTorrentID: "111",
		SMGroupID:    "7",
		InfoHash:     "AAAA",
		Artist:       "Perfume",
		Title:        "Future Pop",
		Category:     "Album",
	}
	if err := db.CreateMigrated(rec); err != nil {
		t.Fatalf("CreateMigrated: %v", err)
	}

	got, err := db.GetMigratedByTorrentID("111")
	if err != nil {
		t.Fatalf("GetMigratedByTorrentID: %v", err)
	}
	if got.SMGroupID != "7" || got.Artist != "Perfume" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.MigratedAt.IsZero() {
		t.Error("MigratedAt was not set")
	}

	byHash, err := db.GetMigratedByInfoHash("AAAA")
	if err != nil {
		t.Fatalf("GetMigratedByInfoHash: %v", err)
	}
	if byHash.JPSTorrentID != "111" {
		t.Errorf("GetMigratedByInfoHash returned torrent %q, want 111", byHash.JPSTorrentID)
	}
}

// A dry run records what it would have uploaded, but that record must
// not stop the subsequent real run.
func TestDryRunRecordDoesNotCountAsMigrated(t *testing.T) {
	db := newTestDatabase(t)

	dry := &MigratedRelease{
		JPSGroupID:   200,
		JPSTorrentID: "555",
		InfoHash:     "BBBB",
		DryRun:       true,
	}
	if err := db.CreateMigrated(dry); err != nil {
		t.Fatalf("CreateMigrated dry run: %v", err)
	}

	if _, err := db.GetMigratedByTorrentID("555"); !IsNotFound(err) {
		t.Fatalf("dry-run record satisfied the torrent-id lookup: err=%v", err)
	}
	if _, err := db.GetMigratedByInfoHash("BBBB"); !IsNotFound(err) {
		t.Fatalf("dry-run record satisfied the info-hash lookup: err=%v", err)
	}

	// The real run afterwards replaces the dry-run record.
	real := &MigratedRelease{
		JPSGroupID:   200,
		JPSTorrentID: "555",
		SMGroupID:    "9",
		InfoHash:     "BBBB",
	}
	if err := db.CreateMigrated(real); err != nil {
		t.Fatalf("CreateMigrated real run: %v", err)
	}

	got, err := db.GetMigratedByTorrentID("555")
	if err != nil {
		t.Fatalf("GetMigratedByTorrentID after real run: %v", err)
	}
	if got.DryRun || got.SMGroupID != "9" {
		t.Errorf("unexpected record after real run: %+v", got)
	}

	group, err := db.GetMigratedByGroupID(200)
	if err != nil {
		t.Fatalf("GetMigratedByGroupID: %v", err)
	}
	if len(group) != 1 {
		t.Errorf("expected the real record to supersede the dry-run one, got %d records", len(group))
	}
}

func TestGetMigratedByGroupID(t *testing.T) {
	db := newTestDatabase(t)

	for _, id := range []string{"1", "2"} {
		rec := &MigratedRelease{JPSGroupID: 300, JPSTorrentID: id}
		if err := db.CreateMigrated(rec); err != nil {
			t.Fatalf("CreateMigrated: %v", err)
		}
	}

	recs, err := db.GetMigratedByGroupID(300)
	if err != nil {
		t.Fatalf("GetMigratedByGroupID: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 records, got %d", len(recs))
	}

	recs, err = db.GetMigratedByGroupID(999)
	if err != nil {
		t.Fatalf("GetMigratedByGroupID unknown group: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records for unknown group, got %d", len(recs))
	}
}

func TestGetRecentMigrated(t *testing.T) {
	db := newTestDatabase(t)

	rec := &MigratedRelease{JPSGroupID: 400, JPSTorrentID: "42"}
	if err := db.CreateMigrated(rec); err != nil {
		t.Fatalf("CreateMigrated: %v", err)
	}

	recent, err := db.GetRecentMigrated(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("GetRecentMigrated: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("expected 1 recent record, got %d", len(recent))
	}

	recent, err = db.GetRecentMigrated(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("GetRecentMigrated future cutoff: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected no records past a future cutoff, got %d", len(recent))
	}
}

func TestIsNotFound(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.GetMigratedByTorrentID("nope")
	if !IsNotFound(err) {
		t.Errorf("expected a not-found error, got %v", err)
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) should be false")
	}
}
