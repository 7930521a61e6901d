package models

import (
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// MigratedRelease records one completed migration, used for local
// duplicate memoization and run history.
type MigratedRelease struct {
	ID           uint64 `boltholdKey:"ID"`
	JPSGroupID   int    `boltholdIndex:"JPSGroupID"`
	JPSTorrentID string `boltholdIndex:"JPSTorrentID"`
	SMGroupID    string
	InfoHash     string `boltholdIndex:"InfoHash"`

	Artist   string
	Title    string
	Category string

	DryRun     bool
	MigratedAt time.Time
}

// Database wraps the bolthold store.
type Database struct {
	store *bolthold.Store
}

// NewDatabase opens the migration history store.
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection.
func (db *Database) Close() error {
	return db.store.Close()
}

// CreateMigrated records a completed migration. A real run supersedes any
// dry-run record left for the same torrent.
func (db *Database) CreateMigrated(rec *MigratedRelease) error {
	rec.MigratedAt = time.Now()

	if !rec.DryRun {
		err := db.store.DeleteMatching(&MigratedRelease{},
			bolthold.Where("JPSTorrentID").Eq(rec.JPSTorrentID).And("DryRun").Eq(true))
		if err != nil {
			return err
		}
	}

	return db.store.Insert(bolthold.NextSequence(), rec)
}

// GetMigratedByTorrentID retrieves the migration record for a JPS torrent
// id. Dry-run records do not count as migrated.
func (db *Database) GetMigratedByTorrentID(torrentID string) (*MigratedRelease, error) {
	var recs []*MigratedRelease
	err := db.store.Find(&recs,
		bolthold.Where("JPSTorrentID").Eq(torrentID).And("DryRun").Eq(false))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, bolthold.ErrNotFound
	}
	return recs[0], nil
}

// GetMigratedByInfoHash retrieves the migration record for a canonical
// info hash. Dry-run records do not count as migrated.
func (db *Database) GetMigratedByInfoHash(hash string) (*MigratedRelease, error) {
	var rec MigratedRelease
	err := db.store.FindOne(&rec,
		bolthold.Where("InfoHash").Eq(hash).And("DryRun").Eq(false))
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetMigratedByGroupID retrieves every migration record for a JPS group.
func (db *Database) GetMigratedByGroupID(groupID int) ([]*MigratedRelease, error) {
	var recs []*MigratedRelease
	err := db.store.Find(&recs, bolthold.Where("JPSGroupID").Eq(groupID))
	return recs, err
}

// GetRecentMigrated returns migrations newer than the cutoff.
func (db *Database) GetRecentMigrated(since time.Time) ([]*MigratedRelease, error) {
	var recs []*MigratedRelease
	err := db.store.Find(&recs, bolthold.Where("MigratedAt").Ge(since))
	return recs, err
}

// IsNotFound reports whether err is the store's not-found error.
func IsNotFound(err error) bool {
	return err == bolthold.ErrNotFound
}
