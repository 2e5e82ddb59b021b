package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// Snapshot is one droplet record as last seen from the API.
type Snapshot struct {
	ID       int
	Name     string
	Status   string
	PublicIP string
	Region   string
	Size     string
	Tags     []string
	Created  string
	SeenAt   time.Time
}

// Store manages snapshot persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

const schema = `CREATE TABLE IF NOT EXISTS droplets (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT NOT NULL,
    public_ip TEXT NOT NULL DEFAULT '',
    region TEXT NOT NULL DEFAULT '',
    size TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT '',
    seen_at TEXT NOT NULL
)`

// Open initializes or connects to the inventory database at path and takes
// the writer lock. It fails if another console instance holds the lock.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("inventory path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create inventory directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock inventory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("inventory %s is in use by another console", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, lock: lock, path: path}, nil
}

// Close releases the database connection and the writer lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var closeErr error
	if s.db != nil {
		closeErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	return closeErr
}

// ReplaceAll swaps the stored snapshots for the given set in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, snapshots []Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin inventory update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM droplets"); err != nil {
		return fmt.Errorf("clear inventory: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, snap := range snapshots {
		seen := snap.SeenAt.UTC().Format(time.RFC3339Nano)
		if snap.SeenAt.IsZero() {
			seen = now
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO droplets (id, name, status, public_ip, region, size, tags, created_at, seen_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snap.ID, snap.Name, snap.Status, snap.PublicIP, snap.Region, snap.Size,
			strings.Join(snap.Tags, ","), snap.Created, seen,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot %d: %w", snap.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit inventory update: %w", err)
	}
	return nil
}

// List returns all stored snapshots ordered by droplet name.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, status, public_ip, region, size, tags, created_at, seen_at
         FROM droplets ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		var tags, seen string
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Status, &snap.PublicIP,
			&snap.Region, &snap.Size, &tags, &snap.Created, &seen); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if tags != "" {
			snap.Tags = strings.Split(tags, ",")
		}
		if parsed, err := time.Parse(time.RFC3339Nano, seen); err == nil {
			snap.SeenAt = parsed
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return snapshots, nil
}
