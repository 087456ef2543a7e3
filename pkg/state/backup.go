package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/fsutil"
	"github.com/glorpus-work/appmanager/pkg/model"
	_ "modernc.org/sqlite"
)

// BackupEntry is one installed package in a snapshot.
type BackupEntry struct {
	Name    string
	Version string
}

// Snapshot is the set of installed packages at one point in time.
type Snapshot struct {
	ID      int64
	TakenAt time.Time
	Entries []BackupEntry
}

// Names returns the package names in the snapshot.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Name
	}
	return out
}

// BackupStore keeps snapshots in a sqlite database.
type BackupStore struct {
	db *sql.DB
}

// OpenBackupStore opens (creating if needed) the database at path and
// ensures the schema exists.
func OpenBackupStore(ctx context.Context, path string) (*BackupStore, error) {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	s := &BackupStore{db: db}
	if err := s.Initialize(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Initialize creates the database schema.
func (s *BackupStore) Initialize(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at DATETIME NOT NULL
		);
		CREATE TABLE IF NOT EXISTS snapshot_packages (
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			PRIMARY KEY (snapshot_id, name)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create backup tables: %w", err)
	}
	return nil
}

// SaveInstalled stores the installed packages among pkgs as a new snapshot.
func (s *BackupStore) SaveInstalled(ctx context.Context, pkgs []*model.PackageRecord) (int64, error) {
	entries := make([]BackupEntry, 0, len(pkgs))
	for _, p := range pkgs {
		if p == nil || !p.IsInstalled() {
			continue
		}
		entries = append(entries, BackupEntry{Name: p.Name, Version: p.InstalledVersion})
	}
	return s.Save(ctx, entries)
}

// Save stores entries as a new snapshot and returns its id.
func (s *BackupStore) Save(ctx context.Context, entries []BackupEntry) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(errors.ErrSnapshot, err.Error())
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO snapshots (taken_at) VALUES (?)`, time.Now().UTC())
	if err != nil {
		return 0, errors.Wrap(errors.ErrSnapshot, err.Error())
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(errors.ErrSnapshot, err.Error())
	}

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO snapshot_packages (snapshot_id, name, version) VALUES (?, ?, ?)`,
			id, e.Name, e.Version,
		); err != nil {
			return 0, errors.Wrapf(errors.ErrSnapshot, "insert %s: %v", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(errors.ErrSnapshot, err.Error())
	}
	return id, nil
}

// Latest returns the most recent snapshot, or nil when none was taken.
func (s *BackupStore) Latest(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, taken_at FROM snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&snap.ID, &snap.TakenAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, version FROM snapshot_packages WHERE snapshot_id = ? ORDER BY name`, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot packages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e BackupEntry
		if err := rows.Scan(&e.Name, &e.Version); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot package: %w", err)
		}
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot packages: %w", err)
	}
	return snap, nil
}

// Prune keeps only the newest keep snapshots.
func (s *BackupStore) Prune(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshot_packages WHERE snapshot_id NOT IN (
			SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
		);
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshot packages: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
		);
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *BackupStore) Close() error {
	return s.db.Close()
}
