// Package index persists fold-range scan results to a SQLite database.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/plis/internal/folding"
	"github.com/zjrosen/plis/internal/log"
)

// schema holds the index tables. One scans row per file; ranges rows
// belong to exactly one scan and are replaced wholesale on rescan.
const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id TEXT PRIMARY KEY,
	path TEXT NOT NULL UNIQUE,
	language TEXT NOT NULL,
	scanned_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ranges (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scan_id TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	end_line INTEGER NOT NULL,
	kind TEXT NOT NULL,
	FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE,
	CHECK (end_line > start_line)
);

CREATE INDEX IF NOT EXISTS idx_ranges_scan ON ranges(scan_id);
`

// Scan is one persisted scan of a file.
type Scan struct {
	ID        string
	Path      string
	Language  string
	ScannedAt time.Time
	Ranges    []folding.Range
}

// Store provides access to the persistent range index.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open connects to the index database at dbPath, creating the file and
// schema when missing.
func Open(dbPath string) (*Store, error) {
	log.Debug(log.CatIndex, "Opening index", "path", dbPath)

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		log.ErrorErr(log.CatIndex, "Failed to open index", err, "path", dbPath)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		log.ErrorErr(log.CatIndex, "Failed to ping index", err, "path", dbPath)
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		log.ErrorErr(log.CatIndex, "Failed to apply index schema", err, "path", dbPath)
		return nil, err
	}

	log.Info(log.CatIndex, "Connected to index", "path", dbPath)
	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ReplaceScan stores the scan result for path, replacing any previous scan
// of the same path. Returns the new scan ID.
func (s *Store) ReplaceScan(ctx context.Context, path, language string, ranges []folding.Range) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scans WHERE path = ?`, path); err != nil {
		log.ErrorErr(log.CatIndex, "ReplaceScan delete failed", err, "path", path)
		return "", err
	}

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scans (id, path, language) VALUES (?, ?, ?)`,
		id, path, language,
	); err != nil {
		log.ErrorErr(log.CatIndex, "ReplaceScan insert failed", err, "path", path)
		return "", err
	}

	for _, r := range ranges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ranges (scan_id, start_line, end_line, kind) VALUES (?, ?, ?, ?)`,
			id, r.Start, r.End, r.Kind.String(),
		); err != nil {
			log.ErrorErr(log.CatIndex, "ReplaceScan range insert failed", err, "path", path)
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing scan: %w", err)
	}

	log.Info(log.CatIndex, "Indexed scan", "path", path, "ranges", len(ranges))
	return id, nil
}

// GetScan returns the stored scan for path, or sql.ErrNoRows when the path
// has never been indexed.
func (s *Store) GetScan(ctx context.Context, path string) (Scan, error) {
	var scan Scan
	err := s.db.QueryRowContext(ctx,
		`SELECT id, path, language, scanned_at FROM scans WHERE path = ?`, path,
	).Scan(&scan.ID, &scan.Path, &scan.Language, &scan.ScannedAt)
	if err != nil {
		return Scan{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT start_line, end_line, kind FROM ranges WHERE scan_id = ? ORDER BY start_line, end_line`,
		scan.ID,
	)
	if err != nil {
		log.ErrorErr(log.CatIndex, "GetScan range query failed", err, "path", path)
		return Scan{}, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r folding.Range
		var kind string
		if err := rows.Scan(&r.Start, &r.End, &kind); err != nil {
			return Scan{}, err
		}
		// Unknown kinds fall back to region rather than failing the read.
		r.Kind, _ = folding.ParseKind(kind)
		scan.Ranges = append(scan.Ranges, r)
	}

	return scan, rows.Err()
}

// ListScans returns every indexed scan ordered by path, without ranges.
func (s *Store) ListScans(ctx context.Context) ([]Scan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, language, scanned_at FROM scans ORDER BY path`,
	)
	if err != nil {
		log.ErrorErr(log.CatIndex, "ListScans query failed", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var scans []Scan
	for rows.Next() {
		var scan Scan
		if err := rows.Scan(&scan.ID, &scan.Path, &scan.Language, &scan.ScannedAt); err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}

	return scans, rows.Err()
}

// DeleteScan removes the stored scan for path. Deleting a path that was
// never indexed is not an error.
func (s *Store) DeleteScan(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE path = ?`, path)
	if err != nil {
		log.ErrorErr(log.CatIndex, "DeleteScan failed", err, "path", path)
	}
	return err
}
