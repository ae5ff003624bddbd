// Package history persists the last viewed page per document so a
// reopened file resumes where the reader left off.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = 1

// ErrNoEntry is returned by Position for documents never seen before.
var ErrNoEntry = errors.New("history: no entry")

// Store keeps reading positions in a sqlite database. Paths are
// normalized to absolute form, so the same file resolves to the same
// row no matter how it was named on the command line.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DefaultPath places the database under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(dir, "quire", "history.db"), nil
}

func (s *Store) initSchema() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS positions (
			path       TEXT PRIMARY KEY,
			page       INTEGER NOT NULL,
			pages      INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`); err != nil {
		return fmt.Errorf("create positions table: %w", err)
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return tx.Commit()
}

// Position returns the last saved page index for path, or ErrNoEntry.
func (s *Store) Position(path string) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	var page int
	err = s.db.QueryRow("SELECT page FROM positions WHERE path = ?", abs).Scan(&page)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoEntry
	}
	if err != nil {
		return 0, fmt.Errorf("read position: %w", err)
	}
	return page, nil
}

// SetPosition records page as the current position for path. pages is
// the document's page count at save time, kept so stale entries can be
// judged against a resized document.
func (s *Store) SetPosition(path string, page, pages int) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO positions (path, page, pages, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			page       = excluded.page,
			pages      = excluded.pages,
			updated_at = excluded.updated_at`,
		abs, page, pages, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save position: %w", err)
	}
	return nil
}

// Forget removes the saved position for path.
func (s *Store) Forget(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM positions WHERE path = ?", abs); err != nil {
		return fmt.Errorf("forget position: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
