package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/bomscope/pkg/core"

	_ "modernc.org/sqlite"
)

var errNotOpened = errors.New("database not opened")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{now: time.Now}
}

// NewWithDB wraps an already opened connection. Tests use it with sqlmock.
func NewWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Open opens a connection to the SQLite database, creating the parent
// directory of path if needed. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Every pooled connection to ":memory:" would get its own database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema brings the schema up to date.
func (s *SQLiteStore) InitSchema() error {
	if err := s.Migrate(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Path returns the database path passed to Open.
func (s *SQLiteStore) Path() string {
	return s.path
}

// --- Tab preference operations ---

// GetTabPreference returns the stored tab for bomType, or ErrNotFound.
func (s *SQLiteStore) GetTabPreference(bomType core.BomType) (*core.TabPreference, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	pref := &core.TabPreference{}
	err := s.db.QueryRow(
		`SELECT bom_type, tab, updated_at FROM tab_preferences WHERE bom_type = ?`,
		string(bomType),
	).Scan(&pref.BomType, &pref.Tab, &pref.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, bomType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tab preference: %w", err)
	}
	return pref, nil
}

// SetTabPreference stores tab as the preferred tab for bomType.
func (s *SQLiteStore) SetTabPreference(bomType core.BomType, tab core.Tab) error {
	if s.db == nil {
		return errNotOpened
	}

	_, err := s.db.Exec(
		`INSERT INTO tab_preferences (bom_type, tab, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(bom_type) DO UPDATE SET tab = excluded.tab, updated_at = excluded.updated_at`,
		string(bomType), string(tab), s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set tab preference: %w", err)
	}
	return nil
}

// ListTabPreferences returns every stored preference ordered by BOM type.
func (s *SQLiteStore) ListTabPreferences() ([]*core.TabPreference, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.Query(`SELECT bom_type, tab, updated_at FROM tab_preferences ORDER BY bom_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tab preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prefs []*core.TabPreference
	for rows.Next() {
		pref := &core.TabPreference{}
		if err := rows.Scan(&pref.BomType, &pref.Tab, &pref.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tab preference: %w", err)
		}
		prefs = append(prefs, pref)
	}
	return prefs, rows.Err()
}

// DeleteTabPreferences removes every stored preference.
func (s *SQLiteStore) DeleteTabPreferences() error {
	if s.db == nil {
		return errNotOpened
	}
	if _, err := s.db.Exec(`DELETE FROM tab_preferences`); err != nil {
		return fmt.Errorf("failed to delete tab preferences: %w", err)
	}
	return nil
}
