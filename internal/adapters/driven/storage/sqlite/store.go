// Package sqlite provides a SQLite-backed bookmark store. It is the
// persistent library the CLI imports into and organizes.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tidymark-labs/tidymark-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BookmarkStore = (*Store)(nil)

// Store is a SQLite-based implementation of driven.BookmarkStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.tidymark/data/bookmarks.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tidymark", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "bookmarks.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Insert adds a new bookmark under folderID (empty = root) and returns
// its id. Used by the importers; not part of the BookmarkStore port.
func (s *Store) Insert(ctx context.Context, title, url, folderID string, dateAdded time.Time) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, title, url, folder_id, date_added)
		VALUES (?, ?, ?, ?, ?)
	`, id, title, url, nullString(folderID), nullTime(dateAdded))
	if err != nil {
		return "", fmt.Errorf("inserting bookmark: %w", err)
	}
	return id, nil
}

// List returns every bookmark with its folder path.
func (s *Store) List(ctx context.Context) ([]domain.Bookmark, error) {
	paths, err := s.folderPaths(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, url, COALESCE(folder_id, ''), date_added
		FROM bookmarks
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		var folderID string
		var dateAdded sql.NullTime
		if err := rows.Scan(&b.ID, &b.Title, &b.URL, &folderID, &dateAdded); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		if dateAdded.Valid {
			b.DateAdded = dateAdded.Time
		}
		b.Path = paths[folderID]
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// Folders returns every folder in the store.
func (s *Store) Folders(ctx context.Context) ([]driven.StoredFolder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(parent_id, '')
		FROM folders
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	defer rows.Close()

	var folders []driven.StoredFolder
	for rows.Next() {
		var f driven.StoredFolder
		if err := rows.Scan(&f.ID, &f.Name, &f.ParentID); err != nil {
			return nil, fmt.Errorf("scanning folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// CreateFolder creates a folder under parentID (empty = root) and
// returns its id. Creating a folder that already exists at the same
// level returns the existing id instead of a duplicate.
func (s *Store) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM folders
		WHERE name = ? AND COALESCE(parent_id, '') = ?
	`, name, parentID).Scan(&existing)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking folder: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO folders (id, name, parent_id) VALUES (?, ?, ?)
	`, id, name, nullString(parentID))
	if err != nil {
		return "", fmt.Errorf("creating folder: %w", err)
	}
	return id, nil
}

// Move places a bookmark into the given folder (empty = root).
func (s *Store) Move(ctx context.Context, bookmarkID, folderID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE bookmarks SET folder_id = ? WHERE id = ?
	`, nullString(folderID), bookmarkID)
	if err != nil {
		return fmt.Errorf("moving bookmark: %w", err)
	}
	return requireRow(result, bookmarkID)
}

// Rename updates a bookmark's title.
func (s *Store) Rename(ctx context.Context, bookmarkID, title string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE bookmarks SET title = ? WHERE id = ?
	`, title, bookmarkID)
	if err != nil {
		return fmt.Errorf("renaming bookmark: %w", err)
	}
	return requireRow(result, bookmarkID)
}

// Remove deletes a bookmark.
func (s *Store) Remove(ctx context.Context, bookmarkID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE id = ?
	`, bookmarkID)
	if err != nil {
		return fmt.Errorf("removing bookmark: %w", err)
	}
	return requireRow(result, bookmarkID)
}

// RemoveFolder deletes a folder. Folders that still contain bookmarks
// or subfolders are rejected.
func (s *Store) RemoveFolder(ctx context.Context, folderID string) error {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM bookmarks WHERE folder_id = ?)
		     + (SELECT COUNT(*) FROM folders WHERE parent_id = ?)
	`, folderID, folderID).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking folder contents: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: folder %s is not empty", domain.ErrInvalidInput, folderID)
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM folders WHERE id = ?
	`, folderID)
	if err != nil {
		return fmt.Errorf("removing folder: %w", err)
	}
	return requireRow(result, folderID)
}

// RootBookmarks returns bookmarks sitting directly at the root.
func (s *Store) RootBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, url, date_added
		FROM bookmarks
		WHERE folder_id IS NULL
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing root bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		var dateAdded sql.NullTime
		if err := rows.Scan(&b.ID, &b.Title, &b.URL, &dateAdded); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		if dateAdded.Valid {
			b.DateAdded = dateAdded.Time
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// folderPaths builds the id -> path lookup for every folder.
func (s *Store) folderPaths(ctx context.Context) (map[string][]string, error) {
	folders, err := s.Folders(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]driven.StoredFolder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	paths := make(map[string][]string, len(folders)+1)
	paths[""] = nil
	for _, f := range folders {
		var path []string
		for cur, ok := f, true; ok; cur, ok = byID[cur.ParentID] {
			path = append([]string{cur.Name}, path...)
			if cur.ParentID == "" {
				break
			}
		}
		paths[f.ID] = path
	}
	return paths, nil
}

// requireRow converts a zero-row update into a not-found error.
func requireRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
