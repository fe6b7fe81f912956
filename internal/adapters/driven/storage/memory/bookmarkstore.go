// Package memory provides an in-memory bookmark store. It backs tests
// and dry runs where no persistent library is wanted.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
)

// Ensure BookmarkStore implements the interface.
var _ driven.BookmarkStore = (*BookmarkStore)(nil)

type folderRecord struct {
	id       string
	name     string
	parentID string
}

type bookmarkRecord struct {
	bookmark domain.Bookmark
	folderID string
}

// BookmarkStore is an in-memory implementation of driven.BookmarkStore.
// Insertion order is preserved for deterministic listings.
type BookmarkStore struct {
	mu        sync.RWMutex
	folders   []*folderRecord
	bookmarks []*bookmarkRecord
}

// NewBookmarkStore creates an empty in-memory store.
func NewBookmarkStore() *BookmarkStore {
	return &BookmarkStore{}
}

// Seed adds a bookmark record directly, keeping any caller-chosen id.
// Not part of the BookmarkStore port; used by tests.
func (s *BookmarkStore) Seed(b domain.Bookmark, folderID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	s.bookmarks = append(s.bookmarks, &bookmarkRecord{bookmark: b, folderID: folderID})
	return b.ID
}

// Insert adds a new bookmark under folderID (empty = root) and returns
// its id. Matches the importer destination contract.
func (s *BookmarkStore) Insert(_ context.Context, title, url, folderID string, dateAdded time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &bookmarkRecord{
		bookmark: domain.Bookmark{
			ID:        uuid.New().String(),
			Title:     title,
			URL:       url,
			DateAdded: dateAdded,
		},
		folderID: folderID,
	}
	s.bookmarks = append(s.bookmarks, rec)
	return rec.bookmark.ID, nil
}

// List returns every bookmark with its folder path.
func (s *BookmarkStore) List(_ context.Context) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Bookmark, 0, len(s.bookmarks))
	for _, rec := range s.bookmarks {
		b := rec.bookmark
		b.Path = s.pathOf(rec.folderID)
		out = append(out, b)
	}
	return out, nil
}

// Folders returns every folder in the store.
func (s *BookmarkStore) Folders(_ context.Context) ([]driven.StoredFolder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]driven.StoredFolder, 0, len(s.folders))
	for _, f := range s.folders {
		out = append(out, driven.StoredFolder{ID: f.id, Name: f.name, ParentID: f.parentID})
	}
	return out, nil
}

// CreateFolder creates a folder under parentID (empty = root). An
// existing folder with the same name at the same level is reused.
func (s *BookmarkStore) CreateFolder(_ context.Context, name, parentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.folders {
		if f.name == name && f.parentID == parentID {
			return f.id, nil
		}
	}

	f := &folderRecord{id: uuid.New().String(), name: name, parentID: parentID}
	s.folders = append(s.folders, f)
	return f.id, nil
}

// Move places a bookmark into the given folder (empty = root).
func (s *BookmarkStore) Move(_ context.Context, bookmarkID, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.find(bookmarkID)
	if rec == nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bookmarkID)
	}
	rec.folderID = folderID
	return nil
}

// Rename updates a bookmark's title.
func (s *BookmarkStore) Rename(_ context.Context, bookmarkID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.find(bookmarkID)
	if rec == nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bookmarkID)
	}
	rec.bookmark.Title = title
	return nil
}

// Remove deletes a bookmark.
func (s *BookmarkStore) Remove(_ context.Context, bookmarkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.bookmarks {
		if rec.bookmark.ID == bookmarkID {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrNotFound, bookmarkID)
}

// RemoveFolder deletes a folder. Non-empty folders are rejected.
func (s *BookmarkStore) RemoveFolder(_ context.Context, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.bookmarks {
		if rec.folderID == folderID {
			return fmt.Errorf("%w: folder %s is not empty", domain.ErrInvalidInput, folderID)
		}
	}
	for _, f := range s.folders {
		if f.parentID == folderID {
			return fmt.Errorf("%w: folder %s is not empty", domain.ErrInvalidInput, folderID)
		}
	}

	for i, f := range s.folders {
		if f.id == folderID {
			s.folders = append(s.folders[:i], s.folders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrNotFound, folderID)
}

// RootBookmarks returns bookmarks sitting directly at the root.
func (s *BookmarkStore) RootBookmarks(_ context.Context) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Bookmark
	for _, rec := range s.bookmarks {
		if rec.folderID == "" {
			out = append(out, rec.bookmark)
		}
	}
	return out, nil
}

// find returns the record for a bookmark id (caller must hold lock).
func (s *BookmarkStore) find(id string) *bookmarkRecord {
	for _, rec := range s.bookmarks {
		if rec.bookmark.ID == id {
			return rec
		}
	}
	return nil
}

// pathOf builds the folder path for a folder id (caller must hold lock).
func (s *BookmarkStore) pathOf(folderID string) []string {
	byID := make(map[string]*folderRecord, len(s.folders))
	for _, f := range s.folders {
		byID[f.id] = f
	}

	var path []string
	for f, ok := byID[folderID]; ok; f, ok = byID[f.parentID] {
		path = append([]string{f.name}, path...)
	}
	return path
}
