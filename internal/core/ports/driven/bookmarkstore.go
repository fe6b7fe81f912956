package driven

import (
	"context"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

// StoredFolder is a folder node as held by the bookmark store.
type StoredFolder struct {
	// ID is the store-assigned identifier.
	ID string

	// Name is the folder title.
	Name string

	// ParentID is the containing folder, empty for root-level folders.
	ParentID string
}

// BookmarkStore is the host bookmark library the pipeline organizes.
// The core only depends on this narrow contract; Chrome, Firefox,
// sqlite or in-memory implementations are adapters.
type BookmarkStore interface {
	// List returns every bookmark in the store, with its folder path.
	List(ctx context.Context) ([]domain.Bookmark, error)

	// Folders returns every folder in the store.
	Folders(ctx context.Context) ([]StoredFolder, error)

	// CreateFolder creates a folder under parentID (empty = root)
	// and returns its id.
	CreateFolder(ctx context.Context, name, parentID string) (string, error)

	// Move places a bookmark into the given folder.
	Move(ctx context.Context, bookmarkID, folderID string) error

	// Rename updates a bookmark's title.
	Rename(ctx context.Context, bookmarkID, title string) error

	// Remove deletes a bookmark.
	Remove(ctx context.Context, bookmarkID string) error

	// RemoveFolder deletes a folder. Bookmarks inside must be moved
	// out first; implementations reject non-empty folders.
	RemoveFolder(ctx context.Context, folderID string) error

	// RootBookmarks returns bookmarks sitting directly at the root,
	// outside any folder.
	RootBookmarks(ctx context.Context) ([]domain.Bookmark, error)
}
