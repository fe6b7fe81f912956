package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(tmpDir, "bookmarks.db"), store.Path())
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	require.NoError(t, err)
	_, err = store.Insert(context.Background(), "Page", "https://a.com", "", time.Time{})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same directory must not rerun applied migrations
	// or lose data.
	reopened, err := NewStore(tmpDir)
	require.NoError(t, err)
	defer reopened.Close()

	bookmarks, err := reopened.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, bookmarks, 1)
}

func TestStore_InsertAndListWithPaths(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	devID, err := store.CreateFolder(ctx, "Development", "")
	require.NoError(t, err)
	frontendID, err := store.CreateFolder(ctx, "Frontend", devID)
	require.NoError(t, err)

	added := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err = store.Insert(ctx, "React docs", "https://react.dev", frontendID, added)
	require.NoError(t, err)
	_, err = store.Insert(ctx, "Loose", "https://example.com", "", time.Time{})
	require.NoError(t, err)

	bookmarks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, bookmarks, 2)
	assert.Equal(t, "React docs", bookmarks[0].Title)
	assert.Equal(t, []string{"Development", "Frontend"}, bookmarks[0].Path)
	assert.WithinDuration(t, added, bookmarks[0].DateAdded, time.Second)
	assert.Empty(t, bookmarks[1].Path)
	assert.True(t, bookmarks[1].DateAdded.IsZero())
}

func TestStore_CreateFolderReusesExisting(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id1, err := store.CreateFolder(ctx, "Development", "")
	require.NoError(t, err)
	id2, err := store.CreateFolder(ctx, "Development", "")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	id3, err := store.CreateFolder(ctx, "Development", id1)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)

	folders, err := store.Folders(ctx)
	require.NoError(t, err)
	assert.Len(t, folders, 2)
}

func TestStore_MoveRenameRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	folderID, err := store.CreateFolder(ctx, "Stuff", "")
	require.NoError(t, err)
	id, err := store.Insert(ctx, "Page", "https://a.com", "", time.Time{})
	require.NoError(t, err)

	require.NoError(t, store.Move(ctx, id, folderID))
	require.NoError(t, store.Rename(ctx, id, "Renamed"))

	bookmarks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "Renamed", bookmarks[0].Title)
	assert.Equal(t, []string{"Stuff"}, bookmarks[0].Path)

	require.NoError(t, store.Remove(ctx, id))
	bookmarks, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

func TestStore_NotFoundErrors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	assert.ErrorIs(t, store.Move(ctx, "missing", ""), domain.ErrNotFound)
	assert.ErrorIs(t, store.Rename(ctx, "missing", "x"), domain.ErrNotFound)
	assert.ErrorIs(t, store.Remove(ctx, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, store.RemoveFolder(ctx, "missing"), domain.ErrNotFound)
}

func TestStore_RemoveFolderRejectsNonEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	parentID, err := store.CreateFolder(ctx, "Parent", "")
	require.NoError(t, err)
	childID, err := store.CreateFolder(ctx, "Child", parentID)
	require.NoError(t, err)
	id, err := store.Insert(ctx, "Page", "https://a.com", childID, time.Time{})
	require.NoError(t, err)

	// Contains a subfolder.
	assert.ErrorIs(t, store.RemoveFolder(ctx, parentID), domain.ErrInvalidInput)
	// Contains a bookmark.
	assert.ErrorIs(t, store.RemoveFolder(ctx, childID), domain.ErrInvalidInput)

	require.NoError(t, store.Move(ctx, id, ""))
	require.NoError(t, store.RemoveFolder(ctx, childID))
	require.NoError(t, store.RemoveFolder(ctx, parentID))
}

func TestStore_RootBookmarks(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	folderID, err := store.CreateFolder(ctx, "Stuff", "")
	require.NoError(t, err)
	_, err = store.Insert(ctx, "Filed", "https://a.com", folderID, time.Time{})
	require.NoError(t, err)
	_, err = store.Insert(ctx, "Loose", "https://b.com", "", time.Time{})
	require.NoError(t, err)

	loose, err := store.RootBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, loose, 1)
	assert.Equal(t, "Loose", loose[0].Title)
}
