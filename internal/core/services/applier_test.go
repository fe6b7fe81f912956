package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymark-labs/tidymark-cli/internal/adapters/driven/storage/memory"
	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

func TestApply_FullPlan(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBookmarkStore()

	// Leftovers from a previous run plus a preserved system folder.
	oldID, err := store.CreateFolder(ctx, "Old Organization", "")
	require.NoError(t, err)
	_, err = store.CreateFolder(ctx, "Bookmarks Bar", "")
	require.NoError(t, err)

	store.Seed(domain.Bookmark{ID: "1", Title: "React docs", URL: "https://react.dev"}, oldID)
	store.Seed(domain.Bookmark{ID: "2", Title: "CSS tricks", URL: "https://css-tricks.com"}, "")
	store.Seed(domain.Bookmark{ID: "3", Title: "React docs copy", URL: "https://react.dev"}, "")
	store.Seed(domain.Bookmark{ID: "4", Title: "Loose page", URL: "https://example.com"}, "")

	plan := &domain.OrganizationPlan{
		Folders: []*domain.Folder{
			{
				Name:      "Development",
				Bookmarks: []domain.PlacedBookmark{{ID: "1", Title: "React docs", NewTitle: "React Documentation"}},
				Children: []*domain.Folder{
					{Name: "Frontend", Bookmarks: []domain.PlacedBookmark{{ID: "2", Title: "CSS tricks"}}},
				},
			},
		},
		Duplicates: []string{"3"},
	}

	applier := NewStorePlanApplier(store, nil)
	stats, err := applier.Apply(ctx, plan)
	require.NoError(t, err)
	assert.Empty(t, stats.Errors)

	assert.Equal(t, 1, stats.FoldersRemoved)
	// Development, Frontend, and the Other catch-all.
	assert.Equal(t, 3, stats.FoldersCreated)
	assert.Equal(t, 3, stats.BookmarksMoved)
	assert.Equal(t, 1, stats.TitlesUpdated)
	assert.Equal(t, 1, stats.DuplicatesRemoved)

	bookmarks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, bookmarks, 3)

	byID := make(map[string]domain.Bookmark)
	for _, b := range bookmarks {
		byID[b.ID] = b
	}
	assert.Equal(t, []string{"Development"}, byID["1"].Path)
	assert.Equal(t, "React Documentation", byID["1"].Title)
	assert.Equal(t, []string{"Development", "Frontend"}, byID["2"].Path)
	assert.Equal(t, []string{domain.OtherFolderName}, byID["4"].Path)

	// The previous organization folder is gone, the system folder kept.
	folders, err := store.Folders(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(folders))
	for _, f := range folders {
		names = append(names, f.Name)
	}
	assert.NotContains(t, names, "Old Organization")
	assert.Contains(t, names, "Bookmarks Bar")
}

func TestApply_EmptyPlanRejected(t *testing.T) {
	applier := NewStorePlanApplier(memory.NewBookmarkStore(), nil)

	_, err := applier.Apply(context.Background(), &domain.OrganizationPlan{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApply_PerItemFailuresCollected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBookmarkStore()
	store.Seed(domain.Bookmark{ID: "1", Title: "Real", URL: "https://a.com"}, "")

	plan := &domain.OrganizationPlan{
		Folders: []*domain.Folder{
			{Name: "Stuff", Bookmarks: []domain.PlacedBookmark{
				{ID: "1", Title: "Real"},
				{ID: "missing", Title: "Ghost"},
			}},
		},
	}

	applier := NewStorePlanApplier(store, nil)
	stats, err := applier.Apply(ctx, plan)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.BookmarksMoved)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "missing")
}

func TestApply_NoLooseBookmarksSkipsCatchAll(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBookmarkStore()
	store.Seed(domain.Bookmark{ID: "1", Title: "One", URL: "https://a.com"}, "")

	plan := &domain.OrganizationPlan{
		Folders: []*domain.Folder{
			{Name: "Stuff", Bookmarks: []domain.PlacedBookmark{{ID: "1", Title: "One"}}},
		},
	}

	applier := NewStorePlanApplier(store, nil)
	stats, err := applier.Apply(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FoldersCreated)

	folders, err := store.Folders(ctx)
	require.NoError(t, err)
	for _, f := range folders {
		assert.NotEqual(t, domain.OtherFolderName, f.Name)
	}
}
