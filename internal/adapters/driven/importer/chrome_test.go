package importer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymark-labs/tidymark-cli/internal/adapters/driven/storage/memory"
	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

const chromeExport = `{
	"roots": {
		"bookmark_bar": {
			"type": "folder",
			"name": "Bookmarks bar",
			"children": [
				{
					"type": "folder",
					"name": "Development",
					"children": [
						{"type": "url", "name": "React docs", "url": "https://react.dev", "date_added": "13320000000000000"},
						{"type": "url", "name": "Empty", "url": ""}
					]
				},
				{"type": "url", "name": "Top level", "url": "https://example.com", "date_added": "13320000000000000"}
			]
		},
		"other": {
			"type": "folder",
			"name": "Other bookmarks",
			"children": [
				{"type": "url", "name": "Misc", "url": "https://misc.example"},
				{"type": "unknown", "name": "Separator"}
			]
		}
	}
}`

func TestImportChrome(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBookmarkStore()

	stats, err := ImportChrome(ctx, []byte(chromeExport), store)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Bookmarks)
	assert.Equal(t, 1, stats.Folders)
	assert.Equal(t, 2, stats.Skipped)

	bookmarks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, bookmarks, 3)

	byTitle := make(map[string]domain.Bookmark, len(bookmarks))
	for _, b := range bookmarks {
		byTitle[b.Title] = b
	}
	assert.Equal(t, []string{"Development"}, byTitle["React docs"].Path)
	assert.Empty(t, byTitle["Top level"].Path)
	assert.Empty(t, byTitle["Misc"].Path)
	assert.False(t, byTitle["React docs"].DateAdded.IsZero())
}

func TestImportChrome_InvalidInput(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBookmarkStore()

	_, err := ImportChrome(ctx, []byte("not json"), store)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ImportChrome(ctx, []byte(`{"roots": {}}`), store)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChromeTime(t *testing.T) {
	got := chromeTime("13320000000000000")
	want := time.Unix(13320000000000000/1e6-chromeEpochOffset, 0).UTC()
	assert.Equal(t, want, got)

	assert.True(t, chromeTime("").IsZero())
	assert.True(t, chromeTime("0").IsZero())
	assert.True(t, chromeTime("garbage").IsZero())
}
