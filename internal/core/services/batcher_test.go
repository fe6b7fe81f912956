package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

func testTree() *domain.ClassificationTree {
	return &domain.ClassificationTree{
		Categories: []domain.Category{
			{
				Name: "Development",
				Subcategories: []domain.Subcategory{
					{Name: "Frontend", Keywords: []string{"react", "css", "frontend"}},
					{Name: "Backend", Keywords: []string{"go", "server", "api"}},
				},
			},
			{
				Name: "Entertainment",
				Subcategories: []domain.Subcategory{
					{Name: "Video", Keywords: []string{"youtube", "video"}},
				},
			},
		},
	}
}

func bm(id, title, url string) domain.Bookmark {
	return domain.Bookmark{ID: id, Title: title, URL: url}
}

func TestCreateBatches_GroupsByKeywordMatch(t *testing.T) {
	b := NewSmartBatcher()
	bookmarks := []domain.Bookmark{
		bm("1", "React hooks guide", "https://react.dev/hooks"),
		bm("2", "CSS grid tutorial", "https://css-tricks.com/grid"),
		bm("3", "Go server patterns", "https://example.com/go"),
		bm("4", "Funny video", "https://youtube.com/watch"),
	}

	batches := b.CreateBatches(bookmarks, testTree(), 35)

	// All groups fit one buffer, so everything lands in a single batch.
	require.Len(t, batches, 1)
	assert.Equal(t, 1, batches[0].Index)
	assert.Len(t, batches[0].Bookmarks, 4)
}

func TestCreateBatches_OversizedGroupSplits(t *testing.T) {
	b := NewSmartBatcher()

	var bookmarks []domain.Bookmark
	for i := 0; i < 12; i++ {
		bookmarks = append(bookmarks, bm(fmt.Sprint(i), fmt.Sprintf("React article %d", i), "https://react.dev"))
	}

	batches := b.CreateBatches(bookmarks, testTree(), 5)

	require.Len(t, batches, 3)
	assert.Equal(t, "Development/Frontend", batches[0].Theme)
	assert.Len(t, batches[0].Bookmarks, 5)
	assert.Len(t, batches[1].Bookmarks, 5)
	assert.Len(t, batches[2].Bookmarks, 2)
	for i, batch := range batches {
		assert.Equal(t, i+1, batch.Index)
	}
}

func TestCreateBatches_BufferFlushesBeforeOverflow(t *testing.T) {
	b := NewSmartBatcher()

	// Group A: 3 frontend, group B: 3 backend. Batch size 4 forces the
	// second group into a fresh buffer.
	bookmarks := []domain.Bookmark{
		bm("1", "react one", "https://a.com"),
		bm("2", "react two", "https://a.com"),
		bm("3", "react three", "https://a.com"),
		bm("4", "go server one", "https://b.com"),
		bm("5", "go server two", "https://b.com"),
		bm("6", "go server three", "https://b.com"),
	}

	batches := b.CreateBatches(bookmarks, testTree(), 4)

	require.Len(t, batches, 2)
	assert.Len(t, batches[0].Bookmarks, 3)
	assert.Len(t, batches[1].Bookmarks, 3)
}

func TestCreateBatches_PreservesEveryBookmark(t *testing.T) {
	b := NewSmartBatcher()

	var bookmarks []domain.Bookmark
	for i := 0; i < 57; i++ {
		bookmarks = append(bookmarks, bm(fmt.Sprint(i), fmt.Sprintf("mixed %d react go youtube", i), "https://example.com"))
	}

	batches := b.CreateBatches(bookmarks, testTree(), 10)

	seen := make(map[string]bool)
	for _, batch := range batches {
		assert.LessOrEqual(t, len(batch.Bookmarks), 10)
		for _, bm := range batch.Bookmarks {
			assert.False(t, seen[bm.ID], "bookmark %s appears twice", bm.ID)
			seen[bm.ID] = true
		}
	}
	assert.Len(t, seen, 57)
}

func TestAssign_TieResolvesToFirstPair(t *testing.T) {
	b := NewSmartBatcher()
	tree := &domain.ClassificationTree{
		Categories: []domain.Category{
			{Name: "A", Subcategories: []domain.Subcategory{{Name: "A1", Keywords: []string{"shared"}}}},
			{Name: "B", Subcategories: []domain.Subcategory{{Name: "B1", Keywords: []string{"shared"}}}},
		},
	}

	key := b.assign(bm("1", "shared topic", "https://x.com"), tree)
	assert.Equal(t, leafKey{category: "A", subcategory: "A1"}, key)
}

func TestAssign_NoMatchFallsBackToFirstLeaf(t *testing.T) {
	b := NewSmartBatcher()

	key := b.assign(bm("1", "zzz nothing", "https://nomatch.example"), testTree())
	assert.Equal(t, leafKey{category: "Development", subcategory: "Frontend"}, key)
}

func TestAssign_EmptyTreeUsesFallbackLabels(t *testing.T) {
	b := NewSmartBatcher()

	key := b.assign(bm("1", "anything", "https://x.com"), &domain.ClassificationTree{})
	assert.Equal(t, leafKey{category: domain.FallbackCategory, subcategory: domain.GeneralSubcategory}, key)
}

func TestMatchScore_CountsTitleAndSiteHits(t *testing.T) {
	score := matchScore("learning react and css", "react.dev", []string{"react", "css", "video"})
	assert.Equal(t, 2, score)
}

func TestPluralityDomain(t *testing.T) {
	bookmarks := []domain.Bookmark{
		bm("1", "a", "https://github.com/a"),
		bm("2", "b", "https://github.com/b"),
		bm("3", "c", "https://youtube.com/c"),
	}
	assert.Equal(t, "github.com", pluralityDomain(bookmarks))
}

func TestPluralityDomain_TieBreaksByFirstAppearance(t *testing.T) {
	bookmarks := []domain.Bookmark{
		bm("1", "a", "https://first.com"),
		bm("2", "b", "https://second.com"),
	}
	assert.Equal(t, "first.com", pluralityDomain(bookmarks))
}
