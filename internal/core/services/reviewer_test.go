package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

func reviewPlan() *domain.OrganizationPlan {
	return &domain.OrganizationPlan{
		Folders: []*domain.Folder{
			{Name: "Development", Bookmarks: []domain.PlacedBookmark{{ID: "1"}},
				Children: []*domain.Folder{{Name: "Frontend", Bookmarks: []domain.PlacedBookmark{{ID: "2"}}}}},
			{Name: "Coding", Bookmarks: []domain.PlacedBookmark{{ID: "3"}},
				Children: []*domain.Folder{{Name: "Frontend", Bookmarks: []domain.PlacedBookmark{{ID: "4"}}}}},
			{Name: "News", Bookmarks: []domain.PlacedBookmark{{ID: "5"}}},
		},
	}
}

func TestReview_AppliesMergeOperations(t *testing.T) {
	llm := &mockLLM{responses: []string{`{
		"optimizations": [
			{"type": "merge", "action": "combine overlapping folders", "target": ["Development", "Coding"]}
		]
	}`}}
	merger := NewResultMerger(nil, nil)
	reviewer := NewOptimizationReviewer(llm, nil, merger)

	plan := reviewPlan()
	applied, err := reviewer.Review(context.Background(), plan, testTree())
	require.NoError(t, err)
	require.Len(t, applied, 1)

	require.Len(t, plan.Folders, 2)
	dev := plan.Folders[0]
	assert.Equal(t, "Development", dev.Name)
	assert.Len(t, dev.Bookmarks, 2)
	// Same-name children merged.
	require.Len(t, dev.Children, 1)
	assert.Len(t, dev.Children[0].Bookmarks, 2)
}

func TestReview_SkipsUnresolvableTargets(t *testing.T) {
	llm := &mockLLM{responses: []string{`{
		"optimizations": [
			{"type": "merge", "action": "combine", "target": ["Development", "DoesNotExist"]},
			{"type": "split", "action": "split large folder", "target": ["Development"]}
		]
	}`}}
	reviewer := NewOptimizationReviewer(llm, nil, NewResultMerger(nil, nil))

	plan := reviewPlan()
	applied, err := reviewer.Review(context.Background(), plan, testTree())
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Len(t, plan.Folders, 3)
}

func TestReview_ParseFailureIsBestEffort(t *testing.T) {
	llm := &mockLLM{responses: []string{"the structure looks fine to me"}}
	reviewer := NewOptimizationReviewer(llm, nil, NewResultMerger(nil, nil))

	plan := reviewPlan()
	applied, err := reviewer.Review(context.Background(), plan, testTree())
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Len(t, plan.Folders, 3)
}
