package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

func testBatch() domain.Batch {
	return domain.Batch{
		Index: 1,
		Theme: "react.dev",
		Bookmarks: []domain.Bookmark{
			bm("1", "React docs", "https://react.dev"),
			bm("2", "CSS tricks", "https://css-tricks.com"),
		},
	}
}

func TestClassifyBatch(t *testing.T) {
	llm := &mockLLM{responses: []string{`{
		"classifications": [
			{"bookmark_id": "1", "original_title": "React docs", "category": "Development", "subcategory": "Frontend", "confidence": 0.97},
			{"bookmark_id": "2", "original_title": "CSS tricks", "category": "Development", "subcategory": "Frontend", "confidence": 0.88}
		],
		"duplicates": []
	}`}}
	classifier := NewBatchClassifier(llm, nil)

	result, err := classifier.ClassifyBatch(context.Background(), testBatch(), testTree())
	require.NoError(t, err)
	assert.Equal(t, 1, result.BatchIndex)
	assert.Equal(t, "react.dev", result.Theme)
	require.Len(t, result.Classifications, 2)
	assert.Equal(t, "Frontend", result.Classifications[0].Subcategory)

	// Prompt carries the tree and the batch bookmarks.
	assert.Contains(t, llm.prompts[0], "Development")
	assert.Contains(t, llm.prompts[0], "React docs")
}

func TestClassifyBatch_UnparsableResponseIsIsolated(t *testing.T) {
	llm := &mockLLM{responses: []string{"Sorry, I can't help with that."}}
	classifier := NewBatchClassifier(llm, nil)

	result, err := classifier.ClassifyBatch(context.Background(), testBatch(), testTree())

	// Parse failure contributes empty results, not a run failure.
	require.NoError(t, err)
	assert.Equal(t, 1, result.BatchIndex)
	assert.Empty(t, result.Classifications)
	assert.Empty(t, result.Duplicates)
}

func TestClassifyBatch_ProviderErrorPropagates(t *testing.T) {
	llm := &mockLLM{errs: []error{fmt.Errorf("rate limited: %w", domain.ErrProviderTransient)}}
	classifier := NewBatchClassifier(llm, nil)

	_, err := classifier.ClassifyBatch(context.Background(), testBatch(), testTree())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderTransient)
}
