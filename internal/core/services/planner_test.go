package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

const treeResponse = "```json\n" + `{
	"categories": [
		{
			"name": "Development",
			"subcategories": [
				{"name": "Frontend", "keywords": ["react", "css", "html", "vue", "ui"]},
				{"name": "Backend", "keywords": ["go", "server", "api", "db", "node"]}
			]
		},
		{
			"name": "Learning",
			"subcategories": [
				{"name": "Courses", "keywords": ["course", "tutorial", "guide", "learn", "class"]}
			]
		}
	],
	"total_bookmarks": 3,
	"recommended_batch_size": 35
}` + "\n```"

func TestPlanStructure(t *testing.T) {
	llm := &mockLLM{responses: []string{treeResponse}}
	planner := NewStructurePlanner(llm, nil)

	bookmarks := []domain.Bookmark{
		bm("1", "React docs", "https://react.dev"),
		bm("2", "Go by Example", "https://gobyexample.com"),
		bm("3", "CS50", "https://cs50.harvard.edu"),
	}

	tree, err := planner.PlanStructure(context.Background(), bookmarks)
	require.NoError(t, err)
	require.Len(t, tree.Categories, 2)
	assert.Equal(t, "Development", tree.Categories[0].Name)
	assert.Equal(t, 1, llm.calls)

	// The prompt carries the bookmark summaries, not raw URLs alone.
	assert.Contains(t, llm.prompts[0], "react.dev")
	assert.Contains(t, llm.prompts[0], "React docs")
}

func TestPlanStructure_EmptyTreeIsFatal(t *testing.T) {
	llm := &mockLLM{responses: []string{`{"categories": []}`}}
	planner := NewStructurePlanner(llm, nil)

	_, err := planner.PlanStructure(context.Background(), []domain.Bookmark{bm("1", "a", "https://a.com")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrResponseParse)
}

func TestPlanStructure_ProviderErrorPropagates(t *testing.T) {
	llm := &mockLLM{errs: []error{fmt.Errorf("boom: %w", domain.ErrProviderFatal)}}
	planner := NewStructurePlanner(llm, nil)

	_, err := planner.PlanStructure(context.Background(), []domain.Bookmark{bm("1", "a", "https://a.com")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderFatal)
}

func TestPlanStructure_UsesPromptStoreTemplate(t *testing.T) {
	llm := &mockLLM{responses: []string{treeResponse}}
	prompts := &mockPromptStore{prompts: map[string]string{
		"structure_plan": "custom template %d %s %d",
		"system":         "custom system",
	}}
	planner := NewStructurePlanner(llm, prompts)

	_, err := planner.PlanStructure(context.Background(), []domain.Bookmark{bm("1", "a", "https://a.com")})
	require.NoError(t, err)
	assert.Contains(t, llm.prompts[0], "custom template")
}
