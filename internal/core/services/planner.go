package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

// StructurePlanner runs stage 1: it turns a bookmark summary list into
// the global classification tree the rest of the pipeline works from.
type StructurePlanner struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewStructurePlanner creates a structure planner. The prompt store is
// optional; embedded defaults are used when it is nil.
func NewStructurePlanner(llm driven.LLMService, prompts driven.PromptStore) *StructurePlanner {
	return &StructurePlanner{llm: llm, prompts: prompts}
}

// PlanStructure asks the model for a two-level classification tree over
// all bookmarks. Failure here is fatal to the run: with no tree there
// is nothing to batch against.
func (p *StructurePlanner) PlanStructure(ctx context.Context, bookmarks []domain.Bookmark) (*domain.ClassificationTree, error) {
	summaries := domain.Summarize(bookmarks)
	summaryJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal summaries: %w", err)
	}

	template := loadPrompt(p.prompts, driven.PromptStructurePlan, defaultStructurePrompt)
	prompt := fmt.Sprintf(template, len(bookmarks), summaryJSON, len(bookmarks))

	logger.Info("Planning classification structure for %d bookmarks", len(bookmarks))

	response, err := p.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:      loadPrompt(p.prompts, driven.PromptSystem, defaultSystemPrompt),
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("plan structure: %w", err)
	}

	tree, err := ParseClassificationTree(response)
	if err != nil {
		return nil, fmt.Errorf("plan structure: %w", err)
	}

	logger.Info("Classification tree has %d categories", len(tree.Categories))
	return tree, nil
}
