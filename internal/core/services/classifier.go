package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

// BatchClassifier runs stage 2b: one model call per batch, assigning
// every bookmark in the batch to a leaf of the classification tree.
type BatchClassifier struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewBatchClassifier creates a batch classifier. The prompt store is
// optional; embedded defaults are used when it is nil.
func NewBatchClassifier(llm driven.LLMService, prompts driven.PromptStore) *BatchClassifier {
	return &BatchClassifier{llm: llm, prompts: prompts}
}

// ClassifyBatch asks the model to classify one batch against the tree.
//
// An unparsable response is an isolation boundary, not a run failure:
// the batch contributes empty classification and duplicate lists and
// the returned error is nil. Provider errors (after the client's own
// retries) do propagate.
func (c *BatchClassifier) ClassifyBatch(ctx context.Context, batch domain.Batch, tree *domain.ClassificationTree) (domain.BatchResult, error) {
	result := domain.BatchResult{BatchIndex: batch.Index, Theme: batch.Theme}

	treeJSON, err := json.MarshalIndent(tree.Categories, "", "  ")
	if err != nil {
		return result, fmt.Errorf("marshal tree: %w", err)
	}
	bookmarkJSON, err := json.MarshalIndent(domain.Summarize(batch.Bookmarks), "", "  ")
	if err != nil {
		return result, fmt.Errorf("marshal batch: %w", err)
	}

	template := loadPrompt(c.prompts, driven.PromptBatchClassify, defaultBatchClassifyPrompt)
	prompt := fmt.Sprintf(template, treeJSON, batch.Index, batch.Theme, len(batch.Bookmarks), bookmarkJSON)

	response, err := c.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:      loadPrompt(c.prompts, driven.PromptSystem, defaultSystemPrompt),
		Temperature: 0.7,
	})
	if err != nil {
		return result, fmt.Errorf("classify batch %d: %w", batch.Index, err)
	}

	classifications, duplicates, err := ParseBatchResult(response)
	if err != nil {
		if errors.Is(err, domain.ErrResponseParse) {
			logger.Warn("Batch %d response unparsable, contributing empty results: %v", batch.Index, err)
			return result, nil
		}
		return result, err
	}

	result.Classifications = classifications
	result.Duplicates = duplicates
	return result, nil
}
