package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driving"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

// Ensure ThreeStageOrganizer implements the interface.
var _ driving.Organizer = (*ThreeStageOrganizer)(nil)

// interBatchDelay paces stage-2 model calls to respect provider rate
// limits. Batches are strictly sequential; this is the gap between them.
const interBatchDelay = 1500 * time.Millisecond

// ThreeStageOrganizer is the full pipeline: global structure planning,
// keyword-driven smart batching with per-batch classification, and an
// optional review pass over the merged result.
//
// Model calls are single-flight: no two are ever in flight at once, so
// rate limits and partial-failure boundaries stay predictable.
type ThreeStageOrganizer struct {
	planner    *StructurePlanner
	batcher    *SmartBatcher
	classifier *BatchClassifier
	merger     *ResultMerger
	reviewer   *OptimizationReviewer
	limiter    *rate.Limiter
}

// NewThreeStageOrganizer wires the pipeline stages together.
func NewThreeStageOrganizer(llm driven.LLMService, prompts driven.PromptStore, merger *ResultMerger) *ThreeStageOrganizer {
	if merger == nil {
		merger = NewResultMerger(nil, nil)
	}
	// Drain the initial token so the very first Wait already paces:
	// a fresh limiter starts with a full bucket and would let the
	// first two classify calls run back to back.
	limiter := rate.NewLimiter(rate.Every(interBatchDelay), 1)
	limiter.Allow()
	return &ThreeStageOrganizer{
		planner:    NewStructurePlanner(llm, prompts),
		batcher:    NewSmartBatcher(),
		classifier: NewBatchClassifier(llm, prompts),
		merger:     merger,
		reviewer:   NewOptimizationReviewer(llm, prompts, merger),
		limiter:    limiter,
	}
}

// Organize runs the three stages over the bookmarks and returns the
// final plan. Stage-1 failures abort the run; an unparsable stage-2
// batch contributes empty results; stage-3 failures degrade to a plan
// without optimization.
func (o *ThreeStageOrganizer) Organize(ctx context.Context, bookmarks []domain.Bookmark, opts driving.OrganizeOptions) (*domain.OrganizationPlan, error) {
	if len(bookmarks) == 0 {
		return nil, fmt.Errorf("%w: no bookmarks to organize", domain.ErrInvalidInput)
	}

	progress := opts.OnProgress
	if progress == nil {
		progress = func(driving.Progress) {}
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}

	// Stage 1: global structure planning.
	progress(driving.Progress{Stage: 1, Message: "Analyzing bookmarks and planning categories...", Progress: 0})
	tree, err := o.planner.PlanStructure(ctx, bookmarks)
	if err != nil {
		return nil, err
	}

	// Stage 2: smart batching and per-batch classification.
	batches := o.batcher.CreateBatches(bookmarks, tree, batchSize)
	progress(driving.Progress{
		Stage:        2,
		Message:      fmt.Sprintf("Classifying %d batches...", len(batches)),
		Progress:     5,
		TotalBatches: len(batches),
	})

	results := make([]domain.BatchResult, 0, len(batches))
	for i, batch := range batches {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, err := o.classifier.ClassifyBatch(ctx, batch, tree)
		if err != nil {
			return nil, err
		}
		results = append(results, result)

		progress(driving.Progress{
			Stage:        2,
			Message:      fmt.Sprintf("Classified batch %d/%d (%s)", batch.Index, len(batches), batch.Theme),
			Progress:     5 + float64(i+1)/float64(len(batches))*90,
			CurrentBatch: batch.Index,
			TotalBatches: len(batches),
		})
	}

	plan := o.merger.Merge(results)
	plan.Stats = domain.PlanStats{
		TotalBookmarks: len(bookmarks),
		BatchCount:     len(batches),
		Stages:         2,
	}

	// Stage 3: optional review pass.
	finalStage := 2
	if opts.EnableOptimization {
		finalStage = 3
		progress(driving.Progress{Stage: 3, Message: "Reviewing and optimizing structure...", Progress: 95})
		applied, err := o.reviewer.Review(ctx, plan, tree)
		if err != nil {
			return nil, err
		}
		plan.Stats.Stages = 3
		logger.Info("Applied %d optimizations", len(applied))
	}

	plan.Stats.TotalCategorized = plan.Categorized()
	plan.Stats.TotalUnclassified = len(bookmarks) - plan.Stats.TotalCategorized
	if len(bookmarks) > 0 {
		plan.Stats.CategorizedRate = float64(plan.Stats.TotalCategorized) / float64(len(bookmarks)) * 100
	}

	progress(driving.Progress{Stage: finalStage, Message: "Organization plan ready", Progress: 100})
	logger.Info("Run complete: %d/%d bookmarks categorized in %d batches",
		plan.Stats.TotalCategorized, len(bookmarks), len(batches))

	return plan, nil
}
