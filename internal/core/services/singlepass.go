package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driving"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

// Ensure SinglePassOrganizer implements the interface.
var _ driving.Organizer = (*SinglePassOrganizer)(nil)

// SinglePassOrganizer is the simpler fallback mode: fixed-size
// sequential batches, one classify-and-organize call each, with
// per-batch failure isolation. Folders repeated across batches merge by
// name, and oversized folders are subdivided with a keyword table.
type SinglePassOrganizer struct {
	llm      driven.LLMService
	prompts  driven.PromptStore
	merger   *ResultMerger
	keywords map[string][]string
}

// NewSinglePassOrganizer creates a single-pass organizer. A nil keyword
// table selects the built-in subcategory keywords.
func NewSinglePassOrganizer(llm driven.LLMService, prompts driven.PromptStore, merger *ResultMerger, keywords map[string][]string) *SinglePassOrganizer {
	if merger == nil {
		merger = NewResultMerger(nil, nil)
	}
	if keywords == nil {
		keywords = domain.DefaultSubcategoryKeywords()
	}
	return &SinglePassOrganizer{llm: llm, prompts: prompts, merger: merger, keywords: keywords}
}

// Organize classifies the bookmarks in fixed-size batches and merges
// the per-batch folder trees. A failing batch marks its bookmarks
// unclassified instead of aborting the run.
func (o *SinglePassOrganizer) Organize(ctx context.Context, bookmarks []domain.Bookmark, opts driving.OrganizeOptions) (*domain.OrganizationPlan, error) {
	if len(bookmarks) == 0 {
		return nil, fmt.Errorf("%w: no bookmarks to organize", domain.ErrInvalidInput)
	}

	progress := opts.OnProgress
	if progress == nil {
		progress = func(driving.Progress) {}
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = domain.DefaultSinglePassBatchSize
	}

	var batches [][]domain.Bookmark
	for start := 0; start < len(bookmarks); start += batchSize {
		end := min(start+batchSize, len(bookmarks))
		batches = append(batches, bookmarks[start:end])
	}

	var folders []*domain.Folder
	var unclassified []domain.UnclassifiedBookmark
	var duplicates []string

	for i, batch := range batches {
		progress(driving.Progress{
			Stage:        2,
			Message:      fmt.Sprintf("Organizing batch %d/%d...", i+1, len(batches)),
			Progress:     float64(i) / float64(len(batches)) * 100,
			CurrentBatch: i + 1,
			TotalBatches: len(batches),
		})

		result, err := o.organizeBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Isolate the failure: the whole batch becomes unclassified.
			logger.Warn("Batch %d/%d failed: %v", i+1, len(batches), err)
			for _, bm := range batch {
				unclassified = append(unclassified, domain.UnclassifiedBookmark{
					ID:     bm.ID,
					Title:  bm.Title,
					Reason: "batch processing failed",
				})
			}
			continue
		}

		folders = append(folders, result.Folders...)
		unclassified = append(unclassified, result.Unclassified...)
		duplicates = append(duplicates, result.Duplicates...)
	}

	merged := MergeFoldersByName(folders)

	var final []*domain.Folder
	for _, f := range merged {
		final = append(final, o.subdivide(f))
	}
	o.merger.sortFolders(final)

	plan := &domain.OrganizationPlan{
		Folders:      final,
		Unclassified: unclassified,
		Duplicates:   uniqueStrings(duplicates),
	}
	plan.Stats = domain.PlanStats{
		TotalBookmarks:    len(bookmarks),
		TotalCategorized:  plan.Categorized(),
		TotalUnclassified: len(unclassified),
		BatchCount:        len(batches),
		Stages:            1,
	}
	if len(bookmarks) > 0 {
		plan.Stats.CategorizedRate = float64(plan.Stats.TotalCategorized) / float64(len(bookmarks)) * 100
	}

	progress(driving.Progress{Stage: 2, Message: "Organization plan ready", Progress: 100})
	return plan, nil
}

// organizeBatch sends one batch through the single-shot prompt.
func (o *SinglePassOrganizer) organizeBatch(ctx context.Context, batch []domain.Bookmark) (*SinglePassResult, error) {
	bookmarkJSON, err := json.MarshalIndent(domain.Summarize(batch), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	count := len(batch)
	floor := int(math.Ceil(float64(count) * 0.85))
	otherCap := int(math.Ceil(float64(count) * 0.15))

	template := loadPrompt(o.prompts, driven.PromptSinglePass, defaultSinglePassPrompt)
	prompt := fmt.Sprintf(template, count, floor, otherCap, bookmarkJSON)

	response, err := o.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:      loadPrompt(o.prompts, driven.PromptSystem, defaultSystemPrompt),
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	return ParseSinglePassResult(response)
}

// subdivide splits an oversized folder's direct bookmarks into keyword
// buckets emitted as children. A subdivision yielding more than
// DefaultMaxSubfolders non-empty buckets is discarded: a legitimately
// broad category should not be fragmented.
func (o *SinglePassOrganizer) subdivide(folder *domain.Folder) *domain.Folder {
	if len(folder.Bookmarks) <= domain.DefaultSubdivideThreshold {
		return folder
	}

	// Bucket names in deterministic order for stable output.
	names := make([]string, 0, len(o.keywords))
	for name := range o.keywords {
		names = append(names, name)
	}
	sort.Strings(names)

	buckets := make(map[string][]domain.PlacedBookmark, len(names))
	var general []domain.PlacedBookmark

	for _, bm := range folder.Bookmarks {
		title := strings.ToLower(bm.Title + " " + bm.NewTitle)
		assigned := false
		for _, name := range names {
			for _, kw := range o.keywords[name] {
				if strings.Contains(title, strings.ToLower(kw)) {
					buckets[name] = append(buckets[name], bm)
					assigned = true
					break
				}
			}
			if assigned {
				break
			}
		}
		if !assigned {
			general = append(general, bm)
		}
	}

	var children []*domain.Folder
	for _, name := range names {
		if len(buckets[name]) > 0 {
			children = append(children, &domain.Folder{Name: name, Bookmarks: buckets[name]})
		}
	}
	if len(general) > 0 {
		children = append(children, &domain.Folder{Name: domain.GeneralSubcategory, Bookmarks: general})
	}

	if len(children) > domain.DefaultMaxSubfolders {
		return folder
	}

	return &domain.Folder{
		Name:     folder.Name,
		Children: append(children, folder.Children...),
	}
}

// uniqueStrings de-duplicates while preserving order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var kept []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		kept = append(kept, v)
	}
	return kept
}
