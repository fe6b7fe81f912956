package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

// OptimizationReviewer runs the optional stage 3: it summarizes the
// merged tree, asks the model for structural issues, and applies the
// operations it knows how to apply.
//
// Only "merge" operations whose targets resolve to two or more
// top-level folders are applied; everything else is logged and skipped.
type OptimizationReviewer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	merger  *ResultMerger
}

// NewOptimizationReviewer creates a reviewer. The merger is used to
// re-sort folders after an applied merge.
func NewOptimizationReviewer(llm driven.LLMService, prompts driven.PromptStore, merger *ResultMerger) *OptimizationReviewer {
	return &OptimizationReviewer{llm: llm, prompts: prompts, merger: merger}
}

// folderSummary is the compact per-folder view sent to the model.
type folderSummary struct {
	Category        string             `json:"category"`
	Subcategories   []subfolderSummary `json:"subcategories"`
	DirectBookmarks int                `json:"directBookmarks"`
}

type subfolderSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Review mutates the plan in place according to the model's proposals
// and returns the operations that were applied. A parse failure yields
// an empty operation set, never an error: optimization is best-effort.
func (r *OptimizationReviewer) Review(ctx context.Context, plan *domain.OrganizationPlan, tree *domain.ClassificationTree) ([]Optimization, error) {
	treeJSON, err := json.MarshalIndent(tree.Categories, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tree: %w", err)
	}
	summaryJSON, err := json.MarshalIndent(summarizeFolders(plan.Folders), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}

	template := loadPrompt(r.prompts, driven.PromptOptimize, defaultOptimizePrompt)
	prompt := fmt.Sprintf(template, treeJSON, summaryJSON)

	response, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:      loadPrompt(r.prompts, driven.PromptSystem, defaultSystemPrompt),
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("optimization review: %w", err)
	}

	ops, err := ParseOptimizations(response)
	if err != nil {
		if errors.Is(err, domain.ErrResponseParse) {
			logger.Warn("Optimization response unparsable, skipping stage 3: %v", err)
			return nil, nil
		}
		return nil, err
	}

	var applied []Optimization
	for _, op := range ops {
		if r.apply(plan, op) {
			applied = append(applied, op)
		}
	}
	if len(applied) > 0 {
		r.merger.sortFolders(plan.Folders)
	}
	return applied, nil
}

// apply executes one operation. Returns true if the plan changed.
func (r *OptimizationReviewer) apply(plan *domain.OrganizationPlan, op Optimization) bool {
	if op.Type != "merge" || len(op.Target) < 2 {
		logger.Info("Skipping optimization %q (%s)", op.Type, op.Action)
		return false
	}

	var targets []*domain.Folder
	for _, name := range op.Target {
		if f := topLevelFolder(plan, name); f != nil {
			targets = append(targets, f)
		}
	}
	if len(targets) < 2 {
		logger.Info("Skipping merge: fewer than two targets resolve (%v)", op.Target)
		return false
	}

	dest := targets[0]
	absorbed := make(map[*domain.Folder]bool)
	for _, src := range targets[1:] {
		dest.Bookmarks = append(dest.Bookmarks, src.Bookmarks...)
		dest.Children = MergeFoldersByName(append(dest.Children, src.Children...))
		absorbed[src] = true
	}

	kept := plan.Folders[:0]
	for _, f := range plan.Folders {
		if !absorbed[f] {
			kept = append(kept, f)
		}
	}
	plan.Folders = kept

	logger.Info("Merged %d folders into %q", len(targets)-1, dest.Name)
	return true
}

// topLevelFolder finds a top-level folder by trimmed name.
func topLevelFolder(plan *domain.OrganizationPlan, name string) *domain.Folder {
	name = strings.TrimSpace(name)
	for _, f := range plan.Folders {
		if strings.TrimSpace(f.Name) == name {
			return f
		}
	}
	return nil
}

// summarizeFolders reduces the plan to counts for the review prompt.
func summarizeFolders(folders []*domain.Folder) []folderSummary {
	summaries := make([]folderSummary, 0, len(folders))
	for _, f := range folders {
		s := folderSummary{Category: f.Name, DirectBookmarks: len(f.Bookmarks)}
		for _, child := range f.Children {
			s.Subcategories = append(s.Subcategories, subfolderSummary{
				Name:  child.Name,
				Count: len(child.Bookmarks),
			})
		}
		summaries = append(summaries, s)
	}
	return summaries
}
