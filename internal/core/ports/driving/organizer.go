package driving

import (
	"context"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

// Progress describes one step of an organization run. Stage is 1
// (structure planning), 2 (batched classification) or 3 (optimization
// review); single-pass runs report everything as stage 2.
type Progress struct {
	Stage        int
	Message      string
	Progress     float64 // 0-100
	CurrentBatch int
	TotalBatches int
}

// ProgressFunc receives progress updates. It is called at least once
// per stage transition and once per completed batch.
type ProgressFunc func(Progress)

// OrganizeOptions configures a run.
type OrganizeOptions struct {
	// BatchSize bounds every produced batch. Zero selects the
	// mode-appropriate default.
	BatchSize int

	// EnableOptimization turns on the stage-3 review pass.
	EnableOptimization bool

	// OnProgress, when non-nil, receives progress updates.
	OnProgress ProgressFunc
}

// Organizer produces an organization plan for a set of bookmarks.
// Implementations are pure over their inputs and the LLM port; any
// "one run at a time" guarantee is the caller's responsibility.
type Organizer interface {
	// Organize classifies the bookmarks and returns the final plan.
	Organize(ctx context.Context, bookmarks []domain.Bookmark, opts OrganizeOptions) (*domain.OrganizationPlan, error)
}

// ApplyStats summarizes what a plan application changed in the store.
type ApplyStats struct {
	FoldersCreated    int
	FoldersRemoved    int
	BookmarksMoved    int
	TitlesUpdated     int
	DuplicatesRemoved int
	Errors            []string
}

// PlanApplier pushes an organization plan into the bookmark store.
type PlanApplier interface {
	// Apply creates the plan's folders depth-first, moves and
	// optionally renames each bookmark, removes duplicates, and
	// sweeps leftovers into the catch-all folder.
	Apply(ctx context.Context, plan *domain.OrganizationPlan) (*ApplyStats, error)
}
