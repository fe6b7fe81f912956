package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driving"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

// Ensure StorePlanApplier implements the interface.
var _ driving.PlanApplier = (*StorePlanApplier)(nil)

// StorePlanApplier pushes an organization plan into a bookmark store.
// Application is best-effort: a failure on one bookmark or folder is
// recorded and the rest of the plan still goes through.
type StorePlanApplier struct {
	store     driven.BookmarkStore
	preserved map[string]bool
}

// NewStorePlanApplier creates an applier. Nil preserved selects the
// built-in system folder names that must survive cleanup.
func NewStorePlanApplier(store driven.BookmarkStore, preserved []string) *StorePlanApplier {
	if preserved == nil {
		preserved = domain.DefaultPreservedFolders()
	}
	set := make(map[string]bool, len(preserved))
	for _, name := range preserved {
		set[strings.TrimSpace(name)] = true
	}
	return &StorePlanApplier{store: store, preserved: set}
}

// Apply clears the previous organization, creates the plan's folders
// depth-first, moves and renames bookmarks, removes duplicates, and
// sweeps anything still sitting at the root into the catch-all folder.
func (a *StorePlanApplier) Apply(ctx context.Context, plan *domain.OrganizationPlan) (*driving.ApplyStats, error) {
	if plan == nil || (len(plan.Folders) == 0 && len(plan.Duplicates) == 0) {
		return nil, fmt.Errorf("%w: empty organization plan", domain.ErrInvalidInput)
	}

	stats := &driving.ApplyStats{}

	if err := a.cleanup(ctx, stats); err != nil {
		return stats, err
	}

	for _, folder := range plan.Folders {
		a.applyFolder(ctx, folder, "", stats)
	}

	for _, id := range plan.Duplicates {
		if err := a.store.Remove(ctx, id); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("remove duplicate %s: %v", id, err))
			continue
		}
		stats.DuplicatesRemoved++
	}

	if err := a.sweepLoose(ctx, stats); err != nil {
		return stats, err
	}

	logger.Info("Applied plan: %d folders created, %d bookmarks moved, %d duplicates removed",
		stats.FoldersCreated, stats.BookmarksMoved, stats.DuplicatesRemoved)
	return stats, nil
}

// cleanup removes root-level folders left over from a previous run.
// System folders are preserved; bookmarks inside a removed folder are
// moved back to the root so the new plan can place them.
func (a *StorePlanApplier) cleanup(ctx context.Context, stats *driving.ApplyStats) error {
	folders, err := a.store.Folders(ctx)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}

	children := make(map[string][]driven.StoredFolder)
	for _, f := range folders {
		children[f.ParentID] = append(children[f.ParentID], f)
	}

	bookmarks, err := a.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list bookmarks: %w", err)
	}

	for _, f := range children[""] {
		if a.preserved[strings.TrimSpace(f.Name)] {
			continue
		}
		a.removeTree(ctx, f, children, bookmarks, stats)
	}
	return nil
}

// removeTree removes a folder subtree bottom-up, relocating contained
// bookmarks to the root first.
func (a *StorePlanApplier) removeTree(ctx context.Context, folder driven.StoredFolder, children map[string][]driven.StoredFolder, bookmarks []domain.Bookmark, stats *driving.ApplyStats) {
	for _, child := range children[folder.ID] {
		a.removeTree(ctx, child, children, bookmarks, stats)
	}

	for _, bm := range bookmarks {
		if !pathContains(bm.Path, folder.Name) {
			continue
		}
		if err := a.store.Move(ctx, bm.ID, ""); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("relocate %s: %v", bm.ID, err))
		}
	}

	if err := a.store.RemoveFolder(ctx, folder.ID); err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("remove folder %q: %v", folder.Name, err))
		return
	}
	stats.FoldersRemoved++
}

// applyFolder creates one plan folder under parentID and recurses into
// its children.
func (a *StorePlanApplier) applyFolder(ctx context.Context, folder *domain.Folder, parentID string, stats *driving.ApplyStats) {
	id, err := a.store.CreateFolder(ctx, folder.Name, parentID)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("create folder %q: %v", folder.Name, err))
		return
	}
	stats.FoldersCreated++

	for _, bm := range folder.Bookmarks {
		if err := a.store.Move(ctx, bm.ID, id); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("move %s into %q: %v", bm.ID, folder.Name, err))
			continue
		}
		stats.BookmarksMoved++

		if bm.NewTitle == "" || bm.NewTitle == bm.Title {
			continue
		}
		if err := a.store.Rename(ctx, bm.ID, bm.NewTitle); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("rename %s: %v", bm.ID, err))
			continue
		}
		stats.TitlesUpdated++
	}

	for _, child := range folder.Children {
		a.applyFolder(ctx, child, id, stats)
	}
}

// sweepLoose moves bookmarks still sitting at the root into the
// catch-all folder, created on demand.
func (a *StorePlanApplier) sweepLoose(ctx context.Context, stats *driving.ApplyStats) error {
	loose, err := a.store.RootBookmarks(ctx)
	if err != nil {
		return fmt.Errorf("list root bookmarks: %w", err)
	}
	if len(loose) == 0 {
		return nil
	}

	otherID, err := a.store.CreateFolder(ctx, domain.OtherFolderName, "")
	if err != nil {
		return fmt.Errorf("create %q folder: %w", domain.OtherFolderName, err)
	}
	stats.FoldersCreated++

	for _, bm := range loose {
		if err := a.store.Move(ctx, bm.ID, otherID); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("sweep %s: %v", bm.ID, err))
			continue
		}
		stats.BookmarksMoved++
	}
	logger.Debug("Swept %d loose bookmarks into %q", len(loose), domain.OtherFolderName)
	return nil
}

// pathContains reports whether a bookmark path includes the folder name
// as one of its segments.
func pathContains(path []string, folder string) bool {
	for _, segment := range path {
		if strings.TrimSpace(segment) == strings.TrimSpace(folder) {
			return true
		}
	}
	return false
}
