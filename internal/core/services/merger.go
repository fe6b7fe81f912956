package services

import (
	"sort"
	"strings"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

// ResultMerger folds per-batch classification results into the final
// folder tree: it merges same-leaf entries, strips sentinel and empty
// folders, deduplicates the duplicate list, and sorts deterministically.
//
// The sentinel set and the priority order are data, not code: both can
// be overridden from configuration.
type ResultMerger struct {
	sentinels map[string]bool
	priority  []string
}

// NewResultMerger creates a merger. Nil sentinels or priority select
// the built-in defaults.
func NewResultMerger(sentinels, priority []string) *ResultMerger {
	if sentinels == nil {
		sentinels = domain.DefaultSentinelFolders()
	}
	if priority == nil {
		priority = domain.DefaultCategoryPriority()
	}
	set := make(map[string]bool, len(sentinels))
	for _, name := range sentinels {
		set[strings.TrimSpace(name)] = true
	}
	return &ResultMerger{sentinels: set, priority: priority}
}

// Merge folds all batches' classifications into an organization plan.
func (m *ResultMerger) Merge(batchResults []domain.BatchResult) *domain.OrganizationPlan {
	var folders []*domain.Folder
	byName := make(map[string]*domain.Folder)

	folderFor := func(category string) *domain.Folder {
		name := strings.TrimSpace(category)
		if f, ok := byName[name]; ok {
			return f
		}
		f := &domain.Folder{Name: name}
		byName[name] = f
		folders = append(folders, f)
		return f
	}

	var pairs []domain.DuplicatePair
	for _, batch := range batchResults {
		for _, cls := range batch.Classifications {
			folder := folderFor(cls.Category)
			placed := domain.PlacedBookmark{
				ID:         cls.BookmarkID,
				Title:      cls.OriginalTitle,
				NewTitle:   cls.SuggestedTitle,
				Confidence: cls.Confidence,
			}

			sub := strings.TrimSpace(cls.Subcategory)
			if sub == "" || strings.EqualFold(sub, domain.GeneralSubcategory) {
				folder.Bookmarks = append(folder.Bookmarks, placed)
				continue
			}

			child := findChild(folder, sub)
			if child == nil {
				child = &domain.Folder{Name: sub}
				folder.Children = append(folder.Children, child)
			}
			child.Bookmarks = append(child.Bookmarks, placed)
		}
		pairs = append(pairs, batch.Duplicates...)
	}

	folders = m.filter(folders)
	m.sortFolders(folders)

	return &domain.OrganizationPlan{
		Folders:        folders,
		Duplicates:     flattenPairs(pairs),
		DuplicatePairs: dedupePairs(pairs),
	}
}

// filter drops sentinel top-level folders and, recursively, folders
// whose total bookmark count is zero.
func (m *ResultMerger) filter(folders []*domain.Folder) []*domain.Folder {
	kept := folders[:0]
	for _, f := range folders {
		if m.sentinels[strings.TrimSpace(f.Name)] {
			continue
		}
		f.Children = pruneEmpty(f.Children)
		if f.Count() == 0 {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// pruneEmpty removes zero-count folders at every depth.
func pruneEmpty(folders []*domain.Folder) []*domain.Folder {
	kept := folders[:0]
	for _, f := range folders {
		f.Children = pruneEmpty(f.Children)
		if f.Count() == 0 {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// sortFolders orders top-level folders by the fixed priority list, the
// rest alphabetically after them; children sort alphabetically.
func (m *ResultMerger) sortFolders(folders []*domain.Folder) {
	rank := make(map[string]int, len(m.priority))
	for i, name := range m.priority {
		rank[name] = i
	}

	sort.SliceStable(folders, func(i, j int) bool {
		ri, iOK := rank[folders[i].Name]
		rj, jOK := rank[folders[j].Name]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return folders[i].Name < folders[j].Name
		}
	})

	for _, f := range folders {
		sortChildren(f)
	}
}

// sortChildren sorts a folder's descendants alphabetically.
func sortChildren(f *domain.Folder) {
	sort.SliceStable(f.Children, func(i, j int) bool {
		return f.Children[i].Name < f.Children[j].Name
	})
	for _, child := range f.Children {
		sortChildren(child)
	}
}

// findChild returns the direct child with the given trimmed name.
func findChild(f *domain.Folder, name string) *domain.Folder {
	for _, child := range f.Children {
		if strings.TrimSpace(child.Name) == name {
			return child
		}
	}
	return nil
}

// flattenPairs collects both members of every pair into an ordered,
// de-duplicated id list.
func flattenPairs(pairs []domain.DuplicatePair) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		for _, id := range []string{p.ID1, p.ID2} {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// dedupePairs removes repeated pairs regardless of member order.
func dedupePairs(pairs []domain.DuplicatePair) []domain.DuplicatePair {
	type pairKey struct{ a, b string }
	seen := make(map[pairKey]bool)
	var kept []domain.DuplicatePair
	for _, p := range pairs {
		a, b := p.ID1, p.ID2
		if a > b {
			a, b = b, a
		}
		key := pairKey{a: a, b: b}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, p)
	}
	return kept
}

// MergeFoldersByName merges folders sharing the same trimmed name:
// bookmark lists concatenate and children merge recursively. Merging an
// already-merged set is a no-op. Used by the single-pass organizer,
// whose per-batch results repeat folder names.
func MergeFoldersByName(folders []*domain.Folder) []*domain.Folder {
	var merged []*domain.Folder
	byName := make(map[string]*domain.Folder)

	for _, f := range folders {
		name := strings.TrimSpace(f.Name)
		existing, ok := byName[name]
		if !ok {
			entry := &domain.Folder{Name: name, Bookmarks: f.Bookmarks}
			entry.Children = MergeFoldersByName(f.Children)
			byName[name] = entry
			merged = append(merged, entry)
			continue
		}
		existing.Bookmarks = append(existing.Bookmarks, f.Bookmarks...)
		existing.Children = MergeFoldersByName(append(existing.Children, f.Children...))
	}

	return merged
}
