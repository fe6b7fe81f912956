package services

import (
	"fmt"
	"strings"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

// SmartBatcher runs stage 2a: it scores every bookmark against the
// classification tree's keyword sets, groups bookmarks by their best
// match, and repacks the groups into size-bounded batches.
//
// Batching is deterministic: ties in scoring resolve to the first
// category/subcategory pair in tree order, and batches are emitted in
// group-first-seen order.
type SmartBatcher struct{}

// NewSmartBatcher creates a smart batcher.
func NewSmartBatcher() *SmartBatcher {
	return &SmartBatcher{}
}

// leafKey identifies one (category, subcategory) assignment.
type leafKey struct {
	category    string
	subcategory string
}

// assignment pairs a bookmark group with its assigned leaf.
type assignment struct {
	key       leafKey
	bookmarks []domain.Bookmark
}

// CreateBatches groups bookmarks by their best-matching tree leaf and
// packs the groups into batches of at most batchSize bookmarks.
// Every input bookmark lands in exactly one batch.
func (b *SmartBatcher) CreateBatches(bookmarks []domain.Bookmark, tree *domain.ClassificationTree, batchSize int) []domain.Batch {
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}

	groups := b.groupByLeaf(bookmarks, tree)

	var batches []domain.Batch
	var buffer []domain.Bookmark

	flushBuffer := func() {
		if len(buffer) == 0 {
			return
		}
		batches = append(batches, domain.Batch{
			Index:     len(batches) + 1,
			Bookmarks: buffer,
			Theme:     pluralityDomain(buffer),
		})
		buffer = nil
	}

	for _, group := range groups {
		if len(group.bookmarks) > batchSize {
			// Oversized groups become their own run of batches.
			flushBuffer()
			theme := fmt.Sprintf("%s/%s", group.key.category, group.key.subcategory)
			for start := 0; start < len(group.bookmarks); start += batchSize {
				end := min(start+batchSize, len(group.bookmarks))
				batches = append(batches, domain.Batch{
					Index:     len(batches) + 1,
					Bookmarks: group.bookmarks[start:end],
					Theme:     theme,
				})
			}
			continue
		}

		if len(buffer)+len(group.bookmarks) > batchSize {
			flushBuffer()
		}
		buffer = append(buffer, group.bookmarks...)
	}
	flushBuffer()

	logger.Info("Created %d batches from %d bookmarks", len(batches), len(bookmarks))
	return batches
}

// groupByLeaf assigns every bookmark to its best-matching leaf and
// groups them, preserving first-seen group order.
func (b *SmartBatcher) groupByLeaf(bookmarks []domain.Bookmark, tree *domain.ClassificationTree) []assignment {
	index := make(map[leafKey]int)
	var groups []assignment

	for _, bm := range bookmarks {
		key := b.assign(bm, tree)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, assignment{key: key})
		}
		groups[i].bookmarks = append(groups[i].bookmarks, bm)
	}

	return groups
}

// assign picks the (category, subcategory) pair with the highest
// keyword score. Only a strictly greater score replaces the current
// best, so ties resolve to the first pair in tree order. A bookmark
// matching nothing falls back to the tree's first leaf.
func (b *SmartBatcher) assign(bm domain.Bookmark, tree *domain.ClassificationTree) leafKey {
	category, subcategory := tree.FirstLeaf(domain.FallbackCategory, domain.GeneralSubcategory)
	best := leafKey{category: category, subcategory: subcategory}
	bestScore := 0

	title := strings.ToLower(bm.Title)
	site := strings.ToLower(bm.Site())

	for _, cat := range tree.Categories {
		for _, sub := range cat.Subcategories {
			score := matchScore(title, site, sub.Keywords)
			if score > bestScore {
				best = leafKey{category: cat.Name, subcategory: sub.Name}
				bestScore = score
			}
		}
	}

	return best
}

// matchScore counts the keywords occurring as a case-insensitive
// substring of the title or the domain.
func matchScore(lowerTitle, lowerSite string, keywords []string) int {
	score := 0
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		if lower == "" {
			continue
		}
		if strings.Contains(lowerTitle, lower) || strings.Contains(lowerSite, lower) {
			score++
		}
	}
	return score
}

// pluralityDomain returns the most common domain among the bookmarks,
// breaking ties by first appearance.
func pluralityDomain(bookmarks []domain.Bookmark) string {
	counts := make(map[string]int)
	var order []string

	for _, bm := range bookmarks {
		site := bm.Site()
		if counts[site] == 0 {
			order = append(order, site)
		}
		counts[site]++
	}

	theme := ""
	best := 0
	for _, site := range order {
		if counts[site] > best {
			theme = site
			best = counts[site]
		}
	}
	if theme == "" {
		theme = domain.UnknownSite
	}
	return theme
}
