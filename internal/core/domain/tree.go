package domain

// ClassificationTree is the two-level taxonomy produced by the
// structure-planning stage. It is read-only once returned: scoring and
// tie-breaking depend on the order of categories and subcategories.
type ClassificationTree struct {
	Categories           []Category `json:"categories"`
	TotalBookmarks       int        `json:"total_bookmarks"`
	RecommendedBatchSize int        `json:"recommended_batch_size"`
	Notes                string     `json:"notes,omitempty"`
}

// Category is a top-level grouping with keyword-carrying subcategories.
type Category struct {
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Subcategories  []Subcategory `json:"subcategories"`
	TotalEstimated int           `json:"total_estimated,omitempty"`
}

// Subcategory is a leaf of the taxonomy. Keywords are matched
// case-insensitively against bookmark titles and domains.
type Subcategory struct {
	Name           string   `json:"name"`
	Keywords       []string `json:"keywords"`
	EstimatedCount int      `json:"estimated_count,omitempty"`
}

// IsEmpty reports whether the tree has no categories to classify against.
func (t ClassificationTree) IsEmpty() bool {
	return len(t.Categories) == 0
}

// FirstLeaf returns the first category/subcategory pair in tree order,
// used as the fallback assignment for bookmarks with no keyword match.
// Falls back to the given labels when the tree has no usable leaf.
func (t ClassificationTree) FirstLeaf(defaultCategory, defaultSubcategory string) (string, string) {
	if len(t.Categories) == 0 {
		return defaultCategory, defaultSubcategory
	}
	cat := t.Categories[0]
	if len(cat.Subcategories) == 0 {
		return cat.Name, defaultSubcategory
	}
	return cat.Name, cat.Subcategories[0].Name
}
