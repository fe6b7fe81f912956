package domain

// PlacedBookmark is a bookmark's position in the final plan, carrying
// the model's optional title improvement and confidence.
type PlacedBookmark struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	NewTitle   string  `json:"newTitle,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Folder is one node of the planned hierarchy. Names are unique among
// siblings; the merge step enforces this.
type Folder struct {
	Name      string           `json:"name"`
	Bookmarks []PlacedBookmark `json:"bookmarks"`
	Children  []*Folder        `json:"children,omitempty"`
}

// Count returns the folder's recursive bookmark count.
func (f *Folder) Count() int {
	count := len(f.Bookmarks)
	for _, child := range f.Children {
		count += child.Count()
	}
	return count
}

// UnclassifiedBookmark records a bookmark the pipeline could not place,
// with the reason (for example a failed single-pass batch).
type UnclassifiedBookmark struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason,omitempty"`
}

// PlanStats summarizes a completed run.
type PlanStats struct {
	TotalBookmarks    int     `json:"totalBookmarks"`
	TotalCategorized  int     `json:"totalCategorized"`
	TotalUnclassified int     `json:"totalUnclassified"`
	CategorizedRate   float64 `json:"categorizedRate"`
	BatchCount        int     `json:"batchCount"`
	Stages            int     `json:"stages"`
}

// OrganizationPlan is the sole artifact handed to the bookmark store:
// the folder hierarchy, bookmarks flagged for removal as duplicates,
// and run statistics.
//
// Duplicates is the flattened set of both members of every duplicate
// pair; DuplicatePairs preserves the pairing for auditing even though
// removal only needs the ids.
type OrganizationPlan struct {
	Folders        []*Folder              `json:"folders"`
	Unclassified   []UnclassifiedBookmark `json:"unclassified,omitempty"`
	Duplicates     []string               `json:"duplicates"`
	DuplicatePairs []DuplicatePair        `json:"duplicatePairs,omitempty"`
	Stats          PlanStats              `json:"stats"`
}

// Categorized returns the total bookmark count across all folders.
func (p *OrganizationPlan) Categorized() int {
	count := 0
	for _, f := range p.Folders {
		count += f.Count()
	}
	return count
}
