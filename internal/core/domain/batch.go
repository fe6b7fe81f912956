package domain

// Batch is a size-bounded group of bookmarks classified in one model call.
type Batch struct {
	// Index is the 1-based position in processing order.
	Index int

	// Bookmarks never exceeds the configured batch size.
	Bookmarks []Bookmark

	// Theme is a human-readable label for the batch: either the
	// dominant domain of a mixed batch or "category/subcategory"
	// for a batch split from one oversized group.
	Theme string
}

// ClassificationEntry is one bookmark's assignment to a taxonomy leaf,
// as returned by the model for a batch.
type ClassificationEntry struct {
	BookmarkID     string  `json:"bookmark_id"`
	OriginalTitle  string  `json:"original_title"`
	SuggestedTitle string  `json:"suggested_title,omitempty"`
	Category       string  `json:"category"`
	Subcategory    string  `json:"subcategory"`
	Confidence     float64 `json:"confidence"`
}

// DuplicatePair flags two bookmarks the model considers duplicates.
type DuplicatePair struct {
	ID1    string `json:"id1"`
	ID2    string `json:"id2"`
	Reason string `json:"reason,omitempty"`
}

// BatchResult collects one batch's classifications. A batch whose
// response could not be parsed contributes empty slices.
type BatchResult struct {
	BatchIndex      int
	Theme           string
	Classifications []ClassificationEntry
	Duplicates      []DuplicatePair
}
