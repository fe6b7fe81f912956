package domain

import (
	"net/url"
	"strings"
	"time"
)

// UnknownSite is the sentinel domain for bookmarks whose URL cannot be parsed.
const UnknownSite = "unknown"

// Bookmark represents a single bookmark record from the host store.
// It is immutable input to the organization pipeline; identity is ID.
type Bookmark struct {
	// ID is the unique identifier assigned by the bookmark store.
	ID string

	// Title is the bookmark title as stored.
	Title string

	// URL is the bookmarked address.
	URL string

	// Path is the folder path the bookmark currently lives under,
	// outermost folder first. May be empty for root-level bookmarks.
	Path []string

	// DateAdded is when the bookmark was created, if known.
	DateAdded time.Time
}

// Site returns the bookmark's hostname with any leading "www." stripped.
// Unparsable URLs map to the UnknownSite sentinel.
func (b Bookmark) Site() string {
	u, err := url.Parse(b.URL)
	if err != nil || u.Hostname() == "" {
		return UnknownSite
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Summary is the reduced form of a bookmark sent to the model.
// Only the fields the model needs for classification are carried.
type Summary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Site  string `json:"site"`
	From  string `json:"from,omitempty"`
}

// Summarize reduces bookmarks to their model-facing summaries.
func Summarize(bookmarks []Bookmark) []Summary {
	summaries := make([]Summary, len(bookmarks))
	for i, b := range bookmarks {
		var from string
		if len(b.Path) > 0 {
			from = b.Path[0]
		}
		summaries[i] = Summary{
			ID:    b.ID,
			Title: b.Title,
			Site:  b.Site(),
			From:  from,
		}
	}
	return summaries
}
