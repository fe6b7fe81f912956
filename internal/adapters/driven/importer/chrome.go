// Package importer loads bookmark exports into a bookmark store.
// Currently supports the Chrome/Chromium "Bookmarks" JSON format.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

// Destination receives imported folders and bookmarks. Both bookmark
// store adapters satisfy it alongside the BookmarkStore port.
type Destination interface {
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	Insert(ctx context.Context, title, url, folderID string, dateAdded time.Time) (string, error)
}

// Stats summarizes one import run.
type Stats struct {
	Bookmarks int
	Folders   int
	Skipped   int
}

// chromeFile is the top level of a Chrome Bookmarks export.
type chromeFile struct {
	Roots map[string]chromeNode `json:"roots"`
}

// chromeNode is one entry: a folder with children or a url leaf.
type chromeNode struct {
	Type      string       `json:"type"`
	Name      string       `json:"name"`
	URL       string       `json:"url"`
	DateAdded string       `json:"date_added"`
	Children  []chromeNode `json:"children"`
}

// ImportChromeFile reads a Chrome Bookmarks JSON file and loads its
// contents into the destination. Root containers (bookmark bar, other,
// synced) are flattened: their children import at the store root.
func ImportChromeFile(ctx context.Context, path string, dest Destination) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return ImportChrome(ctx, data, dest)
}

// ImportChrome loads a Chrome Bookmarks JSON document into the
// destination.
func ImportChrome(ctx context.Context, data []byte, dest Destination) (*Stats, error) {
	var file chromeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse export: %v", domain.ErrInvalidInput, err)
	}
	if len(file.Roots) == 0 {
		return nil, fmt.Errorf("%w: export has no roots", domain.ErrInvalidInput)
	}

	stats := &Stats{}
	for _, rootName := range []string{"bookmark_bar", "other", "synced"} {
		root, ok := file.Roots[rootName]
		if !ok {
			continue
		}
		for _, child := range root.Children {
			if err := importNode(ctx, child, "", dest, stats); err != nil {
				return stats, err
			}
		}
	}

	logger.Info("Imported %d bookmarks in %d folders (%d skipped)",
		stats.Bookmarks, stats.Folders, stats.Skipped)
	return stats, nil
}

// importNode walks one node recursively.
func importNode(ctx context.Context, node chromeNode, parentID string, dest Destination, stats *Stats) error {
	switch node.Type {
	case "folder":
		id, err := dest.CreateFolder(ctx, node.Name, parentID)
		if err != nil {
			return fmt.Errorf("import folder %q: %w", node.Name, err)
		}
		stats.Folders++
		for _, child := range node.Children {
			if err := importNode(ctx, child, id, dest, stats); err != nil {
				return err
			}
		}
		return nil

	case "url":
		if node.URL == "" {
			stats.Skipped++
			return nil
		}
		if _, err := dest.Insert(ctx, node.Name, node.URL, parentID, chromeTime(node.DateAdded)); err != nil {
			return fmt.Errorf("import bookmark %q: %w", node.Name, err)
		}
		stats.Bookmarks++
		return nil

	default:
		stats.Skipped++
		return nil
	}
}

// chromeEpochOffset is the seconds between the Windows epoch
// (1601-01-01) Chrome timestamps count from and the Unix epoch.
const chromeEpochOffset = 11644473600

// chromeTime converts Chrome's microseconds-since-1601 string to a
// time.Time. Unparsable or zero values map to the zero time.
func chromeTime(raw string) time.Time {
	micros, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || micros == 0 {
		return time.Time{}
	}
	secs := micros/1e6 - chromeEpochOffset
	if secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, (micros%1e6)*1000).UTC()
}
