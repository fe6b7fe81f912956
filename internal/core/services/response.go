package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

// fencedBlock matches a markdown code fence, optionally tagged "json",
// capturing the inner content. Models frequently wrap their JSON this way.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON locates the JSON payload in free-form model output: the
// inner content of the first fenced block if present, otherwise the
// trimmed whole text. It does not validate the payload.
func ExtractJSON(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// parseError wraps a parse failure with the original text for
// diagnostics. Extraction is strict and all-or-nothing: no partial
// recovery is attempted.
func parseError(cause error, raw string) error {
	return fmt.Errorf("%w: %v (raw response: %.200s)", domain.ErrResponseParse, cause, raw)
}

// ParseClassificationTree decodes a stage-1 response. The categories
// array must be present and non-empty.
func ParseClassificationTree(text string) (*domain.ClassificationTree, error) {
	var tree domain.ClassificationTree
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &tree); err != nil {
		return nil, parseError(err, text)
	}
	if tree.IsEmpty() {
		return nil, parseError(domain.ErrEmptyTree, text)
	}
	return &tree, nil
}

// batchResponse is the stage-2 per-batch JSON shape.
type batchResponse struct {
	Classifications []domain.ClassificationEntry `json:"classifications"`
	Duplicates      []domain.DuplicatePair       `json:"duplicates"`
}

// ParseBatchResult decodes a stage-2 response. The classifications
// array must be present; the duplicates array may be absent.
func ParseBatchResult(text string) ([]domain.ClassificationEntry, []domain.DuplicatePair, error) {
	payload := ExtractJSON(text)
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return nil, nil, parseError(err, text)
	}
	if _, ok := probe["classifications"]; !ok {
		return nil, nil, parseError(fmt.Errorf("missing classifications array"), text)
	}
	var resp batchResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, nil, parseError(err, text)
	}
	return resp.Classifications, resp.Duplicates, nil
}

// Optimization is one structural operation proposed by the stage-3
// review.
type Optimization struct {
	Type   string   `json:"type"`
	Action string   `json:"action"`
	Target []string `json:"target"`
}

// ParseOptimizations decodes a stage-3 response. An empty operations
// array is a valid "nothing to do" answer.
func ParseOptimizations(text string) ([]Optimization, error) {
	var resp struct {
		Optimizations []Optimization `json:"optimizations"`
	}
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &resp); err != nil {
		return nil, parseError(err, text)
	}
	return resp.Optimizations, nil
}

// SinglePassResult is the single-pass per-batch JSON shape.
type SinglePassResult struct {
	Folders      []*domain.Folder              `json:"folders"`
	Unclassified []domain.UnclassifiedBookmark `json:"unclassified"`
	Duplicates   []string                      `json:"duplicates"`
}

// ParseSinglePassResult decodes a single-pass response. The folders
// array is required.
func ParseSinglePassResult(text string) (*SinglePassResult, error) {
	payload := ExtractJSON(text)
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return nil, parseError(err, text)
	}
	if _, ok := probe["folders"]; !ok {
		return nil, parseError(fmt.Errorf("missing folders array"), text)
	}
	var resp SinglePassResult
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, parseError(err, text)
	}
	return &resp, nil
}
