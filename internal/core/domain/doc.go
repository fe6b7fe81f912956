// Package domain defines the core business entities for Tidymark.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Bookmark: A bookmark record from the host store
//   - ClassificationTree: The two-level taxonomy planned once per run
//   - Batch: A size-bounded group of bookmarks sent to the model
//   - Folder / OrganizationPlan: The final organization artifact
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
