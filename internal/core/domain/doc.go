// Package domain defines the core entities of the search reindex pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SearchDocument: One language variant of a content item as indexed
//   - Category: The fixed set of content categories (the document type tag)
//   - Content records: Typed views over the content backend's records
//   - IndexSchema: The search index configuration applied on rebuild
//   - RebuildRun: An audit record of a single rebuild
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
