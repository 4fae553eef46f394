// Package domain defines the core business entities for scopeiq.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Project: A construction project that groups documents
//   - Document: An imported document with metadata
//   - Chunk: A searchable unit within a document
//   - SearchTerm, MatchOptions, MatchSpan: Highlighting inputs and output
//   - Capabilities: What the output terminal can display
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
