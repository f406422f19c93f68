// Package domain defines the core business entities for docqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested file with provenance and table text
//   - ChunkPayload: Index-ready chunk texts, ids and metadata
//   - ChatTurn: One persisted message in a session
//   - ReportBlock: One renderable unit of a generated report
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
