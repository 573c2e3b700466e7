// Package domain defines the core business entities for docintake.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - MetadataRecord: One ingested document as stored in the corpus
//   - Upload: A submitted file and its facts
//   - ExtractionResult: Text and facts produced by a document extractor
//   - Classification: Structured fields returned by the classification service
//   - SimilarityMatch: One corpus neighbour of a newly ingested document
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
