package domain

// DefaultTopK is how many similar documents an ingestion reports.
const DefaultTopK = 5

// DefaultExcerptLength bounds the fulltext shown in list views.
const DefaultExcerptLength = 280

// SimilarityMatch is one corpus record scored against a new document.
type SimilarityMatch struct {
	// Document is the original filename of the matched record.
	Document string `json:"document"`

	// Similarity is the score formatted as a percentage with two decimals.
	Similarity string `json:"similarity"`

	// Score is the raw score in [0,1].
	Score float64 `json:"-"`
}

// IngestResult is returned to the client after a successful ingestion.
type IngestResult struct {
	Metadata     MetadataRecord    `json:"metadata"`
	Similarities []SimilarityMatch `json:"similarities"`
}
