package indexing

// Indexing constants
const (
	// BatchSize is how many entries are buffered per bleve batch
	BatchSize = 100

	// MaxKeywords caps the keywords stored per entry
	MaxKeywords = 10

	// IndexSchemaVersion increments when entry derivation changes
	// v1: one entry per archived link with hierarchy metadata
	IndexSchemaVersion = 1
)
