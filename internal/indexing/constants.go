package indexing

const (
	// MaxHeadingLevel is the deepest markdown heading recognised (######)
	MaxHeadingLevel = 6

	// IndexSchemaVersion increments when text reduction or section splitting changes
	// v1: regex reduction, one section per heading
	IndexSchemaVersion = 1
)
