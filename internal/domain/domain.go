package domain

// Document represents a single text source handed to the indexer.
// The indexer never mutates it.
type Document struct {
	ID      string
	Name    string
	Path    string
	Content string
}

// Chunk is a bounded, positioned window of a document used for retrieval.
type Chunk struct {
	ID           string
	DocumentID   string
	DocumentName string
	Text         string
	Index        int
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Retriever ranks a candidate pool against a query, best match first.
type Retriever interface {
	Search(query string, candidates []Chunk) ([]Chunk, error)
}
