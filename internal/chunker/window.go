package chunker

import (
	"strconv"

	"lexrag/internal/domain"
)

const (
	DefaultWindowSize = 1000
	DefaultOverlap    = 100
)

// Window splits text into fixed-size, overlapping windows of runes.
type Window struct {
	windowSize int
	overlap    int
}

// NewWindow validates the parameters and returns a window chunker.
func NewWindow(windowSize, overlap int) (*Window, error) {
	if err := Validate(windowSize, overlap); err != nil {
		return nil, err
	}
	return &Window{windowSize: windowSize, overlap: overlap}, nil
}

// Validate reports whether windowSize and overlap form a usable pair.
func Validate(windowSize, overlap int) error {
	if windowSize <= 0 {
		return domain.InvalidParams("chunk", "window size must be positive, got %d", windowSize)
	}
	if overlap < 0 || overlap >= windowSize {
		return domain.InvalidParams("chunk", "overlap must be in [0, %d), got %d", windowSize, overlap)
	}
	return nil
}

func (c *Window) WindowSize() int { return c.windowSize }
func (c *Window) Overlap() int { return c.overlap }

// Chunk implements domain.Chunker.
func (c *Window) Chunk(document domain.Document) ([]domain.Chunk, error) {
	return ChunkDocument(document.ID, document.Name, document.Content, c.windowSize, c.overlap)
}

// ChunkDocument splits content into windows of windowSize runes, each starting
// windowSize-overlap runes after the previous one. The last window may be
// shorter but is never empty. Chunk ids are "{documentID}_{index}".
func ChunkDocument(documentID, documentName, content string, windowSize, overlap int) ([]domain.Chunk, error) {
	if err := Validate(windowSize, overlap); err != nil {
		return nil, err
	}
	runes := []rune(content)
	if len(runes) == 0 {
		return nil, nil
	}
	step := windowSize - overlap
	chunks := make([]domain.Chunk, 0, Count(len(runes), windowSize, overlap))
	for start, idx := 0, 0; start < len(runes); start, idx = start+step, idx+1 {
		end := start + windowSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			ID:           documentID + "_" + strconv.Itoa(idx),
			DocumentID:   documentID,
			DocumentName: documentName,
			Text:         string(runes[start:end]),
			Index:        idx,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}

// Count returns how many chunks a text of length runes produces.
func Count(length, windowSize, overlap int) int {
	if length <= 0 {
		return 0
	}
	if length <= windowSize {
		return 1
	}
	step := windowSize - overlap
	return (length - overlap + step - 1) / step
}
