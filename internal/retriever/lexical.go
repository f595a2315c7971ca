package retriever

import (
	"sort"
	"strings"

	"lexrag/internal/domain"
)

const DefaultLimit = 3

// Lexical ranks chunks by how many distinct query terms they contain.
type Lexical struct {
	limit int
}

// NewLexical returns a retriever that keeps at most limit chunks per query.
func NewLexical(limit int) (*Lexical, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	return &Lexical{limit: limit}, nil
}

func (r *Lexical) Limit() int { return r.limit }

// Search implements domain.Retriever.
func (r *Lexical) Search(query string, candidates []domain.Chunk) ([]domain.Chunk, error) {
	return Search(query, candidates, r.limit)
}

type scoredCandidate struct {
	chunk domain.Chunk
	score int
}

// Search returns up to limit candidates that contain at least one query term,
// highest score first. A term counts once per chunk however often it occurs.
// Equal scores keep the order in which candidates were supplied.
func Search(query string, candidates []domain.Chunk, limit int) ([]domain.Chunk, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	terms := Terms(query)
	if len(terms) == 0 || len(candidates) == 0 {
		return nil, nil
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, ch := range candidates {
		if score := Score(terms, ch.Text); score > 0 {
			scored = append(scored, scoredCandidate{chunk: ch, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if limit > len(scored) {
		limit = len(scored)
	}
	out := make([]domain.Chunk, limit)
	for i := range out {
		out[i] = scored[i].chunk
	}
	return out, nil
}

// Terms splits query on whitespace and returns its distinct lower-cased tokens
// in first-seen order.
func Terms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	terms := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// Score counts the terms that occur as substrings of text, ignoring case.
// terms must already be lower-cased.
func Score(terms []string, text string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			score++
		}
	}
	return score
}

func validateLimit(limit int) error {
	if limit <= 0 {
		return domain.InvalidParams("search", "limit must be >= 1, got %d", limit)
	}
	return nil
}
