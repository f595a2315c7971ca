package retriever

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexrag/internal/domain"
)

func chunk(id, text string) domain.Chunk {
	return domain.Chunk{ID: id, DocumentID: "doc", DocumentName: "doc.txt", Text: text}
}

func ids(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.ID
	}
	return out
}

func TestSearch_SingleMatch(t *testing.T) {
	got, err := Search("cat dog", []domain.Chunk{chunk("c1", "a cat sat")}, DefaultLimit)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
}

func TestSearch_NoMatch(t *testing.T) {
	pool := []domain.Chunk{chunk("c1", "a cat sat"), chunk("c2", "on the mat")}
	got, err := Search("xyz", pool, DefaultLimit)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_EmptyInputsAreNotErrors(t *testing.T) {
	pool := []domain.Chunk{chunk("c1", "anything at all")}

	for _, q := range []string{"", "   ", "\t\n"} {
		got, err := Search(q, pool, DefaultLimit)
		require.NoError(t, err)
		assert.Empty(t, got, "query %q", q)
	}

	got, err := Search("anything", nil, DefaultLimit)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_RanksByDistinctTermPresence(t *testing.T) {
	pool := []domain.Chunk{
		chunk("once", "alpha"),
		chunk("repeated", "alpha alpha alpha alpha"),
		chunk("both", "Alpha and BETA"),
	}
	got, err := Search("alpha beta", pool, DefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, []string{"both", "once", "repeated"}, ids(got))
}

func TestSearch_DuplicateQueryTermsCountOnce(t *testing.T) {
	pool := []domain.Chunk{
		chunk("cat", "the cat"),
		chunk("dog", "the dog"),
	}
	got, err := Search("cat CAT cat dog", pool, DefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, ids(got))
}

func TestSearch_SubstringMatch(t *testing.T) {
	got, err := Search("cat", []domain.Chunk{chunk("c1", "concatenation")}, DefaultLimit)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearch_LimitKeepsHighestScores(t *testing.T) {
	pool := make([]domain.Chunk, 0, 10)
	for i := 0; i < 10; i++ {
		pool = append(pool, chunk(fmt.Sprintf("low%d", i), "red"))
	}
	pool[4] = chunk("top", "red green blue")
	pool[7] = chunk("second", "red green")
	pool[9] = chunk("third", "red blue")

	got, err := Search("red green blue", pool, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"top", "second", "third"}, ids(got))
}

func TestSearch_StableTies(t *testing.T) {
	pool := []domain.Chunk{
		chunk("a", "one"),
		chunk("b", "one two"),
		chunk("c", "one"),
		chunk("d", "one"),
	}
	got, err := Search("one two", pool, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(got))
}

func TestSearch_Deterministic(t *testing.T) {
	pool := []domain.Chunk{chunk("a", "x y"), chunk("b", "y z"), chunk("c", "x z"), chunk("d", "x y z")}
	first, err := Search("x y z", pool, 3)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Search("x y z", pool, 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSearch_DoesNotMutateCandidates(t *testing.T) {
	pool := []domain.Chunk{chunk("a", "one"), chunk("b", "one two")}
	_, err := Search("one two", pool, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(pool))
}

func TestSearch_InvalidLimit(t *testing.T) {
	for _, limit := range []int{0, -1} {
		_, err := Search("cat", []domain.Chunk{chunk("c1", "cat")}, limit)
		assert.ErrorIs(t, err, domain.ErrInvalidParams)
	}
}

func TestLexical(t *testing.T) {
	_, err := NewLexical(0)
	require.ErrorIs(t, err, domain.ErrInvalidParams)

	r, err := NewLexical(1)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Limit())

	var ret domain.Retriever = r
	got, err := ret.Search("cat", []domain.Chunk{chunk("a", "cat"), chunk("b", "cat")})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, Terms("  Hello\tWORLD hello\n"))
	assert.Empty(t, Terms(" \t "))
}

func TestScore(t *testing.T) {
	assert.Equal(t, 2, Score([]string{"go", "rust", "zig"}, "Go and Rust, Go and Rust"))
	assert.Equal(t, 0, Score(nil, "anything"))
}
