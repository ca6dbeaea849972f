package parse_test

import (
	"testing"

	"clausetree/internal/parse"
	"clausetree/internal/parse/parsetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSentence_Reindex(t *testing.T) {
	// Second sentence of a document: indices start at 7.
	tokens := []parse.Token{
		{Index: 7, Text: "Go", Pos: "VERB", Tag: "VB", Dep: "ROOT", Head: 7},
		{Index: 8, Text: "home", Pos: "NOUN", Tag: "NN", Dep: "dobj", Head: 7, NoSpaceAfter: true},
		{Index: 9, Text: "!", Pos: "PUNCT", Tag: ".", Dep: "punct", Head: 7},
	}
	chunks := []parse.NounChunk{{Start: 8, End: 9, Root: 8}}

	s, err := parse.NewSentence("", tokens, chunks)
	require.NoError(t, err)

	t.Run("Indices start at zero", func(t *testing.T) {
		for i, tok := range s.Tokens {
			assert.Equal(t, i, tok.Index)
		}
		assert.Equal(t, 0, s.Tokens[1].Head)
		assert.Equal(t, []int{1, 2}, s.Tokens[0].Children)
	})

	t.Run("Chunks shifted", func(t *testing.T) {
		assert.Equal(t, []parse.NounChunk{{Start: 1, End: 2, Root: 1}}, s.Chunks)
	})

	t.Run("Text rebuilt from tokens", func(t *testing.T) {
		assert.Equal(t, "Go home!", s.Text)
	})

	assert.Equal(t, 0, s.Root())
}

func TestNewSentence_Invalid(t *testing.T) {
	t.Run("Gap in indices", func(t *testing.T) {
		_, err := parse.NewSentence("", []parse.Token{
			{Index: 0, Text: "a", Dep: "ROOT", Head: 0},
			{Index: 2, Text: "b", Dep: "dep", Head: 0},
		}, nil)
		assert.Error(t, err)
	})

	t.Run("Head outside sentence", func(t *testing.T) {
		_, err := parse.NewSentence("", []parse.Token{
			{Index: 0, Text: "a", Dep: "ROOT", Head: 0},
			{Index: 1, Text: "b", Dep: "dep", Head: 5},
		}, nil)
		assert.Error(t, err)
	})

	t.Run("Chunk outside sentence", func(t *testing.T) {
		_, err := parse.NewSentence("", []parse.Token{
			{Index: 0, Text: "a", Dep: "ROOT", Head: 0},
		}, []parse.NounChunk{{Start: 0, End: 3, Root: 0}})
		assert.Error(t, err)
	})
}

func TestSentence_SpanText(t *testing.T) {
	s := parsetest.Book()

	assert.Equal(t, "The book", s.SpanText(0, 2))
	assert.Equal(t, "is interesting.", s.SpanText(5, 8))
	assert.Equal(t, "", s.SpanText(3, 3))
	assert.Equal(t, s.Text, s.SpanText(0, s.Len()))
}

func TestSentence_LeftEdge(t *testing.T) {
	s := parsetest.Book()

	assert.Equal(t, 0, s.LeftEdge(1), "book's subtree starts at The")
	assert.Equal(t, 0, s.LeftEdge(5), "root covers the whole sentence")
	assert.Equal(t, 2, s.LeftEdge(4))
}
