package parse_test

import (
	"testing"

	"clausetree/internal/parse"
	"clausetree/internal/parse/parsetest"

	"github.com/stretchr/testify/assert"
)

func chunkTexts(s *parse.Sentence) []string {
	var out []string
	for _, c := range s.Chunks {
		out = append(out, s.ChunkText(c))
	}
	return out
}

func TestDeriveNounChunks(t *testing.T) {
	tests := []struct {
		name string
		s    *parse.Sentence
		want []string
	}{
		{"Relative clause", parsetest.Book(), []string{"The book", "that", "she"}},
		{"Conjuncts inherit the object relation", parsetest.Apples(), []string{"John", "apples", "oranges"}},
		{"Prepositional objects", parsetest.Letter(), []string{"He", "a letter", "Mary", "Paris"}},
		{"Nested clause", parsetest.Barked(), []string{"the dog", "that", "we"}},
		{"Adverbial nouns are not chunks", parsetest.Wanted(), []string{"she", "we"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkTexts(tt.s))
		})
	}
}

func TestDeriveNounChunks_Roots(t *testing.T) {
	s := parsetest.Book()
	chunks := parse.DeriveNounChunks(s)

	assert.Equal(t, []parse.NounChunk{
		{Start: 0, End: 2, Root: 1},
		{Start: 2, End: 3, Root: 2},
		{Start: 3, End: 4, Root: 3},
	}, chunks)
}
