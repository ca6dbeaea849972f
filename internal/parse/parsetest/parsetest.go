// Package parsetest holds hand-built dependency parses and a fake parser for tests.
package parsetest

import (
	"context"
	"fmt"
	"sync/atomic"

	"clausetree/internal/parse"
)

// T describes one token; its index is its position in the argument list.
type T struct {
	Text string
	Pos  string
	Tag  string
	Dep  string
	Head int
}

// Build assembles a sentence arena. Punctuation is glued to the previous token.
func Build(text string, toks ...T) *parse.Sentence {
	tokens := make([]parse.Token, len(toks))
	for i, t := range toks {
		tokens[i] = parse.Token{
			Index: i,
			Text:  t.Text,
			Pos:   t.Pos,
			Tag:   t.Tag,
			Dep:   t.Dep,
			Head:  t.Head,
		}
		if i+1 < len(toks) && toks[i+1].Pos == parse.PosPunct {
			tokens[i].NoSpaceAfter = true
		}
	}
	s, err := parse.NewSentence(text, tokens, nil)
	if err != nil {
		panic(fmt.Sprintf("parsetest: %v", err))
	}
	return s
}

// Book is "The book that she bought is interesting."
func Book() *parse.Sentence {
	return Build("The book that she bought is interesting.",
		T{"The", "DET", "DT", "det", 1},
		T{"book", "NOUN", "NN", "nsubj", 5},
		T{"that", "PRON", "WDT", "dobj", 4},
		T{"she", "PRON", "PRP", "nsubj", 4},
		T{"bought", "VERB", "VBD", "relcl", 1},
		T{"is", "AUX", "VBZ", "ROOT", 5},
		T{"interesting", "ADJ", "JJ", "acomp", 5},
		T{".", "PUNCT", ".", "punct", 5},
	)
}

// Imperative is "Go!"
func Imperative() *parse.Sentence {
	return Build("Go!",
		T{"Go", "VERB", "VB", "ROOT", 0},
		T{"!", "PUNCT", ".", "punct", 0},
	)
}

// Apples is "John likes apples and oranges."
func Apples() *parse.Sentence {
	return Build("John likes apples and oranges.",
		T{"John", "PROPN", "NNP", "nsubj", 1},
		T{"likes", "VERB", "VBZ", "ROOT", 1},
		T{"apples", "NOUN", "NNS", "dobj", 1},
		T{"and", "CCONJ", "CC", "cc", 2},
		T{"oranges", "NOUN", "NNS", "conj", 2},
		T{".", "PUNCT", ".", "punct", 1},
	)
}

// Barked is "Because the dog that barked ran away, we left." The relative
// clause sits inside the adverbial clause.
func Barked() *parse.Sentence {
	return Build("Because the dog that barked ran away, we left.",
		T{"Because", "SCONJ", "IN", "mark", 5},
		T{"the", "DET", "DT", "det", 2},
		T{"dog", "NOUN", "NN", "nsubj", 5},
		T{"that", "PRON", "WDT", "nsubj", 4},
		T{"barked", "VERB", "VBD", "relcl", 2},
		T{"ran", "VERB", "VBD", "advcl", 9},
		T{"away", "ADV", "RB", "advmod", 5},
		T{",", "PUNCT", ",", "punct", 9},
		T{"we", "PRON", "PRP", "nsubj", 9},
		T{"left", "VERB", "VBD", "ROOT", 9},
		T{".", "PUNCT", ".", "punct", 9},
	)
}

// Wanted is "When she wanted to leave early yesterday, we left." The
// subjectless complement "to leave early" sits inside the adverbial clause.
func Wanted() *parse.Sentence {
	return Build("When she wanted to leave early yesterday, we left.",
		T{"When", "SCONJ", "WRB", "advmod", 2},
		T{"she", "PRON", "PRP", "nsubj", 2},
		T{"wanted", "VERB", "VBD", "advcl", 9},
		T{"to", "PART", "TO", "aux", 4},
		T{"leave", "VERB", "VB", "xcomp", 2},
		T{"early", "ADV", "RB", "advmod", 4},
		T{"yesterday", "NOUN", "NN", "npadvmod", 2},
		T{",", "PUNCT", ",", "punct", 9},
		T{"we", "PRON", "PRP", "nsubj", 9},
		T{"left", "VERB", "VBD", "ROOT", 9},
		T{".", "PUNCT", ".", "punct", 9},
	)
}

// Letter is "He sent a letter to Mary from Paris."
func Letter() *parse.Sentence {
	return Build("He sent a letter to Mary from Paris.",
		T{"He", "PRON", "PRP", "nsubj", 1},
		T{"sent", "VERB", "VBD", "ROOT", 1},
		T{"a", "DET", "DT", "det", 3},
		T{"letter", "NOUN", "NN", "dobj", 1},
		T{"to", "ADP", "IN", "prep", 1},
		T{"Mary", "PROPN", "NNP", "pobj", 4},
		T{"from", "ADP", "IN", "prep", 1},
		T{"Paris", "PROPN", "NNP", "pobj", 6},
		T{".", "PUNCT", ".", "punct", 1},
	)
}

// Gave is "She gave him a book."
func Gave() *parse.Sentence {
	return Build("She gave him a book.",
		T{"She", "PRON", "PRP", "nsubj", 1},
		T{"gave", "VERB", "VBD", "ROOT", 1},
		T{"him", "PRON", "PRP", "iobj", 1},
		T{"a", "DET", "DT", "det", 4},
		T{"book", "NOUN", "NN", "dobj", 1},
		T{".", "PUNCT", ".", "punct", 1},
	)
}

// Drinks is "I like tea, coffee and milk."
func Drinks() *parse.Sentence {
	return Build("I like tea, coffee and milk.",
		T{"I", "PRON", "PRP", "nsubj", 1},
		T{"like", "VERB", "VBP", "ROOT", 1},
		T{"tea", "NOUN", "NN", "dobj", 1},
		T{",", "PUNCT", ",", "punct", 2},
		T{"coffee", "NOUN", "NN", "conj", 2},
		T{"and", "CCONJ", "CC", "cc", 4},
		T{"milk", "NOUN", "NN", "conj", 4},
		T{".", "PUNCT", ".", "punct", 1},
	)
}

// Rootless has no ROOT label anywhere.
func Rootless() *parse.Sentence {
	return Build("broken fragment",
		T{"broken", "ADJ", "JJ", "amod", 1},
		T{"fragment", "NOUN", "NN", "dep", 1},
	)
}

// All returns every well-formed fixture keyed by its text.
func All() map[string]*parse.Sentence {
	out := make(map[string]*parse.Sentence)
	for _, s := range []*parse.Sentence{Book(), Imperative(), Apples(), Barked(), Wanted(), Letter(), Gave(), Drinks()} {
		out[s.Text] = s
	}
	return out
}

// Parser serves fixtures by exact text. Each call to Parse yields one sentence.
type Parser struct {
	Sentences map[string]*parse.Sentence
	Fail      map[string]error

	calls atomic.Int64
}

// NewParser returns a Parser serving All.
func NewParser() *Parser {
	return &Parser{Sentences: All(), Fail: map[string]error{}}
}

// Calls reports how many times Parse was invoked.
func (p *Parser) Calls() int {
	return int(p.calls.Load())
}

func (p *Parser) Model() string {
	return "fixture"
}

func (p *Parser) Parse(ctx context.Context, text string) (*parse.Doc, error) {
	p.calls.Add(1)
	if err := p.Fail[text]; err != nil {
		return nil, err
	}
	s, ok := p.Sentences[text]
	if !ok {
		return nil, fmt.Errorf("no fixture for %q", text)
	}
	return &parse.Doc{Model: p.Model(), Sentences: []*parse.Sentence{s}}, nil
}
