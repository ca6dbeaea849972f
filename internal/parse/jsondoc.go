package parse

import (
	"context"
	"encoding/json"
	"fmt"
)

// corpusToken is the per-token record written by corpus tools that store
// spaCy or stanza output as one token array per sentence.
type corpusToken struct {
	Id    int    `json:"id"`
	Head  int    `json:"head"`
	Pos   string `json:"pos"`
	Dep   string `json:"dep"`
	Tag   string `json:"tag"`
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	Index int    `json:"index"`
}

type jsonDoc struct {
	Model     string      `json:"model"`
	Sentences []*Sentence `json:"sentences"`

	Tokens [][]corpusToken `json:"tokens"`
}

// JSONParser decodes documents that were already parsed and saved as JSON.
// Two layouts are accepted: {"sentences": [{"text", "tokens", "noun_chunks"}]}
// and the corpus layout {"tokens": [[{id, head, index, ...}]]}.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Model() string {
	return "json"
}

func (p *JSONParser) Parse(ctx context.Context, text string) (*Doc, error) {
	var in jsonDoc
	if err := json.Unmarshal([]byte(text), &in); err != nil {
		return nil, fmt.Errorf("decode parsed document: %w", err)
	}

	doc := &Doc{Model: p.Model()}
	if in.Model != "" {
		doc.Model = in.Model
	}

	for _, s := range in.Sentences {
		if s == nil {
			continue
		}
		doc.Add(s.Text, s.Tokens, s.Chunks)
	}

	for _, sent := range in.Tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tokens := make([]Token, len(sent))
		for j, ct := range sent {
			// Heads reference ids; ids and sentence indices differ by a constant.
			shift := ct.Id - ct.Index
			tokens[j] = Token{
				Index: ct.Index,
				Text:  ct.Text,
				Lemma: ct.Lemma,
				Pos:   ct.Pos,
				Tag:   ct.Tag,
				Dep:   NormalizeDep(ct.Dep),
				Head:  ct.Head - shift,
			}
		}
		doc.Add("", tokens, nil)
	}
	return doc, nil
}
