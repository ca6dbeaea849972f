package parse

import (
	"fmt"
	"sort"
	"strings"
)

// Token is one word of a parsed sentence. Head and Children are indices into
// the owning Sentence's Tokens slice.
type Token struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Lemma string `json:"lemma,omitempty"`
	Pos   string `json:"pos"`
	Tag   string `json:"tag"`
	Dep   string `json:"dep"`
	Head  int    `json:"head"`

	// NoSpaceAfter is set when the token is glued to the next one in the raw text.
	NoSpaceAfter bool `json:"no_space_after,omitempty"`

	Children []int `json:"children,omitempty"`
}

// IsRoot reports whether the token is labelled as the sentence root.
func (t Token) IsRoot() bool {
	return t.Dep == DepRoot
}

// NounChunk is a base noun phrase covering [Start, End).
type NounChunk struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Root  int `json:"root"`
}

// Sentence is a token arena plus the noun chunks found over it.
type Sentence struct {
	Text   string      `json:"text"`
	Tokens []Token     `json:"tokens"`
	Chunks []NounChunk `json:"noun_chunks"`
}

// Doc is everything one parser invocation returned. A sentence that could
// not be built keeps its position as a nil entry in Sentences and is
// described in Failed.
type Doc struct {
	Model     string      `json:"model,omitempty"`
	Sentences []*Sentence `json:"sentences"`

	Failed []SentenceFailure `json:"-"`
}

// SentenceFailure records why the sentence at Index could not be built.
type SentenceFailure struct {
	Index int
	Text  string
	Err   error
}

func (f SentenceFailure) Error() string {
	return fmt.Sprintf("sentence %d: %v", f.Index+1, f.Err)
}

func (f SentenceFailure) Unwrap() error {
	return f.Err
}

// Add appends a sentence built from the given parts, or records a failure in
// its place.
func (d *Doc) Add(text string, tokens []Token, chunks []NounChunk) {
	s, err := NewSentence(text, tokens, chunks)
	if err != nil {
		if text == "" {
			text = joinTokenText(tokens)
		}
		d.Fail(text, err)
		return
	}
	d.Sentences = append(d.Sentences, s)
}

// Fail records that the next sentence could not be built.
func (d *Doc) Fail(text string, err error) {
	d.Failed = append(d.Failed, SentenceFailure{Index: len(d.Sentences), Text: text, Err: err})
	d.Sentences = append(d.Sentences, nil)
}

// Failure returns the error recorded for the sentence at i, or nil.
func (d *Doc) Failure(i int) error {
	for _, f := range d.Failed {
		if f.Index == i {
			return f
		}
	}
	return nil
}

func joinTokenText(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// Dependency labels and tags the analyzer keys on.
const (
	DepRoot      = "ROOT"
	DepNsubj     = "nsubj"
	DepNsubjPass = "nsubjpass"
	DepDobj      = "dobj"
	DepIobj      = "iobj"
	DepPobj      = "pobj"
	DepPrep      = "prep"
	DepRelcl     = "relcl"
	DepAdvcl     = "advcl"
	DepCcomp     = "ccomp"
	DepXcomp     = "xcomp"
	DepAcl       = "acl"
	DepMark      = "mark"
	DepCC        = "cc"
	DepConj      = "conj"

	PosVerb  = "VERB"
	PosAux   = "AUX"
	PosNoun  = "NOUN"
	PosPropn = "PROPN"
	PosPron  = "PRON"
	PosSconj = "SCONJ"
	PosCconj = "CCONJ"
	PosPunct = "PUNCT"

	TagBaseVerb = "VB"
)

// NewSentence builds a sentence arena from tokens in surface order. Token
// indices, heads and chunk bounds are shifted so that the first token sits at
// index 0; children are rebuilt from the heads.
func NewSentence(text string, tokens []Token, chunks []NounChunk) (*Sentence, error) {
	s := &Sentence{Text: text}
	if len(tokens) == 0 {
		return s, nil
	}

	offset := tokens[0].Index
	s.Tokens = make([]Token, len(tokens))
	for i, t := range tokens {
		if t.Index-offset != i {
			return nil, fmt.Errorf("token %q at position %d has non-contiguous index %d", t.Text, i, t.Index)
		}
		t.Index = i
		t.Head -= offset
		if t.Head < 0 || t.Head >= len(tokens) {
			return nil, fmt.Errorf("token %q has head %d outside sentence", t.Text, t.Head+offset)
		}
		t.Children = nil
		s.Tokens[i] = t
	}
	for i := range s.Tokens {
		h := s.Tokens[i].Head
		if h != i {
			s.Tokens[h].Children = append(s.Tokens[h].Children, i)
		}
	}
	for i := range s.Tokens {
		sort.Ints(s.Tokens[i].Children)
	}

	for _, c := range chunks {
		c.Start -= offset
		c.End -= offset
		c.Root -= offset
		if c.Start < 0 || c.End > len(tokens) || c.Start >= c.End || c.Root < c.Start || c.Root >= c.End {
			return nil, fmt.Errorf("noun chunk [%d,%d) root %d outside sentence", c.Start+offset, c.End+offset, c.Root+offset)
		}
		s.Chunks = append(s.Chunks, c)
	}
	if len(s.Chunks) == 0 {
		s.Chunks = DeriveNounChunks(s)
	}
	if s.Text == "" {
		s.Text = s.SpanText(0, len(s.Tokens))
	}
	return s, nil
}

// Len returns the number of tokens.
func (s *Sentence) Len() int {
	return len(s.Tokens)
}

// Token returns the token at index i.
func (s *Sentence) Token(i int) *Token {
	return &s.Tokens[i]
}

// Root returns the index of the first token labelled ROOT, or -1.
func (s *Sentence) Root() int {
	for i := range s.Tokens {
		if s.Tokens[i].IsRoot() {
			return i
		}
	}
	return -1
}

// SpanText renders tokens [start, end) the way they appeared in the raw text.
func (s *Sentence) SpanText(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.Tokens) {
		end = len(s.Tokens)
	}
	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(s.Tokens[i].Text)
		if i < end-1 && !s.Tokens[i].NoSpaceAfter {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// ChunkText renders a noun chunk.
func (s *Sentence) ChunkText(c NounChunk) string {
	return s.SpanText(c.Start, c.End)
}

// LeftEdge returns the smallest index in the subtree rooted at i.
func (s *Sentence) LeftEdge(i int) int {
	edge := i
	seen := map[int]bool{i: true}
	stack := []int{i}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur < edge {
			edge = cur
		}
		for _, c := range s.Tokens[cur].Children {
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}
	return edge
}
