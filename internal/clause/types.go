package clause

import "clausetree/internal/parse"

// Kind classifies a clause.
type Kind string

const (
	KindMain       Kind = "main"
	KindRelative   Kind = "relative"
	KindAdverbial  Kind = "adverbial"
	KindNominal    Kind = "nominal"
	KindAdjectival Kind = "adjectival"
	KindUnknown    Kind = "unknown"
)

// Role is the exported label for the kind.
func (k Kind) Role() string {
	switch k {
	case KindMain:
		return "main"
	case KindRelative:
		return "relative_clause"
	case KindAdverbial:
		return "adverbial_clause"
	case KindNominal:
		return "nominal_clause"
	case KindAdjectival:
		return "adjectival_clause"
	default:
		return "unknown"
	}
}

// introducers are the dependency labels that open a subordinate clause.
var introducers = map[string]Kind{
	parse.DepRelcl: KindRelative,
	parse.DepAdvcl: KindAdverbial,
	parse.DepCcomp: KindNominal,
	parse.DepXcomp: KindNominal,
	parse.DepAcl:   KindAdjectival,
}

// IsIntroducer reports whether dep opens a subordinate clause.
func IsIntroducer(dep string) bool {
	_, ok := introducers[dep]
	return ok
}

// KindFor maps a clause-introducing label to its kind.
func KindFor(dep string) Kind {
	if k, ok := introducers[dep]; ok {
		return k
	}
	return KindUnknown
}

// Span is a half-open token range.
type Span struct {
	Start int
	End   int
}

// Len returns the number of tokens covered.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Has reports whether token index i lies within s.
func (s Span) Has(i int) bool {
	return s.Start <= i && i < s.End
}

// Node is one clause. Token fields hold sentence indices and Parent and
// Children hold indices into Tree.Nodes; -1 means absent.
type Node struct {
	Span
	Text      string
	Kind      Kind
	Head      int
	MainVerb  int
	Subject   int
	Connector int
	Parent    int
	Children  []int
	Depth     int
}

// Tree is the clause arena for one sentence, in discovery order: main-clause
// spans first, then subordinate clauses in token order of their heads.
type Tree struct {
	Sentence *parse.Sentence
	Nodes    []Node
}

// Len returns the number of clauses.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// Node returns the clause at arena index i.
func (t *Tree) Node(i int) *Node {
	return &t.Nodes[i]
}

// Containing returns the index of the first clause whose span holds token i,
// or -1.
func (t *Tree) Containing(i int) int {
	for n := range t.Nodes {
		if t.Nodes[n].Has(i) {
			return n
		}
	}
	return -1
}
