package clause

import (
	"sort"

	"clausetree/internal/parse"
)

// collect returns the indices reachable from head without crossing a
// clause-introducing edge, sorted ascending. head itself is included.
func collect(s *parse.Sentence, head int) []int {
	seen := map[int]bool{head: true}
	out := []int{head}
	stack := []int{head}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range s.Tokens[cur].Children {
			if seen[c] || IsIntroducer(s.Tokens[c].Dep) {
				continue
			}
			seen[c] = true
			out = append(out, c)
			stack = append(stack, c)
		}
	}
	sort.Ints(out)
	return out
}

// IdentifyMainClause returns the contiguous runs of tokens that belong to
// the root's own clause. A sentence without a root yields nil.
func IdentifyMainClause(s *parse.Sentence) []Span {
	root := s.Root()
	if root < 0 {
		return nil
	}

	idx := collect(s, root)
	var spans []Span
	start := idx[0]
	prev := idx[0]
	for _, i := range idx[1:] {
		if i != prev+1 {
			spans = append(spans, Span{Start: start, End: prev + 1})
			start = i
		}
		prev = i
	}
	return append(spans, Span{Start: start, End: prev + 1})
}

// Subordinate is a clause opened by a clause-introducing label.
type Subordinate struct {
	Span
	Kind      Kind
	Head      int
	Connector int
}

// IdentifySubordinateClauses returns one clause per clause-introducing token,
// in token order.
func IdentifySubordinateClauses(s *parse.Sentence) []Subordinate {
	var out []Subordinate
	for i := range s.Tokens {
		if !IsIntroducer(s.Tokens[i].Dep) {
			continue
		}
		idx := collect(s, i)
		out = append(out, Subordinate{
			Span:      Span{Start: idx[0], End: idx[len(idx)-1] + 1},
			Kind:      KindFor(s.Tokens[i].Dep),
			Head:      i,
			Connector: connector(s, i),
		})
	}
	return out
}

func connector(s *parse.Sentence, head int) int {
	for _, c := range s.Tokens[head].Children {
		t := &s.Tokens[c]
		if t.Dep == parse.DepMark || t.Pos == parse.PosSconj || t.Pos == parse.PosCconj {
			return c
		}
		switch t.Tag {
		case "WDT", "WP", "WRB":
			return c
		}
	}
	return -1
}

// Build assembles the clause tree for a sentence. A sentence without a root
// yields an empty tree.
func Build(s *parse.Sentence) *Tree {
	t := &Tree{Sentence: s}
	root := s.Root()
	if root < 0 {
		return t
	}

	for _, sp := range IdentifyMainClause(s) {
		n := Node{
			Span:      sp,
			Kind:      KindMain,
			Head:      root,
			MainVerb:  mainClauseVerb(s, sp),
			Connector: -1,
		}
		t.Nodes = append(t.Nodes, n)
	}
	for _, sub := range IdentifySubordinateClauses(s) {
		n := Node{
			Span:      sub.Span,
			Kind:      sub.Kind,
			Head:      sub.Head,
			MainVerb:  subordinateVerb(s, sub),
			Connector: sub.Connector,
		}
		t.Nodes = append(t.Nodes, n)
	}

	for i := range t.Nodes {
		n := &t.Nodes[i]
		n.Text = s.SpanText(n.Start, n.End)
		n.Subject = subject(s, n.MainVerb)
		n.Parent = -1
	}

	linkParents(t)
	computeDepths(t)
	return t
}

func mainClauseVerb(s *parse.Sentence, sp Span) int {
	for i := sp.Start; i < sp.End; i++ {
		tok := &s.Tokens[i]
		if tok.IsRoot() {
			return i
		}
		if tok.Pos == parse.PosVerb && (tok.Dep == parse.DepCcomp || tok.Dep == parse.DepXcomp) {
			return i
		}
	}
	return -1
}

func subordinateVerb(s *parse.Sentence, sub Subordinate) int {
	if s.Tokens[sub.Head].Pos == parse.PosVerb {
		return sub.Head
	}
	for i := sub.Start; i < sub.End; i++ {
		if i != sub.Head && s.Tokens[i].Pos == parse.PosVerb && s.Tokens[i].Head == sub.Head {
			return i
		}
	}
	return -1
}

func subject(s *parse.Sentence, verb int) int {
	if verb < 0 {
		return -1
	}
	for _, c := range s.Tokens[verb].Children {
		if d := s.Tokens[c].Dep; d == parse.DepNsubj || d == parse.DepNsubjPass {
			return c
		}
	}
	return -1
}

// linkParents gives every subordinate clause the smallest clause containing
// it. A clause with an identical span only qualifies when it was discovered
// earlier, so two clauses never adopt each other.
func linkParents(t *Tree) {
	for i := range t.Nodes {
		if t.Nodes[i].Kind == KindMain {
			continue
		}
		best := -1
		for j := range t.Nodes {
			if j == i || !t.Nodes[j].Contains(t.Nodes[i].Span) {
				continue
			}
			if t.Nodes[j].Span == t.Nodes[i].Span && j > i {
				continue
			}
			if best < 0 || t.Nodes[j].Len() < t.Nodes[best].Len() {
				best = j
			}
		}
		if best >= 0 {
			t.Nodes[i].Parent = best
			t.Nodes[best].Children = append(t.Nodes[best].Children, i)
		}
	}
}

func computeDepths(t *Tree) {
	for i := range t.Nodes {
		depth := 0
		seen := map[int]bool{i: true}
		for p := t.Nodes[i].Parent; p >= 0 && !seen[p]; p = t.Nodes[p].Parent {
			seen[p] = true
			depth++
		}
		t.Nodes[i].Depth = depth
	}
}
