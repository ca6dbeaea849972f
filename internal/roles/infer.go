package roles

import (
	"clausetree/internal/clause"
	"clausetree/internal/parse"
)

const (
	imperativeSubject = "you (implied in imperative)"
	inheritedSuffix   = " (implied from parent clause)"
)

// ResolveZeroPronouns infers a subject for every clause that has a main verb
// but no explicit subject: "you" for a sentence-initial bare verb, otherwise
// the subject of the parent clause when there is one.
func ResolveZeroPronouns(tree *clause.Tree) []ImpliedSubject {
	a := &Analysis{Sentence: tree.Sentence, Tree: tree}
	resolveZeroPronouns(a)
	return a.Implied
}

func resolveZeroPronouns(a *Analysis) (inferred, unresolved int) {
	s := a.Sentence
	for ci := range a.Tree.Nodes {
		n := a.Tree.Node(ci)
		if n.MainVerb < 0 || n.Subject >= 0 {
			continue
		}

		var desc string
		switch {
		case s.Token(n.MainVerb).Tag == parse.TagBaseVerb && n.Start == 0:
			desc = imperativeSubject
		case n.Parent >= 0 && a.Tree.Node(n.Parent).Subject >= 0:
			desc = s.Token(a.Tree.Node(n.Parent).Subject).Text + inheritedSuffix
		default:
			unresolved++
			continue
		}

		a.Implied = append(a.Implied, ImpliedSubject{Clause: ci, Verb: n.MainVerb, Description: desc})
		inferred++
	}
	return inferred, unresolved
}

// IdentifyCoordination finds every conjunct sharing its head's part of speech.
func IdentifyCoordination(s *parse.Sentence) []Coordination {
	var out []Coordination
	for i := range s.Tokens {
		t := s.Token(i)
		if t.Dep != parse.DepConj || t.Head == i {
			continue
		}
		head := s.Token(t.Head)
		if head.Pos != t.Pos {
			continue
		}
		out = append(out, Coordination{
			Kind:        t.Pos,
			First:       head.Index,
			Conjunction: conjunction(s, head.Index, i),
			Second:      i,
		})
	}
	return out
}

// conjunction prefers a cc dependent of first lying between the conjuncts,
// then any comma between them.
func conjunction(s *parse.Sentence, first, second int) int {
	lo, hi := first, second
	if lo > hi {
		lo, hi = hi, lo
	}
	for _, c := range s.Token(first).Children {
		if c > lo && c < hi && s.Token(c).Dep == parse.DepCC {
			return c
		}
	}
	for i := lo + 1; i < hi; i++ {
		if s.Token(i).Text == "," {
			return i
		}
	}
	return -1
}
