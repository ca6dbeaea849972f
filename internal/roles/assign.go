package roles

import (
	"strings"

	"clausetree/internal/clause"
	"clausetree/internal/parse"
)

func isVerbal(t *parse.Token) bool {
	return t.Pos == parse.PosVerb || t.Pos == parse.PosAux
}

// AssignRoles records, per clause, the role each noun chunk starting inside
// the clause plays for the verb governing it.
func AssignRoles(tree *clause.Tree) []*RoleMap {
	a := NewAnalysis(tree)
	assignRoles(a)
	return a.Roles
}

func assignRoles(a *Analysis) (recorded, skipped int) {
	s := a.Sentence
	for ci := range a.Tree.Nodes {
		n := a.Tree.Node(ci)
		for _, ch := range s.Chunks {
			if !n.Has(ch.Start) {
				continue
			}
			if recordChunk(s, a.Roles[ci], ch) {
				recorded++
			} else {
				skipped++
			}
		}
	}
	return recorded, skipped
}

func recordChunk(s *parse.Sentence, m *RoleMap, ch parse.NounChunk) bool {
	root := s.Token(ch.Root)
	text := s.ChunkText(ch)

	// The object of a preposition hangs off the preposition; attach it to
	// the verb the preposition modifies.
	if root.Dep == parse.DepPobj {
		prep := s.Token(root.Head)
		if prep.Dep != parse.DepPrep || prep.Head == prep.Index {
			return false
		}
		verb := s.Token(prep.Head)
		if !isVerbal(verb) {
			return false
		}
		r := m.For(verb.Index)
		phrase := prep.Text + " " + text
		switch strings.ToLower(prep.Text) {
		case "to", "for":
			r.IndirectObject = append(r.IndirectObject, phrase)
		default:
			r.Others = append(r.Others, phrase)
		}
		return true
	}

	if root.Head == root.Index {
		return false
	}
	head := s.Token(root.Head)
	if !isVerbal(head) {
		return false
	}

	r := m.For(head.Index)
	switch root.Dep {
	case parse.DepNsubj, parse.DepNsubjPass:
		r.Subject = append(r.Subject, text)
	case parse.DepDobj:
		r.DirectObject = append(r.DirectObject, text)
	case parse.DepIobj:
		r.IndirectObject = append(r.IndirectObject, text)
	default:
		r.Others = append(r.Others, text)
	}
	return true
}

var relativePronouns = map[string]bool{
	"who":   true,
	"that":  true,
	"which": true,
	"whom":  true,
	"whose": true,
}

// ResolveAntecedents binds relative pronouns to the noun their clause
// modifies, adding "<noun> (as <pronoun>)" to the relative clause's verb.
// It returns the number of bindings added.
func ResolveAntecedents(tree *clause.Tree, roleMaps []*RoleMap) int {
	a := &Analysis{Sentence: tree.Sentence, Tree: tree, Roles: roleMaps}
	n, _ := resolveAntecedents(a)
	return n
}

func resolveAntecedents(a *Analysis) (bound, skipped int) {
	s := a.Sentence
	for ci := range a.Tree.Nodes {
		n := a.Tree.Node(ci)
		if n.Kind != clause.KindRelative || n.Connector < 0 || n.MainVerb < 0 || n.Head < 0 {
			continue
		}
		conn := s.Token(n.Connector)
		if !relativePronouns[strings.ToLower(conn.Text)] {
			continue
		}

		noun := s.Token(n.Head).Head
		host := n.Parent
		if host < 0 || !a.Tree.Node(host).Has(noun) {
			host = a.Tree.Containing(noun)
		}
		if host < 0 || host == ci {
			skipped++
			continue
		}

		entry := s.Token(noun).Text + " (as " + conn.Text + ")"
		switch conn.Dep {
		case parse.DepNsubj:
			r := a.Roles[ci].For(n.MainVerb)
			r.Subject = append(r.Subject, entry)
		case parse.DepDobj:
			r := a.Roles[ci].For(n.MainVerb)
			r.DirectObject = append(r.DirectObject, entry)
		default:
			skipped++
			continue
		}
		bound++
	}
	return bound, skipped
}
