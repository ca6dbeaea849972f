package ir

import (
	"strconv"

	"clausetree/internal/parse"
	"clausetree/internal/roles"
)

// DefaultConjunction stands in for a coordination with no explicit connector.
const DefaultConjunction = ","

func tokenText(s *parse.Sentence, i int) *string {
	if i < 0 {
		return nil
	}
	text := s.Token(i).Text
	return &text
}

// FromAnalysis renders an analysis into its exported form. number is the
// 1-based position of the sentence in its batch.
func FromAnalysis(a *roles.Analysis, number int) SentenceResult {
	s := a.Sentence
	out := SentenceResult{
		Sentence:        s.Text,
		SentenceNumber:  number,
		ClauseTree:      make([]ClauseRecord, 0, a.Tree.Len()),
		VerbNPRoles:     make(map[string]map[string]*roles.Roles, a.Tree.Len()),
		ImpliedSubjects: make(map[string]string),
		CoordStructures: make([]CoordRecord, 0, len(a.Coordinations)),
	}

	for i, n := range a.Tree.Nodes {
		rec := ClauseRecord{
			ID:          i,
			Text:        n.Text,
			StartIdx:    n.Start,
			EndIdx:      n.End,
			Type:        string(n.Kind),
			Role:        n.Kind.Role(),
			Depth:       n.Depth,
			ChildrenIDs: append([]int{}, n.Children...),
			MainVerb:    tokenText(s, n.MainVerb),
			Subject:     tokenText(s, n.Subject),
			Connector:   tokenText(s, n.Connector),
		}
		if n.Parent >= 0 {
			p := n.Parent
			rec.ParentID = &p
		}
		out.ClauseTree = append(out.ClauseTree, rec)

		byText := make(map[string]*roles.Roles)
		if i < len(a.Roles) && a.Roles[i] != nil {
			m := a.Roles[i]
			for _, v := range m.Verbs() {
				r, _ := m.Get(v)
				text := s.Token(v).Text
				// Two verbs with the same surface form share one entry.
				if prev, ok := byText[text]; ok {
					prev.Merge(r)
					continue
				}
				merged := roles.NewRoles()
				merged.Merge(r)
				byText[text] = merged
			}
		}
		out.VerbNPRoles[strconv.Itoa(i)] = byText
	}

	for _, im := range a.Implied {
		out.ImpliedSubjects[s.Token(im.Verb).Text] = im.Description
	}

	for _, c := range a.Coordinations {
		conj := DefaultConjunction
		if c.Conjunction >= 0 {
			conj = s.Token(c.Conjunction).Text
		}
		out.CoordStructures = append(out.CoordStructures, CoordRecord{
			Type:        c.Kind,
			First:       s.Token(c.First).Text,
			Conjunction: conj,
			Second:      s.Token(c.Second).Text,
		})
	}
	return out
}
