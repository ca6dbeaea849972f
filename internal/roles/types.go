package roles

import (
	"clausetree/internal/clause"
	"clausetree/internal/parse"
)

// Roles lists the noun phrases a verb governs, grouped by grammatical role.
type Roles struct {
	Subject        []string `json:"subject"`
	DirectObject   []string `json:"direct_object"`
	IndirectObject []string `json:"indirect_object"`
	Others         []string `json:"others"`
}

// NewRoles returns a record with every list empty but non-nil.
func NewRoles() *Roles {
	return &Roles{
		Subject:        []string{},
		DirectObject:   []string{},
		IndirectObject: []string{},
		Others:         []string{},
	}
}

// Merge appends o's entries to r.
func (r *Roles) Merge(o *Roles) {
	r.Subject = append(r.Subject, o.Subject...)
	r.DirectObject = append(r.DirectObject, o.DirectObject...)
	r.IndirectObject = append(r.IndirectObject, o.IndirectObject...)
	r.Others = append(r.Others, o.Others...)
}

// RoleMap holds the roles of every verb seen in one clause, keyed by verb
// token index, in the order the verbs were first recorded.
type RoleMap struct {
	order  []int
	byVerb map[int]*Roles
}

func NewRoleMap() *RoleMap {
	return &RoleMap{byVerb: make(map[int]*Roles)}
}

// For returns the roles of verb, creating them on first use.
func (m *RoleMap) For(verb int) *Roles {
	if r, ok := m.byVerb[verb]; ok {
		return r
	}
	r := NewRoles()
	m.byVerb[verb] = r
	m.order = append(m.order, verb)
	return r
}

// Get returns the roles of verb if any were recorded.
func (m *RoleMap) Get(verb int) (*Roles, bool) {
	r, ok := m.byVerb[verb]
	return r, ok
}

// Verbs returns the verb indices in insertion order.
func (m *RoleMap) Verbs() []int {
	return append([]int(nil), m.order...)
}

// Len returns the number of verbs recorded.
func (m *RoleMap) Len() int {
	return len(m.order)
}

// ImpliedSubject is an inferred subject for a verb that has none in its clause.
type ImpliedSubject struct {
	Clause      int
	Verb        int
	Description string
}

// Coordination is a pair of same-category tokens joined by a conjunction or
// a comma. Conjunction is -1 when neither was found.
type Coordination struct {
	Kind        string
	First       int
	Conjunction int
	Second      int
}

// Analysis accumulates the output of the passes for one sentence.
type Analysis struct {
	Sentence      *parse.Sentence
	Tree          *clause.Tree
	Roles         []*RoleMap
	Implied       []ImpliedSubject
	Coordinations []Coordination
}

// NewAnalysis prepares an empty result over a built clause tree.
func NewAnalysis(tree *clause.Tree) *Analysis {
	a := &Analysis{
		Sentence: tree.Sentence,
		Tree:     tree,
		Roles:    make([]*RoleMap, tree.Len()),
	}
	for i := range a.Roles {
		a.Roles[i] = NewRoleMap()
	}
	return a
}
