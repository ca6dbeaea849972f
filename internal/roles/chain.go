package roles

import (
	"fmt"

	"clausetree/internal/clause"
)

type PassStats struct {
	Recorded int
	Skipped  int
}

// Pass is one enrichment step over a sentence's clause tree.
type Pass interface {
	Name() string
	Run(a *Analysis) (PassStats, error)
}

type StageResult struct {
	Pass  string
	Stats PassStats
	Err   error
}

type Chain struct {
	passes []Pass
}

func NewChain(passes ...Pass) *Chain {
	return &Chain{passes: passes}
}

// NewDefaultChain runs role assignment, relative-pronoun binding, subject
// inference and coordination detection, in that order.
func NewDefaultChain() *Chain {
	return NewChain(RolePass{}, AntecedentPass{}, ZeroPronounPass{}, CoordinationPass{})
}

// Run applies every pass in order and stops at the first error.
func (c *Chain) Run(a *Analysis) []StageResult {
	if a == nil || a.Tree == nil {
		return nil
	}

	var out []StageResult
	for _, p := range c.passes {
		stats, err := p.Run(a)
		out = append(out, StageResult{Pass: p.Name(), Stats: stats, Err: err})
		if err != nil {
			break
		}
	}
	return out
}

// Analyze runs the chain over a built clause tree.
func (c *Chain) Analyze(tree *clause.Tree) (*Analysis, []StageResult, error) {
	a := NewAnalysis(tree)
	stages := c.Run(a)
	for _, st := range stages {
		if st.Err != nil {
			return a, stages, fmt.Errorf("%s pass: %w", st.Pass, st.Err)
		}
	}
	return a, stages, nil
}

type RolePass struct{}

func (RolePass) Name() string { return "roles" }

func (RolePass) Run(a *Analysis) (PassStats, error) {
	recorded, skipped := assignRoles(a)
	return PassStats{Recorded: recorded, Skipped: skipped}, nil
}

type AntecedentPass struct{}

func (AntecedentPass) Name() string { return "antecedents" }

func (AntecedentPass) Run(a *Analysis) (PassStats, error) {
	bound, skipped := resolveAntecedents(a)
	return PassStats{Recorded: bound, Skipped: skipped}, nil
}

type ZeroPronounPass struct{}

func (ZeroPronounPass) Name() string { return "zero-pronouns" }

func (ZeroPronounPass) Run(a *Analysis) (PassStats, error) {
	inferred, unresolved := resolveZeroPronouns(a)
	return PassStats{Recorded: inferred, Skipped: unresolved}, nil
}

type CoordinationPass struct{}

func (CoordinationPass) Name() string { return "coordination" }

func (CoordinationPass) Run(a *Analysis) (PassStats, error) {
	a.Coordinations = IdentifyCoordination(a.Sentence)
	return PassStats{Recorded: len(a.Coordinations)}, nil
}
