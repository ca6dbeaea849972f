package clause

import (
	"testing"

	"clausetree/internal/parse/parsetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyMainClause(t *testing.T) {
	t.Run("Embedded relative clause splits the main clause", func(t *testing.T) {
		spans := IdentifyMainClause(parsetest.Book())
		assert.Equal(t, []Span{{0, 2}, {5, 8}}, spans)
	})

	t.Run("Whole sentence", func(t *testing.T) {
		assert.Equal(t, []Span{{0, 2}}, IdentifyMainClause(parsetest.Imperative()))
	})

	t.Run("No root", func(t *testing.T) {
		assert.Empty(t, IdentifyMainClause(parsetest.Rootless()))
	})
}

func TestIdentifySubordinateClauses(t *testing.T) {
	t.Run("Relative clause", func(t *testing.T) {
		subs := IdentifySubordinateClauses(parsetest.Book())
		require.Len(t, subs, 1)
		assert.Equal(t, Subordinate{Span: Span{2, 5}, Kind: KindRelative, Head: 4, Connector: 2}, subs[0])
	})

	t.Run("Nested clauses stay out of the outer span", func(t *testing.T) {
		subs := IdentifySubordinateClauses(parsetest.Barked())
		require.Len(t, subs, 2)

		assert.Equal(t, KindRelative, subs[0].Kind)
		assert.Equal(t, Span{3, 5}, subs[0].Span)

		assert.Equal(t, KindAdverbial, subs[1].Kind)
		assert.Equal(t, Span{0, 7}, subs[1].Span)
		assert.Equal(t, 0, subs[1].Connector, "mark child wins")
	})

	t.Run("Wh-adverb connector", func(t *testing.T) {
		subs := IdentifySubordinateClauses(parsetest.Wanted())
		require.Len(t, subs, 2)
		assert.Equal(t, 0, subs[0].Connector)
		assert.Equal(t, KindNominal, subs[1].Kind)
		assert.Equal(t, -1, subs[1].Connector)
	})
}

func TestBuild_RelativeClause(t *testing.T) {
	s := parsetest.Book()
	tree := Build(s)
	require.Equal(t, 3, tree.Len())

	first, second, rel := tree.Node(0), tree.Node(1), tree.Node(2)

	t.Run("Main spans", func(t *testing.T) {
		assert.Equal(t, KindMain, first.Kind)
		assert.Equal(t, "The book", first.Text)
		assert.Equal(t, -1, first.MainVerb)

		assert.Equal(t, KindMain, second.Kind)
		assert.Equal(t, "is interesting.", second.Text)
		assert.Equal(t, 5, second.MainVerb)
		assert.Equal(t, 1, second.Subject)
	})

	t.Run("Relative clause", func(t *testing.T) {
		assert.Equal(t, KindRelative, rel.Kind)
		assert.Equal(t, "relative_clause", rel.Kind.Role())
		assert.Equal(t, 4, rel.MainVerb)
		assert.Equal(t, 3, rel.Subject)
		assert.Equal(t, 2, rel.Connector)
		assert.Equal(t, "that", s.Tokens[rel.Connector].Text)
		assert.Equal(t, -1, rel.Parent, "neither main span contains it")
		assert.Equal(t, 0, rel.Depth)
	})
}

func TestBuild_Nesting(t *testing.T) {
	tree := Build(parsetest.Barked())
	require.Equal(t, 3, tree.Len())

	main, rel, adv := tree.Node(0), tree.Node(1), tree.Node(2)
	assert.Equal(t, Span{7, 11}, main.Span)
	assert.Equal(t, KindRelative, rel.Kind)
	assert.Equal(t, KindAdverbial, adv.Kind)

	assert.Equal(t, 2, rel.Parent)
	assert.Equal(t, 1, rel.Depth)
	assert.Equal(t, []int{1}, adv.Children)
	assert.Equal(t, -1, adv.Parent)
	assert.Equal(t, 0, adv.Depth)
	assert.Equal(t, 2, adv.Subject, "dog")
}

func TestBuild_Imperative(t *testing.T) {
	tree := Build(parsetest.Imperative())
	require.Equal(t, 1, tree.Len())

	n := tree.Node(0)
	assert.Equal(t, "Go!", n.Text)
	assert.Equal(t, 0, n.MainVerb)
	assert.Equal(t, -1, n.Subject)
}

func TestBuild_NoRoot(t *testing.T) {
	tree := Build(parsetest.Rootless())
	assert.Equal(t, 0, tree.Len())
}

func TestBuild_ParentMinimality(t *testing.T) {
	for name, s := range parsetest.All() {
		t.Run(name, func(t *testing.T) {
			tree := Build(s)
			for i, n := range tree.Nodes {
				if n.Parent < 0 {
					assert.Equal(t, 0, n.Depth)
					continue
				}
				p := tree.Nodes[n.Parent]
				assert.True(t, p.Contains(n.Span))
				assert.Equal(t, p.Depth+1, n.Depth)
				assert.Contains(t, p.Children, i)
				for j, o := range tree.Nodes {
					if j == i || j == n.Parent || !o.Contains(n.Span) {
						continue
					}
					assert.GreaterOrEqual(t, o.Len(), p.Len(), "clause %d is a tighter fit than parent %d", j, n.Parent)
				}
			}
		})
	}
}

func TestBuild_RootInMainSpan(t *testing.T) {
	for name, s := range parsetest.All() {
		t.Run(name, func(t *testing.T) {
			tree := Build(s)
			root := s.Root()
			found := false
			for _, n := range tree.Nodes {
				if n.Kind == KindMain && n.Has(root) {
					found = true
				}
			}
			assert.True(t, found)
		})
	}
}
