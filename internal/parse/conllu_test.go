package parse_test

import (
	"context"
	"testing"

	"clausetree/internal/parse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookCoNLLU = `# sent_id = 1
# text = The book that she bought is interesting.
1	The	the	DET	DT	_	2	det	_	_
2	book	book	NOUN	NN	_	6	nsubj	_	_
3	that	that	PRON	WDT	_	5	obj	_	_
4	she	she	PRON	PRP	_	5	nsubj	_	_
5	bought	buy	VERB	VBD	_	2	acl:relcl	_	_
6	is	be	AUX	VBZ	_	0	root	_	_
7	interesting	interesting	ADJ	JJ	_	6	xcomp	_	SpaceAfter=No
8	.	.	PUNCT	.	_	6	punct	_	_

# text = Don't go.
1-2	Don't	_	_	_	_	_	_	_	_
1	Do	do	AUX	VBP	_	3	aux	_	SpaceAfter=No
2	n't	not	PART	RB	_	3	advmod	_	_
3	go	go	VERB	VB	_	0	root	_	SpaceAfter=No
4	.	.	PUNCT	.	_	3	punct	_	_
`

func TestCoNLLUParser_Parse(t *testing.T) {
	doc, err := parse.NewCoNLLUParser().Parse(context.Background(), bookCoNLLU)
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 2)

	t.Run("Labels normalized", func(t *testing.T) {
		s := doc.Sentences[0]
		assert.Equal(t, "The book that she bought is interesting.", s.Text)
		assert.Equal(t, parse.DepRoot, s.Tokens[5].Dep)
		assert.Equal(t, 5, s.Tokens[5].Head, "root points at itself")
		assert.Equal(t, parse.DepDobj, s.Tokens[2].Dep)
		assert.Equal(t, parse.DepRelcl, s.Tokens[4].Dep)
		assert.Equal(t, 5, s.Root())
	})

	t.Run("Multiword ranges skipped", func(t *testing.T) {
		s := doc.Sentences[1]
		require.Len(t, s.Tokens, 4)
		assert.Equal(t, "Do", s.Tokens[0].Text)
		assert.Equal(t, 2, s.Tokens[0].Head)
		assert.Equal(t, "Don't go.", s.SpanText(0, 4))
	})

	t.Run("Chunks derived", func(t *testing.T) {
		assert.Equal(t, []string{"The book", "that", "she"}, chunkTexts(doc.Sentences[0]))
	})
}

func TestCoNLLUParser_MalformedBlocks(t *testing.T) {
	ctx := context.Background()

	t.Run("Short line", func(t *testing.T) {
		doc, err := parse.NewCoNLLUParser().Parse(ctx, "1\tshort\n")
		require.NoError(t, err)
		require.Len(t, doc.Sentences, 1)
		assert.Nil(t, doc.Sentences[0])
		require.Len(t, doc.Failed, 1)
		assert.Contains(t, doc.Failed[0].Error(), "expected at least 8 columns, got 2")
	})

	t.Run("Bad id", func(t *testing.T) {
		doc, err := parse.NewCoNLLUParser().Parse(ctx, "x\ta\ta\tX\tX\t_\t0\troot\t_\t_\n")
		require.NoError(t, err)
		assert.Error(t, doc.Failure(0))
		assert.Contains(t, doc.Failure(0).Error(), "bad id")
	})

	t.Run("Bad block keeps its position", func(t *testing.T) {
		in := "# text = Go!\n" +
			"1\tGo\tgo\tVERB\tVB\t_\t0\troot\t_\tSpaceAfter=No\n" +
			"2\t!\t!\tPUNCT\t.\t_\t1\tpunct\t_\t_\n\n" +
			"# text = Stop!\n" +
			"1\tStop\tstop\tVERB\tVB\t_\t9\troot\t_\tSpaceAfter=No\n" +
			"2\t!\t!\tPUNCT\t.\t_\t1\tpunct\t_\t_\n\n" +
			"# text = Sit!\n" +
			"1\tSit\tsit\tVERB\tVB\t_\t0\troot\t_\tSpaceAfter=No\n" +
			"2\t!\t!\tPUNCT\t.\t_\t1\tpunct\t_\t_\n"

		doc, err := parse.NewCoNLLUParser().Parse(ctx, in)
		require.NoError(t, err)
		require.Len(t, doc.Sentences, 3)
		assert.Equal(t, "Go!", doc.Sentences[0].Text)
		assert.Nil(t, doc.Sentences[1])
		assert.Equal(t, "Sit!", doc.Sentences[2].Text)

		require.Len(t, doc.Failed, 1)
		assert.Equal(t, 1, doc.Failed[0].Index)
		assert.Equal(t, "Stop!", doc.Failed[0].Text)
		assert.Contains(t, doc.Failed[0].Error(), "outside sentence")
		assert.NoError(t, doc.Failure(0))
	})
}

func TestNormalizeDep(t *testing.T) {
	assert.Equal(t, "nsubjpass", parse.NormalizeDep("nsubj:pass"))
	assert.Equal(t, "obl", parse.NormalizeDep("obl:tmod"))
	assert.Equal(t, "advcl", parse.NormalizeDep("advcl"))
}
