package parse

var nounPhraseDeps = map[string]bool{
	"oprd":       true,
	DepNsubj:     true,
	DepDobj:      true,
	DepNsubjPass: true,
	DepIobj:      true,
	"pcomp":      true,
	DepPobj:      true,
	"dative":     true,
	"appos":      true,
	"attr":       true,
	DepRoot:      true,
}

// DeriveNounChunks finds base noun phrases for parsers that do not report
// them. A nominal token heading a noun-phrase relation yields the chunk
// [left edge, token+1); conjuncts inherit the relation of their first
// conjunct. Overlapping candidates are dropped in favour of the earlier one.
// iobj sits next to spaCy's dative so Universal Dependencies input keeps its
// indirect objects.
func DeriveNounChunks(s *Sentence) []NounChunk {
	var chunks []NounChunk
	prevEnd := -1
	for i := range s.Tokens {
		t := &s.Tokens[i]
		if t.Pos != PosNoun && t.Pos != PosPropn && t.Pos != PosPron {
			continue
		}
		left := s.LeftEdge(i)
		if left <= prevEnd {
			continue
		}

		switch {
		case nounPhraseDeps[t.Dep]:
		case t.Dep == DepConj:
			head := t.Head
			for s.Tokens[head].Dep == DepConj && s.Tokens[head].Head < head {
				head = s.Tokens[head].Head
			}
			if !nounPhraseDeps[s.Tokens[head].Dep] {
				continue
			}
		default:
			continue
		}

		prevEnd = i
		chunks = append(chunks, NounChunk{Start: left, End: i + 1, Root: i})
	}
	return chunks
}
