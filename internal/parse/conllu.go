package parse

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// udLabels maps Universal Dependencies relations onto the label set the
// clause analysis is written against.
var udLabels = map[string]string{
	"root":         DepRoot,
	"obj":          DepDobj,
	"nsubj:pass":   DepNsubjPass,
	"acl:relcl":    DepRelcl,
	"aux:pass":     "auxpass",
	"csubj:pass":   "csubjpass",
	"compound:prt": "prt",
}

// NormalizeDep rewrites a CoNLL-U relation into the analyzer's label set.
// Unknown subtypes are stripped.
func NormalizeDep(rel string) string {
	if mapped, ok := udLabels[rel]; ok {
		return mapped
	}
	if i := strings.IndexByte(rel, ':'); i > 0 {
		return rel[:i]
	}
	return rel
}

// CoNLLUParser reads sentences that were parsed offline and stored as CoNLL-U.
type CoNLLUParser struct{}

func NewCoNLLUParser() *CoNLLUParser {
	return &CoNLLUParser{}
}

func (p *CoNLLUParser) Model() string {
	return "conllu"
}

// Parse reads every sentence block in text. Multiword ranges and empty nodes
// are skipped. A malformed block is recorded in Doc.Failed and the blocks
// after it are still read.
func (p *CoNLLUParser) Parse(ctx context.Context, text string) (*Doc, error) {
	doc := &Doc{Model: p.Model()}

	var (
		sentText string
		tokens   []Token
		blockErr error
		lineNo   int
	)
	flush := func() {
		switch {
		case blockErr != nil:
			if sentText == "" {
				sentText = joinTokenText(tokens)
			}
			doc.Fail(sentText, blockErr)
		case len(tokens) > 0:
			doc.Add(sentText, tokens, nil)
		}
		sentText = ""
		tokens = nil
		blockErr = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			if v, ok := strings.CutPrefix(line, "# text ="); ok {
				sentText = strings.TrimSpace(v)
			}
			continue
		}
		if blockErr != nil {
			continue
		}

		tok, skip, err := parseCoNLLULine(line)
		if err != nil {
			blockErr = fmt.Errorf("line %d: %w", lineNo, err)
			continue
		}
		if !skip {
			tokens = append(tokens, tok)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return doc, nil
}

// parseCoNLLULine reads one word line. skip is set for multiword ranges and
// empty nodes.
func parseCoNLLULine(line string) (tok Token, skip bool, err error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return Token{}, false, fmt.Errorf("expected at least 8 columns, got %d", len(fields))
	}
	if strings.ContainsAny(fields[0], "-.") {
		return Token{}, true, nil
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Token{}, false, fmt.Errorf("bad id %q: %w", fields[0], err)
	}
	head, err := strconv.Atoi(fields[6])
	if err != nil {
		return Token{}, false, fmt.Errorf("bad head %q: %w", fields[6], err)
	}
	// CoNLL-U marks the root with head 0; the arena points it at itself.
	if head == 0 {
		head = id
	}

	tok = Token{
		Index: id - 1,
		Text:  fields[1],
		Lemma: blankUnderscore(fields[2]),
		Pos:   blankUnderscore(fields[3]),
		Tag:   blankUnderscore(fields[4]),
		Dep:   NormalizeDep(fields[7]),
		Head:  head - 1,
	}
	if len(fields) >= 10 && strings.Contains(fields[9], "SpaceAfter=No") {
		tok.NoSpaceAfter = true
	}
	return tok, false, nil
}

func blankUnderscore(s string) string {
	if s == "_" {
		return ""
	}
	return s
}
