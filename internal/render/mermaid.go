package render

import (
	"fmt"
	"strings"

	"clausetree/internal/ir"
)

// ClauseFlowChart draws the clause tree of one sentence as a mermaid
// flowchart. Edges run from parent to child clause; top-level clauses hang
// off a sentence node.
func ClauseFlowChart(res ir.SentenceResult) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\ngraph TD\n")

	root := fmt.Sprintf("s%d", res.SentenceNumber)
	sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", root, mermaidLabel(truncate(res.Sentence, 60))))

	for _, c := range res.ClauseTree {
		label := fmt.Sprintf("%s: %s", c.Type, truncate(c.Text, 40))
		if c.MainVerb != nil {
			label += fmt.Sprintf(" / verb %s", *c.MainVerb)
		}
		shape := "[\"%s\"]"
		if c.Type != "main" {
			shape = "([\"%s\"])"
		}
		sb.WriteString(fmt.Sprintf("    %s"+shape+"\n", clauseID(res, c.ID), mermaidLabel(label)))
	}

	for _, c := range res.ClauseTree {
		from := root
		if c.ParentID != nil {
			from = clauseID(res, *c.ParentID)
		}
		edge := "-->"
		if c.Connector != nil {
			edge = fmt.Sprintf("-- %s -->", mermaidLabel(*c.Connector))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, edge, clauseID(res, c.ID)))
	}

	sb.WriteString("```\n")
	return sb.String()
}

func clauseID(res ir.SentenceResult, id int) string {
	return fmt.Sprintf("s%d_c%d", res.SentenceNumber, id)
}

// mermaidLabel keeps quotes and brackets from closing a node label early.
func mermaidLabel(v string) string {
	return strings.NewReplacer(`"`, "#quot;", "[", "(", "]", ")", "|", "/").Replace(v)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
