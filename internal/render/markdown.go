package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"clausetree/internal/ir"
)

// BatchReport renders a batch as a Markdown document: one section per
// sentence with its clause table, verb roles and diagram.
func BatchReport(title string, b *ir.BatchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Analyzed %d of %d sentences.\n", len(b.Results), b.TotalSentences))

	for _, res := range b.Results {
		sb.WriteString(fmt.Sprintf("\n## Sentence %d\n\n> %s\n\n", res.SentenceNumber, res.Sentence))
		sb.WriteString(clauseTable(res))
		sb.WriteString(rolesList(res))

		if len(res.ImpliedSubjects) > 0 {
			sb.WriteString("\n**Implied subjects**\n\n")
			for _, verb := range sortedKeys(res.ImpliedSubjects) {
				sb.WriteString(fmt.Sprintf("- `%s`: %s\n", verb, res.ImpliedSubjects[verb]))
			}
		}

		if len(res.CoordStructures) > 0 {
			sb.WriteString("\n**Coordination**\n\n")
			for _, c := range res.CoordStructures {
				sb.WriteString(fmt.Sprintf("- %s: %s *%s* %s\n", c.Type, c.First, c.Conjunction, c.Second))
			}
		}

		if len(res.ClauseTree) > 0 {
			sb.WriteString("\n")
			sb.WriteString(ClauseFlowChart(res))
		}
	}
	return sb.String()
}

func clauseTable(res ir.SentenceResult) string {
	if len(res.ClauseTree) == 0 {
		return "_No clauses._\n"
	}
	var sb strings.Builder
	sb.WriteString("| ID | Type | Text | Verb | Subject | Connector | Parent | Depth |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, c := range res.ClauseTree {
		parent := "-"
		if c.ParentID != nil {
			parent = strconv.Itoa(*c.ParentID)
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %d |\n",
			c.ID, c.Type, cell(c.Text), cellPtr(c.MainVerb), cellPtr(c.Subject), cellPtr(c.Connector), parent, c.Depth))
	}
	return sb.String()
}

func rolesList(res ir.SentenceResult) string {
	var sb strings.Builder
	for _, c := range res.ClauseTree {
		byVerb := res.VerbNPRoles[strconv.Itoa(c.ID)]
		for _, verb := range sortedKeys(byVerb) {
			r := byVerb[verb]
			var parts []string
			for _, g := range []struct {
				name string
				nps  []string
			}{
				{"subject", r.Subject},
				{"direct object", r.DirectObject},
				{"indirect object", r.IndirectObject},
				{"others", r.Others},
			} {
				if len(g.nps) > 0 {
					parts = append(parts, fmt.Sprintf("%s: %s", g.name, strings.Join(g.nps, ", ")))
				}
			}
			if len(parts) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("- clause %d, `%s`: %s\n", c.ID, verb, strings.Join(parts, "; ")))
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return "\n**Roles**\n\n" + sb.String()
}

func cell(v string) string {
	return strings.ReplaceAll(v, "|", `\|`)
}

func cellPtr(v *string) string {
	if v == nil {
		return "-"
	}
	return cell(*v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
