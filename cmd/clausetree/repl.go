package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"clausetree/internal/analysis"
	"clausetree/internal/ir"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
)

var replCommands = []prompt.Suggest{
	{Text: ":quit", Description: "Leave the shell"},
	{Text: ":compact", Description: "Toggle single-line JSON output"},
	{Text: ":model", Description: "Show the parser model in use"},
}

// shell analyzes one sentence per input line.
type shell struct {
	analyzer *analysis.Analyzer
	out      io.Writer
	compact  bool
	count    int
}

func completer(in prompt.Document) []prompt.Suggest {
	before := in.TextBeforeCursor()
	if !strings.HasPrefix(before, ":") {
		return []prompt.Suggest{}
	}
	return prompt.FilterHasPrefix(replCommands, before, true)
}

// handle processes one line and reports whether the shell should exit.
func (s *shell) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case ":quit", "quit", "exit":
		return true
	case ":compact":
		s.compact = !s.compact
		fmt.Fprintf(s.out, "Compact output: %t\n", s.compact)
		return false
	case ":model":
		fmt.Fprintln(s.out, s.analyzer.Parser().Model())
		return false
	}

	s.count++
	res, err := s.analyzer.AnalyzeSentence(ctx, line, s.count)
	if err != nil {
		fmt.Fprintf(s.out, "❌ %v\n", err)
		return false
	}

	if s.compact {
		data, err := json.Marshal(res)
		if err != nil {
			fmt.Fprintf(s.out, "❌ %v\n", err)
			return false
		}
		fmt.Fprintln(s.out, string(data))
		return false
	}
	if err := ir.Encode(s.out, &ir.BatchResult{TotalSentences: 1, Results: []ir.SentenceResult{*res}}); err != nil {
		fmt.Fprintf(s.out, "❌ %v\n", err)
	}
	return false
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive shell: type a sentence, get its clause analysis",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		e := mustEnv()
		defer e.logger.Sync()

		a, err := e.initAnalyzer(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize parser: %v", err)
		}

		sh := &shell{analyzer: a, out: os.Stdout}
		fmt.Printf("🔑 Model %s. Type a sentence, :compact to toggle output, :quit to leave\n", a.Parser().Model())

		history := []string{}
		for {
			in := prompt.Input("🌳 ", completer,
				prompt.OptionTitle("clausetree"),
				prompt.OptionPrefixTextColor(prompt.Yellow),
				prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
				prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
				prompt.OptionSuggestionBGColor(prompt.DarkGray),
				prompt.OptionMaxSuggestion(6),
				prompt.OptionHistory(history),
			)
			if sh.handle(ctx, in) {
				return
			}
			history = append(history, in)
		}
	},
}
