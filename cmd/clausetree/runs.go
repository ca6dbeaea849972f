package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"clausetree/internal/ir"
	"clausetree/internal/render"
	"clausetree/internal/storage"

	"github.com/spf13/cobra"
)

var (
	runLimit    int
	clauseLimit int
	clauseType  string
	showFormat  string
)

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "json", "Output format: json, markdown or mermaid")
	runsCmd.Flags().IntVarP(&runLimit, "limit", "n", 20, "Maximum number of runs to list")
	clausesCmd.Flags().StringVarP(&clauseType, "type", "t", "", "Clause type to match (main, relative, adverbial, nominal, adjectival)")
	clausesCmd.Flags().IntVarP(&clauseLimit, "limit", "n", 50, "Maximum number of clauses to list")
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print a stored run as JSON, Markdown or mermaid",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		e := mustEnv()

		store, err := e.initStore(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		defer store.Close()

		run, result, err := store.LoadRun(ctx, args[0])
		e.metrics.ObserveStore("load_run", err)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Printf("❌ No run with id %s\n", args[0])
			return
		}
		if err != nil {
			log.Fatalf("Failed to load run: %v", err)
		}

		switch showFormat {
		case "markdown", "md":
			fmt.Print(render.BatchReport(fmt.Sprintf("Run %s (%s)", run.ID, run.Source), result))
		case "mermaid":
			for _, res := range result.Results {
				fmt.Print(render.ClauseFlowChart(res))
			}
		default:
			if err := ir.Encode(os.Stdout, result); err != nil {
				log.Fatalf("Failed to write result: %v", err)
			}
		}
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		e := mustEnv()

		store, err := e.initStore(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(ctx, runLimit)
		e.metrics.ObserveStore("list_runs", err)
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("✅ No runs stored yet.")
			return
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %d/%d  %s  %s\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Analyzed, r.TotalSentences, r.Model, r.Source)
		}
	},
}

var clausesCmd = &cobra.Command{
	Use:   "clauses",
	Short: "Search stored clauses by type",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		e := mustEnv()

		store, err := e.initStore(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		defer store.Close()

		hits, err := store.FindClauses(ctx, clauseType, clauseLimit)
		e.metrics.ObserveStore("find_clauses", err)
		if err != nil {
			log.Fatalf("Failed to search clauses: %v", err)
		}
		for _, h := range hits {
			fmt.Printf("[%s #%d.%d] %-10s %q verb=%s subject=%s connector=%s\n",
				h.RunID[:min(8, len(h.RunID))], h.SentenceNumber, h.ClauseID, h.Type, h.Text,
				deref(h.MainVerb), deref(h.Subject), deref(h.Connector))
		}
	},
}
