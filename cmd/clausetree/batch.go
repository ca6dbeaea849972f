package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"clausetree/internal/analysis"
	"clausetree/internal/ir"
	"clausetree/internal/source"
	"clausetree/internal/storage"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputPath string
	noSave     bool
)

func init() {
	batchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON path (overrides output.path from the config)")
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist the run to storage")
}

// progressBar renders batch progress once the sentence count is known.
type progressBar struct {
	once sync.Once
	bar  *uiprogress.Bar
}

func (p *progressBar) update(done, total int) {
	p.once.Do(func() {
		uiprogress.Start()
		p.bar = uiprogress.AddBar(total)
		p.bar.AppendCompleted()
		p.bar.PrependElapsed()
	})
	p.bar.Incr()
}

func (p *progressBar) stop() {
	if p.bar != nil {
		uiprogress.Stop()
	}
}

var batchCmd = &cobra.Command{
	Use:   "batch <file|dir>",
	Short: "Analyze every sentence of a text, PDF or directory and write output.json",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		e := mustEnv()
		defer e.logger.Sync()

		if addr := e.cfg.Metrics.Addr; addr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", e.metrics.Handler())
			go func() {
				if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
					e.logger.Warn("metrics server stopped", zap.Error(err))
				}
			}()
			fmt.Printf("📈 Metrics on http://%s/metrics\n", addr)
		}

		// 1. Read input
		path := args[0]
		fmt.Printf("📂 Reading input: %s\n", path)
		var text string
		var err error
		if e.cfg.Parser.Kind == "http" {
			var files []string
			text, files, err = source.NewReader(e.logger).ReadAll(path)
			if err == nil && len(files) == 0 {
				err = fmt.Errorf("no readable text under %s", path)
			}
		} else {
			// Pre-parsed input is read as is.
			text, err = source.ReadText(path)
		}
		if err != nil {
			log.Fatalf("Failed to read input: %v", err)
		}

		// 2. Analyze
		bar := &progressBar{}
		a, err := e.initAnalyzer(ctx, analysis.WithProgress(bar.update))
		if err != nil {
			log.Fatalf("Failed to initialize parser: %v", err)
		}

		fmt.Printf("🚀 Analyzing with model %s...\n", a.Parser().Model())
		start := time.Now()
		result, err := a.AnalyzeText(ctx, text)
		bar.stop()
		if err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}
		fmt.Printf("✅ Analyzed %d of %d sentences in %v.\n", len(result.Results), result.TotalSentences, time.Since(start))

		// 3. Write output
		out := e.cfg.Output.Path
		if outputPath != "" {
			out = outputPath
		}
		if err := ir.WriteFile(out, result); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("📝 Results written to %s\n", out)

		if noSave {
			return
		}

		// 4. Persist
		store, err := e.initStore(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		defer store.Close()

		run := &storage.Run{Source: path, Model: a.Parser().Model()}
		err = store.SaveRun(ctx, run, result)
		e.metrics.ObserveStore("save_run", err)
		if err != nil {
			log.Fatalf("Failed to save run: %v", err)
		}
		fmt.Printf("💾 Saved run %s\n", run.ID)
	},
}
