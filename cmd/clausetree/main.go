package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"clausetree/internal/analysis"
	"clausetree/internal/config"
	"clausetree/internal/ir"
	"clausetree/internal/logging"
	"clausetree/internal/metrics"
	"clausetree/internal/parse"
	"clausetree/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:   "clausetree",
		Short: "Clause structure analysis for dependency-parsed English",
	}
	configPath string
	dbPath     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Storage DSN (overrides storage.dsn from the config)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(clausesCmd)
	rootCmd.AddCommand(schemaCmd)
}

// env holds what every command needs once the config is loaded.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Collector
}

func initEnv() (*env, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.DSN = dbPath
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &env{cfg: cfg, logger: logger, metrics: metrics.NewCollector("clausetree")}, nil
}

// initParser picks the parser backend named by parser.kind.
func (e *env) initParser(ctx context.Context) (parse.Parser, error) {
	switch e.cfg.Parser.Kind {
	case "conllu":
		return parse.NewCoNLLUParser(), nil
	case "json":
		return parse.NewJSONParser(), nil
	default:
		svc := parse.NewHTTPService(e.cfg.Parser.Endpoint, e.cfg.Parser.Timeout, parse.DefaultBreakerConfig(), e.logger)
		return parse.LoadParser(ctx, svc, e.cfg.Parser.Language, e.logger)
	}
}

func (e *env) initAnalyzer(ctx context.Context, opts ...analysis.Option) (*analysis.Analyzer, error) {
	p, err := e.initParser(ctx)
	if err != nil {
		return nil, err
	}
	opts = append([]analysis.Option{
		analysis.WithLogger(e.logger),
		analysis.WithMetrics(e.metrics),
		analysis.WithWorkers(e.cfg.Parser.Workers),
	}, opts...)
	return analysis.NewAnalyzer(p, opts...), nil
}

func (e *env) initStore(ctx context.Context) (storage.Store, error) {
	return storage.Open(ctx, e.cfg.Storage.Driver, e.cfg.Storage.DSN)
}

func mustEnv() *env {
	e, err := initEnv()
	if err != nil {
		log.Fatalf("%v", err)
	}
	return e
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [sentence...]",
	Short: "Analyze one sentence (or stdin as free text) and print the result as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		e := mustEnv()
		defer e.logger.Sync()

		a, err := e.initAnalyzer(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize parser: %v", err)
		}

		var out *ir.BatchResult
		if len(args) > 0 {
			res, err := a.AnalyzeSentence(ctx, strings.Join(args, " "), 1)
			if err != nil {
				log.Fatalf("Analysis failed: %v", err)
			}
			out = &ir.BatchResult{TotalSentences: 1, Results: []ir.SentenceResult{*res}}
		} else {
			text, err := io.ReadAll(bufio.NewReader(os.Stdin))
			if err != nil {
				log.Fatalf("Failed to read stdin: %v", err)
			}
			out, err = a.AnalyzeText(ctx, string(text))
			if err != nil {
				log.Fatalf("Analysis failed: %v", err)
			}
		}

		if err := ir.Encode(os.Stdout, out); err != nil {
			log.Fatalf("Failed to write result: %v", err)
		}
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the batch output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Stdout.Write(ir.Schema())
	},
}
