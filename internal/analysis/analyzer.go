package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clausetree/internal/clause"
	"clausetree/internal/ir"
	"clausetree/internal/metrics"
	"clausetree/internal/parse"
	"clausetree/internal/roles"

	"go.uber.org/zap"
)

// ErrEmptyInput is returned when the parser finds no sentence in the input.
var ErrEmptyInput = errors.New("no sentence in input")

// SentenceError reports why one sentence of a batch was skipped.
type SentenceError struct {
	Number   int
	Sentence string
	Stage    string
	Err      error
}

func (e *SentenceError) Error() string {
	return fmt.Sprintf("sentence %d (%s): %v", e.Number, e.Stage, e.Err)
}

func (e *SentenceError) Unwrap() error {
	return e.Err
}

// Analyzer turns sentences into exported clause analyses.
type Analyzer struct {
	parser   parse.Parser
	chain    *roles.Chain
	logger   *zap.Logger
	metrics  *metrics.Collector
	workers  int
	progress func(done, total int)
}

type Option func(*Analyzer)

func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithChain(c *roles.Chain) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.chain = c
		}
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithWorkers bounds how many sentences of a batch are analyzed at once.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithProgress registers a callback invoked after every batch sentence.
func WithProgress(fn func(done, total int)) Option {
	return func(a *Analyzer) { a.progress = fn }
}

// NewAnalyzer creates an analyzer over p.
func NewAnalyzer(p parse.Parser, opts ...Option) *Analyzer {
	a := &Analyzer{
		parser:  p,
		chain:   roles.NewDefaultChain(),
		logger:  zap.NewNop(),
		workers: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Parser returns the parser the analyzer was built with.
func (a *Analyzer) Parser() parse.Parser {
	return a.parser
}

// AnalyzeParsed analyzes one already-parsed sentence. Panics raised while
// analyzing are returned as errors.
func (a *Analyzer) AnalyzeParsed(s *parse.Sentence, number int) (res *ir.SentenceResult, err error) {
	if s == nil {
		return nil, &SentenceError{Number: number, Stage: "analyze", Err: ErrEmptyInput}
	}
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &SentenceError{Number: number, Sentence: s.Text, Stage: "analyze", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	tree := clause.Build(s)
	result, stages, err := a.chain.Analyze(tree)
	if err != nil {
		return nil, &SentenceError{Number: number, Sentence: s.Text, Stage: "analyze", Err: err}
	}
	for _, st := range stages {
		a.logger.Debug("pass finished",
			zap.Int("sentence_number", number),
			zap.String("pass", st.Pass),
			zap.Int("recorded", st.Stats.Recorded),
			zap.Int("skipped", st.Stats.Skipped))
	}

	out := ir.FromAnalysis(result, number)
	return &out, nil
}

// AnalyzeSentence parses text and analyzes it as one sentence. When the
// parser splits the text, only the first sentence is analyzed.
func (a *Analyzer) AnalyzeSentence(ctx context.Context, text string, number int) (*ir.SentenceResult, error) {
	start := time.Now()
	doc, err := a.parser.Parse(ctx, text)
	if err != nil {
		a.metrics.ObserveFailure("parse")
		return nil, &SentenceError{Number: number, Sentence: text, Stage: "parse", Err: err}
	}
	if len(doc.Sentences) == 0 {
		a.metrics.ObserveFailure("parse")
		return nil, &SentenceError{Number: number, Sentence: text, Stage: "parse", Err: ErrEmptyInput}
	}
	if len(doc.Sentences) > 1 {
		a.logger.Warn("parser split input into several sentences, analyzing the first",
			zap.Int("sentence_number", number),
			zap.Int("sentences", len(doc.Sentences)))
	}

	if doc.Sentences[0] == nil {
		a.metrics.ObserveFailure("parse")
		ferr := doc.Failure(0)
		if ferr == nil {
			ferr = ErrEmptyInput
		}
		return nil, &SentenceError{Number: number, Sentence: text, Stage: "parse", Err: ferr}
	}

	res, err := a.AnalyzeParsed(doc.Sentences[0], number)
	if err != nil {
		a.metrics.ObserveFailure("analyze")
		return nil, err
	}
	a.metrics.ObserveSentence(time.Since(start), len(res.ClauseTree))
	return res, nil
}
