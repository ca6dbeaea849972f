package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"clausetree/internal/ir"
	"clausetree/internal/parse"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AnalyzeSentences analyzes pre-split sentences. A sentence that fails to
// parse or analyze is logged and left out of Results; TotalSentences still
// counts it.
func (a *Analyzer) AnalyzeSentences(ctx context.Context, sentences []string) (*ir.BatchResult, error) {
	return a.run(ctx, len(sentences), func(ctx context.Context, i int) (*ir.SentenceResult, error) {
		return a.AnalyzeSentence(ctx, sentences[i], i+1)
	})
}

// AnalyzeText lets the parser split text into sentences, then analyzes each
// of them. A parser failure on the whole text is returned as is.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (*ir.BatchResult, error) {
	doc, err := a.parser.Parse(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("parse text: %w", err)
	}
	return a.AnalyzeDoc(ctx, doc)
}

// AnalyzeDoc analyzes every sentence of an already-parsed document.
// Sentences the parser could not build count toward TotalSentences and are
// left out of Results.
func (a *Analyzer) AnalyzeDoc(ctx context.Context, doc *parse.Doc) (*ir.BatchResult, error) {
	return a.run(ctx, len(doc.Sentences), func(ctx context.Context, i int) (*ir.SentenceResult, error) {
		if doc.Sentences[i] == nil {
			a.metrics.ObserveFailure("parse")
			se := &SentenceError{Number: i + 1, Stage: "parse", Err: ErrEmptyInput}
			var f parse.SentenceFailure
			if err := doc.Failure(i); errors.As(err, &f) {
				se.Sentence = f.Text
				se.Err = f
			}
			return nil, se
		}

		start := time.Now()
		res, err := a.AnalyzeParsed(doc.Sentences[i], i+1)
		if err != nil {
			a.metrics.ObserveFailure("analyze")
			return nil, err
		}
		a.metrics.ObserveSentence(time.Since(start), len(res.ClauseTree))
		return res, nil
	})
}

func (a *Analyzer) run(ctx context.Context, total int, work func(context.Context, int) (*ir.SentenceResult, error)) (*ir.BatchResult, error) {
	slots := make([]*ir.SentenceResult, total)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := 0; i < total; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := work(gctx, i)
			if err != nil {
				a.logger.Warn("skipping sentence",
					zap.Int("sentence_number", i+1),
					zap.Error(err))
			} else {
				slots[i] = res
			}
			if a.progress != nil {
				a.progress(int(done.Add(1)), total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ir.BatchResult{TotalSentences: total, Results: make([]ir.SentenceResult, 0, total)}
	for _, res := range slots {
		if res != nil {
			out.Results = append(out.Results, *res)
		}
	}
	a.logger.Info("batch analyzed",
		zap.Int("total_sentences", total),
		zap.Int("analyzed", len(out.Results)),
		zap.Int("skipped", total-len(out.Results)))
	return out, nil
}
