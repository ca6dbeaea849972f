package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clausetree/internal/ir"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// Run describes one persisted batch.
type Run struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	Model          string    `json:"model"`
	TotalSentences int       `json:"total_sentences"`
	Analyzed       int       `json:"analyzed"`
	CreatedAt      time.Time `json:"created_at"`
}

// ClauseHit is one clause row returned by a clause search.
type ClauseHit struct {
	RunID          string  `json:"run_id"`
	SentenceNumber int     `json:"sentence_number"`
	ClauseID       int     `json:"clause_id"`
	Type           string  `json:"type"`
	Text           string  `json:"text"`
	MainVerb       *string `json:"main_verb"`
	Subject        *string `json:"subject"`
	Connector      *string `json:"connector"`
}

// Store persists batch results.
type Store interface {
	RunStore
	ClauseIndex
	Close() error
}

// RunStore saves and loads whole batches.
type RunStore interface {
	// SaveRun stores the batch under run.ID, assigning an id and timestamp
	// when they are empty.
	SaveRun(ctx context.Context, run *Run, b *ir.BatchResult) error

	// LoadRun returns a run and its results.
	LoadRun(ctx context.Context, id string) (*Run, *ir.BatchResult, error)

	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// ClauseIndex searches stored clauses.
type ClauseIndex interface {
	// FindClauses returns clauses of the given type ("" for any).
	FindClauses(ctx context.Context, clauseType string, limit int) ([]ClauseHit, error)
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

func prepareRun(run *Run, b *ir.BatchResult) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.TotalSentences = b.TotalSentences
	run.Analyzed = len(b.Results)
}

// Open connects to the store for driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", "sqlite", "sqlite3":
		s, err := NewSQLiteStore(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres", "postgresql", "pgx":
		s, err := NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
