package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"clausetree/internal/ir"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps results in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects and creates the tables if needed.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.Initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Initialize sets up the tables and indices.
func (s *PostgresStore) Initialize(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT,
			model TEXT,
			total_sentences INTEGER NOT NULL,
			analyzed INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sentences (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			sentence_number INTEGER NOT NULL,
			sentence TEXT NOT NULL,
			result JSONB NOT NULL,
			PRIMARY KEY (run_id, sentence_number)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sentences table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS clauses (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			sentence_number INTEGER NOT NULL,
			clause_id INTEGER NOT NULL,
			clause_type TEXT NOT NULL,
			text TEXT,
			main_verb TEXT,
			subject TEXT,
			connector TEXT,
			PRIMARY KEY (run_id, sentence_number, clause_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create clauses table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS clauses_type_idx ON clauses (clause_type)`)
	if err != nil {
		return fmt.Errorf("failed to create clause index: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run *Run, b *ir.BatchResult) error {
	prepareRun(run, b)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO runs (id, source, model, total_sentences, analyzed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			model = EXCLUDED.model,
			total_sentences = EXCLUDED.total_sentences,
			analyzed = EXCLUDED.analyzed
	`, run.ID, run.Source, run.Model, run.TotalSentences, run.Analyzed, run.CreatedAt); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sentences WHERE run_id = $1`, run.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM clauses WHERE run_id = $1`, run.ID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, res := range b.Results {
		data, err := json.Marshal(res)
		if err != nil {
			return err
		}
		batch.Queue(`INSERT INTO sentences (run_id, sentence_number, sentence, result) VALUES ($1, $2, $3, $4)`,
			run.ID, res.SentenceNumber, res.Sentence, data)
		for _, c := range res.ClauseTree {
			batch.Queue(`
				INSERT INTO clauses (run_id, sentence_number, clause_id, clause_type, text, main_verb, subject, connector)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, run.ID, res.SentenceNumber, c.ID, c.Type, c.Text, c.MainVerb, c.Subject, c.Connector)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) LoadRun(ctx context.Context, id string) (*Run, *ir.BatchResult, error) {
	var run Run
	err := s.pool.QueryRow(ctx,
		`SELECT id, source, model, total_sentences, analyzed, created_at FROM runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.Source, &run.Model, &run.TotalSentences, &run.Analyzed, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT result FROM sentences WHERE run_id = $1 ORDER BY sentence_number`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query sentences: %w", err)
	}
	defer rows.Close()

	b := &ir.BatchResult{TotalSentences: run.TotalSentences, Results: []ir.SentenceResult{}}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, nil, fmt.Errorf("failed to scan sentence: %w", err)
		}
		var res ir.SentenceResult
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, nil, fmt.Errorf("failed to decode sentence: %w", err)
		}
		b.Results = append(b.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return &run, b, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, source, model, total_sentences, analyzed, created_at FROM runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.Model, &r.TotalSentences, &r.Analyzed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *PostgresStore) FindClauses(ctx context.Context, clauseType string, limit int) ([]ClauseHit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, sentence_number, clause_id, clause_type, text, main_verb, subject, connector
		FROM clauses
		WHERE $1 = '' OR clause_type = $1
		ORDER BY run_id, sentence_number, clause_id
		LIMIT $2
	`, clauseType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query clauses: %w", err)
	}
	defer rows.Close()

	var hits []ClauseHit
	for rows.Next() {
		var h ClauseHit
		if err := rows.Scan(&h.RunID, &h.SentenceNumber, &h.ClauseID, &h.Type, &h.Text, &h.MainVerb, &h.Subject, &h.Connector); err != nil {
			return nil, fmt.Errorf("failed to scan clause: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
