package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"clausetree/internal/ir"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT,
			model TEXT,
			total_sentences INTEGER,
			analyzed INTEGER,
			created_at TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS sentences (
			run_id TEXT,
			sentence_number INTEGER,
			sentence TEXT,
			result JSON,
			PRIMARY KEY (run_id, sentence_number)
		);`,
		`CREATE TABLE IF NOT EXISTS clauses (
			run_id TEXT,
			sentence_number INTEGER,
			clause_id INTEGER,
			clause_type TEXT,
			text TEXT,
			main_verb TEXT,
			subject TEXT,
			connector TEXT,
			PRIMARY KEY (run_id, sentence_number, clause_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_clauses_type ON clauses(clause_type);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run, b *ir.BatchResult) error {
	prepareRun(run, b)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, model, total_sentences, analyzed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source=excluded.source,
			model=excluded.model,
			total_sentences=excluded.total_sentences,
			analyzed=excluded.analyzed
	`, run.ID, run.Source, run.Model, run.TotalSentences, run.Analyzed, run.CreatedAt); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	// Replace any previous rows for this run.
	for _, q := range []string{"DELETE FROM sentences WHERE run_id = ?", "DELETE FROM clauses WHERE run_id = ?"} {
		if _, err := tx.ExecContext(ctx, q, run.ID); err != nil {
			return err
		}
	}

	sentStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sentences (run_id, sentence_number, sentence, result) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer sentStmt.Close()

	clauseStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO clauses (run_id, sentence_number, clause_id, clause_type, text, main_verb, subject, connector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer clauseStmt.Close()

	for _, res := range b.Results {
		data, err := json.Marshal(res)
		if err != nil {
			return err
		}
		if _, err := sentStmt.ExecContext(ctx, run.ID, res.SentenceNumber, res.Sentence, data); err != nil {
			return fmt.Errorf("failed to save sentence %d: %w", res.SentenceNumber, err)
		}
		for _, c := range res.ClauseTree {
			if _, err := clauseStmt.ExecContext(ctx, run.ID, res.SentenceNumber, c.ID, c.Type, c.Text, c.MainVerb, c.Subject, c.Connector); err != nil {
				return fmt.Errorf("failed to save clause %d of sentence %d: %w", c.ID, res.SentenceNumber, err)
			}
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadRun(ctx context.Context, id string) (*Run, *ir.BatchResult, error) {
	var run Run
	err := s.db.QueryRowContext(ctx,
		"SELECT id, source, model, total_sentences, analyzed, created_at FROM runs WHERE id = ?", id,
	).Scan(&run.ID, &run.Source, &run.Model, &run.TotalSentences, &run.Analyzed, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT result FROM sentences WHERE run_id = ? ORDER BY sentence_number", id)
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

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, source, model, total_sentences, analyzed, created_at FROM runs ORDER BY created_at DESC LIMIT ?", limit)
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

func (s *SQLiteStore) FindClauses(ctx context.Context, clauseType string, limit int) ([]ClauseHit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, sentence_number, clause_id, clause_type, text, main_verb, subject, connector
		FROM clauses
		WHERE ? = '' OR clause_type = ?
		ORDER BY run_id, sentence_number, clause_id
		LIMIT ?
	`, clauseType, clauseType, limit)
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
