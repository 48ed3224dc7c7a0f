// Package sqlite keeps raw transcripts and their summaries in a local SQLite file,
// with the same listing and write rules as the remote summaries API.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	domainerrors "github.com/nguyentantai21042004/meeting-digest/internal/errors"
	"github.com/nguyentantai21042004/meeting-digest/internal/transcript"
)

const schema = `
CREATE TABLE IF NOT EXISTS summaries (
	transcript_id TEXT NOT NULL,
	summary_key   TEXT NOT NULL,
	summary       TEXT NOT NULL,
	updated_at    INTEGER NOT NULL,
	PRIMARY KEY (transcript_id, summary_key)
)`

// Store is a transcript.Source and transcript.Sink backed by SQLite.
// Raw transcripts are rows whose summary_key is the raw key.
type Store struct {
	db     *sql.DB
	rawKey string
}

var (
	_ transcript.Source = (*Store)(nil)
	_ transcript.Sink   = (*Store)(nil)
)

// Open opens or creates the database at path.
func Open(path, rawKey string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, rawKey: rawKey}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Import stores a raw transcript, replacing an earlier one with the same id.
func (s *Store) Import(ctx context.Context, r transcript.Record) error {
	if r.TranscriptID == "" {
		return domainerrors.Validationf("transcript id is required")
	}
	return s.upsert(ctx, r.TranscriptID, s.rawKey, r.RawText)
}

// List returns raw transcripts that have no summary under summaryKey.
func (s *Store) List(ctx context.Context, summaryKey string) ([]transcript.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT transcript_id, summary
		FROM summaries
		WHERE summary_key = ?
		  AND transcript_id NOT IN (
			SELECT transcript_id FROM summaries WHERE summary_key = ?
		  )
		ORDER BY transcript_id ASC
	`, s.rawKey, summaryKey)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var records []transcript.Record
	for rows.Next() {
		var r transcript.Record
		if err := rows.Scan(&r.TranscriptID, &r.RawText); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Write stores a summary. The raw key is read-only. A summary for a transcript that
// was never imported is rejected.
func (s *Store) Write(ctx context.Context, e transcript.Entry) error {
	if e.SummaryKey == s.rawKey {
		return domainerrors.Validationf("summaries with key %q are read-only", s.rawKey)
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM summaries WHERE transcript_id = ? AND summary_key = ?`,
		e.TranscriptID, s.rawKey).Scan(&n)
	if err != nil {
		return fmt.Errorf("check transcript: %w", err)
	}
	if n == 0 {
		return domainerrors.NotFoundf("transcript %q not found", e.TranscriptID)
	}

	return s.upsert(ctx, e.TranscriptID, e.SummaryKey, e.Summary)
}

// Summary returns the stored text for a transcript and key.
func (s *Store) Summary(ctx context.Context, transcriptID, summaryKey string) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT summary FROM summaries WHERE transcript_id = ? AND summary_key = ?`,
		transcriptID, summaryKey).Scan(&text)
	if err == sql.ErrNoRows {
		return "", domainerrors.NotFoundf("summary %s/%s not found", transcriptID, summaryKey)
	}
	if err != nil {
		return "", fmt.Errorf("query summary: %w", err)
	}
	return text, nil
}

func (s *Store) upsert(ctx context.Context, transcriptID, key, text string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (transcript_id, summary_key, summary, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (transcript_id, summary_key)
		DO UPDATE SET summary = excluded.summary, updated_at = excluded.updated_at
	`, transcriptID, key, text, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}
