// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package briefstore persists completed briefs in a local SQLite database
// so past research runs can be listed and re-read without re-querying
// sources. The pipeline itself never touches the store; only the CLI does.
package briefstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/brief-engine/pkg/types"
)

const dbFile = "briefs.db"

// Store manages the brief archive database.
type Store struct {
	db      *sql.DB
	maxList int
}

// NewStore opens or creates the archive at dir/briefs.db, creating the
// schema when missing.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "briefs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxList := cfg.MaxList
	if maxList <= 0 {
		maxList = 20
	}

	s := &Store{db: db, maxList: maxList}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS briefs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			generated_at TEXT NOT NULL,
			confidence TEXT,
			total_papers INTEGER,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_briefs_topic ON briefs(topic)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Summary is one row of the brief listing.
type Summary struct {
	ID          string    `json:"id" yaml:"id"`
	Topic       string    `json:"topic" yaml:"topic"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Confidence  string    `json:"confidence" yaml:"confidence"`
	TotalPapers int       `json:"total_papers" yaml:"total_papers"`
}

// Save writes the brief and returns its assigned ID. The ID is stable for
// a given topic and generation time.
func (s *Store) Save(ctx context.Context, brief *types.Brief) (string, error) {
	id := briefID(brief.Topic, brief.GeneratedAt)

	stored := *brief
	stored.ID = id
	payload, err := json.Marshal(&stored)
	if err != nil {
		return "", fmt.Errorf("marshaling brief: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO briefs (id, topic, generated_at, confidence, total_papers, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		brief.Topic,
		brief.GeneratedAt.UTC().Format(time.RFC3339Nano),
		brief.Narrative.Confidence,
		brief.Stats.Market.TotalPapers,
		string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("inserting brief: %w", err)
	}
	return id, nil
}

// Get loads one brief by ID.
func (s *Store) Get(ctx context.Context, id string) (*types.Brief, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM briefs WHERE id = ?`, id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("brief %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading brief %q: %w", id, err)
	}

	var brief types.Brief
	if err := json.Unmarshal([]byte(payload), &brief); err != nil {
		return nil, fmt.Errorf("parsing stored brief %q: %w", id, err)
	}
	return &brief, nil
}

// List returns summaries of the most recent briefs, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, generated_at, confidence, total_papers
		 FROM briefs ORDER BY generated_at DESC LIMIT ?`, s.maxList)
	if err != nil {
		return nil, fmt.Errorf("listing briefs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum Summary
			ts  string
		)
		if err := rows.Scan(&sum.ID, &sum.Topic, &ts, &sum.Confidence, &sum.TotalPapers); err != nil {
			return nil, fmt.Errorf("scanning brief row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, ts); parseErr == nil {
			sum.GeneratedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// briefID derives a stable identifier from topic and generation time:
// the first 12 hex characters of SHA-256(topic + timestamp).
func briefID(topic string, generatedAt time.Time) string {
	h := sha256.New()
	h.Write([]byte(topic))
	h.Write([]byte(generatedAt.UTC().Format(time.RFC3339Nano)))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}
