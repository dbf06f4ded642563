package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amishk599/careerlens/internal/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists analysis history and seen job listings in a SQLite
// database. It satisfies both model.HistoryStore and model.ListingStore.
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ model.HistoryStore = (*SQLiteStore)(nil)
	_ model.ListingStore = (*SQLiteStore)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	file_name  TEXT NOT NULL,
	summary    TEXT NOT NULL,
	keywords   TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS seen_listings (
	listing_key TEXT PRIMARY KEY,
	first_seen  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS seeded_queries (
	query     TEXT PRIMARY KEY,
	seeded_at INTEGER NOT NULL
);`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// RecordAnalysis stores a completed analysis. Re-recording the same ID
// replaces the earlier row.
func (s *SQLiteStore) RecordAnalysis(rec model.AnalysisRecord) error {
	keywords := rec.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	kw, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("encoding keywords for %s: %w", rec.ID, err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO analyses (id, file_name, summary, keywords, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.ID, rec.FileName, rec.Summary, string(kw), createdAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("recording analysis %s: %w", rec.ID, err)
	}
	return nil
}

// RecentAnalyses returns up to limit analyses, newest first.
func (s *SQLiteStore) RecentAnalyses(limit int) ([]model.AnalysisRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(
		"SELECT id, file_name, summary, keywords, created_at FROM analyses ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var out []model.AnalysisRecord
	for rows.Next() {
		var (
			rec       model.AnalysisRecord
			kw        string
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.FileName, &rec.Summary, &kw, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning analysis row: %w", err)
		}
		if err := json.Unmarshal([]byte(kw), &rec.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords for %s: %w", rec.ID, err)
		}
		rec.CreatedAt = time.Unix(0, createdAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}
	return out, nil
}

// HasSeen returns true if the given listing key has already been recorded.
func (s *SQLiteStore) HasSeen(key string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_listings WHERE listing_key = ?", key).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", key, err)
	}
	return true, nil
}

// MarkSeen records a listing key as seen. If it already exists the call is a no-op.
func (s *SQLiteStore) MarkSeen(key string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO seen_listings (listing_key, first_seen) VALUES (?, ?)",
		key, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("marking listing %s as seen: %w", key, err)
	}
	return nil
}

// Cleanup deletes seen-listing entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).Unix()
	if _, err := s.db.Exec("DELETE FROM seen_listings WHERE first_seen < ?", cutoff); err != nil {
		return fmt.Errorf("cleaning up seen listings older than %v: %w", olderThan, err)
	}
	return nil
}

// IsSeeded reports whether query has completed its first (seeding) poll.
// Seeded queries survive Cleanup.
func (s *SQLiteStore) IsSeeded(query string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seeded_queries WHERE query = ?", query).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seeded status for %q: %w", query, err)
	}
	return true, nil
}

// MarkSeeded records that query has been seeded.
func (s *SQLiteStore) MarkSeeded(query string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO seeded_queries (query, seeded_at) VALUES (?, ?)",
		query, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("marking query %q as seeded: %w", query, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
