// Package history persists analysis and generation results in a local
// DuckDB database so past runs can be reviewed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
)

// Entry is one recorded command run. Kind is the command that produced it:
// analyze, optimize, or generate.
type Entry struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	Score      int       `json:"score"`
	Method     string    `json:"method,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Entry kinds.
const (
	KindAnalyze  = "analyze"
	KindOptimize = "optimize"
	KindGenerate = "generate"
)

// Store is a DuckDB-backed history store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the history database at dbPath and
// configures the connection pool.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// newStoreWithDB wires an existing database handle, used by tests.
func newStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Initialize applies any pending schema migrations.
func (s *Store) Initialize(ctx context.Context) error {
	return NewMigrationManager(s.db).MigrateUp(ctx)
}

// Record inserts an entry, assigning it an ID and timestamp. The stored
// entry is returned.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()

	insertSQL := `
	INSERT INTO query_history (id, kind, input, output, score, method, confidence, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, insertSQL,
		entry.ID,
		entry.Kind,
		entry.Input,
		entry.Output,
		entry.Score,
		entry.Method,
		entry.Confidence,
		entry.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to insert history entry: %w", err)
	}

	return entry, nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	querySQL := `
	SELECT id, kind, input, output, score, method, confidence, created_at
	FROM query_history
	ORDER BY created_at DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, querySQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Kind, &e.Input, &e.Output,
			&e.Score, &e.Method, &e.Confidence, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Clear deletes all history entries and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM query_history")
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared entries: %w", err)
	}

	return affected, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}
