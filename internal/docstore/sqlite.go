package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    name       TEXT PRIMARY KEY,
    content    TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SQLiteStore keeps documents in a single SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens the database at dsn, a file path or ":memory:", and
// creates the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("docstore: open %s: %w", dsn, err)
	}
	// An in-memory database lives as long as its connection.
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.CreateSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// CreateSchema creates the documents table if it doesn't exist.
func (s *SQLiteStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("docstore: create schema: %w", err)
	}
	return nil
}

// Save creates or replaces the document name.
func (s *SQLiteStore) Save(ctx context.Context, name string, content []byte) error {
	if name == "" {
		return fmt.Errorf("docstore: document name must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (name, content, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, string(content), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("docstore: save %q: %w", name, err)
	}
	return nil
}

// Load returns the content of the document name.
func (s *SQLiteStore) Load(ctx context.Context, name string) ([]byte, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `SELECT content FROM documents WHERE name = ?`, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: load %q: %w", name, err)
	}
	return []byte(content), nil
}

// List returns every stored document, ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, length(content), updated_at FROM documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("docstore: list: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var info Info
		var updated int64
		if err := rows.Scan(&info.Name, &info.Size, &updated); err != nil {
			return nil, fmt.Errorf("docstore: scan: %w", err)
		}
		info.UpdatedAt = time.UnixMilli(updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes the document name.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("docstore: delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("docstore: delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
