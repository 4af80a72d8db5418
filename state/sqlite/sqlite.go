// Package sqlite provides a SQLite backed StateStore for durable
// per-conversation property persistence.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements core.StateStore using a SQLite database. Property bags are
// stored one row per (conversation, property); Save upserts all staged
// properties inside a single transaction so a turn's commit is atomic for its
// conversation.
type Store struct{ db *sql.DB }

// New opens (or creates) the database at dsn and runs migrations. Use
// ":memory:" for an ephemeral store in tests.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS conversation_properties (
  conversation_id TEXT NOT NULL,
  property TEXT NOT NULL,
  data BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  PRIMARY KEY (conversation_id, property)
);
`)
	if err != nil {
		return fmt.Errorf("migrate sqlite store: %w", err)
	}
	return nil
}

// Load returns the stored property bag for a conversation, empty on first use.
func (s *Store) Load(ctx context.Context, conversationID string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT property, data FROM conversation_properties WHERE conversation_id = ?`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", conversationID, err)
	}
	defer func() { _ = rows.Close() }()

	props := map[string][]byte{}
	for rows.Next() {
		var property string
		var data []byte
		if err := rows.Scan(&property, &data); err != nil {
			return nil, fmt.Errorf("scan conversation %s: %w", conversationID, err)
		}
		props[property] = data
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", conversationID, err)
	}
	return props, nil
}

// Save upserts the given properties for the conversation in one transaction.
func (s *Store) Save(ctx context.Context, conversationID string, props map[string][]byte) error {
	if len(props) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save conversation %s: %w", conversationID, err)
	}
	now := time.Now().UTC()
	for property, data := range props {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO conversation_properties (conversation_id, property, data, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (conversation_id, property) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
`, conversationID, property, data, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save conversation %s property %s: %w", conversationID, property, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save conversation %s: %w", conversationID, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
