// Package store provides the SQLite-backed audit journal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fentz26/toyrobot/internal/models"
)

// MemoryPath opens a private in-memory journal.
const MemoryPath = ":memory:"

// DefaultListLimit caps ListCommands when no limit is given.
const DefaultListLimit = 100

// Store provides access to the journal database.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the journal at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	dsn := MemoryPath
	if dbPath != MemoryPath {
		// Ensure directory exists
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time, and an in-memory database
	// lives only as long as its single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL DEFAULT 0,
		command TEXT NOT NULL,
		name TEXT,
		outcome TEXT NOT NULL,
		result TEXT,
		inputs_hash TEXT NOT NULL,
		details TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_commands_session_id ON commands(session_id);
	CREATE INDEX IF NOT EXISTS idx_commands_outcome ON commands(outcome);
	`

	_, err := s.db.Exec(schema)
	return err
}

// WriteCommand journals one dispatch attempt. ID and CreatedAt are filled in
// when empty.
func (s *Store) WriteCommand(rec *models.AuditRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO commands (id, session_id, seq, command, name, outcome, result, inputs_hash, details, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Seq, rec.Command, nullString(rec.Name), string(rec.Outcome),
		nullString(rec.Result), rec.InputsHash, nullString(rec.Details), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert command: %w", err)
	}
	return nil
}

// ListFilter narrows ListCommands. Zero values match everything.
type ListFilter struct {
	SessionID string
	Outcome   models.Outcome
	Limit     int
}

// ListCommands returns journal records in insertion order.
func (s *Store) ListCommands(f ListFilter) ([]models.AuditRecord, error) {
	query := `SELECT id, session_id, seq, command, name, outcome, result, inputs_hash, details, created_at FROM commands WHERE 1=1`
	var args []interface{}

	if f.SessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, f.SessionID)
	}
	if f.Outcome != "" {
		query += ` AND outcome = ?`
		args = append(args, string(f.Outcome))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query += ` ORDER BY rowid ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	var records []models.AuditRecord
	for rows.Next() {
		var rec models.AuditRecord
		var outcome string
		var name, result, details sql.NullString
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Seq, &rec.Command, &name, &outcome, &result, &rec.InputsHash, &details, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		rec.Outcome = models.Outcome(outcome)
		rec.Name = name.String
		rec.Result = result.String
		rec.Details = details.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByOutcome tallies journal records of one session per outcome.
func (s *Store) CountByOutcome(sessionID string) (map[models.Outcome]int, error) {
	rows, err := s.db.Query(
		`SELECT outcome, COUNT(*) FROM commands WHERE session_id = ? GROUP BY outcome`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("count commands: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Outcome]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[models.Outcome(outcome)] = n
	}
	return counts, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
