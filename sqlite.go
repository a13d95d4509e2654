package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS todos (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		is_complete BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_todos_user_created ON todos (user_id, created_at);
`

// SQLiteStore is the default backend when no database URL is configured.
// It uses the pure-Go driver, so the binary stays cgo-free.
type SQLiteStore struct {
	BaseStore
	path string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		BaseStore: BaseStore{
			name:    "sqlite",
			enabled: path != "",
		},
		path: path,
	}
}

func (s *SQLiteStore) Connect() error {
	if !s.IsEnabled() {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// The driver serializes access itself; one connection avoids
	// SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return fmt.Errorf("failed to create todos schema: %w", err)
	}

	s.db = db
	log.Info().Str("path", s.path).Msg("SQLite store connected")
	return nil
}

func (s *SQLiteStore) CountByOwnerAndStatus(ctx context.Context, userID string, isComplete bool) (int, error) {
	query := `SELECT COUNT(*) FROM todos WHERE user_id = ? AND is_complete = ?`
	return s.countByOwnerAndStatus(ctx, query, userID, isComplete)
}

func (s *SQLiteStore) FindAllByOwner(ctx context.Context, userID string) ([]Todo, error) {
	query := `
		SELECT id, user_id, title, description, is_complete, created_at, updated_at
		FROM todos
		WHERE user_id = ?
		ORDER BY created_at
	`
	return s.findAllByOwner(ctx, query, userID)
}

func (s *SQLiteStore) FindByIDAndOwner(ctx context.Context, id uuid.UUID, userID string) (*Todo, error) {
	query := `
		SELECT id, user_id, title, description, is_complete, created_at, updated_at
		FROM todos
		WHERE id = ? AND user_id = ?
	`
	return s.findByIDAndOwner(ctx, query, id, userID)
}

func (s *SQLiteStore) Create(ctx context.Context, todo *Todo) error {
	query := `
		INSERT INTO todos (id, user_id, title, description, is_complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		todo.ID.String(), todo.UserID, todo.Title, nullableDescription(todo.Description),
		todo.IsComplete, todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, todo *Todo) error {
	query := `
		UPDATE todos
		SET title = ?, description = ?, is_complete = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		todo.Title, nullableDescription(todo.Description), todo.IsComplete, todo.UpdatedAt,
		todo.ID.String(), todo.UserID)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := `DELETE FROM todos WHERE id = ? AND user_id = ?`
	return s.delete(ctx, query, id, userID)
}
