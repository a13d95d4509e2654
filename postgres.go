package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS todos (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		title VARCHAR(500) NOT NULL,
		description VARCHAR(2000),
		is_complete BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_todos_user_created ON todos (user_id, created_at);
`

type PostgresStore struct {
	BaseStore
	connectionString string
}

func NewPostgresStore(connectionString string) *PostgresStore {
	return &PostgresStore{
		BaseStore: BaseStore{
			name:    "postgres",
			enabled: connectionString != "",
		},
		connectionString: connectionString,
	}
}

func (p *PostgresStore) Connect() error {
	if !p.IsEnabled() {
		return nil
	}

	db, err := sql.Open("postgres", p.connectionString)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return fmt.Errorf("failed to create todos schema: %w", err)
	}

	p.db = db
	log.Info().Msg("PostgreSQL store connected")
	return nil
}

func (p *PostgresStore) CountByOwnerAndStatus(ctx context.Context, userID string, isComplete bool) (int, error) {
	query := `SELECT COUNT(*) FROM todos WHERE user_id = $1 AND is_complete = $2`
	return p.countByOwnerAndStatus(ctx, query, userID, isComplete)
}

func (p *PostgresStore) FindAllByOwner(ctx context.Context, userID string) ([]Todo, error) {
	query := `
		SELECT id, user_id, title, description, is_complete, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at
	`
	return p.findAllByOwner(ctx, query, userID)
}

func (p *PostgresStore) FindByIDAndOwner(ctx context.Context, id uuid.UUID, userID string) (*Todo, error) {
	query := `
		SELECT id, user_id, title, description, is_complete, created_at, updated_at
		FROM todos
		WHERE id = $1 AND user_id = $2
	`
	return p.findByIDAndOwner(ctx, query, id, userID)
}

func (p *PostgresStore) Create(ctx context.Context, todo *Todo) error {
	query := `
		INSERT INTO todos (id, user_id, title, description, is_complete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := p.db.ExecContext(ctx, query,
		todo.ID.String(), todo.UserID, todo.Title, nullableDescription(todo.Description),
		todo.IsComplete, todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

func (p *PostgresStore) Update(ctx context.Context, todo *Todo) error {
	query := `
		UPDATE todos
		SET title = $3, description = $4, is_complete = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2
	`
	result, err := p.db.ExecContext(ctx, query,
		todo.ID.String(), todo.UserID, todo.Title, nullableDescription(todo.Description),
		todo.IsComplete, todo.UpdatedAt)
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

func (p *PostgresStore) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`
	return p.delete(ctx, query, id, userID)
}
