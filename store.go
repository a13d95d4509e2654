package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a todo does not exist or is not owned by the
// requesting user. The two cases are indistinguishable on purpose.
var ErrNotFound = errors.New("todo not found")

// Todo is a single user-owned todo record.
type Todo struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsComplete  bool      `json:"is_complete"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoStore is the persistence interface the tool dispatcher calls. Every
// operation is scoped by the owner's user id; lookups for rows owned by a
// different user behave exactly like lookups for missing rows.
type TodoStore interface {
	Name() string
	Connect() error
	Close() error
	IsEnabled() bool

	CountByOwnerAndStatus(ctx context.Context, userID string, isComplete bool) (int, error)
	FindAllByOwner(ctx context.Context, userID string) ([]Todo, error)
	FindByIDAndOwner(ctx context.Context, id uuid.UUID, userID string) (*Todo, error)
	Create(ctx context.Context, todo *Todo) error
	Update(ctx context.Context, todo *Todo) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// openStore selects and connects the configured backend. Precedence when
// several are configured: postgres, mysql, sqlite. The memory backend is
// only used when requested explicitly via TODO_BACKEND.
func openStore(cfg *Config) (TodoStore, error) {
	candidates := []TodoStore{
		NewPostgresStore(cfg.PostgresURL),
		NewMySQLStore(cfg.MySQLURL),
		NewSQLiteStore(cfg.SQLitePath),
	}

	for _, store := range candidates {
		if cfg.Backend != "" && cfg.Backend != store.Name() {
			continue
		}
		if !store.IsEnabled() {
			continue
		}
		if err := store.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect %s store: %w", store.Name(), err)
		}
		log.Info().Str("store", store.Name()).Msg("Todo store connected")
		return store, nil
	}

	if cfg.Backend == "memory" {
		log.Warn().Msg("Using in-memory todo store, data will not survive restarts")
		return NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("no todo store configured for backend %q", cfg.Backend)
}

// BaseStore holds the shared database/sql state for the SQL-backed stores.
type BaseStore struct {
	db      *sql.DB
	enabled bool
	name    string
}

func (b *BaseStore) Name() string {
	return b.name
}

func (b *BaseStore) IsEnabled() bool {
	return b.enabled
}

func (b *BaseStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func (b *BaseStore) countByOwnerAndStatus(ctx context.Context, query, userID string, isComplete bool) (int, error) {
	var count int
	if err := b.db.QueryRowContext(ctx, query, userID, isComplete).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}

func (b *BaseStore) findAllByOwner(ctx context.Context, query, userID string) ([]Todo, error) {
	rows, err := b.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

func (b *BaseStore) findByIDAndOwner(ctx context.Context, query string, id uuid.UUID, userID string) (*Todo, error) {
	rows, err := b.db.QueryContext(ctx, query, id.String(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to find todo: %w", err)
		}
		return nil, ErrNotFound
	}
	return scanTodo(rows)
}

func (b *BaseStore) delete(ctx context.Context, query string, id uuid.UUID, userID string) error {
	result, err := b.db.ExecContext(ctx, query, id.String(), userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanTodo reads one todo row in the column order shared by all SQL stores:
// id, user_id, title, description, is_complete, created_at, updated_at.
func scanTodo(rows *sql.Rows) (*Todo, error) {
	var (
		todo        Todo
		rawID       string
		description sql.NullString
	)
	if err := rows.Scan(&rawID, &todo.UserID, &todo.Title, &description, &todo.IsComplete, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan todo: %w", err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid todo id %q: %w", rawID, err)
	}
	todo.ID = id
	todo.Description = description.String
	return &todo, nil
}

// nullableDescription maps an empty description to SQL NULL.
func nullableDescription(description string) sql.NullString {
	return sql.NullString{String: description, Valid: description != ""}
}
