package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const mysqlSchema = `
	CREATE TABLE IF NOT EXISTS todos (
		id CHAR(36) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		title VARCHAR(500) NOT NULL,
		description VARCHAR(2000),
		is_complete BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP(6) NOT NULL,
		updated_at TIMESTAMP(6) NOT NULL,
		INDEX idx_todos_user_created (user_id, created_at)
	)
`

type MySQLStore struct {
	BaseStore
	url string
}

func NewMySQLStore(url string) *MySQLStore {
	return &MySQLStore{
		BaseStore: BaseStore{
			name:    "mysql",
			enabled: url != "",
		},
		url: url,
	}
}

func (m *MySQLStore) Connect() error {
	if !m.IsEnabled() {
		return nil
	}

	// Timestamp columns must come back as time.Time
	url := m.url
	if !strings.Contains(url, "parseTime") {
		if strings.Contains(url, "?") {
			url += "&parseTime=true"
		} else {
			url += "?parseTime=true"
		}
	}

	db, err := sql.Open("mysql", url)
	if err != nil {
		return fmt.Errorf("failed to open mysql connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	if _, err := db.Exec(mysqlSchema); err != nil {
		db.Close()
		return fmt.Errorf("failed to create todos schema: %w", err)
	}

	m.db = db
	log.Info().Msg("MySQL store connected")
	return nil
}

func (m *MySQLStore) CountByOwnerAndStatus(ctx context.Context, userID string, isComplete bool) (int, error) {
	query := `SELECT COUNT(*) FROM todos WHERE user_id = ? AND is_complete = ?`
	return m.countByOwnerAndStatus(ctx, query, userID, isComplete)
}

func (m *MySQLStore) FindAllByOwner(ctx context.Context, userID string) ([]Todo, error) {
	query := `
		SELECT id, user_id, title, description, is_complete, created_at, updated_at
		FROM todos
		WHERE user_id = ?
		ORDER BY created_at
	`
	return m.findAllByOwner(ctx, query, userID)
}

func (m *MySQLStore) FindByIDAndOwner(ctx context.Context, id uuid.UUID, userID string) (*Todo, error) {
	query := `
		SELECT id, user_id, title, description, is_complete, created_at, updated_at
		FROM todos
		WHERE id = ? AND user_id = ?
	`
	return m.findByIDAndOwner(ctx, query, id, userID)
}

func (m *MySQLStore) Create(ctx context.Context, todo *Todo) error {
	query := `
		INSERT INTO todos (id, user_id, title, description, is_complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := m.db.ExecContext(ctx, query,
		todo.ID.String(), todo.UserID, todo.Title, nullableDescription(todo.Description),
		todo.IsComplete, todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

func (m *MySQLStore) Update(ctx context.Context, todo *Todo) error {
	query := `
		UPDATE todos
		SET title = ?, description = ?, is_complete = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	result, err := m.db.ExecContext(ctx, query,
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

func (m *MySQLStore) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := `DELETE FROM todos WHERE id = ? AND user_id = ?`
	return m.delete(ctx, query, id, userID)
}
