package main

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps todos in memory. It backs the tests and the `memory`
// backend; data is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	todos []Todo
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Name() string    { return "memory" }
func (m *MemoryStore) Connect() error  { return nil }
func (m *MemoryStore) Close() error    { return nil }
func (m *MemoryStore) IsEnabled() bool { return true }

func (m *MemoryStore) CountByOwnerAndStatus(_ context.Context, userID string, isComplete bool) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, todo := range m.todos {
		if todo.UserID == userID && todo.IsComplete == isComplete {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) FindAllByOwner(_ context.Context, userID string) ([]Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var todos []Todo
	for _, todo := range m.todos {
		if todo.UserID == userID {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

func (m *MemoryStore) FindByIDAndOwner(_ context.Context, id uuid.UUID, userID string) (*Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, todo := range m.todos {
		if todo.ID == id && todo.UserID == userID {
			found := todo
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Create(_ context.Context, todo *Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.todos = append(m.todos, *todo)
	return nil
}

func (m *MemoryStore) Update(_ context.Context, todo *Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.todos {
		if existing.ID == todo.ID && existing.UserID == todo.UserID {
			m.todos[i] = *todo
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.todos {
		if existing.ID == id && existing.UserID == userID {
			m.todos = append(m.todos[:i], m.todos[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// seed inserts a todo directly, for tests.
func (m *MemoryStore) seed(userID, title, description string, isComplete bool) Todo {
	todo := Todo{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		IsComplete:  isComplete,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	m.mu.Lock()
	m.todos = append(m.todos, todo)
	m.mu.Unlock()
	return todo
}
