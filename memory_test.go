package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreOwnerScoping(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	mine := store.seed("u1", "mine", "", false)
	store.seed("u2", "theirs", "", true)

	todos, err := store.FindAllByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "mine", todos[0].Title)

	// Someone else's id behaves exactly like a missing id
	_, err = store.FindByIDAndOwner(ctx, mine.ID, "u2")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Delete(ctx, mine.ID, "u2")
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := store.FindByIDAndOwner(ctx, mine.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, mine.ID, found.ID)
}

func TestMemoryStoreCounts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.seed("u1", "a", "", false)
	store.seed("u1", "b", "", false)
	store.seed("u1", "c", "", true)

	pending, err := store.CountByOwnerAndStatus(ctx, "u1", false)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)

	completed, err := store.CountByOwnerAndStatus(ctx, "u1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
}

func TestMemoryStoreCreateUpdateDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	todo := &Todo{
		ID:        uuid.New(),
		UserID:    "u1",
		Title:     "original",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Create(ctx, todo))

	todo.Title = "renamed"
	todo.IsComplete = true
	require.NoError(t, store.Update(ctx, todo))

	found, err := store.FindByIDAndOwner(ctx, todo.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", found.Title)
	assert.True(t, found.IsComplete)

	require.NoError(t, store.Delete(ctx, todo.ID, "u1"))
	_, err = store.FindByIDAndOwner(ctx, todo.ID, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Updating a deleted todo reports not found
	assert.ErrorIs(t, store.Update(ctx, todo), ErrNotFound)
}

func TestMemoryStoreFindReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seeded := store.seed("u1", "stable", "", false)

	found, err := store.FindByIDAndOwner(ctx, seeded.ID, "u1")
	require.NoError(t, err)
	found.Title = "mutated"

	again, err := store.FindByIDAndOwner(ctx, seeded.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "stable", again.Title)
}
