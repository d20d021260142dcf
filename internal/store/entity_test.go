package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
)

type TestEntity struct {
	ID    string `json:"id"`
	Group string `json:"group"`
	Email string `json:"email"`
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "store-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})
	return s
}

func newTestEntity(s *store.Store) *store.Entity[TestEntity] {
	return store.NewEntity(s, "test:", func(e *TestEntity) string { return e.ID }).
		WithIndexTransform("email",
			func(e *TestEntity) []string { return []string{strings.ToLower(e.Email)} },
			strings.ToLower,
		).
		WithLookup("group", func(e *TestEntity) []string { return []string{e.Group} })
}

func TestEntity_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEntity(s)
	ctx := context.Background()

	require.NoError(t, e.Create(ctx, &TestEntity{ID: "1", Group: "a", Email: "one@example.com"}))

	got, err := e.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "one@example.com", got.Email)

	_, err = e.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_CreateDuplicateID(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEntity(s)
	ctx := context.Background()

	require.NoError(t, e.Create(ctx, &TestEntity{ID: "1", Email: "a@example.com"}))
	err := e.Create(ctx, &TestEntity{ID: "1", Email: "b@example.com"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_UniqueIndex(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEntity(s)
	ctx := context.Background()

	require.NoError(t, e.Create(ctx, &TestEntity{ID: "1", Email: "Same@Example.com"}))
	err := e.Create(ctx, &TestEntity{ID: "2", Email: "same@example.com"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := e.GetByIndex(ctx, "email", "SAME@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
}

func TestEntity_UpdateMovesIndexes(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEntity(s)
	ctx := context.Background()

	require.NoError(t, e.Create(ctx, &TestEntity{ID: "1", Group: "a", Email: "old@example.com"}))
	require.NoError(t, e.Create(ctx, &TestEntity{ID: "2", Group: "a", Email: "taken@example.com"}))

	require.NoError(t, e.Update(ctx, &TestEntity{ID: "1", Group: "b", Email: "new@example.com"}))

	_, err := e.GetByIndex(ctx, "email", "old@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = e.GetByIndex(ctx, "email", "new@example.com")
	assert.NoError(t, err)

	err = e.Update(ctx, &TestEntity{ID: "1", Group: "b", Email: "taken@example.com"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	err = e.Update(ctx, &TestEntity{ID: "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	result, err := e.Find(ctx, store.Query[TestEntity]{Lookup: "group", LookupValue: "a"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "2", result.Items[0].ID)
}

func TestEntity_DeleteIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEntity(s)
	ctx := context.Background()

	require.NoError(t, e.Create(ctx, &TestEntity{ID: "1", Group: "a", Email: "x@example.com"}))
	require.NoError(t, e.Delete(ctx, "1"))
	require.NoError(t, e.Delete(ctx, "1"))

	_, err := e.GetByIndex(ctx, "email", "x@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The freed unique key can be claimed again.
	assert.NoError(t, e.Create(ctx, &TestEntity{ID: "2", Email: "x@example.com"}))
}

func TestEntity_ListSkipsIndexKeys(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEntity(s)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, e.Create(ctx, &TestEntity{ID: id, Group: "g", Email: id + "@example.com"}))
	}

	count := 0
	for item, err := range e.List(ctx) {
		require.NoError(t, err)
		assert.NotEmpty(t, item.ID)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestEntity_FindPaginates(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEntity(s)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, e.Create(ctx, &TestEntity{ID: id, Email: id + "@example.com"}))
	}

	result, err := e.Find(ctx, store.Query[TestEntity]{
		Compare: func(a, b *TestEntity) int { return strings.Compare(a.ID, b.ID) },
		Page:    store.PageParams{Page: 2, Size: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "c", result.Items[0].ID)
	assert.True(t, result.HasMore())

	result, err = e.Find(ctx, store.Query[TestEntity]{Page: store.PageParams{Page: 9, Size: 2}})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestEntity_CancelledContext(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEntity(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Create(ctx, &TestEntity{ID: "1"})
	assert.True(t, errors.Is(err, context.Canceled))
}
