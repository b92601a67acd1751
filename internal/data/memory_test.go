package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryBooks(t *testing.T, titles ...string) (*MemoryBooks, []*Book) {
	t.Helper()
	m := NewMemoryBooks(0)
	var books []*Book
	for _, title := range titles {
		b, err := m.Insert(context.Background(), NewBook{Title: title, Author: "Author", Genre: "Genre"})
		require.NoError(t, err)
		books = append(books, b)
	}
	return m, books
}

func TestMemoryBooks_InsertAndGetAll(t *testing.T) {
	ctx := context.Background()
	m, created := newTestMemoryBooks(t, "Dune", "Emma", "Ulysses")

	all, err := m.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	for i, b := range all {
		assert.Equal(t, created[i].ID, b.ID, "listing keeps insertion order")
		assert.False(t, b.Borrowed)
		assert.Empty(t, b.BorrowerID)
		assert.False(t, b.CreatedAt.IsZero())
	}
	assert.NotEqual(t, all[0].ID, all[1].ID)
}

func TestMemoryBooks_GetAllEmptyIsNotNil(t *testing.T) {
	m := NewMemoryBooks(0)
	all, err := m.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestMemoryBooks_ReturnedBooksAreCopies(t *testing.T) {
	ctx := context.Background()
	m, created := newTestMemoryBooks(t, "Dune")

	created[0].Title = "Mutated"

	all, err := m.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dune", all[0].Title)
}

func TestMemoryBooks_Update(t *testing.T) {
	ctx := context.Background()
	m, created := newTestMemoryBooks(t, "Dune")
	id := created[0].ID

	genre := "SciFi"
	updated, err := m.Update(ctx, id, BookPatch{Genre: &genre})
	require.NoError(t, err)
	assert.Equal(t, "Dune", updated.Title, "absent fields are left unchanged")
	assert.Equal(t, "Author", updated.Author)
	assert.Equal(t, "SciFi", updated.Genre)

	_, err = m.Update(ctx, "missing", BookPatch{Genre: &genre})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryBooks_Delete(t *testing.T) {
	ctx := context.Background()
	m, created := newTestMemoryBooks(t, "Dune", "Emma", "Ulysses")

	require.NoError(t, m.Delete(ctx, created[1].ID))
	assert.ErrorIs(t, m.Delete(ctx, created[1].ID), ErrRecordNotFound)

	all, err := m.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Dune", all[0].Title)
	assert.Equal(t, "Ulysses", all[1].Title)
}

func TestMemoryBooks_BorrowAndReturn(t *testing.T) {
	ctx := context.Background()
	m, created := newTestMemoryBooks(t, "Dune")
	id := created[0].ID

	_, err := m.Return(ctx, id)
	assert.ErrorIs(t, err, ErrNotBorrowed)

	borrowed, err := m.Borrow(ctx, id, "u1")
	require.NoError(t, err)
	assert.True(t, borrowed.Borrowed)
	assert.Equal(t, "u1", borrowed.BorrowerID)
	assert.Equal(t, 1, borrowed.BorrowCount)

	_, err = m.Borrow(ctx, id, "u2")
	assert.ErrorIs(t, err, ErrAlreadyBorrowed)

	all, err := m.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", all[0].BorrowerID, "a failed borrow leaves the loan untouched")

	returned, err := m.Return(ctx, id)
	require.NoError(t, err)
	assert.False(t, returned.Borrowed)
	assert.Empty(t, returned.BorrowerID)
	assert.Equal(t, 1, returned.BorrowCount)

	_, err = m.Borrow(ctx, "missing", "u1")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = m.Return(ctx, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryBooks_UpdateKeepsBorrowState(t *testing.T) {
	ctx := context.Background()
	m, created := newTestMemoryBooks(t, "Dune")
	id := created[0].ID

	_, err := m.Borrow(ctx, id, "u1")
	require.NoError(t, err)

	title := "Dune Messiah"
	updated, err := m.Update(ctx, id, BookPatch{Title: &title})
	require.NoError(t, err)
	assert.True(t, updated.Borrowed)
	assert.Equal(t, "u1", updated.BorrowerID)
}

func TestMemoryBooks_GetAvailable(t *testing.T) {
	ctx := context.Background()
	m, created := newTestMemoryBooks(t, "Dune", "Emma")

	_, err := m.Borrow(ctx, created[0].ID, "u1")
	require.NoError(t, err)

	available, err := m.GetAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Emma", available[0].Title)

	_, err = m.Borrow(ctx, created[1].ID, "u2")
	require.NoError(t, err)

	available, err = m.GetAvailable(ctx)
	require.NoError(t, err)
	assert.NotNil(t, available)
	assert.Empty(t, available)
}

func TestMemoryBooks_Recommendations(t *testing.T) {
	ctx := context.Background()
	m, created := newTestMemoryBooks(t, "Dune", "Emma", "Ulysses")
	m.RecommendationLimit = 2

	// Ulysses borrowed twice, Emma once, Dune is out on loan right now.
	for _, id := range []string{created[2].ID, created[2].ID, created[1].ID} {
		_, err := m.Borrow(ctx, id, "u1")
		require.NoError(t, err)
		_, err = m.Return(ctx, id)
		require.NoError(t, err)
	}
	_, err := m.Borrow(ctx, created[0].ID, "u1")
	require.NoError(t, err)

	recs, err := m.Recommendations(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Ulysses", recs[0].Title)
	assert.Equal(t, "Emma", recs[1].Title)
}
