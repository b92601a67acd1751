// internal/data/memory.go
package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBooks is a BookService that keeps the catalog in process memory.
// Listings follow insertion order. Every returned *Book is a copy, so callers
// can never mutate stored records behind the lock.
type MemoryBooks struct {
	mu                  sync.RWMutex
	books               map[string]*Book
	order               []string
	now                 func() time.Time
	RecommendationLimit int
}

// NewMemoryBooks returns an empty in-memory catalog.
func NewMemoryBooks(recommendationLimit int) *MemoryBooks {
	return &MemoryBooks{
		books:               make(map[string]*Book),
		now:                 time.Now,
		RecommendationLimit: recommendationLimit,
	}
}

// snapshot copies every stored book in insertion order. Caller holds mu.
func (m *MemoryBooks) snapshot() []*Book {
	books := make([]*Book, 0, len(m.order))
	for _, id := range m.order {
		b := *m.books[id]
		books = append(books, &b)
	}
	return books
}

// GetAll returns every book in the catalog.
func (m *MemoryBooks) GetAll(ctx context.Context) ([]*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(), nil
}

// Insert adds a new available book with a freshly generated id.
func (m *MemoryBooks) Insert(ctx context.Context, nb NewBook) (*Book, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate book id: %w", err)
	}

	now := m.now().UTC()
	book := &Book{
		ID:        id.String(),
		Title:     nb.Title,
		Author:    nb.Author,
		Genre:     nb.Genre,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = book
	m.order = append(m.order, book.ID)

	created := *book
	return &created, nil
}

// Update applies patch to the book with the given id.
func (m *MemoryBooks) Update(ctx context.Context, id string, patch BookPatch) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	patch.apply(book)
	book.UpdatedAt = m.now().UTC()

	updated := *book
	return &updated, nil
}

// Delete removes the book with the given id.
func (m *MemoryBooks) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.books, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Borrow lends the book to borrowerID.
// Returns ErrAlreadyBorrowed if the book is out on loan.
func (m *MemoryBooks) Borrow(ctx context.Context, id, borrowerID string) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	if book.Borrowed {
		return nil, ErrAlreadyBorrowed
	}
	book.Borrowed = true
	book.BorrowerID = borrowerID
	book.BorrowCount++
	book.UpdatedAt = m.now().UTC()

	borrowed := *book
	return &borrowed, nil
}

// Return puts a borrowed book back on the shelf.
// Returns ErrNotBorrowed if the book is already available.
func (m *MemoryBooks) Return(ctx context.Context, id string) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	if !book.Borrowed {
		return nil, ErrNotBorrowed
	}
	book.Borrowed = false
	book.BorrowerID = ""
	book.UpdatedAt = m.now().UTC()

	returned := *book
	return &returned, nil
}

// Recommendations lists the most borrowed books that are on the shelf right now.
func (m *MemoryBooks) Recommendations(ctx context.Context) ([]*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return rankRecommendations(m.snapshot(), m.RecommendationLimit), nil
}

// GetAvailable returns every book that is not out on loan.
func (m *MemoryBooks) GetAvailable(ctx context.Context) ([]*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	books := []*Book{}
	for _, b := range m.snapshot() {
		if !b.Borrowed {
			books = append(books, b)
		}
	}
	return books, nil
}
