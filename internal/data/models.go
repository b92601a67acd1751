// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"sort"
)

// Errors returned by every BookService implementation. Callers match them
// with errors.Is; implementations may wrap them with extra context.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrAlreadyBorrowed = errors.New("book already borrowed")
	ErrNotBorrowed     = errors.New("book not currently borrowed")
)

// DefaultRecommendationLimit caps the recommendation listing when the caller
// does not configure a limit.
const DefaultRecommendationLimit = 5

// BookService is the set of catalog operations the HTTP handlers depend on.
type BookService interface {
	GetAll(ctx context.Context) ([]*Book, error)
	Insert(ctx context.Context, book NewBook) (*Book, error)
	Update(ctx context.Context, id string, patch BookPatch) (*Book, error)
	Delete(ctx context.Context, id string) error
	Borrow(ctx context.Context, id, borrowerID string) (*Book, error)
	Return(ctx context.Context, id string) (*Book, error)
	Recommendations(ctx context.Context) ([]*Book, error)
	GetAvailable(ctx context.Context) ([]*Book, error)
}

// Models is a top-level container that groups the model types together.
// It is passed around the application via applicationDependencies so every
// handler reaches storage through the same interface.
type Models struct {
	Books BookService
}

// NewModels constructs a Models value backed by PostgreSQL.
func NewModels(db *sql.DB, recommendationLimit int) Models {
	return Models{
		Books: &BookModel{DB: db, RecommendationLimit: recommendationLimit},
	}
}

// NewMemoryModels constructs a Models value backed by the in-memory store.
func NewMemoryModels(recommendationLimit int) Models {
	return Models{
		Books: NewMemoryBooks(recommendationLimit),
	}
}

// rankRecommendations orders available books by how often they have been
// borrowed (most first, ties by title) and keeps at most limit of them.
func rankRecommendations(books []*Book, limit int) []*Book {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	ranked := make([]*Book, 0, len(books))
	for _, b := range books {
		if !b.Borrowed {
			ranked = append(ranked, b)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].BorrowCount != ranked[j].BorrowCount {
			return ranked[i].BorrowCount > ranked[j].BorrowCount
		}
		return ranked[i].Title < ranked[j].Title
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
