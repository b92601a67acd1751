// internal/data/postgres.go
package data

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:embed migrations/001_create_books.sql
var booksSchema string

// queryTimeout bounds every statement the BookModel sends to PostgreSQL.
const queryTimeout = 3 * time.Second

// BookModel wraps a *sql.DB connection pool and implements BookService
// on top of the "books" table.
type BookModel struct {
	DB                  *sql.DB
	RecommendationLimit int
}

const bookColumns = `book_id, title, author, genre, borrowed, borrower_id, borrow_count, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*Book, error) {
	var (
		book     Book
		borrower sql.NullString
	)
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Borrowed,
		&borrower,
		&book.BorrowCount,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	book.BorrowerID = borrower.String
	return &book, nil
}

// validID reports whether id can be a primary key at all. Only the canonical
// hyphenated form is accepted: uuid.Parse also takes urn:uuid: ids, which
// PostgreSQL refuses to cast. Anything else cannot match a row, so it is
// reported as not found.
func validID(id string) bool {
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return strings.EqualFold(id, u.String())
}

// Migrate creates the books table and its indexes if they do not exist.
func (m BookModel) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := m.DB.ExecContext(ctx, booksSchema); err != nil {
		return fmt.Errorf("apply books schema: %w", err)
	}
	return nil
}

func (m BookModel) list(ctx context.Context, query string, args ...any) ([]*Book, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	// Always close the result set when we are done to free the connection.
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// GetAll retrieves every book ordered by creation time.
func (m BookModel) GetAll(ctx context.Context) ([]*Book, error) {
	books, err := m.list(ctx, `SELECT `+bookColumns+` FROM books ORDER BY created_at, book_id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Insert adds a new book record. The generated id and the database-assigned
// timestamps are returned in the created Book.
func (m BookModel) Insert(ctx context.Context, nb NewBook) (*Book, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate book id: %w", err)
	}

	query := `
		INSERT INTO books (book_id, title, author, genre)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + bookColumns

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	book, err := scanBook(m.DB.QueryRowContext(ctx, query, id, nb.Title, nb.Author, nb.Genre))
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return book, nil
}

// Update applies the non-nil patch fields to the book with the given id.
// A nil pointer is sent as NULL, and COALESCE keeps the stored value.
func (m BookModel) Update(ctx context.Context, id string, patch BookPatch) (*Book, error) {
	if !validID(id) {
		return nil, ErrRecordNotFound
	}

	query := `
		UPDATE books
		SET title = COALESCE($2, title),
		    author = COALESCE($3, author),
		    genre = COALESCE($4, genre),
		    updated_at = NOW()
		WHERE book_id = $1
		RETURNING ` + bookColumns

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	book, err := scanBook(m.DB.QueryRowContext(ctx, query, id, patch.Title, patch.Author, patch.Genre))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, fmt.Errorf("update book %s: %w", id, err)
		}
	}
	return book, nil
}

// Delete removes the book with the given id.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, `DELETE FROM books WHERE book_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// exists reports whether a book with the given id is stored.
func (m BookModel) exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var found bool
	err := m.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE book_id = $1)`, id).Scan(&found)
	return found, err
}

// transition runs a conditional UPDATE guarded on the current borrow state.
// When no row changes, an existence probe tells a missing book apart from one
// in the wrong state, which is reported as stateErr.
func (m BookModel) transition(ctx context.Context, id, query string, stateErr error, args ...any) (*Book, error) {
	if !validID(id) {
		return nil, ErrRecordNotFound
	}

	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	book, err := scanBook(m.DB.QueryRowContext(qctx, query, append([]any{id}, args...)...))
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	found, err := m.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return nil, stateErr
}

// Borrow lends the book to borrowerID.
// Returns ErrAlreadyBorrowed if the book is out on loan.
func (m BookModel) Borrow(ctx context.Context, id, borrowerID string) (*Book, error) {
	query := `
		UPDATE books
		SET borrowed = true, borrower_id = $2, borrow_count = borrow_count + 1, updated_at = NOW()
		WHERE book_id = $1 AND borrowed = false
		RETURNING ` + bookColumns

	book, err := m.transition(ctx, id, query, ErrAlreadyBorrowed, borrowerID)
	if err != nil && !errors.Is(err, ErrRecordNotFound) && !errors.Is(err, ErrAlreadyBorrowed) {
		return nil, fmt.Errorf("borrow book %s: %w", id, err)
	}
	return book, err
}

// Return puts a borrowed book back on the shelf.
// Returns ErrNotBorrowed if the book is already available.
func (m BookModel) Return(ctx context.Context, id string) (*Book, error) {
	query := `
		UPDATE books
		SET borrowed = false, borrower_id = NULL, updated_at = NOW()
		WHERE book_id = $1 AND borrowed = true
		RETURNING ` + bookColumns

	book, err := m.transition(ctx, id, query, ErrNotBorrowed)
	if err != nil && !errors.Is(err, ErrRecordNotFound) && !errors.Is(err, ErrNotBorrowed) {
		return nil, fmt.Errorf("return book %s: %w", id, err)
	}
	return book, err
}

// Recommendations lists the most borrowed books that are on the shelf right now.
func (m BookModel) Recommendations(ctx context.Context) ([]*Book, error) {
	limit := m.RecommendationLimit
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	books, err := m.list(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE borrowed = false
		ORDER BY borrow_count DESC, title ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return books, nil
}

// GetAvailable returns every book that is not out on loan.
func (m BookModel) GetAvailable(ctx context.Context) ([]*Book, error) {
	books, err := m.list(ctx, `SELECT `+bookColumns+` FROM books WHERE borrowed = false ORDER BY created_at, book_id`)
	if err != nil {
		return nil, fmt.Errorf("list available books: %w", err)
	}
	return books, nil
}
