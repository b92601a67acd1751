// Package data provides the book catalog models and the storage backends
// that implement the BookService contract used by the HTTP handlers.
package data

import "time"

// Book represents a single catalog record.
// A book is either available (Borrowed false, no BorrowerID) or lent to
// exactly one borrower.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Borrowed    bool      `json:"borrowed"`
	BorrowerID  string    `json:"borrowerId,omitempty"` // Only set while Borrowed is true
	BorrowCount int       `json:"borrowCount"`          // Successful borrows over the book's lifetime
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateBookInput holds the fields a client sends when adding a book.
// The wire schema leaves every field optional; presence is enforced after
// trimming, when the input is converted to a NewBook.
type CreateBookInput struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Genre  *string `json:"genre"`
}

// NewBook holds the trimmed, validated fields for a book about to be inserted.
// Field order matters: validation reports the first failing field only.
// Lengths are counted in characters, not bytes.
type NewBook struct {
	Title  string `validate:"required,max=500"`
	Author string `validate:"required,max=200"`
	Genre  string `validate:"required,max=100"`
}

// BookPatch holds the fields a client may supply when partially updating a book.
// Every field is a pointer so we can distinguish between "not provided" (nil)
// and "intentionally set". Borrow state is never changed through a patch.
type BookPatch struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Genre  *string `json:"genre"`
}

// apply copies the non-nil patch fields onto book.
func (p BookPatch) apply(book *Book) {
	if p.Title != nil {
		book.Title = *p.Title
	}
	if p.Author != nil {
		book.Author = *p.Author
	}
	if p.Genre != nil {
		book.Genre = *p.Genre
	}
}

// BorrowInput is the request body for the borrow operation.
type BorrowInput struct {
	BorrowerID string `json:"borrowerId"`
}
