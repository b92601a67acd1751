// cmd/api/handlers.go
// This file contains all HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and the BookService.
package main

import (
	"net/http"

	"github.com/aoideee/library-catalog/internal/data"
	"github.com/aoideee/library-catalog/internal/validator"
)

// healthcheckHandler handles GET /v1/healthcheck.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"message": "available",
		"data": map[string]string{
			"environment": app.config.environment,
			"storage":     app.config.storage,
			"version":     appVersion,
		},
	}
	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /v1/books.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll(r.Context())
	if err != nil {
		app.operationErrorResponse(w, r, opListBooks, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Books retrieved", "data": books}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createBookHandler handles POST /v1/books.
// Title, author and genre are trimmed and checked in that order; the first
// missing one is the only error reported.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreateBookInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	nb := data.NewBook{
		Title:  trimmed(input.Title),
		Author: trimmed(input.Author),
		Genre:  trimmed(input.Genre),
	}

	v := validator.New()
	if err := v.Struct(nb); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if _, message, failed := v.First(); failed {
		app.failedValidationResponse(w, r, message)
		return
	}

	book, err := app.models.Books.Insert(r.Context(), nb)
	if err != nil {
		app.operationErrorResponse(w, r, opAddBook, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"message": "Book added", "data": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles PUT /v1/books/:id.
// Only the fields present in the body are changed.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readIDParam(r)

	// Clients may send a whole Book back; only title, author and genre apply.
	var patch data.BookPatch
	err := app.readPartialJSON(w, r, &patch)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Update(r.Context(), id, patch)
	if err != nil {
		app.operationErrorResponse(w, r, opUpdate, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Book updated", "data": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /v1/books/:id.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readIDParam(r)

	err := app.models.Books.Delete(r.Context(), id)
	if err != nil {
		app.operationErrorResponse(w, r, opDelete, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Book deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// borrowBookHandler handles POST /v1/books/:id/borrow.
func (app *applicationDependencies) borrowBookHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readIDParam(r)

	var input data.BorrowInput
	err := app.readPartialJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Borrow(r.Context(), id, input.BorrowerID)
	if err != nil {
		app.operationErrorResponse(w, r, opBorrow, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Book borrowed", "data": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// returnBookHandler handles POST /v1/books/:id/return.
// A successful return only confirms; the record is not echoed back.
func (app *applicationDependencies) returnBookHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readIDParam(r)

	_, err := app.models.Books.Return(r.Context(), id)
	if err != nil {
		app.operationErrorResponse(w, r, opReturn, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Book returned"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// recommendationsHandler handles GET /v1/books/recommendations.
func (app *applicationDependencies) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.Recommendations(r.Context())
	if err != nil {
		app.operationErrorResponse(w, r, opRecommendations, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Recommendations retrieved", "data": books}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// availableBooksHandler handles GET /v1/books/available.
// count always equals the length of data, including for an empty shelf.
func (app *applicationDependencies) availableBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAvailable(r.Context())
	if err != nil {
		app.operationErrorResponse(w, r, opAvailable, err)
		return
	}
	if books == nil {
		books = []*data.Book{}
	}

	env := envelope{"message": "Available books", "data": books, "count": len(books)}
	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
