// cmd/api/errors.go
// This file contains all error-response helpers for the application, plus
// the table that maps BookService errors onto HTTP statuses.
package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aoideee/library-catalog/internal/data"
)

// errorMapping ties a BookService error to the status and message the
// client sees for one operation.
type errorMapping struct {
	target  error
	status  int
	message string
}

// operation describes the fixed responses of one catalog endpoint.
// Any error not listed in known is reported as a 500 with failureMessage.
type operation struct {
	failureMessage string
	known          []errorMapping
}

var (
	opListBooks = operation{failureMessage: "Error retrieving books"}
	opAddBook   = operation{failureMessage: "Error adding book"}
	opUpdate    = operation{
		failureMessage: "Error updating book",
		known: []errorMapping{
			{data.ErrRecordNotFound, http.StatusNotFound, "Book not found"},
		},
	}
	opDelete = operation{
		failureMessage: "Error deleting book",
		known: []errorMapping{
			{data.ErrRecordNotFound, http.StatusNotFound, "Book not found"},
		},
	}
	// The two borrow failures share one response; clients cannot tell them apart.
	opBorrow = operation{
		failureMessage: "Error borrowing book",
		known: []errorMapping{
			{data.ErrRecordNotFound, http.StatusNotFound, "Book not found or already borrowed"},
			{data.ErrAlreadyBorrowed, http.StatusNotFound, "Book not found or already borrowed"},
		},
	}
	opReturn = operation{
		failureMessage: "Error returning book",
		known: []errorMapping{
			{data.ErrRecordNotFound, http.StatusNotFound, "Book not found or not currently borrowed"},
			{data.ErrNotBorrowed, http.StatusNotFound, "Book not found or not currently borrowed"},
		},
	}
	opRecommendations = operation{failureMessage: "Error fetching recommendations"}
	opAvailable       = operation{failureMessage: "Error retrieving available books"}
)

// resolve returns the status and message for err under op.
// The boolean is false when err fell through to the 500 default.
func (op operation) resolve(err error) (int, string, bool) {
	for _, m := range op.known {
		if errors.Is(err, m.target) {
			return m.status, m.message, true
		}
	}
	return http.StatusInternalServerError, op.failureMessage, false
}

// logError logs an internal error at ERROR level with the request method and URL for context.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
	)
}

// errorResponse sends a JSON envelope with the given status code and message.
// It is the low-level building block used by all the specific error helpers below.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	err := app.writeJSON(w, status, envelope{"message": message}, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// operationErrorResponse maps err through op's table. Unexpected errors are
// logged; the client only ever sees the fixed message.
func (app *applicationDependencies) operationErrorResponse(w http.ResponseWriter, r *http.Request, op operation, err error) {
	status, message, known := op.resolve(err)
	if !known {
		app.logError(r, err)
	}
	app.errorResponse(w, r, status, message)
}

// serverErrorResponse logs a 500-level error and sends a generic message to the client.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// notFoundResponse sends a 404 Not Found error.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

// methodNotAllowedResponse sends a 405 Method Not Allowed error.
func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "the " + r.Method + " method is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

// badRequestResponse sends a 400 Bad Request error with the error message from the caller.
func (app *applicationDependencies) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// failedValidationResponse sends a 400 with the first field error collected
// by a Validator. Only one error is reported per request.
func (app *applicationDependencies) failedValidationResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusBadRequest, message)
}

// rateLimitExceededResponse sends a 429 Too Many Requests error.
func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}
