// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the logRequest, recoverPanic and rateLimit middlewares.
//
// Middleware chain (outermost → innermost):
//
//	logRequest → recoverPanic → rateLimit → router
//
// logRequest sits outside recoverPanic so a request that panicked is still
// logged, with the 500 it ended in.
//
// Current endpoints:
//
//	GET    /v1/healthcheck             – service status
//	GET    /v1/books                   – list all books
//	POST   /v1/books                   – add a book
//	PUT    /v1/books/:id               – partially update a book
//	DELETE /v1/books/:id               – delete a book
//	POST   /v1/books/:id/borrow        – lend a book to a borrower
//	POST   /v1/books/:id/return        – put a borrowed book back
//	GET    /v1/books/recommendations   – most borrowed books on the shelf
//	GET    /v1/books/available         – books not out on loan, with a count
//
// httprouter keeps one tree per method, so the static GET paths never
// compete with the :id wildcard used by PUT, DELETE and POST.
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/v1/books", app.listBooksHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books", app.createBookHandler)
	router.HandlerFunc(http.MethodPut, "/v1/books/:id", app.updateBookHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/books/:id", app.deleteBookHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books/:id/borrow", app.borrowBookHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books/:id/return", app.returnBookHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books/recommendations", app.recommendationsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books/available", app.availableBooksHandler)

	return app.logRequest(app.recoverPanic(app.rateLimit(router)))
}
