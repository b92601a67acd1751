package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aoideee/library-catalog/internal/data"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("connection reset by peer")

// fakeBooks is a BookService whose behavior is set per test. Unset
// functions fail the call with errBoom.
type fakeBooks struct {
	getAll          func() ([]*data.Book, error)
	insert          func(data.NewBook) (*data.Book, error)
	update          func(string, data.BookPatch) (*data.Book, error)
	deleteFn        func(string) error
	borrow          func(string, string) (*data.Book, error)
	returnFn        func(string) (*data.Book, error)
	recommendations func() ([]*data.Book, error)
	getAvailable    func() ([]*data.Book, error)
}

func (f *fakeBooks) GetAll(ctx context.Context) ([]*data.Book, error) {
	if f.getAll == nil {
		return nil, errBoom
	}
	return f.getAll()
}

func (f *fakeBooks) Insert(ctx context.Context, nb data.NewBook) (*data.Book, error) {
	if f.insert == nil {
		return nil, errBoom
	}
	return f.insert(nb)
}

func (f *fakeBooks) Update(ctx context.Context, id string, patch data.BookPatch) (*data.Book, error) {
	if f.update == nil {
		return nil, errBoom
	}
	return f.update(id, patch)
}

func (f *fakeBooks) Delete(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return errBoom
	}
	return f.deleteFn(id)
}

func (f *fakeBooks) Borrow(ctx context.Context, id, borrowerID string) (*data.Book, error) {
	if f.borrow == nil {
		return nil, errBoom
	}
	return f.borrow(id, borrowerID)
}

func (f *fakeBooks) Return(ctx context.Context, id string) (*data.Book, error) {
	if f.returnFn == nil {
		return nil, errBoom
	}
	return f.returnFn(id)
}

func (f *fakeBooks) Recommendations(ctx context.Context) ([]*data.Book, error) {
	if f.recommendations == nil {
		return nil, errBoom
	}
	return f.recommendations()
}

func (f *fakeBooks) GetAvailable(ctx context.Context) ([]*data.Book, error) {
	if f.getAvailable == nil {
		return nil, errBoom
	}
	return f.getAvailable()
}

// newTestApplication returns an application with the rate limiter off and
// logs captured in the returned buffer.
func newTestApplication(t *testing.T, books data.BookService) (*applicationDependencies, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	app := &applicationDependencies{
		logger: slog.New(slog.NewTextHandler(&logs, nil)),
		models: data.Models{Books: books},
	}
	app.config.environment = "development"
	app.config.storage = "memory"
	return app, &logs
}

// apiResponse is the decoded JSON envelope.
type apiResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

// do sends a request through the full middleware and router stack.
func do(t *testing.T, h http.Handler, method, path, body string) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr.Code, resp
}
