// cmd/api/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// maxBodyBytes caps every request body at 1 MB.
const maxBodyBytes = 1_048_576

// envelope is the top-level JSON wrapper type used for all API responses.
// Every response carries a "message" key, plus "data" and "count" where the
// operation returns records.
type envelope map[string]any

// readIDParam extracts the ":id" URL parameter added by httprouter.
// Ids are opaque strings; whether one exists is the BookService's call.
func (app *applicationDependencies) readIDParam(r *http.Request) string {
	params := httprouter.ParamsFromContext(r.Context())
	return params.ByName("id")
}

// writeJSON marshals data to indented JSON, applies any custom headers,
// sets Content-Type to "application/json", writes the status code, and
// streams the body to the client.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n') // Trailing newline makes curl output nicer.

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// readJSON decodes a single JSON value from the request body into dst.
// It enforces a 1 MB size limit, rejects unknown fields and empty bodies,
// and ensures the body contains exactly one JSON value (no trailing data).
// Decoding failures come back as client-readable errors.
func (app *applicationDependencies) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return app.decodeJSON(w, r, dst, true)
}

// readPartialJSON is readJSON for bodies that may carry more than dst knows
// about, such as a whole Book echoed back on update. Unknown keys are
// ignored and an empty body leaves dst at its zero value, like "{}".
func (app *applicationDependencies) readPartialJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return app.decodeJSON(w, r, dst, false)
}

func (app *applicationDependencies) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	// Cap the request body to 1 MB to prevent large-payload attacks.
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields() // Reject fields not present in dst.
	}

	err := dec.Decode(dst)
	if err != nil {
		if !strict && errors.Is(err, io.EOF) {
			return nil
		}

		var (
			syntaxError        *json.SyntaxError
			unmarshalTypeError *json.UnmarshalTypeError
			maxBytesError      *http.MaxBytesError
		)

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	// Ensure there is no second JSON value in the body.
	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// trimmed returns the whitespace-trimmed value of an optional string field,
// or "" when the field was absent.
func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
