// Package validator provides a custom Validator type for accumulating
// field-level validation errors in the order they were found.
package validator

import (
	"errors"
	"fmt"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// structValidator caches struct metadata, so one instance is shared.
var structValidator = playground.New(playground.WithRequiredStructEnabled())

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string]string
	order  []string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message.
// If key already has an error it is not overwritten, so the first
// failure for a field is always the one that is reported.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
		v.order = append(v.order, key)
	}
}

// Check adds an error for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(len(title) > 0, "title", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// First returns the earliest recorded error. ok is false when v is valid.
func (v *Validator) First() (key, message string, ok bool) {
	if len(v.order) == 0 {
		return "", "", false
	}
	key = v.order[0]
	return key, v.Errors[key], true
}

// Struct runs the `validate` tags of s and records one error per failing
// field, in struct field order. Keys are the lower-cased field names.
func (v *Validator) Struct(s any) error {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		v.AddError(strings.ToLower(fe.Field()), message(fe))
	}
	return nil
}

// message renders a client-facing message for a failed tag.
func message(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required and cannot be empty", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}
