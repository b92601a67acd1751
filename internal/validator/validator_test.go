package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookFields struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
	Genre  string `validate:"required,max=5"`
}

func TestValidator_CheckKeepsFirstErrorPerKey(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(false, "title", "first")
	v.Check(false, "title", "second")
	v.Check(true, "author", "never recorded")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"title": "first"}, v.Errors)
}

func TestValidator_FirstFollowsRecordingOrder(t *testing.T) {
	v := New()
	_, _, ok := v.First()
	assert.False(t, ok)

	v.AddError("genre", "genre message")
	v.AddError("author", "author message")

	key, message, ok := v.First()
	require.True(t, ok)
	assert.Equal(t, "genre", key)
	assert.Equal(t, "genre message", message)
}

func TestValidator_Struct(t *testing.T) {
	tests := []struct {
		name        string
		input       bookFields
		wantValid   bool
		wantKey     string
		wantMessage string
	}{
		{
			name:      "all present",
			input:     bookFields{Title: "Dune", Author: "Herbert", Genre: "SciFi"},
			wantValid: true,
		},
		{
			name:        "title missing wins over author",
			input:       bookFields{Genre: "SciFi"},
			wantKey:     "title",
			wantMessage: "Title is required and cannot be empty",
		},
		{
			name:        "author missing",
			input:       bookFields{Title: "Dune", Genre: "SciFi"},
			wantKey:     "author",
			wantMessage: "Author is required and cannot be empty",
		},
		{
			name:        "genre missing",
			input:       bookFields{Title: "Dune", Author: "Herbert"},
			wantKey:     "genre",
			wantMessage: "Genre is required and cannot be empty",
		},
		{
			name:        "genre too long",
			input:       bookFields{Title: "Dune", Author: "Herbert", Genre: "Science Fiction"},
			wantKey:     "genre",
			wantMessage: "Genre must be at most 5 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			require.NoError(t, v.Struct(tt.input))
			assert.Equal(t, tt.wantValid, v.Valid())

			key, message, ok := v.First()
			if tt.wantValid {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestValidator_StructRejectsNonStruct(t *testing.T) {
	v := New()
	assert.Error(t, v.Struct("not a struct"))
}

func TestIn(t *testing.T) {
	assert.True(t, In("memory", "memory", "postgres"))
	assert.False(t, In("sqlite", "memory", "postgres"))
	assert.False(t, In("memory"))
}
