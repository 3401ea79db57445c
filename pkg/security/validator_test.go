package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSearchQuery(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		expectError error
		expected    string
	}{
		{name: "valid empty query", query: "", expected: ""},
		{name: "valid simple query", query: "whisky", expected: "whisky"},
		{name: "trims whitespace", query: "  red wine ", expected: "red wine"},
		{name: "email-like query", query: "john@example.com", expected: "john@example.com"},
		{name: "allowed punctuation", query: "coca-cola_1.5l", expected: "coca-cola_1.5l"},
		{name: "apostrophe in brand", query: "jack daniel's", expected: "jack daniel's"},
		{name: "keyword inside a word is fine", query: "selected updates", expected: "selected updates"},
		{
			name:        "query too long",
			query:       strings.Repeat("a", MaxSearchQueryLength+1),
			expectError: ErrSearchQueryTooLong,
		},
		{name: "union injection", query: "beer UNION SELECT * FROM users", expectError: ErrSearchQueryInvalid},
		{name: "tautology", query: "beer OR 1=1", expectError: ErrSearchQueryInvalid},
		{name: "statement terminator", query: "beer; DROP TABLE products", expectError: ErrSearchQueryInvalid},
		{name: "comment", query: "beer --", expectError: ErrSearchQueryInvalid},
		{name: "script tag", query: "<script>alert(1)</script>", expectError: ErrSearchQueryInvalid},
		{name: "ampersand", query: "salt&pepper", expectError: ErrSearchQueryInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateSearchQuery(tt.query)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("  Red WINE red  dry ")
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "wine", "dry"}, tokens)

	tokens, err = Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	tokens, err = Tokenize("a b c d e f g h i j")
	require.NoError(t, err)
	assert.Len(t, tokens, MaxSearchTokens)

	_, err = Tokenize("x OR 1=1")
	assert.ErrorIs(t, err, ErrSearchQueryInvalid)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%`, EscapeLike("50%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, "plain", EscapeLike("plain"))
}
