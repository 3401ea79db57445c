package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxSearchQueryLength defines the maximum allowed length for search queries
	MaxSearchQueryLength = 100
	// MaxSearchTokens bounds the number of tokens a query expands to
	MaxSearchTokens = 8
)

var (
	ErrSearchQueryTooLong = errors.New("search query too long")
	ErrSearchQueryInvalid = errors.New("search query contains invalid characters")
)

// dangerousPatterns contains regex patterns that could indicate injection attempts
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(union|select|insert|update|delete|drop|create|alter|exec|execute)\b`),
	regexp.MustCompile(`(?i)\b(or|and)\s+\d+\s*=\s*\d+`),
	regexp.MustCompile(`(?i)\b(or|and)\s+['"].*['"]\s*=\s*['"].*['"]`),
	regexp.MustCompile(`(--|/\*|\*/|;)`),
	regexp.MustCompile(`(?i)\b(waitfor|benchmark|sleep)\b`),
	regexp.MustCompile(`(?i)(<script|</script|javascript:|vbscript:|onload=|onerror=)`),
}

// ValidateSearchQuery validates and trims a search query
func ValidateSearchQuery(query string) (string, error) {
	if query == "" {
		return "", nil
	}

	if utf8.RuneCountInString(query) > MaxSearchQueryLength {
		return "", ErrSearchQueryTooLong
	}

	query = strings.TrimSpace(query)

	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(query) {
			return "", ErrSearchQueryInvalid
		}
	}

	for _, char := range query {
		if !isValidSearchChar(char) {
			return "", ErrSearchQueryInvalid
		}
	}

	return query, nil
}

// isValidSearchChar checks if a character is safe for search queries
func isValidSearchChar(char rune) bool {
	return unicode.IsLetter(char) || unicode.IsNumber(char) ||
		char == ' ' || char == '-' || char == '_' || char == '.' ||
		char == '@' || char == '+' || char == '\'' || char == '%'
}

// Tokenize validates query and splits it into distinct lower-cased tokens.
// An empty query yields no tokens.
func Tokenize(query string) ([]string, error) {
	q, err := ValidateSearchQuery(query)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	tokens := make([]string, 0, 4)
	for _, f := range strings.Fields(strings.ToLower(q)) {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
		if len(tokens) == MaxSearchTokens {
			break
		}
	}
	return tokens, nil
}

// EscapeLike escapes LIKE wildcards so a token matches literally.
// Use with ESCAPE '\'.
func EscapeLike(token string) string {
	token = strings.ReplaceAll(token, `\`, `\\`)
	token = strings.ReplaceAll(token, "%", `\%`)
	token = strings.ReplaceAll(token, "_", `\_`)
	return token
}
