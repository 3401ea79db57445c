package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/security"
)

// applySearch narrows db so that every token of query matches at least one of columns.
// Matching is a case-insensitive substring test with LIKE wildcards escaped.
func applySearch(db *gorm.DB, query string, columns ...string) (*gorm.DB, error) {
	tokens, err := security.Tokenize(query)
	if err != nil {
		return nil, pkgerrors.NewValidationError("query", "invalid search query: "+err.Error())
	}

	for _, tok := range tokens {
		pattern := "%" + security.EscapeLike(tok) + "%"
		parts := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			parts[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col)
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
	return db, nil
}
