// Package shared holds the pieces every usecase package needs.
package shared

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/token"
)

// Transactor runs fn inside a database transaction carried by the context.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Mailer delivers plain text email.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// Actor is the authenticated account performing an operation.
type Actor struct {
	ID   int64
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == token.RoleAdmin || a.Role == token.RoleSuperAdmin
}

func (a Actor) IsUser() bool   { return a.Role == token.RoleUser }
func (a Actor) IsDriver() bool { return a.Role == token.RoleDriver }

// NewValidator returns a validator that reports fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// FormatValidationError converts validator.ValidationErrors into a ValidationError
// with a human-readable message.
func FormatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "min":
			if e.Kind() == reflect.String {
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
			}
		case "max":
			if e.Kind() == reflect.String {
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
			}
		case "gt", "gte", "lt", "lte":
			messages = append(messages, fmt.Sprintf("%s must be %s %s", e.Field(), comparison(e.Tag()), e.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param()))
		case "url":
			messages = append(messages, fmt.Sprintf("%s must be a valid URL", e.Field()))
		case "dive":
			messages = append(messages, fmt.Sprintf("%s contains an invalid entry", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
}

func comparison(tag string) string {
	switch tag {
	case "gt":
		return "greater than"
	case "gte":
		return "at least"
	case "lt":
		return "less than"
	default:
		return "at most"
	}
}
