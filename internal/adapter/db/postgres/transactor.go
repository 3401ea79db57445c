package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
)

type txKey struct{}

// Transactor runs units of work inside a database transaction.
// Repositories called with the context handed to fn join that transaction.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction runs fn in a transaction, committing when fn returns nil.
// Nested calls reuse the outer transaction. Callbacks registered with
// shared.AfterCommit run once the outermost transaction has committed.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	hookCtx, runHooks := shared.WithCommitHooks(ctx)
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(hookCtx, txKey{}, tx))
	})
	if err != nil {
		return err
	}
	runHooks(context.WithoutCancel(ctx))
	return nil
}

// conn returns the transaction bound to ctx, or db.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// forUpdate adds a row lock on dialects that support SELECT ... FOR UPDATE.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// translate maps driver errors to application errors.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.NewNotFoundError(resource, resource+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkgerrors.NewAlreadyExistsError(resource, resource+" already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return pkgerrors.NewConflictError(resource + " is referenced by other records")
	default:
		return fmt.Errorf("%s query failed: %w", resource, err)
	}
}
