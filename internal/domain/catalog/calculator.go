package catalog

import (
	"fmt"

	"grocery-delivery-service/internal/domain/common"
	pkgerrors "grocery-delivery-service/pkg/errors"
)

// PriceOperation is how a price adjustment is applied.
type PriceOperation string

const (
	PriceIncrease PriceOperation = "increase"
	PriceDecrease PriceOperation = "decrease"
	PriceSet      PriceOperation = "set"
)

// StockOperation is how a stock adjustment is applied.
type StockOperation string

const (
	StockAdd    StockOperation = "add"
	StockRemove StockOperation = "remove"
	StockSet    StockOperation = "set"
)

// ValidatePriceOperation applies op to current and returns the new price.
// Amounts must be finite and non-negative and the result may not drop below zero.
func ValidatePriceOperation(current, amount float64, op PriceOperation) (float64, error) {
	if !common.IsFinite(amount) || amount < 0 {
		return 0, pkgerrors.NewValidationError("amount", "must be a non-negative number")
	}

	var next float64
	switch op {
	case PriceIncrease:
		next = current + amount
	case PriceDecrease:
		next = current - amount
	case PriceSet:
		next = amount
	default:
		return 0, pkgerrors.NewValidationError("operation", fmt.Sprintf("unsupported price operation %q", op))
	}

	next = common.Round2(next)
	if next < 0 {
		return 0, pkgerrors.NewValidationError("amount", "price cannot be negative")
	}
	return next, nil
}

// ValidateDiscount checks that a discount percentage lies in [0, 100].
func ValidateDiscount(percent float64) error {
	if !common.IsFinite(percent) || percent < 0 || percent > 100 {
		return pkgerrors.NewValidationError("discount_percent", "must be between 0 and 100")
	}
	return nil
}

// ValidateStockOperation applies op to current and returns the new stock level.
// Removing more than is on hand fails with ErrInsufficientStock.
func ValidateStockOperation(current, quantity int64, op StockOperation) (int64, error) {
	var next int64
	switch op {
	case StockAdd:
		if quantity <= 0 {
			return 0, pkgerrors.NewValidationError("quantity", "must be greater than zero")
		}
		next = current + quantity
	case StockRemove:
		if quantity <= 0 {
			return 0, pkgerrors.NewValidationError("quantity", "must be greater than zero")
		}
		next = current - quantity
	case StockSet:
		if quantity < 0 {
			return 0, pkgerrors.NewValidationError("quantity", "cannot be negative")
		}
		next = quantity
	default:
		return 0, pkgerrors.NewValidationError("operation", fmt.Sprintf("unsupported stock operation %q", op))
	}

	if next < 0 {
		return 0, pkgerrors.ErrInsufficientStock
	}
	return next, nil
}
