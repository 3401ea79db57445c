package payout

import (
	"time"

	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/domain/driver"
	domain "grocery-delivery-service/internal/domain/payout"
)

// PayDriverRequest represents the request payload for paying out a driver.
type PayDriverRequest struct {
	DriverID  int64   `json:"-" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Method    string  `json:"method" validate:"omitempty,oneof=cash bank_transfer other"`
	Reference string  `json:"reference" validate:"max=100"`
	Note      string  `json:"note" validate:"max=500"`
}

// PayDriverResponse carries the stored payment and the driver's new totals.
type PayDriverResponse struct {
	Payment *domain.Payment
	Driver  *driver.Driver
}

// CashSummaryRequest selects the driver and optional date window.
type CashSummaryRequest struct {
	DriverID int64
	From     *time.Time
	To       *time.Time
}

// ListEarningsResponse represents the response payload for earning listing.
type ListEarningsResponse struct {
	Earnings   []domain.Earning
	Pagination *common.Pagination
}

// ListPaymentsResponse represents the response payload for payment listing.
type ListPaymentsResponse struct {
	Payments   []domain.Payment
	Pagination *common.Pagination
}
