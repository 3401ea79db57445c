package payout

import "time"

// Earning is what a driver earned for delivering one order.
type Earning struct {
	ID          int64
	DriverID    int64
	OrderID     int64
	OrderNumber string
	Amount      float64
	CreatedAt   time.Time
}

// Payment is money the platform handed over to a driver.
type Payment struct {
	ID        int64
	DriverID  int64
	AdminID   int64
	Amount    float64
	Method    string
	Reference string
	Note      string
	CreatedAt time.Time
}

// Payment methods accepted for driver payouts.
const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
	MethodOther        = "other"
)
