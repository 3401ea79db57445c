package payout

import (
	"time"

	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/domain/order"
)

// Window bounds a summary to [From, To]. A nil bound is open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && t.After(*w.To) {
		return false
	}
	return true
}

// CashSummary is the settlement position of a driver.
type CashSummary struct {
	DriverID       int64
	From           *time.Time
	To             *time.Time
	Deliveries     int64
	CashCollected  float64
	CardCollected  float64
	TotalEarnings  float64
	TotalPaid      float64
	PendingBalance float64
	// NetSettlement is cash collected minus pending balance.
	// Positive means the driver owes the platform.
	NetSettlement float64
}

// CalculateCashSummary reduces a driver's delivered orders, earnings and payments
// into a settlement summary. Orders that are not delivered are ignored.
func CalculateCashSummary(driverID int64, orders []order.Order, earnings []Earning, payments []Payment, w Window) CashSummary {
	s := CashSummary{DriverID: driverID, From: w.From, To: w.To}

	for i := range orders {
		o := &orders[i]
		if o.Status != order.StatusDelivered || !o.IsAssignedTo(driverID) {
			continue
		}
		at := o.UpdatedAt
		if o.DeliveredAt != nil {
			at = *o.DeliveredAt
		}
		if !w.Contains(at) {
			continue
		}
		s.Deliveries++
		switch o.PaymentMethod {
		case order.PaymentCash:
			s.CashCollected += o.Total
		case order.PaymentCard:
			s.CardCollected += o.Total
		}
	}

	for _, e := range earnings {
		if e.DriverID == driverID && w.Contains(e.CreatedAt) {
			s.TotalEarnings += e.Amount
		}
	}
	for _, p := range payments {
		if p.DriverID == driverID && w.Contains(p.CreatedAt) {
			s.TotalPaid += p.Amount
		}
	}

	s.CashCollected = common.Round2(s.CashCollected)
	s.CardCollected = common.Round2(s.CardCollected)
	s.TotalEarnings = common.Round2(s.TotalEarnings)
	s.TotalPaid = common.Round2(s.TotalPaid)
	s.PendingBalance = common.Round2(s.TotalEarnings - s.TotalPaid)
	s.NetSettlement = common.Round2(s.CashCollected - s.PendingBalance)
	return s
}
