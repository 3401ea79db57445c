package driver

import (
	"time"

	"grocery-delivery-service/internal/domain/common"
)

// Driver represents a delivery driver and the running totals of their work.
type Driver struct {
	ID              int64
	Name            string
	Email           string
	Phone           string
	PasswordHash    string
	VehicleNumber   string
	LicenseNumber   string
	TelegramChatID  *int64
	Active          bool
	OnDuty          bool
	TotalEarnings   float64
	TotalPaid       float64
	TotalDeliveries int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PendingBalance is what the platform still owes the driver.
func (d *Driver) PendingBalance() float64 {
	return common.Round2(d.TotalEarnings - d.TotalPaid)
}

// CanTakeOrders reports whether the driver may be assigned new orders.
func (d *Driver) CanTakeOrders() bool {
	return d.Active && d.OnDuty
}

// Filter narrows driver listings.
type Filter struct {
	Query  string
	Active *bool
	OnDuty *bool
	Page   int64
	Limit  int64
}
