package order

import (
	"time"

	"grocery-delivery-service/internal/domain/driver"
	"grocery-delivery-service/internal/domain/user"
)

// PaymentMethod is how the customer settles the order.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// PaymentStatus tracks settlement of the order total.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is a customer purchase and its delivery lifecycle.
type Order struct {
	ID              int64
	Number          string
	UserID          int64
	DriverID        *int64
	Status          Status
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	Items           []Item
	Subtotal        float64
	DeliveryFee     float64
	Total           float64
	DeliveryAddress string
	Notes           string
	CancelReason    string
	AssignedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Populated on reads
	User   *user.User
	Driver *driver.Driver
}

// Item is an order line with the price captured at checkout.
type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Name      string
	UnitPrice float64
	Quantity  int64
	LineTotal float64
}

// IsAssignedTo reports whether driverID is the order's current driver.
func (o *Order) IsAssignedTo(driverID int64) bool {
	return o.DriverID != nil && *o.DriverID == driverID
}

// Filter narrows order listings.
type Filter struct {
	Status   Status
	UserID   int64
	DriverID int64
	From     *time.Time
	To       *time.Time
	Page     int64
	Limit    int64
}
