package order

import (
	"time"

	"grocery-delivery-service/internal/domain/common"
	domain "grocery-delivery-service/internal/domain/order"
)

// Checkout limits. The request tags below repeat them.
const (
	MaxItems   = 50
	MaxItemQty = 100
)

// Settings are the business knobs applied to orders.
type Settings struct {
	DeliveryFee           float64
	FreeDeliveryThreshold float64 // 0 disables free delivery
	DriverEarningRate     float64
	LegalDrinkingAge      int
}

// ItemRequest is one requested order line.
type ItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,min=1,max=100"`
}

// PlaceOrderRequest represents the request payload for checkout.
type PlaceOrderRequest struct {
	UserID          int64         `json:"-" validate:"required"`
	Items           []ItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
	PaymentMethod   string        `json:"payment_method" validate:"required,oneof=cash card"`
	DeliveryAddress string        `json:"delivery_address" validate:"max=500"`
	Notes           string        `json:"notes" validate:"max=500"`
}

// CancelOrderRequest represents the request payload for cancelling an order.
type CancelOrderRequest struct {
	OrderID int64  `json:"-" validate:"required"`
	Reason  string `json:"reason" validate:"max=500"`
}

// ListOrdersRequest represents the request payload for listing orders.
type ListOrdersRequest struct {
	Status   string
	UserID   int64
	DriverID int64
	From     *time.Time
	To       *time.Time
	Page     int64
	Limit    int64
}

// ListOrdersResponse represents the response payload for order listing.
type ListOrdersResponse struct {
	Orders     []domain.Order
	Pagination *common.Pagination
}
