package report

import "time"

// Dashboard is the admin overview.
type Dashboard struct {
	Users            int64
	Drivers          int64
	DriversOnDuty    int64
	Products         int64
	LowStockProducts int64
	OrdersByStatus   map[string]int64
	DeliveredRevenue float64
}

// DailySales is one day of the sales series.
type DailySales struct {
	Date    string // YYYY-MM-DD
	Orders  int64
	Revenue float64
}

// TopProduct ranks products by quantity sold.
type TopProduct struct {
	ProductID int64
	Name      string
	Quantity  int64
	Revenue   float64
}

// Sales summarizes orders placed in [From, To].
type Sales struct {
	From              time.Time
	To                time.Time
	TotalOrders       int64
	DeliveredOrders   int64
	CancelledOrders   int64
	Revenue           float64 // delivered orders only
	DeliveryFees      float64
	AverageOrderValue float64
	Daily             []DailySales
	TopProducts       []TopProduct
}

// LowStockItem is a product at or below the alert threshold.
type LowStockItem struct {
	ProductID int64
	Name      string
	Stock     int64
}
