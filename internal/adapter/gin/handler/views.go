package handler

import (
	"time"

	"grocery-delivery-service/internal/domain/admin"
	"grocery-delivery-service/internal/domain/audit"
	"grocery-delivery-service/internal/domain/banner"
	"grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/domain/driver"
	"grocery-delivery-service/internal/domain/order"
	"grocery-delivery-service/internal/domain/payout"
	"grocery-delivery-service/internal/domain/report"
	"grocery-delivery-service/internal/domain/user"
	"grocery-delivery-service/internal/usecase/auth"
)

// JSON views of domain entities. Password hashes never leave the domain layer.

type UserResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Blocked     bool       `json:"blocked"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Address:     u.Address,
		DateOfBirth: u.DateOfBirth,
		Blocked:     u.Blocked,
		CreatedAt:   u.CreatedAt,
	}
}

type AdminResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toAdminResponse(a *admin.Admin) AdminResponse {
	return AdminResponse{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role, CreatedAt: a.CreatedAt}
}

type DriverResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	VehicleNumber   string    `json:"vehicle_number"`
	LicenseNumber   string    `json:"license_number"`
	TelegramChatID  *int64    `json:"telegram_chat_id,omitempty"`
	Active          bool      `json:"active"`
	OnDuty          bool      `json:"on_duty"`
	TotalEarnings   float64   `json:"total_earnings"`
	TotalPaid       float64   `json:"total_paid"`
	PendingBalance  float64   `json:"pending_balance"`
	TotalDeliveries int64     `json:"total_deliveries"`
	CreatedAt       time.Time `json:"created_at"`
}

func toDriverResponse(d *driver.Driver) DriverResponse {
	return DriverResponse{
		ID:              d.ID,
		Name:            d.Name,
		Email:           d.Email,
		Phone:           d.Phone,
		VehicleNumber:   d.VehicleNumber,
		LicenseNumber:   d.LicenseNumber,
		TelegramChatID:  d.TelegramChatID,
		Active:          d.Active,
		OnDuty:          d.OnDuty,
		TotalEarnings:   d.TotalEarnings,
		TotalPaid:       d.TotalPaid,
		PendingBalance:  d.PendingBalance(),
		TotalDeliveries: d.TotalDeliveries,
		CreatedAt:       d.CreatedAt,
	}
}

type ProfileResponse struct {
	ID             int64      `json:"id"`
	Role           string     `json:"role"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	VehicleNumber  string     `json:"vehicle_number,omitempty"`
	Active         bool       `json:"active"`
	OnDuty         bool       `json:"on_duty"`
	PendingBalance float64    `json:"pending_balance,omitempty"`
}

func toProfileResponse(p *auth.Profile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		Role:           p.Role,
		Name:           p.Name,
		Email:          p.Email,
		Phone:          p.Phone,
		Address:        p.Address,
		DateOfBirth:    p.DateOfBirth,
		VehicleNumber:  p.VehicleNumber,
		Active:         p.Active,
		OnDuty:         p.OnDuty,
		PendingBalance: p.PendingBalance,
	}
}

type SessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   ProfileResponse `json:"profile"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

type ProductResponse struct {
	ID              int64             `json:"id"`
	CategoryID      int64             `json:"category_id"`
	Category        *CategoryResponse `json:"category,omitempty"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Brand           string            `json:"brand"`
	Unit            string            `json:"unit"`
	ImageURL        string            `json:"image_url"`
	Price           float64           `json:"price"`
	DiscountPercent float64           `json:"discount_percent"`
	SalePrice       float64           `json:"sale_price"`
	Stock           int64             `json:"stock"`
	IsAlcohol       bool              `json:"is_alcohol"`
	Active          bool              `json:"active"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	r := ProductResponse{
		ID:              p.ID,
		CategoryID:      p.CategoryID,
		Name:            p.Name,
		Description:     p.Description,
		Brand:           p.Brand,
		Unit:            p.Unit,
		ImageURL:        p.ImageURL,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		SalePrice:       p.SalePrice(),
		Stock:           p.Stock,
		IsAlcohol:       p.IsAlcohol,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.Category != nil {
		c := toCategoryResponse(p.Category)
		r.Category = &c
	}
	return r
}

type BannerResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

func toBannerResponse(b *banner.Banner) BannerResponse {
	return BannerResponse{ID: b.ID, Title: b.Title, ImageURL: b.ImageURL, LinkURL: b.LinkURL, Position: b.Position, Active: b.Active}
}

type OrderItemResponse struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int64   `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// AccountSummary is the populated owner or driver of an order.
type AccountSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type OrderResponse struct {
	ID              int64               `json:"id"`
	Number          string              `json:"number"`
	UserID          int64               `json:"user_id"`
	User            *AccountSummary     `json:"user,omitempty"`
	DriverID        *int64              `json:"driver_id,omitempty"`
	Driver          *AccountSummary     `json:"driver,omitempty"`
	Status          string              `json:"status"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   string              `json:"payment_status"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        float64             `json:"subtotal"`
	DeliveryFee     float64             `json:"delivery_fee"`
	Total           float64             `json:"total"`
	DeliveryAddress string              `json:"delivery_address"`
	Notes           string              `json:"notes,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	AssignedAt      *time.Time          `json:"assigned_at,omitempty"`
	PickedUpAt      *time.Time          `json:"picked_up_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		}
	}

	r := OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		UserID:          o.UserID,
		DriverID:        o.DriverID,
		Status:          string(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		Items:           items,
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		DeliveryAddress: o.DeliveryAddress,
		Notes:           o.Notes,
		CancelReason:    o.CancelReason,
		AssignedAt:      o.AssignedAt,
		PickedUpAt:      o.PickedUpAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
	}
	if o.User != nil {
		r.User = &AccountSummary{ID: o.User.ID, Name: o.User.Name, Email: o.User.Email, Phone: o.User.Phone}
	}
	if o.Driver != nil {
		r.Driver = &AccountSummary{ID: o.Driver.ID, Name: o.Driver.Name, Email: o.Driver.Email, Phone: o.Driver.Phone}
	}
	return r
}

func toOrderResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out
}

type EarningResponse struct {
	ID          int64     `json:"id"`
	DriverID    int64     `json:"driver_id"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number,omitempty"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func toEarningResponse(e *payout.Earning) EarningResponse {
	return EarningResponse(*e)
}

type PaymentResponse struct {
	ID        int64     `json:"id"`
	DriverID  int64     `json:"driver_id"`
	AdminID   int64     `json:"admin_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toPaymentResponse(p *payout.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		DriverID:  p.DriverID,
		AdminID:   p.AdminID,
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
	}
}

type CashSummaryResponse struct {
	DriverID       int64      `json:"driver_id"`
	From           *time.Time `json:"from,omitempty"`
	To             *time.Time `json:"to,omitempty"`
	Deliveries     int64      `json:"deliveries"`
	CashCollected  float64    `json:"cash_collected"`
	CardCollected  float64    `json:"card_collected"`
	TotalEarnings  float64    `json:"total_earnings"`
	TotalPaid      float64    `json:"total_paid"`
	PendingBalance float64    `json:"pending_balance"`
	NetSettlement  float64    `json:"net_settlement"`
}

func toCashSummaryResponse(s *payout.CashSummary) CashSummaryResponse {
	return CashSummaryResponse{
		DriverID:       s.DriverID,
		From:           s.From,
		To:             s.To,
		Deliveries:     s.Deliveries,
		CashCollected:  s.CashCollected,
		CardCollected:  s.CardCollected,
		TotalEarnings:  s.TotalEarnings,
		TotalPaid:      s.TotalPaid,
		PendingBalance: s.PendingBalance,
		NetSettlement:  s.NetSettlement,
	}
}

type DashboardResponse struct {
	Users            int64            `json:"users"`
	Drivers          int64            `json:"drivers"`
	DriversOnDuty    int64            `json:"drivers_on_duty"`
	Products         int64            `json:"products"`
	LowStockProducts int64            `json:"low_stock_products"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	DeliveredRevenue float64          `json:"delivered_revenue"`
}

func toDashboardResponse(d *report.Dashboard) DashboardResponse {
	r := DashboardResponse(*d)
	if r.OrdersByStatus == nil {
		r.OrdersByStatus = map[string]int64{}
	}
	return r
}

type DailySalesResponse struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type TopProductResponse struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type SalesResponse struct {
	From              time.Time            `json:"from"`
	To                time.Time            `json:"to"`
	TotalOrders       int64                `json:"total_orders"`
	DeliveredOrders   int64                `json:"delivered_orders"`
	CancelledOrders   int64                `json:"cancelled_orders"`
	Revenue           float64              `json:"revenue"`
	DeliveryFees      float64              `json:"delivery_fees"`
	AverageOrderValue float64              `json:"average_order_value"`
	Daily             []DailySalesResponse `json:"daily"`
	TopProducts       []TopProductResponse `json:"top_products"`
}

func toSalesResponse(s *report.Sales) SalesResponse {
	r := SalesResponse{
		From:              s.From,
		To:                s.To,
		TotalOrders:       s.TotalOrders,
		DeliveredOrders:   s.DeliveredOrders,
		CancelledOrders:   s.CancelledOrders,
		Revenue:           s.Revenue,
		DeliveryFees:      s.DeliveryFees,
		AverageOrderValue: s.AverageOrderValue,
		Daily:             make([]DailySalesResponse, len(s.Daily)),
		TopProducts:       make([]TopProductResponse, len(s.TopProducts)),
	}
	for i, d := range s.Daily {
		r.Daily[i] = DailySalesResponse(d)
	}
	for i, p := range s.TopProducts {
		r.TopProducts[i] = TopProductResponse(p)
	}
	return r
}

type LowStockResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
}

func toLowStockResponses(items []report.LowStockItem) []LowStockResponse {
	out := make([]LowStockResponse, len(items))
	for i, it := range items {
		out[i] = LowStockResponse(it)
	}
	return out
}

type AuditEntryResponse struct {
	ID        string    `json:"id"`
	ActorID   int64     `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Method    string    `json:"method"`
	Route     string    `json:"route"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	ClientIP  string    `json:"client_ip"`
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toAuditEntryResponse(e *audit.Entry) AuditEntryResponse {
	return AuditEntryResponse(*e)
}
