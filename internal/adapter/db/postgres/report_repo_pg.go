package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/domain/order"
	"grocery-delivery-service/internal/domain/report"
)

const topProductsLimit = 10

// ReportRepoPG runs reporting aggregations.
type ReportRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewReportRepoPG creates a new instance of ReportRepoPG.
func NewReportRepoPG(db *gorm.DB, log *zap.Logger) *ReportRepoPG {
	return &ReportRepoPG{db: db, log: log}
}

// Dashboard collects the admin overview counters.
func (r *ReportRepoPG) Dashboard(ctx context.Context, lowStockThreshold int64) (*report.Dashboard, error) {
	db := conn(ctx, r.db)
	d := &report.Dashboard{OrdersByStatus: make(map[string]int64)}

	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&d.Users, &UserSchema{}, "", nil},
		{&d.Drivers, &DriverSchema{}, "", nil},
		{&d.DriversOnDuty, &DriverSchema{}, "on_duty = ? AND active = ?", []any{true, true}},
		{&d.Products, &ProductSchema{}, "", nil},
		{&d.LowStockProducts, &ProductSchema{}, "active = ? AND stock <= ?", []any{true, lowStockThreshold}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			r.log.Error("dashboard count failed", zap.Error(err))
			return nil, fmt.Errorf("failed to build dashboard: %w", err)
		}
	}

	var rows []struct {
		Status string
		N      int64
	}
	if err := db.Model(&OrderSchema{}).Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	for _, st := range order.Statuses() {
		d.OrdersByStatus[string(st)] = 0
	}
	for _, row := range rows {
		d.OrdersByStatus[row.Status] = row.N
	}

	var revenue struct{ Total float64 }
	if err := db.Model(&OrderSchema{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("status = ?", string(order.StatusDelivered)).
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	d.DeliveredRevenue = common.Round2(revenue.Total)

	return d, nil
}

// Sales aggregates orders created in [from, to].
func (r *ReportRepoPG) Sales(ctx context.Context, from, to time.Time) (*report.Sales, error) {
	db := conn(ctx, r.db)
	s := &report.Sales{From: from, To: to}

	var orders []OrderSchema
	if err := db.Select("id", "status", "total", "delivery_fee", "created_at").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Find(&orders).Error; err != nil {
		r.log.Error("sales report query failed", zap.Error(err))
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	daily := make(map[string]*report.DailySales)
	for _, o := range orders {
		s.TotalOrders++
		switch order.Status(o.Status) {
		case order.StatusDelivered:
			s.DeliveredOrders++
			s.Revenue += o.Total
			s.DeliveryFees += o.DeliveryFee

			day := o.CreatedAt.UTC().Format(time.DateOnly)
			ds, ok := daily[day]
			if !ok {
				ds = &report.DailySales{Date: day}
				daily[day] = ds
			}
			ds.Orders++
			ds.Revenue += o.Total
		case order.StatusCancelled:
			s.CancelledOrders++
		}
	}

	s.Revenue = common.Round2(s.Revenue)
	s.DeliveryFees = common.Round2(s.DeliveryFees)
	if s.DeliveredOrders > 0 {
		s.AverageOrderValue = common.Round2(s.Revenue / float64(s.DeliveredOrders))
	}

	s.Daily = make([]report.DailySales, 0, len(daily))
	for _, ds := range daily {
		ds.Revenue = common.Round2(ds.Revenue)
		s.Daily = append(s.Daily, *ds)
	}
	sort.Slice(s.Daily, func(i, j int) bool { return s.Daily[i].Date < s.Daily[j].Date })

	var top []struct {
		ProductID int64
		Name      string
		Quantity  int64
		Revenue   float64
	}
	err := db.Table("order_items AS oi").
		Select("oi.product_id AS product_id, MAX(oi.name) AS name, SUM(oi.quantity) AS quantity, SUM(oi.line_total) AS revenue").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status = ? AND o.created_at >= ? AND o.created_at <= ?", string(order.StatusDelivered), from, to).
		Group("oi.product_id").
		Order("quantity DESC, product_id ASC").
		Limit(topProductsLimit).
		Scan(&top).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}

	s.TopProducts = make([]report.TopProduct, len(top))
	for i, t := range top {
		s.TopProducts[i] = report.TopProduct{
			ProductID: t.ProductID,
			Name:      t.Name,
			Quantity:  t.Quantity,
			Revenue:   common.Round2(t.Revenue),
		}
	}
	return s, nil
}
