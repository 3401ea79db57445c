package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/domain/order"
	"grocery-delivery-service/internal/domain/payout"
)

// OrderRepoPG implements order persistence using PostgreSQL and GORM.
type OrderRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewOrderRepoPG creates a new instance of OrderRepoPG.
func NewOrderRepoPG(db *gorm.DB, log *zap.Logger) *OrderRepoPG {
	return &OrderRepoPG{db: db, log: log}
}

func toOrder(m *OrderSchema) *order.Order {
	o := &order.Order{
		ID:              m.ID,
		Number:          m.Number,
		UserID:          m.UserID,
		DriverID:        m.DriverID,
		Status:          order.Status(m.Status),
		PaymentMethod:   order.PaymentMethod(m.PaymentMethod),
		PaymentStatus:   order.PaymentStatus(m.PaymentStatus),
		Subtotal:        m.Subtotal,
		DeliveryFee:     m.DeliveryFee,
		Total:           m.Total,
		DeliveryAddress: m.DeliveryAddress,
		Notes:           m.Notes,
		CancelReason:    m.CancelReason,
		AssignedAt:      m.AssignedAt,
		PickedUpAt:      m.PickedUpAt,
		DeliveredAt:     m.DeliveredAt,
		CancelledAt:     m.CancelledAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	o.Items = make([]order.Item, len(m.Items))
	for i, it := range m.Items {
		o.Items[i] = order.Item{
			ID:        it.ID,
			OrderID:   it.OrderID,
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		}
	}
	if m.User != nil {
		o.User = toUser(m.User)
	}
	if m.Driver != nil {
		o.Driver = toDriver(m.Driver)
	}
	return o
}

// Create inserts an order with its items and sets the generated IDs on o.
func (r *OrderRepoPG) Create(ctx context.Context, o *order.Order) (int64, error) {
	if o == nil {
		return 0, errors.New("order cannot be nil")
	}

	model := OrderSchema{
		Number:          o.Number,
		UserID:          o.UserID,
		DriverID:        o.DriverID,
		Status:          string(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		DeliveryAddress: o.DeliveryAddress,
		Notes:           o.Notes,
	}
	model.Items = make([]OrderItemSchema, len(o.Items))
	for i, it := range o.Items {
		model.Items[i] = OrderItemSchema{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		}
	}

	if err := conn(ctx, r.db).Omit("User", "Driver").Create(&model).Error; err != nil {
		r.log.Error("failed to create order", zap.Error(err), zap.Int64("user_id", o.UserID))
		return 0, translate(err, "order")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	r.log.Info("order created in db", zap.Int64("id", model.ID), zap.String("number", model.Number))
	return model.ID, nil
}

// Update saves the lifecycle fields of an order.
func (r *OrderRepoPG) Update(ctx context.Context, o *order.Order) error {
	res := conn(ctx, r.db).Model(&OrderSchema{ID: o.ID}).Updates(map[string]any{
		"driver_id":      o.DriverID,
		"status":         string(o.Status),
		"payment_status": string(o.PaymentStatus),
		"cancel_reason":  o.CancelReason,
		"assigned_at":    o.AssignedAt,
		"picked_up_at":   o.PickedUpAt,
		"delivered_at":   o.DeliveredAt,
		"cancelled_at":   o.CancelledAt,
	})
	if res.Error != nil {
		r.log.Error("failed to update order", zap.Error(res.Error), zap.Int64("id", o.ID))
		return translate(res.Error, "order")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "order")
	}
	return nil
}

// GetByID retrieves an order with its items, customer and driver.
func (r *OrderRepoPG) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var model OrderSchema
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("User").
		Preload("Driver").
		First(&model, id).Error
	if err != nil {
		return nil, translate(err, "order")
	}
	return toOrder(&model), nil
}

// GetByIDForUpdate retrieves an order with its items and locks the order row.
func (r *OrderRepoPG) GetByIDForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	var model OrderSchema
	if err := forUpdate(conn(ctx, r.db)).First(&model, id).Error; err != nil {
		return nil, translate(err, "order")
	}
	if err := conn(ctx, r.db).Where("order_id = ?", id).Order("id ASC").Find(&model.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	return toOrder(&model), nil
}

// List retrieves orders matching f, newest first, with customer and driver populated.
func (r *OrderRepoPG) List(ctx context.Context, f order.Filter) ([]order.Order, int64, error) {
	page, limit := common.NormalizePage(f.Page, f.Limit)

	q := conn(ctx, r.db).Model(&OrderSchema{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.DriverID > 0 {
		q = q.Where("driver_id = ?", f.DriverID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var models []OrderSchema
	err := q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("User").
		Preload("Driver").
		Order("created_at DESC, id DESC").
		Offset(common.Offset(page, limit)).
		Limit(int(limit)).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list orders", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]order.Order, len(models))
	for i := range models {
		orders[i] = *toOrder(&models[i])
	}
	return orders, total, nil
}

// ListDelivered returns a driver's delivered orders inside w, without items.
func (r *OrderRepoPG) ListDelivered(ctx context.Context, driverID int64, w payout.Window) ([]order.Order, error) {
	q := conn(ctx, r.db).Where("driver_id = ? AND status = ?", driverID, string(order.StatusDelivered))
	if w.From != nil {
		q = q.Where("delivered_at >= ?", *w.From)
	}
	if w.To != nil {
		q = q.Where("delivered_at <= ?", *w.To)
	}

	var models []OrderSchema
	if err := q.Order("delivered_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list delivered orders: %w", err)
	}

	orders := make([]order.Order, len(models))
	for i := range models {
		orders[i] = *toOrder(&models[i])
	}
	return orders, nil
}
