package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/domain/driver"
	domain "grocery-delivery-service/internal/domain/order"
	"grocery-delivery-service/internal/domain/payout"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
)

// Usecase implements checkout and the order delivery lifecycle.
type Usecase struct {
	orders   Repository
	products ProductRepository
	users    UserRepository
	drivers  DriverRepository
	earnings EarningRepository
	tx       shared.Transactor
	notifier Notifier
	metrics  Recorder
	settings Settings
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New creates a new order usecase. notifier and metrics may be nil.
func New(
	orders Repository,
	products ProductRepository,
	users UserRepository,
	drivers DriverRepository,
	earnings EarningRepository,
	tx shared.Transactor,
	notifier Notifier,
	metrics Recorder,
	settings Settings,
	log *zap.Logger,
) *Usecase {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &Usecase{
		orders:   orders,
		products: products,
		users:    users,
		drivers:  drivers,
		earnings: earnings,
		tx:       tx,
		notifier: notifier,
		metrics:  metrics,
		settings: settings,
		log:      log,
		validate: shared.NewValidator(),
		now:      time.Now,
	}
}

// PlaceOrder checks out the requested items for a customer.
// Product rows are locked in id order so concurrent checkouts cannot oversell
// or deadlock.
func (uc *Usecase) PlaceOrder(ctx context.Context, in PlaceOrderRequest) (*domain.Order, error) {
	uc.log.Info("placing order", zap.Int64("user_id", in.UserID), zap.Int("lines", len(in.Items)))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, shared.FormatValidationError(err)
	}
	lines, err := mergeItems(in.Items)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var created *domain.Order

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, err := uc.users.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if u.Blocked {
			return pkgerrors.NewForbiddenError("account is blocked")
		}

		address := strings.TrimSpace(in.DeliveryAddress)
		if address == "" {
			address = u.Address
		}
		if address == "" {
			return pkgerrors.NewValidationError("delivery_address", "is required when the profile has no address")
		}

		o := &domain.Order{
			Number:          domain.NewNumber(now),
			UserID:          u.ID,
			Status:          domain.StatusPending,
			PaymentMethod:   domain.PaymentMethod(in.PaymentMethod),
			PaymentStatus:   domain.PaymentPending,
			DeliveryAddress: address,
			Notes:           in.Notes,
			Items:           make([]domain.Item, 0, len(lines)),
		}

		var subtotal float64
		for _, line := range lines {
			p, err := uc.products.GetByIDForUpdate(ctx, line.ProductID)
			if err != nil {
				if pkgerrors.IsNotFound(err) {
					return pkgerrors.NewValidationError("items", fmt.Sprintf("product %d does not exist", line.ProductID))
				}
				return err
			}
			if !p.Active {
				return pkgerrors.NewValidationError("items", fmt.Sprintf("%s is not available", p.Name))
			}
			if p.IsAlcohol {
				if err := uc.checkDrinkingAge(u.AgeAt(now)); err != nil {
					return err
				}
			}

			stock, err := catalog.ValidateStockOperation(p.Stock, line.Quantity, catalog.StockRemove)
			if err != nil {
				return fmt.Errorf("%w for %s", err, p.Name)
			}
			if err := uc.products.UpdateStock(ctx, p.ID, stock); err != nil {
				return err
			}

			unit := p.SalePrice()
			lineTotal := common.Round2(unit * float64(line.Quantity))
			subtotal += lineTotal
			o.Items = append(o.Items, domain.Item{
				ProductID: p.ID,
				Name:      p.Name,
				UnitPrice: unit,
				Quantity:  line.Quantity,
				LineTotal: lineTotal,
			})
		}

		o.Subtotal = common.Round2(subtotal)
		o.DeliveryFee = uc.deliveryFee(o.Subtotal)
		o.Total = common.Round2(o.Subtotal + o.DeliveryFee)

		if _, err := uc.orders.Create(ctx, o); err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		uc.log.Warn("order rejected", zap.Int64("user_id", in.UserID), zap.Error(err))
		return nil, err
	}

	uc.metrics.OrderPlaced()
	uc.log.Info("order placed",
		zap.Int64("id", created.ID),
		zap.String("number", created.Number),
		zap.Float64("total", created.Total))
	return created, nil
}

func mergeItems(items []ItemRequest) ([]ItemRequest, error) {
	qty := make(map[int64]int64, len(items))
	for _, it := range items {
		qty[it.ProductID] += it.Quantity
	}

	merged := make([]ItemRequest, 0, len(qty))
	for id, q := range qty {
		if q > MaxItemQty {
			return nil, pkgerrors.NewValidationError("items", fmt.Sprintf("quantity for product %d must be at most %d", id, MaxItemQty))
		}
		merged = append(merged, ItemRequest{ProductID: id, Quantity: q})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}

func (uc *Usecase) checkDrinkingAge(age int, known bool) error {
	if !known {
		return pkgerrors.NewValidationError("date_of_birth", "is required to order alcohol")
	}
	if age < uc.settings.LegalDrinkingAge {
		return pkgerrors.NewForbiddenError(fmt.Sprintf("you must be at least %d to order alcohol", uc.settings.LegalDrinkingAge))
	}
	return nil
}

func (uc *Usecase) deliveryFee(subtotal float64) float64 {
	if uc.settings.FreeDeliveryThreshold > 0 && subtotal >= uc.settings.FreeDeliveryThreshold {
		return 0
	}
	return common.Round2(uc.settings.DeliveryFee)
}

// GetOrder returns an order visible to actor: admins see all orders, users
// their own and drivers the ones assigned to them.
func (uc *Usecase) GetOrder(ctx context.Context, actor shared.Actor, id int64) (*domain.Order, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.IsAdmin():
	case actor.IsUser() && o.UserID == actor.ID:
	case actor.IsDriver() && o.IsAssignedTo(actor.ID):
	default:
		return nil, pkgerrors.NewNotFoundError("order", "order not found")
	}
	return o, nil
}

// CancelOrder cancels an order and puts its items back in stock.
// Users may cancel their own pending orders, admins any open order.
func (uc *Usecase) CancelOrder(ctx context.Context, actor shared.Actor, in CancelOrderRequest) (*domain.Order, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}

	var cancelled *domain.Order
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := uc.orders.GetByIDForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}

		switch {
		case actor.IsAdmin():
		case actor.IsUser() && o.UserID == actor.ID:
			if o.Status != domain.StatusPending {
				return pkgerrors.NewConflictError("only pending orders can be cancelled")
			}
		default:
			return pkgerrors.NewNotFoundError("order", "order not found")
		}
		if !domain.CanTransition(o.Status, domain.StatusCancelled) {
			return pkgerrors.NewConflictError(fmt.Sprintf("cannot cancel an order that is %s", o.Status))
		}

		if err := uc.restock(ctx, o.Items); err != nil {
			return err
		}

		now := uc.now()
		o.Status = domain.StatusCancelled
		o.CancelledAt = &now
		o.CancelReason = strings.TrimSpace(in.Reason)
		if o.PaymentMethod == domain.PaymentCard && o.PaymentStatus == domain.PaymentPaid {
			o.PaymentStatus = domain.PaymentRefunded
		}
		if err := uc.orders.Update(ctx, o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderTransitioned(string(domain.StatusCancelled))
	uc.log.Info("order cancelled",
		zap.Int64("id", cancelled.ID),
		zap.String("by_role", actor.Role),
		zap.Int64("by_id", actor.ID))
	return cancelled, nil
}

func (uc *Usecase) restock(ctx context.Context, items []domain.Item) error {
	sorted := make([]domain.Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	for _, it := range sorted {
		p, err := uc.products.GetByIDForUpdate(ctx, it.ProductID)
		if err != nil {
			return err
		}
		stock, err := catalog.ValidateStockOperation(p.Stock, it.Quantity, catalog.StockAdd)
		if err != nil {
			return err
		}
		if err := uc.products.UpdateStock(ctx, p.ID, stock); err != nil {
			return err
		}
	}
	return nil
}

// AssignDriver hands a pending order to an on-duty driver, or moves an
// assigned order to another driver.
func (uc *Usecase) AssignDriver(ctx context.Context, orderID, driverID int64) (*domain.Order, error) {
	var (
		assigned *domain.Order
		d        *driver.Driver
	)
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := uc.orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(o.Status, domain.StatusAssigned) {
			return pkgerrors.NewConflictError(fmt.Sprintf("cannot assign an order that is %s", o.Status))
		}

		d, err = uc.drivers.GetByID(ctx, driverID)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				return pkgerrors.NewValidationError("driver_id", "driver does not exist")
			}
			return err
		}
		if !d.CanTakeOrders() {
			return pkgerrors.NewConflictError("driver must be active and on duty")
		}

		now := uc.now()
		o.DriverID = &d.ID
		o.Status = domain.StatusAssigned
		o.AssignedAt = &now
		if err := uc.orders.Update(ctx, o); err != nil {
			return err
		}
		assigned = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderTransitioned(string(domain.StatusAssigned))
	uc.log.Info("order assigned", zap.Int64("id", assigned.ID), zap.Int64("driver_id", d.ID))

	if err := uc.notifier.OrderAssigned(ctx, d, assigned); err != nil {
		uc.log.Warn("failed to notify driver", zap.Int64("driver_id", d.ID), zap.Error(err))
	}
	return assigned, nil
}

// PickUp records that the assigned driver collected the order.
func (uc *Usecase) PickUp(ctx context.Context, driverID, orderID int64) (*domain.Order, error) {
	return uc.advance(ctx, driverID, orderID, domain.StatusPickedUp, func(_ context.Context, o *domain.Order, now time.Time) error {
		o.PickedUpAt = &now
		return nil
	})
}

// Deliver completes the order, marks it paid and books the driver's earning.
func (uc *Usecase) Deliver(ctx context.Context, driverID, orderID int64) (*domain.Order, error) {
	return uc.advance(ctx, driverID, orderID, domain.StatusDelivered, func(ctx context.Context, o *domain.Order, now time.Time) error {
		o.DeliveredAt = &now
		o.PaymentStatus = domain.PaymentPaid

		amount := common.Round2(o.DeliveryFee * uc.settings.DriverEarningRate)
		if _, err := uc.earnings.CreateEarning(ctx, &payout.Earning{
			DriverID: driverID,
			OrderID:  o.ID,
			Amount:   amount,
		}); err != nil {
			return err
		}
		return uc.drivers.RecordDelivery(ctx, driverID, amount)
	})
}

func (uc *Usecase) advance(
	ctx context.Context,
	driverID, orderID int64,
	to domain.Status,
	apply func(ctx context.Context, o *domain.Order, now time.Time) error,
) (*domain.Order, error) {
	var out *domain.Order
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := uc.orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.IsAssignedTo(driverID) {
			return pkgerrors.NewNotFoundError("order", "order not found")
		}
		if !domain.CanTransition(o.Status, to) {
			return pkgerrors.NewConflictError(fmt.Sprintf("cannot move order from %s to %s", o.Status, to))
		}

		o.Status = to
		if err := apply(ctx, o, uc.now()); err != nil {
			return err
		}
		if err := uc.orders.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderTransitioned(string(to))
	uc.log.Info("order status changed",
		zap.Int64("id", out.ID),
		zap.Int64("driver_id", driverID),
		zap.String("status", string(to)))
	return out, nil
}

// ListOrders returns a page of orders matching the filter, newest first.
func (uc *Usecase) ListOrders(ctx context.Context, in ListOrdersRequest) (*ListOrdersResponse, error) {
	page, limit := common.NormalizePage(in.Page, in.Limit)

	f := domain.Filter{
		UserID:   in.UserID,
		DriverID: in.DriverID,
		From:     in.From,
		To:       in.To,
		Page:     page,
		Limit:    limit,
	}
	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, pkgerrors.NewValidationError("status", err.Error())
		}
		f.Status = st
	}
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, pkgerrors.NewValidationError("to", "must not be before from")
	}

	orders, total, err := uc.orders.List(ctx, f)
	if err != nil {
		uc.log.Error("failed to list orders", zap.Error(err))
		return nil, err
	}
	return &ListOrdersResponse{Orders: orders, Pagination: common.NewPagination(total, page, limit)}, nil
}

// ListUserOrders returns the customer's own orders.
func (uc *Usecase) ListUserOrders(ctx context.Context, userID int64, in ListOrdersRequest) (*ListOrdersResponse, error) {
	in.UserID, in.DriverID = userID, 0
	return uc.ListOrders(ctx, in)
}

// ListDriverOrders returns orders assigned to the driver.
func (uc *Usecase) ListDriverOrders(ctx context.Context, driverID int64, in ListOrdersRequest) (*ListOrdersResponse, error) {
	in.UserID, in.DriverID = 0, driverID
	return uc.ListOrders(ctx, in)
}

type noopNotifier struct{}

func (noopNotifier) OrderAssigned(context.Context, *driver.Driver, *domain.Order) error { return nil }

type noopRecorder struct{}

func (noopRecorder) OrderPlaced()              {}
func (noopRecorder) OrderTransitioned(string) {}
