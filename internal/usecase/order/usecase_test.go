package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/domain/driver"
	domain "grocery-delivery-service/internal/domain/order"
	"grocery-delivery-service/internal/domain/payout"
	"grocery-delivery-service/internal/domain/user"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/token"
)

// ==================== MOCKS ====================

type MockRepository struct{ mock.Mock }

func (m *MockRepository) Create(ctx context.Context, o *domain.Order) (int64, error) {
	args := m.Called(ctx, o)
	id := args.Get(0).(int64)
	o.ID = id
	return id, args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f domain.Filter) ([]domain.Order, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

// fakeProducts keeps stock in memory and records lock order.
type fakeProducts struct {
	items  map[int64]*catalog.Product
	locked []int64
}

func newFakeProducts(ps ...catalog.Product) *fakeProducts {
	f := &fakeProducts{items: map[int64]*catalog.Product{}}
	for i := range ps {
		p := ps[i]
		f.items[p.ID] = &p
	}
	return f
}

func (f *fakeProducts) GetByIDForUpdate(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("product", "product not found")
	}
	f.locked = append(f.locked, id)
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) UpdateStock(_ context.Context, id int64, stock int64) error {
	f.items[id].Stock = stock
	return nil
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) RecordDelivery(ctx context.Context, id int64, earning float64) error {
	return m.Called(ctx, id, earning).Error(0)
}

type MockEarningRepository struct{ mock.Mock }

func (m *MockEarningRepository) CreateEarning(ctx context.Context, e *payout.Earning) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) OrderAssigned(ctx context.Context, d *driver.Driver, o *domain.Order) error {
	return m.Called(ctx, d, o).Error(0)
}

// recordingTx counts commits and rollbacks.
type recordingTx struct{ committed, rolledBack int }

func (t *recordingTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		t.rolledBack++
		return err
	}
	t.committed++
	return nil
}

type testDeps struct {
	orders   *MockRepository
	products *fakeProducts
	users    *MockUserRepository
	drivers  *MockDriverRepository
	earnings *MockEarningRepository
	notifier *MockNotifier
	tx       *recordingTx
}

var (
	testNow      = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	testSettings = Settings{DeliveryFee: 5, FreeDeliveryThreshold: 50, DriverEarningRate: 0.8, LegalDrinkingAge: 21}
)

func setupTestUsecase(t *testing.T, products ...catalog.Product) (*Usecase, testDeps) {
	d := testDeps{
		orders:   new(MockRepository),
		products: newFakeProducts(products...),
		users:    new(MockUserRepository),
		drivers:  new(MockDriverRepository),
		earnings: new(MockEarningRepository),
		notifier: new(MockNotifier),
		tx:       &recordingTx{},
	}
	uc := New(d.orders, d.products, d.users, d.drivers, d.earnings, d.tx, d.notifier, nil, testSettings, zaptest.NewLogger(t))
	uc.now = func() time.Time { return testNow }
	return uc, d
}

func birthDate(yearsAgo int) *time.Time {
	t := testNow.AddDate(-yearsAgo, 0, -1)
	return &t
}

var (
	milk = catalog.Product{ID: 1, Name: "Milk", Price: 2.5, Stock: 10, Active: true}
	wine = catalog.Product{ID: 2, Name: "Merlot", Price: 20, DiscountPercent: 10, Stock: 3, Active: true, IsAlcohol: true}
)

// ==================== PLACE ORDER ====================

func TestPlaceOrder_Success(t *testing.T) {
	uc, d := setupTestUsecase(t, milk, wine)
	ctx := context.Background()

	d.users.On("GetByID", ctx, int64(7)).Return(&user.User{ID: 7, Address: "1 Main St", DateOfBirth: birthDate(30)}, nil)
	d.orders.On("Create", ctx, mock.Anything).Return(int64(100), nil)

	o, err := uc.PlaceOrder(ctx, PlaceOrderRequest{
		UserID: 7,
		Items: []ItemRequest{
			{ProductID: 2, Quantity: 1},
			{ProductID: 1, Quantity: 2},
			{ProductID: 1, Quantity: 1},
		},
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(100), o.ID)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, "1 Main St", o.DeliveryAddress)
	require.Len(t, o.Items, 2, "duplicate lines are merged")
	assert.Equal(t, int64(3), o.Items[0].Quantity)
	assert.Equal(t, 7.5, o.Items[0].LineTotal)
	assert.Equal(t, 18.0, o.Items[1].UnitPrice, "discount applied")
	assert.Equal(t, 25.5, o.Subtotal)
	assert.Equal(t, 5.0, o.DeliveryFee)
	assert.Equal(t, 30.5, o.Total)

	assert.Equal(t, []int64{1, 2}, d.products.locked, "rows locked in id order")
	assert.Equal(t, int64(7), d.products.items[1].Stock)
	assert.Equal(t, int64(2), d.products.items[2].Stock)
	assert.Equal(t, 1, d.tx.committed)
}

func TestPlaceOrder_FreeDelivery(t *testing.T) {
	uc, d := setupTestUsecase(t, milk)
	ctx := context.Background()

	d.users.On("GetByID", ctx, int64(7)).Return(&user.User{ID: 7}, nil)
	d.orders.On("Create", ctx, mock.Anything).Return(int64(1), nil)

	o, err := uc.PlaceOrder(ctx, PlaceOrderRequest{
		UserID:          7,
		Items:           []ItemRequest{{ProductID: 1, Quantity: 10}},
		PaymentMethod:   "card",
		DeliveryAddress: "2 Side St",
	})

	require.NoError(t, err)
	assert.Equal(t, 25.0, o.Subtotal)
	assert.Equal(t, 5.0, o.DeliveryFee, "below threshold")

	uc.settings.FreeDeliveryThreshold = 25
	d.products.items[1].Stock = 10
	o, err = uc.PlaceOrder(ctx, PlaceOrderRequest{
		UserID:          7,
		Items:           []ItemRequest{{ProductID: 1, Quantity: 10}},
		PaymentMethod:   "card",
		DeliveryAddress: "2 Side St",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, o.DeliveryFee)
	assert.Equal(t, 25.0, o.Total)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	uc, d := setupTestUsecase(t, milk, wine)
	ctx := context.Background()

	d.users.On("GetByID", ctx, int64(7)).Return(&user.User{ID: 7, Address: "x", DateOfBirth: birthDate(40)}, nil)

	_, err := uc.PlaceOrder(ctx, PlaceOrderRequest{
		UserID:        7,
		Items:         []ItemRequest{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 4}},
		PaymentMethod: "cash",
	})

	assert.ErrorIs(t, err, pkgerrors.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Merlot")
	assert.Equal(t, 1, d.tx.rolledBack)
	d.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlaceOrder_AlcoholAgeGate(t *testing.T) {
	tests := []struct {
		name  string
		dob   *time.Time
		check func(error) bool
	}{
		{"underage", birthDate(20), func(err error) bool {
			var fe *pkgerrors.ForbiddenError
			return errors.As(err, &fe)
		}},
		{"no birth date", nil, func(err error) bool {
			var ve *pkgerrors.ValidationError
			return errors.As(err, &ve)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, d := setupTestUsecase(t, wine)
			ctx := context.Background()

			d.users.On("GetByID", ctx, int64(7)).Return(&user.User{ID: 7, Address: "x", DateOfBirth: tt.dob}, nil)

			_, err := uc.PlaceOrder(ctx, PlaceOrderRequest{
				UserID:        7,
				Items:         []ItemRequest{{ProductID: 2, Quantity: 1}},
				PaymentMethod: "cash",
			})

			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
			assert.Equal(t, int64(3), d.products.items[2].Stock)
		})
	}
}

func TestPlaceOrder_ExactlyLegalAge(t *testing.T) {
	uc, d := setupTestUsecase(t, wine)
	ctx := context.Background()

	dob := testNow.AddDate(-21, 0, 0)
	d.users.On("GetByID", ctx, int64(7)).Return(&user.User{ID: 7, Address: "x", DateOfBirth: &dob}, nil)
	d.orders.On("Create", ctx, mock.Anything).Return(int64(1), nil)

	_, err := uc.PlaceOrder(ctx, PlaceOrderRequest{UserID: 7, Items: []ItemRequest{{ProductID: 2, Quantity: 1}}, PaymentMethod: "cash"})
	assert.NoError(t, err)
}

func TestPlaceOrder_BlockedUser(t *testing.T) {
	uc, d := setupTestUsecase(t, milk)
	ctx := context.Background()

	d.users.On("GetByID", ctx, int64(7)).Return(&user.User{ID: 7, Blocked: true}, nil)

	_, err := uc.PlaceOrder(ctx, PlaceOrderRequest{UserID: 7, Items: []ItemRequest{{ProductID: 1, Quantity: 1}}, PaymentMethod: "cash"})

	var fe *pkgerrors.ForbiddenError
	assert.ErrorAs(t, err, &fe)
}

func TestPlaceOrder_InactiveProduct(t *testing.T) {
	hidden := milk
	hidden.Active = false
	uc, d := setupTestUsecase(t, hidden)
	ctx := context.Background()

	d.users.On("GetByID", ctx, int64(7)).Return(&user.User{ID: 7, Address: "x"}, nil)

	_, err := uc.PlaceOrder(ctx, PlaceOrderRequest{UserID: 7, Items: []ItemRequest{{ProductID: 1, Quantity: 1}}, PaymentMethod: "cash"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestPlaceOrder_Validation(t *testing.T) {
	uc, _ := setupTestUsecase(t, milk)
	ctx := context.Background()

	tooMany := make([]ItemRequest, MaxItems+1)
	for i := range tooMany {
		tooMany[i] = ItemRequest{ProductID: int64(i + 1), Quantity: 1}
	}

	tests := []struct {
		name string
		req  PlaceOrderRequest
		want string
	}{
		{"no items", PlaceOrderRequest{UserID: 7, PaymentMethod: "cash"}, "items is required"},
		{"too many lines", PlaceOrderRequest{UserID: 7, Items: tooMany, PaymentMethod: "cash"}, "items must be at most 50"},
		{"zero quantity", PlaceOrderRequest{UserID: 7, Items: []ItemRequest{{ProductID: 1}}, PaymentMethod: "cash"}, "quantity is required"},
		{"bad payment", PlaceOrderRequest{UserID: 7, Items: []ItemRequest{{ProductID: 1, Quantity: 1}}, PaymentMethod: "crypto"}, "payment_method must be one of"},
		{"merged over limit", PlaceOrderRequest{UserID: 7, Items: []ItemRequest{{ProductID: 1, Quantity: 60}, {ProductID: 1, Quantity: 60}}, PaymentMethod: "cash"}, "at most 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.PlaceOrder(ctx, tt.req)
			var ve *pkgerrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPlaceOrder_NoAddress(t *testing.T) {
	uc, d := setupTestUsecase(t, milk)
	ctx := context.Background()

	d.users.On("GetByID", ctx, int64(7)).Return(&user.User{ID: 7}, nil)

	_, err := uc.PlaceOrder(ctx, PlaceOrderRequest{UserID: 7, Items: []ItemRequest{{ProductID: 1, Quantity: 1}}, PaymentMethod: "cash"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "delivery_address")
}

// ==================== READ ====================

func TestGetOrder_Visibility(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	driverID := int64(4)
	d.orders.On("GetByID", ctx, int64(1)).Return(&domain.Order{ID: 1, UserID: 7, DriverID: &driverID}, nil)

	tests := []struct {
		actor shared.Actor
		ok    bool
	}{
		{shared.Actor{ID: 1, Role: token.RoleAdmin}, true},
		{shared.Actor{ID: 7, Role: token.RoleUser}, true},
		{shared.Actor{ID: 8, Role: token.RoleUser}, false},
		{shared.Actor{ID: 4, Role: token.RoleDriver}, true},
		{shared.Actor{ID: 5, Role: token.RoleDriver}, false},
		{shared.Actor{ID: 7, Role: token.RoleDriver}, false},
	}
	for _, tt := range tests {
		_, err := uc.GetOrder(ctx, tt.actor, 1)
		if tt.ok {
			assert.NoError(t, err, "%+v", tt.actor)
		} else {
			assert.True(t, pkgerrors.IsNotFound(err), "%+v", tt.actor)
		}
	}
}

// ==================== CANCEL ====================

func pendingOrder() *domain.Order {
	return &domain.Order{
		ID:            1,
		UserID:        7,
		Status:        domain.StatusPending,
		PaymentMethod: domain.PaymentCash,
		PaymentStatus: domain.PaymentPending,
		Items: []domain.Item{
			{ProductID: 2, Quantity: 1},
			{ProductID: 1, Quantity: 3},
		},
	}
}

func TestCancelOrder_UserRestocks(t *testing.T) {
	uc, d := setupTestUsecase(t, milk, wine)
	ctx := context.Background()

	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(pendingOrder(), nil)
	d.orders.On("Update", ctx, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Status == domain.StatusCancelled && o.CancelledAt != nil && o.CancelReason == "changed my mind"
	})).Return(nil)

	o, err := uc.CancelOrder(ctx, shared.Actor{ID: 7, Role: token.RoleUser}, CancelOrderRequest{OrderID: 1, Reason: " changed my mind "})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, o.Status)
	assert.Equal(t, int64(13), d.products.items[1].Stock)
	assert.Equal(t, int64(4), d.products.items[2].Stock)
	assert.Equal(t, []int64{1, 2}, d.products.locked)
}

func TestCancelOrder_UserCannotCancelAssigned(t *testing.T) {
	uc, d := setupTestUsecase(t, milk, wine)
	ctx := context.Background()

	o := pendingOrder()
	o.Status = domain.StatusAssigned
	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(o, nil)

	_, err := uc.CancelOrder(ctx, shared.Actor{ID: 7, Role: token.RoleUser}, CancelOrderRequest{OrderID: 1})

	var ce *pkgerrors.ConflictError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, int64(10), d.products.items[1].Stock)
}

func TestCancelOrder_OtherUser(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(pendingOrder(), nil)

	_, err := uc.CancelOrder(ctx, shared.Actor{ID: 8, Role: token.RoleUser}, CancelOrderRequest{OrderID: 1})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCancelOrder_AdminPickedUpAndRefund(t *testing.T) {
	uc, d := setupTestUsecase(t, milk, wine)
	ctx := context.Background()

	o := pendingOrder()
	o.Status = domain.StatusPickedUp
	o.PaymentMethod = domain.PaymentCard
	o.PaymentStatus = domain.PaymentPaid
	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(o, nil)
	d.orders.On("Update", ctx, mock.Anything).Return(nil)

	got, err := uc.CancelOrder(ctx, shared.Actor{ID: 1, Role: token.RoleAdmin}, CancelOrderRequest{OrderID: 1})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, got.PaymentStatus)
}

func TestCancelOrder_Delivered(t *testing.T) {
	uc, d := setupTestUsecase(t, milk, wine)
	ctx := context.Background()

	o := pendingOrder()
	o.Status = domain.StatusDelivered
	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(o, nil)

	_, err := uc.CancelOrder(ctx, shared.Actor{ID: 1, Role: token.RoleSuperAdmin}, CancelOrderRequest{OrderID: 1})

	var ce *pkgerrors.ConflictError
	assert.ErrorAs(t, err, &ce)
	assert.Empty(t, d.products.locked)
}

// ==================== ASSIGN ====================

func TestAssignDriver_Success(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	dr := &driver.Driver{ID: 4, Active: true, OnDuty: true}
	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(pendingOrder(), nil)
	d.drivers.On("GetByID", ctx, int64(4)).Return(dr, nil)
	d.orders.On("Update", ctx, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Status == domain.StatusAssigned && o.IsAssignedTo(4) && o.AssignedAt.Equal(testNow)
	})).Return(nil)
	d.notifier.On("OrderAssigned", ctx, dr, mock.Anything).Return(errors.New("telegram down"))

	o, err := uc.AssignDriver(ctx, 1, 4)

	require.NoError(t, err, "notification failures do not fail the assignment")
	assert.True(t, o.IsAssignedTo(4))
	d.notifier.AssertExpectations(t)
}

func TestAssignDriver_Reassign(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	old := int64(3)
	o := pendingOrder()
	o.Status = domain.StatusAssigned
	o.DriverID = &old
	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(o, nil)
	d.drivers.On("GetByID", ctx, int64(4)).Return(&driver.Driver{ID: 4, Active: true, OnDuty: true}, nil)
	d.orders.On("Update", ctx, mock.Anything).Return(nil)
	d.notifier.On("OrderAssigned", ctx, mock.Anything, mock.Anything).Return(nil)

	got, err := uc.AssignDriver(ctx, 1, 4)

	require.NoError(t, err)
	assert.True(t, got.IsAssignedTo(4))
}

func TestAssignDriver_OffDuty(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(pendingOrder(), nil)
	d.drivers.On("GetByID", ctx, int64(4)).Return(&driver.Driver{ID: 4, Active: true, OnDuty: false}, nil)

	_, err := uc.AssignDriver(ctx, 1, 4)

	var ce *pkgerrors.ConflictError
	assert.ErrorAs(t, err, &ce)
	d.notifier.AssertNotCalled(t, "OrderAssigned", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignDriver_PickedUp(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	o := pendingOrder()
	o.Status = domain.StatusPickedUp
	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(o, nil)

	_, err := uc.AssignDriver(ctx, 1, 4)

	var ce *pkgerrors.ConflictError
	assert.ErrorAs(t, err, &ce)
	d.drivers.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// ==================== DRIVER PROGRESS ====================

func assignedOrder(driverID int64, status domain.Status) *domain.Order {
	o := pendingOrder()
	o.Status = status
	o.DriverID = &driverID
	o.DeliveryFee = 5
	return o
}

func TestPickUp(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(assignedOrder(4, domain.StatusAssigned), nil)
	d.orders.On("Update", ctx, mock.Anything).Return(nil)

	o, err := uc.PickUp(ctx, 4, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPickedUp, o.Status)
	assert.NotNil(t, o.PickedUpAt)
}

func TestPickUp_WrongDriver(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(assignedOrder(4, domain.StatusAssigned), nil)

	_, err := uc.PickUp(ctx, 5, 1)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestDeliver_RecordsEarning(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(assignedOrder(4, domain.StatusPickedUp), nil)
	d.earnings.On("CreateEarning", ctx, mock.MatchedBy(func(e *payout.Earning) bool {
		return e.DriverID == 4 && e.OrderID == 1 && e.Amount == 4.0
	})).Return(int64(1), nil)
	d.drivers.On("RecordDelivery", ctx, int64(4), 4.0).Return(nil)
	d.orders.On("Update", ctx, mock.Anything).Return(nil)

	o, err := uc.Deliver(ctx, 4, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, o.Status)
	assert.Equal(t, domain.PaymentPaid, o.PaymentStatus)
	d.earnings.AssertExpectations(t)
	d.drivers.AssertExpectations(t)
}

func TestDeliver_SkippingPickup(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(assignedOrder(4, domain.StatusAssigned), nil)

	_, err := uc.Deliver(ctx, 4, 1)

	var ce *pkgerrors.ConflictError
	assert.ErrorAs(t, err, &ce)
	d.earnings.AssertNotCalled(t, "CreateEarning", mock.Anything, mock.Anything)
}

func TestDeliver_EarningFailureRollsBack(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.orders.On("GetByIDForUpdate", ctx, int64(1)).Return(assignedOrder(4, domain.StatusPickedUp), nil)
	d.earnings.On("CreateEarning", ctx, mock.Anything).Return(int64(0), pkgerrors.NewAlreadyExistsError("driver earning", "exists"))

	_, err := uc.Deliver(ctx, 4, 1)

	assert.Error(t, err)
	assert.Equal(t, 1, d.tx.rolledBack)
	d.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// ==================== LIST ====================

func TestListOrders_BadStatus(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	_, err := uc.ListOrders(context.Background(), ListOrdersRequest{Status: "lost"})
	var ve *pkgerrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestListDriverOrders_ScopesToDriver(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.orders.On("List", ctx, domain.Filter{DriverID: 4, Status: domain.StatusAssigned, Page: 1, Limit: 10}).
		Return([]domain.Order{{ID: 1}}, int64(1), nil)

	resp, err := uc.ListDriverOrders(ctx, 4, ListOrdersRequest{UserID: 99, Status: "assigned"})

	require.NoError(t, err)
	assert.Len(t, resp.Orders, 1)
}
