package payout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"grocery-delivery-service/internal/domain/driver"
	"grocery-delivery-service/internal/domain/order"
	domain "grocery-delivery-service/internal/domain/payout"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/token"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) CreatePayment(ctx context.Context, p *domain.Payment) (int64, error) {
	args := m.Called(ctx, p)
	p.ID = args.Get(0).(int64)
	return p.ID, args.Error(1)
}

func (m *MockRepository) ListEarnings(ctx context.Context, driverID, page, limit int64) ([]domain.Earning, int64, error) {
	args := m.Called(ctx, driverID, page, limit)
	return args.Get(0).([]domain.Earning), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListPayments(ctx context.Context, driverID, page, limit int64) ([]domain.Payment, int64, error) {
	args := m.Called(ctx, driverID, page, limit)
	return args.Get(0).([]domain.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) EarningsInWindow(ctx context.Context, driverID int64, w domain.Window) ([]domain.Earning, error) {
	args := m.Called(ctx, driverID, w)
	return args.Get(0).([]domain.Earning), args.Error(1)
}

func (m *MockRepository) PaymentsInWindow(ctx context.Context, driverID int64, w domain.Window) ([]domain.Payment, error) {
	args := m.Called(ctx, driverID, w)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetByIDForUpdate(ctx context.Context, id int64) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) AddPaid(ctx context.Context, id int64, amount float64) error {
	return m.Called(ctx, id, amount).Error(0)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) ListDelivered(ctx context.Context, driverID int64, w domain.Window) ([]order.Order, error) {
	args := m.Called(ctx, driverID, w)
	return args.Get(0).([]order.Order), args.Error(1)
}

type MockRecorder struct{ mock.Mock }

func (m *MockRecorder) DriverPaid(amount float64) { m.Called(amount) }

type inlineTx struct{}

func (inlineTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testDeps struct {
	repo    *MockRepository
	drivers *MockDriverRepository
	orders  *MockOrderRepository
	metrics *MockRecorder
}

func setupTestUsecase(t *testing.T) (*Usecase, testDeps) {
	d := testDeps{
		repo:    new(MockRepository),
		drivers: new(MockDriverRepository),
		orders:  new(MockOrderRepository),
		metrics: new(MockRecorder),
	}
	return New(d.repo, d.drivers, d.orders, inlineTx{}, d.metrics, zaptest.NewLogger(t)), d
}

var admin = shared.Actor{ID: 1, Role: token.RoleAdmin}

// ==================== PAY ====================

func TestPayDriver_Success(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.drivers.On("GetByIDForUpdate", ctx, int64(4)).Return(&driver.Driver{ID: 4, TotalEarnings: 40, TotalPaid: 10}, nil)
	d.repo.On("CreatePayment", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.Amount == 12.35 && p.AdminID == 1 && p.Method == domain.MethodCash
	})).Return(int64(9), nil)
	d.drivers.On("AddPaid", ctx, int64(4), 12.35).Return(nil)
	d.metrics.On("DriverPaid", 12.35).Return()

	resp, err := uc.PayDriver(ctx, admin, PayDriverRequest{DriverID: 4, Amount: 12.349})

	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.Payment.ID)
	assert.Equal(t, 22.35, resp.Driver.TotalPaid)
	assert.Equal(t, 17.65, resp.Driver.PendingBalance())
	d.metrics.AssertExpectations(t)
}

func TestPayDriver_ExactBalance(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.drivers.On("GetByIDForUpdate", ctx, int64(4)).Return(&driver.Driver{ID: 4, TotalEarnings: 30, TotalPaid: 10}, nil)
	d.repo.On("CreatePayment", ctx, mock.Anything).Return(int64(1), nil)
	d.drivers.On("AddPaid", ctx, int64(4), 20.0).Return(nil)
	d.metrics.On("DriverPaid", 20.0).Return()

	resp, err := uc.PayDriver(ctx, admin, PayDriverRequest{DriverID: 4, Amount: 20, Method: domain.MethodBankTransfer})

	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.Driver.PendingBalance())
}

func TestPayDriver_Overpayment(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.drivers.On("GetByIDForUpdate", ctx, int64(4)).Return(&driver.Driver{ID: 4, TotalEarnings: 30, TotalPaid: 10}, nil)

	_, err := uc.PayDriver(ctx, admin, PayDriverRequest{DriverID: 4, Amount: 20.01})

	assert.ErrorIs(t, err, pkgerrors.ErrInsufficientBalance)
	assert.Contains(t, err.Error(), "20.00")
	d.repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	d.drivers.AssertNotCalled(t, "AddPaid", mock.Anything, mock.Anything, mock.Anything)
	d.metrics.AssertNotCalled(t, "DriverPaid", mock.Anything)
}

func TestPayDriver_Validation(t *testing.T) {
	uc, d := setupTestUsecase(t)

	tests := []struct {
		name string
		req  PayDriverRequest
	}{
		{"zero", PayDriverRequest{DriverID: 4, Amount: 0}},
		{"negative", PayDriverRequest{DriverID: 4, Amount: -5}},
		{"rounds to zero", PayDriverRequest{DriverID: 4, Amount: 0.001}},
		{"bad method", PayDriverRequest{DriverID: 4, Amount: 5, Method: "cheque"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.PayDriver(context.Background(), admin, tt.req)
			var ve *pkgerrors.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
	d.drivers.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
}

func TestPayDriver_UnknownDriver(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.drivers.On("GetByIDForUpdate", ctx, int64(99)).Return(nil, pkgerrors.NewNotFoundError("driver", "driver not found"))

	_, err := uc.PayDriver(ctx, admin, PayDriverRequest{DriverID: 99, Amount: 5})
	assert.True(t, pkgerrors.IsNotFound(err))
}

// ==================== LISTS ====================

func TestListEarnings(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.drivers.On("GetByID", ctx, int64(4)).Return(&driver.Driver{ID: 4}, nil)
	d.repo.On("ListEarnings", ctx, int64(4), int64(1), int64(10)).
		Return([]domain.Earning{{ID: 1, Amount: 4}}, int64(1), nil)

	resp, err := uc.ListEarnings(ctx, 4, 0, 0)

	require.NoError(t, err)
	assert.Len(t, resp.Earnings, 1)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}

func TestListPayments_UnknownDriver(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	d.drivers.On("GetByID", ctx, int64(9)).Return(nil, pkgerrors.NewNotFoundError("driver", "driver not found"))

	_, err := uc.ListPayments(ctx, 9, 1, 10)
	assert.True(t, pkgerrors.IsNotFound(err))
	d.repo.AssertNotCalled(t, "ListPayments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ==================== CASH SUMMARY ====================

func TestCashSummary(t *testing.T) {
	uc, d := setupTestUsecase(t)
	ctx := context.Background()

	driverID := int64(4)
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	w := domain.Window{}

	d.drivers.On("GetByID", ctx, driverID).Return(&driver.Driver{ID: driverID}, nil)
	d.orders.On("ListDelivered", ctx, driverID, w).Return([]order.Order{
		{ID: 1, DriverID: &driverID, Status: order.StatusDelivered, PaymentMethod: order.PaymentCash, Total: 30.5, DeliveredAt: &at},
		{ID: 2, DriverID: &driverID, Status: order.StatusDelivered, PaymentMethod: order.PaymentCard, Total: 12, DeliveredAt: &at},
	}, nil)
	d.repo.On("EarningsInWindow", ctx, driverID, w).Return([]domain.Earning{
		{DriverID: driverID, Amount: 4, CreatedAt: at},
		{DriverID: driverID, Amount: 4, CreatedAt: at},
	}, nil)
	d.repo.On("PaymentsInWindow", ctx, driverID, w).Return([]domain.Payment{
		{DriverID: driverID, Amount: 3, CreatedAt: at},
	}, nil)

	s, err := uc.CashSummary(ctx, CashSummaryRequest{DriverID: driverID})

	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Deliveries)
	assert.Equal(t, 30.5, s.CashCollected)
	assert.Equal(t, 12.0, s.CardCollected)
	assert.Equal(t, 5.0, s.PendingBalance)
	assert.Equal(t, 25.5, s.NetSettlement)
}

func TestCashSummary_InvertedWindow(t *testing.T) {
	uc, d := setupTestUsecase(t)
	from := time.Now()
	to := from.Add(-time.Hour)

	_, err := uc.CashSummary(context.Background(), CashSummaryRequest{DriverID: 4, From: &from, To: &to})

	var ve *pkgerrors.ValidationError
	assert.ErrorAs(t, err, &ve)
	d.drivers.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
