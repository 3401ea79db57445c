package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/domain/driver"
	domain "grocery-delivery-service/internal/domain/payout"
	"grocery-delivery-service/internal/usecase/payout"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/token"
)

type MockPayoutUsecase struct {
	mock.Mock
}

func (m *MockPayoutUsecase) PayDriver(ctx context.Context, actor shared.Actor, in payout.PayDriverRequest) (*payout.PayDriverResponse, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.PayDriverResponse), args.Error(1)
}

func (m *MockPayoutUsecase) ListEarnings(ctx context.Context, driverID, page, limit int64) (*payout.ListEarningsResponse, error) {
	args := m.Called(ctx, driverID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.ListEarningsResponse), args.Error(1)
}

func (m *MockPayoutUsecase) ListPayments(ctx context.Context, driverID, page, limit int64) (*payout.ListPaymentsResponse, error) {
	args := m.Called(ctx, driverID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.ListPaymentsResponse), args.Error(1)
}

func (m *MockPayoutUsecase) CashSummary(ctx context.Context, in payout.CashSummaryRequest) (*domain.CashSummary, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSummary), args.Error(1)
}

func setupPayoutTest(t *testing.T) (*PayoutHandler, *MockPayoutUsecase) {
	uc := new(MockPayoutUsecase)
	return NewPayoutHandler(uc, zaptest.NewLogger(t)), uc
}

func TestPayoutHandler_Pay(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, uc := setupPayoutTest(t)
		r := newTestEngine()
		authed(r).POST("/admin/drivers/:id/pay", h.Pay)

		admin := shared.Actor{ID: 1, Role: token.RoleAdmin}
		uc.On("PayDriver", mock.Anything, admin, payout.PayDriverRequest{DriverID: 4, Amount: 30, Method: "cash"}).
			Return(&payout.PayDriverResponse{
				Payment: &domain.Payment{ID: 8, DriverID: 4, AdminID: 1, Amount: 30, Method: "cash"},
				Driver:  &driver.Driver{ID: 4, TotalEarnings: 50, TotalPaid: 30},
			}, nil)

		w := serve(r, http.MethodPost, "/admin/drivers/4/pay", map[string]any{"amount": 30, "method": "cash"}, bearer(t, 1, token.RoleAdmin))

		assert.Equal(t, http.StatusCreated, w.Code)
		var got PayResponse
		decode(t, w, &got)
		assert.Equal(t, int64(8), got.Payment.ID)
		assert.Equal(t, 20.0, got.Driver.PendingBalance)
	})

	t.Run("Overpayment", func(t *testing.T) {
		h, uc := setupPayoutTest(t)
		r := newTestEngine()
		authed(r).POST("/admin/drivers/:id/pay", h.Pay)

		uc.On("PayDriver", mock.Anything, mock.Anything, mock.Anything).Return(nil, pkgerrors.ErrInsufficientBalance)

		w := serve(r, http.MethodPost, "/admin/drivers/4/pay", map[string]any{"amount": 999}, bearer(t, 1, token.RoleAdmin))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w, nil).Message, "insufficient balance")
	})
}

func TestPayoutHandler_Earnings(t *testing.T) {
	h, uc := setupPayoutTest(t)
	r := newTestEngine()
	g := authed(r)
	g.GET("/drivers/me/earnings", h.Earnings)
	g.GET("/admin/drivers/:id/earnings", h.Earnings)

	resp := &payout.ListEarningsResponse{
		Earnings:   []domain.Earning{{ID: 1, DriverID: 4, OrderID: 10, Amount: 2.4}},
		Pagination: common.NewPagination(1, 1, 10),
	}
	uc.On("ListEarnings", mock.Anything, int64(4), int64(1), int64(10)).Return(resp, nil)
	uc.On("ListEarnings", mock.Anything, int64(6), int64(1), int64(10)).Return(resp, nil)

	w := serve(r, http.MethodGet, "/drivers/me/earnings", nil, bearer(t, 4, token.RoleDriver))
	assert.Equal(t, http.StatusOK, w.Code)
	var got []EarningResponse
	decode(t, w, &got)
	assert.Equal(t, 2.4, got[0].Amount)

	w = serve(r, http.MethodGet, "/admin/drivers/6/earnings", nil, bearer(t, 1, token.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestPayoutHandler_CashSummary(t *testing.T) {
	h, uc := setupPayoutTest(t)
	r := newTestEngine()
	authed(r).GET("/drivers/me/cash-summary", h.CashSummary)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	uc.On("CashSummary", mock.Anything, mock.MatchedBy(func(in payout.CashSummaryRequest) bool {
		return in.DriverID == 4 && in.From != nil && in.From.Equal(from) && in.To == nil
	})).Return(&domain.CashSummary{DriverID: 4, Deliveries: 3, CashCollected: 40, PendingBalance: 6, NetSettlement: 34}, nil)

	w := serve(r, http.MethodGet, "/drivers/me/cash-summary?from=2026-05-01", nil, bearer(t, 4, token.RoleDriver))

	assert.Equal(t, http.StatusOK, w.Code)
	var got CashSummaryResponse
	decode(t, w, &got)
	assert.Equal(t, 34.0, got.NetSettlement)
	assert.Equal(t, int64(3), got.Deliveries)
}
