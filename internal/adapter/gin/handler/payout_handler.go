package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/payout"
	"grocery-delivery-service/internal/usecase/payout"
	"grocery-delivery-service/internal/usecase/shared"
)

// PayoutUsecase is what PayoutHandler needs from the payout usecase.
type PayoutUsecase interface {
	PayDriver(ctx context.Context, actor shared.Actor, in payout.PayDriverRequest) (*payout.PayDriverResponse, error)
	ListEarnings(ctx context.Context, driverID, page, limit int64) (*payout.ListEarningsResponse, error)
	ListPayments(ctx context.Context, driverID, page, limit int64) (*payout.ListPaymentsResponse, error)
	CashSummary(ctx context.Context, in payout.CashSummaryRequest) (*domain.CashSummary, error)
}

// PayoutHandler serves driver earnings, payments and settlement. Every
// endpoint exists twice: under /api/admin/drivers/:id for admins and under
// /api/drivers/me for the driver.
type PayoutHandler struct {
	uc  PayoutUsecase
	log *zap.Logger
}

func NewPayoutHandler(uc PayoutUsecase, log *zap.Logger) *PayoutHandler {
	return &PayoutHandler{uc: uc, log: log}
}

// PayResponse is the reply of a payout.
type PayResponse struct {
	Payment PaymentResponse `json:"payment"`
	Driver  DriverResponse  `json:"driver"`
}

// targetDriver resolves the driver from the path, or the caller on /me routes.
func targetDriver(c *gin.Context) (int64, bool) {
	if c.Param("id") == "" {
		return actor(c).ID, true
	}
	return pathID(c, "id")
}

// Earnings handles GET /api/admin/drivers/:id/earnings and /api/drivers/me/earnings
func (h *PayoutHandler) Earnings(c *gin.Context) {
	id, ok := targetDriver(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	resp, err := h.uc.ListEarnings(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]EarningResponse, len(resp.Earnings))
	for i := range resp.Earnings {
		out[i] = toEarningResponse(&resp.Earnings[i])
	}
	respondPage(c, out, resp.Pagination)
}

// Payments handles GET /api/admin/drivers/:id/payments and /api/drivers/me/payments
func (h *PayoutHandler) Payments(c *gin.Context) {
	id, ok := targetDriver(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	resp, err := h.uc.ListPayments(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]PaymentResponse, len(resp.Payments))
	for i := range resp.Payments {
		out[i] = toPaymentResponse(&resp.Payments[i])
	}
	respondPage(c, out, resp.Pagination)
}

// CashSummary handles GET /api/admin/drivers/:id/cash-summary and /api/drivers/me/cash-summary
func (h *PayoutHandler) CashSummary(c *gin.Context) {
	id, ok := targetDriver(c)
	if !ok {
		return
	}
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	s, err := h.uc.CashSummary(c.Request.Context(), payout.CashSummaryRequest{DriverID: id, From: from, To: to})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toCashSummaryResponse(s))
}

// Pay handles POST /api/admin/drivers/:id/pay
func (h *PayoutHandler) Pay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req payout.PayDriverRequest
	if !bindJSON(c, &req) {
		return
	}
	req.DriverID = id

	resp, err := h.uc.PayDriver(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "payment recorded", PayResponse{
		Payment: toPaymentResponse(resp.Payment),
		Driver:  toDriverResponse(resp.Driver),
	})
}
