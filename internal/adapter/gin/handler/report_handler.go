package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/report"
	"grocery-delivery-service/internal/usecase/report"
)

// ReportUsecase is what ReportHandler needs from the report usecase.
type ReportUsecase interface {
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	SalesReport(ctx context.Context, in report.SalesReportRequest) (*domain.Sales, error)
	SalesReportPDF(ctx context.Context, in report.SalesReportRequest, w io.Writer) error
	LowStock(ctx context.Context) ([]domain.LowStockItem, error)
	SendLowStockAlert(ctx context.Context) (int, error)
}

type ReportHandler struct {
	uc  ReportUsecase
	log *zap.Logger
}

func NewReportHandler(uc ReportUsecase, log *zap.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// Dashboard handles GET /api/admin/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.uc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toDashboardResponse(d))
}

func salesRequest(c *gin.Context) (report.SalesReportRequest, bool) {
	from, to, ok := queryRange(c)
	return report.SalesReportRequest{From: from, To: to}, ok
}

// Sales handles GET /api/admin/reports/sales
func (h *ReportHandler) Sales(c *gin.Context) {
	req, ok := salesRequest(c)
	if !ok {
		return
	}
	s, err := h.uc.SalesReport(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toSalesResponse(s))
}

// SalesPDF handles GET /api/admin/reports/sales.pdf
func (h *ReportHandler) SalesPDF(c *gin.Context) {
	req, ok := salesRequest(c)
	if !ok {
		return
	}

	// Render into memory so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.uc.SalesReportPDF(c.Request.Context(), req, &buf); err != nil {
		respondError(c, h.log, err)
		return
	}

	name := "sales-report.pdf"
	if req.From != nil && req.To != nil {
		name = fmt.Sprintf("sales-%s-%s.pdf", req.From.Format("20060102"), req.To.Format("20060102"))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// LowStock handles GET /api/admin/reports/low-stock
func (h *ReportHandler) LowStock(c *gin.Context) {
	items, err := h.uc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toLowStockResponses(items))
}

// SendLowStockAlert handles POST /api/admin/reports/low-stock/alert
func (h *ReportHandler) SendLowStockAlert(c *gin.Context) {
	n, err := h.uc.SendLowStockAlert(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("alert covers %d products", n), gin.H{"products": n})
}
