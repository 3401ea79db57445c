package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/driver"
	"grocery-delivery-service/internal/usecase/driver"
)

// DriverUsecase is what DriverHandler needs from the driver usecase.
type DriverUsecase interface {
	CreateDriver(ctx context.Context, in driver.CreateDriverRequest) (*domain.Driver, error)
	GetDriver(ctx context.Context, id int64) (*domain.Driver, error)
	UpdateDriver(ctx context.Context, in driver.UpdateDriverRequest) (*domain.Driver, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.Driver, error)
	SetDuty(ctx context.Context, id int64, onDuty bool) (*domain.Driver, error)
	DeleteDriver(ctx context.Context, id int64) error
	ListDrivers(ctx context.Context, in driver.ListDriversRequest) (*driver.ListDriversResponse, error)
}

// DriverHandler handles driver accounts, both the admin screens and the
// driver's own profile.
type DriverHandler struct {
	uc  DriverUsecase
	log *zap.Logger
}

func NewDriverHandler(uc DriverUsecase, log *zap.Logger) *DriverHandler {
	return &DriverHandler{uc: uc, log: log}
}

// SetActiveRequest is the body of the activate endpoint.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetDutyRequest is the body of the duty toggle.
type SetDutyRequest struct {
	OnDuty *bool `json:"on_duty" binding:"required"`
}

// Create handles POST /api/admin/drivers
func (h *DriverHandler) Create(c *gin.Context) {
	var req driver.CreateDriverRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.uc.CreateDriver(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "driver created", toDriverResponse(d))
}

// List handles GET /api/admin/drivers
func (h *DriverHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	resp, err := h.uc.ListDrivers(c.Request.Context(), driver.ListDriversRequest{
		Query:  c.Query("q"),
		Active: queryBool(c, "active"),
		OnDuty: queryBool(c, "on_duty"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]DriverResponse, len(resp.Drivers))
	for i := range resp.Drivers {
		out[i] = toDriverResponse(&resp.Drivers[i])
	}
	respondPage(c, out, resp.Pagination)
}

// Get handles GET /api/admin/drivers/:id
func (h *DriverHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.reply(c, id)
}

// Me handles GET /api/drivers/me
func (h *DriverHandler) Me(c *gin.Context) {
	h.reply(c, actor(c).ID)
}

func (h *DriverHandler) reply(c *gin.Context, id int64) {
	d, err := h.uc.GetDriver(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toDriverResponse(d))
}

// Update handles PUT /api/admin/drivers/:id
func (h *DriverHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req driver.UpdateDriverRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID = id

	d, err := h.uc.UpdateDriver(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "driver updated", toDriverResponse(d))
}

// SetActive handles PATCH /api/admin/drivers/:id/active
func (h *DriverHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.uc.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "driver updated", toDriverResponse(d))
}

// SetDuty handles PUT /api/drivers/me/duty
func (h *DriverHandler) SetDuty(c *gin.Context) {
	var req SetDutyRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.uc.SetDuty(c.Request.Context(), actor(c).ID, *req.OnDuty)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	msg := "off duty"
	if d.OnDuty {
		msg = "on duty"
	}
	respond(c, http.StatusOK, msg, toDriverResponse(d))
}

// Delete handles DELETE /api/admin/drivers/:id
func (h *DriverHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.uc.DeleteDriver(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "driver deleted", nil)
}
