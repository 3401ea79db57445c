package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/admin"
	"grocery-delivery-service/internal/usecase/admin"
	"grocery-delivery-service/internal/usecase/shared"
)

// AdminUsecase is what AdminHandler needs from the admin usecase.
type AdminUsecase interface {
	CreateAdmin(ctx context.Context, in admin.CreateAdminRequest) (*domain.Admin, error)
	ListAdmins(ctx context.Context, page, limit int64) (*admin.ListAdminsResponse, error)
	DeleteAdmin(ctx context.Context, actor shared.Actor, id int64) error
}

// AdminHandler handles superadmin management of admin accounts.
type AdminHandler struct {
	uc  AdminUsecase
	log *zap.Logger
}

func NewAdminHandler(uc AdminUsecase, log *zap.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, log: log}
}

// Create handles POST /api/admin/admins
func (h *AdminHandler) Create(c *gin.Context) {
	var req admin.CreateAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.uc.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "admin created", toAdminResponse(a))
}

// List handles GET /api/admin/admins
func (h *AdminHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	resp, err := h.uc.ListAdmins(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]AdminResponse, len(resp.Admins))
	for i := range resp.Admins {
		out[i] = toAdminResponse(&resp.Admins[i])
	}
	respondPage(c, out, resp.Pagination)
}

// Delete handles DELETE /api/admin/admins/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.uc.DeleteAdmin(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "admin deleted", nil)
}
