package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/user"
	"grocery-delivery-service/internal/usecase/user"
)

// UserUsecase is what UserHandler needs from the user usecase.
type UserUsecase interface {
	GetProfile(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, in user.UpdateProfileRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, in user.ChangePasswordRequest) error
	ListUsers(ctx context.Context, in user.ListUsersRequest) (*user.ListUsersResponse, error)
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	DeleteUser(ctx context.Context, id int64) error
}

// UserHandler handles customer self-service and the admin user screens.
type UserHandler struct {
	uc  UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{uc: uc, log: log}
}

// SetBlockedRequest is the body of the block endpoint.
type SetBlockedRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

// UpdateMe handles PUT /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req user.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID = actor(c).ID

	u, err := h.uc.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "profile updated", toUserResponse(u))
}

// ChangePassword handles PUT /api/users/me/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req user.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID = actor(c).ID

	if err := h.uc.ChangePassword(c.Request.Context(), req); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "password changed", nil)
}

// List handles GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{
		Query:   c.Query("q"),
		Blocked: queryBool(c, "blocked"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		out[i] = toUserResponse(&resp.Users[i])
	}
	respondPage(c, out, resp.Pagination)
}

// Get handles GET /api/admin/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.uc.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toUserResponse(u))
}

// SetBlocked handles PATCH /api/admin/users/:id/block
func (h *UserHandler) SetBlocked(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req SetBlockedRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.uc.SetBlocked(c.Request.Context(), id, *req.Blocked); err != nil {
		respondError(c, h.log, err)
		return
	}
	msg := "user unblocked"
	if *req.Blocked {
		msg = "user blocked"
	}
	respond(c, http.StatusOK, msg, nil)
}

// Delete handles DELETE /api/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "user deleted", nil)
}
