package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/usecase/auth"
)

// AuthUsecase is what AuthHandler needs from the auth usecase.
type AuthUsecase interface {
	Register(ctx context.Context, in auth.RegisterRequest) (*auth.Session, error)
	Login(ctx context.Context, in auth.LoginRequest) (*auth.Session, error)
	Me(ctx context.Context, accountID int64, role string) (*auth.Profile, error)
	ForgotPassword(ctx context.Context, in auth.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, in auth.ResetPasswordRequest) error
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// AuthHandler handles session endpoints under /api/auth.
type AuthHandler struct {
	uc     AuthUsecase
	cookie CookieConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc AuthUsecase, cookie CookieConfig, log *zap.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &AuthHandler{uc: uc, cookie: cookie, log: log, now: time.Now}
}

func (h *AuthHandler) setSession(c *gin.Context, s *auth.Session) {
	maxAge := int(s.ExpiresAt.Sub(h.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, s.Token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func sessionResponse(s *auth.Session) SessionResponse {
	return SessionResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, Profile: toProfileResponse(s.Profile)}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.uc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.setSession(c, s)
	respond(c, http.StatusCreated, "account created", sessionResponse(s))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.uc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.setSession(c, s)
	respond(c, http.StatusOK, "logged in", sessionResponse(s))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	respond(c, http.StatusOK, "logged out", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	a := actor(c)
	p, err := h.uc.Me(c.Request.Context(), a.ID, a.Role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toProfileResponse(p))
}

// ForgotPassword handles POST /api/auth/forgot-password. The reply is the same
// whether or not the email belongs to an account.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req auth.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.uc.ForgotPassword(c.Request.Context(), req); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "if the email is registered, a reset code has been sent", nil)
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.uc.ResetPassword(c.Request.Context(), req); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "password updated", nil)
}
