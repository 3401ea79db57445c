package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"grocery-delivery-service/internal/usecase/auth"
	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/token"
)

type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) Register(ctx context.Context, in auth.RegisterRequest) (*auth.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, in auth.LoginRequest) (*auth.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockAuthUsecase) Me(ctx context.Context, accountID int64, role string) (*auth.Profile, error) {
	args := m.Called(ctx, accountID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Profile), args.Error(1)
}

func (m *MockAuthUsecase) ForgotPassword(ctx context.Context, in auth.ForgotPasswordRequest) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAuthUsecase) ResetPassword(ctx context.Context, in auth.ResetPasswordRequest) error {
	return m.Called(ctx, in).Error(0)
}

func setupAuthTest(t *testing.T) (*AuthHandler, *MockAuthUsecase) {
	uc := new(MockAuthUsecase)
	h := NewAuthHandler(uc, CookieConfig{Name: "token", Secure: true}, zaptest.NewLogger(t))
	return h, uc
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("Success sets session cookie", func(t *testing.T) {
		h, uc := setupAuthTest(t)
		r := newTestEngine()
		r.POST("/auth/login", h.Login)

		expires := time.Now().Add(time.Hour)
		uc.On("Login", mock.Anything, auth.LoginRequest{Email: "ann@example.com", Password: "secret123", Role: "user"}).
			Return(&auth.Session{Token: "jwt-value", ExpiresAt: expires, Profile: &auth.Profile{ID: 7, Role: "user", Name: "Ann"}}, nil)

		w := serve(r, http.MethodPost, "/auth/login", auth.LoginRequest{Email: "ann@example.com", Password: "secret123", Role: "user"}, "")

		assert.Equal(t, http.StatusOK, w.Code)
		cookie := w.Header().Get("Set-Cookie")
		assert.True(t, strings.HasPrefix(cookie, "token=jwt-value"))
		assert.Contains(t, cookie, "HttpOnly")
		assert.Contains(t, cookie, "Secure")
		assert.Contains(t, cookie, "SameSite=Lax")

		var got SessionResponse
		env := decode(t, w, &got)
		assert.True(t, env.Success)
		assert.Equal(t, "jwt-value", got.Token)
		assert.Equal(t, int64(7), got.Profile.ID)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		h, uc := setupAuthTest(t)
		r := newTestEngine()
		r.POST("/auth/login", h.Login)

		uc.On("Login", mock.Anything, mock.Anything).Return(nil, pkgerrors.ErrInvalidCredentials)

		w := serve(r, http.MethodPost, "/auth/login", map[string]string{"email": "ann@example.com", "password": "nope"}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
		env := decode(t, w, nil)
		assert.False(t, env.Success)
		assert.Equal(t, "invalid email or password", env.Message)
	})

	t.Run("Malformed body", func(t *testing.T) {
		h, _ := setupAuthTest(t)
		r := newTestEngine()
		r.POST("/auth/login", h.Login)

		w := serve(r, http.MethodPost, "/auth/login", "invalid json", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	h, uc := setupAuthTest(t)
	r := newTestEngine()
	r.POST("/auth/register", h.Register)

	uc.On("Register", mock.Anything, mock.MatchedBy(func(in auth.RegisterRequest) bool {
		return in.Email == "bob@example.com" && in.Name == "Bob"
	})).Return(&auth.Session{Token: "t", ExpiresAt: time.Now().Add(time.Hour), Profile: &auth.Profile{ID: 1, Role: "user"}}, nil)

	w := serve(r, http.MethodPost, "/auth/register", map[string]string{
		"name": "Bob", "email": "bob@example.com", "phone": "5551234", "password": "passw0rd!",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=t")
	uc.AssertExpectations(t)
}

func TestAuthHandler_Logout(t *testing.T) {
	h, _ := setupAuthTest(t)
	r := newTestEngine()
	r.POST("/auth/logout", h.Logout)

	w := serve(r, http.MethodPost, "/auth/logout", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=;")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("Uses the session account", func(t *testing.T) {
		h, uc := setupAuthTest(t)
		r := newTestEngine()
		authed(r).GET("/auth/me", h.Me)

		uc.On("Me", mock.Anything, int64(3), token.RoleDriver).
			Return(&auth.Profile{ID: 3, Role: token.RoleDriver, Name: "Dee", OnDuty: true}, nil)

		w := serve(r, http.MethodGet, "/auth/me", nil, bearer(t, 3, token.RoleDriver))

		assert.Equal(t, http.StatusOK, w.Code)
		var got ProfileResponse
		decode(t, w, &got)
		assert.Equal(t, "Dee", got.Name)
		assert.True(t, got.OnDuty)
	})

	t.Run("Without session", func(t *testing.T) {
		h, uc := setupAuthTest(t)
		r := newTestEngine()
		authed(r).GET("/auth/me", h.Me)

		w := serve(r, http.MethodGet, "/auth/me", nil, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		uc.AssertNotCalled(t, "Me", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	h, uc := setupAuthTest(t)
	r := newTestEngine()
	r.POST("/auth/forgot-password", h.ForgotPassword)
	r.POST("/auth/reset-password", h.ResetPassword)

	uc.On("ForgotPassword", mock.Anything, auth.ForgotPasswordRequest{Email: "ann@example.com"}).Return(nil)
	uc.On("ResetPassword", mock.Anything, mock.Anything).Return(pkgerrors.NewValidationError("code", "invalid or expired code"))

	w := serve(r, http.MethodPost, "/auth/forgot-password", map[string]string{"email": "ann@example.com"}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodPost, "/auth/reset-password", map[string]string{"email": "ann@example.com", "code": "000000", "new_password": "passw0rd!"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "validation_error", env.Error)
}
