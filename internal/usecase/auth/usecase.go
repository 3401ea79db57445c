package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/domain/admin"
	"grocery-delivery-service/internal/domain/driver"
	"grocery-delivery-service/internal/domain/user"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/security"
	"grocery-delivery-service/pkg/token"
)

const (
	otpTTL    = 10 * time.Minute
	otpDigits = 6
)

// Usecase implements authentication for users, admins and drivers.
type Usecase struct {
	users    UserRepository
	admins   AdminRepository
	drivers  DriverRepository
	tokens   TokenIssuer
	hasher   shared.PasswordHasher
	otp      OTPStore
	mailer   shared.Mailer
	log      *zap.Logger
	validate *validator.Validate

	dummyOnce sync.Once
	dummyHash string
}

// New creates a new authentication usecase.
func New(
	users UserRepository,
	admins AdminRepository,
	drivers DriverRepository,
	tokens TokenIssuer,
	hasher shared.PasswordHasher,
	otp OTPStore,
	mailer shared.Mailer,
	log *zap.Logger,
) *Usecase {
	return &Usecase{
		users:    users,
		admins:   admins,
		drivers:  drivers,
		tokens:   tokens,
		hasher:   hasher,
		otp:      otp,
		mailer:   mailer,
		log:      log,
		validate: shared.NewValidator(),
	}
}

// Register creates a customer account and signs it in.
func (uc *Usecase) Register(ctx context.Context, in RegisterRequest) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	uc.log.Info("registering user", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, shared.FormatValidationError(err)
	}
	if err := security.CheckPasswordStrength(in.Password); err != nil {
		return nil, pkgerrors.NewValidationError("password", err.Error())
	}
	if in.DateOfBirth != nil && in.DateOfBirth.After(time.Now()) {
		return nil, pkgerrors.NewValidationError("date_of_birth", "cannot be in the future")
	}

	existing, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, pkgerrors.NewAlreadyExistsError("user", "email already exists")
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to hash password", err)
	}

	u := &user.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Address:      in.Address,
		DateOfBirth:  in.DateOfBirth,
	}
	id, err := uc.users.Create(ctx, u)
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	u.ID = id

	return uc.issue(userProfile(u))
}

// Login verifies credentials for the requested role and issues a session.
func (uc *Usecase) Login(ctx context.Context, in LoginRequest) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = token.RoleUser
	}

	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}

	var (
		profile *Profile
		hash    string
	)
	switch in.Role {
	case token.RoleUser:
		u, err := uc.users.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, pkgerrors.NewInternalError("failed to load account", err)
		}
		if u == nil {
			break
		}
		if u.Blocked && uc.hasher.Compare(u.PasswordHash, in.Password) {
			return nil, pkgerrors.NewForbiddenError("account is blocked")
		}
		profile, hash = userProfile(u), u.PasswordHash
	case token.RoleAdmin:
		a, err := uc.admins.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, pkgerrors.NewInternalError("failed to load account", err)
		}
		if a != nil {
			profile, hash = adminProfile(a), a.PasswordHash
		}
	case token.RoleDriver:
		d, err := uc.drivers.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, pkgerrors.NewInternalError("failed to load account", err)
		}
		if d != nil {
			profile, hash = driverProfile(d), d.PasswordHash
		}
	}

	if profile == nil {
		// same bcrypt cost as a real account, so response time does not reveal the email
		hash = uc.missingAccountHash()
	}
	if !uc.hasher.Compare(hash, in.Password) || profile == nil {
		uc.log.Warn("login failed", zap.String("email", in.Email), zap.String("role", in.Role))
		return nil, pkgerrors.ErrInvalidCredentials
	}

	uc.log.Info("login succeeded", zap.Int64("id", profile.ID), zap.String("role", profile.Role))
	return uc.issue(profile)
}

func (uc *Usecase) missingAccountHash() string {
	uc.dummyOnce.Do(func() {
		h, err := uc.hasher.Hash("missing-account-placeholder")
		if err != nil {
			uc.log.Error("failed to prepare placeholder hash", zap.Error(err))
			return
		}
		uc.dummyHash = h
	})
	return uc.dummyHash
}

// Me returns the profile of the signed-in account.
func (uc *Usecase) Me(ctx context.Context, accountID int64, role string) (*Profile, error) {
	switch role {
	case token.RoleUser:
		u, err := uc.users.GetByID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return userProfile(u), nil
	case token.RoleAdmin, token.RoleSuperAdmin:
		a, err := uc.admins.GetByID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return adminProfile(a), nil
	case token.RoleDriver:
		d, err := uc.drivers.GetByID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return driverProfile(d), nil
	default:
		return nil, pkgerrors.ErrUnauthorized
	}
}

// ForgotPassword emails a reset code to a customer.
// Unknown emails succeed silently so accounts cannot be enumerated.
func (uc *Usecase) ForgotPassword(ctx context.Context, in ForgotPasswordRequest) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := uc.validate.Struct(in); err != nil {
		return shared.FormatValidationError(err)
	}

	u, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return pkgerrors.NewInternalError("failed to load account", err)
	}
	if u == nil {
		uc.log.Info("password reset requested for unknown email", zap.String("email", in.Email))
		return nil
	}

	code, err := newOTP()
	if err != nil {
		return pkgerrors.NewInternalError("failed to generate code", err)
	}
	if err := uc.otp.Save(ctx, u.Email, code, otpTTL); err != nil {
		return pkgerrors.NewInternalError("failed to store code", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nYour password reset code is %s. It expires in %d minutes.\n\nIf you did not ask for this, you can ignore this email.\n",
		u.Name, code, int(otpTTL.Minutes()))
	if err := uc.mailer.Send(ctx, []string{u.Email}, "Your password reset code", body); err != nil {
		uc.log.Error("failed to send reset email", zap.String("email", u.Email), zap.Error(err))
		return pkgerrors.NewInternalError("failed to send email", err)
	}
	return nil
}

// ResetPassword sets a new password after verifying the emailed code.
func (uc *Usecase) ResetPassword(ctx context.Context, in ResetPasswordRequest) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := uc.validate.Struct(in); err != nil {
		return shared.FormatValidationError(err)
	}
	if err := security.CheckPasswordStrength(in.NewPassword); err != nil {
		return pkgerrors.NewValidationError("new_password", err.Error())
	}

	if err := uc.otp.Verify(ctx, in.Email, in.Code); err != nil {
		var ve *pkgerrors.ValidationError
		if errors.As(err, &ve) {
			return err
		}
		return pkgerrors.NewInternalError("failed to verify code", err)
	}

	u, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return pkgerrors.NewInternalError("failed to load account", err)
	}
	if u == nil {
		return pkgerrors.NewNotFoundError("user", "user not found")
	}

	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return pkgerrors.NewInternalError("failed to hash password", err)
	}
	if err := uc.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	uc.log.Info("password reset", zap.Int64("user_id", u.ID))
	return nil
}

func (uc *Usecase) issue(p *Profile) (*Session, error) {
	tok, exp, err := uc.tokens.Issue(p.ID, p.Role)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to issue token", err)
	}
	return &Session{Token: tok, ExpiresAt: exp, Profile: p}, nil
}

func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

func userProfile(u *user.User) *Profile {
	return &Profile{
		ID:          u.ID,
		Role:        token.RoleUser,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Address:     u.Address,
		DateOfBirth: u.DateOfBirth,
	}
}

func adminProfile(a *admin.Admin) *Profile {
	role := token.RoleAdmin
	if a.IsSuperAdmin() {
		role = token.RoleSuperAdmin
	}
	return &Profile{ID: a.ID, Role: role, Name: a.Name, Email: a.Email}
}

func driverProfile(d *driver.Driver) *Profile {
	return &Profile{
		ID:             d.ID,
		Role:           token.RoleDriver,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		VehicleNumber:  d.VehicleNumber,
		Active:         d.Active,
		OnDuty:         d.OnDuty,
		PendingBalance: d.PendingBalance(),
	}
}
