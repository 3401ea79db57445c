package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "grocery-delivery-service/internal/domain/user"
	pkgerrors "grocery-delivery-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *MockRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	return m.Called(ctx, id, blocked).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) List(ctx context.Context, f domain.Filter) ([]domain.User, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }
func (plainHasher) Compare(hash, pw string) bool  { return hash == "hashed:"+pw }

func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	uc := New(mockRepo, plainHasher{}, zaptest.NewLogger(t))
	return uc, mockRepo
}

// ==================== PROFILE ====================

func TestGetProfile_InvalidID(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	_, err := uc.GetProfile(context.Background(), 0)
	var ve *pkgerrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: 1, Name: "Old", Phone: "5550000", Address: "1 Main St"}
	mockRepo.On("GetByID", ctx, int64(1)).Return(existing, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "New Name" && u.Phone == "5550000" && u.Address == ""
	})).Return(nil)

	empty := ""
	u, err := uc.UpdateProfile(ctx, UpdateProfileRequest{ID: 1, Name: "New Name", Address: &empty})

	require.NoError(t, err)
	assert.Equal(t, "New Name", u.Name)
	mockRepo.AssertExpectations(t)
}

func TestUpdateProfile_FutureBirthDate(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	future := time.Now().AddDate(1, 0, 0)

	_, err := uc.UpdateProfile(context.Background(), UpdateProfileRequest{ID: 1, DateOfBirth: &future})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date_of_birth")
}

func TestUpdateProfile_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(9)).Return(nil, pkgerrors.NewNotFoundError("user", "user not found"))

	_, err := uc.UpdateProfile(ctx, UpdateProfileRequest{ID: 9, Name: "Someone"})
	assert.True(t, pkgerrors.IsNotFound(err))
}

// ==================== PASSWORD ====================

func TestChangePassword_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, PasswordHash: "hashed:oldpass12"}, nil)
	mockRepo.On("UpdatePassword", ctx, int64(1), "hashed:newpass34").Return(nil)

	err := uc.ChangePassword(ctx, ChangePasswordRequest{ID: 1, CurrentPassword: "oldpass12", NewPassword: "newpass34"})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, PasswordHash: "hashed:oldpass12"}, nil)

	err := uc.ChangePassword(ctx, ChangePasswordRequest{ID: 1, CurrentPassword: "guess1234", NewPassword: "newpass34"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "current_password")
	mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_Weak(t *testing.T) {
	uc, _ := setupTestUsecase(t)

	err := uc.ChangePassword(context.Background(), ChangePasswordRequest{ID: 1, CurrentPassword: "x", NewPassword: "12345678"})

	var ve *pkgerrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "new_password", ve.Field)
}

// ==================== ADMIN ====================

func TestListUsers_NormalizesPaging(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	blocked := true
	mockRepo.On("List", ctx, domain.Filter{Query: "jane", Blocked: &blocked, Page: 1, Limit: 100}).
		Return([]domain.User{{ID: 1}, {ID: 2}}, int64(201), nil)

	resp, err := uc.ListUsers(ctx, ListUsersRequest{Query: "jane", Blocked: &blocked, Page: 0, Limit: 500})

	require.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, int64(3), resp.Pagination.TotalPages)
}

func TestSetBlocked(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("SetBlocked", ctx, int64(5), true).Return(nil)

	assert.NoError(t, uc.SetBlocked(ctx, 5, true))
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_Referenced(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(5)).Return(pkgerrors.NewConflictError("user is referenced by other records"))

	err := uc.DeleteUser(ctx, 5)
	var ce *pkgerrors.ConflictError
	assert.ErrorAs(t, err, &ce)
}
