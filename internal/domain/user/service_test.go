package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, login, passwordHash string) (int, error) {
	args := m.Called(ctx, login, passwordHash)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindByLogin(ctx context.Context, login string) (User, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPasswordValidator(), slog.Default())

	login := "testuser"
	password := "Testpassword123!"

	// We can't predict the exact hash, so check Create is called with
	// the login and a non-empty hash
	mockRepo.On("Create", mock.Anything, login, mock.MatchedBy(func(hash string) bool {
		return hash != ""
	})).Return(123, nil)

	userID, err := service.Register(context.Background(), login, password)
	assert.NoError(t, err)
	assert.Equal(t, 123, userID)

	mockRepo.AssertExpectations(t)
}

func TestService_Register_InvalidPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPasswordValidator(), slog.Default())

	_, err := service.Register(context.Background(), "testuser", "weak")
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockRepo.AssertNotCalled(t, "Create")
}

func TestService_Register_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPasswordValidator(), slog.Default())

	login := "testuser"
	password := "Testpassword123!"

	mockRepo.On("Create", mock.Anything, login, mock.AnythingOfType("string")).Return(0, errors.New("database error"))

	_, err := service.Register(context.Background(), login, password)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")

	mockRepo.AssertExpectations(t)
}

func TestService_Authenticate_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPasswordValidator(), slog.Default())

	login := "testuser"
	password := "Testpassword123!"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)

	u := User{
		ID:       123,
		Login:    login,
		Password: string(hash),
	}

	mockRepo.On("FindByLogin", mock.Anything, login).Return(u, nil)

	authUser, err := service.Authenticate(context.Background(), login, password)
	assert.NoError(t, err)
	assert.Equal(t, u, authUser)

	mockRepo.AssertExpectations(t)
}

func TestService_Authenticate_UserNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPasswordValidator(), slog.Default())

	login := "nonexistent"

	mockRepo.On("FindByLogin", mock.Anything, login).Return(User{}, errors.New("no rows"))

	_, err := service.Authenticate(context.Background(), login, "Testpassword123!")
	assert.ErrorIs(t, err, ErrNotFound)

	mockRepo.AssertExpectations(t)
}

func TestService_Authenticate_InvalidPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewPasswordValidator(), slog.Default())

	login := "testuser"

	hash, err := bcrypt.GenerateFromPassword([]byte("Correctpassword1!"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	mockRepo.On("FindByLogin", mock.Anything, login).Return(User{ID: 1, Login: login, Password: string(hash)}, nil)

	_, err = service.Authenticate(context.Background(), login, "Wrongpassword1!")
	assert.ErrorIs(t, err, ErrInvalidAuth)

	mockRepo.AssertExpectations(t)
}
