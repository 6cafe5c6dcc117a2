package services_test

import (
	"fmt"
	"testing"
	"time"

	"pizzaria/internal/models"
	"pizzaria/internal/repositories"
	"pizzaria/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.Profile, roles ...models.Role) error {
	args := m.Called(user, roles)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.Profile, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.Profile, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.Profile, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.Profile, error) {
	args := m.Called()
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *MockUserRepository) SetRoles(userID string, roles ...models.Role) error {
	args := m.Called(userID, roles)
	return args.Error(0)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.Profile{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", user.Email).Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Profile"), []models.Role{models.RoleStaff}).Return(nil).Once()

	err := authService.RegisterUser(user, models.RoleStaff)
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", user.Username).Return(&models.Profile{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.ErrorIs(t, err, services.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "username 'maria'")
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", user.Email).Return(&models.Profile{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.ErrorIs(t, err, services.ErrAlreadyExists)
	mockRepo.AssertExpectations(t)

	// Unknown role
	mockRepo.On("GetByUsername", "joao").Return(nil, nil).Once()
	mockRepo.On("GetByEmail", "joao@example.com").Return(nil, nil).Once()
	err = authService.RegisterUser(&models.Profile{Username: "joao", Email: "joao@example.com", Password: "secret1"}, models.Role("owner"))
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.Profile{
		ID:       "user-123",
		Username: "maria",
		Email:    "maria@example.com",
		Password: string(hashedPassword),
		Roles:    []models.UserRole{{UserID: "user-123", Role: models.RoleAdmin}},
	}

	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	token, err := authService.LoginUser("maria", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, []models.Role{models.RoleAdmin}, services.ClaimRoles(claims))
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, err = authService.LoginUser("maria", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Unknown user
	mockRepo.On("GetByUsername", "ghost").Return(nil, fmt.Errorf("user ghost: %w", repositories.ErrNotFound)).Once()
	_, err = authService.LoginUser("ghost", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// No role
	roleless := *user
	roleless.Roles = nil
	mockRepo.On("GetByUsername", "maria").Return(&roleless, nil).Once()
	_, err = authService.LoginUser("maria", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "maria",
		"roles":    []string{"staff"},
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, []models.Role{models.RoleStaff}, services.ClaimRoles(claims))

	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)

	otherSecret, _ := token.SignedString([]byte("another_secret"))
	_, err = authService.ValidateToken(otherSecret)
	assert.Error(t, err)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "s")

	mockRepo.On("Count").Return(int64(2), nil).Once()
	created, err := authService.EnsureAdmin("admin", "secret")
	assert.NoError(t, err)
	assert.False(t, created)

	mockRepo.On("Count").Return(int64(0), nil).Once()
	_, err = authService.EnsureAdmin("admin", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	mockRepo.On("Count").Return(int64(0), nil).Once()
	mockRepo.On("GetByUsername", "admin").Return(nil, nil).Once()
	mockRepo.On("GetByEmail", "admin@localhost").Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Profile"), []models.Role{models.RoleAdmin, models.RoleStaff}).Return(nil).Once()
	created, err = authService.EnsureAdmin("admin", "secret")
	assert.NoError(t, err)
	assert.True(t, created)
	mockRepo.AssertExpectations(t)
}
