package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tms/internal/apperror"
	"tms/internal/models"
	"tms/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newAuthService(repo *MockUserRepository) *services.AuthService {
	return services.NewAuthService(repo, testJWTSecret, time.Hour, zap.NewNop())
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByUsername", ctx, "alice").Return(nil, apperror.NotFound("user not found")).Once()
	mockRepo.On("Count", ctx).Return(2, nil).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.ID == "3" && u.Username == "alice" && u.Role == models.RoleEmployee &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret")) == nil
	})).Return(nil).Once()

	payload, err := authService.Register(ctx, "alice", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, "3", payload.ID)
	assert.Equal(t, "alice", payload.Username)
	assert.Equal(t, models.RoleEmployee, payload.Role)
	assert.NotEmpty(t, payload.Token)
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", ctx, "alice").Return(&models.User{ID: "3"}, nil).Once()
	_, err = authService.Register(ctx, "alice", "secret", models.RoleAdmin)
	assert.ErrorIs(t, err, apperror.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterValidatesInput(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	_, err := authService.Register(ctx, "", "secret", models.RoleAdmin)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "username")

	_, err = authService.Register(ctx, "bob", "secret", models.Role("Root"))
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "role")

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "1",
		Username: "admin",
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}

	mockRepo.On("GetByUsername", ctx, "admin").Return(user, nil).Once()
	payload, err := authService.Login(ctx, "admin", "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, payload.Role)

	parsedToken, err := jwt.Parse(payload.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "1", claims["id"])
	assert.Equal(t, "admin", claims["username"])
	assert.Equal(t, "Admin", claims["role"])

	// Wrong password
	mockRepo.On("GetByUsername", ctx, "admin").Return(user, nil).Once()
	_, err = authService.Login(ctx, "admin", "wrongpassword")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	// Unknown user gets the same message
	mockRepo.On("GetByUsername", ctx, "ghost").Return(nil, apperror.NotFound("user not found")).Once()
	_, err = authService.Login(ctx, "ghost", "password123")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	assert.Equal(t, "Wrong username or password", err.Error())

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Authenticate(t *testing.T) {
	authService := newAuthService(new(MockUserRepository))
	user := &models.User{ID: "2", Username: "employee", Role: models.RoleEmployee}

	token, err := authService.IssueToken(user)
	require.NoError(t, err)

	identity, err := authService.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, &models.Identity{ID: "2", Username: "employee", Role: models.RoleEmployee}, identity)

	_, err = authService.Authenticate("")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	_, err = authService.Authenticate("invalid.token.string")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	other := services.NewAuthService(new(MockUserRepository), "another_secret", time.Hour, zap.NewNop())
	forged, err := other.IssueToken(user)
	require.NoError(t, err)
	_, err = authService.Authenticate(forged)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestAuthService_AuthenticateRejectsExpiredToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository)).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	token, err := authService.IssueToken(&models.User{ID: "1", Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = authService.Authenticate(token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestAuthService_RequireAdmin(t *testing.T) {
	authService := newAuthService(new(MockUserRepository))

	adminToken, _ := authService.IssueToken(&models.User{ID: "1", Username: "admin", Role: models.RoleAdmin})
	employeeToken, _ := authService.IssueToken(&models.User{ID: "2", Username: "employee", Role: models.RoleEmployee})

	identity, err := authService.RequireAdmin(adminToken)
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())

	_, err = authService.RequireAdmin(employeeToken)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = authService.RequireAdmin("")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)
}
