package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"tms/internal/apperror"
	"tms/internal/models"
	"tms/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	validate  *validator.Validate
	log       *zap.Logger
	now       func() time.Time

	// serializes the username check and id assignment of Register
	mu sync.Mutex
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		validate:  NewValidator(),
		log:       log,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to stamp issued tokens.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Register creates a user with a hashed password and returns a token for it.
// An empty role defaults to Employee.
func (s *AuthService) Register(ctx context.Context, username, password string, role models.Role) (*models.AuthPayload, error) {
	if role == "" {
		role = models.RoleEmployee
	}
	user := &models.User{
		Username: username,
		Password: password,
		Role:     role,
	}
	if err := s.validate.Struct(user); err != nil {
		return nil, validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, apperror.ErrUsernameTaken
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Internal("failed to look up user", err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, apperror.Internal("failed to register user", err)
	}
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to register user", err)
	}
	user.ID = strconv.Itoa(count + 1)
	user.Password = hashed
	user.CreatedAt = s.now().UTC()

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.Internal("failed to register user", err)
	}
	s.log.Info("user registered", zap.String("username", user.Username), zap.String("role", string(user.Role)))

	return s.payloadFor(user)
}

// Login verifies the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.AuthPayload, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, apperror.Internal("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.payloadFor(user)
}

// IssueToken signs an HS256 token carrying the user's id, username and role.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Authenticate verifies a token and returns the identity it carries.
func (s *AuthService) Authenticate(tokenString string) (*models.Identity, error) {
	if tokenString == "" {
		return nil, apperror.ErrNotAuthenticated
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, apperror.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperror.ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if id == "" || username == "" {
		return nil, apperror.ErrInvalidToken
	}

	return &models.Identity{ID: id, Username: username, Role: models.Role(role)}, nil
}

// RequireAdmin authenticates the token and rejects non-admin identities.
func (s *AuthService) RequireAdmin(tokenString string) (*models.Identity, error) {
	identity, err := s.Authenticate(tokenString)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	return identity, nil
}

func (s *AuthService) payloadFor(user *models.User) (*models.AuthPayload, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}
	return &models.AuthPayload{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	}, nil
}
