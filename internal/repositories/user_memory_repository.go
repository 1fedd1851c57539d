package repositories

import (
	"context"
	"fmt"
	"sync"

	"tms/internal/apperror"
	"tms/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	users      map[string]models.User
	byUsername map[string]string
	mu         sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:      make(map[string]models.User),
		byUsername: make(map[string]string),
	}
}

// Create adds a new user. Ids and usernames must be unique.
func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return fmt.Errorf("username %s already exists", user.Username)
	}
	if _, ok := r.users[user.ID]; ok {
		return fmt.Errorf("user with ID %s already exists", user.ID)
	}
	r.users[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	return nil
}

// GetByUsername returns a user by exact username match.
func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, apperror.NotFound(fmt.Sprintf("user with username %s not found", username))
	}
	user := r.users[id]
	return &user, nil
}

// GetByID returns a user by its ID.
func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound(fmt.Sprintf("user with ID %s not found", id))
	}
	return &user, nil
}

func (r *MemoryUserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}
