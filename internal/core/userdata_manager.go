package core

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mbilawisdom/Beer-Me-Up/internal/db"
	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

// UserDataManager hands out one initialized UserData service per authenticated
// user and caches it for the process lifetime. It replaces the mobile app's
// hidden process-wide singleton with an explicit instance that is constructed
// once at startup and passed to the API layer.
type UserDataManager struct {
	repo   db.UserDataRepository
	logger *zap.Logger

	mu       sync.RWMutex
	services map[string]UserData
}

// NewUserDataManager creates the manager over the given repository.
func NewUserDataManager(repo db.UserDataRepository, logger *zap.Logger) *UserDataManager {
	return &UserDataManager{
		repo:     repo,
		logger:   logger,
		services: make(map[string]UserData),
	}
}

// ForUser returns the ready UserData service for the given user, constructing
// and initializing it on first access. A service is cached only after InitDB
// succeeds, so callers never receive an uninitialized instance.
func (m *UserDataManager) ForUser(ctx context.Context, user *models.User) (UserData, error) {
	if user == nil || user.ID == "" {
		return nil, errors.New("a user with a non-empty ID is required")
	}

	m.mu.RLock()
	service, ok := m.services[user.ID]
	m.mu.RUnlock()
	if ok {
		return service, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if service, ok := m.services[user.ID]; ok {
		return service, nil
	}

	service = NewUserDataService(m.repo, user, m.logger)
	if err := service.InitDB(ctx); err != nil {
		return nil, err
	}
	m.services[user.ID] = service
	return service, nil
}
