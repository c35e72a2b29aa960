// Package auth authenticates admin logins and maps roles to capabilities.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/visonai/visonai-gateway/internal/db/models"
	"github.com/visonai/visonai-gateway/internal/visonai"
)

// UserFinder looks up accounts by username.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// LocalProvider handles local database authentication.
type LocalProvider struct {
	users UserFinder
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(users UserFinder) *LocalProvider {
	return &LocalProvider{users: users}
}

// Authenticate checks username and password and returns the active user.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := p.users.FindByUsername(ctx, username)
	if errors.Is(err, visonai.ErrNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return user, nil
}
