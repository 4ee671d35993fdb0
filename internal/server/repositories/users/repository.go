// Package users declares the repository contract for user accounts.
package users

import (
	"context"

	"github.com/avelkins/canonkeeper/internal/server/models"
)

type Repository interface {
	// Create stores a new user. A duplicate username or email yields
	// common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
