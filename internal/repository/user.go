package repository

import (
	"context"

	"storeit/internal/model"
)

// UserRepository defines data access for user identity records.
type UserRepository interface {
	// Create inserts a new user and returns the stored row.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by ID. sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by email. sql.ErrNoRows when absent.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
