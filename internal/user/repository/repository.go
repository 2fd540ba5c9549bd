package repository

import (
	"context"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/user/domain"
)

// Repository is the User Directory.
type Repository interface {
	// FindByEmailOrUsername returns the lowest-id user whose non-empty email or
	// username matches, or nil if none. Empty arguments never match.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Create inserts u and sets its ID and CreatedAt. Returns domain.ErrDuplicate
	// when the email or username is taken.
	Create(ctx context.Context, u *domain.User) error
}
