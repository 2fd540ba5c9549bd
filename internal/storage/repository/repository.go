package repository

import (
	"context"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/storage/domain"
)

// Repository persists materials.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Material, error)
	// GetByID returns the material, or nil if not found.
	GetByID(ctx context.Context, id int64) (*domain.Material, error)
	// Create fills in ID, Amount and CreatedAt. A name clash for the same owner is domain.ErrDuplicate.
	Create(ctx context.Context, m *domain.Material) error
	// Increment adds one step to the amount and returns the updated material, or nil if absent.
	Increment(ctx context.Context, id int64) (*domain.Material, error)
	// Decrement applies domain.Decremented to the amount and returns the updated material, or nil if absent.
	Decrement(ctx context.Context, id int64) (*domain.Material, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
