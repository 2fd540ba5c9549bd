package repository

import (
	"context"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/domain"
)

// Repository persists recipes together with their gallery, ingredients and steps.
type Repository interface {
	// List returns every recipe without children, ordered by id.
	List(ctx context.Context) ([]domain.Recipe, error)
	// GetByID returns the recipe with children, or nil if not found.
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	// Create inserts r and its children atomically. A clash on (name, category, difficulty) is domain.ErrDuplicate.
	Create(ctx context.Context, r *domain.Recipe) error
	// Delete removes the recipe and, by cascade, its children. It reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}
