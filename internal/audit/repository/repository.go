package repository

import (
	"context"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
}
