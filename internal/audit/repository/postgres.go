package repository

import (
	"context"

	"github.com/samber/oops"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/audit/domain"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/db"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns an audit log repository backed by q.
func NewPostgresRepository(q db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: q}
}

// Create persists the audit log. The audit log must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	var userID, meta any
	if a.UserID != 0 {
		userID = a.UserID
	}
	if a.Metadata != "" {
		meta = a.Metadata
	}
	_, err := r.db.Exec(ctx, `INSERT INTO audit_logs (id, user_id, action, resource, ip, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, userID, a.Action, a.Resource, a.IP, meta, a.CreatedAt)
	if err != nil {
		return oops.Code("AUDIT_CREATE_FAILED").With("action", a.Action, "resource", a.Resource).Wrap(err)
	}
	return nil
}
