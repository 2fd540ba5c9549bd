package repository

import (
	"context"

	"github.com/samber/oops"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/db"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/user/domain"
)

const userColumns = `id, username, email, password_hash, created_at`

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a user repository backed by q (a pgx pool or tx).
func NewPostgresRepository(q db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: q}
}

// FindByEmailOrUsername returns nil, nil when no user matches.
func (r *PostgresRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	if email == "" && username == "" {
		return nil, nil
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users
		WHERE (email <> '' AND lower(email) = lower($1))
		   OR (username <> '' AND username = $2)
		ORDER BY id
		LIMIT 1`, email, username)
	u, err := scanUser(row)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, oops.Code("USER_LOOKUP_FAILED").Wrap(err)
	}
	return u, nil
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, oops.Code("USER_GET_FAILED").With("user_id", id).Wrap(err)
	}
	return u, nil
}

// Create persists u and fills in ID and CreatedAt from the database.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return oops.Code("USER_INVALID").Wrap(err)
	}
	err := r.db.QueryRow(ctx, `INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, u.Username, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return oops.Code("USER_EXISTS").Wrap(domain.ErrDuplicate)
		}
		return oops.Code("USER_CREATE_FAILED").Wrap(err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
