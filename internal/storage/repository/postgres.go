package repository

import (
	"context"

	"github.com/samber/oops"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/db"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/storage/domain"
)

const materialColumns = `id, name, type, amount, user_id, created_at`

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a material repository backed by q.
func NewPostgresRepository(q db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: q}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Material, error) {
	rows, err := r.db.Query(ctx, `SELECT `+materialColumns+` FROM materials WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, oops.Code("MATERIAL_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	defer rows.Close()
	out := []domain.Material{}
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, oops.Code("MATERIAL_LIST_FAILED").With("user_id", userID).Wrap(err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("MATERIAL_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Material, error) {
	m, err := scanMaterial(r.db.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, oops.Code("MATERIAL_GET_FAILED").With("material_id", id).Wrap(err)
	}
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, m *domain.Material) error {
	err := r.db.QueryRow(ctx, `INSERT INTO materials (name, type, amount, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, amount, created_at`,
		m.Name, m.Type, domain.InitialAmount, m.UserID).Scan(&m.ID, &m.Amount, &m.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return oops.Code("MATERIAL_EXISTS").With("user_id", m.UserID).Wrap(domain.ErrDuplicate)
		}
		return oops.Code("MATERIAL_CREATE_FAILED").With("user_id", m.UserID).Wrap(err)
	}
	return nil
}

func (r *PostgresRepository) Increment(ctx context.Context, id int64) (*domain.Material, error) {
	return r.updateAmount(ctx, "MATERIAL_INCREMENT_FAILED", `UPDATE materials
		SET amount = amount + $2
		WHERE id = $1
		RETURNING `+materialColumns, id, domain.AmountStep)
}

func (r *PostgresRepository) Decrement(ctx context.Context, id int64) (*domain.Material, error) {
	return r.updateAmount(ctx, "MATERIAL_DECREMENT_FAILED", `UPDATE materials
		SET amount = CASE WHEN amount > $3 THEN amount - $2 ELSE $3 END
		WHERE id = $1
		RETURNING `+materialColumns, id, domain.AmountStep, domain.MinAmount)
}

func (r *PostgresRepository) updateAmount(ctx context.Context, code, sql string, args ...any) (*domain.Material, error) {
	m, err := scanMaterial(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, oops.Code(code).With("material_id", args[0]).Wrap(err)
	}
	return m, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return false, oops.Code("MATERIAL_DELETE_FAILED").With("material_id", id).Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMaterial(row scanner) (*domain.Material, error) {
	var m domain.Material
	if err := row.Scan(&m.ID, &m.Name, &m.Type, &m.Amount, &m.UserID, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
