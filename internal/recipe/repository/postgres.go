package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/db"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/domain"
)

const recipeColumns = `id, name, time, image, icon, category, nationality, difficulty, description, meal, created_at`

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a recipe repository backed by q.
func NewPostgresRepository(q db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: q}
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.Recipe, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY id`)
	if err != nil {
		return nil, oops.Code("RECIPE_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()
	var out []domain.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, oops.Code("RECIPE_LIST_FAILED").Wrap(err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("RECIPE_LIST_FAILED").Wrap(err)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	rec, err := scanRecipe(r.db.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, oops.Code("RECIPE_GET_FAILED").With("recipe_id", id).Wrap(err)
	}
	if err := r.loadChildren(ctx, rec); err != nil {
		return nil, oops.Code("RECIPE_GET_FAILED").With("recipe_id", id).Wrap(err)
	}
	return rec, nil
}

func (r *PostgresRepository) loadChildren(ctx context.Context, rec *domain.Recipe) error {
	gallery, err := r.db.Query(ctx, `SELECT url FROM recipe_gallery WHERE recipe_id = $1 ORDER BY id`, rec.ID)
	if err != nil {
		return err
	}
	rec.Gallery, err = pgx.CollectRows(gallery, func(row pgx.CollectableRow) (domain.GalleryImage, error) {
		var g domain.GalleryImage
		err := row.Scan(&g.URL)
		return g, err
	})
	if err != nil {
		return err
	}

	ingredients, err := r.db.Query(ctx, `SELECT name, amount FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY id`, rec.ID)
	if err != nil {
		return err
	}
	rec.Ingredients, err = pgx.CollectRows(ingredients, func(row pgx.CollectableRow) (domain.Ingredient, error) {
		var i domain.Ingredient
		err := row.Scan(&i.Name, &i.Amount)
		return i, err
	})
	if err != nil {
		return err
	}

	steps, err := r.db.Query(ctx, `SELECT step_order, description FROM recipe_steps WHERE recipe_id = $1 ORDER BY step_order, id`, rec.ID)
	if err != nil {
		return err
	}
	rec.Steps, err = pgx.CollectRows(steps, func(row pgx.CollectableRow) (domain.Step, error) {
		var s domain.Step
		err := row.Scan(&s.Order, &s.Description)
		return s, err
	})
	return err
}

// Create fills in ID and CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, rec *domain.Recipe) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO recipes (name, time, image, icon, category, nationality, difficulty, description, meal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at`,
			rec.Name, rec.Time, rec.Image, rec.Icon, rec.Category, rec.Nationality, rec.Difficulty, rec.Description, rec.Meal,
		).Scan(&rec.ID, &rec.CreatedAt)
		if err != nil {
			return err
		}
		for _, g := range rec.Gallery {
			if _, err := tx.Exec(ctx, `INSERT INTO recipe_gallery (recipe_id, url) VALUES ($1, $2)`, rec.ID, g.URL); err != nil {
				return err
			}
		}
		for _, i := range rec.Ingredients {
			if _, err := tx.Exec(ctx, `INSERT INTO recipe_ingredients (recipe_id, name, amount) VALUES ($1, $2, $3)`, rec.ID, i.Name, i.Amount); err != nil {
				return err
			}
		}
		for _, s := range rec.Steps {
			if _, err := tx.Exec(ctx, `INSERT INTO recipe_steps (recipe_id, step_order, description) VALUES ($1, $2, $3)`, rec.ID, s.Order, s.Description); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		rec.ID = 0
		if db.IsUniqueViolation(err) {
			return oops.Code("RECIPE_EXISTS").With("name", rec.Name).Wrap(domain.ErrDuplicate)
		}
		return oops.Code("RECIPE_CREATE_FAILED").With("name", rec.Name).Wrap(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return false, oops.Code("RECIPE_DELETE_FAILED").With("recipe_id", id).Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row scanner) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := row.Scan(&rec.ID, &rec.Name, &rec.Time, &rec.Image, &rec.Icon, &rec.Category,
		&rec.Nationality, &rec.Difficulty, &rec.Description, &rec.Meal, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
