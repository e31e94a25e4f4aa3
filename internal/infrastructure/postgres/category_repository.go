package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool, tx o Store (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste la categoría; el índice único sobre lower(name) impide duplicados.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO categories (name, description, created_at) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.Description, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return mapError("insert category", "category", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT id, name, description, created_at FROM categories WHERE id = $1`, id)
}

// GetByName obtiene una categoría por nombre sin distinguir mayúsculas.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT id, name, description, created_at FROM categories WHERE lower(name) = lower($1)`, name)
}

func (r *CategoryRepo) getOne(ctx context.Context, query string, arg any) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get category", err)
	}
	return &c, nil
}

// Update renombra o cambia la descripción.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	tag, err := r.q.Exec(ctx, `UPDATE categories SET name = $1, description = $2 WHERE id = $3`, c.Name, c.Description, c.ID)
	if err != nil {
		return mapError("update category", "category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("category", c.ID)
	}
	return nil
}

// List todas las categorías por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, domain.Storage("list categories", err)
	}
	defer rows.Close()
	out := make([]*entity.Category, 0)
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, domain.Storage("scan category", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("list categories", err)
	}
	return out, nil
}

// Delete elimina una categoría; la FK de products la protege si tiene productos.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError("delete category", "category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("category", id)
	}
	return nil
}
