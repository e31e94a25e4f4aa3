package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// CategoryRepository implementación en memoria de repository.CategoryRepository.
type CategoryRepository struct{ scope }

// NewCategoryRepository crea el repositorio fuera de transacción.
func NewCategoryRepository(s *Store) *CategoryRepository {
	return &CategoryRepository{scope{s: s}}
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

func (r *CategoryRepository) nameTaken(name string, exceptID int64) bool {
	for _, c := range r.d().categories {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// Create asigna el ID y guarda la categoría; el nombre es único sin distinguir mayúsculas.
func (r *CategoryRepository) Create(_ context.Context, c *entity.Category) error {
	defer r.lock()()
	if err := r.s.fault("categories.create"); err != nil {
		return err
	}
	if r.nameTaken(c.Name, 0) {
		return domain.Conflict("category", "el nombre ya existe")
	}
	r.d().lastCategoryID++
	c.ID = r.d().lastCategoryID
	cp := *c
	r.d().categories[c.ID] = &cp
	return nil
}

// GetByID devuelve una copia o nil si no existe.
func (r *CategoryRepository) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	defer r.lock()()
	c, ok := r.d().categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// GetByName búsqueda sin distinguir mayúsculas; nil si no existe.
func (r *CategoryRepository) GetByName(_ context.Context, name string) (*entity.Category, error) {
	defer r.lock()()
	for _, c := range r.d().categories {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// Update reemplaza nombre y descripción.
func (r *CategoryRepository) Update(_ context.Context, c *entity.Category) error {
	defer r.lock()()
	cur, ok := r.d().categories[c.ID]
	if !ok {
		return missing("category", c.ID)
	}
	if r.nameTaken(c.Name, c.ID) {
		return domain.Conflict("category", "el nombre ya existe")
	}
	cur.Name = c.Name
	cur.Description = c.Description
	return nil
}

// List categorías ordenadas por nombre.
func (r *CategoryRepository) List(_ context.Context) ([]*entity.Category, error) {
	defer r.lock()()
	out := make([]*entity.Category, 0, len(r.d().categories))
	for _, c := range r.d().categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete elimina la categoría por ID.
func (r *CategoryRepository) Delete(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.d().categories[id]; !ok {
		return missing("category", id)
	}
	for _, p := range r.d().products {
		if p.CategoryID != nil && *p.CategoryID == id {
			return domain.Conflict("category", "tiene productos asociados")
		}
	}
	delete(r.d().categories, id)
	return nil
}
