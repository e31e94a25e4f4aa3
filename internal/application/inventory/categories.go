package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// AddCategory crea una categoría; el nombre no se repite (sin distinguir mayúsculas).
func (uc *LedgerUseCase) AddCategory(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	cat := &entity.Category{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		existing, err := r.Categories.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Conflict("category", fmt.Sprintf("la categoría %s ya existe", existing.Name))
		}
		return r.Categories.Create(ctx, cat)
	})
	if err != nil {
		return nil, err
	}
	return dto.CategoryFromEntity(cat), nil
}

// UpdateCategory renombra o cambia la descripción.
func (uc *LedgerUseCase) UpdateCategory(ctx context.Context, id int64, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	var cat *entity.Category
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		var err error
		cat, err = r.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.NotFound("category", id)
		}
		existing, err := r.Categories.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != id {
			return domain.Conflict("category", fmt.Sprintf("la categoría %s ya existe", existing.Name))
		}
		cat.Name = name
		cat.Description = strings.TrimSpace(in.Description)
		return r.Categories.Update(ctx, cat)
	})
	if err != nil {
		return nil, err
	}
	return dto.CategoryFromEntity(cat), nil
}

// DeleteCategory elimina una categoría sin productos.
func (uc *LedgerUseCase) DeleteCategory(ctx context.Context, id int64) error {
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		cat, err := r.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.NotFound("category", id)
		}
		n, err := r.Products.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Conflict("category", fmt.Sprintf("tiene %d productos asociados", n))
		}
		return r.Categories.Delete(ctx, id)
	})
}

// ListCategories todas las categorías por nombre.
func (uc *LedgerUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, domain.Storage("list categories", err)
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *dto.CategoryFromEntity(c))
	}
	return out, nil
}

// GetCategoryByName búsqueda sin distinguir mayúsculas.
func (uc *LedgerUseCase) GetCategoryByName(ctx context.Context, name string) (*dto.CategoryResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	c, err := uc.categories.GetByName(ctx, name)
	if err != nil {
		return nil, domain.Storage("get category", err)
	}
	if c == nil {
		return nil, domain.NotFound("category", name)
	}
	return dto.CategoryFromEntity(c), nil
}
