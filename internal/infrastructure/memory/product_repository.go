package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct{ scope }

// NewProductRepository crea el repositorio fuera de transacción.
func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{scope{s: s}}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) withCategory(p *entity.Product) *entity.Product {
	cp := cloneProduct(p)
	if p.CategoryID != nil {
		if c, ok := r.d().categories[*p.CategoryID]; ok {
			cp.CategoryName = c.Name
		}
	}
	return cp
}

// Create asigna el ID y guarda una copia del producto.
func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	if err := r.s.fault("products.create"); err != nil {
		return err
	}
	if p.Barcode != "" && r.barcodeTaken(p.Barcode, 0) {
		return domain.Conflict("product", "el código de barras ya existe")
	}
	if p.CategoryID != nil {
		if _, ok := r.d().categories[*p.CategoryID]; !ok {
			return domain.Conflict("product", "la categoría no existe")
		}
	}
	r.d().lastProductID++
	p.ID = r.d().lastProductID
	r.d().products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepository) barcodeTaken(barcode string, exceptID int64) bool {
	for _, other := range r.d().products {
		if other.ID != exceptID && other.Barcode == barcode {
			return true
		}
	}
	return false
}

// GetByID devuelve una copia con el nombre de categoría, o nil.
func (r *ProductRepository) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.d().products[id]
	if !ok {
		return nil, nil
	}
	return r.withCategory(p), nil
}

// GetByIDForUpdate el candado del Store ya serializa las transacciones.
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetByBarcode busca por código de barras exacto; nil si no existe.
func (r *ProductRepository) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	defer r.lock()()
	for _, p := range r.d().products {
		if p.Barcode != "" && p.Barcode == barcode {
			return r.withCategory(p), nil
		}
	}
	return nil, nil
}

// Update reemplaza los campos descriptivos; la existencia no cambia.
func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	cur, ok := r.d().products[p.ID]
	if !ok {
		return missing("product", p.ID)
	}
	if p.Barcode != "" && r.barcodeTaken(p.Barcode, p.ID) {
		return domain.Conflict("product", "el código de barras ya existe")
	}
	stock := cur.StockQuantity
	next := cloneProduct(p)
	next.StockQuantity = stock
	next.CreatedAt = cur.CreatedAt
	r.d().products[p.ID] = next
	return nil
}

// UpdateStock fija la existencia; rechaza valores negativos.
func (r *ProductRepository) UpdateStock(_ context.Context, id int64, quantity int, at time.Time) error {
	defer r.lock()()
	if err := r.s.fault("products.update_stock"); err != nil {
		return err
	}
	p, ok := r.d().products[id]
	if !ok {
		return missing("product", id)
	}
	if quantity < 0 {
		return domain.Conflict("product", "la existencia no puede ser negativa")
	}
	p.StockQuantity = quantity
	p.UpdatedAt = at
	return nil
}

// List filtra por texto, categoría y stock bajo, ordenado por nombre.
func (r *ProductRepository) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	defer r.lock()()
	search := strings.ToLower(f.Search)
	out := make([]*entity.Product, 0)
	for _, p := range r.d().products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Barcode), search) {
			continue
		}
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		if f.LowStock && !p.IsLowStock() {
			continue
		}
		out = append(out, r.withCategory(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Limit, f.Offset), nil
}

// ListLowStock existencia <= mínimo, menor holgura primero y luego por ID.
func (r *ProductRepository) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	defer r.lock()()
	out := make([]*entity.Product, 0)
	for _, p := range r.d().products {
		if p.IsLowStock() {
			out = append(out, r.withCategory(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Slack() != out[j].Slack() {
			return out[i].Slack() < out[j].Slack()
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CountByCategory productos asignados a la categoría.
func (r *ProductRepository) CountByCategory(_ context.Context, categoryID int64) (int, error) {
	defer r.lock()()
	n := 0
	for _, p := range r.d().products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// HasSaleLines indica si alguna línea de venta referencia el producto.
func (r *ProductRepository) HasSaleLines(_ context.Context, id int64) (bool, error) {
	defer r.lock()()
	for _, l := range r.d().lines {
		if l.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

// Delete elimina el producto por ID.
func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.d().products[id]; !ok {
		return missing("product", id)
	}
	delete(r.d().products, id)
	return nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return list[:0]
		}
		list = list[offset:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
