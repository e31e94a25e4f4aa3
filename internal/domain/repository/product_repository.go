package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Search     string // coincide con nombre o código de barras (sin distinguir mayúsculas)
	CategoryID *int64
	LowStock   bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// Update persiste solo los campos descriptivos; nunca la existencia.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock lo usa exclusivamente el libro de inventario.
	UpdateStock(ctx context.Context, id int64, quantity int, at time.Time) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// ListLowStock ordena por holgura (existencia - mínimo) ascendente y luego por id.
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
	HasSaleLines(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}
