package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos.
type MovementFilter struct {
	ProductID   *int64
	Kind        string
	ReferenceID *int64
	From        *time.Time
	To          *time.Time // exclusivo
	Limit       int
}

// StockMovementRepository persistencia del libro de inventario (append-only salvo
// la eliminación de ventas, que borra sus propios movimientos).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// FindSaleMovement devuelve el movimiento de venta (más antiguo) de saleID para
	// productID con delta -quantity, o (nil, nil).
	FindSaleMovement(ctx context.Context, saleID, productID int64, quantity int) (*entity.StockMovement, error)
	Delete(ctx context.Context, id int64) error
	DeleteByProduct(ctx context.Context, productID int64) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	SumByProduct(ctx context.Context, productID int64) (int, error)
}
