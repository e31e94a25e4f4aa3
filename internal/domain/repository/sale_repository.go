package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SaleFilter filtros comunes de ventas. To es exclusivo.
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	CashierID     *int64
	PaymentMethod string
	Status        string // vacío = todas
	Limit         int
	Offset        int
}

// SaleRow fila de listado de ventas con el número de líneas.
type SaleRow struct {
	Sale      entity.Sale
	ItemCount int
}

// SaleRepository define el puerto de persistencia para Sale y SaleLine.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sale, error)
	GetLines(ctx context.Context, saleID int64) ([]*entity.SaleLine, error)
	ExistsReceiptNumber(ctx context.Context, receiptNumber string) (bool, error)
	MarkVoided(ctx context.Context, id int64, notes string) error
	DeleteLines(ctx context.Context, saleID int64) error
	Delete(ctx context.Context, id int64) error
	// List ordena por fecha descendente.
	List(ctx context.Context, filter SaleFilter) ([]SaleRow, error)
}
