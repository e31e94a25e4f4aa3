package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo vendible del catálogo.
// StockQuantity solo cambia a través de un StockMovement (ver inventory.LedgerUseCase).
type Product struct {
	ID            int64
	CategoryID    *int64 // nil si no tiene categoría
	CategoryName  string // solo lectura (join)
	Name          string
	Barcode       string // vacío si no tiene; único cuando existe
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	StockQuantity int
	MinimumStock  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si la existencia llegó al umbral mínimo.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinimumStock
}

// Slack unidades por encima del mínimo (negativo = por debajo).
func (p *Product) Slack() int {
	return p.StockQuantity - p.MinimumStock
}
