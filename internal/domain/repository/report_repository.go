package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotals agregados de ventas confirmadas (no anuladas) para un filtro.
type SalesTotals struct {
	Count           int
	Revenue         decimal.Decimal
	ByPaymentMethod map[string]int
}

// TopProductResult fila cruda del ranking de productos.
type TopProductResult struct {
	ProductID  int64
	Name       string
	Barcode    string
	Category   string
	UnitsSold  int
	Revenue    decimal.Decimal
	SalesCount int
}

// InventoryFilter filtros del reporte de inventario.
type InventoryFilter struct {
	CategoryID *int64
	LowStock   bool
}

// InventoryTotals valorización del inventario.
type InventoryTotals struct {
	ProductCount  int
	TotalUnits    int
	RetailValue   decimal.Decimal // Σ existencia × precio de venta
	CostValue     decimal.Decimal // Σ existencia × precio de compra
	LowStockCount int
}

// CategoryStockResult resumen de inventario por categoría.
type CategoryStockResult struct {
	CategoryID    int64
	Name          string
	ProductCount  int
	TotalUnits    int
	RetailValue   decimal.Decimal
	LowStockCount int
}

// ReportRepository consultas de solo lectura para resúmenes y reportes.
// Las implementaciones no modifican datos.
type ReportRepository interface {
	// SalesTotals ignora filter.Status: siempre cuenta solo ventas confirmadas.
	SalesTotals(ctx context.Context, filter SaleFilter) (*SalesTotals, error)

	// TopProducts ordena por unidades vendidas descendente. from/to nil = sin límite.
	TopProducts(ctx context.Context, from, to *time.Time, limit int) ([]TopProductResult, error)

	InventoryTotals(ctx context.Context, filter InventoryFilter) (*InventoryTotals, error)

	// CategoryBreakdown ordena por valor de venta descendente y nombre.
	CategoryBreakdown(ctx context.Context) ([]CategoryStockResult, error)
}
