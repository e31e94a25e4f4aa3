package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary agregados de ventas confirmadas.
type SalesSummary struct {
	TotalSales      int             `json:"total_sales"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	AverageSale     decimal.Decimal `json:"average_sale"`
	ByPaymentMethod map[string]int  `json:"by_payment_method"`
}

// DailySales ventas de un día dentro de un período.
type DailySales struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopProduct producto del ranking de ventas.
type TopProduct struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode,omitempty"`
	Category     string          `json:"category,omitempty"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	SalesCount   int             `json:"sales_count"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// DailySummaryResponse resumen de un día.
type DailySummaryResponse struct {
	Date    string       `json:"date"`
	Summary SalesSummary `json:"summary"`
}

// PeriodSummaryResponse resumen semanal o mensual con desglose diario.
type PeriodSummaryResponse struct {
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"` // inclusivo
	Summary     SalesSummary `json:"summary"`
	Daily       []DailySales `json:"daily"`
	TopProducts []TopProduct `json:"top_products,omitempty"`
}

// TopProductsResponse ranking para un período con nombre.
type TopProductsResponse struct {
	Period   string       `json:"period"`
	Products []TopProduct `json:"products"`
}

// CashierSalesResponse ventas de un cajero.
type CashierSalesResponse struct {
	CashierID int64          `json:"cashier_id"`
	Summary   SalesSummary   `json:"summary"`
	Sales     []SaleResponse `json:"sales"`
}

// SalesReportResponse reporte de ventas con filtro.
type SalesReportResponse struct {
	Summary SalesSummary   `json:"summary"`
	Sales   []SaleResponse `json:"sales"`
}

// InventoryReportFilter query params de GET /api/reports/inventory.
type InventoryReportFilter struct {
	CategoryID *int64 `query:"category_id"`
	LowStock   bool   `query:"low_stock"`
}

// InventoryTotals valorización del inventario.
type InventoryTotals struct {
	ProductCount  int             `json:"product_count"`
	TotalUnits    int             `json:"total_units"`
	RetailValue   decimal.Decimal `json:"retail_value"`
	CostValue     decimal.Decimal `json:"cost_value"`
	LowStockCount int             `json:"low_stock_count"`
}

// CategoryStock resumen de inventario por categoría.
type CategoryStock struct {
	CategoryID    int64           `json:"category_id"`
	Name          string          `json:"name"`
	ProductCount  int             `json:"product_count"`
	TotalUnits    int             `json:"total_units"`
	RetailValue   decimal.Decimal `json:"retail_value"`
	LowStockCount int             `json:"low_stock_count"`
}

// InventoryReportResponse reporte de inventario.
type InventoryReportResponse struct {
	Totals     InventoryTotals   `json:"totals"`
	Categories []CategoryStock   `json:"categories"`
	LowStock   []ProductResponse `json:"low_stock"`
}

// DashboardResponse KPIs de la pantalla principal.
type DashboardResponse struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Today       SalesSummary      `json:"today"`
	Month       SalesSummary      `json:"month"`
	TopProducts []TopProduct      `json:"top_products"`
	LowStock    []ProductResponse `json:"low_stock"`
	Inventory   InventoryTotals   `json:"inventory"`
	RecentSales []SaleResponse    `json:"recent_sales"`
}
