package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/reports"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

type fixture struct {
	ledger  *inventory.LedgerUseCase
	sales   *sales.SalesUseCase
	reports *reports.ReportsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewSeededStore()
	tx := memory.NewTxRunner(s)
	products := memory.NewProductRepository(s)
	salesRepo := memory.NewSaleRepository(s)
	reportRepo := memory.NewReportRepository(s)
	ledger := inventory.NewLedgerUseCase(tx, products, memory.NewCategoryRepository(s),
		memory.NewStockMovementRepository(s), zerolog.Nop(), inventory.DefaultMinimumStock)
	return &fixture{
		ledger: ledger,
		sales: sales.NewSalesUseCase(tx, ledger, salesRepo, reportRepo, memory.NewSettingsRepository(s),
			nil, zerolog.Nop()),
		reports: reports.NewReportsUseCase(reportRepo, salesRepo, products, zerolog.Nop()),
	}
}

func (f *fixture) product(t *testing.T, name string, categoryID int64, cost, price string, stock int) *dto.ProductResponse {
	t.Helper()
	p, err := f.ledger.AddProduct(context.Background(), dto.CreateProductRequest{
		Name:          name,
		CategoryID:    &categoryID,
		PurchasePrice: decimal.RequireFromString(cost),
		SellingPrice:  decimal.RequireFromString(price),
		StockQuantity: stock,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) sell(t *testing.T, p *dto.ProductResponse, qty int) int64 {
	t.Helper()
	res, err := f.sales.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID, Quantity: qty, UnitPrice: p.SellingPrice}},
	})
	require.NoError(t, err)
	return res.SaleID
}

func TestGetInventoryReport_Valorizacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	general, electronics := int64(1), int64(3)
	f.product(t, "Cable USB", electronics, "4.00", "10.00", 10)
	f.product(t, "Audífonos", electronics, "20.00", "45.00", 2)
	f.product(t, "Escoba", general, "6.00", "9.50", 10)

	rep, err := f.reports.GetInventoryReport(ctx, dto.InventoryReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Totals.ProductCount)
	assert.Equal(t, 22, rep.Totals.TotalUnits)
	assert.True(t, decimal.RequireFromString("285.00").Equal(rep.Totals.RetailValue), "100 + 90 + 95")
	assert.True(t, decimal.RequireFromString("140.00").Equal(rep.Totals.CostValue), "40 + 40 + 60")
	assert.Equal(t, 1, rep.Totals.LowStockCount)
	require.Len(t, rep.LowStock, 1)
	assert.Equal(t, "Audífonos", rep.LowStock[0].Name)

	require.Len(t, rep.Categories, 5, "incluye categorías sin productos")
	assert.Equal(t, "Electronics", rep.Categories[0].Name, "ordenado por valor de venta")
	assert.Equal(t, 2, rep.Categories[0].ProductCount)

	rep, err = f.reports.GetInventoryReport(ctx, dto.InventoryReportFilter{CategoryID: &general})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Totals.ProductCount)
	assert.Empty(t, rep.LowStock)
}

func TestGetSalesReport_ResumenSoloDeConfirmadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Jabón", 1, "1.00", "2.50", 30)
	f.sell(t, p, 2)
	voided := f.sell(t, p, 4)
	_, err := f.sales.VoidSale(ctx, voided, "duplicada")
	require.NoError(t, err)

	today := time.Now()
	rep, err := f.reports.GetSalesReport(ctx, dto.SaleListFilter{StartDate: &today, EndDate: &today})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Summary.TotalSales)
	assert.True(t, decimal.RequireFromString("5.00").Equal(rep.Summary.TotalRevenue))
	assert.Len(t, rep.Sales, 2, "el listado incluye la anulada")

	yesterday := today.AddDate(0, 0, -1)
	_, err = f.reports.GetSalesReport(ctx, dto.SaleListFilter{StartDate: &today, EndDate: &yesterday})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Café", 2, "10.00", "18.00", 12)
	b := f.product(t, "Azúcar", 2, "3.00", "5.00", 6)
	f.sell(t, a, 3)
	f.sell(t, b, 2)

	d, err := f.reports.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Today.TotalSales)
	assert.True(t, decimal.RequireFromString("64.00").Equal(d.Today.TotalRevenue))
	assert.Equal(t, d.Today.TotalSales, d.Month.TotalSales)
	require.Len(t, d.TopProducts, 2)
	assert.Equal(t, a.ID, d.TopProducts[0].ProductID)
	require.Len(t, d.LowStock, 1, "Azúcar queda en 4 con mínimo 5")
	assert.Equal(t, b.ID, d.LowStock[0].ID)
	assert.Len(t, d.RecentSales, 2)
	assert.Equal(t, 13, d.Inventory.TotalUnits)
}
