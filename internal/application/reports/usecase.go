// Package reports contiene los casos de uso de reportes de ventas, inventario
// y el dashboard. Todas las consultas son de solo lectura.
package reports

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const (
	dashboardTopProducts = 5
	dashboardRecentSales = 10
	dashboardLowStock    = 10
)

// ReportsUseCase genera reportes a partir de ReportRepository, SaleRepository y ProductRepository.
type ReportsUseCase struct {
	reports  repository.ReportRepository
	sales    repository.SaleRepository
	products repository.ProductRepository
	log      zerolog.Logger
}

// NewReportsUseCase construye el caso de uso.
func NewReportsUseCase(
	reports repository.ReportRepository,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	log zerolog.Logger,
) *ReportsUseCase {
	return &ReportsUseCase{
		reports:  reports,
		sales:    sales,
		products: products,
		log:      log.With().Str("component", "reports").Logger(),
	}
}

// GetSalesReport ventas filtradas (todas, incluidas anuladas) con el resumen de las confirmadas.
func (uc *ReportsUseCase) GetSalesReport(ctx context.Context, in dto.SaleListFilter) (*dto.SalesReportResponse, error) {
	f := repository.SaleFilter{
		CashierID:     in.CashierID,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if in.StartDate != nil {
		from := startOfDay(*in.StartDate)
		f.From = &from
	}
	if in.EndDate != nil {
		to := startOfDay(*in.EndDate).AddDate(0, 0, 1)
		f.To = &to
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, domain.Invalid("end_date", "debe ser posterior a start_date")
	}

	totals, err := uc.reports.SalesTotals(ctx, f)
	if err != nil {
		return nil, domain.Storage("sales report totals", err)
	}
	rows, err := uc.sales.List(ctx, f)
	if err != nil {
		return nil, domain.Storage("sales report rows", err)
	}
	return &dto.SalesReportResponse{
		Summary: dto.SummaryFromTotals(totals),
		Sales:   dto.SalesFromRows(rows),
	}, nil
}

// GetInventoryReport valorización, desglose por categoría y productos con stock bajo.
func (uc *ReportsUseCase) GetInventoryReport(ctx context.Context, in dto.InventoryReportFilter) (*dto.InventoryReportResponse, error) {
	totals, err := uc.reports.InventoryTotals(ctx, repository.InventoryFilter{
		CategoryID: in.CategoryID,
		LowStock:   in.LowStock,
	})
	if err != nil {
		return nil, domain.Storage("inventory totals", err)
	}
	categories, err := uc.reports.CategoryBreakdown(ctx)
	if err != nil {
		return nil, domain.Storage("category breakdown", err)
	}
	low, err := uc.products.ListLowStock(ctx)
	if err != nil {
		return nil, domain.Storage("low stock", err)
	}
	if in.CategoryID != nil {
		filtered := low[:0]
		for _, p := range low {
			if p.CategoryID != nil && *p.CategoryID == *in.CategoryID {
				filtered = append(filtered, p)
			}
		}
		low = filtered
	}

	out := &dto.InventoryReportResponse{
		Totals:     inventoryTotals(totals),
		Categories: make([]dto.CategoryStock, 0, len(categories)),
		LowStock:   dto.ProductsFromEntities(low),
	}
	for _, c := range categories {
		out.Categories = append(out.Categories, dto.CategoryStock{
			CategoryID:    c.CategoryID,
			Name:          c.Name,
			ProductCount:  c.ProductCount,
			TotalUnits:    c.TotalUnits,
			RetailValue:   c.RetailValue,
			LowStockCount: c.LowStockCount,
		})
	}
	return out, nil
}

// GetDashboard KPIs de hoy y del mes en curso.
//
// Las consultas son independientes y se lanzan en paralelo:
//  1. SalesTotals(hoy) y SalesTotals(mes)
//  2. TopProducts(mes, top 5)
//  3. InventoryTotals, ListLowStock y las últimas ventas
func (uc *ReportsUseCase) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := time.Now()
	todayStart := startOfDay(now)
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type totalsResult struct {
		totals *repository.SalesTotals
		err    error
	}
	type topResult struct {
		top []repository.TopProductResult
		err error
	}
	type inventoryResult struct {
		totals *repository.InventoryTotals
		low    []*entity.Product
		err    error
	}
	type recentResult struct {
		rows []repository.SaleRow
		err  error
	}

	todayCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)
	topCh := make(chan topResult, 1)
	invCh := make(chan inventoryResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		t, err := uc.reports.SalesTotals(ctx, repository.SaleFilter{From: &todayStart, To: &tomorrow})
		todayCh <- totalsResult{t, err}
	}()
	go func() {
		t, err := uc.reports.SalesTotals(ctx, repository.SaleFilter{From: &monthStart, To: &tomorrow})
		monthCh <- totalsResult{t, err}
	}()
	go func() {
		top, err := uc.reports.TopProducts(ctx, &monthStart, &tomorrow, dashboardTopProducts)
		topCh <- topResult{top, err}
	}()
	go func() {
		t, err := uc.reports.InventoryTotals(ctx, repository.InventoryFilter{})
		if err != nil {
			invCh <- inventoryResult{err: err}
			return
		}
		low, err := uc.products.ListLowStock(ctx)
		invCh <- inventoryResult{t, low, err}
	}()
	go func() {
		rows, err := uc.sales.List(ctx, repository.SaleFilter{Limit: dashboardRecentSales})
		recentCh <- recentResult{rows, err}
	}()

	today, month, top, inv, recent := <-todayCh, <-monthCh, <-topCh, <-invCh, <-recentCh
	for _, err := range []error{today.err, month.err, top.err, inv.err, recent.err} {
		if err != nil {
			uc.log.Error().Err(err).Msg("dashboard: consulta fallida")
			return nil, domain.Storage("dashboard", err)
		}
	}

	low := inv.low
	if len(low) > dashboardLowStock {
		low = low[:dashboardLowStock]
	}
	return &dto.DashboardResponse{
		GeneratedAt: now,
		Today:       dto.SummaryFromTotals(today.totals),
		Month:       dto.SummaryFromTotals(month.totals),
		TopProducts: dto.TopProductsFromResults(top.top),
		LowStock:    dto.ProductsFromEntities(low),
		Inventory:   inventoryTotals(inv.totals),
		RecentSales: dto.SalesFromRows(recent.rows),
	}, nil
}

func inventoryTotals(t *repository.InventoryTotals) dto.InventoryTotals {
	if t == nil {
		return dto.InventoryTotals{}
	}
	return dto.InventoryTotals{
		ProductCount:  t.ProductCount,
		TotalUnits:    t.TotalUnits,
		RetailValue:   t.RetailValue,
		CostValue:     t.CostValue,
		LowStockCount: t.LowStockCount,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
