package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ReportRepository agregados calculados sobre el estado en memoria.
type ReportRepository struct{ scope }

// NewReportRepository crea el repositorio.
func NewReportRepository(s *Store) *ReportRepository {
	return &ReportRepository{scope{s: s}}
}

var _ repository.ReportRepository = (*ReportRepository)(nil)

// SalesTotals cantidad y montos de las ventas confirmadas del filtro.
func (r *ReportRepository) SalesTotals(_ context.Context, f repository.SaleFilter) (*repository.SalesTotals, error) {
	defer r.lock()()
	f.Status = entity.SaleStatusCommitted
	out := &repository.SalesTotals{Revenue: decimal.Zero, ByPaymentMethod: make(map[string]int)}
	for _, s := range r.d().sales {
		if !matchesSale(s, f) {
			continue
		}
		out.Count++
		out.Revenue = out.Revenue.Add(s.TotalAmount)
		out.ByPaymentMethod[s.PaymentMethod]++
	}
	return out, nil
}

// TopProducts productos más vendidos en el rango, por unidades.
func (r *ReportRepository) TopProducts(_ context.Context, from, to *time.Time, limit int) ([]repository.TopProductResult, error) {
	defer r.lock()()
	agg := make(map[int64]*repository.TopProductResult)
	seen := make(map[int64]map[int64]bool)
	for _, l := range r.d().lines {
		s, ok := r.d().sales[l.SaleID]
		if !ok || s.Status != entity.SaleStatusCommitted || !inRange(s.CreatedAt, from, to) {
			continue
		}
		p, ok := r.d().products[l.ProductID]
		if !ok {
			continue
		}
		row, ok := agg[p.ID]
		if !ok {
			row = &repository.TopProductResult{ProductID: p.ID, Name: p.Name, Barcode: p.Barcode, Revenue: decimal.Zero}
			if p.CategoryID != nil {
				if c, ok := r.d().categories[*p.CategoryID]; ok {
					row.Category = c.Name
				}
			}
			agg[p.ID] = row
			seen[p.ID] = make(map[int64]bool)
		}
		row.UnitsSold += l.Quantity
		row.Revenue = row.Revenue.Add(l.TotalPrice)
		if !seen[p.ID][s.ID] {
			seen[p.ID][s.ID] = true
			row.SalesCount++
		}
	}
	out := make([]repository.TopProductResult, 0, len(agg))
	for _, row := range agg {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitsSold != out[j].UnitsSold {
			return out[i].UnitsSold > out[j].UnitsSold
		}
		return out[i].ProductID < out[j].ProductID
	})
	return paginate(out, limit, 0), nil
}

// InventoryTotals totales de existencias y valorización.
func (r *ReportRepository) InventoryTotals(_ context.Context, f repository.InventoryFilter) (*repository.InventoryTotals, error) {
	defer r.lock()()
	out := &repository.InventoryTotals{RetailValue: decimal.Zero, CostValue: decimal.Zero}
	for _, p := range r.d().products {
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		if f.LowStock && !p.IsLowStock() {
			continue
		}
		qty := decimal.NewFromInt(int64(p.StockQuantity))
		out.ProductCount++
		out.TotalUnits += p.StockQuantity
		out.RetailValue = out.RetailValue.Add(p.SellingPrice.Mul(qty))
		out.CostValue = out.CostValue.Add(p.PurchasePrice.Mul(qty))
		if p.IsLowStock() {
			out.LowStockCount++
		}
	}
	return out, nil
}

// CategoryBreakdown existencias agrupadas por categoría.
func (r *ReportRepository) CategoryBreakdown(_ context.Context) ([]repository.CategoryStockResult, error) {
	defer r.lock()()
	byID := make(map[int64]*repository.CategoryStockResult, len(r.d().categories))
	for _, c := range r.d().categories {
		byID[c.ID] = &repository.CategoryStockResult{CategoryID: c.ID, Name: c.Name, RetailValue: decimal.Zero}
	}
	for _, p := range r.d().products {
		if p.CategoryID == nil {
			continue
		}
		row, ok := byID[*p.CategoryID]
		if !ok {
			continue
		}
		row.ProductCount++
		row.TotalUnits += p.StockQuantity
		row.RetailValue = row.RetailValue.Add(p.SellingPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
		if p.IsLowStock() {
			row.LowStockCount++
		}
	}
	out := make([]repository.CategoryStockResult, 0, len(byID))
	for _, row := range byID {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RetailValue.Equal(out[j].RetailValue) {
			return out[i].RetailValue.GreaterThan(out[j].RetailValue)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
