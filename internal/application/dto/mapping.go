package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ProductFromEntity convierte una entidad en su DTO de salida.
func ProductFromEntity(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		CategoryName:  p.CategoryName,
		Name:          p.Name,
		Barcode:       p.Barcode,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		StockQuantity: p.StockQuantity,
		MinimumStock:  p.MinimumStock,
		LowStock:      p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ProductsFromEntities convierte una lista (nunca devuelve nil).
func ProductsFromEntities(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *ProductFromEntity(p))
	}
	return out
}

// CategoryFromEntity convierte una categoría.
func CategoryFromEntity(c *entity.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

// MovementFromEntity convierte un movimiento del libro.
func MovementFromEntity(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		Kind:          m.Kind,
		QuantityDelta: m.QuantityDelta,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// SaleFromEntity convierte una venta y sus líneas (lines puede ser nil).
func SaleFromEntity(s *entity.Sale, lines []*entity.SaleLine) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		CashierID:     s.CashierID,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		ReceiptNumber: s.ReceiptNumber,
		Notes:         s.Notes,
		Status:        s.Status,
		ItemCount:     len(lines),
		CreatedAt:     s.CreatedAt,
	}
	for _, l := range lines {
		out.Items = append(out.Items, SaleLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Barcode:     l.Barcode,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalPrice:  l.TotalPrice,
		})
	}
	return out
}

// SalesFromRows convierte un listado de ventas.
func SalesFromRows(rows []repository.SaleRow) []SaleResponse {
	out := make([]SaleResponse, 0, len(rows))
	for i := range rows {
		s := SaleFromEntity(&rows[i].Sale, nil)
		s.ItemCount = rows[i].ItemCount
		out = append(out, s)
	}
	return out
}

// SummaryFromTotals calcula el promedio y completa los medios de pago sin ventas con 0.
func SummaryFromTotals(t *repository.SalesTotals) SalesSummary {
	out := SalesSummary{
		TotalRevenue:    decimal.Zero,
		AverageSale:     decimal.Zero,
		ByPaymentMethod: make(map[string]int, 4),
	}
	for _, m := range entity.PaymentMethods() {
		out.ByPaymentMethod[m] = 0
	}
	if t == nil {
		return out
	}
	out.TotalSales = t.Count
	out.TotalRevenue = t.Revenue
	if t.Count > 0 {
		out.AverageSale = t.Revenue.Div(decimal.NewFromInt(int64(t.Count))).Round(2)
	}
	for m, n := range t.ByPaymentMethod {
		out.ByPaymentMethod[m] = n
	}
	return out
}

// TopProductsFromResults convierte el ranking y calcula el precio promedio.
func TopProductsFromResults(list []repository.TopProductResult) []TopProduct {
	out := make([]TopProduct, 0, len(list))
	for _, r := range list {
		avg := decimal.Zero
		if r.UnitsSold > 0 {
			avg = r.Revenue.Div(decimal.NewFromInt(int64(r.UnitsSold))).Round(2)
		}
		out = append(out, TopProduct{
			ProductID:    r.ProductID,
			Name:         r.Name,
			Barcode:      r.Barcode,
			Category:     r.Category,
			UnitsSold:    r.UnitsSold,
			Revenue:      r.Revenue,
			SalesCount:   r.SalesCount,
			AveragePrice: avg,
		})
	}
	return out
}
